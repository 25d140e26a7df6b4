package models

// Balance is a user's available cash. Created lazily with the seed amount on
// first access and mutated only by the trade engine.
type Balance struct {
	UserID string  `json:"userId" bson:"userId"`
	Amount float64 `json:"amount" bson:"amount"`
}
