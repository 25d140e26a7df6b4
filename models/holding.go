package models

// Holding is a user's open position in one symbol. A holding document exists
// only while its quantity is positive; a full close deletes it.
type Holding struct {
	UserID   string  `json:"userId" bson:"userId"`
	Symbol   string  `json:"symbol" bson:"symbol"`
	Quantity float64 `json:"quantity" bson:"quantity"`
	AvgPrice float64 `json:"avgPrice" bson:"avgPrice"`
}

// CostBasis is the total amount invested in the position at average cost.
func (h Holding) CostBasis() float64 {
	return h.Quantity * h.AvgPrice
}
