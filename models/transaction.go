package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

func (t TradeType) Valid() bool {
	return t == TradeBuy || t == TradeSell
}

// Transaction is the immutable audit record of one executed trade. It is
// written once by the trade engine and never updated or deleted.
type Transaction struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      string             `json:"userId" bson:"userId"`
	Symbol      string             `json:"symbol" bson:"symbol"`
	Type        TradeType          `json:"type" bson:"type"`
	Quantity    float64            `json:"quantity" bson:"quantity"`
	Price       float64            `json:"price" bson:"price"`
	TotalAmount float64            `json:"totalAmount" bson:"totalAmount"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
