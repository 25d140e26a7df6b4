package models

import "time"

type AlertCondition string

const (
	AlertAbove AlertCondition = "above"
	AlertBelow AlertCondition = "below"
)

func (c AlertCondition) Valid() bool {
	return c == AlertAbove || c == AlertBelow
}

// Alert is a price alert owned by the alert subsystem. Alerts read ledger
// state and quotes but never touch balances or holdings.
type Alert struct {
	ID             string         `json:"id" bson:"_id"`
	UserID         string         `json:"userId" bson:"userId"`
	Symbol         string         `json:"symbol" bson:"symbol"`
	Condition      AlertCondition `json:"condition" bson:"condition"`
	Threshold      float64        `json:"threshold" bson:"threshold"`
	Triggered      bool           `json:"triggered" bson:"triggered"`
	TriggeredPrice float64        `json:"triggeredPrice,omitempty" bson:"triggeredPrice,omitempty"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
	TriggeredAt    *time.Time     `json:"triggeredAt,omitempty" bson:"triggeredAt,omitempty"`
}
