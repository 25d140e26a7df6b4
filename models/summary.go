package models

// PositionValuation is one holding valued against a live quote. When no quote
// is available the position degrades to its cost basis and QuoteAvailable is
// false.
type PositionValuation struct {
	Symbol         string  `json:"symbol"`
	Quantity       float64 `json:"quantity"`
	AvgPrice       float64 `json:"avgPrice"`
	CurrentPrice   float64 `json:"currentPrice"`
	QuoteAvailable bool    `json:"quoteAvailable"`
	CostBasis      float64 `json:"costBasis"`
	MarketValue    float64 `json:"marketValue"`
	UnrealizedPnL  float64 `json:"unrealizedPnL"`
}

type PortfolioSummary struct {
	TotalInvested    float64             `json:"totalInvested"`
	TotalMarketValue float64             `json:"totalMarketValue"`
	TotalPnL         float64             `json:"totalPnL"`
	HoldingCount     int                 `json:"holdingCount"`
	Positions        []PositionValuation `json:"positions"`
}
