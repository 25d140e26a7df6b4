package ledger

import (
	"context"

	"go.uber.org/zap"

	"papertrader/models"
	"papertrader/quotes"
)

// SummaryService is a read-only projection over holdings and live quotes. It
// never mutates ledger state, and a quote failure for one symbol degrades
// that position to its cost basis without failing the whole summary.
type SummaryService struct {
	holdings Holdings
	quotes   quotes.Provider
	log      *zap.Logger
}

func NewSummaryService(store Store, provider quotes.Provider, log *zap.Logger) *SummaryService {
	return &SummaryService{holdings: store.Holdings(), quotes: provider, log: log}
}

func (s *SummaryService) Summarize(ctx context.Context, userID string) (*models.PortfolioSummary, error) {
	holdings, err := s.holdings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.PortfolioSummary{
		HoldingCount: len(holdings),
		Positions:    make([]models.PositionValuation, 0, len(holdings)),
	}
	for _, h := range holdings {
		price, ok, err := s.quotes.GetQuote(ctx, h.Symbol)
		if err != nil {
			s.log.Debug("quote lookup failed", zap.String("symbol", h.Symbol), zap.Error(err))
			ok = false
		}
		if !ok {
			price = h.AvgPrice
		}

		pos := models.PositionValuation{
			Symbol:         h.Symbol,
			Quantity:       h.Quantity,
			AvgPrice:       h.AvgPrice,
			CurrentPrice:   price,
			QuoteAvailable: ok,
			CostBasis:      h.CostBasis(),
			MarketValue:    h.Quantity * price,
		}
		pos.UnrealizedPnL = pos.MarketValue - pos.CostBasis

		summary.TotalInvested += pos.CostBasis
		summary.TotalMarketValue += pos.MarketValue
		summary.TotalPnL += pos.UnrealizedPnL
		summary.Positions = append(summary.Positions, pos)
	}
	return summary, nil
}
