package alerts

import (
	"context"
	"time"

	"go.uber.org/zap"

	"papertrader/models"
	"papertrader/quotes"
	"papertrader/websocket"
)

// Evaluator periodically checks active alerts against real quotes and marks
// the ones whose threshold has been crossed, pushing an event to the hub.
// It is a downstream consumer of ledger state and never writes to it.
type Evaluator struct {
	store    Store
	quotes   quotes.Provider
	hub      *websocket.Hub
	interval time.Duration
	log      *zap.Logger
}

func NewEvaluator(store Store, provider quotes.Provider, hub *websocket.Hub, interval time.Duration, log *zap.Logger) *Evaluator {
	return &Evaluator{
		store:    store,
		quotes:   provider,
		hub:      hub,
		interval: interval,
		log:      log,
	}
}

// Run sweeps on a ticker until ctx is canceled.
func (e *Evaluator) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.sweep(ctx)
		}
	}
}

func (e *Evaluator) sweep(ctx context.Context) {
	active, err := e.store.ListActive(ctx)
	if err != nil {
		e.log.Error("alert sweep failed", zap.Error(err))
		return
	}

	for _, alert := range active {
		price, ok, err := e.quotes.GetQuote(ctx, alert.Symbol)
		if err != nil {
			e.log.Debug("quote lookup failed", zap.String("symbol", alert.Symbol), zap.Error(err))
			continue
		}
		if !ok || !crossed(alert, price) {
			continue
		}

		now := time.Now().UTC()
		if err := e.store.MarkTriggered(ctx, alert.ID, price, now); err != nil {
			e.log.Error("could not mark alert triggered", zap.String("alert", alert.ID), zap.Error(err))
			continue
		}

		e.log.Info("alert triggered",
			zap.String("alert", alert.ID),
			zap.String("user", alert.UserID),
			zap.String("symbol", alert.Symbol),
			zap.Float64("price", price),
		)
		e.hub.Publish("alert_triggered", map[string]any{
			"id":        alert.ID,
			"userId":    alert.UserID,
			"symbol":    alert.Symbol,
			"condition": alert.Condition,
			"threshold": alert.Threshold,
			"price":     price,
		})
	}
}

func crossed(alert models.Alert, price float64) bool {
	switch alert.Condition {
	case models.AlertAbove:
		return price >= alert.Threshold
	case models.AlertBelow:
		return price <= alert.Threshold
	default:
		return false
	}
}
