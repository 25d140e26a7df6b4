package ledger

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"papertrader/models"
)

// Engine applies buy/sell requests to the ledger. Every execution runs under
// the user's lock and inside one store transaction, so concurrent requests
// for the same user can never both validate against a stale snapshot and
// commit. The engine performs no network I/O; the trade price is an input.
type Engine struct {
	store       Store
	locks       *userLocks
	lockTimeout time.Duration
	log         *zap.Logger
}

type TradeResult struct {
	Balance     float64            `json:"balance"`
	Transaction models.Transaction `json:"transaction"`
}

func NewEngine(store Store, lockTimeout time.Duration, log *zap.Logger) *Engine {
	return &Engine{
		store:       store,
		locks:       newUserLocks(),
		lockTimeout: lockTimeout,
		log:         log,
	}
}

// Execute validates and atomically applies one trade, returning the new
// balance and the recorded transaction. On any failure no state is mutated.
func (e *Engine) Execute(ctx context.Context, userID, symbol string, quantity, price float64, tradeType models.TradeType) (*TradeResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := validateTrade(userID, symbol, quantity, price, tradeType); err != nil {
		return nil, err
	}

	release, err := e.locks.acquire(ctx, userID, e.lockTimeout)
	if err != nil {
		return nil, storageFailure("could not begin trade execution", err)
	}
	defer release()

	var result *TradeResult
	err = e.store.InTransaction(ctx, func(ctx context.Context) error {
		balance, err := e.store.Balances().GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		switch tradeType {
		case models.TradeBuy:
			if err := e.applyBuy(ctx, balance, symbol, quantity, price); err != nil {
				return err
			}
		case models.TradeSell:
			if err := e.applySell(ctx, balance, symbol, quantity, price); err != nil {
				return err
			}
		}

		txn := models.Transaction{
			UserID:      userID,
			Symbol:      symbol,
			Type:        tradeType,
			Quantity:    quantity,
			Price:       price,
			TotalAmount: quantity * price,
			CreatedAt:   time.Now().UTC(),
		}
		if _, err := e.store.Transactions().Append(ctx, &txn); err != nil {
			return err
		}

		result = &TradeResult{Balance: balance.Amount, Transaction: txn}
		return nil
	})
	if err != nil {
		if te, ok := AsTradeError(err); ok {
			if te.Business() {
				e.log.Debug("trade rejected",
					zap.String("user", userID),
					zap.String("symbol", symbol),
					zap.String("kind", string(te.Kind)),
				)
			}
			return nil, te
		}
		e.log.Error("trade execution failed", zap.String("user", userID), zap.Error(err))
		return nil, storageFailure("trade could not be committed", err)
	}

	e.log.Info("trade executed",
		zap.String("user", userID),
		zap.String("symbol", symbol),
		zap.String("type", string(tradeType)),
		zap.Float64("quantity", quantity),
		zap.Float64("price", price),
		zap.Float64("balance", result.Balance),
	)
	return result, nil
}

func (e *Engine) applyBuy(ctx context.Context, balance *models.Balance, symbol string, quantity, price float64) error {
	cost := quantity * price
	if cost > balance.Amount {
		return insufficientFunds()
	}
	balance.Amount -= cost

	holding, err := e.store.Holdings().Find(ctx, balance.UserID, symbol)
	if err != nil {
		return err
	}
	if holding != nil {
		// Volume-weighted average cost over the combined position.
		holding.AvgPrice = (holding.Quantity*holding.AvgPrice + cost) / (holding.Quantity + quantity)
		holding.Quantity += quantity
	} else {
		holding = &models.Holding{
			UserID:   balance.UserID,
			Symbol:   symbol,
			Quantity: quantity,
			AvgPrice: price,
		}
	}

	if err := e.store.Balances().Save(ctx, balance); err != nil {
		return err
	}
	return e.store.Holdings().Upsert(ctx, holding)
}

func (e *Engine) applySell(ctx context.Context, balance *models.Balance, symbol string, quantity, price float64) error {
	holding, err := e.store.Holdings().Find(ctx, balance.UserID, symbol)
	if err != nil {
		return err
	}
	if holding == nil || holding.Quantity < quantity {
		return insufficientShares()
	}

	balance.Amount += quantity * price
	holding.Quantity -= quantity

	if err := e.store.Balances().Save(ctx, balance); err != nil {
		return err
	}
	if holding.Quantity <= 0 {
		// Fully closed positions are removed; avgPrice of remaining shares
		// is never recomputed on a sell.
		return e.store.Holdings().Delete(ctx, balance.UserID, symbol)
	}
	return e.store.Holdings().Upsert(ctx, holding)
}

func validateTrade(userID, symbol string, quantity, price float64, tradeType models.TradeType) error {
	if userID == "" {
		return invalidInput("user is required")
	}
	if symbol == "" {
		return invalidInput("symbol is required")
	}
	if quantity <= 0 {
		return invalidInput("quantity must be positive")
	}
	if price <= 0 {
		return invalidInput("price must be positive")
	}
	if !tradeType.Valid() {
		return invalidInput("type must be 'buy' or 'sell'")
	}
	return nil
}
