package ledger

import (
	"context"

	"papertrader/models"
)

// Balances persists per-user cash. GetOrCreate seeds a missing balance with
// the store's configured default so lazy creation is an explicit, named
// operation rather than a side effect of a read.
type Balances interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Balance, error)
	Save(ctx context.Context, balance *models.Balance) error
}

// Holdings persists open positions keyed by (userID, symbol).
type Holdings interface {
	// Find returns (nil, nil) when no position exists.
	Find(ctx context.Context, userID, symbol string) (*models.Holding, error)
	Upsert(ctx context.Context, holding *models.Holding) error
	Delete(ctx context.Context, userID, symbol string) error
	ListByUser(ctx context.Context, userID string) ([]models.Holding, error)
}

// Transactions is the append-only trade audit log.
type Transactions interface {
	Append(ctx context.Context, txn *models.Transaction) (string, error)
	// ListByUser returns transactions newest first.
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Transaction, error)
}

// Store bundles the three ledger collections. InTransaction runs fn so that
// either every write issued through the fn's context commits or none do;
// repositories join the transaction through that context.
type Store interface {
	Balances() Balances
	Holdings() Holdings
	Transactions() Transactions
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
