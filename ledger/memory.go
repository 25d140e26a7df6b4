package ledger

import (
	"context"
	"maps"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"papertrader/models"
)

type memTxnKey struct{}

// MemoryStore is an in-process Store used by tests and local runs without a
// MongoDB. InTransaction holds the store lock for the whole callback and
// rolls the maps back on error, mirroring the all-or-nothing behavior of the
// Mongo session transaction. Repository calls made through the transaction's
// context skip locking; calls outside a transaction lock per operation.
type MemoryStore struct {
	mu           sync.Mutex
	seedBalance  float64
	balances     map[string]models.Balance
	holdings     map[string]models.Holding
	transactions []models.Transaction
}

func NewMemoryStore(seedBalance float64) *MemoryStore {
	return &MemoryStore{
		seedBalance: seedBalance,
		balances:    make(map[string]models.Balance),
		holdings:    make(map[string]models.Holding),
	}
}

func (s *MemoryStore) Balances() Balances         { return &memBalances{s} }
func (s *MemoryStore) Holdings() Holdings         { return &memHoldings{s} }
func (s *MemoryStore) Transactions() Transactions { return &memTransactions{s} }

func (s *MemoryStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	balancesSnap := maps.Clone(s.balances)
	holdingsSnap := maps.Clone(s.holdings)
	txnCount := len(s.transactions)

	if err := fn(context.WithValue(ctx, memTxnKey{}, s)); err != nil {
		s.balances = balancesSnap
		s.holdings = holdingsSnap
		s.transactions = s.transactions[:txnCount]
		return err
	}
	return nil
}

// lock is a no-op when ctx belongs to an open transaction, which already
// holds the store lock.
func (s *MemoryStore) lock(ctx context.Context) func() {
	if ctx.Value(memTxnKey{}) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func holdingKey(userID, symbol string) string { return userID + "|" + symbol }

type memBalances struct{ s *MemoryStore }

func (r *memBalances) GetOrCreate(ctx context.Context, userID string) (*models.Balance, error) {
	defer r.s.lock(ctx)()
	if b, ok := r.s.balances[userID]; ok {
		return &b, nil
	}
	b := models.Balance{UserID: userID, Amount: r.s.seedBalance}
	r.s.balances[userID] = b
	return &b, nil
}

func (r *memBalances) Save(ctx context.Context, balance *models.Balance) error {
	defer r.s.lock(ctx)()
	r.s.balances[balance.UserID] = *balance
	return nil
}

type memHoldings struct{ s *MemoryStore }

func (r *memHoldings) Find(ctx context.Context, userID, symbol string) (*models.Holding, error) {
	defer r.s.lock(ctx)()
	if h, ok := r.s.holdings[holdingKey(userID, symbol)]; ok {
		return &h, nil
	}
	return nil, nil
}

func (r *memHoldings) Upsert(ctx context.Context, holding *models.Holding) error {
	defer r.s.lock(ctx)()
	r.s.holdings[holdingKey(holding.UserID, holding.Symbol)] = *holding
	return nil
}

func (r *memHoldings) Delete(ctx context.Context, userID, symbol string) error {
	defer r.s.lock(ctx)()
	delete(r.s.holdings, holdingKey(userID, symbol))
	return nil
}

func (r *memHoldings) ListByUser(ctx context.Context, userID string) ([]models.Holding, error) {
	defer r.s.lock(ctx)()
	var holdings []models.Holding
	for _, h := range r.s.holdings {
		if h.UserID == userID {
			holdings = append(holdings, h)
		}
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return holdings, nil
}

type memTransactions struct{ s *MemoryStore }

func (r *memTransactions) Append(ctx context.Context, txn *models.Transaction) (string, error) {
	defer r.s.lock(ctx)()
	txn.ID = primitive.NewObjectID()
	r.s.transactions = append(r.s.transactions, *txn)
	return txn.ID.Hex(), nil
}

func (r *memTransactions) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Transaction, error) {
	defer r.s.lock(ctx)()
	var txns []models.Transaction
	for i := len(r.s.transactions) - 1; i >= 0 && int64(len(txns)) < limit; i-- {
		if r.s.transactions[i].UserID == userID {
			txns = append(txns, r.s.transactions[i])
		}
	}
	return txns, nil
}
