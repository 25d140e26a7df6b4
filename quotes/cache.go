package quotes

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

// CachedProvider memoizes available quotes for a TTL so that summary and
// alert sweeps do not hammer the quote API. Unavailable quotes are not
// cached; the next call retries the backend.
type CachedProvider struct {
	next Provider
	c    *ristretto.Cache
	ttl  time.Duration
}

func NewCachedProvider(next Provider, ttl time.Duration) (*CachedProvider, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedProvider{next: next, c: c, ttl: ttl}, nil
}

func (p *CachedProvider) GetQuote(ctx context.Context, symbol string) (float64, bool, error) {
	if v, found := p.c.Get(symbol); found {
		return v.(float64), true, nil
	}
	price, ok, err := p.next.GetQuote(ctx, symbol)
	if err != nil || !ok {
		return 0, false, err
	}
	p.c.SetWithTTL(symbol, price, 1, p.ttl)
	return price, true, nil
}

// Wait flushes pending cache writes. Ristretto applies sets asynchronously;
// callers that need read-your-write behavior call this first.
func (p *CachedProvider) Wait() { p.c.Wait() }
