package quotes

import "context"

// Provider resolves a symbol to its current price. The boolean reports
// availability: an unavailable quote is an expected outcome, not an error.
// Implementations must bound their own lookup time.
type Provider interface {
	GetQuote(ctx context.Context, symbol string) (price float64, ok bool, err error)
}
