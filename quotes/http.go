package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPProvider fetches quotes from a JSON quote API
// (GET {base}/quote?symbol=XYZ -> {"symbol": "...", "price": 123.45}).
// A missing or null price means the quote is unavailable.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

type quoteResponse struct {
	Symbol string   `json:"symbol"`
	Price  *float64 `json:"price"`
}

func NewHTTPProvider(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (p *HTTPProvider) GetQuote(ctx context.Context, symbol string) (float64, bool, error) {
	endpoint := fmt.Sprintf("%s/quote?symbol=%s", p.baseURL, url.QueryEscape(strings.ToUpper(symbol)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, false, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("quote request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		p.log.Warn("quote API returned unexpected status",
			zap.String("symbol", symbol),
			zap.Int("status", resp.StatusCode),
		)
		return 0, false, nil
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, false, fmt.Errorf("decode quote response: %w", err)
	}
	if body.Price == nil || *body.Price <= 0 {
		return 0, false, nil
	}
	return *body.Price, true, nil
}
