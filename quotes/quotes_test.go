package quotes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func quoteServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		switch r.URL.Query().Get("symbol") {
		case "AAPL":
			fmt.Fprint(w, `{"symbol":"AAPL","price":123.45}`)
		case "NOPX":
			fmt.Fprint(w, `{"symbol":"NOPX","price":null}`)
		case "BOOM":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPProviderGetQuote(t *testing.T) {
	srv := quoteServer(t, nil)
	provider := NewHTTPProvider(srv.URL, time.Second, zap.NewNop())
	ctx := context.Background()

	price, ok, err := provider.GetQuote(ctx, "aapl")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 123.45, price, 1e-9)

	_, ok, err = provider.GetQuote(ctx, "NOPX")
	require.NoError(t, err)
	assert.False(t, ok, "null price means unavailable, not an error")

	_, ok, err = provider.GetQuote(ctx, "UNKNOWN")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = provider.GetQuote(ctx, "BOOM")
	require.NoError(t, err)
	assert.False(t, ok, "upstream 5xx degrades to unavailable")
}

func TestHTTPProviderTransportError(t *testing.T) {
	provider := NewHTTPProvider("http://127.0.0.1:1", 50*time.Millisecond, zap.NewNop())
	_, ok, err := provider.GetQuote(context.Background(), "AAPL")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCachedProviderMemoizesAvailableQuotes(t *testing.T) {
	var hits atomic.Int64
	srv := quoteServer(t, &hits)
	cached, err := NewCachedProvider(NewHTTPProvider(srv.URL, time.Second, zap.NewNop()), time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	price, ok, err := cached.GetQuote(ctx, "AAPL")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 123.45, price, 1e-9)
	cached.Wait()

	price, ok, err = cached.GetQuote(ctx, "AAPL")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 123.45, price, 1e-9)
	assert.Equal(t, int64(1), hits.Load(), "second lookup served from cache")
}

func TestCachedProviderDoesNotCacheUnavailable(t *testing.T) {
	var hits atomic.Int64
	srv := quoteServer(t, &hits)
	cached, err := NewCachedProvider(NewHTTPProvider(srv.URL, time.Second, zap.NewNop()), time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := cached.GetQuote(ctx, "NOPX")
	require.NoError(t, err)
	require.False(t, ok)
	cached.Wait()

	_, _, err = cached.GetQuote(ctx, "NOPX")
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load(), "unavailable quotes are retried")
}
