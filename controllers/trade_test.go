package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"papertrader/alerts"
	"papertrader/auth"
	"papertrader/controllers"
	"papertrader/ledger"
	"papertrader/routes"
	"papertrader/websocket"
)

var testSecret = []byte("test-secret")

type stubQuotes struct {
	prices map[string]float64
}

func (s *stubQuotes) GetQuote(_ context.Context, symbol string) (float64, bool, error) {
	price, ok := s.prices[symbol]
	return price, ok, nil
}

func newTestRouter(t *testing.T, seed float64, prices map[string]float64) (*gin.Engine, *ledger.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store := ledger.NewMemoryStore(seed)
	provider := &stubQuotes{prices: prices}
	engine := ledger.NewEngine(store, time.Second, logger)
	summary := ledger.NewSummaryService(store, provider, logger)

	hub := websocket.NewHub(logger)
	go hub.Run()

	r := gin.New()
	routes.Register(r, routes.Deps{
		Auth:         auth.RequireUser(testSecret),
		Trades:       &controllers.TradeController{Engine: engine, Quotes: provider, Hub: hub, Log: logger},
		Portfolio:    &controllers.PortfolioController{Store: store, Summary: summary, Log: logger},
		Transactions: &controllers.TransactionController{Store: store, Log: logger},
		Alerts:       &controllers.AlertController{Alerts: alerts.NewMemoryStore(), Log: logger},
		Hub:          hub,
	})
	return r, store
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func userToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, time.Hour, testSecret)
	require.NoError(t, err)
	return token
}

func TestExecuteTradeRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t, 100000, nil)

	w := doRequest(t, r, http.MethodPost, "/api/trades", "", `{"symbol":"AAPL","quantity":1,"price":100,"type":"buy"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/trades", "not-a-jwt", `{"symbol":"AAPL","quantity":1,"price":100,"type":"buy"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExecuteTradeHappyPath(t *testing.T) {
	r, _ := newTestRouter(t, 100000, nil)
	token := userToken(t, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/trades", token, `{"symbol":"AAPL","quantity":10,"price":200,"type":"buy"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Balance     float64 `json:"balance"`
		Transaction struct {
			Symbol      string  `json:"symbol"`
			TotalAmount float64 `json:"totalAmount"`
		} `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 98000, resp.Balance, 1e-9)
	assert.Equal(t, "AAPL", resp.Transaction.Symbol)
	assert.InDelta(t, 2000, resp.Transaction.TotalAmount, 1e-9)
}

func TestExecuteTradeResolvesPriceFromQuotes(t *testing.T) {
	r, _ := newTestRouter(t, 100000, map[string]float64{"MSFT": 250})
	token := userToken(t, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/trades", token, `{"symbol":"MSFT","quantity":4,"type":"buy"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Balance float64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 100000-4*250, resp.Balance, 1e-9)

	// No quote for this one and no client price either.
	w = doRequest(t, r, http.MethodPost, "/api/trades", token, `{"symbol":"ZZZZ","quantity":1,"type":"buy"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExecuteTradeBusinessErrors(t *testing.T) {
	r, _ := newTestRouter(t, 500, nil)
	token := userToken(t, "bob")

	w := doRequest(t, r, http.MethodPost, "/api/trades", token, `{"symbol":"AAPL","quantity":10,"price":100,"type":"buy"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "InsufficientFunds", resp["kind"])
	assert.Equal(t, "insufficient funds", resp["error"])

	w = doRequest(t, r, http.MethodPost, "/api/trades", token, `{"symbol":"TSLA","quantity":1,"price":100,"type":"sell"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "InsufficientShares", resp["kind"])
}

func TestExecuteTradeRejectsBadPayload(t *testing.T) {
	r, _ := newTestRouter(t, 100000, nil)
	token := userToken(t, "alice")

	for _, body := range []string{
		`{"symbol":"AAPL","quantity":-1,"price":100,"type":"buy"}`,
		`{"symbol":"AAPL","quantity":1,"price":100,"type":"hold"}`,
		`{"quantity":1,"price":100,"type":"buy"}`,
		`not json`,
	} {
		w := doRequest(t, r, http.MethodPost, "/api/trades", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestTransactionHistoryNewestFirst(t *testing.T) {
	r, _ := newTestRouter(t, 100000, nil)
	token := userToken(t, "alice")

	for _, body := range []string{
		`{"symbol":"AAPL","quantity":1,"price":100,"type":"buy"}`,
		`{"symbol":"MSFT","quantity":2,"price":200,"type":"buy"}`,
	} {
		w := doRequest(t, r, http.MethodPost, "/api/trades", token, body)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(t, r, http.MethodGet, "/api/transactions?limit=10", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Transactions []struct {
			Symbol string `json:"symbol"`
		} `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 2)
	assert.Equal(t, "MSFT", resp.Transactions[0].Symbol)
	assert.Equal(t, "AAPL", resp.Transactions[1].Symbol)

	// Other users never see alice's history.
	w = doRequest(t, r, http.MethodGet, "/api/transactions", userToken(t, "mallory"), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Transactions)
}

func TestPortfolioAndSummaryEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, 100000, map[string]float64{"AAPL": 250})
	token := userToken(t, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/trades", token, `{"symbol":"AAPL","quantity":10,"price":200,"type":"buy"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/portfolio", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var portfolio struct {
		Balance struct {
			Amount float64 `json:"amount"`
		} `json:"balance"`
		Holdings []struct {
			Symbol   string  `json:"symbol"`
			Quantity float64 `json:"quantity"`
		} `json:"holdings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &portfolio))
	assert.InDelta(t, 98000, portfolio.Balance.Amount, 1e-9)
	require.Len(t, portfolio.Holdings, 1)
	assert.Equal(t, "AAPL", portfolio.Holdings[0].Symbol)

	w = doRequest(t, r, http.MethodGet, "/api/portfolio/summary", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		TotalInvested    float64 `json:"totalInvested"`
		TotalMarketValue float64 `json:"totalMarketValue"`
		HoldingCount     int     `json:"holdingCount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.HoldingCount)
	assert.InDelta(t, 2000, summary.TotalInvested, 1e-9)
	assert.InDelta(t, 2500, summary.TotalMarketValue, 1e-9)
}

func TestAlertLifecycle(t *testing.T) {
	r, _ := newTestRouter(t, 100000, nil)
	token := userToken(t, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/alerts", token, `{"symbol":"aapl","condition":"above","threshold":300}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "AAPL", created.Symbol)
	require.NotEmpty(t, created.ID)

	w = doRequest(t, r, http.MethodGet, "/api/alerts", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Alerts []struct {
			ID string `json:"id"`
		} `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Alerts, 1)

	w = doRequest(t, r, http.MethodDelete, "/api/alerts/"+created.ID, token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/alerts", token, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Empty(t, listed.Alerts)
}
