package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"papertrader/auth"
	"papertrader/ledger"
	"papertrader/models"
	"papertrader/quotes"
	"papertrader/websocket"
)

type TradeController struct {
	Engine *ledger.Engine
	Quotes quotes.Provider
	Hub    *websocket.Hub
	Log    *zap.Logger
}

type tradeRequest struct {
	Symbol   string  `json:"symbol" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Price    float64 `json:"price"`
	Type     string  `json:"type" binding:"required,oneof=buy sell"`
}

// ExecuteTradeHandler resolves the price (from the request or the quote
// provider) and hands the trade to the engine. All network I/O happens here,
// before the engine's critical section.
func (tc *TradeController) ExecuteTradeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": "Unauthorized"})
			return
		}

		var req tradeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid trade request: "+err.Error())
			return
		}

		price := req.Price
		if price == 0 {
			quoteCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			quoted, available, err := tc.Quotes.GetQuote(quoteCtx, req.Symbol)
			cancel()
			if err != nil || !available {
				badRequest(c, "price unavailable for "+req.Symbol)
				return
			}
			price = quoted
		}

		result, err := tc.Engine.Execute(c.Request.Context(), userID, req.Symbol, req.Quantity, price, models.TradeType(req.Type))
		if err != nil {
			writeTradeError(c, err)
			return
		}

		tc.Hub.Publish("trade_executed", gin.H{
			"userId":      userID,
			"transaction": result.Transaction,
			"balance":     result.Balance,
		})
		c.JSON(http.StatusOK, result)
	}
}
