package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"papertrader/auth"
	"papertrader/ledger"
)

type PortfolioController struct {
	Store   ledger.Store
	Summary *ledger.SummaryService
	Log     *zap.Logger
}

// GetPortfolioHandler returns the user's cash balance and open positions.
func (pc *PortfolioController) GetPortfolioHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": "Unauthorized"})
			return
		}

		ctx := c.Request.Context()
		balance, err := pc.Store.Balances().GetOrCreate(ctx, userID)
		if err != nil {
			pc.Log.Error("fetch balance failed", zap.String("user", userID), zap.Error(err))
			internalError(c)
			return
		}
		holdings, err := pc.Store.Holdings().ListByUser(ctx, userID)
		if err != nil {
			pc.Log.Error("fetch holdings failed", zap.String("user", userID), zap.Error(err))
			internalError(c)
			return
		}

		c.JSON(http.StatusOK, gin.H{"balance": balance, "holdings": holdings})
	}
}

// GetSummaryHandler returns the valued portfolio projection.
func (pc *PortfolioController) GetSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": "Unauthorized"})
			return
		}

		summary, err := pc.Summary.Summarize(c.Request.Context(), userID)
		if err != nil {
			pc.Log.Error("portfolio summary failed", zap.String("user", userID), zap.Error(err))
			internalError(c)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
