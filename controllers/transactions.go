package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"papertrader/auth"
	"papertrader/ledger"
	"papertrader/models"
)

type TransactionController struct {
	Store ledger.Store
	Log   *zap.Logger
}

// ListTransactionsHandler returns the user's trade history, newest first.
func (tc *TransactionController) ListTransactionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": "Unauthorized"})
			return
		}

		limit := parseLimit(c.Query("limit"), 50, 1, 500)
		txns, err := tc.Store.Transactions().ListByUser(c.Request.Context(), userID, int64(limit))
		if err != nil {
			tc.Log.Error("fetch transactions failed", zap.String("user", userID), zap.Error(err))
			internalError(c)
			return
		}
		if txns == nil {
			txns = []models.Transaction{}
		}
		c.JSON(http.StatusOK, gin.H{"transactions": txns})
	}
}

func parseLimit(v string, def, min, max int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return def
	}
	return n
}
