package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrader/ledger"
)

// writeTradeError maps ledger failures to responses: business-rule and
// validation failures are 400 with their kind, storage failures are 500 with
// a generic message so raw store errors never reach the UI.
func writeTradeError(c *gin.Context, err error) {
	if te, ok := ledger.AsTradeError(err); ok {
		if te.Business() {
			c.JSON(http.StatusBadRequest, gin.H{"error": te.Msg, "kind": string(te.Kind)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "trade could not be completed", "kind": string(te.Kind)})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "kind": string(ledger.KindStorageFailure)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "kind": string(ledger.KindInvalidInput)})
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
