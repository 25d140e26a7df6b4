package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrader/controllers"
	"papertrader/websocket"
)

type Deps struct {
	Auth         gin.HandlerFunc
	Trades       *controllers.TradeController
	Portfolio    *controllers.PortfolioController
	Transactions *controllers.TransactionController
	Alerts       *controllers.AlertController
	Hub          *websocket.Hub
}

// Register wires every HTTP surface onto the router. Everything under /api
// requires a resolved user; /health and the websocket upgrade do not (the
// websocket authenticates via its token query parameter inside d.Auth).
func Register(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/ws", d.Auth, func(c *gin.Context) {
		d.Hub.ServeWs(c.Writer, c.Request)
	})

	api := r.Group("/api", d.Auth)
	{
		api.POST("/trades", d.Trades.ExecuteTradeHandler())
		api.GET("/transactions", d.Transactions.ListTransactionsHandler())

		api.GET("/portfolio", d.Portfolio.GetPortfolioHandler())
		api.GET("/portfolio/summary", d.Portfolio.GetSummaryHandler())

		api.POST("/alerts", d.Alerts.CreateAlertHandler())
		api.GET("/alerts", d.Alerts.ListAlertsHandler())
		api.DELETE("/alerts/:id", d.Alerts.DeleteAlertHandler())
	}
}
