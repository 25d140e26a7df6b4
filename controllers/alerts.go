package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"papertrader/alerts"
	"papertrader/auth"
	"papertrader/models"
)

type AlertController struct {
	Alerts alerts.Store
	Log    *zap.Logger
}

type alertRequest struct {
	Symbol    string  `json:"symbol" binding:"required"`
	Condition string  `json:"condition" binding:"required,oneof=above below"`
	Threshold float64 `json:"threshold" binding:"required,gt=0"`
}

func (ac *AlertController) CreateAlertHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": "Unauthorized"})
			return
		}

		var req alertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid alert request: "+err.Error())
			return
		}

		alert := models.Alert{
			ID:        uuid.NewString(),
			UserID:    userID,
			Symbol:    strings.ToUpper(strings.TrimSpace(req.Symbol)),
			Condition: models.AlertCondition(req.Condition),
			Threshold: req.Threshold,
			CreatedAt: time.Now().UTC(),
		}
		if err := ac.Alerts.Create(c.Request.Context(), &alert); err != nil {
			ac.Log.Error("create alert failed", zap.String("user", userID), zap.Error(err))
			internalError(c)
			return
		}
		c.JSON(http.StatusOK, alert)
	}
}

func (ac *AlertController) ListAlertsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": "Unauthorized"})
			return
		}

		list, err := ac.Alerts.ListByUser(c.Request.Context(), userID)
		if err != nil {
			ac.Log.Error("fetch alerts failed", zap.String("user", userID), zap.Error(err))
			internalError(c)
			return
		}
		if list == nil {
			list = []models.Alert{}
		}
		c.JSON(http.StatusOK, gin.H{"alerts": list})
	}
}

func (ac *AlertController) DeleteAlertHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": "Unauthorized"})
			return
		}

		id := c.Param("id")
		if err := ac.Alerts.Delete(c.Request.Context(), userID, id); err != nil {
			ac.Log.Error("delete alert failed", zap.String("user", userID), zap.Error(err))
			internalError(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "alert deleted"})
	}
}
