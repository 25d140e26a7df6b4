package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"papertrader/alerts"
	"papertrader/auth"
	"papertrader/config"
	"papertrader/controllers"
	"papertrader/db"
	"papertrader/ledger"
	"papertrader/quotes"
	"papertrader/routes"
	"papertrader/websocket"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("mongodb", zap.Error(err))
	}
	defer client.Disconnect(context.Background())
	database := client.Database(cfg.MongoDatabase)

	store, err := ledger.NewMongoStore(ctx, client, database, cfg.SeedBalance)
	if err != nil {
		logger.Fatal("ledger store", zap.Error(err))
	}
	alertStore, err := alerts.NewMongoStore(ctx, database)
	if err != nil {
		logger.Fatal("alert store", zap.Error(err))
	}

	provider, err := quotes.NewCachedProvider(
		quotes.NewHTTPProvider(cfg.QuoteAPIURL, cfg.QuoteTimeout, logger),
		cfg.QuoteCacheTTL,
	)
	if err != nil {
		logger.Fatal("quote cache", zap.Error(err))
	}

	engine := ledger.NewEngine(store, cfg.LockTimeout, logger)
	summary := ledger.NewSummaryService(store, provider, logger)

	hub := websocket.NewHub(logger)
	go hub.Run()

	evaluator := alerts.NewEvaluator(alertStore, provider, hub, cfg.AlertInterval, logger)
	go evaluator.Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: cfg.CORSOrigin != "*",
		MaxAge:           24 * time.Hour,
	}))

	secret := []byte(cfg.JWTSecret)
	routes.Register(r, routes.Deps{
		Auth:         auth.RequireUser(secret),
		Trades:       &controllers.TradeController{Engine: engine, Quotes: provider, Hub: hub, Log: logger},
		Portfolio:    &controllers.PortfolioController{Store: store, Summary: summary, Log: logger},
		Transactions: &controllers.TransactionController{Store: store, Log: logger},
		Alerts:       &controllers.AlertController{Alerts: alertStore, Log: logger},
		Hub:          hub,
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("http listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
