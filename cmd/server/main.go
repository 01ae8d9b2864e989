package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tradewire/signalgate/internal/config"
	"github.com/tradewire/signalgate/internal/handler"
	"github.com/tradewire/signalgate/internal/middleware"
	"github.com/tradewire/signalgate/internal/pkg/logger"
	"github.com/tradewire/signalgate/internal/service"
	"github.com/tradewire/signalgate/internal/stream"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize Logger
	logger.Init(cfg.Log.Level)

	// 3. Initialize Core Services
	authSvc := service.NewAuthService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	for _, acc := range cfg.Auth.Accounts {
		if _, err := authSvc.Register(acc.ID, acc.Password, acc.Broker); err != nil {
			logger.Warn("Failed to seed account", "account", acc.ID, "error", err)
		}
	}

	signalStore := service.NewSignalStore(cfg.Signals.MaxStored)
	positionStore := service.NewPositionStore()

	// Live connection core
	registry := stream.NewRegistry()
	router := stream.NewRouter(registry)
	gateway := stream.NewGateway(registry, authSvc, signalStore, cfg.Signals.SnapshotCount)

	// Position Ticker
	ticker := service.NewPositionTicker(
		positionStore,
		router,
		time.Duration(cfg.Ticker.IntervalMs)*time.Millisecond,
		cfg.Ticker.MaxJitter,
		cfg.Trading.ContractMultiplier,
	)
	ticker.Start()

	// 4. Initialize Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	signalHandler := handler.NewSignalHandler(signalStore, router, time.Duration(cfg.Signals.ReadWindowMs)*time.Millisecond)
	positionHandler := handler.NewPositionHandler(positionStore, router, cfg.Trading)
	healthHandler := handler.NewHealthHandler(signalStore, positionStore, registry)

	// 5. Setup Router
	r := gin.Default()

	// Global Middleware
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.MetricsMiddleware())

	// Health Check
	r.GET("/health", healthHandler.Health)

	// Metrics Endpoint
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// Live Channel (token in query string, validated by the gateway)
	r.GET("/ws", gateway.Handle)

	// Auth
	r.POST("/v1/auth/register", authHandler.Register)
	r.POST("/v1/auth/login", authHandler.Login)

	// Signal Ingestion (static feed key, not user tokens)
	r.POST("/v1/signals", middleware.IngestKeyMiddleware(cfg.Auth.IngestAPIKey), signalHandler.Ingest)

	// User API
	v1 := r.Group("/v1")
	v1.Use(middleware.TokenAuthMiddleware(authSvc))
	v1.Use(middleware.RateLimitMiddleware(cfg))
	{
		v1.GET("/signals", signalHandler.List)
		v1.GET("/positions", positionHandler.List)
		v1.POST("/positions", positionHandler.Open)
		v1.DELETE("/positions/:id", positionHandler.Close)
	}

	// 6. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("🚀 SignalGate started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ticker.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	logger.Info("Server exiting")
}
