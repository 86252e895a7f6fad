package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trader_intel/internal/config"
	"trader_intel/internal/gateway"
	"trader_intel/internal/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Standalone credential-injecting relay for browser clients. It exposes the
// same /api/nansen and /api/moralis routes the main server does, without the
// analysis API, so it can be deployed next to a static frontend.
func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	if err := godotenv.Load(); err != nil {
		zapLogger.Debug("No .env file found, relying on process environment")
	}
	nansenKey := os.Getenv("NANSEN_API_KEY")
	moralisKey := os.Getenv("MORALIS_API_KEY")
	if nansenKey == "" {
		zapLogger.Fatal("NANSEN_API_KEY is not set")
	}
	if moralisKey == "" {
		zapLogger.Fatal("MORALIS_API_KEY is not set")
	}

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		zapLogger.Warn("Failed to load configuration, using defaults", zap.Error(err))
		cfg = config.Default()
	}

	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(utils.ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	proxyTimeout := time.Duration(cfg.Nansen.RequestTimeoutMillis) * time.Millisecond
	proxy := gateway.NewProxy(proxyTimeout, zapLogger)
	proxy.Register(router, gateway.Provider{
		Name:      "nansen",
		BaseURL:   cfg.Nansen.BaseURL,
		APIKey:    nansenKey,
		KeyHeader: "apiKey",
	})
	proxy.Register(router, gateway.Provider{
		Name:      "moralis",
		BaseURL:   cfg.Moralis.BaseURL,
		APIKey:    moralisKey,
		KeyHeader: "X-API-Key",
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	port := utils.GetEnv("GATEWAY_PORT", ":3001")
	srv := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Gateway starting on port %s", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start gateway", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down gateway...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Gateway forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Gateway exiting")
}
