package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"trader_intel/internal/client"
	"trader_intel/internal/config"
	"trader_intel/internal/pkg/utils"
	"trader_intel/internal/restapi"
	"trader_intel/internal/service"
	"trader_intel/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	// Initialize logger (using logrus for now as per existing config, but can switch to zap native)
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	// Default level, will be updated by config
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync() // flushes buffer, if any

	slogHandler := zapslog.NewHandler(zapLogger.Core())
	stdLogger := slog.New(slogHandler)
	slog.SetDefault(stdLogger)

	// Provider keys are read from the environment, never from config files.
	if err := godotenv.Load(); err != nil {
		zapLogger.Debug("No .env file found, relying on process environment")
	}
	nansenKey := os.Getenv("NANSEN_API_KEY")
	moralisKey := os.Getenv("MORALIS_API_KEY")
	if nansenKey == "" {
		log.Fatal("NANSEN_API_KEY is not set")
	}
	if moralisKey == "" {
		log.Fatal("MORALIS_API_KEY is not set")
	}

	// Load configuration
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Update log level from config
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetOutput(file)
		} else {
			log.Infof("Failed to log to file, using default stdout: %v", err)
		}
	}

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	// Initialize Prometheus metrics
	metrics.MustRegisterMetrics()

	// Initialize provider clients
	nansenClient := client.NewNansenClient(cfg.Nansen, nansenKey, zapLogger)
	zapLogger.Info("Nansen client initialized", zap.String("baseURL", cfg.Nansen.BaseURL))

	moralisClient := client.NewMoralisClient(cfg.Moralis, moralisKey, zapLogger)
	zapLogger.Info("Moralis client initialized", zap.String("baseURL", cfg.Moralis.BaseURL))

	// Initialize services
	analysisSvc := service.NewAnalysisService(nansenClient, cfg, zapLogger)
	zapLogger.Info("AnalysisService initialized")

	walletSvc := service.NewWalletService(nansenClient, moralisClient, cfg, zapLogger)
	zapLogger.Info("WalletService initialized")

	handler := restapi.NewHandler(analysisSvc, walletSvc, zapLogger)
	router := restapi.SetupRouter(handler, cfg, nansenKey, moralisKey, zapLogger)

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
