package restapi

import (
	"net/http"
	"net/http/pprof"
	"time"

	"trader_intel/internal/config"
	"trader_intel/internal/gateway"
	"trader_intel/internal/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter wires the dashboard API, the provider relay routes and the
// operational endpoints onto a single Gin engine.
func SetupRouter(handler *Handler, cfg *config.Config, nansenKey, moralisKey string, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // Adjust for production
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(utils.ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", handler.AnalyzeHandler)
		v1.GET("/wallets/:address", handler.WalletHandler)
		v1.POST("/wallets/batch-pnl", handler.BatchPnLHandler)
		v1.GET("/tokens/:address/holders", handler.HoldersHandler)
		v1.POST("/export/:format", handler.ExportHandler)
	}

	// Relay routes for browser callers that talk to the providers directly.
	// Credentials are injected here so they never reach the client side.
	proxyTimeout := time.Duration(cfg.Nansen.RequestTimeoutMillis) * time.Millisecond
	proxy := gateway.NewProxy(proxyTimeout, logger)
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

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	return router
}
