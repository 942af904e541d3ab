package restapi

import (
	"usdc_bridge/internal/infrastructure/configloader"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter wires middleware and routes into a new gin engine.
func SetupRouter(h *BridgeHandler, zapLogger *zap.Logger, cfg configloader.ServerConfig) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())
	router.Use(MetricsMiddleware())

	router.GET("/healthz", HealthzHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		api.GET("/quote", h.GetQuoteHandler)
		api.POST("/bridge", h.PostBridgeHandler)
		api.GET("/networks", h.GetNetworksHandler)
	}

	router.NoRoute(NotFoundHandler)
	return router
}
