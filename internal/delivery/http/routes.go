package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iammike/cardcheck/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	httpLogger := logger.Named("http")

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(httpLogger))
	router.Use(LoggerMiddleware(httpLogger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/cards/extract", handler.ExtractCard)
		v1.POST("/search", handler.Search)
		v1.POST("/prices", handler.Prices)

		lookup := v1.Group("/lookup")
		{
			lookup.POST("", handler.Lookup)
			lookup.POST("/select", handler.SelectCandidate)
		}
	}

	return router
}
