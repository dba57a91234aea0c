package http

import (
	"github.com/gin-gonic/gin"
	"github.com/suptia/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		prices := v1.Group("/prices")
		{
			prices.POST("/sync", handler.SyncPrices)
		}

		ingredients := v1.Group("/ingredients")
		{
			ingredients.POST("/validate", handler.ValidateIngredients)
			ingredients.GET("/:name", handler.GetIngredientReference)
		}

		products := v1.Group("/products")
		{
			products.GET("/:id/score", handler.GetProductScore)
		}
	}

	return router
}
