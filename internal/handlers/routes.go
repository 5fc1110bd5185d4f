package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/youlserf/recipehub/internal/config"
	"github.com/youlserf/recipehub/internal/middleware"
	"github.com/youlserf/recipehub/internal/services"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	RecipeService services.RecipeService
	Logger        *logrus.Logger
	Server        config.ServerConfig
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouterConfig) {
	recipeHandler := NewRecipeHandler(cfg.RecipeService, cfg.Logger)

	if cfg.Server.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/health", recipeHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	recipes := router.Group("/recipe")
	recipes.Use(middleware.RequestValidation())
	{
		recipes.POST("", recipeHandler.CreateRecipe)
		recipes.GET("", recipeHandler.ListRecipes)
		recipes.GET("/:id", recipeHandler.GetRecipe)
		recipes.PUT("/:id", recipeHandler.UpdateRecipe)
		recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, logger *logrus.Logger, server config.ServerConfig) {
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(server.MaxBodyBytes))
	router.Use(middleware.ContentTypeValidation("application/json"))

	if server.RateLimitRPS > 0 {
		router.Use(middleware.RateLimiter(logger, server.RateLimitRPS, server.RateLimitBurst))
	}

	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.ErrorTracker(logger))
	router.Use(middleware.ErrorHandler(logger))
}

// NewRouter builds a gin engine with middleware and routes installed
func NewRouter(cfg *RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	SetupMiddleware(router, cfg.Logger, cfg.Server)
	SetupRoutes(router, cfg)
	return router
}
