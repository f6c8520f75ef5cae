package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reviewhub/pkg/logger"
	"reviewhub/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	reviewHandler *ReviewHandler,
	endpointHandler *EndpointHandler,
	syncHandler *SyncHandler,
	authHandler *AuthHandler,
	sessionMiddleware *SessionMiddleware,
	apiKeyMiddleware *APIKeyMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("reviewhub"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "x-api-key"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "reviewhub",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// OAuth вход оператора (без аутентификации)
	auth := router.Group("/auth")
	{
		auth.GET("/google", authHandler.Login)
		auth.GET("/callback", authHandler.Callback)
		auth.GET("/status", authHandler.Status)
		auth.POST("/logout", authHandler.Logout)
	}

	// Партнерский API - только API ключ
	partner := router.Group("/reviews/published")
	partner.Use(apiKeyMiddleware.Authenticate())
	{
		partner.GET("", reviewHandler.GetPublished)
	}

	// Эндпоинты дашборда оператора - сессионная кука
	reviews := router.Group("/reviews")
	reviews.Use(sessionMiddleware.Authenticate())
	{
		reviews.GET("", reviewHandler.ListReviews)
		reviews.POST("", reviewHandler.IngestReviews)
		reviews.PUT("", reviewHandler.UpdateStatus)
		reviews.GET("/fetch", reviewHandler.FetchReviews)
		reviews.POST("/distribute", reviewHandler.Distribute)
	}

	endpoints := router.Group("/endpoints")
	endpoints.Use(sessionMiddleware.Authenticate())
	{
		endpoints.GET("", endpointHandler.ListEndpoints)
		endpoints.POST("", endpointHandler.CreateEndpoint)
		endpoints.PUT("", endpointHandler.UpdateEndpoint)
		endpoints.DELETE("", endpointHandler.DeleteEndpoint)
	}

	settings := router.Group("/settings")
	settings.Use(sessionMiddleware.Authenticate())
	{
		settings.GET("", syncHandler.GetSettings)
		settings.PUT("", syncHandler.UpdateSettings)
	}

	tasks := router.Group("/tasks")
	tasks.Use(sessionMiddleware.Authenticate())
	{
		tasks.POST("/sync", syncHandler.TriggerSync)
	}

	return router
}
