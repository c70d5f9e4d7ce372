// Package httpapi exposes the task API: submit, inspect, list, and
// delete synthesis tasks over HTTP.
package httpapi

import (
	"github.com/gin-gonic/gin"

	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"

	"storysynth/pkg/logger"
	"storysynth/pkg/middleware"
)

// Options configures the router's optional middleware.
type Options struct {
	JWTSecret string // empty disables auth entirely
}

// NewRouter builds the gin engine with its full middleware chain and
// route table.
func NewRouter(h *Handler, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	logger.SetGinOutput()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger())
	router.Use(middleware.CompressionMiddleware())
	router.Use(corsMiddleware())

	router.GET("/health", h.HealthCheck)
	router.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))

	api := router.Group("/api")
	if opts.JWTSecret != "" {
		api.Use(jwtMiddleware(opts.JWTSecret))
	}
	{
		api.POST("/generate", h.Generate)
		api.GET("/task/:id", h.GetTask)
		api.GET("/tasks", h.ListTasks)
		api.DELETE("/task/:id", h.DeleteTask)
	}

	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
