// Package http wires the regrid use case into a Gin router.
package http

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.ngs.io/regrid-api/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(regridUC *usecase.RegridUseCase) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable.
	// Default to allow all origins if not specified.
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	// Create handler.
	handler := NewHandler(regridUC)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.GET("/datasets", handler.GetDatasets)
	v1.GET("/datasets/:name/variables", handler.GetVariables)
	v1.POST("/regrid", handler.PostRegrid)
	v1.POST("/triples/grid", handler.PostTripleGrid)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}
