package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/learnpath/datasim/internal/simulation"
	"github.com/learnpath/datasim/internal/utils"
)

// SetupRouter builds the gin engine for serve mode: health check plus the
// run trigger API.
func SetupRouter(generator *simulation.Generator, logger utils.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware(logger))

	router.GET("/health", HealthCheck)

	runHandler := NewRunHandler(NewRunManager(generator), logger)
	v1 := router.Group("/api/v1")
	{
		runs := v1.Group("/runs")
		{
			runs.POST("", runHandler.TriggerRun)
			runs.GET("/last", runHandler.LastRun)
		}
	}

	return router
}
