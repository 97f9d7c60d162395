package apigateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"consult-transcript-eval/internal/reportmanagement"
)

// SetupRouter initializes the Gin router for the metrics backend. The
// surface is read-only: the admin portal queries metrics through it, while
// all writes happen via the batch evaluation CLI.
func SetupRouter(h *reportmanagement.Handlers) *gin.Engine {
	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/metrics", h.ListMetricsHandler)
		api.GET("/metrics/:consultation_key", h.GetConsultationMetricsHandler)
	}

	return router
}
