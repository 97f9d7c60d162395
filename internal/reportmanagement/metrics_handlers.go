// Package reportmanagement serves read-only access to persisted
// consultation quality metrics.
package reportmanagement

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"consult-transcript-eval/internal/datastore"
)

// Handlers holds the dependencies of the metrics endpoints.
type Handlers struct {
	store *datastore.Store
}

// NewHandlers returns Handlers backed by the given datastore.
func NewHandlers(store *datastore.Store) *Handlers {
	return &Handlers{store: store}
}

// ListMetricsHandler handles requests to list consultation metrics,
// optionally filtered by year, month, stt_model, spellcheck_model and
// consultation_key query parameters.
func (h *Handlers) ListMetricsHandler(c *gin.Context) {
	filter := datastore.MetricsFilter{
		ConsultationKey:   c.Query("consultation_key"),
		SpeechToTextModel: c.Query("stt_model"),
		SpellcheckModel:   c.Query("spellcheck_model"),
	}

	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year format"})
			return
		}
		filter.Year = year
	}
	if monthStr := c.Query("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month format"})
			return
		}
		filter.Month = month
	}

	metrics, err := h.store.ListConsultationMetrics(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list metrics: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(metrics),
		"metrics": metrics,
	})
}

// GetConsultationMetricsHandler handles requests for all metric rows of a
// single consultation key.
func (h *Handlers) GetConsultationMetricsHandler(c *gin.Context) {
	key := c.Param("consultation_key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "consultation_key is required"})
		return
	}

	metrics, err := h.store.ListConsultationMetrics(datastore.MetricsFilter{ConsultationKey: key})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve metrics: " + err.Error()})
		return
	}
	if len(metrics) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No metrics found for consultation " + key})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consultation_key": key,
		"metrics":          metrics,
	})
}
