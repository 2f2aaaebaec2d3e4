package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MetricsHandler exposes the Prometheus scrape endpoint.
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler wraps a promhttp handler.
func NewMetricsHandler(handler http.Handler) *MetricsHandler {
	return &MetricsHandler{handler: handler}
}

// Prometheus godoc
// @Summary Prometheus metrics
// @Tags System
// @Produce plain
// @Success 200 {string} string
// @Router /metrics [get]
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.handler == nil {
		c.Status(http.StatusNotFound)
		return
	}
	h.handler.ServeHTTP(c.Writer, c.Request)
}
