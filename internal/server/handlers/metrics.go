package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weatherkit/internal/metrics"
)

type MetricsHandler struct {
	handler http.Handler
}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{handler: metrics.Handler()}
}

// ServeMetrics exposes the Prometheus registry.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	h.handler.ServeHTTP(c.Writer, c.Request)
}
