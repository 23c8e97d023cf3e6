package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func healthRouter(t *testing.T, ready ReadinessCheck) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(zaptest.NewLogger(t), ready)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/health/live", h.Liveness)
	r.GET("/health/ready", h.Readiness)
	return r
}

func TestHealthEndpoints(t *testing.T) {
	r := healthRouter(t, nil)

	for path, status := range map[string]string{
		"/health":       "ok",
		"/health/live":  "alive",
		"/health/ready": "ready",
	} {
		w := get(r, path)
		require.Equal(t, http.StatusOK, w.Code, path)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, status, resp.Status, path)
		assert.NotEmpty(t, resp.Uptime, path)
	}
}

func TestReadiness_CheckFails(t *testing.T) {
	r := healthRouter(t, func() error { return errors.New("private key unreadable") })

	w := get(r, "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "private key unreadable", resp.Error)

	// liveness is unaffected
	assert.Equal(t, http.StatusOK, get(r, "/health/live").Code)
}
