// Package handler provides HTTP handlers for the commute API.
package handler

import (
	"net/http"
	"time"

	"github.com/takemehome/takemehome/internal/api/models"
	"github.com/takemehome/takemehome/internal/api/response"
)

// HealthHandler handles operational endpoints.
type HealthHandler struct {
	version  string
	env      string
	cacheTTL time.Duration
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version, env string, cacheTTL time.Duration) *HealthHandler {
	return &HealthHandler{
		version:  version,
		env:      env,
		cacheTTL: cacheTTL,
	}
}

// HealthCheck returns service health and the active cache TTL.
// GET /v1/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.HealthResponse{
		Status:          "ok",
		Version:         h.version,
		Env:             h.env,
		CacheTTLSeconds: int(h.cacheTTL.Seconds()),
	})
}
