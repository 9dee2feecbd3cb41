package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/takemehome/takemehome/internal/api/models"
	"github.com/takemehome/takemehome/internal/api/response"
	"github.com/takemehome/takemehome/internal/commute"
)

// Planner composes a commute plan.
type Planner interface {
	Plan(ctx context.Context, req commute.PlanRequest) (*commute.Plan, error)
}

// RoutesHandler handles commute plan requests.
type RoutesHandler struct {
	planner Planner
	logger  zerolog.Logger
}

// NewRoutesHandler creates a new routes handler.
func NewRoutesHandler(planner Planner, logger zerolog.Logger) *RoutesHandler {
	return &RoutesHandler{planner: planner, logger: logger}
}

// GetRoutes composes the full commute plan for a direction.
// GET /v1/routes?direction=east_west&depart_at=2025-06-01T15:30:00Z
func (h *RoutesHandler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	direction, err := commute.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		response.BadRequest(w, r, "invalid query parameters", []models.FieldError{
			{Field: "direction", Message: "must be east_west or west_east", Code: "invalid_enum"},
		})
		return
	}

	var departAt *time.Time
	if raw := r.URL.Query().Get("depart_at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(w, r, "invalid query parameters", []models.FieldError{
				{Field: "depart_at", Message: "must be an RFC 3339 timestamp", Code: "invalid_format"},
			})
			return
		}
		departAt = &parsed
	}

	plan, err := h.planner.Plan(r.Context(), commute.PlanRequest{
		Direction: direction,
		DepartAt:  departAt,
	})
	if err != nil {
		h.logger.Error().Err(err).
			Str("direction", string(direction)).
			Msg("failed to compose commute plan")
		response.InternalError(w, r, "failed to compose commute plan")
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewRoutesResponse(plan))
}
