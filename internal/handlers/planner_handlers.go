package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"trip_planner_app/internal/middleware"
	"trip_planner_app/internal/services"
)

// PlanGenerator produces an itinerary document from travel preferences
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, req services.PlanRequest) (json.RawMessage, error)
}

type PlannerHandler struct {
	planner PlanGenerator
}

func NewPlannerHandler(planner PlanGenerator) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

// GenerateTrip asks the planner for an itinerary and returns it unchanged
func (h *PlannerHandler) GenerateTrip(c echo.Context) error {
	var req services.PlanRequest
	if err := c.Bind(&req); err != nil {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "Invalid trip preferences", err)
	}

	plan, err := h.planner.GeneratePlan(c.Request().Context(), req)
	switch {
	case err == nil:
		return c.JSONBlob(http.StatusOK, plan)
	case errors.Is(err, services.ErrInvalidPlan):
		return middleware.APIError(http.StatusBadGateway, middleware.CodeGemini, "Invalid JSON from Gemini", err)
	case errors.Is(err, services.ErrPlannerNotConfigured):
		return middleware.APIError(http.StatusServiceUnavailable, middleware.CodeUnavailable, "Trip generation is not configured", err)
	default:
		return middleware.APIError(http.StatusInternalServerError, middleware.CodeGemini, "Failed to generate trip plan", err)
	}
}
