package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"trip_planner_app/internal/middleware"
	"trip_planner_app/internal/services"
)

// PlaceFinder looks up places around a coordinate
type PlaceFinder interface {
	Nearby(ctx context.Context, lat, lng float64, keyword string) ([]services.Place, error)
}

type PlacesHandler struct {
	places PlaceFinder
}

func NewPlacesHandler(places PlaceFinder) *PlacesHandler {
	return &PlacesHandler{places: places}
}

// Nearby handles GET /api/places/nearby?lat=..&lng=..&keyword=..
func (h *PlacesHandler) Nearby(c echo.Context) error {
	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if latErr != nil || lngErr != nil {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "lat and lng are required", nil)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "lat or lng out of range", nil)
	}

	places, err := h.places.Nearby(c.Request().Context(), lat, lng, c.QueryParam("keyword"))
	if err != nil {
		if errors.Is(err, services.ErrPlacesNotConfigured) {
			return middleware.APIError(http.StatusServiceUnavailable, middleware.CodeUnavailable, "Places lookup is not configured", err)
		}
		return middleware.APIError(http.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch nearby places", err)
	}
	return c.JSON(http.StatusOK, PlacesResponse{Places: places})
}
