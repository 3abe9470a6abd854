package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"trip_planner_app/internal/middleware"
	"trip_planner_app/internal/trips"
)

// MaxTripBody is the body limit of the trip save and update routes
const MaxTripBody = "2M"

// TripService is what the trip endpoints need from the trip domain
type TripService interface {
	Save(ctx context.Context, userID uint, doc *trips.TripDocument) (uint, error)
	Update(ctx context.Context, tripID, userID uint, doc *trips.TripDocument) (uint, error)
	Get(ctx context.Context, tripID uint) (*trips.TripDetail, error)
	ListByOwner(ctx context.Context, userID uint) ([]trips.TripSummary, error)
	Join(ctx context.Context, tripID, userID uint) (bool, error)
	Members(ctx context.Context, tripID uint) ([]trips.MemberView, error)
}

type TripHandler struct {
	trips TripService
}

func NewTripHandler(trips TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// SaveTrip stores a new trip for the caller
func (h *TripHandler) SaveTrip(c echo.Context) error {
	doc, err := readDocument(c)
	if err != nil {
		return err
	}

	tripID, err := h.trips.Save(c.Request().Context(), getUintFromContext(c, middleware.ContextUserID), doc)
	if err != nil {
		return tripError(err, middleware.CodeSave, "Failed to save trip")
	}
	return c.JSON(http.StatusCreated, TripSavedResponse{Message: "Trip saved successfully", TripID: tripID})
}

// UpdateTrip reconciles a stored trip with the posted document
func (h *TripHandler) UpdateTrip(c echo.Context) error {
	tripID, ok := pathID(c, "tripId")
	if !ok {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "Invalid trip id", nil)
	}
	doc, err := readDocument(c)
	if err != nil {
		return err
	}

	if _, err := h.trips.Update(c.Request().Context(), tripID, getUintFromContext(c, middleware.ContextUserID), doc); err != nil {
		return tripError(err, middleware.CodeUpdate, "Failed to update trip")
	}
	return c.JSON(http.StatusOK, TripSavedResponse{Message: "Trip updated successfully", TripID: tripID})
}

// GetTrip returns a trip with all of its days and locations
func (h *TripHandler) GetTrip(c echo.Context) error {
	tripID, ok := pathID(c, "tripId")
	if !ok {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "Invalid trip id", nil)
	}
	detail, err := h.trips.Get(c.Request().Context(), tripID)
	if err != nil {
		return tripError(err, middleware.CodeInternal, "Failed to load trip")
	}
	return c.JSON(http.StatusOK, detail)
}

// ListMyTrips returns the caller's trips, newest first
func (h *TripHandler) ListMyTrips(c echo.Context) error {
	list, err := h.trips.ListByOwner(c.Request().Context(), getUintFromContext(c, middleware.ContextUserID))
	if err != nil {
		return tripError(err, middleware.CodeInternal, "Failed to load trips")
	}
	return c.JSON(http.StatusOK, list)
}

// JoinTrip adds the caller to a trip
func (h *TripHandler) JoinTrip(c echo.Context) error {
	tripID, ok := pathID(c, "tripId")
	if !ok {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "Invalid trip id", nil)
	}
	joined, err := h.trips.Join(c.Request().Context(), tripID, getUintFromContext(c, middleware.ContextUserID))
	if err != nil {
		return tripError(err, middleware.CodeInternal, "Failed to join trip")
	}
	message := "Joined trip successfully"
	if !joined {
		message = "Already a member of this trip"
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// ListMembers returns a trip's members, owner first
func (h *TripHandler) ListMembers(c echo.Context) error {
	tripID, ok := pathID(c, "tripId")
	if !ok {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "Invalid trip id", nil)
	}
	members, err := h.trips.Members(c.Request().Context(), tripID)
	if err != nil {
		return tripError(err, middleware.CodeInternal, "Failed to load members")
	}
	return c.JSON(http.StatusOK, members)
}

// readDocument decodes the request body as a trip document
func readDocument(c echo.Context) (*trips.TripDocument, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return nil, he
		}
		return nil, middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "Failed to read request body", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, middleware.APIError(http.StatusBadRequest, middleware.CodeNoData, "Missing trip data.", nil)
	}
	doc, err := trips.ParseDocument(body)
	if err != nil {
		return nil, middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "Trip data must be a JSON object", err)
	}
	return doc, nil
}

// tripError maps domain errors to API errors; anything unknown becomes a
// 500 with fallbackCode.
func tripError(err error, fallbackCode, fallbackMessage string) error {
	switch {
	case errors.Is(err, trips.ErrUnauthorized):
		return middleware.APIError(http.StatusUnauthorized, middleware.CodeUnauthorized, "Authentication required", nil)
	case errors.Is(err, trips.ErrForbidden):
		return middleware.APIError(http.StatusForbidden, middleware.CodeForbidden, "You do not have permission to modify this trip", nil)
	case errors.Is(err, trips.ErrNotFound):
		return middleware.APIError(http.StatusNotFound, middleware.CodeTripNotFound, "Trip not found", nil)
	default:
		return middleware.APIError(http.StatusInternalServerError, fallbackCode, fallbackMessage, err)
	}
}
