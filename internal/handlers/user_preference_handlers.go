package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"trip_planner_app/internal/middleware"
	"trip_planner_app/internal/models"
	"trip_planner_app/internal/services"
)

type UserPreferenceHandler struct {
	db *gorm.DB
}

func NewUserPreferenceHandler(db *gorm.DB) *UserPreferenceHandler {
	return &UserPreferenceHandler{db: db}
}

type preferenceRequest struct {
	Channel            models.NotificationChannel `json:"channel"`
	WhatsappTargetType string                     `json:"whatsapp_target_type"`
	WhatsappGroupID    string                     `json:"whatsapp_group_id"`
}

// GetPreference returns the caller's notification preference
func (h *UserPreferenceHandler) GetPreference(c echo.Context) error {
	pref, err := services.LoadNotifPreference(c.Request().Context(), h.db, getUintFromContext(c, middleware.ContextUserID))
	if err != nil {
		return middleware.APIError(http.StatusInternalServerError, middleware.CodeInternal, "Error fetching preference", err)
	}
	return c.JSON(http.StatusOK, pref)
}

// UpdatePreference saves the caller's notification preference
func (h *UserPreferenceHandler) UpdatePreference(c echo.Context) error {
	var req preferenceRequest
	if err := c.Bind(&req); err != nil {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "Invalid preference", err)
	}
	if !req.Channel.Valid() {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "channel must be email, whatsapp or none", nil)
	}
	if req.WhatsappTargetType == "" {
		req.WhatsappTargetType = models.WhatsappTargetTypePersonal
	}
	if req.WhatsappTargetType != models.WhatsappTargetTypePersonal && req.WhatsappTargetType != models.WhatsappTargetTypeGroup {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "whatsapp_target_type must be personal or group", nil)
	}
	if req.WhatsappTargetType == models.WhatsappTargetTypeGroup && req.WhatsappGroupID == "" {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "whatsapp_group_id is required for group targets", nil)
	}

	pref := models.UserNotifPreference{
		UserID:             getUintFromContext(c, middleware.ContextUserID),
		Channel:            req.Channel,
		WhatsappTargetType: req.WhatsappTargetType,
		WhatsappGroupID:    req.WhatsappGroupID,
	}
	if err := services.SaveNotifPreference(c.Request().Context(), h.db, &pref); err != nil {
		return middleware.APIError(http.StatusInternalServerError, middleware.CodeInternal, "Failed to save preference", err)
	}
	return c.JSON(http.StatusOK, pref)
}
