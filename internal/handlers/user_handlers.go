package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"trip_planner_app/internal/middleware"
	"trip_planner_app/internal/services"
)

// UserHandler handles the caller's own profile
type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

type profileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// UpdateProfile changes the caller's name and WhatsApp phone. An empty phone
// clears it.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "Invalid profile", err)
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" && !validPhone(phone) {
			return middleware.APIError(http.StatusBadRequest, middleware.CodeBadRequest, "phone must be a phone number", nil)
		}
		changes["phone"] = phone
	}

	user, err := services.UpdateUserProfile(c.Request().Context(), h.db, getUintFromContext(c, middleware.ContextUserID), changes)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.APIError(http.StatusNotFound, middleware.CodeNotFound, "User not found", nil)
	}
	if err != nil {
		return middleware.APIError(http.StatusInternalServerError, middleware.CodeInternal, "Failed to update user", err)
	}

	return c.JSON(http.StatusOK, CurrentUserResponse{
		ID:    user.ID,
		UID:   getStringFromContext(c, middleware.ContextUserUID),
		Email: user.Email,
		Name:  user.Name,
		Phone: user.Phone,
	})
}

// validPhone accepts digits with the usual separators and at least 6 digits
func validPhone(phone string) bool {
	digits := 0
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 6 && digits <= 15
}
