package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"trip_planner_app/internal/middleware"
)

const sessionLifetime = 5 * 24 * time.Hour

// SessionIssuer verifies Firebase ID tokens and mints session cookies.
// *auth.Client satisfies it.
type SessionIssuer interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	issuer  SessionIssuer
	resolve middleware.UserResolver
}

// NewAuthHandler creates a new AuthHandler. issuer may be nil when Firebase
// is not configured.
func NewAuthHandler(issuer SessionIssuer, resolve middleware.UserResolver) *AuthHandler {
	return &AuthHandler{issuer: issuer, resolve: resolve}
}

// HandleLogin verifies the Firebase ID token and creates a session cookie
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	if h.issuer == nil {
		return middleware.APIError(http.StatusServiceUnavailable, middleware.CodeUnavailable, "Firebase not initialized", nil)
	}

	idToken := middleware.BearerToken(c.Request())
	if idToken == "" {
		return middleware.APIError(http.StatusUnauthorized, middleware.CodeUnauthorized, "Missing authorization header", nil)
	}

	ctx := c.Request().Context()
	token, err := h.issuer.VerifyIDToken(ctx, idToken)
	if err != nil {
		return middleware.APIError(http.StatusUnauthorized, middleware.CodeUnauthorized, "Invalid token", err)
	}

	user, err := h.resolve(ctx, middleware.IdentityFromToken(token))
	if err != nil {
		return middleware.APIError(http.StatusInternalServerError, middleware.CodeInternal, "Failed to load user", err)
	}

	cookieValue, err := h.issuer.SessionCookie(ctx, idToken, sessionLifetime)
	if err != nil {
		return middleware.APIError(http.StatusInternalServerError, middleware.CodeInternal, "Failed to create session", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    cookieValue,
		MaxAge:   int(sessionLifetime.Seconds()),
		HttpOnly: true,
		Secure:   os.Getenv("ENV") == "production",
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, CurrentUserResponse{ID: user.ID, UID: token.UID, Email: user.Email, Name: user.Name, Phone: user.Phone})
}

// HandleLogout clears the session cookie
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// CurrentUser returns the identity stored by the auth middleware
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	return c.JSON(http.StatusOK, CurrentUserResponse{
		ID:    getUintFromContext(c, middleware.ContextUserID),
		UID:   getStringFromContext(c, middleware.ContextUserUID),
		Email: getStringFromContext(c, middleware.ContextUserEmail),
		Name:  getStringFromContext(c, middleware.ContextUserName),
	})
}
