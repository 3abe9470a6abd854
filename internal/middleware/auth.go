package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"trip_planner_app/internal/models"
)

// Context keys set by RequireAuth
const (
	ContextUserID    = "userID"
	ContextUserUID   = "userUID"
	ContextUserEmail = "userEmail"
	ContextUserName  = "userName"

	SessionCookieName = "session"
)

// TokenVerifier checks Firebase credentials. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifySessionCookie(ctx context.Context, sessionCookie string) (*auth.Token, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Identity is what a verified Firebase token says about the caller
type Identity struct {
	UID   string
	Email string
	Name  string
	Phone string
}

// IdentityFromToken reads the standard profile claims of a verified token
func IdentityFromToken(token *auth.Token) Identity {
	id := Identity{UID: token.UID}
	id.Email, _ = token.Claims["email"].(string)
	id.Name, _ = token.Claims["name"].(string)
	id.Phone, _ = token.Claims["phone_number"].(string)
	return id
}

// UserResolver maps a verified Firebase identity to the local user row
type UserResolver func(ctx context.Context, id Identity) (*models.User, error)

// RequireAuth accepts a Firebase session cookie or a Bearer ID token and
// stores the caller's identity in the echo context. Requests without valid
// credentials get 401.
func RequireAuth(verifier TokenVerifier, resolve UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if verifier == nil {
				return APIError(http.StatusUnauthorized, CodeUnauthorized, "Authentication is not configured", nil)
			}

			ctx := c.Request().Context()
			var token *auth.Token
			var err error
			if cookie, cerr := c.Cookie(SessionCookieName); cerr == nil && cookie.Value != "" {
				token, err = verifier.VerifySessionCookie(ctx, cookie.Value)
				if err != nil {
					c.SetCookie(expiredSessionCookie())
				}
			} else if idToken := BearerToken(c.Request()); idToken != "" {
				token, err = verifier.VerifyIDToken(ctx, idToken)
			} else {
				return APIError(http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
			}
			if err != nil {
				return APIError(http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired credentials", err)
			}

			id := IdentityFromToken(token)
			user, err := resolve(ctx, id)
			if err != nil {
				return APIError(http.StatusInternalServerError, CodeInternal, "Failed to load user", err)
			}

			c.Set(ContextUserID, user.ID)
			c.Set(ContextUserUID, id.UID)
			c.Set(ContextUserEmail, id.Email)
			c.Set(ContextUserName, id.Name)
			return next(c)
		}
	}
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}

func expiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	}
}
