package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"trip_planner_app/internal/middleware"
)

func TestUpdatePreferenceValidation(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = middleware.CustomErrorHandler
	h := NewUserPreferenceHandler(nil)
	e.PUT("/auth/user/preference", h.UpdatePreference)

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{"channel":`},
		{"unknown channel", `{"channel":"sms"}`},
		{"empty channel", `{}`},
		{"unknown target type", `{"channel":"whatsapp","whatsapp_target_type":"broadcast"}`},
		{"group without id", `{"channel":"whatsapp","whatsapp_target_type":"group"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPut, "/auth/user/preference", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
			if got := decodeError(t, rec).Code; got != middleware.CodeBadRequest {
				t.Errorf("code = %q, want %q", got, middleware.CodeBadRequest)
			}
		})
	}
}
