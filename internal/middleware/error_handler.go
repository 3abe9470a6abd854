package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes returned in API error bodies
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeTripNotFound = "TRIP_NOT_FOUND"
	CodeNotFound     = "NOT_FOUND"
	CodeNoData       = "NO_DATA"
	CodeBadRequest   = "BAD_REQUEST"
	CodeSave         = "SAVE_ERROR"
	CodeUpdate       = "UPDATE_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
	CodeGemini       = "GEMINI_ERROR"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeTooLarge     = "PAYLOAD_TOO_LARGE"
)

// ErrorResponse is the JSON body of every failed API call
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError builds an echo error carrying an ErrorResponse. internal is
// logged by CustomErrorHandler but never sent to the client.
func APIError(status int, code, message string, internal error) *echo.HTTPError {
	he := echo.NewHTTPError(status, ErrorResponse{Code: code, Message: message})
	if internal != nil {
		he = he.SetInternal(internal)
	}
	return he
}

// CustomErrorHandler renders errors as ErrorResponse JSON
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := ErrorResponse{Code: CodeInternal, Message: "Something went wrong. Please try again later."}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch msg := he.Message.(type) {
		case ErrorResponse:
			body = msg
		case string:
			body = ErrorResponse{Code: codeForStatus(status), Message: msg}
		default:
			body = ErrorResponse{Code: codeForStatus(status), Message: http.StatusText(status)}
		}
		if he.Internal != nil {
			c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, he.Internal)
		}
	} else {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		c.Logger().Error(writeErr)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusRequestEntityTooLarge:
		return CodeTooLarge
	case http.StatusServiceUnavailable:
		return CodeUnavailable
	default:
		return CodeInternal
	}
}
