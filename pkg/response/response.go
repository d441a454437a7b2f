// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/shop-admin-console/internal/apiclient"
	"github.com/maxviazov/shop-admin-console/internal/feedback"
	"github.com/maxviazov/shop-admin-console/internal/listview"
	"github.com/maxviazov/shop-admin-console/internal/service"
)

// ErrorPayload is the canonical error envelope returned by the API. Message is
// the user-facing text the screen shows as a toast.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// MapError converts a domain / upstream error into an HTTP status and payload.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	msg := feedback.Humanize(err)
	switch {
	case errors.Is(err, service.ErrUnknownScreen):
		return http.StatusNotFound, ErrorPayload{Error: "unknown_screen", Message: err.Error()}
	case errors.Is(err, listview.ErrNoPendingConfirmation):
		return http.StatusConflict, ErrorPayload{Error: "no_pending_confirmation", Message: err.Error()}
	case errors.Is(err, listview.ErrUnsupportedAction), errors.Is(err, apiclient.ErrUnsupported):
		return http.StatusUnprocessableEntity, ErrorPayload{Error: "unsupported_action", Message: err.Error()}
	case errors.Is(err, listview.ErrMissingID):
		return http.StatusBadRequest, ErrorPayload{Error: "invalid_input", Message: err.Error()}
	case errors.Is(err, listview.ErrClosed):
		return http.StatusServiceUnavailable, ErrorPayload{Error: "unavailable", Message: msg}
	case errors.Is(err, apiclient.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found", Message: msg}
	case errors.Is(err, apiclient.ErrConflict):
		return http.StatusConflict, ErrorPayload{Error: "conflict", Message: msg}
	case errors.Is(err, apiclient.ErrRateLimited):
		return http.StatusTooManyRequests, ErrorPayload{Error: "rate_limited", Message: msg}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorPayload{Error: "upstream_timeout", Message: msg}
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway, ErrorPayload{Error: "upstream_error", Message: msg}
	}
	return http.StatusInternalServerError, ErrorPayload{Error: "internal_error", Message: msg}
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
