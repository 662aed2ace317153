package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/backend/internal/domain"
)

// Response is the standard API envelope. Success responses carry Data
// and optionally Message; error responses carry Message and optionally
// an Error detail.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a success response with the standard envelope.
func JSON(c echo.Context, status int, data any) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

// JSONMessage writes a success response with a human-readable message.
func JSONMessage(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// HTTPErrorHandler is the global error handler for echo. Every error
// kind is mapped to a status code here; nothing crashes the process.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, resp := mapError(err)
	if jsonErr := c.JSON(status, resp); jsonErr != nil {
		slog.Error("failed to send error response", "error", jsonErr)
	}
}

func mapError(err error) (int, Response) {
	// echo's own HTTP errors (404 on unknown route, 405, etc.)
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, Response{Success: false, Message: msg}
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, Response{
			Success: false,
			Message: "Unauthorized - Invalid or missing authentication",
		}
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, Response{
			Success: false,
			Message: "Clerk authentication is not configured. Please check your environment variables.",
		}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, Response{
			Success: false,
			Message: "User not found. Please sync your account first.",
		}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, Response{
			Success: false,
			Message: "User sync conflicted with a concurrent request. Please retry.",
		}
	case errors.Is(err, domain.ErrUpstream):
		slog.Error("identity provider error", "error", err)
		return http.StatusInternalServerError, Response{
			Success: false,
			Message: "Failed to sync user",
			Error:   err.Error(),
		}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, Response{
			Success: false,
			Message: "The request body is invalid",
		}
	default:
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return http.StatusBadRequest, Response{
				Success: false,
				Message: "Validation failed",
				Error:   validationErr.Error(),
			}
		}

		slog.Error("unhandled error", "error", err)
		return http.StatusInternalServerError, Response{
			Success: false,
			Message: "Server error",
			Error:   err.Error(),
		}
	}
}
