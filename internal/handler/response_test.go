package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/backend/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail bool
	}{
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, false},
		{"wrapped unauthorized", fmt.Errorf("%w: missing token", domain.ErrUnauthorized), http.StatusUnauthorized, false},
		{"service unavailable", domain.ErrServiceUnavailable, http.StatusServiceUnavailable, false},
		{"not found", domain.ErrNotFound, http.StatusNotFound, false},
		{"conflict", domain.ErrConflict, http.StatusConflict, false},
		{"upstream", fmt.Errorf("%w: status 502", domain.ErrUpstream), http.StatusInternalServerError, true},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, false},
		{"validation", &domain.ValidationError{Field: "Bio", Message: "too long"}, http.StatusBadRequest, true},
		{"echo not found", echo.NewHTTPError(http.StatusNotFound), http.StatusNotFound, false},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := mapError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if resp.Success {
				t.Error("error responses must have success=false")
			}
			if resp.Message == "" {
				t.Error("error responses must carry a message")
			}
			if tt.wantDetail && resp.Error == "" {
				t.Error("expected an error detail")
			}
		})
	}
}
