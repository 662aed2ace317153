package handler

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/backend/internal/domain"
	"github.com/skillswap/backend/internal/service"
)

const (
	contextKeyClerkUserID    = "clerk_user_id"
	contextKeyClerkSessionID = "clerk_session_id"
)

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return err
		}
	}
}

// ClerkAuth verifies the Bearer session token against the identity
// provider and injects the verified identity into the echo context.
// The request never reaches the handler without a verified session.
func ClerkAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return fmt.Errorf("%w: missing authentication token", domain.ErrUnauthorized)
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return fmt.Errorf("%w: malformed authorization header", domain.ErrUnauthorized)
			}

			identity, err := auth.VerifyToken(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(contextKeyClerkUserID, identity.ClerkUserID)
			c.Set(contextKeyClerkSessionID, identity.SessionID)
			return next(c)
		}
	}
}

// GetIdentity extracts the verified identity from the echo context.
func GetIdentity(c echo.Context) (domain.Identity, bool) {
	userID, _ := c.Get(contextKeyClerkUserID).(string)
	sessionID, _ := c.Get(contextKeyClerkSessionID).(string)
	if userID == "" {
		return domain.Identity{}, false
	}
	return domain.Identity{ClerkUserID: userID, SessionID: sessionID}, true
}
