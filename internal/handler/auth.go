package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/backend/internal/domain"
	"github.com/skillswap/backend/internal/service"
)

// AuthHandler handles the clerk-auth endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// syncUserData is the public subset of a user record returned by sync.
type syncUserData struct {
	UserID         string `json:"userId"`
	ClerkID        string `json:"clerkId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Coins          int    `json:"coins"`
	ProfilePicture string `json:"profilePicture"`
}

// SyncUser reconciles the authenticated identity's provider profile
// into the local user record. 201 on first sync, 200 afterwards.
func (h *AuthHandler) SyncUser(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	user, created, err := h.auth.SyncUser(c.Request().Context(), identity.ClerkUserID)
	if err != nil {
		return err
	}

	data := syncUserData{
		UserID:         user.ID,
		ClerkID:        user.ClerkID,
		Name:           user.Name,
		Email:          user.Email,
		Coins:          user.Coins,
		ProfilePicture: user.ProfilePicture,
	}

	if created {
		return JSONMessage(c, http.StatusCreated, "User created and synced successfully", data)
	}
	return JSONMessage(c, http.StatusOK, "User synced successfully", data)
}

// Me returns the authenticated user's full local record with skill
// relations expanded. 404 until the first sync.
func (h *AuthHandler) Me(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	user, err := h.auth.GetProfile(c.Request().Context(), identity.ClerkUserID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, user)
}

type updateMeRequest struct {
	Bio string `json:"bio" validate:"max=500"`
}

// UpdateMe updates the local-only profile fields.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req updateMeRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.UpdateBio(c.Request().Context(), identity.ClerkUserID, req.Bio)
	if err != nil {
		return err
	}

	return JSONMessage(c, http.StatusOK, "Profile updated successfully", user)
}

// Session confirms the session is valid and echoes the verified ids.
// No lookup is performed.
func (h *AuthHandler) Session(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	return JSONMessage(c, http.StatusOK, "Session is valid", identity)
}
