// Package clerk is a minimal client for the Clerk Backend API,
// covering session verification and user profile lookup. Token
// cryptography stays on the provider side: the session JWT is parsed
// only to find which session to verify, never validated locally.
package clerk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skillswap/backend/internal/domain"
)

// Session is the provider's view of a verified session.
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// EmailAddress is one of a user's provider-side email addresses.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// User is the provider-side user profile.
type User struct {
	ID                    string         `json:"id"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	Username              string         `json:"username"`
	ImageURL              string         `json:"image_url"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
}

// PrimaryEmail returns the address matching PrimaryEmailAddressID,
// falling back to the first address, or "" if the user has none.
func (u *User) PrimaryEmail() string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

// Client calls the Clerk Backend API. Constructed once at boot and
// read-only afterwards.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient creates a Client for the given API base URL and secret key.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifySession verifies a session token with the provider. The sid
// claim routes the call to the right session; the provider does the
// actual verification. Rejected or malformed tokens fail with
// domain.ErrUnauthorized, provider outages with domain.ErrUpstream.
func (c *Client) VerifySession(ctx context.Context, token string) (*Session, error) {
	sid, err := sessionIDFromToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/sessions/"+sid+"/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: verify session: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: session verify returned status %d", domain.ErrUnauthorized, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: session verify returned status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%w: decode session: %v", domain.ErrUpstream, err)
	}

	if session.Status != "active" || session.UserID == "" {
		return nil, fmt.Errorf("%w: session is not active", domain.ErrUnauthorized)
	}

	return &session, nil
}

// User fetches a provider user profile by id.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/users/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch user: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: user fetch returned status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: decode user: %v", domain.ErrUpstream, err)
	}
	return &user, nil
}

// Unconfigured is the provider handle used when no secret key is set.
// Every call fails with domain.ErrServiceUnavailable so callers can
// tell "not configured" from "bad credentials".
type Unconfigured struct{}

// VerifySession always fails with domain.ErrServiceUnavailable.
func (Unconfigured) VerifySession(_ context.Context, _ string) (*Session, error) {
	return nil, domain.ErrServiceUnavailable
}

// User always fails with domain.ErrServiceUnavailable.
func (Unconfigured) User(_ context.Context, _ string) (*User, error) {
	return nil, domain.ErrServiceUnavailable
}

// sessionIDFromToken extracts the sid claim without verifying the
// signature. Verification belongs to the provider.
func sessionIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse session token: %v", err)
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", fmt.Errorf("session token has no sid claim")
	}
	return sid, nil
}
