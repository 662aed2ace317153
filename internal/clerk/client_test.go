package clerk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/backend/internal/domain"
)

// signedToken builds a session JWT carrying a sid claim. The signature
// is irrelevant: the client never verifies it locally.
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestVerifySession_Active(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sid": "sess_123", "sub": "user_abc"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/sessions/sess_123/verify", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, token, body["token"])

		json.NewEncoder(w).Encode(Session{ID: "sess_123", UserID: "user_abc", Status: "active"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/v1", "sk_test_secret")
	session, err := c.VerifySession(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_abc", session.UserID)
	assert.Equal(t, "sess_123", session.ID)
}

func TestVerifySession_RejectedByProvider(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sid": "sess_123"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_secret")
	_, err := c.VerifySession(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifySession_InactiveSession(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sid": "sess_123"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(Session{ID: "sess_123", UserID: "user_abc", Status: "revoked"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_secret")
	_, err := c.VerifySession(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifySession_ProviderOutage(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sid": "sess_123"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_secret")
	_, err := c.VerifySession(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestVerifySession_MalformedToken(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_secret")

	_, err := c.VerifySession(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// A well-formed JWT without a sid claim is rejected the same way.
	_, err = c.VerifySession(context.Background(), signedToken(t, jwt.MapClaims{"sub": "user_abc"}))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Zero(t, calls, "malformed tokens must not reach the provider")
}

func TestUser_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/user_abc", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(User{
			ID:                    "user_abc",
			FirstName:             "Ada",
			LastName:              "Lovelace",
			ImageURL:              "https://img.clerk.dev/ada",
			PrimaryEmailAddressID: "em_2",
			EmailAddresses: []EmailAddress{
				{ID: "em_1", EmailAddress: "old@example.com"},
				{ID: "em_2", EmailAddress: "ada@example.com"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_secret")
	user, err := c.User(context.Background(), "user_abc")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "ada@example.com", user.PrimaryEmail())
}

func TestUser_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test_secret")
	_, err := c.User(context.Background(), "user_abc")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestPrimaryEmail(t *testing.T) {
	u := &User{
		PrimaryEmailAddressID: "em_2",
		EmailAddresses: []EmailAddress{
			{ID: "em_1", EmailAddress: "first@example.com"},
			{ID: "em_2", EmailAddress: "primary@example.com"},
		},
	}
	assert.Equal(t, "primary@example.com", u.PrimaryEmail())

	// No primary match: fall back to the first address.
	u.PrimaryEmailAddressID = "em_9"
	assert.Equal(t, "first@example.com", u.PrimaryEmail())

	assert.Empty(t, (&User{}).PrimaryEmail())
}

func TestUnconfigured(t *testing.T) {
	var p Unconfigured

	_, err := p.VerifySession(context.Background(), "any")
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	_, err = p.User(context.Background(), "user_abc")
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}
