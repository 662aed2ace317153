package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skillswap/backend/internal/clerk"
	"github.com/skillswap/backend/internal/domain"
)

// UserStore defines the user data access interface consumed by AuthService.
type UserStore interface {
	FindByClerkID(ctx context.Context, clerkID string) (*domain.User, error)
	FindByClerkIDWithSkills(ctx context.Context, clerkID string) (*domain.User, error)
	Create(ctx context.Context, user domain.User) (*domain.User, error)
	UpdateProfile(ctx context.Context, clerkID, name, email, profilePicture string) (*domain.User, error)
	UpdateBio(ctx context.Context, clerkID, bio string) (*domain.User, error)
}

// IdentityProvider is the provider surface consumed by AuthService.
// Satisfied by clerk.Client and clerk.Unconfigured.
type IdentityProvider interface {
	VerifySession(ctx context.Context, token string) (*clerk.Session, error)
	User(ctx context.Context, id string) (*clerk.User, error)
}

// AuthService verifies sessions against the identity provider and
// reconciles provider profiles into local user records.
type AuthService struct {
	users    UserStore
	provider IdentityProvider
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, provider IdentityProvider) *AuthService {
	return &AuthService{users: users, provider: provider}
}

// VerifyToken verifies a bearer session token and returns the
// provider-side identity. Every request re-verifies; nothing is cached.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (domain.Identity, error) {
	session, err := s.provider.VerifySession(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		ClerkUserID: session.UserID,
		SessionID:   session.ID,
	}, nil
}

// SyncUser reconciles the provider profile for clerkUserID into the
// local user record. The bool result is true when the record was
// created. Idempotent: a second sync updates provider-owned fields and
// last_active_at, never coins or relations.
func (s *AuthService) SyncUser(ctx context.Context, clerkUserID string) (*domain.User, bool, error) {
	profile, err := s.provider.User(ctx, clerkUserID)
	if err != nil {
		return nil, false, fmt.Errorf("fetch provider profile: %w", err)
	}

	name := displayName(profile)
	email := profile.PrimaryEmail()

	_, err = s.users.FindByClerkID(ctx, clerkUserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		user, err := s.users.Create(ctx, domain.User{
			ClerkID:        clerkUserID,
			Name:           name,
			Email:          email,
			Bio:            "",
			Coins:          domain.StartingCoins,
			ProfilePicture: profile.ImageURL,
		})
		if err != nil {
			return nil, false, err
		}
		user.SkillsOffered = []domain.Skill{}
		user.SkillsWanted = []domain.Skill{}
		return user, true, nil
	case err != nil:
		return nil, false, err
	}

	user, err := s.users.UpdateProfile(ctx, clerkUserID, name, email, profile.ImageURL)
	if err != nil {
		return nil, false, err
	}
	return user, false, nil
}

// GetProfile returns the local record for clerkUserID with skill
// relations expanded. Fails with domain.ErrNotFound if the identity
// was never synced.
func (s *AuthService) GetProfile(ctx context.Context, clerkUserID string) (*domain.User, error) {
	return s.users.FindByClerkIDWithSkills(ctx, clerkUserID)
}

// UpdateBio sets the local-only bio for an already-synced user.
func (s *AuthService) UpdateBio(ctx context.Context, clerkUserID, bio string) (*domain.User, error) {
	return s.users.UpdateBio(ctx, clerkUserID, bio)
}

// displayName derives a display name from the provider profile:
// first+last name, then username, then the local part of the email,
// then the literal "User".
func displayName(p *clerk.User) string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name != "" {
		return name
	}
	if p.Username != "" {
		return p.Username
	}
	if email := p.PrimaryEmail(); email != "" {
		if local := strings.SplitN(email, "@", 2)[0]; local != "" {
			return local
		}
	}
	return "User"
}
