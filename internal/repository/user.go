package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"

	"github.com/skillswap/backend/internal/domain"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

const userColumns = `id, clerk_id, name, email, bio, coins, profile_picture, last_active_at, created_at, updated_at`

// UserRepository handles user data access operations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByClerkID retrieves a user by their Clerk ID.
func (r *UserRepository) FindByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by clerk id %s: %w", clerkID, err)
	}
	return &user, nil
}

// FindByClerkIDWithSkills retrieves a user with the offered and wanted
// skill relations expanded.
func (r *UserRepository) FindByClerkIDWithSkills(ctx context.Context, clerkID string) (*domain.User, error) {
	user, err := r.FindByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	type skillRow struct {
		ID   string `db:"id"`
		Name string `db:"name"`
		Kind string `db:"kind"`
	}

	var rows []skillRow
	err = r.db.SelectContext(ctx, &rows,
		`SELECT s.id, s.name, us.kind
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1
		 ORDER BY s.name`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load skills for user %s: %w", user.ID, err)
	}

	user.SkillsOffered = []domain.Skill{}
	user.SkillsWanted = []domain.Skill{}
	for _, row := range rows {
		skill := domain.Skill{ID: row.ID, Name: row.Name}
		if row.Kind == "offered" {
			user.SkillsOffered = append(user.SkillsOffered, skill)
		} else {
			user.SkillsWanted = append(user.SkillsWanted, skill)
		}
	}
	return user, nil
}

// Create inserts a new user, assigning a fresh ID. A concurrent create
// for the same clerk_id loses to the unique constraint and returns
// domain.ErrConflict; callers may retry, landing on the update path.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	user.ID = xid.New().String()

	var result domain.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (id, clerk_id, name, email, bio, coins, profile_picture)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+userColumns,
		user.ID, user.ClerkID, user.Name, user.Email, user.Bio, user.Coins, user.ProfilePicture,
	).StructScan(&result)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("%w: user for clerk id %s already exists", domain.ErrConflict, user.ClerkID)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &result, nil
}

// UpdateProfile refreshes provider-owned fields and bumps
// last_active_at. Empty email or picture keeps the stored value; coins
// and relations are never touched here.
func (r *UserRepository) UpdateProfile(ctx context.Context, clerkID, name, email, profilePicture string) (*domain.User, error) {
	var result domain.User
	err := r.db.QueryRowxContext(ctx,
		`UPDATE users
		 SET name = $2,
		     email = CASE WHEN $3 <> '' THEN $3 ELSE email END,
		     profile_picture = CASE WHEN $4 <> '' THEN $4 ELSE profile_picture END,
		     last_active_at = NOW(),
		     updated_at = NOW()
		 WHERE clerk_id = $1
		 RETURNING `+userColumns,
		clerkID, name, email, profilePicture,
	).StructScan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update user profile: %w", err)
	}
	return &result, nil
}

// UpdateBio sets the local-only bio field.
func (r *UserRepository) UpdateBio(ctx context.Context, clerkID, bio string) (*domain.User, error) {
	var result domain.User
	err := r.db.QueryRowxContext(ctx,
		`UPDATE users SET bio = $2, updated_at = NOW()
		 WHERE clerk_id = $1
		 RETURNING `+userColumns,
		clerkID, bio,
	).StructScan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update user bio: %w", err)
	}
	return &result, nil
}
