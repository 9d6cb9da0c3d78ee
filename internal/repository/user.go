package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"

	"github.com/skypeek/skypeek/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrSessionExists = errors.New("session already exists")
)

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, session_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.SessionID,
		user.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrSessionExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserBySession retrieves a user by their session token.
func (r *Repository) GetUserBySession(ctx context.Context, sessionID string) (*model.User, error) {
	query := `
		SELECT id, session_id, created_at
		FROM users
		WHERE session_id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&user.ID,
		&user.SessionID,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by session: %w", err)
	}

	return &user, nil
}

// GetOrCreateUser gets a user by session token or creates one if not found.
func (r *Repository) GetOrCreateUser(ctx context.Context, sessionID string) (*model.User, error) {
	existing, err := r.GetUserBySession(ctx, sessionID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := &model.User{
		ID:        ulid.Make().String(),
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.CreateUser(ctx, user); err != nil {
		// Handle race condition - another request may have created it
		if errors.Is(err, ErrSessionExists) {
			return r.GetUserBySession(ctx, sessionID)
		}
		return nil, err
	}

	return user, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
