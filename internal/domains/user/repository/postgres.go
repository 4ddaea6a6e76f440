package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/user"
	"marketplace-backend/internal/infrastructure/cache"
)

const (
	uniqueViolation = "23505"
	cacheTTL        = 5 * time.Minute
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache *cache.RedisClient
}

// NewPostgresRepository returns the pgx-backed implementation of
// user.Repository with a Redis cache-aside layer for point lookups.
func NewPostgresRepository(pool *pgxpool.Pool, cache *cache.RedisClient) user.Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

const userColumns = `
	id, email, username, password_hash, first_name, last_name,
	bio, address, phone, avatar_url, is_seller, is_admin,
	reset_code_hash, reset_code_expires_at, created_at, updated_at
`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Bio, &u.Address, &u.Phone, &u.AvatarURL, &u.IsSeller, &u.IsAdmin,
		&u.ResetCodeHash, &u.ResetCodeExpiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, email, username, password_hash, first_name, last_name,
			bio, address, phone, avatar_url, is_seller, is_admin,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14
		)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.Username, u.PasswordHash, u.FirstName, u.LastName,
		u.Bio, u.Address, u.Phone, u.AvatarURL, u.IsSeller, u.IsAdmin,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		// The unique constraints on email and username settle the race
		// between two concurrent registrations for the same identity.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	cacheKey := fmt.Sprintf("user:%s", id)

	var cached user.User
	if r.cache != nil && r.cache.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.SetJSON(ctx, cacheKey, u, cacheTTL)
	}
	return u, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	// Login and reset paths read credential fields; never served from cache.
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users SET
			first_name = $2, last_name = $3, bio = $4, address = $5,
			phone = $6, avatar_url = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Bio, u.Address, u.Phone, u.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	r.invalidate(ctx, u.ID)
	return nil
}

func (r *postgresRepository) SetResetCode(ctx context.Context, id uuid.UUID, codeHash string, expiresAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET reset_code_hash = $2, reset_code_expires_at = $3, updated_at = NOW() WHERE id = $1`,
		id, codeHash, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("set reset code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	// Clearing the reset code in the same statement makes the code single-use.
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, reset_code_hash = NULL,
			reset_code_expires_at = NULL, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if r.cache != nil {
		r.cache.Delete(ctx, fmt.Sprintf("user:%s", id))
	}
}
