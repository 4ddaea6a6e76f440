package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/seller"
	"marketplace-backend/internal/infrastructure/cache"
	"marketplace-backend/pkg/database"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache *cache.RedisClient
}

func NewPostgresRepository(pool *pgxpool.Pool, cache *cache.RedisClient) seller.Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

const sellerColumns = `
	id, user_id, store_name, description, logo_url, business_address,
	website_url, instagram_url, facebook_url, created_at, updated_at
`

func scanSeller(row pgx.Row) (*seller.Seller, error) {
	var s seller.Seller
	err := row.Scan(
		&s.ID, &s.UserID, &s.StoreName, &s.Description, &s.LogoURL, &s.BusinessAddress,
		&s.WebsiteURL, &s.InstagramURL, &s.FacebookURL, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, seller.ErrSellerNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) Create(ctx context.Context, s *seller.Seller) error {
	query := `
		INSERT INTO sellers (
			id, user_id, store_name, description, logo_url, business_address,
			website_url, instagram_url, facebook_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	// Insert and flag flip are one transaction so a seller row can never
	// exist without is_seller set, and vice versa.
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query,
			s.ID, s.UserID, s.StoreName, s.Description, s.LogoURL, s.BusinessAddress,
			s.WebsiteURL, s.InstagramURL, s.FacebookURL, s.CreatedAt, s.UpdatedAt,
		); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`UPDATE users SET is_seller = TRUE, updated_at = NOW() WHERE id = $1`, s.UserID)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return seller.ErrAlreadySeller
		}
		return fmt.Errorf("insert seller: %w", err)
	}

	// The cached user DTO carries is_seller; drop it.
	if r.cache != nil {
		r.cache.Delete(ctx, fmt.Sprintf("user:%s", s.UserID))
	}

	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.Seller, error) {
	query := `SELECT ` + sellerColumns + ` FROM sellers WHERE id = $1`
	return scanSeller(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*seller.Seller, error) {
	query := `SELECT ` + sellerColumns + ` FROM sellers WHERE user_id = $1`
	return scanSeller(r.pool.QueryRow(ctx, query, userID))
}
