package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/order"
	"marketplace-backend/internal/domains/product"
	"marketplace-backend/internal/infrastructure/cache"
	"marketplace-backend/pkg/database"
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache *cache.RedisClient
}

// NewPostgresRepository returns the pgx-backed implementation of
// order.Repository.
func NewPostgresRepository(pool *pgxpool.Pool, cache *cache.RedisClient) order.Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

func (r *postgresRepository) Create(ctx context.Context, o *order.Order) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Condition and write in one statement; two buyers racing for the
		// last unit cannot both succeed.
		tag, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $2, updated_at = NOW()
			 WHERE id = $1 AND stock >= $2`,
			o.ProductID, o.Quantity,
		)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return product.ErrInsufficientStock
		}

		query := `
			INSERT INTO orders (
				id, user_id, product_id, seller_id, quantity, total_price,
				address, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			RETURNING created_at, updated_at`

		err = tx.QueryRow(ctx, query,
			o.ID, o.UserID, o.ProductID, o.SellerID, o.Quantity, o.TotalPrice,
			o.Address, o.Status,
		).Scan(&o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if r.cache != nil {
		r.cache.Delete(ctx, fmt.Sprintf("product:%s", o.ProductID))
	}
	return nil
}

const orderColumns = `
	o.id, o.user_id, o.product_id, o.seller_id, o.quantity, o.total_price,
	o.address, o.status, o.created_at, o.updated_at, p.name
`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.ProductID, &o.SellerID, &o.Quantity, &o.TotalPrice,
		&o.Address, &o.Status, &o.CreatedAt, &o.UpdatedAt, &o.ProductName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o JOIN products p ON p.id = o.product_id
		WHERE o.id = $1`
	return scanOrder(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o JOIN products p ON p.id = o.product_id
		WHERE o.user_id = $1 ORDER BY o.created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *postgresRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]order.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o JOIN products p ON p.id = o.product_id
		WHERE o.seller_id = $1 ORDER BY o.created_at DESC`
	return r.list(ctx, query, sellerID)
}

func (r *postgresRepository) list(ctx context.Context, query string, arg any) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}
