package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/product"
	"marketplace-backend/internal/infrastructure/cache"
	"marketplace-backend/pkg/database"
)

const cacheTTL = 5 * time.Minute

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache *cache.RedisClient
}

// NewPostgresRepository returns the pgx-backed implementation of
// product.Repository with a Redis cache-aside layer for point lookups.
func NewPostgresRepository(pool *pgxpool.Pool, cache *cache.RedisClient) product.Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

func (r *postgresRepository) Create(ctx context.Context, p *product.Product) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO products (
				id, seller_id, category_id, name, description, price, stock,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			RETURNING created_at, updated_at`

		err := tx.QueryRow(ctx, query,
			p.ID, p.SellerID, p.CategoryID, p.Name, p.Description, p.Price, p.Stock,
		).Scan(&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}

		return insertImages(ctx, tx, p.ID, p.Images)
	})
}

func insertImages(ctx context.Context, tx pgx.Tx, productID uuid.UUID, images []product.Image) error {
	for i := range images {
		images[i].ProductID = productID
		_, err := tx.Exec(ctx,
			`INSERT INTO product_images (id, product_id, url) VALUES ($1, $2, $3)`,
			images[i].ID, productID, images[i].URL,
		)
		if err != nil {
			return fmt.Errorf("insert product image: %w", err)
		}
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	cacheKey := fmt.Sprintf("product:%s", id)

	var cached product.Product
	if r.cache != nil && r.cache.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	query := `
		SELECT p.id, p.seller_id, p.category_id, p.name, p.description,
		       p.price, p.stock, p.created_at, p.updated_at,
		       s.store_name, c.name
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	var p product.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SellerID, &p.CategoryID, &p.Name, &p.Description,
		&p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
		&p.SellerStoreName, &p.CategoryName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if p.Images, err = r.loadImages(ctx, id); err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.SetJSON(ctx, cacheKey, &p, cacheTTL)
	}
	return &p, nil
}

func (r *postgresRepository) loadImages(ctx context.Context, productID uuid.UUID) ([]product.Image, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, url FROM product_images WHERE product_id = $1 ORDER BY id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("load product images: %w", err)
	}
	defer rows.Close()

	images := make([]product.Image, 0)
	for rows.Next() {
		var img product.Image
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *postgresRepository) List(ctx context.Context, q *product.ListQuery) ([]product.Product, int64, error) {
	where, args := buildFilters(q)

	var total int64
	countQuery := `SELECT COUNT(*) FROM products p` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	// SortBy and Order come pre-whitelisted from ListQuery.Normalize.
	query := fmt.Sprintf(`
		SELECT p.id, p.seller_id, p.category_id, p.name, p.description,
		       p.price, p.stock, p.created_at, p.updated_at,
		       s.store_name, c.name
		FROM products p
		JOIN sellers s ON s.id = p.seller_id
		JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.%s %s
		LIMIT $%d OFFSET $%d`,
		where, q.SortBy, strings.ToUpper(q.Order), len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]product.Product, 0)
	for rows.Next() {
		var p product.Product
		err := rows.Scan(
			&p.ID, &p.SellerID, &p.CategoryID, &p.Name, &p.Description,
			&p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
			&p.SellerStoreName, &p.CategoryName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range products {
		if products[i].Images, err = r.loadImages(ctx, products[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return products, total, nil
}

// buildFilters assembles the WHERE clause shared by the count and page
// queries. Each search term must match name or description, so
// "wool scarf" narrows rather than widens the result set.
func buildFilters(q *product.ListQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if q.CategoryID != "" {
		args = append(args, q.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if q.SellerID != "" {
		args = append(args, q.SellerID)
		conds = append(conds, fmt.Sprintf("p.seller_id = $%d", len(args)))
	}
	for _, term := range strings.Fields(q.Search) {
		args = append(args, "%"+term+"%")
		conds = append(conds, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *postgresRepository) Update(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products SET
			category_id = $2, name = $3, description = $4, price = $5,
			stock = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.Stock,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.ErrProductNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}

	r.invalidate(ctx, p.ID)
	return nil
}

func (r *postgresRepository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []product.Image) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("delete product images: %w", err)
		}
		return insertImages(ctx, tx, productID, images)
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx, productID)
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// product_images rows go with the product via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrProductNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if r.cache != nil {
		r.cache.Delete(ctx, fmt.Sprintf("product:%s", id))
	}
}
