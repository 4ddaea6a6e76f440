package product

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data-access contract for products and their images.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, q *ListQuery) ([]Product, int64, error)
	Update(ctx context.Context, p *Product) error

	// ReplaceImages swaps a product's image rows in one transaction.
	ReplaceImages(ctx context.Context, productID uuid.UUID, images []Image) error

	Delete(ctx context.Context, id uuid.UUID) error
}
