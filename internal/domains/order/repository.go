package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data-access contract for orders.
type Repository interface {
	// Create inserts the order and decrements the product's stock in one
	// transaction; when stock is short the whole purchase rolls back with
	// product.ErrInsufficientStock.
	Create(ctx context.Context, o *Order) error

	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
