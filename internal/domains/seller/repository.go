package seller

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data-access contract for sellers.
type Repository interface {
	// Create inserts a seller row and flips the owning user's is_seller
	// flag in one transaction, keeping "seller row exists iff is_seller"
	// true. Returns ErrAlreadySeller on a user_id collision.
	Create(ctx context.Context, s *Seller) error

	// FindByID returns ErrSellerNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Seller, error)

	// FindByUserID resolves the seller identity behind a session, used by
	// the seller authorization gate. Returns ErrSellerNotFound when absent.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Seller, error)
}
