package category

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data-access contract for categories. The unique
// constraint on name is mapped to ErrCategoryExists.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
