package product

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateProductRequest is the multipart form for a new listing. Images
// arrive as separate file parts handled by the handler.
type CreateProductRequest struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
	Price       string `form:"price" json:"price"`
	Stock       int    `form:"stock" json:"stock"`
	CategoryID  string `form:"categoryId" json:"categoryId"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.Description, validation.Required, validation.Length(10, 5000)),
		validation.Field(&r.Price, validation.Required, is.Float),
		validation.Field(&r.Stock, validation.Min(0)),
		validation.Field(&r.CategoryID, validation.Required, is.UUIDv4),
	)
}

// UpdateProductRequest carries partial edits. Empty fields keep the
// stored value; new images replace the existing set.
type UpdateProductRequest struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
	Price       string `form:"price" json:"price"`
	Stock       *int   `form:"stock" json:"stock"`
	CategoryID  string `form:"categoryId" json:"categoryId"`
}

func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(3, 200)),
		validation.Field(&r.Description, validation.Length(10, 5000)),
		validation.Field(&r.Price, is.Float),
		validation.Field(&r.Stock, validation.Min(0)),
		validation.Field(&r.CategoryID, is.UUIDv4),
	)
}

// ListQuery captures the supported query parameters for product listing.
type ListQuery struct {
	Page       int
	Limit      int
	CategoryID string
	SellerID   string
	Search     string
	SortBy     string
	Order      string
}

const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 100
)

// Normalize clamps pagination and whitelists sort inputs so raw query
// values never reach SQL.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	switch q.SortBy {
	case "price", "name", "created_at":
	default:
		q.SortBy = "created_at"
	}
	switch q.Order {
	case "asc", "desc":
	default:
		q.Order = "desc"
	}
}

func (q *ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
