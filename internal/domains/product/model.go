package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable listing owned by a seller.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	SellerID    uuid.UUID       `json:"sellerId"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []Image         `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	// Denormalized for detail/list views.
	SellerStoreName string `json:"sellerStoreName,omitempty"`
	CategoryName    string `json:"categoryName,omitempty"`
}

// Image is a stored product photo. URL points into the blob store.
type Image struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"-"`
	URL       string    `json:"url"`
}
