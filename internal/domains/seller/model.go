package seller

import (
	"time"

	"github.com/google/uuid"
)

// Seller is the 1:1 store-profile extension of a User. A row exists iff
// the owning user's is_seller flag is set.
type Seller struct {
	ID     uuid.UUID `db:"id" json:"id"`
	UserID uuid.UUID `db:"user_id" json:"user_id"`

	StoreName       string  `db:"store_name" json:"store_name"`
	Description     *string `db:"description" json:"description,omitempty"`
	LogoURL         *string `db:"logo_url" json:"logo_url,omitempty"`
	BusinessAddress *string `db:"business_address" json:"business_address,omitempty"`
	WebsiteURL      *string `db:"website_url" json:"website_url,omitempty"`
	InstagramURL    *string `db:"instagram_url" json:"instagram_url,omitempty"`
	FacebookURL     *string `db:"facebook_url" json:"facebook_url,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
