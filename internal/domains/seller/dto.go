package seller

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// BecomeSellerRequest arrives as multipart form fields plus an optional
// logo file handled by the handler.
type BecomeSellerRequest struct {
	StoreName       string `form:"storeName"`
	Description     string `form:"description"`
	BusinessAddress string `form:"businessAddress"`
	WebsiteURL      string `form:"websiteUrl"`
	InstagramURL    string `form:"instagramUrl"`
	FacebookURL     string `form:"facebookUrl"`
}

func (r BecomeSellerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StoreName,
			validation.Required.Error("store name is required"),
			validation.Length(3, 100),
		),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.BusinessAddress, validation.Length(0, 500)),
		validation.Field(&r.WebsiteURL, validation.When(r.WebsiteURL != "", is.URL)),
		validation.Field(&r.InstagramURL, validation.When(r.InstagramURL != "", is.URL)),
		validation.Field(&r.FacebookURL, validation.When(r.FacebookURL != "", is.URL)),
	)
}
