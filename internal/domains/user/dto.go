package user

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// UpdateProfileRequest is the multipart form behind PUT /users/me.
// Empty fields keep the stored value; the avatar file part is optional.
type UpdateProfileRequest struct {
	FirstName string `form:"firstName" json:"firstName"`
	LastName  string `form:"lastName" json:"lastName"`
	Bio       string `form:"bio" json:"bio"`
	Address   string `form:"address" json:"address"`
	Phone     string `form:"phone" json:"phone"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Length(1, 100)),
		validation.Field(&r.Bio, validation.Length(0, 1000)),
		validation.Field(&r.Address, validation.Length(0, 500)),
		validation.Field(&r.Phone, validation.Length(0, 30)),
	)
}
