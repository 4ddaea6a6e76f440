package order

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// BuyProductRequest is the body of POST /products/:id/buy.
type BuyProductRequest struct {
	Quantity int    `json:"quantity"`
	Address  string `json:"address"`
}

func (r BuyProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&r.Address, validation.Required, validation.Length(10, 500)),
	)
}

// UpdateStatusRequest moves an order through its lifecycle.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
