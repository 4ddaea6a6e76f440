package product

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrNotOwner          = errors.New("product does not belong to seller")
	ErrNoImages          = errors.New("at least one product image is required")
	ErrInsufficientStock = errors.New("insufficient stock")
)
