package seller

import "errors"

var (
	ErrSellerNotFound = errors.New("seller not found")
	ErrAlreadySeller  = errors.New("user is already a seller")
)
