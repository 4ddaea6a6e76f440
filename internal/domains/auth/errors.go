package auth

import "errors"

var (
	ErrAlreadyRegistered   = errors.New("user already exists")
	ErrInvalidOTP          = errors.New("invalid OTP")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")
)
