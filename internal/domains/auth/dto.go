package auth

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"marketplace-backend/internal/domains/user"
)

// ========================================
// OTP FLOW DTOs
// ========================================

type SendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

func (r SendOTPRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
	)
}

type VerifyOTPRequest struct {
	OTP string `json:"otp" binding:"required"`
}

func (r VerifyOTPRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OTP,
			validation.Required.Error("otp is required"),
			validation.Length(6, 6).Error("otp must be 6 digits"),
			is.Digit.Error("otp must be numeric"),
		),
	)
}

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Password  string `json:"password" binding:"required"`
	IsSeller  bool   `json:"isSeller,omitempty"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName,
			validation.Required.Error("first name is required"),
			validation.Length(2, 50),
		),
		validation.Field(&r.LastName,
			validation.Required.Error("last name is required"),
			validation.Length(2, 50),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			// bcrypt rejects inputs over 72 bytes, so the cap matches it.
			validation.Length(4, 72).Error("password must be 4-72 characters"),
		),
	)
}

// ========================================
// SESSION FLOW DTOs
// ========================================

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type ResetPasswordRequest struct {
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OTP,
			validation.Required,
			validation.Length(6, 6).Error("otp must be 6 digits"),
			is.Digit,
		),
		validation.Field(&r.NewPassword,
			validation.Required,
			validation.Length(4, 72).Error("password must be 4-72 characters"),
		),
	)
}

// RegisterResponse carries the created user and its session token.
type RegisterResponse struct {
	User  user.DTO `json:"user"`
	Token string   `json:"-"` // travels as a cookie, not in the body
}

type LoginResponse struct {
	User  user.DTO `json:"user"`
	Token string   `json:"-"`
}
