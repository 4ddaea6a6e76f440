package email

import (
	"context"
	"errors"
)

// ErrDeliveryFailed is returned when the mail collaborator cannot deliver.
// Callers map it to an upstream failure, never an internal one.
var ErrDeliveryFailed = errors.New("email delivery failed")

type VerificationCodeData struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type WelcomeData struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type PasswordResetCodeData struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type OrderNotificationData struct {
	Email       string `json:"email"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	TotalPrice  string `json:"total_price"`
	Address     string `json:"address"`
}

// Service is the outbound email contract. The API process talks to it
// either directly (SMTP) or through the asynq-backed enqueuer; the worker
// always ends at the SMTP implementation.
type Service interface {
	SendVerificationCode(ctx context.Context, data VerificationCodeData) error
	SendWelcome(ctx context.Context, data WelcomeData) error
	SendPasswordResetCode(ctx context.Context, data PasswordResetCodeData) error
	SendOrderNotification(ctx context.Context, data OrderNotificationData) error
}
