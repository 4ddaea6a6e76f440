package auth

import "context"

// Service is the authentication business-logic contract. The multi-step
// registration flow is stateless on the server: each step hands the client
// a signed token and the next step verifies it. Token extraction from the
// request is middleware's job; services receive already-verified claims.
type Service interface {
	// SendOTP starts registration for an unregistered email. Returns the
	// otp-pending token; the plaintext code goes out by email only.
	SendOTP(ctx context.Context, email string) (string, error)

	// VerifyOTP checks a supplied code against the hash carried by the
	// otp-pending token. Returns the email-verified token.
	VerifyOTP(ctx context.Context, email, otpHash, code string) (string, error)

	// Register completes registration for a verified email and returns the
	// created user with a session token.
	Register(ctx context.Context, email string, req RegisterRequest) (*RegisterResponse, error)

	// Login authenticates credentials and returns a session token.
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	// ForgotPassword issues a reset code for an existing user and returns
	// the reset-pending token.
	ForgotPassword(ctx context.Context, email string) (string, error)

	// ResetPassword completes the reset flow; the code is single-use.
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}
