package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/auth"
	"marketplace-backend/internal/domains/user"
	"marketplace-backend/internal/infrastructure/email"
	"marketplace-backend/pkg/hash"
	"marketplace-backend/pkg/token"
)

const resetCodeTTL = 15 * time.Minute

type authService struct {
	users  user.Repository
	tokens *token.Manager
	mailer email.Service
}

// NewAuthService builds the auth service.
func NewAuthService(users user.Repository, tokens *token.Manager, mailer email.Service) auth.Service {
	return &authService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
	}
}

// ========================================
// OTP FLOW
// ========================================

func (s *authService) SendOTP(ctx context.Context, emailAddr string) (string, error) {
	exists, err := s.users.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return "", fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return "", auth.ErrAlreadyRegistered
	}

	code, err := hash.GenerateOTP()
	if err != nil {
		return "", err
	}

	codeHash, err := hash.Hash(code)
	if err != nil {
		return "", err
	}

	// The email goes out before the token is issued: if delivery fails the
	// client gets no token and simply retries.
	if err := s.mailer.SendVerificationCode(ctx, email.VerificationCodeData{
		Email: emailAddr,
		Code:  code,
	}); err != nil {
		return "", err
	}

	// The token is the only record of the code. Nothing is stored
	// server-side, so the flow survives a restart.
	otpToken, err := s.tokens.IssueOTPPending(emailAddr, codeHash)
	if err != nil {
		return "", fmt.Errorf("issue otp token: %w", err)
	}

	return otpToken, nil
}

func (s *authService) VerifyOTP(ctx context.Context, emailAddr, otpHash, code string) (string, error) {
	if !hash.Verify(code, otpHash) {
		// The otp-pending token is not consumed; the client may retry with
		// the right code until the token expires.
		return "", auth.ErrInvalidOTP
	}

	verifiedToken, err := s.tokens.IssueEmailVerified(emailAddr)
	if err != nil {
		return "", fmt.Errorf("issue verified token: %w", err)
	}

	return verifiedToken, nil
}

func (s *authService) Register(ctx context.Context, emailAddr string, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	passwordHash, err := hash.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        emailAddr,
		Username:     usernameFromEmail(emailAddr),
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsSeller:     req.IsSeller,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// No pre-check here: the unique constraints on email and username are
	// the final arbiter, so two concurrently verified tokens for the same
	// identity cannot both succeed.
	if err := s.users.Create(ctx, newUser); err != nil {
		return nil, err
	}

	// Welcome mail is best effort; the account already exists.
	if err := s.mailer.SendWelcome(ctx, email.WelcomeData{
		Email:    newUser.Email,
		Username: newUser.Username,
	}); err != nil {
		// logged by the mailer, registration still succeeds
		_ = err
	}

	sessionToken, err := s.tokens.IssueSession(newUser.Email, newUser.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &auth.RegisterResponse{User: newUser.ToDTO(), Token: sessionToken}, nil
}

// ========================================
// SESSION FLOW
// ========================================

func (s *authService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err // user.ErrUserNotFound maps to 404
	}

	if !hash.Verify(req.Password, u.PasswordHash) {
		return nil, user.ErrInvalidCredentials
	}

	sessionToken, err := s.tokens.IssueSession(u.Email, u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &auth.LoginResponse{User: u.ToDTO(), Token: sessionToken}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, emailAddr string) (string, error) {
	u, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return "", err
	}

	code, err := hash.GenerateOTP()
	if err != nil {
		return "", err
	}

	// The reset code is stored hashed, same policy as the registration OTP.
	codeHash, err := hash.Hash(code)
	if err != nil {
		return "", err
	}

	if err := s.users.SetResetCode(ctx, u.ID, codeHash, time.Now().Add(resetCodeTTL)); err != nil {
		return "", fmt.Errorf("store reset code: %w", err)
	}

	if err := s.mailer.SendPasswordResetCode(ctx, email.PasswordResetCodeData{
		Email: u.Email,
		Code:  code,
	}); err != nil {
		return "", err
	}

	resetToken, err := s.tokens.IssueResetPending(u.Email, u.ID)
	if err != nil {
		return "", fmt.Errorf("issue reset token: %w", err)
	}

	return resetToken, nil
}

func (s *authService) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	u, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	if !u.IsResetCodeValid() || !hash.Verify(code, *u.ResetCodeHash) {
		// The password is never mutated on a bad or expired code.
		return auth.ErrInvalidOrExpiredOTP
	}

	passwordHash, err := hash.Hash(newPassword)
	if err != nil {
		return err
	}

	// UpdatePassword clears the stored code, making it single-use.
	if err := s.users.UpdatePassword(ctx, u.ID, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// usernameFromEmail derives the unique username from the email local-part.
func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
