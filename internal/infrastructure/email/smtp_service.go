package email

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"marketplace-backend/pkg/logger"
)

type smtpService struct {
	smtpAddr string
	smtpFrom string
	timeout  time.Duration
}

// NewSMTPService sends mail through a plain SMTP relay (mailhog/postfix in
// development). Every delivery attempt is bounded by timeout.
func NewSMTPService(smtpHost, smtpPort, from string, timeout time.Duration) Service {
	return &smtpService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
		timeout:  timeout,
	}
}

func (s *smtpService) SendVerificationCode(ctx context.Context, data VerificationCodeData) error {
	body := fmt.Sprintf(`Hello,

Your verification code is:
%s

The code is valid for 15 minutes.

If you did not request this, please ignore this email.`, data.Code)

	return s.send(ctx, data.Email, "Verify your email address", body)
}

func (s *smtpService) SendWelcome(ctx context.Context, data WelcomeData) error {
	body := fmt.Sprintf(`Hello %s,

Your account has been created. Welcome aboard!`, data.Username)

	return s.send(ctx, data.Email, "Welcome to Marketplace", body)
}

func (s *smtpService) SendPasswordResetCode(ctx context.Context, data PasswordResetCodeData) error {
	body := fmt.Sprintf(`Hello,

Use the following code to reset your password:
%s

The code is valid for 15 minutes.

If you did not request a password reset, please ignore this email.`, data.Code)

	return s.send(ctx, data.Email, "Reset your password", body)
}

func (s *smtpService) SendOrderNotification(ctx context.Context, data OrderNotificationData) error {
	body := fmt.Sprintf(`Hello,

You have a new order:

Product:  %s
Quantity: %d
Total:    %s
Ship to:  %s`, data.ProductName, data.Quantity, data.TotalPrice, data.Address)

	return s.send(ctx, data.Email, "New order received", body)
}

// send delivers one message in a goroutine so the context timeout bounds
// the whole SMTP exchange; net/smtp has no context support of its own.
func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, to, subject, body))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("smtp delivery failed", err)
			return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
		return nil
	case <-ctx.Done():
		logger.Error("smtp delivery timed out", ctx.Err())
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, ctx.Err())
	}
}
