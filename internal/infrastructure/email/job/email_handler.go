package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/infrastructure/email"
)

// Handler processes queued email tasks in the worker by delegating to the
// SMTP-backed service.
type Handler struct {
	emailService email.Service
}

func NewHandler(emailService email.Service) *Handler {
	return &Handler{emailService: emailService}
}

// Register wires every email task type into the asynq mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(email.TaskVerificationCode, h.processVerificationCode)
	mux.HandleFunc(email.TaskWelcome, h.processWelcome)
	mux.HandleFunc(email.TaskPasswordResetCode, h.processPasswordResetCode)
	mux.HandleFunc(email.TaskOrderNotification, h.processOrderNotification)
}

func (h *Handler) processVerificationCode(ctx context.Context, task *asynq.Task) error {
	var payload email.VerificationCodeData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.emailService.SendVerificationCode(ctx, payload); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("failed to send verification code")
		return err
	}

	log.Info().Str("email", payload.Email).Msg("verification code sent")
	return nil
}

func (h *Handler) processWelcome(ctx context.Context, task *asynq.Task) error {
	var payload email.WelcomeData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.emailService.SendWelcome(ctx, payload); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("failed to send welcome email")
		return err
	}

	return nil
}

func (h *Handler) processPasswordResetCode(ctx context.Context, task *asynq.Task) error {
	var payload email.PasswordResetCodeData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.emailService.SendPasswordResetCode(ctx, payload); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("failed to send password reset code")
		return err
	}

	log.Info().Str("email", payload.Email).Msg("password reset code sent")
	return nil
}

func (h *Handler) processOrderNotification(ctx context.Context, task *asynq.Task) error {
	var payload email.OrderNotificationData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.emailService.SendOrderNotification(ctx, payload); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("failed to send order notification")
		return err
	}

	return nil
}
