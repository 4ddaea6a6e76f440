package email

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types consumed by cmd/worker.
const (
	TaskVerificationCode  = "email:verification_code"
	TaskWelcome           = "email:welcome"
	TaskPasswordResetCode = "email:password_reset_code"
	TaskOrderNotification = "email:order_notification"
)

// queueService implements Service by enqueuing asynq tasks on Redis.
// Enqueue failure means the code was never mailed, so it surfaces as a
// delivery failure to the caller.
type queueService struct {
	client *asynq.Client
}

func NewQueueService(redisAddr, redisPassword string, redisDB int) Service {
	return &queueService{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		}),
	}
}

func (s *queueService) SendVerificationCode(ctx context.Context, data VerificationCodeData) error {
	// Verification codes expire quickly; deliver at high priority.
	return s.enqueue(ctx, TaskVerificationCode, data, asynq.Queue("high"))
}

func (s *queueService) SendWelcome(ctx context.Context, data WelcomeData) error {
	return s.enqueue(ctx, TaskWelcome, data, asynq.Queue("low"))
}

func (s *queueService) SendPasswordResetCode(ctx context.Context, data PasswordResetCodeData) error {
	return s.enqueue(ctx, TaskPasswordResetCode, data, asynq.Queue("high"))
}

func (s *queueService) SendOrderNotification(ctx context.Context, data OrderNotificationData) error {
	return s.enqueue(ctx, TaskOrderNotification, data, asynq.Queue("default"))
}

func (s *queueService) enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	opts = append(opts, asynq.MaxRetry(5))
	if _, err := s.client.EnqueueContext(ctx, asynq.NewTask(taskType, raw), opts...); err != nil {
		return fmt.Errorf("%w: enqueue %s: %v", ErrDeliveryFailed, taskType, err)
	}

	return nil
}
