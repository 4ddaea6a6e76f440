package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/infrastructure/email"
	"marketplace-backend/internal/infrastructure/email/job"
	"marketplace-backend/pkg/logger"
)

// The worker drains the email queues. It always delivers over SMTP
// directly; only the API process enqueues.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.App.Environment)

	mailer := email.NewSMTPService(
		cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From, cfg.Email.Timeout,
	)
	handler := job.NewHandler(mailer)

	srv := startAsynqServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	srv.Shutdown()
	log.Info().Msg("worker stopped")
}
