package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"email-relay-service/internal/api"
	"email-relay-service/internal/config"
	"email-relay-service/internal/domain"
	"email-relay-service/internal/logging"
	"email-relay-service/internal/metrics"
	"email-relay-service/internal/providers"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.LoadConfig()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	collector, err := metrics.Init()
	if err != nil {
		log.Warn().Err(err).Msg("metrics init failed")
	}

	policy, err := domain.ParseFailurePolicy(cfg.FailurePolicy)
	if err != nil {
		log.Warn().Err(err).Str("policy", string(policy)).Msg("falling back to default failure policy")
	}

	if !cfg.HasCredentials() {
		log.Warn().Msg("GMAIL_USER/GMAIL_APP_PASSWORD not set; /send-emails will fail until configured")
	}

	relay := providers.SMTPRelay{
		Host:    cfg.SMTPHost,
		Port:    cfg.SMTPPort,
		User:    cfg.SenderEmail,
		Pass:    cfg.SenderPassword,
		Policy:  policy,
		Metrics: collector,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{AppName: "Email Sender API", DisableStartupMessage: true})
	api.RegisterRoutes(app, api.HandlerDeps{
		Relay:          relay,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Msg("email relay listening")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("fiber listen failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("email relay shutting down")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
