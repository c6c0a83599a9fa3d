package api

import (
	"strings"
	"time"

	"email-relay-service/internal/domain"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

// HandlerDeps groups dependencies for handlers.
type HandlerDeps struct {
	Relay          domain.Relay
	AllowedOrigins []string
}

// RegisterRoutes wires HTTP endpoints.
func RegisterRoutes(app *fiber.App, deps HandlerDeps) {
	app.Use(recover.New())
	app.Use(requestLogger)

	if len(deps.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(deps.AllowedOrigins, ","),
			AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
			AllowCredentials: false,
		}))
	}

	app.Get("/health", health)
	app.Post("/send-emails", deps.sendEmails)
}

func health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

func (h HandlerDeps) sendEmails(c *fiber.Ctx) error {
	batch, reqErr := parseBatch(c.Body())
	if reqErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": reqErr.Detail})
	}

	if h.Relay == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "mail relay not configured"})
	}

	res, err := h.Relay.Send(c.UserContext(), batch)
	if err != nil {
		log.Error().
			Err(err).
			Str("component", "api").
			Int("batch_size", len(batch)).
			Int("sent", res.Sent()).
			Msg("send-emails failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Emails sent successfully"})
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Info().
		Str("component", "api").
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("latency", time.Since(start)).
		Msg("request")
	return err
}
