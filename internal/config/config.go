package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port           string
	SenderEmail    string
	SenderPassword string
	SMTPHost       string
	SMTPPort       int
	AllowedOrigins []string
	FailurePolicy  string
	LogLevel       string
	LogFormat      string
}

// LoadConfig reads configuration from environment variables with sane defaults.
// Sender credentials are optional here; the relay refuses to send without them.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8000"),
		SenderEmail:    strings.TrimSpace(getEnv("GMAIL_USER", "")),
		SenderPassword: getEnv("GMAIL_APP_PASSWORD", ""),
		SMTPHost:       getEnv("SMTP_HOST", DefaultSMTPHost),
		SMTPPort:       getEnvInt("SMTP_PORT", DefaultSMTPPort),
		AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		FailurePolicy:  strings.ToLower(getEnv("SEND_FAILURE_POLICY", "abort")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}
}

// HasCredentials reports whether both sender address and secret are set.
func (c Config) HasCredentials() bool {
	return c.SenderEmail != "" && c.SenderPassword != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitCSV(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
