package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL string
	ListenAddr  string
	LogLevel    string
	Environment string

	// Recurring scheduler loop. Seconds-scale polling approximates the
	// "alarm clock" behavior of minute-exact delivery times.
	PollInterval time.Duration

	// Twilio WhatsApp gateway
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	GatewayTimeout   time.Duration

	// Remote plan-generation model. Optional: when the URL is empty the
	// service runs on the local heuristic generator only.
	GeneratorAPIURL  string
	GeneratorAPIKey  string
	GeneratorModel   string
	GeneratorTimeout time.Duration

	// Optional Telegram ops alerting for scheduler-observed failures.
	TelegramToken string
	AdminChatID   int64
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	if cfg.TwilioAccountSID == "" {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID is not set")
	}
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	if cfg.TwilioAuthToken == "" {
		return nil, fmt.Errorf("TWILIO_AUTH_TOKEN is not set")
	}
	cfg.TwilioFromNumber = os.Getenv("TWILIO_PHONE_NUMBER")
	if cfg.TwilioFromNumber == "" {
		return nil, fmt.Errorf("TWILIO_PHONE_NUMBER is not set")
	}

	cfg.ListenAddr = os.Getenv("LISTEN_ADDR")
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	pollSecondsStr := os.Getenv("POLL_INTERVAL_SECONDS")
	if pollSecondsStr == "" {
		cfg.PollInterval = 10 * time.Second
	} else {
		seconds, err := strconv.Atoi(pollSecondsStr)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid POLL_INTERVAL_SECONDS: %q", pollSecondsStr)
		}
		cfg.PollInterval = time.Duration(seconds) * time.Second
	}

	cfg.GatewayTimeout = 20 * time.Second
	if v := os.Getenv("GATEWAY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT: %w", err)
		}
		cfg.GatewayTimeout = d
	}

	cfg.GeneratorAPIURL = os.Getenv("GENERATOR_API_URL")
	cfg.GeneratorAPIKey = os.Getenv("GENERATOR_API_KEY")
	cfg.GeneratorModel = os.Getenv("GENERATOR_MODEL")
	if cfg.GeneratorModel == "" {
		cfg.GeneratorModel = "gemini-1.5-flash"
	}
	cfg.GeneratorTimeout = 30 * time.Second
	if v := os.Getenv("GENERATOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GENERATOR_TIMEOUT: %w", err)
		}
		cfg.GeneratorTimeout = d
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	adminIDStr := os.Getenv("ADMIN_CHAT_ID")
	if adminIDStr != "" {
		var err error
		cfg.AdminChatID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_ID: %w", err)
		}
	}

	return cfg, nil
}
