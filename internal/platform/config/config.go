package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	DefaultTimeLimit time.Duration `env:"DEFAULT_TIME_LIMIT" default:"60s"`
	DefaultCreator   string        `env:"DEFAULT_CREATOR" default:"teacher"`

	MaxWebSocketConnections int     `env:"MAX_WEBSOCKET_CONNECTIONS" default:"10000"`
	MaxConnectionsPerIP     int     `env:"MAX_CONNECTIONS_PER_IP" default:"100"`
	ConnectionRatePerSecond float64 `env:"CONNECTION_RATE_PER_SECOND" default:"10"`
	ConnectionRateBurst     int     `env:"CONNECTION_RATE_BURST" default:"20"`
	LoginRatePerSecond      float64 `env:"LOGIN_RATE_PER_SECOND" default:"1"`
	LoginRateBurst          int     `env:"LOGIN_RATE_BURST" default:"5"`

	// Comma separated; "*" allows any origin.
	AllowedOrigins string `env:"ALLOWED_ORIGINS" default:"*"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Origins returns the parsed ALLOWED_ORIGINS list.
func (c *Config) Origins() []string {
	var origins []string
	for origin := range strings.SplitSeq(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func validate(cfg *Config) error {
	if cfg.Port == "" {
		return errors.New("PORT is required")
	}
	if cfg.DefaultTimeLimit < time.Second {
		return fmt.Errorf("DEFAULT_TIME_LIMIT must be at least 1s, got %v", cfg.DefaultTimeLimit)
	}
	if strings.TrimSpace(cfg.DefaultCreator) == "" {
		return errors.New("DEFAULT_CREATOR must not be empty")
	}
	if cfg.MaxWebSocketConnections <= 0 {
		return errors.New("MAX_WEBSOCKET_CONNECTIONS must be positive")
	}
	if cfg.MaxConnectionsPerIP <= 0 {
		return errors.New("MAX_CONNECTIONS_PER_IP must be positive")
	}
	if cfg.ConnectionRatePerSecond <= 0 {
		return errors.New("CONNECTION_RATE_PER_SECOND must be positive")
	}
	if cfg.ConnectionRateBurst <= 0 {
		return errors.New("CONNECTION_RATE_BURST must be positive")
	}
	if cfg.LoginRatePerSecond <= 0 || cfg.LoginRateBurst <= 0 {
		return errors.New("LOGIN_RATE_PER_SECOND and LOGIN_RATE_BURST must be positive")
	}
	origins := cfg.Origins()
	if len(origins) == 0 {
		return errors.New("ALLOWED_ORIGINS must list at least one origin")
	}
	if cfg.AppEnv == "production" && slices.Contains(origins, "*") {
		return errors.New("ALLOWED_ORIGINS=* is not allowed in production")
	}
	if !slices.Contains([]string{"text", "json"}, cfg.LogFormat) {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	return nil
}
