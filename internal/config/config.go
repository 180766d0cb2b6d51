// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrTwitchCredentialsRequired is returned when TWITCH_CLIENT_ID or TWITCH_CLIENT_SECRET is not set.
	ErrTwitchCredentialsRequired = errors.New("config: TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET are required")
	// ErrBroadcasterRequired is returned when TWITCH_BROADCASTER_USERNAME is not set.
	ErrBroadcasterRequired = errors.New("config: TWITCH_BROADCASTER_USERNAME is required")
	// ErrStorageRequired is returned when any of the S3 settings is not set.
	ErrStorageRequired = errors.New("config: S3_ENDPOINT, S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY and S3_BUCKET are required")
	// ErrInvalid is returned when a value is present but out of range.
	ErrInvalid = errors.New("config: invalid value")
)

// Selection modes.
const (
	SelectRandom = "random"
	SelectAll    = "all"
)

// Config holds all configuration for the application.
// It is built once at startup and passed to every component; nothing else
// reads the environment.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=3000" json:"port" validate:"min=1,max=65535"`

	// Twitch settings
	TwitchClientID     string `env:"TWITCH_CLIENT_ID" json:"twitch_client_id" validate:"required"`
	TwitchClientSecret string `env:"TWITCH_CLIENT_SECRET" json:"-" validate:"required"` // Masked in JSON
	TwitchBroadcaster  string `env:"TWITCH_BROADCASTER_USERNAME" json:"twitch_broadcaster" validate:"required"`
	TwitchAuthURL      string `env:"TWITCH_AUTH_URL, default=https://id.twitch.tv/oauth2/token" json:"twitch_auth_url" validate:"required,url"`
	TwitchAPIURL       string `env:"TWITCH_API_URL, default=https://api.twitch.tv/helix" json:"twitch_api_url" validate:"required,url"`

	// Clip selection settings
	ClipPageSize int    `env:"CLIP_PAGE_SIZE, default=100" json:"clip_page_size" validate:"min=1,max=100"`
	SelectMode   string `env:"SELECT_MODE, default=random" json:"select_mode" validate:"oneof=random all"`

	// Object store settings
	S3Endpoint        string `env:"S3_ENDPOINT" json:"s3_endpoint" validate:"required,url"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID" json:"-" validate:"required"`     // Masked in JSON
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" json:"-" validate:"required"` // Masked in JSON
	S3Bucket          string `env:"S3_BUCKET" json:"s3_bucket" validate:"required"`
	S3Region          string `env:"S3_REGION, default=auto" json:"s3_region" validate:"required"`
	S3Prefix          string `env:"S3_PREFIX" json:"s3_prefix,omitempty"`

	// Retention settings
	RetentionCap int `env:"RETENTION_CAP, default=50" json:"retention_cap" validate:"min=1"`

	// Trigger settings
	ScheduleInterval time.Duration `env:"SCHEDULE_INTERVAL, default=0s" json:"schedule_interval" validate:"min=0"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT, default=60s" json:"http_timeout" validate:"min=0"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// ScheduleEnabled returns true if the in-process scheduler should run.
func (c *Config) ScheduleEnabled() bool {
	return c.ScheduleInterval > 0
}

// Load reads configuration from environment variables using go-envconfig
// and validates the result.
func Load() (*Config, error) {
	return load(envconfig.OsLookuper())
}

// load is Load with an injectable lookuper.
func load(l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and in range.
// Missing values are reported with the matching sentinel error.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}

	for _, fe := range verrs {
		if fe.Tag() != "required" {
			continue
		}
		switch fe.Field() {
		case "TwitchClientID", "TwitchClientSecret":
			return ErrTwitchCredentialsRequired
		case "TwitchBroadcaster":
			return ErrBroadcasterRequired
		case "S3Endpoint", "S3AccessKeyID", "S3SecretAccessKey", "S3Bucket":
			return ErrStorageRequired
		}
	}

	fe := verrs[0]
	return fmt.Errorf("%w: %s failed %q", ErrInvalid, fe.Field(), fe.Tag())
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, TwitchClientID: %s, TwitchBroadcaster: %s, ClipPageSize: %d, SelectMode: %s, S3Endpoint: %s, S3Bucket: %s, S3Region: %s, S3Prefix: %s, RetentionCap: %d, ScheduleInterval: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.TwitchClientID,
		c.TwitchBroadcaster,
		c.ClipPageSize,
		c.SelectMode,
		c.S3Endpoint,
		c.S3Bucket,
		c.S3Region,
		c.S3Prefix,
		c.RetentionCap,
		c.ScheduleInterval,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
