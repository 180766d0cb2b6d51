package config

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"TWITCH_CLIENT_ID":            "client-id",
		"TWITCH_CLIENT_SECRET":        "client-secret",
		"TWITCH_BROADCASTER_USERNAME": "streamer",
		"S3_ENDPOINT":                 "https://account.r2.cloudflarestorage.com",
		"S3_ACCESS_KEY_ID":            "access-key",
		"S3_SECRET_ACCESS_KEY":        "secret-key",
		"S3_BUCKET":                   "clips",
	}
}

func loadMap(env map[string]string) (*Config, error) {
	return load(envconfig.MapLookuper(env))
}

func TestLoad_RequiredVariables(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantErr error
	}{
		{"missing client id", "TWITCH_CLIENT_ID", ErrTwitchCredentialsRequired},
		{"missing client secret", "TWITCH_CLIENT_SECRET", ErrTwitchCredentialsRequired},
		{"missing broadcaster", "TWITCH_BROADCASTER_USERNAME", ErrBroadcasterRequired},
		{"missing endpoint", "S3_ENDPOINT", ErrStorageRequired},
		{"missing access key", "S3_ACCESS_KEY_ID", ErrStorageRequired},
		{"missing secret key", "S3_SECRET_ACCESS_KEY", ErrStorageRequired},
		{"missing bucket", "S3_BUCKET", ErrStorageRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			delete(env, tt.unset)

			_, err := loadMap(env)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("all required variables present succeeds", func(t *testing.T) {
		cfg, err := loadMap(baseEnv())
		require.NoError(t, err)
		assert.Equal(t, "client-id", cfg.TwitchClientID)
		assert.Equal(t, "client-secret", cfg.TwitchClientSecret)
		assert.Equal(t, "streamer", cfg.TwitchBroadcaster)
		assert.Equal(t, "clips", cfg.S3Bucket)
	})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadMap(baseEnv())
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "https://id.twitch.tv/oauth2/token", cfg.TwitchAuthURL)
	assert.Equal(t, "https://api.twitch.tv/helix", cfg.TwitchAPIURL)
	assert.Equal(t, 100, cfg.ClipPageSize)
	assert.Equal(t, SelectRandom, cfg.SelectMode)
	assert.Equal(t, "auto", cfg.S3Region)
	assert.Empty(t, cfg.S3Prefix)
	assert.Equal(t, 50, cfg.RetentionCap)
	assert.Equal(t, time.Duration(0), cfg.ScheduleInterval)
	assert.False(t, cfg.ScheduleEnabled())
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CustomValues(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "8080"
	env["CLIP_PAGE_SIZE"] = "5"
	env["SELECT_MODE"] = "all"
	env["S3_REGION"] = "eu-west-1"
	env["S3_PREFIX"] = "clips/"
	env["RETENTION_CAP"] = "10"
	env["SCHEDULE_INTERVAL"] = "15m"
	env["HTTP_TIMEOUT"] = "2m"
	env["LOG_FORMAT"] = "json"
	env["LOG_LEVEL"] = "debug"

	cfg, err := loadMap(env)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5, cfg.ClipPageSize)
	assert.Equal(t, SelectAll, cfg.SelectMode)
	assert.Equal(t, "eu-west-1", cfg.S3Region)
	assert.Equal(t, "clips/", cfg.S3Prefix)
	assert.Equal(t, 10, cfg.RetentionCap)
	assert.Equal(t, 15*time.Minute, cfg.ScheduleInterval)
	assert.True(t, cfg.ScheduleEnabled())
	assert.Equal(t, 2*time.Minute, cfg.HTTPTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "PORT", "not-a-number"},
		{"page size too large", "CLIP_PAGE_SIZE", "101"},
		{"page size zero", "CLIP_PAGE_SIZE", "0"},
		{"unknown select mode", "SELECT_MODE", "newest"},
		{"zero retention cap", "RETENTION_CAP", "0"},
		{"bad interval", "SCHEDULE_INTERVAL", "soon"},
		{"endpoint not a url", "S3_ENDPOINT", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			env[tt.key] = tt.value

			_, err := loadMap(env)
			require.Error(t, err)
		})
	}
}

func TestConfig_String_MasksSecrets(t *testing.T) {
	cfg, err := loadMap(baseEnv())
	require.NoError(t, err)

	s := cfg.String()
	assert.Contains(t, s, "client-id")
	assert.Contains(t, s, "clips")
	assert.NotContains(t, s, "client-secret")
	assert.NotContains(t, s, "secret-key")
	assert.NotContains(t, s, "access-key")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		cfg := &Config{LogFormat: "json", LogLevel: "debug"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("text format respects level", func(t *testing.T) {
		cfg := &Config{LogFormat: "text", LogLevel: "error"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
		assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	})
}
