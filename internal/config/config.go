package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config contains all runtime settings for the Pomodoro service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	BotToken           string
	TelegramAPIBaseURL string

	WorkDuration    time.Duration
	BreakDuration   time.Duration
	AlignGroupStart bool

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:           envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:   envOrDefault("APP_METRICS_NAMESPACE", "pomobot"),
		AllowAnyOrigin:     false,
		BotToken:           trimmedEnv("BOT_TOKEN"),
		TelegramAPIBaseURL: trimmedEnv("TELEGRAM_API_BASE_URL"),
		WorkDuration:       25 * time.Minute,
		BreakDuration:      5 * time.Minute,
		AlignGroupStart:    true,
		DatabaseURL:        trimmedEnv("DATABASE_URL"),
		ShutdownTimeout:    15 * time.Second,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.WorkDuration, err = durationFromEnv("WORK_DURATION", cfg.WorkDuration)
	if err != nil {
		return Config{}, err
	}
	cfg.BreakDuration, err = durationFromEnv("BREAK_DURATION", cfg.BreakDuration)
	if err != nil {
		return Config{}, err
	}
	cfg.AlignGroupStart, err = boolFromEnv("ALIGN_GROUP_START", cfg.AlignGroupStart)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.WorkDuration < time.Second {
		return Config{}, fmt.Errorf("WORK_DURATION must be at least 1s")
	}
	if cfg.BreakDuration < time.Second {
		return Config{}, fmt.Errorf("BREAK_DURATION must be at least 1s")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(trimmedEnv(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
