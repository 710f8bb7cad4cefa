package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	HTTPAddr       string
	LogLevel       string
	LogFormat      string // json | console
	AllowedOrigins []string

	RoundSettleDelay time.Duration
	TossDelay        time.Duration
	MatchRetain      time.Duration

	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	OutboxSize     int
}

// Load reads the environment, after merging a .env file when one exists.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset keys.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	var errs error
	dur := func(k, def string) time.Duration {
		d, err := time.ParseDuration(get(k, def))
		if err != nil || d < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: invalid duration %q", k, get(k, def)))
		}
		return d
	}

	cfg := Config{
		HTTPAddr:         get("HTTP_ADDR", ":8080"),
		LogLevel:         get("LOG_LEVEL", "info"),
		LogFormat:        get("LOG_FORMAT", "json"),
		AllowedOrigins:   splitList(get("ALLOWED_ORIGINS", "")),
		RoundSettleDelay: dur("ROUND_SETTLE_DELAY", "3s"),
		TossDelay:        dur("TOSS_DELAY", "1s"),
		MatchRetain:      dur("MATCH_RETAIN", "100ms"),
		WSReadTimeout:    dur("WS_READ_TIMEOUT", "10m"),
		WSWriteTimeout:   dur("WS_WRITE_TIMEOUT", "3s"),
	}

	size, err := strconv.Atoi(get("OUTBOX_SIZE", "32"))
	if err != nil || size < 1 {
		errs = multierr.Append(errs, fmt.Errorf("OUTBOX_SIZE: invalid size %q", get("OUTBOX_SIZE", "32")))
	}
	cfg.OutboxSize = size

	switch cfg.LogFormat {
	case "json", "console":
	default:
		errs = multierr.Append(errs, fmt.Errorf("LOG_FORMAT: must be json or console, got %q", cfg.LogFormat))
	}

	if errs != nil {
		return Config{}, fmt.Errorf("config: %w", errs)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
