package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// ErrMissingAPIKey means neither GEMINI_API_KEY nor API_KEY is set.
var ErrMissingAPIKey = errors.New("config: GEMINI_API_KEY (or API_KEY) is required")

type AppConfig struct {
	Port               string
	APIKey             string
	Model              string
	PredictTimeout     time.Duration
	EnvelopeFile       string
	LogLevel           string
	BreakerMaxFailures uint32
	BreakerOpenFor     time.Duration
}

// Load reads .env (if present) and the process environment. A missing API
// key is an error; the server must not start without one.
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("config: load .env: %w", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}

	cfg := AppConfig{
		Port:         get("PORT", "8080"),
		APIKey:       get("GEMINI_API_KEY", get("API_KEY", "")),
		Model:        get("GEMINI_MODEL", "gemini-2.5-flash"),
		EnvelopeFile: get("ENVELOPE_FILE", ""),
		LogLevel:     get("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.PredictTimeout, err = time.ParseDuration(get("PREDICT_TIMEOUT", "60s")); err != nil {
		return AppConfig{}, fmt.Errorf("config: PREDICT_TIMEOUT: %w", err)
	}
	if cfg.BreakerOpenFor, err = time.ParseDuration(get("BREAKER_OPEN_FOR", "30s")); err != nil {
		return AppConfig{}, fmt.Errorf("config: BREAKER_OPEN_FOR: %w", err)
	}
	n, err := strconv.ParseUint(get("BREAKER_MAX_FAILURES", "5"), 10, 32)
	if err != nil {
		return AppConfig{}, fmt.Errorf("config: BREAKER_MAX_FAILURES: %w", err)
	}
	cfg.BreakerMaxFailures = uint32(n)
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return AppConfig{}, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}

	if cfg.APIKey == "" {
		return cfg, ErrMissingAPIKey
	}
	return cfg, nil
}

// MarshalLogObject lets the config be logged with zap.Object; the key is
// never written out.
func (c AppConfig) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("port", c.Port)
	enc.AddString("api_key", redact(c.APIKey))
	enc.AddString("model", c.Model)
	enc.AddDuration("predict_timeout", c.PredictTimeout)
	enc.AddString("envelope_file", c.EnvelopeFile)
	enc.AddString("log_level", c.LogLevel)
	enc.AddUint32("breaker_max_failures", c.BreakerMaxFailures)
	enc.AddDuration("breaker_open_for", c.BreakerOpenFor)
	return nil
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****"
}
