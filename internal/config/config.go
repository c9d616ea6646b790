// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every tunable of the service.
type Config struct {
	HTTPAddr        string
	LogLevel        slog.Level
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins []string

	// TracingExporter is one of "none", "stdout" or "otlp".
	TracingExporter string
	OTLPEndpoint    string
	ServiceName     string
}

func Default() Config {
	return Config{
		HTTPAddr:           ":8080",
		LogLevel:           slog.LevelInfo,
		RequestTimeout:     15 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		RateLimitRPS:       0,
		RateLimitBurst:     10,
		CORSAllowedOrigins: []string{"*"},
		TracingExporter:    "none",
		OTLPEndpoint:       "localhost:4318",
		ServiceName:        "todo-service",
	}
}

// Load starts from Default and overrides each field whose variable is set.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()
	var err error

	if v := env(getenv, "HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	cfg.LogLevel = ParseLevel(env(getenv, "LOG_LEVEL"))

	if cfg.RequestTimeout, err = duration(getenv, "REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = duration(getenv, "SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}

	if v := env(getenv, "RATE_LIMIT_RPS"); v != "" {
		if cfg.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return Config{}, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
	}
	if v := env(getenv, "RATE_LIMIT_BURST"); v != "" {
		if cfg.RateLimitBurst, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
	}

	if v := env(getenv, "CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSAllowedOrigins = origins
	}

	if v := strings.ToLower(env(getenv, "TRACING_EXPORTER")); v != "" {
		switch v {
		case "none", "stdout", "otlp":
			cfg.TracingExporter = v
		default:
			return Config{}, fmt.Errorf("TRACING_EXPORTER: unknown exporter %q", v)
		}
	}
	if v := env(getenv, "OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := env(getenv, "SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}

	return cfg, nil
}

// ParseLevel maps LOG_LEVEL values to slog levels; anything unknown is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns the JSON logger written to stdout.
func NewLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

func env(getenv func(string) string, key string) string {
	return strings.TrimSpace(getenv(key))
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := env(getenv, key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
