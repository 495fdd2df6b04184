package httpapi

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"orderdesk/backend/internal/adapters/persistence"
)

const (
	envDevMode            = "DEV_MODE"
	envProductionMode     = "PRODUCTION_MODE"
	envCORSAllowedOrigins = "ORDERDESK_CORS_ALLOWED_ORIGINS"
)

const (
	TelemetryNoop       = "noop"
	TelemetryPrometheus = "prometheus"
)

type RuntimeMode string

const (
	RuntimeModeDevelopment RuntimeMode = "development"
	RuntimeModeProduction  RuntimeMode = "production"
)

type RuntimeConfig struct {
	Mode               RuntimeMode
	AllowAnyCORSOrigin bool

	DevMode            bool          `env:"DEV_MODE"`
	ProductionMode     bool          `env:"PRODUCTION_MODE"`
	Addr               string        `env:"ORDERDESK_ADDR"`
	CORSAllowedOrigins []string      `env:"ORDERDESK_CORS_ALLOWED_ORIGINS" envSeparator:","`
	Storage            string        `env:"ORDERDESK_STORAGE"              envDefault:"file"`
	DataPath           string        `env:"ORDERDESK_DATA_PATH"`
	Latency            time.Duration `env:"ORDERDESK_LATENCY"              envDefault:"300ms"`
	Seed               bool          `env:"ORDERDESK_SEED"                 envDefault:"true"`
	SeedFile           string        `env:"ORDERDESK_SEED_FILE"`
	Telemetry          string        `env:"ORDERDESK_TELEMETRY"            envDefault:"prometheus"`
	LogLevel           slog.Level    `env:"ORDERDESK_LOG_LEVEL"            envDefault:"info"`
}

func (m RuntimeMode) IsDevelopment() bool {
	return m == RuntimeModeDevelopment
}

func (m RuntimeMode) IsProduction() bool {
	return m == RuntimeModeProduction
}

func DefaultListenAddr(mode RuntimeMode) string {
	if mode.IsDevelopment() {
		return "127.0.0.1:8070"
	}
	return ":8070"
}

func LoadRuntimeConfigFromEnv() (RuntimeConfig, error) {
	var config RuntimeConfig
	if err := env.Parse(&config); err != nil {
		return RuntimeConfig{}, fmt.Errorf("parse env: %w", err)
	}

	if config.DevMode && config.ProductionMode {
		return RuntimeConfig{}, fmt.Errorf("%s and %s cannot both be true", envDevMode, envProductionMode)
	}
	config.Mode = RuntimeModeProduction
	if config.DevMode {
		config.Mode = RuntimeModeDevelopment
	}
	if strings.TrimSpace(config.Addr) == "" {
		config.Addr = DefaultListenAddr(config.Mode)
	}

	config.Storage = strings.ToLower(strings.TrimSpace(config.Storage))
	switch config.Storage {
	case persistence.BackendMemory, persistence.BackendFile, persistence.BackendSQLite:
	default:
		return RuntimeConfig{}, fmt.Errorf("ORDERDESK_STORAGE must be one of memory, file, sqlite, got %q", config.Storage)
	}
	config.Telemetry = strings.ToLower(strings.TrimSpace(config.Telemetry))
	if config.Telemetry != TelemetryNoop && config.Telemetry != TelemetryPrometheus {
		return RuntimeConfig{}, fmt.Errorf("ORDERDESK_TELEMETRY must be noop or prometheus, got %q", config.Telemetry)
	}
	if config.Latency < 0 {
		return RuntimeConfig{}, fmt.Errorf("ORDERDESK_LATENCY cannot be negative")
	}

	return applyCORSPolicy(config)
}

func applyCORSPolicy(config RuntimeConfig) (RuntimeConfig, error) {
	origins := uniqueTrimmed(config.CORSAllowedOrigins)
	wildcard := false
	for _, origin := range origins {
		if origin == "*" {
			wildcard = true
		}
	}

	switch {
	case config.Mode.IsProduction() && wildcard:
		return RuntimeConfig{}, fmt.Errorf("%s cannot include wildcard origin in production mode", envCORSAllowedOrigins)
	case config.Mode.IsDevelopment() && (wildcard || len(origins) == 0):
		config.CORSAllowedOrigins = []string{"*"}
		config.AllowAnyCORSOrigin = true
	default:
		config.CORSAllowedOrigins = origins
	}
	return config, nil
}

func uniqueTrimmed(values []string) []string {
	result := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
