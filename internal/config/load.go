package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix shared by all environment variables.
const EnvPrefix = "OCC"

// Config holds all service settings.
type Config struct {
	ListenAddr      string        `envconfig:"LISTEN_ADDR" default:":8000"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	AuditDir string `envconfig:"AUDIT_DIR" default:"logs"`

	RateLimitEnabled bool    `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
	RateLimitRPS     float64 `envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst   int     `envconfig:"RATE_LIMIT_BURST" default:"100"`

	// Optional Redis backend for rate-limit request stats. Empty disables it.
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
