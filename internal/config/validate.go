package config

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen address must not be empty")
	}

	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", c.ReadTimeout)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive, got %v", c.WriteTimeout)
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive, got %v", c.IdleTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %v", c.ShutdownTimeout)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	if c.AuditDir == "" {
		return errors.New("audit directory must not be empty")
	}

	if c.RateLimitEnabled {
		if c.RateLimitRPS <= 0 {
			return fmt.Errorf("rate limit rps must be positive, got %v", c.RateLimitRPS)
		}
		if c.RateLimitBurst <= 0 {
			return fmt.Errorf("rate limit burst must be positive, got %d", c.RateLimitBurst)
		}
	}

	if len(c.CORSAllowedOrigins) == 0 {
		return errors.New("at least one CORS origin must be allowed")
	}

	return nil
}
