package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks the loaded configuration for values the server
// cannot run without. Optional integrations (AI, Google, S3) are allowed
// to be absent; their features are disabled at wiring time instead.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.Server.Port == "" {
		errors = append(errors, "server.port is required")
	}
	if cfg.Database.Host == "" {
		errors = append(errors, "database.host is required")
	}
	if cfg.Database.Name == "" {
		errors = append(errors, "database.name is required")
	}
	if cfg.Database.User == "" {
		errors = append(errors, "database.user is required")
	}
	if cfg.RateLimit.AIRequests < 1 {
		errors = append(errors, "rate_limit.ai_requests must be at least 1")
	}

	if IsProduction(cfg.Server.Environment) {
		if cfg.Database.Password == "" {
			errors = append(errors, "database.password is required in production")
		}
		if cfg.Database.SSLMode == "disable" {
			errors = append(errors, "database.ssl_mode must not be disabled in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
