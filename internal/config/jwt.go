package config

import (
	"fmt"
	"time"
)

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig builds a JWT configuration from loaded settings.
// The secret is required and the expiration defaults to 24 hours.
func NewJWTConfig(s JWTSettings) (*JWTConfig, error) {
	config := &JWTConfig{
		Secret:          s.Secret,
		ExpirationHours: s.ExpirationHours,
	}
	if config.ExpirationHours == 0 {
		config.ExpirationHours = 24
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

// TTL returns the token lifetime.
func (c *JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}
