package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultExpiration(t *testing.T) {
	cfg, err := NewJWTConfig(JWTSettings{Secret: "test-secret-key"})
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
	assert.Equal(t, 24*time.Hour, cfg.TTL())
}

func TestNewJWTConfig_Validation(t *testing.T) {
	tests := []struct {
		name     string
		settings JWTSettings
		wantErr  string
	}{
		{name: "missing secret", settings: JWTSettings{ExpirationHours: 1}, wantErr: "JWT_SECRET"},
		{name: "negative expiration", settings: JWTSettings{Secret: "s", ExpirationHours: -1}, wantErr: "at least 1 hour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewJWTConfig(tt.settings)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	cfg, err := NewJWTConfig(JWTSettings{Secret: "s", ExpirationHours: 168})
	require.NoError(t, err)
	assert.Equal(t, 168*time.Hour, cfg.TTL())
}
