// Package config loads service configuration from an optional YAML file and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AI providers accepted in AI_PROVIDER.
const (
	ProviderGemini    = "gemini"
	ProviderVertex    = "vertex"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"
)

// Config is the full service configuration.
type Config struct {
	Port        int    `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`

	JWT       JWTSettings       `mapstructure:"jwt"`
	Password  PasswordSettings  `mapstructure:"password"`
	AI        AISettings        `mapstructure:"ai"`
	HTTP      HTTPSettings      `mapstructure:"http"`
	Log       LogSettings       `mapstructure:"log"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
}

type JWTSettings struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

type PasswordSettings struct {
	BcryptCost int    `mapstructure:"bcrypt_cost"`
	Pepper     string `mapstructure:"pepper"`
}

// AISettings selects the generative backend. An empty key for the selected
// provider leaves the service on its rule-based fallbacks.
type AISettings struct {
	Provider        string        `mapstructure:"provider"`
	GeminiAPIKey    string        `mapstructure:"gemini_api_key"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
	VertexProject   string        `mapstructure:"vertex_project"`
	VertexLocation  string        `mapstructure:"vertex_location"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type HTTPSettings struct {
	CORSAllowedOrigin string `mapstructure:"cors_allowed_origin"`
	CookieSecure      bool   `mapstructure:"cookie_secure"`
}

type LogSettings struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

type RateLimitSettings struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       string        `mapstructure:"whitelist"`
	Blacklist       string        `mapstructure:"blacklist"`
}

var envBindings = map[string]string{
	"port":                        "PORT",
	"database_url":                "DATABASE_URL",
	"jwt.secret":                  "JWT_SECRET",
	"jwt.expiration_hours":        "JWT_EXPIRATION_HOURS",
	"password.bcrypt_cost":        "BCRYPT_COST",
	"password.pepper":             "PASSWORD_PEPPER",
	"ai.provider":                 "AI_PROVIDER",
	"ai.gemini_api_key":           "GEMINI_API_KEY",
	"ai.anthropic_api_key":        "ANTHROPIC_API_KEY",
	"ai.vertex_project":           "VERTEX_PROJECT",
	"ai.vertex_location":          "VERTEX_LOCATION",
	"ai.timeout":                  "AI_TIMEOUT",
	"http.cors_allowed_origin":    "CORS_ALLOWED_ORIGIN",
	"http.cookie_secure":          "COOKIE_SECURE",
	"log.json":                    "LOG_JSON",
	"log.debug":                   "LOG_DEBUG",
	"rate_limit.enabled":          "RATE_LIMIT_ENABLED",
	"rate_limit.default_limit":    "RATE_LIMIT_DEFAULT_LIMIT",
	"rate_limit.default_window":   "RATE_LIMIT_DEFAULT_WINDOW",
	"rate_limit.cleanup_interval": "RATE_LIMIT_CLEANUP_INTERVAL",
	"rate_limit.whitelist":        "RATE_LIMIT_WHITELIST",
	"rate_limit.blacklist":        "RATE_LIMIT_BLACKLIST",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("password.bcrypt_cost", 12)
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.vertex_location", "us-central1")
	v.SetDefault("ai.timeout", 20*time.Second)
	v.SetDefault("http.cors_allowed_origin", "*")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
}

// Load reads configuration from path (if non-empty) and the environment.
// Environment variables win over file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that do not depend on which command is running.
// Required secrets are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port out of range: %d", c.Port)
	}

	switch c.AI.Provider {
	case ProviderGemini, ProviderVertex, ProviderAnthropic, ProviderNone:
	default:
		return fmt.Errorf("config error: unknown AI_PROVIDER %q", c.AI.Provider)
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("config error: AI_TIMEOUT must be positive")
	}
	return nil
}

// RequireDatabase returns an error when DATABASE_URL is missing.
func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	return nil
}

// AIEnabled reports whether the selected provider has the credentials it needs.
func (c *Config) AIEnabled() bool {
	switch c.AI.Provider {
	case ProviderGemini:
		return c.AI.GeminiAPIKey != ""
	case ProviderAnthropic:
		return c.AI.AnthropicAPIKey != ""
	case ProviderVertex:
		return c.AI.VertexProject != ""
	default:
		return false
	}
}
