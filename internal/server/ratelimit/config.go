package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/jobconnect/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path; a trailing "/" makes it a prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// key identifies the bucket family a config owns.
func (e *EndpointConfig) key() string {
	return e.Method + " " + e.Path
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused bucket is kept.
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// FromSettings builds the limiter configuration from application settings.
func FromSettings(s config.RateLimitSettings) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}
	c := &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		IdleTTL:         time.Hour,
		Whitelist:       parseIPList(s.Whitelist),
		Blacklist:       parseIPList(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 1000
	}
	if c.DefaultWindow <= 0 {
		c.DefaultWindow = time.Minute
	}
	return c
}

// DefaultEndpointConfigs returns the endpoint-specific limits. Prefix entries
// are tried in order, so narrower prefixes come first.
func DefaultEndpointConfigs() []EndpointConfig {
	configs := []EndpointConfig{
		// Tier 1: model calls and outbound fetches
		{Path: "/api/jobs/import", Method: http.MethodPost, Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/ai/", Method: http.MethodPost, Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/users/me/skills/extract", Method: http.MethodPost, Limit: 20, Window: time.Hour, Burst: 5},

		// Tier 2: credential checks
		{Path: "/api/auth/", Method: http.MethodPost, Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/", Method: http.MethodPut, Limit: 20, Window: time.Minute, Burst: 5},
	}

	// Tier 3: writes
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		configs = append(configs, EndpointConfig{Path: "/api/", Method: method, Limit: 100, Window: time.Minute, Burst: 10})
	}

	// Tier 4: reads use the default limit; /health is unlimited (see MatchEndpoint)
	return configs
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
