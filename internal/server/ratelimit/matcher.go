package ratelimit

import (
	"strings"
)

// unlimited is returned for endpoints that are never limited.
var unlimited = &EndpointConfig{Path: "/health", Method: "GET"}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact paths win over prefixes; among prefixes the first in configs wins.
// Returns nil when the default limit applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" {
		return unlimited
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && c.Path == path {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
