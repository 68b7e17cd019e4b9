// Package llm provides model configuration and client abstractions over the
// generative AI providers the service can talk to.
package llm

import (
	"maps"
	"time"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: tagging, sentiment, skill extraction
	TierLite ModelTier = "lite"
	// TierStandard is for structured output over larger inputs: job drafts
	TierStandard ModelTier = "standard"
	// TierAdvanced is for ranking and comparison across many items
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderVertex    Provider = "vertex"
	ProviderAnthropic Provider = "anthropic"
)

// DefaultTimeout bounds a single model call when the caller sets none.
const DefaultTimeout = 20 * time.Second

var geminiModels = map[ModelTier]string{
	TierLite:     "gemini-2.5-flash-lite",
	TierStandard: "gemini-2.5-flash",
	TierAdvanced: "gemini-2.5-pro",
}

// Vertex serves the Gemini model family.
var defaultModels = map[Provider]map[ModelTier]string{
	ProviderGemini: geminiModels,
	ProviderVertex: geminiModels,
	ProviderAnthropic: {
		TierLite:     "claude-3-5-haiku-latest",
		TierStandard: "claude-sonnet-4-0",
		TierAdvanced: "claude-sonnet-4-0",
	},
}

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	Timeout  time.Duration
}

// DefaultConfig returns the Gemini configuration.
func DefaultConfig() *Config {
	return ConfigFor(ProviderGemini)
}

// ConfigFor returns the default configuration for a provider. Unknown
// providers get the Gemini configuration.
func ConfigFor(provider Provider) *Config {
	models, ok := defaultModels[provider]
	if !ok {
		provider, models = ProviderGemini, geminiModels
	}
	return &Config{Provider: provider, Models: maps.Clone(models), Timeout: DefaultTimeout}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	return c.Models[TierLite]
}

// WithModel returns a copy of the config using model for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := c.clone()
	out.Models[tier] = model
	return out
}

// WithTimeout returns a copy of the config with the per-call timeout set.
func (c *Config) WithTimeout(d time.Duration) *Config {
	out := c.clone()
	out.Timeout = d
	return out
}

func (c *Config) clone() *Config {
	models := maps.Clone(c.Models)
	if models == nil {
		models = make(map[ModelTier]string)
	}
	return &Config{Provider: c.Provider, Models: models, Timeout: c.Timeout}
}
