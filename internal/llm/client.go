package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned by NewClient when the selected provider has no credentials.
var ErrNotConfigured = errors.New("llm provider not configured")

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// Credentials carries whatever the selected provider needs to authenticate.
type Credentials struct {
	APIKey   string
	Project  string
	Location string
}

// NewClient creates a new LLM client based on configuration. It returns
// ErrNotConfigured when the provider's credentials are missing.
func NewClient(ctx context.Context, config *Config, creds Credentials) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderVertex:
		if creds.Project == "" {
			return nil, ErrNotConfigured
		}
		return NewVertexClient(ctx, config, creds.Project, creds.Location)
	case ProviderAnthropic:
		if creds.APIKey == "" {
			return nil, ErrNotConfigured
		}
		return NewAnthropicClient(config, creds.APIKey)
	default:
		if creds.APIKey == "" {
			return nil, ErrNotConfigured
		}
		return NewGeminiClient(ctx, config, creds.APIKey)
	}
}

// withTimeout applies the configured per-call timeout.
func (c *Config) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, false)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt, tier, true)
	if err != nil {
		return "", err
	}
	return ExtractJSON(text), nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, tier ModelTier, asJSON bool) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	if asJSON {
		model.ResponseMIMEType = "application/json"
	}

	ctx, cancel := c.config.withTimeout(ctx)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &APICallError{Provider: ProviderGemini, Model: modelName, Err: err}
	}

	return extractTextFromResponse(resp)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// APICallError wraps a failed provider call.
type APICallError struct {
	Provider Provider
	Model    string
	Err      error
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("%s call to %s failed: %v", e.Provider, e.Model, e.Err)
}

func (e *APICallError) Unwrap() error {
	return e.Err
}
