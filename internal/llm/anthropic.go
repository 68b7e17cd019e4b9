package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 2048

// jsonInstruction is appended to JSON prompts; the Messages API has no response MIME type.
const jsonInstruction = "\n\nRespond with a single JSON value only. Do not wrap it in markdown."

// AnthropicClient implements Client for Claude models.
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a Claude client authenticated with apiKey.
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &AnthropicClient{
		client: anthropic.NewClient(anthropicoption.WithAPIKey(apiKey)),
		config: config,
	}, nil
}

func (c *AnthropicClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier)
}

func (c *AnthropicClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt+jsonInstruction, tier)
	if err != nil {
		return "", err
	}
	return ExtractJSON(text), nil
}

func (c *AnthropicClient) generate(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	ctx, cancel := c.config.withTimeout(ctx)
	defer cancel()

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(modelName),
		MaxTokens:   anthropicMaxTokens,
		Temperature: anthropic.Float(0.1),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", &APICallError{Provider: ProviderAnthropic, Model: modelName, Err: err}
	}

	var builder strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("anthropic api returned empty response")
	}
	return output, nil
}

func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the SDK client is stateless.
func (c *AnthropicClient) Close() error {
	return nil
}
