package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	vertexai "google.golang.org/genai"
)

// VertexClient implements Client for Gemini models served from Vertex AI.
type VertexClient struct {
	client *vertexai.Client
	config *Config
}

// NewVertexClient creates a client bound to a Google Cloud project and region.
// Credentials come from Application Default Credentials.
func NewVertexClient(ctx context.Context, config *Config, project, location string) (*VertexClient, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return nil, errors.New("vertex project is required")
	}
	if location = strings.TrimSpace(location); location == "" {
		location = "us-central1"
	}

	client, err := vertexai.NewClient(ctx, &vertexai.ClientConfig{
		Project:  project,
		Location: location,
		Backend:  vertexai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return &VertexClient{client: client, config: config}, nil
}

func (c *VertexClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, "")
}

func (c *VertexClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt, tier, "application/json")
	if err != nil {
		return "", err
	}
	return ExtractJSON(text), nil
}

func (c *VertexClient) generate(ctx context.Context, prompt string, tier ModelTier, mimeType string) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	cfg := &vertexai.GenerateContentConfig{
		Temperature:      vertexai.Ptr[float32](0.1),
		ResponseMIMEType: mimeType,
	}

	ctx, cancel := c.config.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, modelName, vertexai.Text(prompt), cfg)
	if err != nil {
		return "", &APICallError{Provider: ProviderVertex, Model: modelName, Err: err}
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("vertex ai returned empty response")
	}
	return output, nil
}

func (c *VertexClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the genai client holds no closable resources.
func (c *VertexClient) Close() error {
	return nil
}
