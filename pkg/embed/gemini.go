package embed

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// GeminiProvider generates embeddings with the Gemini embedding API.
type GeminiProvider struct {
	client    *genai.Client
	model     string
	dimension int
}

// GeminiConfig holds Gemini embedding configuration.
type GeminiConfig struct {
	// Required. API key for Google AI authentication.
	// Falls back to the GOOGLE_API_KEY environment variable.
	APIKey string

	// Optional. Embedding model name. Defaults to "text-embedding-004".
	Model string

	// Optional. Output vector dimensionality. Defaults to
	// index.DefaultDimension.
	Dimension int
}

// NewGemini creates a Gemini-backed embedding provider.
//
// Example:
//
//	provider, err := embed.NewGemini(&embed.GeminiConfig{Dimension: 384})
func NewGemini(config *GeminiConfig) (*GeminiProvider, error) {
	if config == nil {
		config = &GeminiConfig{}
	}
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable not set or provided in config")
	}
	model := config.Model
	if model == "" {
		model = "text-embedding-004"
	}
	dimension := config.Dimension
	if dimension <= 0 {
		dimension = index.DefaultDimension
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiProvider{
		client:    client,
		model:     model,
		dimension: dimension,
	}, nil
}

// Embed returns the embedding vector for text.
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.Models.EmbedContent(ctx, p.model, genai.Text(text), &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(p.dimension)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: gemini embed content: %v", techdesk.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("%w: gemini returned no embedding", techdesk.ErrEmbeddingUnavailable)
	}
	return resp.Embeddings[0].Values, nil
}

// Dimension returns the dimensionality of produced vectors.
func (p *GeminiProvider) Dimension() int {
	return p.dimension
}
