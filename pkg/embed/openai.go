package embed

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// OpenAIProvider generates embeddings with the OpenAI embeddings API.
type OpenAIProvider struct {
	client    openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// OpenAIConfig holds OpenAI embedding configuration.
type OpenAIConfig struct {
	// Required. API key for OpenAI authentication.
	// Falls back to the OPENAI_API_KEY environment variable.
	APIKey string

	// Optional. Embedding model name. Defaults to text-embedding-3-small.
	Model string

	// Optional. Output vector dimensionality. Defaults to
	// index.DefaultDimension. text-embedding-3 models support shortening.
	Dimension int
}

// NewOpenAI creates an OpenAI-backed embedding provider.
func NewOpenAI(config *OpenAIConfig) (*OpenAIProvider, error) {
	if config == nil {
		config = &OpenAIConfig{}
	}
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set or provided in config")
	}
	model := openai.EmbeddingModel(config.Model)
	if model == "" {
		model = openai.EmbeddingModelTextEmbedding3Small
	}
	dimension := config.Dimension
	if dimension <= 0 {
		dimension = index.DefaultDimension
	}

	return &OpenAIProvider{
		client:    openai.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		dimension: dimension,
	}, nil
}

// Embed returns the embedding vector for text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model:      p.model,
		Dimensions: openai.Int(int64(p.dimension)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai embeddings: %v", techdesk.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: openai returned no embedding", techdesk.ErrEmbeddingUnavailable)
	}
	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}

// Dimension returns the dimensionality of produced vectors.
func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}
