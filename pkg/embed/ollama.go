package embed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// OllamaProvider generates embeddings with a local or remote Ollama server.
type OllamaProvider struct {
	client    *api.Client
	model     string
	dimension int
}

// OllamaConfig holds Ollama embedding configuration.
type OllamaConfig struct {
	// Optional. Ollama server host. Defaults to localhost:11434 or the
	// OLLAMA_HOST environment variable.
	Host string

	// Optional. Embedding model name. Defaults to "nomic-embed-text".
	Model string

	// Optional. Expected vector dimensionality. Defaults to
	// index.DefaultDimension.
	Dimension int
}

// NewOllama creates an Ollama-backed embedding provider.
func NewOllama(config *OllamaConfig) (*OllamaProvider, error) {
	if config == nil {
		config = &OllamaConfig{}
	}
	model := config.Model
	if model == "" {
		model = "nomic-embed-text"
	}
	dimension := config.Dimension
	if dimension <= 0 {
		dimension = index.DefaultDimension
	}

	var client *api.Client
	if config.Host == "" {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to create client from environment: %w", err)
		}
	} else {
		u, err := url.Parse(config.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid host URL: %w", err)
		}
		client = api.NewClient(u, http.DefaultClient)
	}

	return &OllamaProvider{
		client:    client,
		model:     model,
		dimension: dimension,
	}, nil
}

// Embed returns the embedding vector for text.
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.Embed(ctx, &api.EmbedRequest{
		Model: p.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ollama embed: %v", techdesk.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("%w: ollama returned no embedding", techdesk.ErrEmbeddingUnavailable)
	}
	return resp.Embeddings[0], nil
}

// Dimension returns the dimensionality of produced vectors.
func (p *OllamaProvider) Dimension() int {
	return p.dimension
}
