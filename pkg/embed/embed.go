// Package embed defines the embedding collaborator interface and ships
// providers backed by Gemini, Ollama and OpenAI embedding endpoints.
//
// The pipeline treats embedding as a black-box capability: text in, fixed-
// dimensionality vector out. Provider failures wrap
// techdesk.ErrEmbeddingUnavailable so the retrieval engine can degrade to
// its lexical tier instead of failing the query.
package embed

import "context"

// Provider generates embedding vectors for text content.
//
// Implementations must be deterministic for identical input within a session
// and safe for concurrent use.
type Provider interface {
	// Embed returns the embedding vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the dimensionality of produced vectors.
	Dimension() int
}
