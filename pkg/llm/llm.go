// Package llm defines the text generation collaborator interface and ships
// Gemini and Ollama backed generators plus a mock for tests.
//
// Generation is streamed through a fragment callback so consumers can relay
// text downstream the moment it is produced instead of buffering the whole
// response. Failures wrap techdesk.ErrGenerationUnavailable; the pipeline
// turns them into a fixed apologetic message rather than a raw error.
package llm

import "context"

// Generator produces model text for a prompt.
//
// Implementations must invoke onFragment with each text fragment in the
// exact order the model produces them and must stop generating when
// onFragment returns an error or ctx is canceled.
type Generator interface {
	// Generate streams the response for prompt, invoking onFragment once per
	// produced text fragment.
	Generate(ctx context.Context, prompt string, onFragment func(string) error) error

	// GenerateOnce returns the full response for prompt in one call.
	// Intended for non-streaming uses such as summarization.
	GenerateOnce(ctx context.Context, prompt string) (string, error)
}
