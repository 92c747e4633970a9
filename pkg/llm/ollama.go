package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// OllamaGenerator implements Generator for a local or remote Ollama server.
type OllamaGenerator struct {
	client *api.Client
	model  string
	config *OllamaConfig
}

// OllamaConfig holds Ollama generation configuration.
type OllamaConfig struct {
	// Optional. Ollama server host. Defaults to localhost:11434 or the
	// OLLAMA_HOST environment variable.
	Host string

	// Optional. Controls randomness in token selection (0.0-2.0).
	Temperature *float32

	// Optional. How long the model stays loaded in memory (e.g. "5m").
	KeepAlive string
}

// NewOllama creates an Ollama-backed generator.
func NewOllama(model string, config *OllamaConfig) (*OllamaGenerator, error) {
	if model == "" {
		model = "llama3.2"
	}
	if config == nil {
		config = &OllamaConfig{KeepAlive: "5m"}
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

	return &OllamaGenerator{
		client: client,
		model:  model,
		config: config,
	}, nil
}

// Generate streams the response for prompt, one text fragment per callback.
func (o *OllamaGenerator) Generate(ctx context.Context, prompt string, onFragment func(string) error) error {
	req := o.buildChatRequest(prompt, true)

	responseFunc := func(resp api.ChatResponse) error {
		if resp.Message.Content != "" {
			return onFragment(resp.Message.Content)
		}
		return nil
	}

	if err := o.client.Chat(ctx, req, responseFunc); err != nil {
		// Callback errors surface here too; only wrap genuine transport
		// failures as generation-unavailable.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: failed to chat with ollama: %v", techdesk.ErrGenerationUnavailable, err)
	}
	return nil
}

// GenerateOnce returns the full response for prompt in one call.
func (o *OllamaGenerator) GenerateOnce(ctx context.Context, prompt string) (string, error) {
	req := o.buildChatRequest(prompt, false)

	var full strings.Builder
	responseFunc := func(resp api.ChatResponse) error {
		full.WriteString(resp.Message.Content)
		return nil
	}

	if err := o.client.Chat(ctx, req, responseFunc); err != nil {
		return "", fmt.Errorf("%w: failed to chat with ollama: %v", techdesk.ErrGenerationUnavailable, err)
	}
	return strings.TrimSpace(full.String()), nil
}

// buildChatRequest creates an Ollama ChatRequest from the provider config.
func (o *OllamaGenerator) buildChatRequest(prompt string, stream bool) *api.ChatRequest {
	req := &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
	}
	options := make(map[string]any)
	if o.config.Temperature != nil {
		options["temperature"] = *o.config.Temperature
	}
	if o.config.KeepAlive != "" {
		options["keep_alive"] = o.config.KeepAlive
	}
	if len(options) > 0 {
		req.Options = options
	}
	return req
}
