package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// GeminiGenerator implements Generator for Google Gemini.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	config *GeminiConfig
}

// GeminiConfig holds Gemini generation configuration.
type GeminiConfig struct {
	// Required. API key for Google AI authentication.
	// Falls back to the GOOGLE_API_KEY environment variable.
	APIKey string

	// Optional. Controls randomness in token selection (0.0-2.0).
	Temperature *float32

	// Optional. Maximum number of tokens in the response.
	MaxTokens *int

	// Optional. System instructions to steer model behavior.
	SystemInstruction string
}

// NewGemini creates a Gemini-backed generator.
//
// Example:
//
//	gen, err := llm.NewGemini("gemini-2.0-flash", nil)
func NewGemini(model string, config *GeminiConfig) (*GeminiGenerator, error) {
	if model == "" {
		model = "gemini-2.0-flash"
	}
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

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		config: config,
	}, nil
}

// Generate streams the response for prompt, one text fragment per callback.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, onFragment func(string) error) error {
	chat, err := g.client.Chats.Create(ctx, g.model, g.buildGenerateConfig(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create chat: %v", techdesk.ErrGenerationUnavailable, err)
	}

	part := genai.Part{Text: prompt}
	for result, err := range chat.SendMessageStream(ctx, part) {
		if err != nil {
			return fmt.Errorf("%w: failed to get response: %v", techdesk.ErrGenerationUnavailable, err)
		}
		if text := result.Text(); text != "" {
			if cbErr := onFragment(text); cbErr != nil {
				return cbErr
			}
		}
	}
	return nil
}

// GenerateOnce returns the full response for prompt in one call.
func (g *GeminiGenerator) GenerateOnce(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.buildGenerateConfig())
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %v", techdesk.ErrGenerationUnavailable, err)
	}
	return strings.TrimSpace(result.Text()), nil
}

// buildGenerateConfig creates a genai config from the provider config.
func (g *GeminiGenerator) buildGenerateConfig() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if g.config.Temperature != nil {
		config.Temperature = genai.Ptr(*g.config.Temperature)
	}
	if g.config.MaxTokens != nil {
		config.MaxOutputTokens = int32(*g.config.MaxTokens)
	}
	if g.config.SystemInstruction != "" {
		systemContent := genai.Text(g.config.SystemInstruction)
		if len(systemContent) > 0 {
			config.SystemInstruction = systemContent[0]
		}
	}
	return config
}
