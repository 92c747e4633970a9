package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MockGenerator implements Generator for testing.
//
// Streams its canned response word by word so consumers exercise real
// fragment handling. Configure errors to test degradation paths.
type MockGenerator struct {
	response     string
	responses    []string // sequential responses for repeated calls
	callCount    int
	streamDelay  time.Duration
	shouldError  bool
	errorMessage string
}

// NewMock creates a mock generator that always returns response.
func NewMock(response string) *MockGenerator {
	return &MockGenerator{response: response}
}

// NewMockWithResponses creates a mock generator returning responses in order.
func NewMockWithResponses(responses []string) *MockGenerator {
	return &MockGenerator{responses: responses}
}

// NewMockWithError creates a mock generator that always fails.
func NewMockWithError(errorMessage string) *MockGenerator {
	return &MockGenerator{shouldError: true, errorMessage: errorMessage}
}

// WithStreamDelay sets a delay between streamed words.
func (m *MockGenerator) WithStreamDelay(delay time.Duration) *MockGenerator {
	m.streamDelay = delay
	return m
}

// nextResponse picks the response for this call.
func (m *MockGenerator) nextResponse() string {
	if len(m.responses) > 0 {
		resp := m.responses[m.callCount%len(m.responses)]
		m.callCount++
		return resp
	}
	return m.response
}

// Generate streams the canned response word by word.
func (m *MockGenerator) Generate(ctx context.Context, _ string, onFragment func(string) error) error {
	if m.shouldError {
		return fmt.Errorf("mock error: %s", m.errorMessage)
	}
	words := strings.Fields(m.nextResponse())
	for i, word := range words {
		if err := ctx.Err(); err != nil {
			return err
		}
		fragment := word
		if i < len(words)-1 {
			fragment += " "
		}
		if err := onFragment(fragment); err != nil {
			return err
		}
		if m.streamDelay > 0 {
			time.Sleep(m.streamDelay)
		}
	}
	return nil
}

// GenerateOnce returns the canned response in one call.
func (m *MockGenerator) GenerateOnce(_ context.Context, _ string) (string, error) {
	if m.shouldError {
		return "", fmt.Errorf("mock error: %s", m.errorMessage)
	}
	return m.nextResponse(), nil
}
