package agent

import (
	"context"
	"fmt"
)

// CompletionRequest carries one prompt to the model backend: a system
// directive plus user content, with sampling parameters.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Provider is the model backend boundary. The agent is agnostic to which
// concrete backend fulfils it as long as one prompt yields one text blob.
type Provider interface {
	// Complete sends the request and returns the raw response text.
	Complete(ctx context.Context, request CompletionRequest) (string, error)

	// Name returns the provider name used in error messages.
	Name() string
}

// NewProvider creates a provider by name.
func NewProvider(name, apiKey string) (Provider, error) {
	switch name {
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
