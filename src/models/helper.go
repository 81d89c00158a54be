package models

import (
	"context"
	"fmt"
	"strings"
)

// NewProvider returns a concrete Provider for the named backend.
func NewProvider(ctx context.Context, provider, model string, temperature float64) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "ollama", "":
		return NewOllamaLLM(model, temperature)
	case "openai":
		return NewOpenAILLM(model, temperature), nil
	case "anthropic", "claude":
		return NewAnthropicLLM(model, temperature), nil
	case "gemini", "google":
		return NewGeminiLLM(ctx, model, temperature)
	case "dummy":
		return NewDummyLLM(""), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
