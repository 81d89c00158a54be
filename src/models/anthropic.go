package models

import (
	"context"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicLLM uses the Messages API. The key comes from ANTHROPIC_API_KEY.
type AnthropicLLM struct {
	Client      *anthropic.Client
	Model       string
	MaxTokens   int
	Temperature float64
}

func NewAnthropicLLM(model string, temperature float64) *AnthropicLLM {
	cl := anthropic.NewClient(anthropicopt.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")))
	return &AnthropicLLM{
		Client:      &cl,
		Model:       model,
		MaxTokens:   2048,
		Temperature: temperature,
	}
}

func (a *AnthropicLLM) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := a.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.Model),
		MaxTokens:   int64(a.MaxTokens),
		Temperature: anthropic.Float(a.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cb := range msg.Content {
		if tb, ok := cb.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}

var _ Provider = (*AnthropicLLM)(nil)
