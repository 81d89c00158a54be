package models

import (
	"context"
	"errors"
	"os"

	"github.com/sashabaranov/go-openai"
)

// OpenAILLM uses the Chat Completions API. The key comes from OPENAI_API_KEY.
type OpenAILLM struct {
	Client      *openai.Client
	Model       string
	Temperature float64
}

func NewOpenAILLM(model string, temperature float64) *OpenAILLM {
	apiKey := os.Getenv("OPENAI_API_KEY")
	return &OpenAILLM{
		Client:      openai.NewClient(apiKey),
		Model:       model,
		Temperature: temperature,
	}
}

func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.Model,
		Temperature: float32(o.Temperature),
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Provider = (*OpenAILLM)(nil)
