// Package models abstracts the language-model backends the agent can run on.
package models

import "context"

// Provider is a single-turn text completion backend. Implementations must
// honor ctx cancellation and return the full response text.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
