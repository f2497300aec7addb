// Package ai wraps the third-party generative-AI HTTP APIs behind a
// single text-in/JSON-out interface.
package ai

import "context"

// Provider generates a structured JSON document from a prompt. apiKey
// overrides the configured key when non-empty (callers may bring their
// own).
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt, apiKey string) (string, error)
}
