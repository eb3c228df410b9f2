package ai

import (
	"context"
)

// LLMProvider defines the contract for interacting with AI models.
// This interface allows for swapping different AI providers (Gemini, OpenRouter, etc.)
// and for scripting responses in tests.
type LLMProvider interface {
	// Complete submits a single text prompt and returns the raw model output.
	// The caller is responsible for extracting any structured content from it.
	Complete(ctx context.Context, prompt string) (string, error)
}
