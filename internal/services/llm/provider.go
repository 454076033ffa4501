// Package llm provides text-generation providers for the analyze endpoint.
// The huggingface provider matches the deployed inference API contract;
// claude and gemini are alternative cloud backends behind the same
// interface.
package llm

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/realticker/internal/common"
)

// Generator produces free-form text for a single prompt.
type Generator interface {
	// Generate returns the model's text output for the prompt. The call
	// honors the provider's configured timeout and rate limit.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider in logs.
	Name() string
}

// NewFromConfig builds the configured text-generation provider. A nil
// Generator with a nil error means no credential is configured; the
// advisor then uses the deterministic heuristic exclusively.
func NewFromConfig(cfg *common.Config, logger arbor.ILogger) (Generator, error) {
	switch cfg.LLM.DefaultProvider {
	case common.LLMProviderClaude:
		if cfg.Claude.APIKey == "" {
			return nil, nil
		}
		return NewClaudeGenerator(&cfg.Claude, logger)
	case common.LLMProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, nil
		}
		return NewGeminiGenerator(&cfg.Gemini, logger)
	default:
		if cfg.HuggingFace.APIKey == "" {
			return nil, nil
		}
		return NewHuggingFaceGenerator(&cfg.HuggingFace, logger)
	}
}
