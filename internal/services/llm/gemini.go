package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/realticker/internal/common"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GeminiGenerator implements Generator using the Google Gemini API.
type GeminiGenerator struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGeminiGenerator creates a new Gemini text-generation provider.
func NewGeminiGenerator(config *common.GeminiConfig, logger arbor.ILogger) (*GeminiGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Google API key is required for Gemini provider (set via GEMINI_API_KEY or gemini.api_key in config)")
	}

	model := config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	config.Model = model

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	rps := config.RateLimit
	if rps <= 0 {
		rps = 1
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Debug().
		Str("model", model).
		Dur("timeout", timeout).
		Msg("Gemini text-generation provider initialized")

	return &GeminiGenerator{
		config:  config,
		logger:  logger,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		timeout: timeout,
	}, nil
}

// Name identifies the provider in logs.
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

// Generate sends the prompt as a single user turn and concatenates the
// text parts of the first candidate carrying any.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(timeoutCtx, g.config.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	var response strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from Gemini API")
	}

	return response.String(), nil
}
