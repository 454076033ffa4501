package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/realticker/internal/common"
	"golang.org/x/time/rate"
)

// ClaudeGenerator implements Generator using the Anthropic Claude API.
type ClaudeGenerator struct {
	config    *common.ClaudeConfig
	logger    arbor.ILogger
	client    *anthropic.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	maxTokens int
}

// NewClaudeGenerator creates a new Claude text-generation provider.
func NewClaudeGenerator(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required for Claude provider (set via ANTHROPIC_API_KEY or claude.api_key in config)")
	}

	model := config.Model
	if model == "" {
		model = "claude-haiku-3-5-20241022"
	}
	config.Model = model

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	rps := config.RateLimit
	if rps <= 0 {
		rps = 1
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	logger.Debug().
		Str("model", model).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude text-generation provider initialized")

	return &ClaudeGenerator{
		config:    config,
		logger:    logger,
		client:    &client,
		limiter:   rate.NewLimiter(rate.Limit(rps), rps),
		timeout:   timeout,
		maxTokens: maxTokens,
	}, nil
}

// Name identifies the provider in logs.
func (g *ClaudeGenerator) Name() string {
	return "claude"
}

// Generate sends the prompt as a single user message and concatenates the
// text blocks of the reply.
func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Messages.New(timeoutCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.config.Model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from Claude API")
	}

	return response.String(), nil
}
