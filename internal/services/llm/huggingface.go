package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/realticker/internal/common"
	"golang.org/x/time/rate"
)

// DefaultHFTimeout bounds a single inference request.
const DefaultHFTimeout = 30 * time.Second

// HuggingFaceGenerator calls a hosted text-generation inference endpoint.
// The response shape is not contractually fixed, so the body is decoded as
// a tagged variant of the shapes the API is known to return.
type HuggingFaceGenerator struct {
	config     *common.HuggingFaceConfig
	logger     arbor.ILogger
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// generateRequest is the inference request body.
type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	MaxNewTokens int `json:"max_new_tokens"`
}

// NewHuggingFaceGenerator creates the inference API client.
func NewHuggingFaceGenerator(config *common.HuggingFaceConfig, logger arbor.ILogger) (*HuggingFaceGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("huggingface API key is required")
	}

	timeout := DefaultHFTimeout
	if config.Timeout != "" {
		parsed, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
		}
		timeout = parsed
	}

	rps := config.RateLimit
	if rps <= 0 {
		rps = 5
	}

	return &HuggingFaceGenerator{
		config:     config,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		timeout:    timeout,
	}, nil
}

// Name identifies the provider in logs.
func (g *HuggingFaceGenerator) Name() string {
	return "huggingface"
}

// Generate posts the prompt to the model endpoint and extracts the
// generated text from whichever response shape comes back.
func (g *HuggingFaceGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Inputs:     prompt,
		Parameters: generateParameters{MaxNewTokens: g.config.MaxNewTokens},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	reqURL := fmt.Sprintf("%s/models/%s", g.config.BaseURL, g.config.Model)
	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	g.logger.Debug().
		Str("model", g.config.Model).
		Int("prompt_length", len(prompt)).
		Msg("Text-generation API request")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("text-generation API returned status %d: %s", resp.StatusCode, string(data))
	}

	return extractGeneratedText(data)
}

// extractGeneratedText decodes the accepted response variants:
// array-of-objects with a generated_text field, object with a
// generated_text field, object with an error field (an error), a bare JSON
// string, and anything else re-stringified as text.
func extractGeneratedText(data []byte) (string, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not JSON at all; treat the body as plain text.
		return string(data), nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty response body")
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil || len(elems) == 0 {
			return string(trimmed), nil
		}
		var first struct {
			GeneratedText string `json:"generated_text"`
		}
		if err := json.Unmarshal(elems[0], &first); err == nil && first.GeneratedText != "" {
			return first.GeneratedText, nil
		}
		return string(elems[0]), nil

	case '{':
		var obj struct {
			GeneratedText string `json:"generated_text"`
			Error         string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			if obj.Error != "" {
				return "", fmt.Errorf("text-generation API error: %s", obj.Error)
			}
			if obj.GeneratedText != "" {
				return obj.GeneratedText, nil
			}
		}
		return string(trimmed), nil

	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s, nil
		}
		return string(trimmed), nil

	default:
		return string(trimmed), nil
	}
}
