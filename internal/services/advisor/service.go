// Package advisor orchestrates the analyze endpoint: an optional
// LLM-backed classification with a deterministic heuristic fallback.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/realticker/internal/analysis"
	"github.com/ternarybob/realticker/internal/models"
	"github.com/ternarybob/realticker/internal/services/llm"
	"github.com/ternarybob/realticker/internal/stocks"
)

// Disclaimer is appended to every analysis, regardless of which path
// produced it.
const Disclaimer = "This is AI-generated analysis and not financial advice."

// Service answers per-ticker analysis requests. With no generator
// configured it runs the heuristic only; with one configured it asks the
// model for a JSON classification and falls back to the heuristic on any
// failure. Callers never see an external-service error.
type Service struct {
	stocks    *stocks.Service
	generator llm.Generator // nil when no credential is configured
	logger    arbor.ILogger
}

// NewService wires the advisor to the stock set and an optional generator.
func NewService(stockService *stocks.Service, generator llm.Generator, logger arbor.ILogger) *Service {
	return &Service{
		stocks:    stockService,
		generator: generator,
		logger:    logger,
	}
}

// Analyze classifies the ticker's price history. Returns
// stocks.ErrStockNotFound for an unknown ticker regardless of path.
func (s *Service) Analyze(ctx context.Context, ticker string) (*models.Analysis, error) {
	rec, err := s.stocks.Get(ticker)
	if err != nil {
		return nil, err
	}

	if s.generator == nil {
		return s.heuristic(rec), nil
	}

	result, err := s.generate(ctx, rec)
	if err != nil {
		s.logger.Warn().
			Str("ticker", rec.Ticker).
			Str("provider", s.generator.Name()).
			Err(err).
			Msg("Text-generation analysis failed, using heuristic fallback")
		return s.heuristic(rec), nil
	}
	return result, nil
}

// heuristic runs the deterministic classifier over the record's history.
func (s *Service) heuristic(rec *models.StockRecord) *models.Analysis {
	result := analysis.Analyze(rec.History)
	return &models.Analysis{
		Ticker:          rec.Ticker,
		Trend:           result.Trend,
		RiskLevel:       result.RiskLevel,
		SuggestedAction: result.SuggestedAction,
		Explanation:     result.Explanation,
		Disclaimer:      Disclaimer,
	}
}

// generate asks the model for a JSON classification and parses whatever
// comes back defensively.
func (s *Service) generate(ctx context.Context, rec *models.StockRecord) (*models.Analysis, error) {
	text, err := s.generator.Generate(ctx, buildPrompt(rec))
	if err != nil {
		return nil, err
	}

	parsed, err := parseModelOutput(text)
	if err != nil {
		return nil, err
	}

	return &models.Analysis{
		Ticker:          rec.Ticker,
		Trend:           parsed.Trend,
		RiskLevel:       parsed.RiskLevel,
		SuggestedAction: parsed.SuggestedAction,
		Explanation:     parsed.Explanation,
		Disclaimer:      Disclaimer,
	}, nil
}

// buildPrompt embeds the full date/price series with an instruction to
// return a bare JSON object with fixed keys.
func buildPrompt(rec *models.StockRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following 6 months stock price data for %s and return a JSON object with keys: "+
		"trend (Upward/Downward/Sideways), risk_level (Low/Medium/High), "+
		"suggested_action (Long-term investment/Short-term watch/Avoid), explanation. "+
		"Do NOT include any extra text. The JSON must be parsable.\n", rec.Ticker)
	b.WriteString("Prices:")
	for _, point := range rec.History {
		fmt.Fprintf(&b, "\n%s,%v", point.Date, point.Price)
	}
	return b.String()
}

// modelAnalysis is the classification the model is asked to return.
// Capitalized aliases cover models that ignore the requested key casing.
type modelAnalysis struct {
	Trend           string `json:"trend"`
	TrendAlias      string `json:"Trend"`
	RiskLevel       string `json:"risk_level"`
	RiskAlias       string `json:"Risk"`
	SuggestedAction string `json:"suggested_action"`
	ActionAlias     string `json:"Action"`
	Explanation     string `json:"explanation"`
}

// parseModelOutput locates the first JSON object in the model's text and
// normalizes it to a complete classification, filling missing fields with
// safe defaults.
func parseModelOutput(text string) (*modelAnalysis, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in model output")
	}

	var parsed modelAnalysis
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model output as JSON: %w", err)
	}

	if parsed.Trend == "" {
		parsed.Trend = parsed.TrendAlias
	}
	if parsed.RiskLevel == "" {
		parsed.RiskLevel = parsed.RiskAlias
	}
	if parsed.SuggestedAction == "" {
		parsed.SuggestedAction = parsed.ActionAlias
	}

	if parsed.Trend == "" {
		parsed.Trend = analysis.TrendSideways
	}
	if parsed.RiskLevel == "" {
		parsed.RiskLevel = analysis.RiskMedium
	}
	if parsed.SuggestedAction == "" {
		parsed.SuggestedAction = analysis.ActionShortTerm
	}

	return &parsed, nil
}
