package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Server      ServerConfig      `toml:"server"`
	Logging     LoggingConfig     `toml:"logging"`
	Stocks      StocksConfig      `toml:"stocks"`
	CORS        CORSConfig        `toml:"cors"`
	HuggingFace HuggingFaceConfig `toml:"huggingface"`
	Claude      ClaudeConfig      `toml:"claude"`
	Gemini      GeminiConfig      `toml:"gemini"`
	LLM         LLMConfig         `toml:"llm"`
	Refresh     RefreshConfig     `toml:"refresh"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                      // "stdout", "file"
}

// StocksConfig controls the persisted stock set and its synthetic history window.
type StocksConfig struct {
	DataFile    string `toml:"data_file" validate:"required"`           // flat JSON file holding {"stocks": [...]}
	HistoryDays int    `toml:"history_days" validate:"gt=0"`            // history window length in calendar days
	EndDate     string `toml:"end_date" validate:"datetime=2006-01-02"` // normalization target end date
}

// EndDateTime parses the configured end date. Validation guarantees the
// format, so the error only fires on a config that bypassed Validate.
func (c StocksConfig) EndDateTime() (time.Time, error) {
	return time.Parse("2006-01-02", c.EndDate)
}

// CORSConfig adds origins to the built-in local development allowlist.
type CORSConfig struct {
	ExtraOrigins []string `toml:"extra_origins"`
}

// AllowedOrigins returns the fixed development allowlist plus any
// configured extras.
func (c CORSConfig) AllowedOrigins() []string {
	origins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5173",
	}
	return append(origins, c.ExtraOrigins...)
}

// HuggingFaceConfig contains the text-generation inference API configuration.
// This is the default analysis provider; with no API key configured the
// analyze endpoint uses the deterministic heuristic only.
type HuggingFaceConfig struct {
	APIKey       string `toml:"api_key"`
	Model        string `toml:"model"`
	BaseURL      string `toml:"base_url"`
	Timeout      string `toml:"timeout"`        // request timeout as duration string
	MaxNewTokens int    `toml:"max_new_tokens"` // generation-length cap
	RateLimit    int    `toml:"rate_limit"`     // max requests per second
}

// ClaudeConfig contains Anthropic Claude API configuration.
type ClaudeConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
	Timeout   string `toml:"timeout"`
	RateLimit int    `toml:"rate_limit"`
}

// GeminiConfig contains Google Gemini API configuration.
type GeminiConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	Timeout   string `toml:"timeout"`
	RateLimit int    `toml:"rate_limit"`
}

// LLMProvider identifies a text-generation backend.
type LLMProvider string

const (
	LLMProviderHuggingFace LLMProvider = "huggingface"
	LLMProviderClaude      LLMProvider = "claude"
	LLMProviderGemini      LLMProvider = "gemini"
)

// LLMConfig selects the text-generation provider for the analyze endpoint.
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=huggingface claude gemini"`
}

// RefreshConfig controls the optional scheduled staleness re-check.
// Disabled by default: the stock set is normalized once at startup.
type RefreshConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // standard 5-field cron expression
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Stocks: StocksConfig{
			DataFile:    "./mock_stocks.json",
			HistoryDays: 184,          // 2025-08-01 through 2026-01-31 inclusive
			EndDate:     "2026-01-31", // fixed deployment end date, overridable for tests
		},
		HuggingFace: HuggingFaceConfig{
			APIKey:       "", // empty key disables the LLM path entirely
			Model:        "google/flan-t5-large",
			BaseURL:      "https://api-inference.huggingface.co",
			Timeout:      "30s",
			MaxNewTokens: 256,
			RateLimit:    5,
		},
		Claude: ClaudeConfig{
			APIKey:    "",
			Model:     "claude-haiku-3-5-20241022",
			MaxTokens: 1024,
			Timeout:   "30s",
			RateLimit: 1,
		},
		Gemini: GeminiConfig{
			APIKey:    "",
			Model:     "gemini-3-flash-preview",
			Timeout:   "30s",
			RateLimit: 1,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderHuggingFace,
		},
		Refresh: RefreshConfig{
			Enabled:  false,
			Schedule: "0 6 * * *", // daily at 06:00 when enabled
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override every file.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded configuration against struct validation rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.Stocks.EndDateTime(); err != nil {
		return fmt.Errorf("invalid stocks.end_date %q: %w", c.Stocks.EndDate, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("REALTICKER_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("REALTICKER_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("REALTICKER_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("REALTICKER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("REALTICKER_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Stock set configuration
	if dataFile := os.Getenv("REALTICKER_STOCKS_DATA_FILE"); dataFile != "" {
		config.Stocks.DataFile = dataFile
	}
	if days := os.Getenv("REALTICKER_STOCKS_HISTORY_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			config.Stocks.HistoryDays = d
		}
	}
	if endDate := os.Getenv("REALTICKER_STOCKS_END_DATE"); endDate != "" {
		config.Stocks.EndDate = endDate
	}

	// Provider credentials. HF_API_KEY and HF_MODEL keep the names the
	// deployment already uses for the inference API.
	if apiKey := os.Getenv("HF_API_KEY"); apiKey != "" {
		config.HuggingFace.APIKey = apiKey
	}
	if model := os.Getenv("HF_MODEL"); model != "" {
		config.HuggingFace.Model = model
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if provider := os.Getenv("REALTICKER_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Refresh configuration
	if enabled := os.Getenv("REALTICKER_REFRESH_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Refresh.Enabled = e
		}
	}
	if schedule := os.Getenv("REALTICKER_REFRESH_SCHEDULE"); schedule != "" {
		config.Refresh.Schedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
