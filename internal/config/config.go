package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"docsummarizer/internal/extract"
	"docsummarizer/internal/summarizer"
)

const maxTemperature = 2

type Config struct {
	Provider        string  `env:"SUMMARIZER_PROVIDER"          envDefault:"openai"`
	Model           string  `env:"SUMMARIZER_MODEL"`
	Temperature     float64 `env:"SUMMARIZER_TEMPERATURE"       envDefault:"0.3"`
	MaxOutputTokens int64   `env:"SUMMARIZER_MAX_OUTPUT_TOKENS" envDefault:"500"`
	OpenAIAPIKey    string  `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string  `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string  `env:"GEMINI_API_KEY"`

	HTTPAddr           string   `env:"HTTP_ADDR"            envDefault:":8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
	MaxUploadBytes     int64    `env:"MAX_UPLOAD_BYTES"     envDefault:"33554432"`
	UploadDir          string   `env:"UPLOAD_DIR"`

	TelegramToken string  `env:"TELEGRAM_TOKEN"`
	AllowedUsers  []int64 `env:"ALLOWED_USERS"`

	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT"    envDefault:"30s"`
	FetchUserAgent string        `env:"FETCH_USER_AGENT"`
	OCRLanguages   []string      `env:"OCR_LANGUAGES"    envDefault:"eng"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env file: %w", err)
	}

	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()

	if err = cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Model = strings.TrimSpace(c.Model)
	c.HTTPAddr = strings.TrimSpace(c.HTTPAddr)
	c.TelegramToken = strings.TrimSpace(c.TelegramToken)

	if c.Model == "" {
		c.Model = summarizer.DefaultModel(c.Provider)
	}

	if strings.TrimSpace(c.FetchUserAgent) == "" {
		c.FetchUserAgent = extract.DefaultUserAgent
	}
}

func (c *Config) validate() error {
	var errs []error

	if !slices.Contains(summarizer.Providers(), c.Provider) {
		errs = append(errs, fmt.Errorf("SUMMARIZER_PROVIDER must be one of %s, got %q",
			strings.Join(summarizer.Providers(), ", "), c.Provider))
	} else if strings.TrimSpace(c.APIKey()) == "" {
		errs = append(errs, fmt.Errorf("%s is required for provider %s", c.APIKeyEnvVar(), c.Provider))
	}

	if c.Temperature < 0 || c.Temperature > maxTemperature {
		errs = append(errs, fmt.Errorf("SUMMARIZER_TEMPERATURE must be within [0, %d], got %v",
			maxTemperature, c.Temperature))
	}

	if c.MaxOutputTokens <= 0 {
		errs = append(errs, fmt.Errorf("SUMMARIZER_MAX_OUTPUT_TOKENS must be positive, got %d", c.MaxOutputTokens))
	}

	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes))
	}

	if c.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must not be negative, got %s", c.FetchTimeout))
	}

	return errors.Join(errs...)
}

// APIKey returns the key of the selected provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case summarizer.ProviderOpenAI:
		return c.OpenAIAPIKey
	case summarizer.ProviderAnthropic:
		return c.AnthropicAPIKey
	case summarizer.ProviderGemini:
		return c.GeminiAPIKey
	default:
		return ""
	}
}

func (c *Config) APIKeyEnvVar() string {
	switch c.Provider {
	case summarizer.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case summarizer.ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

func (c *Config) SummarizerParams() summarizer.Params {
	return summarizer.Params{
		Model:           c.Model,
		Temperature:     c.Temperature,
		MaxOutputTokens: c.MaxOutputTokens,
	}
}
