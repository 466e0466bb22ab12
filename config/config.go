package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported generation backends.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ErrMissingCredential means the API key for the selected provider is unset.
var ErrMissingCredential = errors.New("missing API key")

// Config holds everything read from the environment at startup.
type Config struct {
	Provider    string  `envconfig:"AI_PROVIDER" default:"gemini"`
	Temperature float32 `envconfig:"AI_TEMPERATURE" default:"0.8"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	HTTPAddr  string `envconfig:"HTTP_ADDR" default:"0.0.0.0:9779"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	RevealInterval time.Duration `envconfig:"REVEAL_INTERVAL" default:"20ms"`

	// ArchivePath enables the finished-run archive when set.
	ArchivePath string `envconfig:"ARCHIVE_PATH"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the provider and its credential.
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingCredential)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE %.2f out of range [0,2]", c.Temperature)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Model names the model of the selected provider.
func (c *Config) Model() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIModel
	}
	return c.GeminiModel
}
