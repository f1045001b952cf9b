package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
	geminix "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/gemini"
	openaix "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/openai"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultOpenAIModel = "gpt-4o-mini"
	defaultGeminiModel = "gemini-2.5-flash"
)

type Config struct {
	Provider    string        `envconfig:"PROVIDER" split_words:"true" default:"openai"`
	APIKey      string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model       string        `envconfig:"MODEL" split_words:"true"`
	BaseURL     string        `envconfig:"BASE_URL" split_words:"true"`
	MaxTokens   int           `envconfig:"MAX_TOKENS" split_words:"true" default:"1000"`
	Temperature float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout     time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL     string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName    string        `envconfig:"SITE_NAME" split_words:"true"`
	SkipProbe   bool          `envconfig:"SKIP_PROBE" split_words:"true"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	switch c.provider() {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("%w: unknown llm provider %q", contractx.ErrValidation, c.Provider)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("%w: llm max tokens must not be negative", contractx.ErrValidation)
	}
	return nil
}

func (c Config) provider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderOpenAI
	}
	return p
}

func (c Config) OpenAI() openaix.Config {
	modelName := strings.TrimSpace(c.Model)
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	baseURL := strings.TrimSpace(c.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	var maxTokens *int
	if c.MaxTokens > 0 {
		n := c.MaxTokens
		maxTokens = &n
	}
	return openaix.Config{
		BaseURL:            baseURL,
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: maxTokens,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

func (c Config) Gemini() geminix.Config {
	modelName := strings.TrimSpace(c.Model)
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	return geminix.Config{
		APIKey:      strings.TrimSpace(c.APIKey),
		BaseURL:     strings.TrimSpace(c.BaseURL),
		Model:       modelName,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	}
}

// NewChatModel builds the tool calling chat model for the configured provider.
func (c Config) NewChatModel(ctx context.Context) (model.ToolCallingChatModel, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.provider() {
	case ProviderGemini:
		cfg := c.Gemini()
		return cfg.New(ctx)
	default:
		cfg := c.OpenAI()
		return cfg.New(ctx)
	}
}

// Probe checks the credentials against the provider before any user is served.
// Only OpenAI-compatible endpoints expose a cheap model lookup; other providers are skipped.
func (c Config) Probe(ctx context.Context) error {
	if c.SkipProbe {
		return nil
	}
	if c.provider() != ProviderOpenAI {
		log.Debug().Str("provider", c.provider()).Msg("llm probe skipped")
		return nil
	}
	if err := openaix.Probe(ctx, c.OpenAI()); err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return nil
}
