// Package ai selects the generative model adapter named in configuration.
package ai

import (
	"context"

	"go.uber.org/zap"

	"github.com/chefai/chefai/internal/infrastructure/ai/gemini"
	"github.com/chefai/chefai/internal/infrastructure/ai/ollama"
	"github.com/chefai/chefai/internal/infrastructure/ai/openai"
	"github.com/chefai/chefai/internal/infrastructure/config"
	"github.com/chefai/chefai/internal/ports/outbound"
	"github.com/chefai/chefai/pkg/errors"
)

// HealthChecker is implemented by adapters that can probe their backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewGenerativeClient builds the adapter for cfg.Provider.
//
// A hosted provider without an API key still yields a client, one whose
// every call fails with a configuration error. The services above turn
// that into their usual fallbacks, so the session and saved recipes stay
// usable offline.
func NewGenerativeClient(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (outbound.GenerativeClient, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		if cfg.APIKey == "" {
			return newUnconfiguredClient(cfg.Provider, logger), nil
		}
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger)

	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return newUnconfiguredClient(cfg.Provider, logger), nil
		}
		return openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}, logger), nil

	case config.ProviderOllama:
		client := ollama.NewClient(ollama.Config{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}, logger)
		if err := client.HealthCheck(ctx); err != nil {
			logger.Warn("Ollama is not reachable, AI features will fall back", zap.Error(err))
		}
		return client, nil

	default:
		return nil, errors.NewConfigurationError("ai.provider", "unsupported provider "+cfg.Provider)
	}
}

// unconfiguredClient stands in for a provider that is missing credentials.
type unconfiguredClient struct {
	provider string
}

func newUnconfiguredClient(provider string, logger *zap.Logger) *unconfiguredClient {
	logger.Warn("No API key configured, AI features are disabled",
		zap.String("provider", provider),
		zap.String("hint", "set CHEFAI_AI_API_KEY or GEMINI_API_KEY"))
	return &unconfiguredClient{provider: provider}
}

func (c *unconfiguredClient) err() error {
	return errors.NewConfigurationError("ai.api_key", c.provider+" requires an API key")
}

// HealthCheck always reports the missing key.
func (c *unconfiguredClient) HealthCheck(context.Context) error {
	return c.err()
}

func (c *unconfiguredClient) GenerateStructured(context.Context, outbound.StructuredRequest) (string, error) {
	return "", c.err()
}

func (c *unconfiguredClient) Describe(context.Context, outbound.StructuredRequest) (string, error) {
	return "", c.err()
}

func (c *unconfiguredClient) Converse(context.Context, outbound.ChatRequest) (string, error) {
	return "", c.err()
}
