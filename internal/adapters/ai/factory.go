package ai

import (
	"context"

	"normatlas/internal/adapters/config"
	"normatlas/pkg/errors"
	"normatlas/pkg/logger"
)

// Default rate limits per provider, based on their free/basic tiers.
const (
	geminiReqPerMinute = 60  // Gemini free tier
	openaiReqPerMinute = 500 // OpenAI Tier 1
)

// NewProviderFromConfig builds the configured chat provider, or returns
// ErrUnavailable when no provider is configured. Callers treat a missing
// provider as "agent disabled", not as a startup failure.
func NewProviderFromConfig(ctx context.Context, cfg config.AIConfig, log *logger.Logger) (ChatProvider, error) {
	switch cfg.DefaultProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, errors.Wrap(errors.ErrUnavailable, "OPENAI_API_KEY not set")
		}
		log.Infof("AI provider: openai (model %s)", cfg.Model)
		return NewOpenAIProvider(cfg.OpenAIKey, NewTokenBucketLimiter("openai", openaiReqPerMinute, 50))
	case "gemini", "":
		if cfg.GeminiKey == "" {
			return nil, errors.Wrap(errors.ErrUnavailable, "GEMINI_API_KEY not set")
		}
		log.Infof("AI provider: gemini (model %s)", cfg.Model)
		return NewGeminiProvider(ctx, cfg.GeminiKey, NewTokenBucketLimiter("gemini", geminiReqPerMinute, 10))
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown AI provider %q", cfg.DefaultProvider)
	}
}
