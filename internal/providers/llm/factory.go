package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/novatasks/internal/config"
	"github.com/sandevgo/novatasks/internal/core"
	"github.com/sandevgo/novatasks/pkg/log"
)

// NewProvider creates the appropriate AIProvider based on configuration.
func NewProvider(ctx context.Context, cfg *config.AppConfig) (core.AIProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.LLMProvider).
		Msg("starting llm provider")

	switch cfg.LLMProvider {
	case "gemini":
		g := config.NewGeminiConfig(ctx)
		return NewGemini(g.APIKey, g.Model, g.Temperature), nil
	case "custom":
		c := config.NewCustomConfig(ctx)
		return NewOpenAICompatible(c.BaseURL, c.APIKey, c.Model, 0.3), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
