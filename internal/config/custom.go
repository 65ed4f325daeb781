package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/novatasks/pkg/log"
)

// CustomConfig points at any OpenAI-compatible chat completions endpoint.
// Parsed only when LLM_PROVIDER=custom.
type CustomConfig struct {
	BaseURL string `env:"CUSTOM_OPENAI_BASE_URL,required,notEmpty"`
	APIKey  string `env:"CUSTOM_OPENAI_API_KEY"`
	Model   string `env:"CUSTOM_OPENAI_MODEL,required,notEmpty"`
}

func NewCustomConfig(ctx context.Context) *CustomConfig {
	c := &CustomConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Custom provider config")
	}
	return c
}
