package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/novatasks/pkg/log"
)

type GeminiConfig struct {
	APIKey string `env:"GOOGLE_API_KEY,required,notEmpty"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	// Held low so date arithmetic and tool arguments stay deterministic
	Temperature float64 `env:"GEMINI_TEMPERATURE" envDefault:"0.3"`
}

func NewGeminiConfig(ctx context.Context) *GeminiConfig {
	c := &GeminiConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Gemini config")
	}
	return c
}
