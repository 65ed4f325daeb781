package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/novatasks/pkg/log"
)

type TasksConfig struct {
	// DefaultList targets the user's main task list unless the user
	// names another one.
	DefaultList string `env:"TASKS_DEFAULT_LIST" envDefault:"@default"`

	BaseURL string `env:"TASKS_BASE_URL" envDefault:"https://tasks.googleapis.com/tasks/v1"`

	// The Google toolchain insists on physical credential files. These
	// are materialized from GOOGLE_CREDENTIALS / GOOGLE_TOKEN on startup
	// when absent, never overwritten.
	CredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE" envDefault:"credentials.json"`
	TokenFile       string `env:"GOOGLE_TOKEN_FILE" envDefault:"token.json"`
}

func NewTasksConfig(ctx context.Context) *TasksConfig {
	c := &TasksConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Tasks config")
	}
	return c
}
