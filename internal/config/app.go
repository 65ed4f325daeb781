package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/novatasks/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"NOVA_RUNTIME_PATH" envDefault:".novatasks"`
	// Allow selecting the provider
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"gemini"`

	// Fixed-offset zone used as the time anchor for relative-date
	// reasoning ("today", "tomorrow"). Default is UTC+7 (WIB).
	TimezoneOffsetHours int `env:"NOVA_TZ_OFFSET_HOURS" envDefault:"7"`

	// Audit trail of denied access attempts and completed tasks
	EnableAudit bool `env:"ENABLE_AUDIT" envDefault:"true"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "novatasks.db")
}

// Location returns the fixed-offset zone for prompt time anchors.
func (c AppConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.TimezoneOffsetHours), c.TimezoneOffsetHours*3600)
}
