package tasks

import (
	"context"
	"fmt"
	"os"

	"github.com/sandevgo/novatasks/internal/config"
	"github.com/sandevgo/novatasks/pkg/log"
)

// MaterializeCredentials writes the two well-known credential files from
// environment blobs when deploying somewhere the files cannot be shipped.
// A file that already exists is never overwritten; an absent env var is
// simply skipped.
func MaterializeCredentials(ctx context.Context, cfg *config.TasksConfig) error {
	logger := log.FromCtx(ctx)

	pairs := []struct {
		envVar string
		path   string
	}{
		{"GOOGLE_CREDENTIALS", cfg.CredentialsFile},
		{"GOOGLE_TOKEN", cfg.TokenFile},
	}

	for _, p := range pairs {
		blob := os.Getenv(p.envVar)
		if blob == "" {
			continue
		}

		if _, err := os.Stat(p.path); err == nil {
			logger.Debug().Str("path", p.path).Msg("credential file exists, keeping it")
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", p.path, err)
		}

		if err := os.WriteFile(p.path, []byte(blob), 0o600); err != nil {
			return fmt.Errorf("write %s: %w", p.path, err)
		}
		logger.Info().Str("path", p.path).Msg("materialized credential file from environment")
	}

	return nil
}
