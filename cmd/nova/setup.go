package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/novatasks/internal/config"
	"github.com/sandevgo/novatasks/internal/core"
	"github.com/sandevgo/novatasks/internal/providers/llm"
	"github.com/sandevgo/novatasks/internal/providers/tasks"
	"github.com/sandevgo/novatasks/internal/service/agent"
	"github.com/sandevgo/novatasks/internal/session"
	"github.com/sandevgo/novatasks/internal/storage/sqlite"
	"github.com/sandevgo/novatasks/internal/transport/telegram"
	"github.com/sandevgo/novatasks/pkg/log"
	"github.com/sandevgo/novatasks/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	tasksCfg := config.NewTasksConfig(ctx)

	// 2. Credential bootstrap, before anything touches the task API
	if err := tasks.MaterializeCredentials(ctx, tasksCfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to materialize credentials")
	}

	// 3. Audit storage
	var audit core.AuditRepository
	if appCfg.EnableAudit {
		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		services = append(services, srv.NewCleanup(db.Close))
		audit = sqlite.NewAuditRepo(db)
	}

	// 4. AI Provider
	aiProvider, err := llm.NewProvider(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 5. Task toolset
	toolset := tasks.NewToolset(
		tasks.NewClient(tasksCfg.BaseURL, tasksCfg.TokenFile),
		tasksCfg.DefaultList,
	)

	// 6. Volatile per-user session store
	store := session.NewMemoryStore()

	// 7. Agent Service
	ag := agent.NewAgent(
		aiProvider,
		toolset,
		store,
		agent.NewAssembler(appCfg.Location(), tasksCfg.DefaultList),
	)

	// 8. Transport
	tgCfg := config.NewTelegramConfig(ctx)
	bot, err := telegram.NewBot(ctx, tgCfg, ag, audit)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	services = append(services, bot)

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
