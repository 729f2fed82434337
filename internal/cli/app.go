package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/sfh/internal/config"
	"github.com/xiaot623/gogo/sfh/internal/orchestrator"
	"github.com/xiaot623/gogo/sfh/internal/provider"
	"github.com/xiaot623/gogo/sfh/internal/repository"
	"github.com/xiaot623/gogo/sfh/internal/service"
	"github.com/xiaot623/gogo/sfh/internal/triage"
)

// app bundles the components a command runs against.
type app struct {
	store   *repository.SQLiteStore
	orch    *orchestrator.Orchestrator
	service *service.Service
}

func (a *app) Close() error {
	return a.store.Close()
}

func newOrchestrator(cfg *config.Config, logger *zap.Logger) (*orchestrator.Orchestrator, error) {
	return orchestrator.NewFromCredentials(cfg.Credentials(),
		orchestrator.WithDefaultProvider(cfg.DefaultProvider),
		orchestrator.WithMode(cfg.Mode),
		orchestrator.WithGeneration(cfg.MaxTokens, float32(cfg.Temperature)),
		orchestrator.WithLogger(logger),
		orchestrator.WithClientOptions(func(tag string) []provider.Option {
			return []provider.Option{
				provider.WithModel(cfg.Model(tag)),
				provider.WithRequestsPerMinute(cfg.RequestsPerMinute(tag)),
				provider.WithTimeout(cfg.LLMTimeout),
				provider.WithHistoryLimit(cfg.HistoryLimit),
			}
		}),
	)
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	orch, err := newOrchestrator(cfg, logger)
	if err != nil {
		return nil, err
	}

	engine, err := triage.NewEngine(ctx, triage.DefaultPolicy, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize risk policy: %w", err)
	}

	store, err := repository.NewSQLiteStore(cfg.SessionDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	return &app{
		store:   store,
		orch:    orch,
		service: service.New(store, orch, engine, cfg, logger),
	}, nil
}
