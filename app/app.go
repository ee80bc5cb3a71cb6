// Package app wires configuration into the store, LLM client and services
// shared by the server and the operator CLI.
package app

import (
	"context"
	"fmt"

	"recircuit-api/config"
	"recircuit-api/models"
	"recircuit-api/services"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config      *config.Config
	Store       services.Store
	Waste       *services.WasteService
	Innovations *services.InnovationService
	Saved       *services.SavedInnovationService

	redis *redis.Client
}

// New connects the store and Redis and builds the services. With
// DB_DRIVER=memory nothing is persisted across restarts.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var store services.Store
	switch cfg.DBDriver {
	case "memory":
		log.Warn().Msg("using in-memory store, data will not survive a restart")
		store = services.NewMemoryStore()
	default:
		config.InitDB(cfg)
		store = services.NewGormStore(config.DB)
	}

	llm, err := services.NewLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Store: store}

	lock := services.NewLocalStepLock(cfg.StepLockTTL)
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		a.redis = rdb
		lock = services.NewRedisStepLock(rdb, cfg.StepLockTTL)
		log.Info().Msg("redis step generation marker enabled")
	}

	a.Waste = services.NewWasteService(store, llm)
	a.Innovations = services.NewInnovationService(store, llm, lock)
	a.Saved = services.NewSavedInnovationService(store)
	return a, nil
}

// Migrate creates the tables when running against MySQL.
func (a *App) Migrate() error {
	if a.Config.DBDriver == "memory" {
		return nil
	}
	if err := models.Migrate(config.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if config.DB != nil {
		if sqlDB, err := config.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
