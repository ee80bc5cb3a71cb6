package main

import (
	"context"

	"recircuit-api/app"
	"recircuit-api/config"
	"recircuit-api/middleware"
	"recircuit-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if logFile := config.InitLogging(cfg.Environment); logFile != nil {
		defer logFile.Close()
	}
	if envErr != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise application")
	}
	defer a.Close()

	if err := a.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Set Gin mode
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	routes.SetupRoutes(router, routes.Deps{
		Store:         a.Store,
		Waste:         a.Waste,
		Innovations:   a.Innovations,
		Saved:         a.Saved,
		DefaultUserID: cfg.DefaultUserID,
		RequireUserID: cfg.RequireUserID,
	})

	log.Info().
		Str("port", cfg.ServerPort).
		Str("environment", cfg.Environment).
		Str("llm_provider", cfg.LLMProvider).
		Str("db_driver", cfg.DBDriver).
		Strs("cors_origins", cfg.CORSOrigins).
		Msg("server starting")

	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
