package config

import (
	stdlog "log"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *Config) {
	var err error

	// In production, suppress SQL logs unless explicitly re-enabled via DEBUG_SQL=true.
	logLevel := logger.Info
	if cfg.IsProduction() && !cfg.DebugSQL {
		logLevel = logger.Warn
	}

	gormConfig := &gorm.Config{
		Logger: logger.New(
			stdlog.New(LogWriter, "\r\n", stdlog.LstdFlags),
			logger.Config{LogLevel: logLevel, IgnoreRecordNotFoundError: true},
		),
		// every write touches a single row
		SkipDefaultTransaction: true,
	}

	DB, err = gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	log.Info().Str("host", cfg.DBHost).Str("database", cfg.DBDatabase).Msg("database connected")
}
