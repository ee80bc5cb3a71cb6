package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "recircuit-api"

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// LogFilePath returns the path to the backend log file.
func LogFilePath() string {
	return filepath.Join("logs", serviceName+".log")
}

// InitLogging prepares the log file and configures the global zerolog logger.
// The returned file, if any, should be closed on shutdown.
func InitLogging(env string) *os.File {
	var logFile *os.File
	if err := os.MkdirAll(filepath.Dir(LogFilePath()), os.ModePerm); err == nil {
		f, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			logFile = f
		}
	}

	if logFile != nil {
		LogWriter = io.MultiWriter(os.Stdout, logFile)
	} else {
		LogWriter = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if env == "development" {
		var out io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		if logFile != nil {
			out = zerolog.MultiLevelWriter(out, logFile)
		}
		log.Logger = zerolog.New(out).With().Timestamp().Str("service", serviceName).Logger()
	} else {
		log.Logger = zerolog.New(LogWriter).With().Timestamp().Caller().Str("service", serviceName).Logger()
	}

	zerolog.DefaultContextLogger = &log.Logger

	if logFile == nil {
		log.Warn().Str("path", LogFilePath()).Msg("log file unavailable, logging to stdout only")
	}
	return logFile
}
