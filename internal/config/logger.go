package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates the root logger for a service. Every entry carries the
// service name so logs from both services can share one sink.
func NewLogger(cfg LoggerConfig, service string) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.With().
		Timestamp().
		Str("service", service).
		Logger()
}
