// Package logger configures the zerolog-based structured logging used across
// the engine. Development gets a human-readable console writer; anything
// else logs JSON.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls log output and verbosity
type Config struct {
	Env   string // "development" for console output, JSON otherwise
	Level string // trace, debug, info, warn, error
}

// Init sets up the global zerolog logger and returns it. Services derive
// sub-loggers from this with a "service" field.
func Init(cfg Config) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	log.Logger = zl
	return zl
}

// For returns a sub-logger tagged with the given service name
func For(service string) zerolog.Logger {
	return log.With().Str("service", service).Logger()
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
