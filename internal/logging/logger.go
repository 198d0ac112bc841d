// Package logging provides structured logging with console output.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates the root logger at the given level ("debug", "info", "warn",
// "error"). Unknown levels fall back to info.
func New(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.TimeOnly,
	}

	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the component name
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
