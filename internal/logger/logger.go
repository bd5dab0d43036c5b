// Package logger wraps zerolog behind a small, globally configured facade.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the log level.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Config represents logger configuration.
type Config struct {
	Level LogLevel
	// Pretty enables human-readable console output.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var defaultLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Configure sets up the global logger.
func Configure(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	zerolog.TimeFieldFormat = time.RFC3339

	switch cfg.Level {
	case DebugLevel:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case WarnLevel:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case ErrorLevel:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var writer io.Writer = cfg.Output
	if cfg.Pretty {
		writer = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	defaultLogger = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = defaultLogger
}

// Debug logs a debug message.
func Debug() *zerolog.Event { return defaultLogger.Debug() }

// Info logs an informational message.
func Info() *zerolog.Event { return defaultLogger.Info() }

// Warn logs a warning message.
func Warn() *zerolog.Event { return defaultLogger.Warn() }

// Error logs an error message.
func Error() *zerolog.Event { return defaultLogger.Error() }

// Fatal logs a fatal message and exits.
func Fatal() *zerolog.Event { return defaultLogger.Fatal() }
