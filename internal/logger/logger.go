// Package logger owns the process-wide zerolog logger. Components derive a
// child logger tagged with their name through With.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "spotpulse"

var (
	base  zerolog.Logger
	ready bool
)

// Init configures the global JSON logger on stdout.
//
// Environment variables (optional):
//   - LOG_LEVEL: debug|info|warn|error|disabled (default: info)
//   - LOG_PRETTY: true|false (default: false)
func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter configures the global logger to write to w. Export mode uses
// it to keep stdout free for CSV output.
func InitWithWriter(w io.Writer) {
	level := parseLevel(getenv("LOG_LEVEL", "info"))
	pretty := strings.EqualFold(getenv("LOG_PRETTY", "false"), "true")

	zerolog.TimeFieldFormat = time.RFC3339Nano
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	base = zerolog.New(w).With().
		Timestamp().
		Str("service", serviceName).
		Logger().
		Level(level)
	ready = true
}

// L returns the global logger, initializing it on first use.
func L() *zerolog.Logger {
	if !ready {
		Init()
	}
	return &base
}

// With returns a child logger carrying a component field.
func With(component string) zerolog.Logger {
	return L().With().Str("component", component).Logger()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
