// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string

	// Format is the output format: json or console.
	// Default: json
	Format string

	// Caller includes caller file and line number in logs.
	Caller bool

	// Output is the writer for log output.
	// Default: os.Stderr
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

var (
	mu  sync.RWMutex
	log zerolog.Logger
)

//nolint:gochecknoinits // logging works before Init is called
func init() {
	log = build(DefaultConfig())
}

// Init replaces the global logger. Calling it again reconfigures.
func Init(cfg Config) {
	l := build(cfg)
	mu.Lock()
	log = l
	mu.Unlock()
}

// build sets the global level and returns a logger for cfg. Every event
// carries service=replex so lines stay attributable when the proxy's
// output is mixed with Plex logs.
func build(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	c := zerolog.New(out).With().Timestamp().Str("service", "replex")
	if cfg.Caller {
		c = c.Caller()
	}
	return c.Logger()
}

// parseLevel maps a configured level name to zerolog. Unknown names and
// the empty string mean info; "warning" is accepted for warn.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// current returns a copy of the global logger.
func current() *zerolog.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	return &l
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return *current()
}

// SetLogger replaces the global logger. Tests use it to capture output.
//
//nolint:gocritic // zerolog.Logger is passed by value
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

// With starts a child logger context.
//
//	proxyLogger := logging.With().Str("component", "proxy").Logger()
func With() zerolog.Context { return current().With() }

func Debug() *zerolog.Event { return current().Debug() }

// Info starts an info event.
//
//	logging.Info().Str("addr", addr).Msg("Server starting")
func Info() *zerolog.Event { return current().Info() }

func Warn() *zerolog.Event  { return current().Warn() }
func Error() *zerolog.Event { return current().Error() }

// Fatal starts a fatal event; os.Exit(1) follows the write.
func Fatal() *zerolog.Event { return current().Fatal() }

// Err starts an error event carrying err.
func Err(err error) *zerolog.Event { return current().Err(err) }

// GetLevel returns the global level.
func GetLevel() zerolog.Level {
	return zerolog.GlobalLevel()
}

// SetLevelString changes the global level.
func SetLevelString(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
}

// NewTestLogger returns a JSON logger writing to w.
//
//	var buf bytes.Buffer
//	logging.SetLogger(logging.NewTestLogger(&buf))
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
