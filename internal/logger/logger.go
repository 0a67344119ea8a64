// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides the two diagnostic channels of swiftly.
//
// Logger is a thin wrapper around zerolog.Logger used for structured
// operational events (auth cache hits, retries, worker failures). It writes
// to standard error at the level given by SWIFTLY_LOG_LEVEL.
//
// Verbose is the user-facing, opt-in progress channel enabled by -v. Every
// line is prefixed with VERBOSE and the seconds elapsed since the invocation
// started.
package logger

import (
	"context"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
// Embedding zerolog.Logger exposes the full zerolog API while allowing the
// application to add helper methods without modifying the upstream type.
type Logger struct {
	zerolog.Logger
}

var callerOnce sync.Once

// NewLogger constructs a JSON *Logger for the given role label writing to w.
//
// The logger is configured with:
//   - the minimum level parsed from level (unknown names fall back to warn);
//   - a "role" field set to role;
//   - a timestamp field added to every log entry;
//   - a "func" caller field that records the fully-qualified function name.
func NewLogger(role string, w io.Writer, level string) *Logger {
	// the caller settings are package globals in zerolog
	callerOnce.Do(func() {
		zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
			return runtime.FuncForPC(pc).Name()
		}
		zerolog.CallerFieldName = "func"
	})

	logger := zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// NewConsoleLogger is like NewLogger but renders human-readable lines,
// which is what an interactive CLI wants on standard error.
func NewConsoleLogger(role string, w io.Writer, level string) *Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}

	logger := zerolog.New(console).
		Level(ParseLevel(level)).
		With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{logger}
}

// ParseLevel converts a level name into a zerolog.Level. Empty or unknown
// names yield zerolog.WarnLevel.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return lvl
}

// Nop returns a *Logger that discards all log output.
// It is intended for use in tests and other contexts where logging is
// undesirable or would produce noise.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver. The child logger can be enriched with additional context fields
// without affecting the parent logger.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// WithContext attaches the logger to ctx so that [FromContext] can find it.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext extracts the zerolog.Logger stored in ctx by zerolog's log.Ctx
// helper and returns it as a *Logger.
//
// If no logger has been attached to ctx, zerolog returns its global logger,
// so this function never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
