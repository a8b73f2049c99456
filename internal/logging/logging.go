// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zerolog loggers handed to every other package.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/dailyai/internal/config"
)

// New creates a zerolog logger writing to out, configured from cfg.
// Supports "trace" | "debug" | "info" | "warn" | "error" | "disabled" levels
// and "json" | "console" formats. An unparseable level falls back to info.
func New(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if strings.ToLower(cfg.Format) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: !isTerminal(out)}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// OpenFile opens the TUI log file for appending.
// SECURITY: 0600, since request logs can carry prompt text at debug level.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// ForFile is New over the log file at path. The TUI owns the terminal,
// so console format is forced to plain JSON there.
func ForFile(cfg config.LogConfig, path string) (zerolog.Logger, io.Closer, error) {
	f, err := OpenFile(path)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	cfg.Format = "json"
	return New(cfg, f), f, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// =============================================================================
// CONTEXT FIELDS
// =============================================================================

type ctxKey string

const (
	ctxRequestID ctxKey = "request_id"
	ctxSessionID ctxKey = "session_id"
)

// WithRequestID stores a request id for With.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID, id)
}

// WithSessionID stores a session id for With.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxSessionID, id)
}

// With attaches the ids stored in ctx to base.
func With(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	l := base.With()
	if v, ok := ctx.Value(ctxRequestID).(string); ok && v != "" {
		l = l.Str("request_id", v)
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok && v != "" {
		l = l.Str("session_id", v)
	}
	return l.Logger()
}

// TraceDuration logs start and end with elapsed duration at TRACE level.
// Usage: defer logging.TraceDuration(log, "session.Exchange")()
func TraceDuration(log zerolog.Logger, name string) func() {
	start := time.Now()
	log.Trace().Str("method", name).Msg("start")
	return func() {
		log.Trace().Str("method", name).Dur("duration", time.Since(start)).Msg("finish")
	}
}
