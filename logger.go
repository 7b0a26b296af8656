// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package videofx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for videofx and all its sub-packages.
// By default, videofx produces no log output. Call SetLogger to enable it.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by videofx:
//   - [slog.LevelDebug]: internal diagnostics (texture cache activity,
//     pipeline selection, per-configure state)
//   - [slog.LevelInfo]: important lifecycle events (GPU device selected,
//     assets loaded)
//   - [slog.LevelWarn]: non-fatal issues (software fallback, release errors)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	videofx.SetLogger(slog.Default())
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the active logger. It never returns nil; with no logger
// configured it returns the silent default.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
