// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/engine/backend"
	"github.com/gogpu/engine/platform"
	"github.com/gogpu/engine/render"
)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for the engine and its sub-packages.
// By default nothing is logged. Pass nil to disable logging again.
//
// Log levels used:
//   - [slog.LevelDebug]: lifecycle detail (swapchain rebuilds, ticks)
//   - [slog.LevelInfo]: platform and backend selection
//   - [slog.LevelWarn]: transient presentation failures
//   - [slog.LevelError]: panics in game callbacks
//
// The terminal platform draws to stdout, so use a handler writing
// elsewhere with it:
//
//	f, _ := os.Create("engine.log")
//	engine.SetLogger(slog.New(slog.NewTextHandler(f, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	render.SetLogger(l)
	backend.SetLogger(l)
	platform.SetLogger(l)
}

// Logger returns the current engine logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
