// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package platform

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Rect is a window rectangle in logical units.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// Screen describes a display.
type Screen struct {
	Name  string
	Rect  Rect
	Scale float64

	// RefreshRate is in hertz, or zero if unknown.
	RefreshRate float64
	Primary     bool
}

// WindowConfig describes a window to open.
type WindowConfig struct {
	Name       string
	Rect       Rect
	Fullscreen bool
}

// Window is a platform window.
//
// Size reports the drawable area in pixels. The setters are applied by the
// platform asynchronously; Rect reflects them once the window system has
// done so.
type Window interface {
	gpucontext.WindowProvider

	Name() string
	SetName(name string)

	Rect() Rect
	SetRect(r Rect)

	Fullscreen() bool
	SetFullscreen(fullscreen bool)

	// Close destroys the window. Further calls are ignored.
	Close()
}

// EventLoop owns the platform's windows and dispatches its events.
type EventLoop interface {
	// Run pumps events into h until RequestStop is called. It calls
	// h.Start first and h.Stop last, on the calling goroutine.
	Run(h Handler) error

	// IsRunning reports whether Run is pumping events.
	IsRunning() bool

	// RequestStop makes Run return after the current event. It may be
	// called from any goroutine.
	RequestStop()

	// OpenWindow creates a window. It must be called from a handler
	// callback.
	OpenWindow(cfg WindowConfig) (Window, error)

	// Screens lists the connected displays.
	Screens() []Screen
}

// Errors.
var (
	// ErrLoopActive is returned when an event loop is started while
	// another one is running.
	ErrLoopActive = errors.New("platform: an event loop is already running")

	// ErrNotRunning is returned when opening a window outside Run.
	ErrNotRunning = errors.New("platform: event loop not running")

	// ErrWindowLimit is returned by platforms that support a fixed number
	// of windows.
	ErrWindowLimit = errors.New("platform: window limit reached")

	// ErrNoPlatform is returned when no platform is registered.
	ErrNoPlatform = errors.New("platform: no platform registered")
)
