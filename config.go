// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"math"

	"github.com/gogpu/engine/platform"
	"github.com/gogpu/engine/render"
	"github.com/gogpu/engine/timing"
)

// Config holds the engine construction parameters.
type Config struct {
	// FPS is the update rate. Zero runs updates as fast as frames are
	// rendered.
	FPS float64

	// VSync selects a vsync present mode.
	VSync bool

	// Fullscreen opens the window covering the primary screen.
	Fullscreen bool

	// Width and Height are the initial window size in logical units.
	// Zero lets the platform choose.
	Width, Height float64

	// Title is the window name.
	Title string

	// Platform names the platform to use. Empty selects the preferred
	// registered platform. Ignored when EventLoop is set.
	Platform string

	// EventLoop runs the engine on an existing event loop.
	EventLoop platform.EventLoop

	// Backend names the rendering backend. Empty selects the best
	// available one.
	Backend string

	// MaxPresentRetries bounds consecutive swapchain rebuilds after
	// out-of-date surfaces before rendering fails.
	MaxPresentRetries int

	// FramesInFlight is the number of frames the CPU may record ahead of
	// the GPU.
	FramesInFlight int

	// Clock drives the frame timer. Nil uses the system clock.
	Clock timing.Clock
}

// DefaultConfig returns the default configuration: 60 updates per
// second, vsync on, a 640x480 window.
func DefaultConfig() Config {
	return Config{
		FPS:               60,
		VSync:             true,
		Width:             640,
		Height:            480,
		Title:             "engine",
		MaxPresentRetries: render.DefaultMaxRetries,
		FramesInFlight:    render.DefaultFramesInFlight,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if math.IsNaN(c.FPS) || math.IsInf(c.FPS, 0) || c.FPS < 0 {
		return fmt.Errorf("%w: fps must be finite and non-negative, got %v", ErrInvalidConfig, c.FPS)
	}
	if !validSize(c.Width) || !validSize(c.Height) {
		return fmt.Errorf("%w: invalid window size %vx%v", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.MaxPresentRetries < 0 {
		return fmt.Errorf("%w: negative present retries %d", ErrInvalidConfig, c.MaxPresentRetries)
	}
	if c.FramesInFlight < 1 {
		return fmt.Errorf("%w: frames in flight must be at least 1, got %d", ErrInvalidConfig, c.FramesInFlight)
	}
	return nil
}

func validSize(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Option modifies a Config.
type Option func(*Config)

// WithFPS sets the update rate. Zero is unbounded.
func WithFPS(fps float64) Option {
	return func(c *Config) { c.FPS = fps }
}

// WithVSync enables or disables vsync.
func WithVSync(vsync bool) Option {
	return func(c *Config) { c.VSync = vsync }
}

// WithFullscreen opens the window fullscreen.
func WithFullscreen(fullscreen bool) Option {
	return func(c *Config) { c.Fullscreen = fullscreen }
}

// WithSize sets the initial window size.
func WithSize(width, height float64) Option {
	return func(c *Config) { c.Width, c.Height = width, height }
}

// WithTitle sets the window name.
func WithTitle(title string) Option {
	return func(c *Config) { c.Title = title }
}

// WithPlatform selects a registered platform by name.
func WithPlatform(name string) Option {
	return func(c *Config) { c.Platform = name }
}

// WithEventLoop runs the engine on loop.
func WithEventLoop(loop platform.EventLoop) Option {
	return func(c *Config) { c.EventLoop = loop }
}

// WithBackend selects a registered rendering backend by name.
func WithBackend(name string) Option {
	return func(c *Config) { c.Backend = name }
}

// WithMaxPresentRetries sets the swapchain rebuild bound.
func WithMaxPresentRetries(n int) Option {
	return func(c *Config) { c.MaxPresentRetries = n }
}

// WithFramesInFlight sets the number of frames recorded ahead of the GPU.
func WithFramesInFlight(n int) Option {
	return func(c *Config) { c.FramesInFlight = n }
}

// WithClock drives the frame timer from clock.
func WithClock(clock timing.Clock) Option {
	return func(c *Config) { c.Clock = clock }
}
