// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/engine/batch"
	"github.com/gogpu/engine/texture"
)

// DefaultMaxRetries is the number of swapchain rebuilds a single frame
// may trigger before the renderer gives up.
const DefaultMaxRetries = 5

// Option configures a Renderer.
type Option func(*options)

type options struct {
	maxRetries     int
	framesInFlight int
}

// WithMaxRetries sets how many times a frame may rebuild the swapchain
// after ErrOutOfDate. Negative values are treated as zero.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = max(n, 0)
	}
}

// WithFramesInFlight sets how many frames may be recorded ahead of the
// GPU. It is capped by the swapchain length.
func WithFramesInFlight(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.framesInFlight = n
		}
	}
}

// Stats counts renderer activity since creation.
type Stats struct {
	// Presented is the number of frames shown.
	Presented uint64

	// Skipped is the number of frames dropped without error: zero-sized
	// windows and acquires that returned ErrNotReady.
	Skipped uint64

	// Rebuilds is the number of times the frame ring was rebuilt.
	Rebuilds uint64

	// Retries is the number of frame attempts repeated after ErrOutOfDate.
	Retries uint64
}

// Renderer presents batches to a window through a Backend.
type Renderer struct {
	backend Backend
	surface *Surface
	ring    *FrameRing
	info    SurfaceInfo
	opts    options

	// prev is the frame submitted last, waited on before reusing any slot.
	prev Frame

	// rebuild is set when the last present was suboptimal.
	rebuild bool

	stats  Stats
	closed bool
}

// NewRenderer creates a renderer drawing to window through backend. The
// renderer takes ownership of backend and destroys it on Close.
// If the window has a drawable area the frame ring is built immediately.
func NewRenderer(backend Backend, window gpucontext.WindowProvider, vsync bool, opts ...Option) (*Renderer, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	o := options{
		maxRetries:     DefaultMaxRetries,
		framesInFlight: DefaultFramesInFlight,
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{
		backend: backend,
		surface: NewSurface(window, vsync),
		opts:    o,
	}
	r.ring = NewFrameRing(backend, o.framesInFlight)

	if r.surface.Valid() {
		if err := r.rebuildRing(); err != nil {
			backend.Destroy()
			return nil, err
		}
	}

	slogger().Info("render: renderer created",
		"backend", backend.Name(),
		"vsync", vsync,
		"maxRetries", o.maxRetries)
	return r, nil
}

// Backend returns the renderer's backend.
func (r *Renderer) Backend() Backend { return r.backend }

// Surface returns the surface being presented to.
func (r *Renderer) Surface() *Surface { return r.surface }

// Ring returns the frame ring.
func (r *Renderer) Ring() *FrameRing { return r.ring }

// SurfaceInfo returns the capabilities queried at the last rebuild.
func (r *Renderer) SurfaceInfo() SurfaceInfo { return r.info }

// Stats returns activity counters.
func (r *Renderer) Stats() Stats { return r.stats }

// SetVSync changes the vertical sync preference. The swapchain is rebuilt
// on the next frame if it differs from the current one.
func (r *Renderer) SetVSync(vsync bool) {
	r.surface.SetVSync(vsync)
}

// UpdateAtlas replaces the texture sampled by textured primitives.
func (r *Renderer) UpdateAtlas(tex *texture.Texture) error {
	if r.closed {
		return ErrClosed
	}
	if err := tex.Validate(); err != nil {
		return err
	}
	if err := r.backend.UpdateAtlas(tex); err != nil {
		return fmt.Errorf("render: update atlas: %w", err)
	}
	return nil
}

// Render draws b and presents it.
//
// A window with no drawable area skips the frame and returns nil. When
// the backend reports ErrOutOfDate the frame ring is rebuilt and the frame
// retried; after the configured number of rebuilds a further failure
// returns a *RetryError matching ErrRetriesExhausted. Any other backend
// error is returned as is.
func (r *Renderer) Render(b *batch.Batch) error {
	if r.closed {
		return ErrClosed
	}

	failures := 0
	for {
		ok, err := r.prepare()
		if err != nil {
			return err
		}
		if !ok {
			r.stats.Skipped++
			return nil
		}

		err = r.attempt(b)
		switch {
		case err == nil:
			r.stats.Presented++
			return nil

		case errors.Is(err, ErrNotReady):
			r.stats.Skipped++
			return nil

		case errors.Is(err, ErrOutOfDate):
			if failures >= r.opts.maxRetries {
				return &RetryError{Attempts: failures + 1, Err: err}
			}
			failures++
			r.stats.Retries++
			r.rebuild = true
			slogger().Warn("render: swapchain out of date, rebuilding",
				"attempt", failures,
				"maxRetries", r.opts.maxRetries)

		default:
			return err
		}
	}
}

// prepare refreshes the surface and rebuilds the ring when needed.
// It returns false if the window has no drawable area.
func (r *Renderer) prepare() (bool, error) {
	changed := r.surface.Refresh()
	if !r.surface.Valid() {
		return false, nil
	}
	if changed || r.rebuild || r.ring.Empty() {
		if err := r.rebuildRing(); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *Renderer) rebuildRing() error {
	info, err := r.backend.SurfaceInfo()
	if err != nil {
		return fmt.Errorf("render: query surface: %w", err)
	}
	r.info = info
	r.prev = nil
	if err := r.ring.Update(r.surface, info); err != nil {
		return err
	}
	r.rebuild = false
	r.stats.Rebuilds++
	return nil
}

// attempt runs one acquire, record, submit and present cycle.
func (r *Renderer) attempt(b *batch.Batch) error {
	f := r.ring.Current()
	if r.prev != nil && r.prev != f {
		if err := r.prev.Wait(); err != nil {
			return fmt.Errorf("render: wait previous frame: %w", err)
		}
	}
	if err := f.Wait(); err != nil {
		return fmt.Errorf("render: wait frame: %w", err)
	}

	sc := r.ring.Swapchain()
	img, err := r.backend.Acquire(sc, f)
	if err != nil {
		return err
	}
	if err := r.backend.Record(f, img, b); err != nil {
		return fmt.Errorf("render: record: %w", err)
	}
	if err := r.backend.Submit(f); err != nil {
		return fmt.Errorf("render: submit: %w", err)
	}
	r.prev = f

	err = r.backend.Present(sc, f, img)
	if errors.Is(err, ErrSuboptimal) {
		r.rebuild = true
		err = nil
	}
	if err != nil {
		return err
	}
	r.ring.Advance()
	return nil
}

// Close destroys the frame ring and the backend. It is safe to call more
// than once.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.ring.Destroy()
	r.prev = nil
	r.backend.Destroy()
	if err != nil {
		return fmt.Errorf("render: close: %w", err)
	}
	return nil
}
