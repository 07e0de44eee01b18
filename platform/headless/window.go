// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/engine/platform"
)

// Window is a headless window.
type Window struct {
	loop  *Loop
	scale float64

	mu         sync.Mutex
	name       string
	rect       platform.Rect
	windowed   platform.Rect
	fullscreen bool
	closed     bool
	frame      *image.RGBA
	frames     int

	redrawPending atomic.Bool
}

var _ platform.Window = (*Window)(nil)

// Name returns the window title.
func (w *Window) Name() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.name
}

// SetName sets the window title.
func (w *Window) SetName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.name = name
}

// Rect returns the window rectangle.
func (w *Window) Rect() platform.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rect
}

// SetRect moves and resizes the window and queues a reposition event.
func (w *Window) SetRect(r platform.Rect) {
	w.mu.Lock()
	if w.closed || r == w.rect {
		w.mu.Unlock()
		return
	}
	w.rect = r
	w.mu.Unlock()
	w.loop.Post(func(h platform.Handler) { h.WindowReposition(w, r) })
}

// Fullscreen reports whether the window covers the primary screen.
func (w *Window) Fullscreen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fullscreen
}

// SetFullscreen covers the primary screen, or restores the windowed
// rectangle.
func (w *Window) SetFullscreen(fullscreen bool) {
	w.mu.Lock()
	if w.closed || fullscreen == w.fullscreen {
		w.mu.Unlock()
		return
	}
	w.setFullscreenLocked(fullscreen)
	r := w.rect
	w.mu.Unlock()
	w.loop.Post(func(h platform.Handler) { h.WindowReposition(w, r) })
}

func (w *Window) setFullscreen(fullscreen bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setFullscreenLocked(fullscreen)
}

func (w *Window) setFullscreenLocked(fullscreen bool) {
	if fullscreen {
		w.windowed = w.rect
		if len(w.loop.screens) > 0 {
			w.rect = w.loop.screens[0].Rect
		}
	} else {
		w.rect = w.windowed
	}
	w.fullscreen = fullscreen
}

// Size returns the drawable area in pixels. A closed window has none.
func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, 0
	}
	return int(w.rect.Width * w.scale), int(w.rect.Height * w.scale)
}

// ScaleFactor returns the pixels per logical unit.
func (w *Window) ScaleFactor() float64 { return w.scale }

// RequestRedraw queues a redraw event. Requests made before the pending
// redraw is delivered are merged into it.
func (w *Window) RequestRedraw() {
	if w.Closed() || !w.redrawPending.CompareAndSwap(false, true) {
		return
	}
	w.loop.Post(func(h platform.Handler) {
		w.redrawPending.Store(false)
		if !w.Closed() {
			h.WindowRedraw(w)
		}
	})
}

// Close destroys the window.
func (w *Window) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()
	w.loop.remove(w)
}

// Closed reports whether Close has been called.
func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// NativeHandle reports no OS window. GPU backends given a headless window
// render without a visible surface.
func (w *Window) NativeHandle() (display, window uintptr) { return 0, 0 }

// PresentImage stores a copy of a finished frame.
func (w *Window) PresentImage(img *image.RGBA) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frame == nil || w.frame.Rect != img.Rect {
		w.frame = image.NewRGBA(img.Rect)
	}
	copy(w.frame.Pix, img.Pix)
	w.frames++
	return nil
}

// Frame returns a copy of the last presented frame, or nil.
func (w *Window) Frame() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frame == nil {
		return nil
	}
	out := image.NewRGBA(w.frame.Rect)
	copy(out.Pix, w.frame.Pix)
	return out
}

// Frames returns the number of frames presented.
func (w *Window) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}
