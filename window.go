// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import "github.com/gogpu/engine/platform"

// windowFields is a set of changed window settings.
type windowFields uint8

const (
	fieldName windowFields = 1 << iota
	fieldRect
	fieldFullscreen
)

// WindowSettings are the window properties a game may change. Changes
// are applied to the platform window after the next frame is rendered.
type WindowSettings struct {
	name       string
	rect       platform.Rect
	fullscreen bool
	dirty      windowFields
}

// Name returns the window name.
func (w *WindowSettings) Name() string { return w.name }

// SetName changes the window name.
func (w *WindowSettings) SetName(name string) {
	if name != w.name {
		w.name = name
		w.dirty |= fieldName
	}
}

// Rect returns the window rectangle in logical units.
func (w *WindowSettings) Rect() platform.Rect { return w.rect }

// SetRect moves and resizes the window.
func (w *WindowSettings) SetRect(r platform.Rect) {
	if r != w.rect {
		w.rect = r
		w.dirty |= fieldRect
	}
}

// Size returns the window size in logical units.
func (w *WindowSettings) Size() (width, height float64) {
	return w.rect.Width, w.rect.Height
}

// SetSize resizes the window, keeping its position.
func (w *WindowSettings) SetSize(width, height float64) {
	r := w.rect
	r.Width, r.Height = width, height
	w.SetRect(r)
}

// Fullscreen reports whether the window is fullscreen.
func (w *WindowSettings) Fullscreen() bool { return w.fullscreen }

// SetFullscreen enters or leaves fullscreen.
func (w *WindowSettings) SetFullscreen(fullscreen bool) {
	if fullscreen != w.fullscreen {
		w.fullscreen = fullscreen
		w.dirty |= fieldFullscreen
	}
}

// observe records the state the platform reports. Pending changes the
// platform has not applied yet are kept.
func (w *WindowSettings) observe(win platform.Window) {
	if w.dirty&fieldName == 0 {
		w.name = win.Name()
	}
	if w.dirty&fieldRect == 0 {
		w.rect = win.Rect()
	}
	if w.dirty&fieldFullscreen == 0 {
		w.fullscreen = win.Fullscreen()
	}
}

// take returns the pending changes and marks them applied.
func (w *WindowSettings) take() windowToken {
	t := windowToken{
		fields:     w.dirty,
		name:       w.name,
		rect:       w.rect,
		fullscreen: w.fullscreen,
	}
	w.dirty = 0
	return t
}

// windowToken carries window changes from the locked render phase to the
// platform window.
type windowToken struct {
	fields     windowFields
	name       string
	rect       platform.Rect
	fullscreen bool
}

// empty reports whether there is nothing to apply.
func (t windowToken) empty() bool { return t.fields == 0 }

// apply writes the changes to win. Fullscreen goes first so a rectangle
// set in the same frame applies to the windowed state.
func (t windowToken) apply(win platform.Window) {
	if t.fields&fieldFullscreen != 0 {
		win.SetFullscreen(t.fullscreen)
	}
	if t.fields&fieldName != 0 {
		win.SetName(t.name)
	}
	if t.fields&fieldRect != 0 {
		win.SetRect(t.rect)
	}
}
