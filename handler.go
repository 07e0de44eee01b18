// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/engine/platform"
)

// eventHandler receives the event loop callbacks. Each one runs inside
// the fault guard so a panic never unwinds through the platform.
type eventHandler struct {
	e *Engine
}

var _ platform.Handler = (*eventHandler)(nil)

func (h *eventHandler) Start(loop platform.EventLoop) {
	e := h.e
	if e.stopping.Load() {
		loop.RequestStop()
		return
	}
	e.faults.Do("start", func() {
		if err := e.start(loop); err != nil {
			e.startErr = err
			Logger().Error("engine: start failed", "err", err)
			e.Stop()
		}
	})
}

func (h *eventHandler) Stop(platform.EventLoop) {
	h.e.faults.Do("stop", h.e.teardown)
	h.e.Stop()
}

func (h *eventHandler) WindowReposition(w platform.Window, r platform.Rect) {
	e := h.e
	e.faults.Do("reposition", func() {
		e.mu.Lock()
		e.state.window.observe(w)
		e.mu.Unlock()
		e.input.push(Event{Kind: ResizeEvent, X: r.Width, Y: r.Height})
	})
}

func (h *eventHandler) WindowRedraw(platform.Window) {
	e := h.e
	if e.renderer == nil || e.stopping.Load() {
		return
	}
	e.faults.Do("render", e.redraw)
}

// WindowClose shuts down: the renderer lets go of the window surface,
// the window closes, then the loop is asked to stop.
func (h *eventHandler) WindowClose(platform.Window) {
	e := h.e
	e.faults.Do("close", e.teardown)
	e.Stop()
}

func (h *eventHandler) WindowFocus(_ platform.Window, focused bool) {
	h.push("focus", Event{Kind: FocusEvent, Pressed: focused})
}

func (h *eventHandler) CursorMove(_ platform.Window, x, y float64) {
	h.push("cursor", Event{Kind: CursorEvent, X: x, Y: y})
}

func (h *eventHandler) ScrollWheel(_ platform.Window, dx, dy float64) {
	h.push("scroll", Event{Kind: ScrollEvent, X: dx, Y: dy})
}

func (h *eventHandler) ButtonPress(_ platform.Window, b gpucontext.MouseButton, pressed bool, mods gpucontext.Modifiers) {
	h.push("button", Event{Kind: ButtonEvent, Button: b, Pressed: pressed, Mods: mods})
}

func (h *eventHandler) KeyPress(_ platform.Window, k gpucontext.Key, pressed bool, mods gpucontext.Modifiers) {
	h.push("key", Event{Kind: KeyEvent, Key: k, Pressed: pressed, Mods: mods})
}

func (h *eventHandler) CharacterInput(_ platform.Window, r rune) {
	h.push("text", Event{Kind: TextEvent, Rune: r})
}

func (h *eventHandler) push(callback string, ev Event) {
	h.e.faults.Do(callback, func() { h.e.input.push(ev) })
}
