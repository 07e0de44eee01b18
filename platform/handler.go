// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package platform

import "github.com/gogpu/gpucontext"

// Handler receives event loop callbacks. Every method is called on the
// goroutine running EventLoop.Run.
type Handler interface {
	// Start is called once when the loop starts, before any other event.
	Start(loop EventLoop)

	// Stop is called once when the loop is about to return.
	Stop(loop EventLoop)

	// WindowReposition reports a new position or size.
	WindowReposition(w Window, r Rect)

	// WindowRedraw asks for the window contents to be drawn.
	WindowRedraw(w Window)

	// WindowClose reports that the user asked to close the window.
	WindowClose(w Window)

	// WindowFocus reports keyboard focus changes.
	WindowFocus(w Window, focused bool)

	// CursorMove reports the cursor position in window pixels.
	CursorMove(w Window, x, y float64)

	// ScrollWheel reports scrolling; positive dy scrolls up.
	ScrollWheel(w Window, dx, dy float64)

	ButtonPress(w Window, button gpucontext.MouseButton, pressed bool, mods gpucontext.Modifiers)
	KeyPress(w Window, key gpucontext.Key, pressed bool, mods gpucontext.Modifiers)

	// CharacterInput reports text typed into the window.
	CharacterInput(w Window, r rune)
}

// NopHandler implements Handler with empty methods. Embed it to handle
// only some events.
type NopHandler struct{}

func (NopHandler) Start(EventLoop)                                                        {}
func (NopHandler) Stop(EventLoop)                                                         {}
func (NopHandler) WindowReposition(Window, Rect)                                          {}
func (NopHandler) WindowRedraw(Window)                                                    {}
func (NopHandler) WindowClose(Window)                                                     {}
func (NopHandler) WindowFocus(Window, bool)                                               {}
func (NopHandler) CursorMove(Window, float64, float64)                                    {}
func (NopHandler) ScrollWheel(Window, float64, float64)                                   {}
func (NopHandler) ButtonPress(Window, gpucontext.MouseButton, bool, gpucontext.Modifiers) {}
func (NopHandler) KeyPress(Window, gpucontext.Key, bool, gpucontext.Modifiers)            {}
func (NopHandler) CharacterInput(Window, rune)                                            {}
