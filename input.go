// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/gpucontext"
	"golang.org/x/text/unicode/norm"
)

// EventKind identifies an input event.
type EventKind uint8

// Input event kinds.
const (
	KeyEvent EventKind = iota + 1
	TextEvent
	ButtonEvent
	CursorEvent
	ScrollEvent
	FocusEvent
	ResizeEvent
)

var eventKindNames = [...]string{
	KeyEvent:    "key",
	TextEvent:   "text",
	ButtonEvent: "button",
	CursorEvent: "cursor",
	ScrollEvent: "scroll",
	FocusEvent:  "focus",
	ResizeEvent: "resize",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) && eventKindNames[k] != "" {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event is one platform input event. Which fields are set depends on
// Kind:
//
//	KeyEvent:    Key, Pressed, Mods
//	TextEvent:   Rune
//	ButtonEvent: Button, Pressed, Mods
//	CursorEvent: X, Y (window pixels)
//	ScrollEvent: X, Y (scroll deltas, positive Y scrolls up)
//	FocusEvent:  Pressed (focused)
//	ResizeEvent: X, Y (window width and height)
type Event struct {
	Kind    EventKind
	Key     gpucontext.Key
	Button  gpucontext.MouseButton
	Pressed bool
	Mods    gpucontext.Modifiers
	Rune    rune
	X, Y    float64
}

// inputQueue collects events on the event goroutine until the update
// goroutine drains them. Producers never block on the consumer.
type inputQueue struct {
	mu     sync.Mutex
	events []Event
}

func (q *inputQueue) push(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// drain returns the queued events and empties the queue.
func (q *inputQueue) drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.events
	q.events = nil
	return events
}

// Input is the input seen by one update tick: the events delivered since
// the previous tick and the device state after them.
type Input struct {
	events  []Event
	text    string
	keys    map[gpucontext.Key]bool
	buttons map[gpucontext.MouseButton]bool
	mods    gpucontext.Modifiers
	cursorX float64
	cursorY float64
	focused bool
}

// next returns the input after applying events to in.
func (in Input) next(events []Event) Input {
	out := Input{
		events:  events,
		keys:    maps.Clone(in.keys),
		buttons: maps.Clone(in.buttons),
		mods:    in.mods,
		cursorX: in.cursorX,
		cursorY: in.cursorY,
		focused: in.focused,
	}
	if out.keys == nil {
		out.keys = make(map[gpucontext.Key]bool)
	}
	if out.buttons == nil {
		out.buttons = make(map[gpucontext.MouseButton]bool)
	}

	var text strings.Builder
	for _, ev := range events {
		switch ev.Kind {
		case KeyEvent:
			setDown(out.keys, ev.Key, ev.Pressed)
			out.mods = ev.Mods
		case ButtonEvent:
			setDown(out.buttons, ev.Button, ev.Pressed)
			out.mods = ev.Mods
		case TextEvent:
			text.WriteRune(ev.Rune)
		case CursorEvent:
			out.cursorX, out.cursorY = ev.X, ev.Y
		case FocusEvent:
			out.focused = ev.Pressed
			if !ev.Pressed {
				// Releases are not delivered to unfocused windows.
				clear(out.keys)
				clear(out.buttons)
				out.mods = 0
			}
		}
	}
	out.text = norm.NFC.String(text.String())
	return out
}

func setDown[K comparable](m map[K]bool, k K, down bool) {
	if down {
		m[k] = true
	} else {
		delete(m, k)
	}
}

// Events returns the events delivered since the previous tick, in order.
func (in Input) Events() []Event { return slices.Clone(in.events) }

// Text returns the characters typed since the previous tick in NFC form.
func (in Input) Text() string { return in.text }

// KeyDown reports whether k is held.
func (in Input) KeyDown(k gpucontext.Key) bool { return in.keys[k] }

// Pressed reports whether k was pressed since the previous tick, even if
// it has been released again.
func (in Input) Pressed(k gpucontext.Key) bool {
	for _, ev := range in.events {
		if ev.Kind == KeyEvent && ev.Key == k && ev.Pressed {
			return true
		}
	}
	return false
}

// ButtonDown reports whether b is held.
func (in Input) ButtonDown(b gpucontext.MouseButton) bool { return in.buttons[b] }

// Clicked reports whether b was pressed since the previous tick.
func (in Input) Clicked(b gpucontext.MouseButton) bool {
	for _, ev := range in.events {
		if ev.Kind == ButtonEvent && ev.Button == b && ev.Pressed {
			return true
		}
	}
	return false
}

// Modifiers returns the modifiers of the last key or button event.
func (in Input) Modifiers() gpucontext.Modifiers { return in.mods }

// Cursor returns the last cursor position in window pixels.
func (in Input) Cursor() (x, y float64) { return in.cursorX, in.cursorY }

// Scroll returns the scrolling accumulated since the previous tick.
func (in Input) Scroll() (dx, dy float64) {
	for _, ev := range in.events {
		if ev.Kind == ScrollEvent {
			dx += ev.X
			dy += ev.Y
		}
	}
	return dx, dy
}

// Focused reports whether the window has keyboard focus.
func (in Input) Focused() bool { return in.focused }
