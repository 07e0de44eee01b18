// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/engine/platform"
)

func init() {
	platform.Register(platform.Headless, func() platform.EventLoop { return New() })
}

// DefaultScreen is the screen reported when none are configured.
var DefaultScreen = platform.Screen{
	Name:        "headless",
	Rect:        platform.Rect{Width: 1920, Height: 1080},
	Scale:       1,
	RefreshRate: 60,
	Primary:     true,
}

// Option configures a Loop.
type Option func(*Loop)

// WithScreens sets the screens reported by the loop. The first one is
// used for fullscreen windows.
func WithScreens(screens ...platform.Screen) Option {
	return func(l *Loop) {
		l.screens = slices.Clone(screens)
	}
}

// WithScale sets the scale factor of new windows.
func WithScale(scale float64) Option {
	return func(l *Loop) {
		if scale > 0 {
			l.scale = scale
		}
	}
}

// event is a callback queued for the loop goroutine.
type event func(h platform.Handler)

// Loop is a headless event loop.
type Loop struct {
	screens []platform.Screen
	scale   float64

	mu      sync.Mutex
	queue   []event
	windows []*Window

	wake     chan struct{}
	running  atomic.Bool
	stopping atomic.Bool
}

var _ platform.EventLoop = (*Loop)(nil)

// New creates a headless event loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		screens: []platform.Screen{DefaultScreen},
		scale:   1,
		wake:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run pumps queued events into h until RequestStop is called.
func (l *Loop) Run(h platform.Handler) error {
	release, err := platform.Enter(l)
	if err != nil {
		return err
	}
	defer release()

	l.stopping.Store(false)
	l.running.Store(true)
	defer l.running.Store(false)

	h.Start(l)
	for !l.stopping.Load() {
		ev := l.next()
		if ev == nil {
			<-l.wake
			continue
		}
		ev(h)
	}
	h.Stop(l)

	l.mu.Lock()
	l.queue = nil
	l.mu.Unlock()
	return nil
}

// IsRunning reports whether Run is pumping events.
func (l *Loop) IsRunning() bool { return l.running.Load() }

// RequestStop makes Run return after the current event.
func (l *Loop) RequestStop() {
	l.stopping.Store(true)
	l.signal()
}

// Screens returns the configured screens.
func (l *Loop) Screens() []platform.Screen {
	return slices.Clone(l.screens)
}

// OpenWindow creates a window. A zero-sized rectangle defaults to 640x480.
func (l *Loop) OpenWindow(cfg platform.WindowConfig) (platform.Window, error) {
	if !l.IsRunning() {
		return nil, platform.ErrNotRunning
	}
	if cfg.Rect.Width <= 0 || cfg.Rect.Height <= 0 {
		cfg.Rect.Width, cfg.Rect.Height = 640, 480
	}
	w := &Window{
		loop:  l,
		name:  cfg.Name,
		rect:  cfg.Rect,
		scale: l.scale,
	}
	if cfg.Fullscreen {
		w.setFullscreen(true)
	}

	l.mu.Lock()
	l.windows = append(l.windows, w)
	l.mu.Unlock()
	return w, nil
}

// Windows returns the open windows.
func (l *Loop) Windows() []*Window {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.windows)
}

// Post queues fn to run on the loop goroutine with the loop's handler.
// It never blocks.
func (l *Loop) Post(fn func(h platform.Handler)) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.signal()
}

// Resize changes the window size as if the user dragged its border.
func (l *Loop) Resize(w *Window, width, height float64) {
	r := w.Rect()
	r.Width, r.Height = width, height
	w.SetRect(r)
}

// InjectKey queues a key event.
func (l *Loop) InjectKey(w *Window, key gpucontext.Key, pressed bool, mods gpucontext.Modifiers) {
	l.Post(func(h platform.Handler) { h.KeyPress(w, key, pressed, mods) })
}

// InjectText queues one character event per rune of s.
func (l *Loop) InjectText(w *Window, s string) {
	l.Post(func(h platform.Handler) {
		for _, r := range s {
			h.CharacterInput(w, r)
		}
	})
}

// InjectButton queues a mouse button event.
func (l *Loop) InjectButton(w *Window, b gpucontext.MouseButton, pressed bool, mods gpucontext.Modifiers) {
	l.Post(func(h platform.Handler) { h.ButtonPress(w, b, pressed, mods) })
}

// InjectCursor queues a cursor move.
func (l *Loop) InjectCursor(w *Window, x, y float64) {
	l.Post(func(h platform.Handler) { h.CursorMove(w, x, y) })
}

// InjectScroll queues a scroll event.
func (l *Loop) InjectScroll(w *Window, dx, dy float64) {
	l.Post(func(h platform.Handler) { h.ScrollWheel(w, dx, dy) })
}

// InjectFocus queues a focus change.
func (l *Loop) InjectFocus(w *Window, focused bool) {
	l.Post(func(h platform.Handler) { h.WindowFocus(w, focused) })
}

// InjectClose queues a close request, as if the user clicked the close
// button. The window stays open until the handler closes it.
func (l *Loop) InjectClose(w *Window) {
	l.Post(func(h platform.Handler) { h.WindowClose(w) })
}

func (l *Loop) next() event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	ev := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return ev
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) remove(w *Window) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows = slices.DeleteFunc(l.windows, func(x *Window) bool { return x == w })
}
