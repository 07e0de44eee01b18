// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package terminal

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/engine/platform"
)

func init() {
	platform.Register(platform.Terminal, func() platform.EventLoop { return New() })
}

// Option configures a Loop.
type Option func(*Loop)

// WithScreen makes the loop draw into s instead of the controlling
// terminal. The loop initializes and finalizes s.
func WithScreen(s tcell.Screen) Option {
	return func(l *Loop) {
		l.newScreen = func() (tcell.Screen, error) { return s, nil }
	}
}

// WithMouse enables or disables mouse reporting. It is enabled by
// default.
func WithMouse(enabled bool) Option {
	return func(l *Loop) { l.mouse = enabled }
}

// event is a callback run on the loop goroutine.
type event func(h platform.Handler)

// Loop is a terminal event loop.
type Loop struct {
	newScreen func() (tcell.Screen, error)
	mouse     bool

	// mu guards screen and window. Drawing holds it so the screen cannot
	// be finalized mid-frame.
	mu     sync.Mutex
	screen tcell.Screen
	window *Window

	running  atomic.Bool
	stopping atomic.Bool

	// Loop goroutine state.
	buttons tcell.ButtonMask
	cursorX int
	cursorY int
}

var _ platform.EventLoop = (*Loop)(nil)

// New creates a terminal event loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		newScreen: tcell.NewScreen,
		mouse:     true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run takes over the terminal and pumps its events into h until
// RequestStop is called. The terminal is restored before Run returns.
func (l *Loop) Run(h platform.Handler) error {
	release, err := platform.Enter(l)
	if err != nil {
		return err
	}
	defer release()

	s, err := l.newScreen()
	if err != nil {
		return fmt.Errorf("terminal: open screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	if l.mouse {
		s.EnableMouse()
	}
	s.EnableFocus()
	s.HideCursor()
	s.Clear()

	l.mu.Lock()
	l.screen = s
	l.mu.Unlock()

	l.stopping.Store(false)
	l.running.Store(true)
	defer l.running.Store(false)
	l.buttons = 0
	l.cursorX, l.cursorY = -1, -1

	log := platform.Logger()
	cols, rows := s.Size()
	log.Debug("terminal: loop started", "cols", cols, "rows", rows)

	h.Start(l)
	for !l.stopping.Load() {
		ev := s.PollEvent()
		if ev == nil {
			break
		}
		l.dispatch(h, ev)
	}
	h.Stop(l)

	l.mu.Lock()
	if l.window != nil {
		l.window.markClosed()
		l.window = nil
	}
	l.screen = nil
	l.mu.Unlock()
	s.Fini()

	log.Debug("terminal: loop stopped")
	return nil
}

// IsRunning reports whether Run is pumping events.
func (l *Loop) IsRunning() bool { return l.running.Load() }

// RequestStop makes Run return after the current event.
func (l *Loop) RequestStop() {
	l.stopping.Store(true)
	// Wake PollEvent. A full queue wakes it anyway.
	_ = l.post(nil)
}

// Screens reports the terminal as a single screen in cell pixels.
func (l *Loop) Screens() []platform.Screen {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.screen == nil {
		return nil
	}
	cols, rows := l.screen.Size()
	return []platform.Screen{{
		Name:    "terminal",
		Rect:    platform.Rect{Width: float64(cols), Height: float64(rows * 2)},
		Scale:   1,
		Primary: true,
	}}
}

// OpenWindow returns the terminal window. The terminal has exactly one;
// opening another while it is open fails with ErrWindowLimit. The
// requested rectangle is ignored.
func (l *Loop) OpenWindow(cfg platform.WindowConfig) (platform.Window, error) {
	if !l.IsRunning() {
		return nil, platform.ErrNotRunning
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.screen == nil {
		return nil, platform.ErrNotRunning
	}
	if l.window != nil {
		return nil, platform.ErrWindowLimit
	}
	cols, rows := l.screen.Size()
	w := &Window{loop: l, name: cfg.Name, cols: cols, rows: rows}
	if cfg.Name != "" {
		l.screen.SetTitle(cfg.Name)
	}
	l.window = w
	return w, nil
}

// Window returns the open window, or nil.
func (l *Loop) Window() *Window {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.window
}

// Post queues fn to run on the loop goroutine with the loop's handler.
// It never blocks. It fails when the loop is not running or the terminal
// event queue is full.
func (l *Loop) Post(fn func(h platform.Handler)) error {
	return l.post(event(fn))
}

func (l *Loop) post(ev event) error {
	l.mu.Lock()
	s := l.screen
	l.mu.Unlock()
	if s == nil {
		return platform.ErrNotRunning
	}
	if err := s.PostEvent(tcell.NewEventInterrupt(ev)); err != nil {
		if errors.Is(err, tcell.ErrEventQFull) {
			platform.Logger().Debug("terminal: event queue full")
		}
		return err
	}
	return nil
}

func (l *Loop) dispatch(h platform.Handler, ev tcell.Event) {
	if ev, ok := ev.(*tcell.EventInterrupt); ok {
		if fn, ok := ev.Data().(event); ok && fn != nil {
			fn(h)
		}
		return
	}

	w := l.Window()
	if w == nil {
		return
	}
	switch ev := ev.(type) {
	case *tcell.EventResize:
		cols, rows := ev.Size()
		if w.resize(cols, rows) {
			l.sync()
			h.WindowReposition(w, w.Rect())
			w.RequestRedraw()
		}
	case *tcell.EventKey:
		l.key(h, w, ev)
	case *tcell.EventMouse:
		l.mouseEvent(h, w, ev)
	case *tcell.EventFocus:
		h.WindowFocus(w, ev.Focused)
	}
}

// sync repaints the whole terminal on the next Show.
func (l *Loop) sync() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.screen != nil {
		l.screen.Sync()
	}
}

func (l *Loop) key(h platform.Handler, w *Window, ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		h.WindowClose(w)
		return
	}
	key, mods := translateKey(ev)
	if key != gpucontext.KeyUnknown {
		h.KeyPress(w, key, true, mods)
		h.KeyPress(w, key, false, mods)
	}
	if ev.Key() == tcell.KeyRune && printable(ev.Rune()) {
		h.CharacterInput(w, ev.Rune())
	}
}

func (l *Loop) mouseEvent(h platform.Handler, w *Window, ev *tcell.EventMouse) {
	x, y := ev.Position()
	if x != l.cursorX || y != l.cursorY {
		l.cursorX, l.cursorY = x, y
		h.CursorMove(w, float64(x), float64(y*2))
	}

	mods := translateMods(ev.Modifiers())
	pressed := ev.Buttons() & buttonMask
	changed := pressed ^ l.buttons
	l.buttons = pressed
	for _, b := range buttons {
		if changed&b.mask != 0 {
			h.ButtonPress(w, b.button, pressed&b.mask != 0, mods)
		}
	}

	if dx, dy := scroll(ev.Buttons()); dx != 0 || dy != 0 {
		h.ScrollWheel(w, dx, dy)
	}
}
