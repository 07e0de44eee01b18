// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package terminal

import (
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/engine/platform"
)

// upperHalf draws the top pixel of a cell in the foreground color and
// the bottom pixel in the background color.
const upperHalf = '▀'

// redrawRetryInterval is how long a redraw waits for room in a full
// event queue.
const redrawRetryInterval = 2 * time.Millisecond

// Window is the terminal window.
type Window struct {
	loop *Loop

	mu     sync.Mutex
	name   string
	cols   int
	rows   int
	closed bool
	frames int

	redrawPending atomic.Bool
}

var _ platform.Window = (*Window)(nil)

// Name returns the window title.
func (w *Window) Name() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.name
}

// SetName sets the terminal title.
func (w *Window) SetName(name string) {
	w.mu.Lock()
	w.name = name
	w.mu.Unlock()

	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	if w.loop.screen != nil && !w.Closed() {
		w.loop.screen.SetTitle(name)
	}
}

// Rect returns the terminal size in pixels, two per row.
func (w *Window) Rect() platform.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return platform.Rect{Width: float64(w.cols), Height: float64(w.rows * 2)}
}

// SetRect is ignored: programs cannot resize the terminal.
func (w *Window) SetRect(r platform.Rect) {
	platform.Logger().Debug("terminal: SetRect ignored", "rect", r)
}

// Fullscreen reports true. The window always covers the terminal.
func (w *Window) Fullscreen() bool { return true }

// SetFullscreen is ignored.
func (w *Window) SetFullscreen(bool) {}

// Size returns the drawable area in pixels. A closed window has none.
func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, 0
	}
	return w.cols, w.rows * 2
}

// ScaleFactor returns 1.
func (w *Window) ScaleFactor() float64 { return 1 }

// RequestRedraw queues a redraw event. Requests made before the pending
// redraw is delivered are merged into it.
func (w *Window) RequestRedraw() {
	if w.Closed() || !w.redrawPending.CompareAndSwap(false, true) {
		return
	}
	ev := func(h platform.Handler) {
		w.redrawPending.Store(false)
		if !w.Closed() {
			h.WindowRedraw(w)
		}
	}
	err := w.loop.post(ev)
	switch {
	case err == nil:
	case errors.Is(err, tcell.ErrEventQFull):
		// Callers may block until the redraw is delivered, so it must
		// not be dropped.
		go w.retryRedraw(ev)
	default:
		w.redrawPending.Store(false)
	}
}

// retryRedraw posts ev once the event queue has room.
func (w *Window) retryRedraw(ev event) {
	for !w.Closed() {
		time.Sleep(redrawRetryInterval)
		err := w.loop.post(ev)
		if err == nil {
			return
		}
		if !errors.Is(err, tcell.ErrEventQFull) {
			break
		}
	}
	w.redrawPending.Store(false)
}

// Close releases the terminal window. The loop keeps running; the
// handler decides when to stop it.
func (w *Window) Close() {
	if !w.markClosed() {
		return
	}
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	if w.loop.window == w {
		w.loop.window = nil
	}
}

// markClosed closes w and reports whether it was open.
func (w *Window) markClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.closed = true
	return true
}

// Closed reports whether Close has been called.
func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Frames returns the number of frames presented.
func (w *Window) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// resize records a new terminal size and reports whether it changed.
func (w *Window) resize(cols, rows int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if cols == w.cols && rows == w.rows {
		return false
	}
	w.cols, w.rows = cols, rows
	return true
}

// PresentImage draws img scaled to the terminal. Presenting to a closed
// window or after the loop stopped does nothing.
func (w *Window) PresentImage(img *image.RGBA) error {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	s := w.loop.screen
	if s == nil || w.loop.window != w {
		return nil
	}

	cols, rows := s.Size()
	blit(s, img, cols, rows)
	s.Show()

	w.mu.Lock()
	w.frames++
	w.mu.Unlock()
	return nil
}

// blit samples img to a cols x 2*rows pixel grid, nearest neighbour,
// and writes one half block cell per pixel pair.
func blit(s tcell.Screen, img *image.RGBA, cols, rows int) {
	b := img.Bounds()
	if b.Empty() || cols <= 0 || rows <= 0 {
		return
	}
	height := rows * 2
	for row := range rows {
		top := b.Min.Y + (row*2)*b.Dy()/height
		bottom := b.Min.Y + (row*2+1)*b.Dy()/height
		for col := range cols {
			x := b.Min.X + col*b.Dx()/cols
			style := tcell.StyleDefault.
				Foreground(pixel(img, x, top)).
				Background(pixel(img, x, bottom))
			s.SetContent(col, row, upperHalf, nil, style)
		}
	}
}

func pixel(img *image.RGBA, x, y int) tcell.Color {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+3 : i+3]
	return tcell.NewRGBColor(int32(p[0]), int32(p[1]), int32(p[2]))
}
