// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/engine/platform"
)

// recorder logs callbacks and stops the loop on WindowClose.
type recorder struct {
	platform.NopHandler

	mu      sync.Mutex
	events  []string
	window  *Window
	started chan struct{}
	cfg     platform.WindowConfig
	openErr error
}

func newRecorder() *recorder {
	return &recorder{
		started: make(chan struct{}),
		cfg:     platform.WindowConfig{Name: "test", Rect: platform.Rect{Width: 320, Height: 200}},
	}
}

func (r *recorder) log(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) Start(loop platform.EventLoop) {
	r.log("start")
	w, err := loop.OpenWindow(r.cfg)
	r.openErr = err
	if err == nil {
		r.window = w.(*Window)
	}
	close(r.started)
}

func (r *recorder) Stop(platform.EventLoop) { r.log("stop") }

func (r *recorder) WindowRedraw(platform.Window) { r.log("redraw") }

func (r *recorder) WindowReposition(_ platform.Window, rect platform.Rect) {
	r.log("reposition " + rect.String())
}

func (r *recorder) KeyPress(_ platform.Window, k gpucontext.Key, pressed bool, _ gpucontext.Modifiers) {
	if k == gpucontext.KeyEscape && pressed {
		r.log("escape")
	}
}

func (r *recorder) CharacterInput(_ platform.Window, ch rune) { r.log("char " + string(ch)) }

func (r *recorder) WindowClose(w platform.Window) {
	r.log("close")
	w.Close()
	platform.Current().RequestStop()
}

func runLoop(t *testing.T, l *Loop, h platform.Handler) chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- l.Run(h) }()
	return done
}

func wait(t *testing.T, done chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return")
	}
}

func TestLoopDispatchOrder(t *testing.T) {
	l := New()
	rec := newRecorder()
	done := runLoop(t, l, rec)
	<-rec.started
	if rec.openErr != nil {
		t.Fatalf("OpenWindow() error = %v", rec.openErr)
	}
	w := rec.window

	l.InjectKey(w, gpucontext.KeyEscape, true, 0)
	l.InjectText(w, "hi")
	l.Resize(w, 100, 50)
	l.InjectClose(w)
	wait(t, done)

	want := []string{"start", "escape", "char h", "char i", "reposition Rect(0,0 100x50)", "close", "stop"}
	got := rec.Events()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
	if !w.Closed() {
		t.Error("window should be closed")
	}
	if len(l.Windows()) != 0 {
		t.Error("closed window still listed")
	}
	if l.IsRunning() {
		t.Error("IsRunning() = true after Run returned")
	}
}

func TestRedrawCoalesced(t *testing.T) {
	l := New()
	rec := newRecorder()
	done := runLoop(t, l, rec)
	<-rec.started
	w := rec.window

	// Hold the loop so the requests pile up before any is delivered.
	block := make(chan struct{})
	l.Post(func(platform.Handler) { <-block })
	for i := 0; i < 10; i++ {
		w.RequestRedraw()
	}
	close(block)
	l.InjectClose(w)
	wait(t, done)

	n := 0
	for _, e := range rec.Events() {
		if e == "redraw" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("redraws = %d, want 1", n)
	}
}

func TestSecondLoopRejected(t *testing.T) {
	a := New()
	rec := newRecorder()
	done := runLoop(t, a, rec)
	<-rec.started

	if err := New().Run(platform.NopHandler{}); !errors.Is(err, platform.ErrLoopActive) {
		t.Errorf("second Run() error = %v, want ErrLoopActive", err)
	}

	a.RequestStop()
	wait(t, done)
}

func TestOpenWindowOutsideRun(t *testing.T) {
	if _, err := New().OpenWindow(platform.WindowConfig{}); !errors.Is(err, platform.ErrNotRunning) {
		t.Errorf("OpenWindow() error = %v, want ErrNotRunning", err)
	}
}

func TestWindowFullscreenAndScale(t *testing.T) {
	screen := platform.Screen{Name: "wide", Rect: platform.Rect{Width: 800, Height: 400}, Scale: 2}
	l := New(WithScreens(screen), WithScale(2))
	rec := newRecorder()
	rec.cfg.Fullscreen = true
	done := runLoop(t, l, rec)
	<-rec.started
	w := rec.window

	if !w.Fullscreen() {
		t.Error("Fullscreen() = false")
	}
	if pw, ph := w.Size(); pw != 1600 || ph != 800 {
		t.Errorf("Size() = %dx%d, want 1600x800", pw, ph)
	}

	w.SetFullscreen(false)
	if got := w.Rect(); got != rec.cfg.Rect {
		t.Errorf("Rect() after leaving fullscreen = %v, want %v", got, rec.cfg.Rect)
	}
	if len(l.Screens()) != 1 || l.Screens()[0].Name != "wide" {
		t.Errorf("Screens() = %v", l.Screens())
	}

	l.InjectClose(w)
	wait(t, done)

	if pw, ph := w.Size(); pw != 0 || ph != 0 {
		t.Errorf("closed Size() = %dx%d, want 0x0", pw, ph)
	}
}

func TestPresentImage(t *testing.T) {
	w := &Window{loop: New(), scale: 1}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 9, A: 255})

	if err := w.PresentImage(img); err != nil {
		t.Fatalf("PresentImage() error = %v", err)
	}
	img.SetRGBA(1, 1, color.RGBA{})

	frame := w.Frame()
	if frame.RGBAAt(1, 1).R != 9 {
		t.Error("Frame() did not keep a copy")
	}
	if w.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", w.Frames())
	}
}
