// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package terminal

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
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
	openErr error
}

func newRecorder() *recorder {
	return &recorder{started: make(chan struct{})}
}

func (r *recorder) log(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) Start(loop platform.EventLoop) {
	r.log("start")
	w, err := loop.OpenWindow(platform.WindowConfig{Name: "test"})
	r.openErr = err
	if err == nil {
		r.window = w.(*Window)
	}
	close(r.started)
}

func (r *recorder) Stop(platform.EventLoop) { r.log("stop") }

func (r *recorder) WindowRedraw(platform.Window) { r.log("redraw") }

func (r *recorder) WindowReposition(_ platform.Window, rect platform.Rect) {
	r.log("reposition %s", rect)
}

func (r *recorder) WindowFocus(_ platform.Window, focused bool) { r.log("focus %v", focused) }

func (r *recorder) CursorMove(_ platform.Window, x, y float64) { r.log("cursor %g,%g", x, y) }

func (r *recorder) ScrollWheel(_ platform.Window, dx, dy float64) { r.log("scroll %g,%g", dx, dy) }

func (r *recorder) ButtonPress(_ platform.Window, b gpucontext.MouseButton, pressed bool, _ gpucontext.Modifiers) {
	r.log("button %d %v", b, pressed)
}

func (r *recorder) KeyPress(_ platform.Window, k gpucontext.Key, pressed bool, mods gpucontext.Modifiers) {
	r.log("key %d %v %d", k, pressed, mods)
}

func (r *recorder) CharacterInput(_ platform.Window, ch rune) { r.log("char %c", ch) }

func (r *recorder) WindowClose(w platform.Window) {
	r.log("close")
	w.Close()
	platform.Current().RequestStop()
}

func start(t *testing.T) (*Loop, tcell.SimulationScreen, *recorder, chan error) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	l := New(WithScreen(sim))
	rec := newRecorder()
	done := make(chan error, 1)
	go func() { done <- l.Run(rec) }()
	<-rec.started
	if rec.openErr != nil {
		t.Fatalf("OpenWindow() error = %v", rec.openErr)
	}
	return l, sim, rec, done
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

// waitFor blocks until the recorder has logged event.
func waitFor(t *testing.T, rec *recorder, event string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, e := range rec.Events() {
			if e == event {
				return
			}
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("event %q not delivered; got %q", event, rec.Events())
}

func checkEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKeyDispatch(t *testing.T) {
	l, sim, rec, done := start(t)

	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'Z', tcell.ModNone)
	sim.InjectKey(tcell.KeyEsc, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'é', tcell.ModNone)
	sim.InjectKey(tcell.KeyCtrlC, 'c', tcell.ModCtrl)
	wait(t, done)

	a, z, esc := gpucontext.KeyA, gpucontext.KeyZ, gpucontext.KeyEscape
	shift := gpucontext.ModShift
	want := []string{
		"start",
		fmt.Sprintf("key %d true 0", a),
		fmt.Sprintf("key %d false 0", a),
		"char a",
		fmt.Sprintf("key %d true %d", z, shift),
		fmt.Sprintf("key %d false %d", z, shift),
		"char Z",
		fmt.Sprintf("key %d true 0", esc),
		fmt.Sprintf("key %d false 0", esc),
		"char é",
		"close",
		"stop",
	}
	checkEvents(t, rec.Events(), want)

	if !rec.window.Closed() {
		t.Error("window should be closed")
	}
	if l.IsRunning() {
		t.Error("IsRunning() = true after Run returned")
	}
	if platform.Current() != nil {
		t.Error("Current() != nil after Run returned")
	}
}

func TestMouseDispatch(t *testing.T) {
	_, sim, rec, done := start(t)

	sim.InjectMouse(3, 4, tcell.Button1, tcell.ModNone)
	sim.InjectMouse(3, 4, tcell.Button1|tcell.Button2, tcell.ModNone)
	sim.InjectMouse(5, 4, tcell.ButtonNone, tcell.ModNone)
	sim.InjectMouse(5, 4, tcell.WheelUp, tcell.ModNone)
	sim.InjectMouse(5, 4, tcell.WheelLeft, tcell.ModNone)
	sim.InjectKey(tcell.KeyCtrlC, 'c', tcell.ModCtrl)
	wait(t, done)

	want := []string{
		"start",
		"cursor 3,8",
		fmt.Sprintf("button %d true", gpucontext.MouseButtonLeft),
		fmt.Sprintf("button %d true", gpucontext.MouseButtonRight),
		"cursor 5,8",
		fmt.Sprintf("button %d false", gpucontext.MouseButtonLeft),
		fmt.Sprintf("button %d false", gpucontext.MouseButtonRight),
		"scroll 0,1",
		"scroll -1,0",
		"close",
		"stop",
	}
	checkEvents(t, rec.Events(), want)
}

func TestResizeAndFocus(t *testing.T) {
	_, sim, rec, done := start(t)
	w := rec.window

	if pw, ph := w.Size(); pw != 80 || ph != 50 {
		t.Errorf("Size() = %dx%d, want 80x50", pw, ph)
	}

	sim.SetSize(40, 10)
	if err := sim.PostEvent(tcell.NewEventResize(40, 10)); err != nil {
		t.Fatalf("PostEvent() error = %v", err)
	}
	// Same size again is not a change.
	if err := sim.PostEvent(tcell.NewEventResize(40, 10)); err != nil {
		t.Fatalf("PostEvent() error = %v", err)
	}
	waitFor(t, rec, "redraw")
	if err := sim.PostEvent(tcell.NewEventFocus(false)); err != nil {
		t.Fatalf("PostEvent() error = %v", err)
	}
	sim.InjectKey(tcell.KeyCtrlC, 'c', tcell.ModCtrl)
	wait(t, done)

	want := []string{
		"start",
		"reposition Rect(0,0 40x20)",
		"redraw",
		"focus false",
		"close",
		"stop",
	}
	checkEvents(t, rec.Events(), want)

	if pw, ph := w.Size(); pw != 0 || ph != 0 {
		t.Errorf("closed Size() = %dx%d, want 0x0", pw, ph)
	}
}

func TestRedrawCoalesced(t *testing.T) {
	l, sim, rec, done := start(t)
	w := rec.window

	// Hold the loop so the requests pile up before any is delivered.
	block := make(chan struct{})
	if err := l.Post(func(platform.Handler) { <-block }); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	for range 10 {
		w.RequestRedraw()
	}
	close(block)
	sim.InjectKey(tcell.KeyCtrlC, 'c', tcell.ModCtrl)
	wait(t, done)

	checkEvents(t, rec.Events(), []string{"start", "redraw", "close", "stop"})
}

func TestSingleWindow(t *testing.T) {
	l, _, rec, done := start(t)

	errc := make(chan error, 1)
	if err := l.Post(func(platform.Handler) {
		_, err := l.OpenWindow(platform.WindowConfig{})
		errc <- err
	}); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if err := <-errc; !errors.Is(err, platform.ErrWindowLimit) {
		t.Errorf("second OpenWindow() error = %v, want ErrWindowLimit", err)
	}
	if !rec.window.Fullscreen() {
		t.Error("Fullscreen() = false")
	}
	if s := l.Screens(); len(s) != 1 || s[0].Rect.Height != 50 {
		t.Errorf("Screens() = %v", s)
	}

	l.RequestStop()
	wait(t, done)
	if l.Screens() != nil {
		t.Error("Screens() after Run should be nil")
	}
}

func TestOpenWindowOutsideRun(t *testing.T) {
	if _, err := New().OpenWindow(platform.WindowConfig{}); !errors.Is(err, platform.ErrNotRunning) {
		t.Errorf("OpenWindow() error = %v, want ErrNotRunning", err)
	}
	if err := New().Post(func(platform.Handler) {}); !errors.Is(err, platform.ErrNotRunning) {
		t.Errorf("Post() error = %v, want ErrNotRunning", err)
	}
}

func TestRunInitError(t *testing.T) {
	l := New(WithScreen(tcell.NewSimulationScreen("no-such-charset")))
	err := l.Run(platform.NopHandler{})
	if !errors.Is(err, tcell.ErrNoCharset) {
		t.Errorf("Run() error = %v, want ErrNoCharset", err)
	}
	if platform.Current() != nil {
		t.Error("Current() != nil after failed Run")
	}
}

func TestPresentImage(t *testing.T) {
	l, sim, rec, done := start(t)
	w := rec.window

	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	img := image.NewRGBA(image.Rect(0, 0, 80, 50))
	for y := range 50 {
		for x := range 80 {
			c := red
			if y >= 25 {
				c = blue
			}
			img.SetRGBA(x, y, c)
		}
	}
	if err := w.PresentImage(img); err != nil {
		t.Fatalf("PresentImage() error = %v", err)
	}

	cells, cols, _ := sim.GetContents()
	check := func(row int, top, bottom color.RGBA) {
		t.Helper()
		c := cells[row*cols]
		fg, bg, _ := c.Style.Decompose()
		wantFg := tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))
		wantBg := tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B))
		if fg != wantFg || bg != wantBg {
			t.Errorf("row %d colors = %v/%v, want %v/%v", row, fg, bg, wantFg, wantBg)
		}
		if len(c.Runes) == 0 || c.Runes[0] != upperHalf {
			t.Errorf("row %d rune = %q, want %q", row, c.Runes, upperHalf)
		}
	}
	check(0, red, red)
	check(12, red, blue)
	check(24, blue, blue)

	if w.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", w.Frames())
	}

	l.RequestStop()
	wait(t, done)

	// After the loop stops, presenting does nothing.
	if err := w.PresentImage(img); err != nil {
		t.Errorf("PresentImage() after stop error = %v", err)
	}
	if w.Frames() != 1 {
		t.Errorf("Frames() after stop = %d, want 1", w.Frames())
	}
}

func TestBlitScales(t *testing.T) {
	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer sim.Fini()
	sim.SetSize(2, 1)

	// 4x4 image sampled to 2x2 pixels: (0,0) (2,0) on top, (0,2) (2,2)
	// on the bottom.
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(0, 0, color.RGBA{R: 10, A: 255})
	img.SetRGBA(2, 0, color.RGBA{R: 20, A: 255})
	img.SetRGBA(0, 2, color.RGBA{R: 30, A: 255})
	img.SetRGBA(2, 2, color.RGBA{R: 40, A: 255})
	blit(sim, img, 2, 1)
	sim.Show()

	cells, _, _ := sim.GetContents()
	want := [][2]int32{{10, 30}, {20, 40}}
	for i, w := range want {
		fg, bg, _ := cells[i].Style.Decompose()
		if fg != tcell.NewRGBColor(w[0], 0, 0) || bg != tcell.NewRGBColor(w[1], 0, 0) {
			t.Errorf("cell %d = %v/%v, want red %d/%d", i, fg, bg, w[0], w[1])
		}
	}
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		key  gpucontext.Key
		mods gpucontext.Modifiers
	}{
		{"lower", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), gpucontext.KeyQ, 0},
		{"upper", tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone), gpucontext.KeyQ, gpucontext.ModShift},
		{"digit", tcell.NewEventKey(tcell.KeyRune, '7', tcell.ModNone), gpucontext.Key7, 0},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), gpucontext.KeySpace, 0},
		{"slash", tcell.NewEventKey(tcell.KeyRune, '/', tcell.ModAlt), gpucontext.KeySlash, gpucontext.ModAlt},
		{"ctrl", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModCtrl), gpucontext.KeyX, gpucontext.ModControl},
		{"function", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), gpucontext.KeyF5, 0},
		{"arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), gpucontext.KeyUp, gpucontext.ModShift},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), gpucontext.KeyBackspace, 0},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), gpucontext.KeyEnter, 0},
		{"meta", tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModMeta), gpucontext.KeyHome, gpucontext.ModSuper},
		{"unknown", tcell.NewEventKey(tcell.KeyRune, 'ß', tcell.ModNone), gpucontext.KeyUnknown, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, mods := translateKey(tt.ev)
			if key != tt.key || mods != tt.mods {
				t.Errorf("translateKey() = %d, %d, want %d, %d", key, mods, tt.key, tt.mods)
			}
		})
	}
}
