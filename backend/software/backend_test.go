// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/engine/batch"
	"github.com/gogpu/engine/render"
	"github.com/gogpu/engine/texture"
)

// testWindow is a window that keeps the last presented frame.
type testWindow struct {
	w, h   int
	last   *image.RGBA
	frames int
}

func (w *testWindow) Size() (int, int)     { return w.w, w.h }
func (w *testWindow) ScaleFactor() float64 { return 1 }
func (w *testWindow) RequestRedraw()       {}

func (w *testWindow) PresentImage(img *image.RGBA) error {
	w.last = image.NewRGBA(img.Rect)
	copy(w.last.Pix, img.Pix)
	w.frames++
	return nil
}

func renderOnce(t *testing.T, w *testWindow, b *batch.Batch, atlas *texture.Texture) {
	t.Helper()
	r, err := render.NewRenderer(New(w), w, true)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	defer r.Close()
	if atlas != nil {
		if err := r.UpdateAtlas(atlas); err != nil {
			t.Fatalf("UpdateAtlas() error = %v", err)
		}
	}
	if err := r.Render(b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if w.last == nil {
		t.Fatal("no frame presented")
	}
}

var (
	red   = batch.RGBA(1, 0, 0, 1)
	green = batch.RGBA(0, 1, 0, 1)
	blue  = batch.RGBA(0, 0, 1, 1)
)

func TestClearColor(t *testing.T) {
	w := &testWindow{w: 8, h: 4}
	b := batch.New()
	b.SetClearColor(gputypes.Color{R: 0, G: 0, B: 1, A: 1})
	renderOnce(t, w, b, nil)

	if got := w.last.RGBAAt(7, 3); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel = %v, want blue", got)
	}
	if w.last.Bounds().Dx() != 8 || w.last.Bounds().Dy() != 4 {
		t.Errorf("frame size = %v, want 8x4", w.last.Bounds())
	}
}

func TestTriangleCoverage(t *testing.T) {
	w := &testWindow{w: 32, h: 32}
	b := batch.New()
	b.Triangle([3]batch.Vertex{batch.V(0, 0, red), batch.V(32, 0, red), batch.V(0, 32, red)})
	renderOnce(t, w, b, nil)

	if got := w.last.RGBAAt(4, 4); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside pixel = %v, want red", got)
	}
	if got := w.last.RGBAAt(30, 30); got != (color.RGBA{A: 255}) {
		t.Errorf("outside pixel = %v, want black", got)
	}
}

func TestVertexColorInterpolation(t *testing.T) {
	w := &testWindow{w: 64, h: 8}
	b := batch.New()
	b.TriangleStrip(
		batch.V(0, 0, red), batch.V(0, 8, red),
		batch.V(64, 0, blue), batch.V(64, 8, blue),
	)
	renderOnce(t, w, b, nil)

	left := w.last.RGBAAt(1, 4)
	right := w.last.RGBAAt(62, 4)
	if left.R < 200 || left.B > 55 {
		t.Errorf("left pixel = %v, want mostly red", left)
	}
	if right.B < 200 || right.R > 55 {
		t.Errorf("right pixel = %v, want mostly blue", right)
	}
	mid := w.last.RGBAAt(36, 4)
	if mid.R < 90 || mid.B < 90 {
		t.Errorf("middle pixel = %v, want a red/blue blend", mid)
	}
}

func TestLayerOrder(t *testing.T) {
	w := &testWindow{w: 16, h: 16}
	b := batch.New()
	b.Triangle([3]batch.Vertex{batch.V(0, 0, green), batch.V(16, 0, green), batch.V(0, 16, green)})
	// Added last but drawn under the triangle: fans come first.
	b.TriangleFan(batch.V(0, 0, red), batch.V(16, 0, red), batch.V(16, 16, red), batch.V(0, 16, red))
	renderOnce(t, w, b, nil)

	if got := w.last.RGBAAt(2, 2); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("overlap pixel = %v, want green on top", got)
	}
	if got := w.last.RGBAAt(14, 3); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("fan-only pixel = %v, want red", got)
	}
}

func TestTexturedQuad(t *testing.T) {
	atlas := texture.New(2, 1)
	atlas.Set(0, 0, color.NRGBA{R: 255, A: 255})
	atlas.Set(1, 0, color.NRGBA{G: 255, A: 255})

	w := &testWindow{w: 20, h: 10}
	b := batch.New()
	b.QuadUV(0, 0, 20, 10, 0, 0, 1, 1, batch.White)
	renderOnce(t, w, b, atlas)

	if got := w.last.RGBAAt(3, 5); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("left texel = %v, want red", got)
	}
	if got := w.last.RGBAAt(16, 5); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("right texel = %v, want green", got)
	}
}

func TestPointsAndLines(t *testing.T) {
	w := &testWindow{w: 10, h: 10}
	b := batch.New()
	b.Point(batch.V(2.5, 2.5, red))
	b.Line([2]batch.Vertex{batch.V(0, 7.5, green), batch.V(10, 7.5, green)})
	b.LineStrip(batch.V(5.5, 0, blue), batch.V(5.5, 5, blue))
	renderOnce(t, w, b, nil)

	if got := w.last.RGBAAt(2, 2); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("point pixel = %v, want red", got)
	}
	if got := w.last.RGBAAt(4, 7); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("line pixel = %v, want green", got)
	}
	if got := w.last.RGBAAt(5, 2); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("line strip pixel = %v, want blue", got)
	}
	if got := w.last.RGBAAt(8, 2); got != (color.RGBA{A: 255}) {
		t.Errorf("empty pixel = %v, want black", got)
	}
}

func TestInjectedOutOfDateRecovers(t *testing.T) {
	w := &testWindow{w: 4, h: 4}
	be := New(w)
	r, err := render.NewRenderer(be, w, true)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	be.InjectOutOfDate(3)
	if err := r.Render(batch.New()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := r.Stats().Retries; got != 3 {
		t.Errorf("Retries = %d, want 3", got)
	}

	be.InjectPresentOutOfDate(100)
	if err := r.Render(batch.New()); !errors.Is(err, render.ErrRetriesExhausted) {
		t.Errorf("Render() error = %v, want ErrRetriesExhausted", err)
	}
}

func TestResizeDetected(t *testing.T) {
	w := &testWindow{w: 4, h: 4}
	be := New(w)
	r, err := render.NewRenderer(be, w, false)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := r.Render(batch.New()); err != nil {
		t.Fatal(err)
	}
	w.w, w.h = 6, 3
	if err := r.Render(batch.New()); err != nil {
		t.Fatal(err)
	}
	if got := w.last.Bounds(); got.Dx() != 6 || got.Dy() != 3 {
		t.Errorf("frame = %v, want 6x3", got)
	}
	if got := r.Ring().Config().PresentMode; got != gputypes.PresentModeImmediate {
		t.Errorf("present mode = %v, want Immediate", got)
	}
}
