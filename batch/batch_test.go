// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"image/color"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"
)

func verts(n int) []Vertex {
	vs := make([]Vertex, n)
	for i := range vs {
		vs[i] = V(float32(i), float32(i*2), White)
	}
	return vs
}

func TestNewClearColor(t *testing.T) {
	b := New()
	want := gputypes.Color{R: 0, G: 0, B: 0, A: 1}
	if b.ClearColor != want {
		t.Errorf("ClearColor = %+v, want %+v", b.ClearColor, want)
	}
	if !b.Empty() {
		t.Error("new batch should be empty")
	}
}

func TestFixedArityPrimitives(t *testing.T) {
	b := New()
	b.Point(V(1, 2, White))
	b.Line([2]Vertex{V(0, 0, White), V(1, 1, White)})
	b.Triangle([3]Vertex{V(0, 0, White), V(1, 0, White), V(0, 1, White)})

	if got := b.Untextured(Point).Len(); got != 1 {
		t.Errorf("points = %d, want 1", got)
	}
	if got := b.Untextured(Line).Len(); got != 2 {
		t.Errorf("line vertices = %d, want 2", got)
	}
	if got := b.Untextured(Triangle).Len(); got != 3 {
		t.Errorf("triangle vertices = %d, want 3", got)
	}
	if got := b.VertexCount(); got != 6 {
		t.Errorf("VertexCount() = %d, want 6", got)
	}
	for _, p := range []Primitive{Point, Line, Triangle} {
		if n := len(b.Untextured(p).Indices); n != 0 {
			t.Errorf("%s indices = %d, want 0", p, n)
		}
	}
}

func TestStripIndicesCompose(t *testing.T) {
	tests := []struct {
		name string
		add  func(b *Batch, vs []Vertex)
		prim Primitive
	}{
		{"line strip", func(b *Batch, vs []Vertex) { b.LineStrip(vs...) }, LineStrip},
		{"triangle strip", func(b *Batch, vs []Vertex) { b.TriangleStrip(vs...) }, TriangleStrip},
		{"triangle fan", func(b *Batch, vs []Vertex) { b.TriangleFan(vs...) }, TriangleFan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			first := verts(4)
			second := verts(3)
			tt.add(b, first)
			tt.add(b, second)

			bucket := b.Untextured(tt.prim)
			wantIdx := []uint16{0, 1, 2, 3, RestartIndex, 4, 5, 6, RestartIndex}
			if !slices.Equal(bucket.Indices, wantIdx) {
				t.Errorf("Indices = %v, want %v", bucket.Indices, wantIdx)
			}
			wantVerts := append(slices.Clone(first), second...)
			if !slices.Equal(bucket.Vertices, wantVerts) {
				t.Errorf("Vertices = %v, want %v", bucket.Vertices, wantVerts)
			}
		})
	}
}

func TestTexturedStripRoundTrip(t *testing.T) {
	b := New()
	uv := []UVVertex{
		UV(0, 0, 0, 0, White),
		UV(10, 0, 1, 0, White),
		UV(10, 10, 1, 1, White),
	}
	b.TriangleFanUV(uv...)

	bucket := b.Textured(TriangleFan)
	if !slices.Equal(bucket.Vertices, uv) {
		t.Errorf("Vertices = %v, want %v", bucket.Vertices, uv)
	}
	if want := []uint16{0, 1, 2, RestartIndex}; !slices.Equal(bucket.Indices, want) {
		t.Errorf("Indices = %v, want %v", bucket.Indices, want)
	}
	if b.Untextured(TriangleFan).Len() != 0 {
		t.Error("textured fan leaked into untextured bucket")
	}
}

func TestMinimumVertexPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(b *Batch)
	}{
		{"line strip 1", func(b *Batch) { b.LineStrip(verts(1)...) }},
		{"line strip 0", func(b *Batch) { b.LineStrip() }},
		{"triangle strip 2", func(b *Batch) { b.TriangleStrip(verts(2)...) }},
		{"triangle fan 2", func(b *Batch) { b.TriangleFan(verts(2)...) }},
		{"textured fan 2", func(b *Batch) { b.TriangleFanUV(UVVertex{}, UVVertex{}) }},
		{"textured line strip 1", func(b *Batch) { b.LineStripUV(UVVertex{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
				if !b.Empty() {
					t.Error("rejected primitive modified the batch")
				}
			}()
			tt.fn(b)
		})
	}
}

func TestMinimumVertexAccepted(t *testing.T) {
	b := New()
	b.LineStrip(verts(2)...)
	b.TriangleStrip(verts(3)...)
	b.TriangleFan(verts(3)...)
	if got := b.VertexCount(); got != 8 {
		t.Errorf("VertexCount() = %d, want 8", got)
	}
}

func TestBucketOverflowPanics(t *testing.T) {
	b := New()
	b.LineStrip(verts(MaxVertices - 1)...)
	defer func() {
		if recover() == nil {
			t.Error("expected overflow panic")
		}
	}()
	b.LineStrip(verts(2)...)
}

func TestClearResets(t *testing.T) {
	b := New()
	b.SetClearColor(gputypes.Color{R: 1, G: 0.5, B: 0.25, A: 1})
	b.TriangleStrip(verts(5)...)
	b.PointUV(UVVertex{})
	b.Clear()

	if !b.Empty() {
		t.Error("batch not empty after Clear")
	}
	if len(b.Untextured(TriangleStrip).Indices) != 0 {
		t.Error("indices survived Clear")
	}
	if b.ClearColor != (gputypes.Color{A: 1}) {
		t.Errorf("ClearColor = %+v, want opaque black", b.ClearColor)
	}

	// Index base restarts from zero.
	b.LineStrip(verts(2)...)
	if want := []uint16{0, 1, RestartIndex}; !slices.Equal(b.Untextured(LineStrip).Indices, want) {
		t.Errorf("Indices = %v, want %v", b.Untextured(LineStrip).Indices, want)
	}
}

func TestLayersOrder(t *testing.T) {
	b := New()
	b.Point(V(0, 0, White))
	b.TriangleFanUV(UVVertex{}, UVVertex{}, UVVertex{})

	layers := b.Layers()
	want := []struct {
		p        Primitive
		textured bool
	}{
		{TriangleFan, true}, {TriangleFan, false},
		{TriangleStrip, true}, {TriangleStrip, false},
		{Triangle, true}, {Triangle, false},
		{LineStrip, true}, {LineStrip, false},
		{Line, true}, {Line, false},
		{Point, true}, {Point, false},
	}
	for i, w := range want {
		if layers[i].Primitive != w.p || layers[i].Textured != w.textured {
			t.Errorf("layer %d = %s/%v, want %s/%v", i, layers[i].Primitive, layers[i].Textured, w.p, w.textured)
		}
	}

	if layers[0].Len() != 3 || len(layers[0].Indices) != 4 {
		t.Errorf("first layer = %d vertices %d indices, want 3 and 4", layers[0].Len(), len(layers[0].Indices))
	}
	if layers[LayerCount-1].Len() != 1 {
		t.Errorf("last layer Len() = %d, want 1", layers[LayerCount-1].Len())
	}
	for i := 1; i < LayerCount-1; i++ {
		if !layers[i].Empty() {
			t.Errorf("layer %d should be empty", i)
		}
	}
}

func TestQuad(t *testing.T) {
	b := New()
	b.Quad(0, 0, 10, 20, White)
	b.QuadUV(0, 0, 10, 20, 0, 0, 1, 1, White)
	if got := b.Untextured(Triangle).Len(); got != 6 {
		t.Errorf("Quad vertices = %d, want 6", got)
	}
	if got := b.Textured(Triangle).Len(); got != 6 {
		t.Errorf("QuadUV vertices = %d, want 6", got)
	}
}

func TestFromColor(t *testing.T) {
	c := FromColor(color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	if c.R != 1 || c.G != 0 || c.A != 1 {
		t.Errorf("FromColor() = %+v", c)
	}
	if c.B < 0.19 || c.B > 0.21 {
		t.Errorf("FromColor().B = %v, want 0.2", c.B)
	}
}

func TestPrimitiveString(t *testing.T) {
	if TriangleFan.String() != "triangle fan" {
		t.Errorf("String() = %q", TriangleFan.String())
	}
	if Primitive(99).String() != "unknown" {
		t.Errorf("String() = %q, want unknown", Primitive(99).String())
	}
}
