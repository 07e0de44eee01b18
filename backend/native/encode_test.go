// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/engine/batch"
)

func readFloat(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
}

func readIndices(b []byte, n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return out
}

func TestEncodeEmpty(t *testing.T) {
	var e encoding
	e.encode(batch.New())
	if len(e.draws) != 0 || len(e.vertices) != 0 || len(e.indices) != 0 {
		t.Errorf("encode(empty) = %d draws, %d vertex bytes, %d index bytes, want none",
			len(e.draws), len(e.vertices), len(e.indices))
	}
}

func TestEncodeVertexLayout(t *testing.T) {
	b := batch.New()
	b.Triangle([3]batch.Vertex{
		batch.V(1, 2, batch.RGBA(0.1, 0.2, 0.3, 0.4)),
		batch.V(3, 4, batch.White),
		batch.V(5, 6, batch.White),
	})
	b.PointUV(batch.UV(7, 8, 0.25, 0.75, batch.RGBA(1, 0, 0, 1)))

	var e encoding
	e.encode(b)

	if len(e.draws) != 2 {
		t.Fatalf("len(draws) = %d, want 2", len(e.draws))
	}
	tri, pt := e.draws[0], e.draws[1]
	if tri.textured || tri.slot != 3 || tri.count != 3 || tri.indexed {
		t.Errorf("triangle draw = %+v", tri)
	}
	if !pt.textured || pt.slot != 0 || pt.count != 1 {
		t.Errorf("point draw = %+v", pt)
	}
	if pt.vertexOffset != 3*plainStride {
		t.Errorf("point vertexOffset = %d, want %d", pt.vertexOffset, 3*plainStride)
	}
	if got, want := len(e.vertices), 3*plainStride+texturedStride; got != want {
		t.Fatalf("len(vertices) = %d, want %d", got, want)
	}

	want := []float32{1, 2, 0.1, 0.2, 0.3, 0.4}
	for i, w := range want {
		if got := readFloat(e.vertices, i); got != w {
			t.Errorf("vertex float %d = %v, want %v", i, got, w)
		}
	}
	uv := e.vertices[pt.vertexOffset:]
	wantUV := []float32{7, 8, 0.25, 0.75, 1, 0, 0, 1}
	for i, w := range wantUV {
		if got := readFloat(uv, i); got != w {
			t.Errorf("uv vertex float %d = %v, want %v", i, got, w)
		}
	}
}

func TestEncodeFanExpanded(t *testing.T) {
	b := batch.New()
	c := batch.White
	b.TriangleFan(batch.V(0, 0, c), batch.V(1, 0, c), batch.V(1, 1, c), batch.V(0, 1, c))

	var e encoding
	e.encode(b)

	if len(e.draws) != 1 {
		t.Fatalf("len(draws) = %d, want 1", len(e.draws))
	}
	d := e.draws[0]
	if !d.indexed || d.slot != 3 || d.count != 6 {
		t.Fatalf("fan draw = %+v, want indexed triangle list of 6", d)
	}
	got := readIndices(e.indices, 6)
	want := []uint16{0, 1, 2, 0, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fan indices = %v, want %v", got, want)
		}
	}
}

func TestEncodeStripKeepsRestart(t *testing.T) {
	b := batch.New()
	c := batch.White
	b.LineStrip(batch.V(0, 0, c), batch.V(1, 0, c))
	b.LineStrip(batch.V(0, 1, c), batch.V(1, 1, c), batch.V(2, 1, c))

	var e encoding
	e.encode(b)

	if len(e.draws) != 1 {
		t.Fatalf("len(draws) = %d, want 1", len(e.draws))
	}
	d := e.draws[0]
	if d.slot != 2 || d.count != 7 {
		t.Fatalf("strip draw = %+v, want line strip slot with 7 indices", d)
	}
	got := readIndices(e.indices, 7)
	want := []uint16{0, 1, batch.RestartIndex, 2, 3, 4, batch.RestartIndex}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("strip indices = %v, want %v", got, want)
		}
	}
}

func TestEncodeIndexAlignment(t *testing.T) {
	b := batch.New()
	c := batch.White
	// Both layers produce an odd number of indices.
	b.TriangleFan(batch.V(0, 0, c), batch.V(1, 0, c), batch.V(1, 1, c))
	b.LineStrip(batch.V(0, 0, c), batch.V(1, 0, c))

	var e encoding
	e.encode(b)

	for _, d := range e.draws {
		if d.indexed && d.indexOffset%4 != 0 {
			t.Errorf("draw %+v index offset not 4-byte aligned", d)
		}
	}
	if len(e.indices)%4 != 0 {
		t.Errorf("len(indices) = %d, want multiple of 4", len(e.indices))
	}
}

func TestEncodeRenderOrder(t *testing.T) {
	b := batch.New()
	c := batch.White
	b.Point(batch.V(0, 0, c))
	b.Quad(0, 0, 1, 1, c)
	b.TriangleFanUV(batch.UV(0, 0, 0, 0, c), batch.UV(1, 0, 1, 0, c), batch.UV(1, 1, 1, 1, c))

	var e encoding
	e.encode(b)

	if len(e.draws) != 3 {
		t.Fatalf("len(draws) = %d, want 3", len(e.draws))
	}
	if !e.draws[0].textured || !e.draws[0].indexed {
		t.Errorf("draws[0] = %+v, want textured fan first", e.draws[0])
	}
	if e.draws[1].slot != 3 || e.draws[1].textured {
		t.Errorf("draws[1] = %+v, want untextured triangles", e.draws[1])
	}
	if e.draws[2].slot != 0 {
		t.Errorf("draws[2] = %+v, want points last", e.draws[2])
	}
}

func TestViewportUniform(t *testing.T) {
	u := viewportUniform(640, 480)
	if len(u) != uniformSize {
		t.Fatalf("len(viewportUniform) = %d, want %d", len(u), uniformSize)
	}
	if readFloat(u, 0) != 640 || readFloat(u, 1) != 480 {
		t.Errorf("viewportUniform = %v, %v, want 640, 480", readFloat(u, 0), readFloat(u, 1))
	}
}
