// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// RestartIndex terminates a strip or fan in an index list.
const RestartIndex uint16 = 0xFFFF

// MaxVertices is the largest number of vertices an indexed bucket can
// hold. RestartIndex is never a valid vertex index.
const MaxVertices = int(RestartIndex)

// Bucket holds the vertices of one primitive kind, plus indices for
// strips and fans.
type Bucket[V Vertex | UVVertex] struct {
	Vertices []V
	Indices  []uint16
}

// Len returns the number of vertices.
func (b *Bucket[V]) Len() int { return len(b.Vertices) }

func (b *Bucket[V]) reset() {
	b.Vertices = b.Vertices[:0]
	b.Indices = b.Indices[:0]
}

// Layer is one draw step of a frame: a primitive kind with its textured
// or untextured bucket. Exactly one of Vertices and UVVertices is used.
type Layer struct {
	Primitive  Primitive
	Textured   bool
	Vertices   []Vertex
	UVVertices []UVVertex
	Indices    []uint16
}

// Len returns the number of vertices in the layer.
func (l Layer) Len() int {
	if l.Textured {
		return len(l.UVVertices)
	}
	return len(l.Vertices)
}

// Empty reports whether the layer has nothing to draw.
func (l Layer) Empty() bool { return l.Len() == 0 }

// RenderOrder is the order in which layers are drawn.
var RenderOrder = [...]struct {
	Primitive Primitive
	Textured  bool
}{
	{TriangleFan, true},
	{TriangleFan, false},
	{TriangleStrip, true},
	{TriangleStrip, false},
	{Triangle, true},
	{Triangle, false},
	{LineStrip, true},
	{LineStrip, false},
	{Line, true},
	{Line, false},
	{Point, true},
	{Point, false},
}

// LayerCount is the number of layers in a frame.
const LayerCount = len(RenderOrder)

// Batch accumulates the primitives of one frame.
type Batch struct {
	// ClearColor fills the target before any layer is drawn.
	ClearColor gputypes.Color

	plain    [primitiveCount]Bucket[Vertex]
	textured [primitiveCount]Bucket[UVVertex]
}

// New creates an empty batch with an opaque black clear color.
func New() *Batch {
	b := &Batch{}
	b.Clear()
	return b
}

// Clear removes all primitives and resets the clear color to opaque
// black. Backing storage is kept for reuse.
func (b *Batch) Clear() {
	b.ClearColor = gputypes.Color{A: 1}
	for i := range b.plain {
		b.plain[i].reset()
		b.textured[i].reset()
	}
}

// SetClearColor sets the color the frame is cleared to.
func (b *Batch) SetClearColor(c gputypes.Color) {
	b.ClearColor = c
}

// Empty reports whether no primitives have been added.
func (b *Batch) Empty() bool {
	return b.VertexCount() == 0
}

// VertexCount returns the total number of vertices in all buckets.
func (b *Batch) VertexCount() int {
	n := 0
	for i := range b.plain {
		n += len(b.plain[i].Vertices) + len(b.textured[i].Vertices)
	}
	return n
}

// Untextured returns the untextured bucket for p.
func (b *Batch) Untextured(p Primitive) *Bucket[Vertex] {
	return &b.plain[p]
}

// Textured returns the textured bucket for p.
func (b *Batch) Textured(p Primitive) *Bucket[UVVertex] {
	return &b.textured[p]
}

// Layers returns every layer in RenderOrder, including empty ones.
// The returned slices alias the batch and are valid until it changes.
func (b *Batch) Layers() [LayerCount]Layer {
	var layers [LayerCount]Layer
	for i, o := range RenderOrder {
		l := Layer{Primitive: o.Primitive, Textured: o.Textured}
		if o.Textured {
			l.UVVertices = b.textured[o.Primitive].Vertices
			l.Indices = b.textured[o.Primitive].Indices
		} else {
			l.Vertices = b.plain[o.Primitive].Vertices
			l.Indices = b.plain[o.Primitive].Indices
		}
		layers[i] = l
	}
	return layers
}

// Point adds an untextured point.
func (b *Batch) Point(v Vertex) {
	b.plain[Point].Vertices = append(b.plain[Point].Vertices, v)
}

// Line adds an untextured line segment.
func (b *Batch) Line(v [2]Vertex) {
	b.plain[Line].Vertices = append(b.plain[Line].Vertices, v[:]...)
}

// Triangle adds an untextured triangle.
func (b *Batch) Triangle(v [3]Vertex) {
	b.plain[Triangle].Vertices = append(b.plain[Triangle].Vertices, v[:]...)
}

// LineStrip adds an untextured line strip. It panics with fewer than
// two vertices.
func (b *Batch) LineStrip(vs ...Vertex) {
	appendIndexed(&b.plain[LineStrip], LineStrip, vs)
}

// TriangleStrip adds an untextured triangle strip. It panics with fewer
// than three vertices.
func (b *Batch) TriangleStrip(vs ...Vertex) {
	appendIndexed(&b.plain[TriangleStrip], TriangleStrip, vs)
}

// TriangleFan adds an untextured triangle fan around vs[0]. It panics
// with fewer than three vertices.
func (b *Batch) TriangleFan(vs ...Vertex) {
	appendIndexed(&b.plain[TriangleFan], TriangleFan, vs)
}

// PointUV adds a textured point.
func (b *Batch) PointUV(v UVVertex) {
	b.textured[Point].Vertices = append(b.textured[Point].Vertices, v)
}

// LineUV adds a textured line segment.
func (b *Batch) LineUV(v [2]UVVertex) {
	b.textured[Line].Vertices = append(b.textured[Line].Vertices, v[:]...)
}

// TriangleUV adds a textured triangle.
func (b *Batch) TriangleUV(v [3]UVVertex) {
	b.textured[Triangle].Vertices = append(b.textured[Triangle].Vertices, v[:]...)
}

// LineStripUV adds a textured line strip. It panics with fewer than two
// vertices.
func (b *Batch) LineStripUV(vs ...UVVertex) {
	appendIndexed(&b.textured[LineStrip], LineStrip, vs)
}

// TriangleStripUV adds a textured triangle strip. It panics with fewer
// than three vertices.
func (b *Batch) TriangleStripUV(vs ...UVVertex) {
	appendIndexed(&b.textured[TriangleStrip], TriangleStrip, vs)
}

// TriangleFanUV adds a textured triangle fan around vs[0]. It panics
// with fewer than three vertices.
func (b *Batch) TriangleFanUV(vs ...UVVertex) {
	appendIndexed(&b.textured[TriangleFan], TriangleFan, vs)
}

// Quad adds an untextured axis-aligned rectangle as two triangles.
func (b *Batch) Quad(x, y, w, h float32, c Color) {
	b.Triangle([3]Vertex{V(x, y, c), V(x+w, y, c), V(x, y+h, c)})
	b.Triangle([3]Vertex{V(x+w, y, c), V(x+w, y+h, c), V(x, y+h, c)})
}

// QuadUV adds a textured axis-aligned rectangle mapping the atlas
// region (u0, v0)-(u1, v1).
func (b *Batch) QuadUV(x, y, w, h, u0, v0, u1, v1 float32, c Color) {
	b.TriangleUV([3]UVVertex{UV(x, y, u0, v0, c), UV(x+w, y, u1, v0, c), UV(x, y+h, u0, v1, c)})
	b.TriangleUV([3]UVVertex{UV(x+w, y, u1, v0, c), UV(x+w, y+h, u1, v1, c), UV(x, y+h, u0, v1, c)})
}

// appendIndexed adds one strip or fan: its vertices, their sequential
// indices offset by the existing vertex count, and a restart sentinel.
func appendIndexed[V Vertex | UVVertex](b *Bucket[V], p Primitive, vs []V) {
	if len(vs) < p.Min() {
		panic(fmt.Sprintf("batch: %s needs at least %d vertices, got %d", p, p.Min(), len(vs)))
	}
	base := len(b.Vertices)
	if base+len(vs) > MaxVertices {
		panic(fmt.Sprintf("batch: %s bucket exceeds %d vertices", p, MaxVertices))
	}
	b.Vertices = append(b.Vertices, vs...)
	for i := range vs {
		b.Indices = append(b.Indices, uint16(base+i))
	}
	b.Indices = append(b.Indices, RestartIndex)
}
