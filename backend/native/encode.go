// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/engine/batch"
)

// Vertex strides in bytes.
//
//	plain:    position (vec2<f32>) + color (vec4<f32>)             = 24
//	textured: position (vec2<f32>) + uv (vec2<f32>) + color (vec4) = 32
const (
	plainStride    = 24
	texturedStride = 32
)

// uniformSize is the size of the viewport uniform: vec4<f32>.
const uniformSize = 16

// topologies lists the pipeline topologies in pipeline table order.
var topologies = [...]gputypes.PrimitiveTopology{
	gputypes.PrimitiveTopologyPointList,
	gputypes.PrimitiveTopologyLineList,
	gputypes.PrimitiveTopologyLineStrip,
	gputypes.PrimitiveTopologyTriangleList,
	gputypes.PrimitiveTopologyTriangleStrip,
}

// topologySlot returns the pipeline table slot drawing p. Fans are
// expanded to triangle lists before upload.
func topologySlot(p batch.Primitive) int {
	switch p {
	case batch.Point:
		return 0
	case batch.Line:
		return 1
	case batch.LineStrip:
		return 2
	case batch.TriangleStrip:
		return 4
	default:
		return 3
	}
}

// draw is one recorded draw call.
type draw struct {
	slot     int
	textured bool

	vertexOffset uint64
	indexOffset  uint64

	// count is the index count if indexed, else the vertex count.
	count   uint32
	indexed bool
}

// encoding is the upload form of a batch: one vertex stream, one index
// stream and the draws referencing them.
type encoding struct {
	vertices []byte
	indices  []byte
	draws    []draw

	fan []uint16
}

func (e *encoding) reset() {
	e.vertices = e.vertices[:0]
	e.indices = e.indices[:0]
	e.draws = e.draws[:0]
}

// encode appends every non-empty layer of b in render order.
func (e *encoding) encode(b *batch.Batch) {
	e.reset()
	for _, l := range b.Layers() {
		if l.Empty() {
			continue
		}
		d := draw{
			slot:         topologySlot(l.Primitive),
			textured:     l.Textured,
			vertexOffset: uint64(len(e.vertices)),
		}
		if l.Textured {
			for _, v := range l.UVVertices {
				e.vertices = appendFloats(e.vertices, v.X, v.Y, v.U, v.V, v.R, v.G, v.B, v.A)
			}
		} else {
			for _, v := range l.Vertices {
				e.vertices = appendFloats(e.vertices, v.X, v.Y, v.R, v.G, v.B, v.A)
			}
		}

		if l.Primitive.Indexed() {
			indices := l.Indices
			if l.Primitive == batch.TriangleFan {
				e.fan = batch.FanTriangles(e.fan[:0], indices)
				indices = e.fan
			}
			if len(indices) == 0 {
				continue
			}
			d.indexed = true
			d.indexOffset = uint64(len(e.indices))
			d.count = uint32(len(indices))
			for _, idx := range indices {
				e.indices = binary.LittleEndian.AppendUint16(e.indices, idx)
			}
			// Index offsets must stay 4-byte aligned.
			if len(e.indices)%4 != 0 {
				e.indices = append(e.indices, 0, 0)
			}
		} else {
			d.count = uint32(l.Len())
		}
		e.draws = append(e.draws, d)
	}
}

func appendFloats(dst []byte, fs ...float32) []byte {
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// viewportUniform returns the uniform data for a w x h target.
func viewportUniform(w, h uint32) []byte {
	return appendFloats(make([]byte, 0, uniformSize), float32(w), float32(h), 0, 0)
}
