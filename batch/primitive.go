// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package batch

// Primitive identifies a kind of draw primitive.
type Primitive uint8

// Primitive kinds.
const (
	Point Primitive = iota
	Line
	Triangle
	LineStrip
	TriangleStrip
	TriangleFan

	primitiveCount = iota
)

var primitiveNames = [primitiveCount]string{
	Point:         "point",
	Line:          "line",
	Triangle:      "triangle",
	LineStrip:     "line strip",
	TriangleStrip: "triangle strip",
	TriangleFan:   "triangle fan",
}

// String returns the primitive name.
func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "unknown"
}

// Min returns the minimum number of vertices one primitive of this kind
// takes.
func (p Primitive) Min() int {
	switch p {
	case Point:
		return 1
	case Line, LineStrip:
		return 2
	default:
		return 3
	}
}

// Indexed reports whether the primitive uses an index list with
// restart sentinels.
func (p Primitive) Indexed() bool {
	return p == LineStrip || p == TriangleStrip || p == TriangleFan
}
