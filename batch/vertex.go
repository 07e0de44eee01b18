// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package batch

import "image/color"

// Vertex is an untextured vertex: a position in window pixels and a
// straight-alpha color with components in [0, 1].
type Vertex struct {
	X, Y       float32
	R, G, B, A float32
}

// UVVertex is a textured vertex. U and V address the current atlas in
// normalized coordinates; the sampled texel is multiplied by the color.
type UVVertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

// Color is a straight-alpha color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Transparent = Color{}
)

// RGBA creates a Color from components in [0, 1].
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromColor converts a standard library color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float32(n.R) / 255,
		G: float32(n.G) / 255,
		B: float32(n.B) / 255,
		A: float32(n.A) / 255,
	}
}

// V creates an untextured vertex.
func V(x, y float32, c Color) Vertex {
	return Vertex{X: x, Y: y, R: c.R, G: c.G, B: c.B, A: c.A}
}

// UV creates a textured vertex.
func UV(x, y, u, v float32, c Color) UVVertex {
	return UVVertex{X: x, Y: y, U: u, V: v, R: c.R, G: c.G, B: c.B, A: c.A}
}

// Color returns the vertex color.
func (v Vertex) Color() Color { return Color{v.R, v.G, v.B, v.A} }

// Color returns the vertex color.
func (v UVVertex) Color() Color { return Color{v.R, v.G, v.B, v.A} }
