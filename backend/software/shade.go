// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"image"
	"image/color"

	"github.com/gogpu/engine/texture"
)

// vertex is a batch vertex with optional texture coordinates.
type vertex struct {
	x, y       float32
	u, v       float32
	r, g, b, a float32
}

// infinite covers any pixel a shader is asked for.
var infinite = image.Rect(-1<<30, -1<<30, 1<<30, 1<<30)

// shader is an image.Image whose color at a pixel is interpolated from
// up to three vertices. One vertex gives a constant, two interpolate
// along a segment and three interpolate barycentrically.
type shader struct {
	n     int
	v     [3]vertex
	atlas *texture.Texture

	// Triangle setup.
	det float32

	// Segment setup.
	dx, dy, len2 float32
}

func newShader(atlas *texture.Texture, vs ...vertex) *shader {
	s := &shader{n: len(vs), atlas: atlas}
	copy(s.v[:], vs)
	switch s.n {
	case 2:
		s.dx = vs[1].x - vs[0].x
		s.dy = vs[1].y - vs[0].y
		s.len2 = s.dx*s.dx + s.dy*s.dy
	case 3:
		s.det = (vs[1].y-vs[2].y)*(vs[0].x-vs[2].x) + (vs[2].x-vs[1].x)*(vs[0].y-vs[2].y)
	}
	return s
}

// uniform reports whether the shader produces one color everywhere, and
// that color.
func (s *shader) uniform() (color.RGBA64, bool) {
	if s.atlas != nil {
		return color.RGBA64{}, false
	}
	for i := 1; i < s.n; i++ {
		if s.v[i].r != s.v[0].r || s.v[i].g != s.v[0].g || s.v[i].b != s.v[0].b || s.v[i].a != s.v[0].a {
			return color.RGBA64{}, false
		}
	}
	return premultiply(s.v[0].r, s.v[0].g, s.v[0].b, s.v[0].a), true
}

func (s *shader) ColorModel() color.Model  { return color.RGBA64Model }
func (s *shader) Bounds() image.Rectangle { return infinite }

// At samples the shader at the center of pixel (x, y).
func (s *shader) At(x, y int) color.Color {
	px, py := float32(x)+0.5, float32(y)+0.5
	var w [3]float32

	switch s.n {
	case 1:
		w[0] = 1
	case 2:
		t := float32(0)
		if s.len2 > 0 {
			t = clamp01(((px-s.v[0].x)*s.dx + (py-s.v[0].y)*s.dy) / s.len2)
		}
		w[0], w[1] = 1-t, t
	case 3:
		if s.det == 0 {
			w[0] = 1
			break
		}
		v0, v1, v2 := s.v[0], s.v[1], s.v[2]
		w[0] = clamp01(((v1.y-v2.y)*(px-v2.x) + (v2.x-v1.x)*(py-v2.y)) / s.det)
		w[1] = clamp01(((v2.y-v0.y)*(px-v2.x) + (v0.x-v2.x)*(py-v2.y)) / s.det)
		w[2] = clamp01(1 - w[0] - w[1])
		if sum := w[0] + w[1] + w[2]; sum > 0 {
			w[0], w[1], w[2] = w[0]/sum, w[1]/sum, w[2]/sum
		}
	}

	var r, g, b, a, u, v float32
	for i := 0; i < s.n; i++ {
		vi := &s.v[i]
		r += w[i] * vi.r
		g += w[i] * vi.g
		b += w[i] * vi.b
		a += w[i] * vi.a
		u += w[i] * vi.u
		v += w[i] * vi.v
	}

	if s.atlas != nil {
		tr, tg, tb, ta := sample(s.atlas, u, v)
		r, g, b, a = r*tr, g*tg, b*tb, a*ta
	}
	return premultiply(r, g, b, a)
}

// sample returns the atlas texel nearest to (u, v) as straight-alpha
// components in [0, 1].
func sample(t *texture.Texture, u, v float32) (r, g, b, a float32) {
	x := int(clamp01(u) * float32(t.Width))
	y := int(clamp01(v) * float32(t.Height))
	x = min(x, t.Width-1)
	y = min(y, t.Height-1)
	c := t.At(x, y)
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

func premultiply(r, g, b, a float32) color.RGBA64 {
	a = clamp01(a)
	return color.RGBA64{
		R: uint16(clamp01(r)*a*0xffff + 0.5),
		G: uint16(clamp01(g)*a*0xffff + 0.5),
		B: uint16(clamp01(b)*a*0xffff + 0.5),
		A: uint16(a*0xffff + 0.5),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
