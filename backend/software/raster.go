// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/engine/batch"
	"github.com/gogpu/engine/texture"
)

// rasterizer draws batch layers into an RGBA image.
type rasterizer struct {
	z       *vector.Rasterizer
	verts   []vertex
	scratch []uint16
}

func newRasterizer() *rasterizer {
	return &rasterizer{z: vector.NewRasterizer(1, 1)}
}

// draw clears dst to the batch clear color and draws every layer.
func (r *rasterizer) draw(dst *image.RGBA, b *batch.Batch, atlas *texture.Texture) {
	clearTo(dst, b.ClearColor)

	for _, l := range b.Layers() {
		if l.Empty() {
			continue
		}
		var tex *texture.Texture
		if l.Textured {
			tex = atlas
		}
		vs := r.vertices(l)

		switch l.Primitive {
		case batch.Point:
			for _, v := range vs {
				r.point(dst, v, tex)
			}
		case batch.Line:
			for i := 0; i+1 < len(vs); i += 2 {
				r.line(dst, vs[i], vs[i+1], tex)
			}
		case batch.Triangle:
			for i := 0; i+2 < len(vs); i += 3 {
				r.triangle(dst, vs[i], vs[i+1], vs[i+2], tex)
			}
		case batch.LineStrip:
			r.scratch = batch.StripSegments(r.scratch[:0], l.Indices)
			for i := 0; i+1 < len(r.scratch); i += 2 {
				r.line(dst, vs[r.scratch[i]], vs[r.scratch[i+1]], tex)
			}
		case batch.TriangleStrip, batch.TriangleFan:
			if l.Primitive == batch.TriangleStrip {
				r.scratch = batch.StripTriangles(r.scratch[:0], l.Indices)
			} else {
				r.scratch = batch.FanTriangles(r.scratch[:0], l.Indices)
			}
			for i := 0; i+2 < len(r.scratch); i += 3 {
				r.triangle(dst, vs[r.scratch[i]], vs[r.scratch[i+1]], vs[r.scratch[i+2]], tex)
			}
		}
	}
}

// vertices converts a layer's vertices into the shared internal form.
func (r *rasterizer) vertices(l batch.Layer) []vertex {
	r.verts = r.verts[:0]
	if l.Textured {
		for _, v := range l.UVVertices {
			r.verts = append(r.verts, vertex{x: v.X, y: v.Y, u: v.U, v: v.V, r: v.R, g: v.G, b: v.B, a: v.A})
		}
	} else {
		for _, v := range l.Vertices {
			r.verts = append(r.verts, vertex{x: v.X, y: v.Y, r: v.R, g: v.G, b: v.B, a: v.A})
		}
	}
	return r.verts
}

func (r *rasterizer) point(dst *image.RGBA, v vertex, tex *texture.Texture) {
	x, y := v.x, v.y
	r.fill(dst, newShader(tex, v), [][2]float32{
		{x - 0.5, y - 0.5}, {x + 0.5, y - 0.5}, {x + 0.5, y + 0.5}, {x - 0.5, y + 0.5},
	})
}

func (r *rasterizer) line(dst *image.RGBA, a, b vertex, tex *texture.Texture) {
	dx, dy := b.x-a.x, b.y-a.y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		r.point(dst, a, tex)
		return
	}
	// Half-pixel normal.
	nx, ny := -dy/length*0.5, dx/length*0.5
	r.fill(dst, newShader(tex, a, b), [][2]float32{
		{a.x + nx, a.y + ny}, {b.x + nx, b.y + ny}, {b.x - nx, b.y - ny}, {a.x - nx, a.y - ny},
	})
}

func (r *rasterizer) triangle(dst *image.RGBA, a, b, c vertex, tex *texture.Texture) {
	r.fill(dst, newShader(tex, a, b, c), [][2]float32{{a.x, a.y}, {b.x, b.y}, {c.x, c.y}})
}

// fill rasterizes the polygon pts over dst, colored by s.
func (r *rasterizer) fill(dst *image.RGBA, s *shader, pts [][2]float32) {
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, p := range pts {
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}

	bounds := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	).Intersect(dst.Bounds())
	if bounds.Empty() {
		return
	}

	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	r.z.Reset(bounds.Dx(), bounds.Dy())
	r.z.DrawOp = draw.Over
	r.z.MoveTo(pts[0][0]-ox, pts[0][1]-oy)
	for _, p := range pts[1:] {
		r.z.LineTo(p[0]-ox, p[1]-oy)
	}
	r.z.ClosePath()

	var src image.Image = s
	if c, ok := s.uniform(); ok {
		src = image.NewUniform(c)
	}
	r.z.Draw(dst, bounds, src, bounds.Min)
}

// clearTo fills dst with c.
func clearTo(dst *image.RGBA, c gputypes.Color) {
	fill := premultiply(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
}
