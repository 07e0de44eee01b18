// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package text

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/engine/batch"
	"github.com/gogpu/engine/texture"
)

// DefaultAtlasSize is the width and height of the atlas a face creates
// for itself.
const DefaultAtlasSize = 512

// Fallback is drawn in place of runes the face does not have.
const Fallback = '?'

// glyph is one rasterized rune. Offsets are relative to the pen
// position on the baseline.
type glyph struct {
	region  texture.Region
	offX    float32
	offY    float32
	advance float32
	visible bool
}

// Option configures a Face.
type Option func(*options)

type options struct {
	atlas *texture.Atlas
	runes []rune
}

// WithAtlas places glyphs in a shared atlas instead of a new one.
func WithAtlas(a *texture.Atlas) Option {
	return func(o *options) { o.atlas = a }
}

// WithRunes adds runes to rasterize besides printable ASCII.
func WithRunes(runes ...rune) Option {
	return func(o *options) { o.runes = append(o.runes, runes...) }
}

// Face is a rasterized font ready to draw.
//
// A Face may be used by one goroutine at a time.
type Face struct {
	src    font.Face
	atlas  *texture.Atlas
	glyphs map[rune]glyph

	ascent     float32
	lineHeight float32
}

// NewFace rasterizes printable ASCII, the fallback rune and any runes
// added with WithRunes. Runes missing from f are skipped.
func NewFace(f font.Face, opts ...Option) (*Face, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.atlas == nil {
		o.atlas = texture.NewAtlas(DefaultAtlasSize, DefaultAtlasSize)
	}

	m := f.Metrics()
	face := &Face{
		src:        f,
		atlas:      o.atlas,
		glyphs:     make(map[rune]glyph),
		ascent:     float32(m.Ascent.Ceil()),
		lineHeight: float32(m.Height.Ceil()),
	}

	runes := make([]rune, 0, 0x7f-0x20+len(o.runes))
	for r := rune(0x20); r < 0x7f; r++ {
		runes = append(runes, r)
	}
	runes = append(runes, o.runes...)
	for _, r := range runes {
		if _, ok := face.glyphs[r]; ok {
			continue
		}
		if err := face.add(r); err != nil {
			return nil, err
		}
	}
	if _, ok := face.glyphs[Fallback]; !ok {
		return nil, fmt.Errorf("text: font has no fallback glyph %q", Fallback)
	}
	return face, nil
}

func (f *Face) add(r rune) error {
	dr, mask, maskp, advance, ok := f.src.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil
	}
	g := glyph{
		offX:    float32(dr.Min.X),
		offY:    float32(dr.Min.Y),
		advance: fixedToFloat32(advance),
	}

	if !dr.Empty() {
		img := image.NewNRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		draw.DrawMask(img, img.Bounds(), image.White, image.Point{}, mask, maskp, draw.Src)
		if !blank(img) {
			tex, err := texture.FromImage(img, nil)
			if err != nil {
				return fmt.Errorf("text: glyph %q: %w", r, err)
			}
			region, err := f.atlas.Add(tex)
			if err != nil {
				return fmt.Errorf("text: glyph %q: %w", r, err)
			}
			g.region = region
			g.visible = true
		}
	}
	f.glyphs[r] = g
	return nil
}

// blank reports whether img is fully transparent.
func blank(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

func fixedToFloat32(x fixed.Int26_6) float32 {
	return float32(x) / 64
}

// Texture returns the atlas texture holding the glyphs.
func (f *Face) Texture() *texture.Texture { return f.atlas.Texture() }

// Atlas returns the atlas holding the glyphs.
func (f *Face) Atlas() *texture.Atlas { return f.atlas }

// Ascent returns the distance from the top of a line to its baseline.
func (f *Face) Ascent() float32 { return f.ascent }

// LineHeight returns the distance between consecutive baselines.
func (f *Face) LineHeight() float32 { return f.lineHeight }

// Has reports whether r has a glyph.
func (f *Face) Has(r rune) bool {
	_, ok := f.glyphs[r]
	return ok
}

func (f *Face) glyph(r rune) glyph {
	if g, ok := f.glyphs[r]; ok {
		return g
	}
	return f.glyphs[Fallback]
}

// Measure returns the size of the box s would cover when drawn. Lines
// are separated by '\n'.
func (f *Face) Measure(s string) (width, height float32) {
	if s == "" {
		return 0, 0
	}
	var x float32
	lines := 1
	prev := rune(-1)
	for _, r := range s {
		if r == '\n' {
			width = max(width, x)
			x = 0
			lines++
			prev = -1
			continue
		}
		if prev >= 0 {
			x += fixedToFloat32(f.src.Kern(prev, r))
		}
		x += f.glyph(r).advance
		prev = r
	}
	return max(width, x), float32(lines) * f.lineHeight
}

// Draw adds s to b with its top-left corner at (x, y). Each visible
// glyph becomes a textured quad tinted with c.
func (f *Face) Draw(b *batch.Batch, x, y float32, s string, c batch.Color) {
	penX := x
	baseline := y + f.ascent
	prev := rune(-1)
	for _, r := range s {
		if r == '\n' {
			penX = x
			baseline += f.lineHeight
			prev = -1
			continue
		}
		if prev >= 0 {
			penX += fixedToFloat32(f.src.Kern(prev, r))
		}
		g := f.glyph(r)
		if g.visible {
			rg := g.region
			b.QuadUV(penX+g.offX, baseline+g.offY, float32(rg.Width), float32(rg.Height),
				rg.U0, rg.V0, rg.U1, rg.V1, c)
		}
		penX += g.advance
		prev = r
	}
}

var defaultFace = sync.OnceValue(func() *Face {
	f, err := NewFace(basicfont.Face7x13)
	if err != nil {
		panic(err)
	}
	return f
})

// Default returns a shared 7x13 pixel face. It owns its atlas.
func Default() *Face { return defaultFace() }

// GoFont returns a face of the Go Regular font at size pixels per em.
func GoFont(size float64, opts ...Option) (*Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	src, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("text: failed to create face: %w", err)
	}
	return NewFace(src, opts...)
}
