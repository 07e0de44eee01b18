// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"errors"
	"fmt"
	"image"
)

// ErrAtlasFull is returned when the atlas cannot fit an image.
var ErrAtlasFull = errors.New("texture: atlas is full")

// Region is a rectangle inside an atlas with its normalized texture
// coordinates.
type Region struct {
	X, Y          int
	Width, Height int

	U0, V0 float32
	U1, V1 float32
}

// String returns a string representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// shelf is a horizontal strip of the atlas.
type shelf struct {
	y      int
	height int
	nextX  int
}

// Atlas packs several images into one texture using shelf packing: each
// image goes on the first shelf with room for it, or on a new shelf below
// the last one.
//
// Atlas is not safe for concurrent use.
type Atlas struct {
	tex     *Texture
	shelves []shelf
	padding int
}

// NewAtlas creates an empty atlas of the given size with one pixel of
// padding between images.
func NewAtlas(width, height int) *Atlas {
	return &Atlas{
		tex:     New(width, height),
		padding: 1,
	}
}

// Texture returns the atlas texture. Upload it after adding images.
func (a *Atlas) Texture() *Texture { return a.tex }

// Add copies t into the atlas and returns where it was placed.
func (a *Atlas) Add(t *Texture) (Region, error) {
	if err := t.Validate(); err != nil {
		return Region{}, err
	}
	x, y, ok := a.allocate(t.Width, t.Height)
	if !ok {
		return Region{}, fmt.Errorf("%w: no room for %dx%d", ErrAtlasFull, t.Width, t.Height)
	}

	src := t.Image()
	dst := a.tex.Image()
	for row := 0; row < t.Height; row++ {
		copy(dst.Pix[dst.PixOffset(x, y+row):], src.Pix[src.PixOffset(0, row):src.PixOffset(t.Width, row)])
	}
	return a.region(x, y, t.Width, t.Height), nil
}

// AddImage converts img and adds it to the atlas.
func (a *Atlas) AddImage(img image.Image) (Region, error) {
	t, err := FromImage(img, nil)
	if err != nil {
		return Region{}, err
	}
	return a.Add(t)
}

func (a *Atlas) region(x, y, w, h int) Region {
	fw, fh := float32(a.tex.Width), float32(a.tex.Height)
	return Region{
		X: x, Y: y, Width: w, Height: h,
		U0: float32(x) / fw,
		V0: float32(y) / fh,
		U1: float32(x+w) / fw,
		V1: float32(y+h) / fh,
	}
}

func (a *Atlas) allocate(w, h int) (x, y int, ok bool) {
	pw, ph := w+a.padding, h+a.padding
	if w > a.tex.Width || h > a.tex.Height {
		return 0, 0, false
	}

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.nextX+w > a.tex.Width {
			continue
		}
		// A shelf can only grow while it is empty.
		if ph > s.height && s.nextX > 0 {
			continue
		}
		if ph > s.height {
			if s.y+h > a.tex.Height {
				continue
			}
			s.height = ph
		}
		x = s.nextX
		s.nextX += pw
		return x, s.y, true
	}

	top := 0
	if n := len(a.shelves); n > 0 {
		top = a.shelves[n-1].y + a.shelves[n-1].height
	}
	if top+h > a.tex.Height {
		return 0, 0, false
	}
	a.shelves = append(a.shelves, shelf{y: top, height: ph, nextX: pw})
	return 0, top, true
}
