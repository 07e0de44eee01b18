// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	// Registered image decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Errors.
var (
	// ErrEmptyImage is returned for images with no pixels.
	ErrEmptyImage = errors.New("texture: image has zero area")

	// ErrPixelSize is returned when a pixel buffer does not match its
	// dimensions.
	ErrPixelSize = errors.New("texture: pixel buffer size mismatch")
)

// Texture is a row-major RGBA8 image with straight alpha.
type Texture struct {
	Width  int
	Height int
	Pixels []byte
}

// New creates a transparent texture.
func New(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*4),
	}
}

// White returns a 1x1 opaque white texture. Backends bind it when no atlas
// has been uploaded so textured primitives draw their vertex color.
func White() *Texture {
	return &Texture{Width: 1, Height: 1, Pixels: []byte{255, 255, 255, 255}}
}

// Validate checks that the pixel buffer matches the dimensions.
func (t *Texture) Validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return ErrEmptyImage
	}
	if len(t.Pixels) != t.Width*t.Height*4 {
		return fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrPixelSize, t.Width, t.Height, t.Width*t.Height*4, len(t.Pixels))
	}
	return nil
}

// Stride returns the number of bytes per row.
func (t *Texture) Stride() int { return t.Width * 4 }

// At returns the pixel at (x, y).
func (t *Texture) At(x, y int) color.NRGBA {
	i := (y*t.Width + x) * 4
	return color.NRGBA{R: t.Pixels[i], G: t.Pixels[i+1], B: t.Pixels[i+2], A: t.Pixels[i+3]}
}

// Set writes the pixel at (x, y).
func (t *Texture) Set(x, y int, c color.NRGBA) {
	i := (y*t.Width + x) * 4
	t.Pixels[i] = c.R
	t.Pixels[i+1] = c.G
	t.Pixels[i+2] = c.B
	t.Pixels[i+3] = c.A
}

// Image returns the texture as an *image.NRGBA sharing its pixels.
func (t *Texture) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    t.Pixels,
		Stride: t.Stride(),
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}

// Load reads and decodes the image file at path. If key is non-nil, every
// pixel whose color matches key is made fully transparent.
func Load(path string, key *color.RGBA) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	tex, err := Decode(data, key)
	if err != nil {
		return nil, fmt.Errorf("texture: load %s: %w", path, err)
	}
	return tex, nil
}

// Decode decodes an encoded image. See Load for the meaning of key.
func Decode(data []byte, key *color.RGBA) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w", err)
	}
	return FromImage(img, key)
}

// FromImage converts img to a Texture. See Load for the meaning of key.
func FromImage(img image.Image, key *color.RGBA) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	tex := &Texture{Width: b.Dx(), Height: b.Dy(), Pixels: dst.Pix}
	if key != nil {
		tex.ApplyChromaKey(*key)
	}
	return tex, nil
}

// ApplyChromaKey makes every pixel whose RGB matches key fully transparent.
// Only opaque pixels are compared.
func (t *Texture) ApplyChromaKey(key color.RGBA) {
	for i := 0; i+3 < len(t.Pixels); i += 4 {
		p := t.Pixels[i : i+4 : i+4]
		if p[3] == 0xFF && p[0] == key.R && p[1] == key.G && p[2] == key.B {
			p[0], p[1], p[2], p[3] = 0, 0, 0, 0
		}
	}
}
