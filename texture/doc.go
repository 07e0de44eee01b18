// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texture loads images into RGBA8 pixel buffers for upload to the
// renderer's atlas.
//
// Supported formats are PNG, JPEG and GIF from the standard library plus
// BMP, TIFF and WebP from golang.org/x/image. An optional chroma key
// turns every pixel of one color fully transparent:
//
//	magenta := color.RGBA{R: 255, B: 255, A: 255}
//	tex, err := texture.Load("sprites.bmp", &magenta)
//
// Several images can share one texture through an [Atlas].
package texture
