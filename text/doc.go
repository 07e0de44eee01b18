// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package text draws strings into a batch with bitmap fonts.
//
// A Face rasterizes a fixed set of runes from a [font.Face] into a
// texture atlas once, then emits one textured quad per visible glyph:
//
//	face := text.Default()
//	state.SetAtlas(face.Texture())
//	...
//	face.Draw(state.Batch(), 10, 10, "score: 42", batch.White)
//
// The atlas must be the one bound by the renderer. To mix glyphs with
// sprites, create the face with [WithAtlas] and upload the shared atlas
// texture.
//
// Faces built from scalable fonts are created with [GoFont] or by passing
// any face made with golang.org/x/image/font/opentype to [NewFace].
package text
