// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software is a CPU rendering backend.
//
// Batches are rasterized into in-memory swapchain images with
// golang.org/x/image/vector: triangles, strips and fans as filled
// polygons with per-vertex colors, lines as one-pixel-wide quads and
// points as pixel squares. Textured primitives sample the atlas with
// nearest filtering.
//
// Presented images are handed to a [Sink]. Windows that implement Sink
// (headless and terminal windows do) receive them automatically.
//
// The backend registers itself as "software" on import:
//
//	import _ "github.com/gogpu/engine/backend/software"
package software
