// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend selects the rendering backend for a window.
//
// Backends register a factory under a name and a priority, usually from an
// init function, and are pulled in with a blank import:
//
//	import (
//	    _ "github.com/gogpu/engine/backend/native"
//	    _ "github.com/gogpu/engine/backend/software"
//	)
//
// # Backend Selection
//
// Use New to create the best available backend for a window, or
// NewByName to request a specific one:
//
//	b, err := backend.New(window)
//	b, err := backend.NewByName("software", window)
//
// New tries every available backend in priority order and returns the
// first one that initializes, so a machine without a GPU falls back to the
// software rasterizer.
package backend
