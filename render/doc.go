// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render turns a frame's batch into a presented image.
//
// # Core Types
//
//   - Backend: the GPU (or CPU) implementation of swapchain, frame and
//     draw operations, provided by backend/native or backend/software
//   - Surface: the window being presented to, tracking its pixel size and
//     vertical sync preference between frames
//   - FrameRing: the swapchain plus a ring of per-frame resources
//   - Renderer: the per-frame state machine driving the backend
//
// # Frame Flow
//
// Each call to [Renderer.Render] refreshes the surface, rebuilds the
// frame ring if the surface changed, then acquires an image, records every
// batch layer, submits and presents. A frame that fails with
// [ErrOutOfDate] rebuilds the ring and tries again, up to a bounded
// number of times:
//
//	r, err := render.NewRenderer(backend, window, true)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for running {
//	    b.Clear()
//	    draw(b)
//	    if err := r.Render(b); err != nil {
//	        return err // retries exhausted or backend failure
//	    }
//	}
//
// A window with zero width or height is skipped without error.
//
// # Thread Safety
//
// A Renderer must be used from a single goroutine, the one that owns the
// window's event loop.
package render
