// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package batch collects immediate-mode 2D draw primitives for one frame.
//
// A [Batch] keeps one bucket per primitive kind for untextured and
// textured vertices. Fixed-arity primitives (points, lines, triangles)
// append vertices only. Variable-length primitives (line strips, triangle
// strips, triangle fans) also append a run of indices terminated by
// [RestartIndex], so many strips share one draw call.
//
// The renderer walks [Batch.Layers] in a fixed order: fans, strips,
// triangles, line strips, lines, then points, with the textured variant
// of each kind drawn before the untextured one. Later layers draw on top.
//
// Example:
//
//	b := batch.New()
//	b.SetClearColor(gputypes.Color{R: 0.1, G: 0.1, B: 0.1, A: 1})
//	b.Triangle([3]batch.Vertex{
//	    batch.V(10, 10, red),
//	    batch.V(100, 10, red),
//	    batch.V(55, 90, red),
//	})
//	b.LineStrip(batch.V(0, 0, white), batch.V(50, 50, white), batch.V(100, 0, white))
//
// A Batch is not safe for concurrent use.
package batch
