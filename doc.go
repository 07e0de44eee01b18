// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package engine runs a minimal 2D game on a frame clock.
//
// A game implements [Game]. The engine calls Update on an update goroutine
// at the configured rate and Render on the event goroutine whenever the
// platform asks for a redraw, then presents the batch Render filled:
//
//	type game struct{ x float32 }
//
//	func (g *game) Update(s *engine.State) bool {
//		g.x += 1
//		return !s.Input().Pressed(gpucontext.KeyEscape)
//	}
//
//	func (g *game) Render(s *engine.State) bool {
//		s.Batch().Quad(g.x, 10, 32, 32, batch.White)
//		return true
//	}
//
//	err := engine.Run(&game{}, engine.WithFPS(60), engine.WithTitle("demo"))
//
// # Threads
//
// Run starts two goroutines, each locked to an OS thread. The event
// goroutine runs the platform event loop and renders. The update goroutine
// ticks the game. Update and Render never run at the same time, and the
// update goroutine waits for each update to be rendered before it starts
// the next one, so at most one frame is in flight.
//
// # Platforms and backends
//
// Platforms and rendering backends register themselves when their
// packages are imported:
//
//	import (
//		_ "github.com/gogpu/engine/backend/native"
//		_ "github.com/gogpu/engine/backend/software"
//		_ "github.com/gogpu/engine/platform/terminal"
//	)
//
// Without an explicit name the engine picks the preferred registered
// platform and the best available backend.
//
// # Errors
//
// Panics in game callbacks stop the engine. Run returns them as a
// [*PanicError] once the event loop has shut down. A second panic before
// the first has been returned terminates the process.
//
// # Logging
//
// The engine logs nothing by default. [SetLogger] enables logging for the
// engine and every sub-package.
package engine
