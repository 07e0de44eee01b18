// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"slices"

	"github.com/gogpu/engine/batch"
	"github.com/gogpu/engine/platform"
	"github.com/gogpu/engine/render"
	"github.com/gogpu/engine/texture"
	"github.com/gogpu/engine/timing"
)

// State is what the game sees in its callbacks. It is only valid during
// a callback and must not be retained or shared with other goroutines.
type State struct {
	engine *Engine

	batch   *batch.Batch
	window  WindowSettings
	timer   *timing.FrameTimer
	screens []platform.Screen
	input   Input

	tick  uint64
	atlas *texture.Texture
	stats render.Stats
}

func newState(e *Engine, timer *timing.FrameTimer) *State {
	return &State{
		engine: e,
		batch:  batch.New(),
		timer:  timer,
		input:  Input{focused: true},
	}
}

// Batch returns the batch Render fills. It is cleared before each
// Render call.
func (s *State) Batch() *batch.Batch { return s.batch }

// Window returns the window settings.
func (s *State) Window() *WindowSettings { return &s.window }

// Timer returns the frame timer. Changing its rate takes effect from the
// next tick.
func (s *State) Timer() *timing.FrameTimer { return s.timer }

// Screens returns the displays known when the window opened.
func (s *State) Screens() []platform.Screen { return slices.Clone(s.screens) }

// Input returns the input for the current tick.
func (s *State) Input() Input { return s.input }

// Tick returns the number of updates started so far. It is 1 during the
// first Update.
func (s *State) Tick() uint64 { return s.tick }

// RenderStats returns the renderer counters as of the last frame.
func (s *State) RenderStats() render.Stats { return s.stats }

// SetAtlas uploads tex as the texture sampled by textured primitives. It
// is uploaded before the next frame is rendered.
func (s *State) SetAtlas(tex *texture.Texture) { s.atlas = tex }

// Stop asks the engine to shut down after the current callback.
func (s *State) Stop() { s.engine.Stop() }
