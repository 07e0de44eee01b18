// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

// Game is implemented by the application.
//
// Update is called once per tick on the update goroutine. Render is
// called on the event goroutine to fill the state's batch for the next
// frame; the batch is empty when it is called. Returning false from
// either stops the engine.
type Game interface {
	Update(s *State) bool
	Render(s *State) bool
}

// Funcs adapts a pair of functions to Game. A nil function always
// returns true.
type Funcs struct {
	UpdateFunc func(s *State) bool
	RenderFunc func(s *State) bool
}

// Update calls f.UpdateFunc.
func (f Funcs) Update(s *State) bool {
	if f.UpdateFunc == nil {
		return true
	}
	return f.UpdateFunc(s)
}

// Render calls f.RenderFunc.
func (f Funcs) Render(s *State) bool {
	if f.RenderFunc == nil {
		return true
	}
	return f.RenderFunc(s)
}
