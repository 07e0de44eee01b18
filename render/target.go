// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gpucontext"
)

// Surface is the window a renderer presents to. It remembers the window
// size and vertical sync preference seen at the last refresh so the
// renderer can tell when its swapchain is stale.
type Surface struct {
	window gpucontext.WindowProvider
	extent Extent
	vsync  bool

	vsyncChanged bool
}

// NewSurface creates a surface for window.
func NewSurface(window gpucontext.WindowProvider, vsync bool) *Surface {
	s := &Surface{window: window, vsync: vsync}
	s.Refresh()
	return s
}

// Window returns the window being presented to.
func (s *Surface) Window() gpucontext.WindowProvider { return s.window }

// Extent returns the pixel size read at the last refresh.
func (s *Surface) Extent() Extent { return s.extent }

// VSync returns the current vertical sync preference.
func (s *Surface) VSync() bool { return s.vsync }

// SetVSync changes the vertical sync preference. The change is reported
// by the next Refresh.
func (s *Surface) SetVSync(vsync bool) {
	if vsync != s.vsync {
		s.vsync = vsync
		s.vsyncChanged = true
	}
}

// Valid reports whether the surface has a drawable area.
func (s *Surface) Valid() bool { return !s.extent.Empty() }

// Refresh reads the window size and reports whether the size or vertical
// sync preference changed since the last refresh.
func (s *Surface) Refresh() bool {
	w, h := s.window.Size()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	ext := Extent{Width: uint32(w), Height: uint32(h)}
	changed := ext != s.extent || s.vsyncChanged
	s.extent = ext
	s.vsyncChanged = false
	return changed
}
