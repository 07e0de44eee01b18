// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"slices"

	"github.com/gogpu/gputypes"
)

// ChoosePresentMode picks a present mode from those the surface supports.
// With vsync it prefers FifoRelaxed, which tears only when a frame is
// late. Without vsync it prefers Immediate, then FifoRelaxed. Fifo is
// required of every surface and is the fallback in both cases.
func ChoosePresentMode(modes []gputypes.PresentMode, vsync bool) gputypes.PresentMode {
	prefs := []gputypes.PresentMode{gputypes.PresentModeFifoRelaxed}
	if !vsync {
		prefs = []gputypes.PresentMode{gputypes.PresentModeImmediate, gputypes.PresentModeFifoRelaxed}
	}
	for _, p := range prefs {
		if slices.Contains(modes, p) {
			return p
		}
	}
	return gputypes.PresentModeFifo
}

// ChooseExtent returns the swapchain size. It is the surface's current
// extent unless the surface reports AnyExtent, in which case the window
// size is clamped to the supported range.
func ChooseExtent(info SurfaceInfo, window Extent) Extent {
	if info.CurrentExtent != AnyExtent {
		return info.CurrentExtent
	}
	return Extent{
		Width:  clamp(window.Width, info.MinExtent.Width, info.MaxExtent.Width),
		Height: clamp(window.Height, info.MinExtent.Height, info.MaxExtent.Height),
	}
}

// ChooseImageCount returns one more image than the surface minimum, so
// acquire never waits on the presentation engine, limited to the maximum.
func ChooseImageCount(info SurfaceInfo) uint32 {
	n := info.MinImageCount + 1
	if info.MaxImageCount > 0 && n > info.MaxImageCount {
		n = info.MaxImageCount
	}
	return n
}

// ChooseFormat picks an 8-bit BGRA or RGBA format when available, else
// the first one listed.
func ChooseFormat(formats []gputypes.TextureFormat) gputypes.TextureFormat {
	for _, f := range []gputypes.TextureFormat{
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatRGBA8Unorm,
	} {
		if slices.Contains(formats, f) {
			return f
		}
	}
	if len(formats) > 0 {
		return formats[0]
	}
	return gputypes.TextureFormatBGRA8Unorm
}

func clamp(v, lo, hi uint32) uint32 {
	if hi > 0 && v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
