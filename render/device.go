// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/engine/batch"
	"github.com/gogpu/engine/texture"
)

// Extent is a size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

// AnyExtent is reported as the current extent by surfaces whose size is
// chosen by the swapchain rather than the window system.
var AnyExtent = Extent{Width: 0xFFFFFFFF, Height: 0xFFFFFFFF}

// Empty reports whether either dimension is zero.
func (e Extent) Empty() bool { return e.Width == 0 || e.Height == 0 }

// SurfaceInfo describes what a surface supports. Backends report it on
// request; the renderer re-queries it before every swapchain rebuild.
type SurfaceInfo struct {
	Formats      []gputypes.TextureFormat
	PresentModes []gputypes.PresentMode

	// CurrentExtent is the surface size, or AnyExtent if the swapchain
	// decides it.
	CurrentExtent Extent
	MinExtent     Extent
	MaxExtent     Extent

	// MinImageCount is the smallest swapchain length supported.
	// MaxImageCount is the largest, or zero for no limit.
	MinImageCount uint32
	MaxImageCount uint32
}

// SwapchainConfig is the configuration a swapchain is built with.
type SwapchainConfig struct {
	Extent      Extent
	Format      gputypes.TextureFormat
	PresentMode gputypes.PresentMode
	ImageCount  uint32
}

// Swapchain is a set of presentable images bound to a surface.
type Swapchain interface {
	// Config returns the configuration the swapchain was built with.
	Config() SwapchainConfig

	// Destroy releases the swapchain. The renderer calls it exactly once,
	// after every frame using it has finished.
	Destroy()
}

// Frame holds the resources for one frame in flight: its command
// recording state and the signals ordering acquire, draw and present.
type Frame interface {
	// Wait blocks until the GPU has finished the work last submitted
	// with this frame. It has no timeout.
	Wait() error

	// Destroy releases the frame's resources. The renderer calls it
	// exactly once, after Wait.
	Destroy()
}

// Image is a swapchain image acquired for drawing.
type Image interface {
	// Index returns the image's position in the swapchain.
	Index() int
}

// Backend draws batches into swapchain images.
//
// Acquire and Present report a swapchain that no longer matches its
// surface with ErrOutOfDate. Present reports ErrSuboptimal when the frame
// was shown but the swapchain should be rebuilt. Acquire may return
// ErrNotReady to skip a frame.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// SurfaceInfo queries the capabilities of the window surface.
	SurfaceInfo() (SurfaceInfo, error)

	// CreateSwapchain configures the surface for presentation.
	CreateSwapchain(cfg SwapchainConfig) (Swapchain, error)

	// CreateFrame allocates the resources of one frame in flight.
	CreateFrame(sc Swapchain) (Frame, error)

	// Acquire obtains the next image to draw into.
	Acquire(sc Swapchain, f Frame) (Image, error)

	// Record encodes the batch into the frame's commands, clearing img to
	// the batch clear color and drawing every layer in order.
	Record(f Frame, img Image, b *batch.Batch) error

	// Submit hands the frame's commands to the GPU.
	Submit(f Frame) error

	// Present queues img for display once the frame's commands finish.
	Present(sc Swapchain, f Frame, img Image) error

	// UpdateAtlas replaces the texture sampled by textured primitives.
	UpdateAtlas(tex *texture.Texture) error

	// Destroy releases the device and surface.
	Destroy()
}
