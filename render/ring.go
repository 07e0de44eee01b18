// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
)

// DefaultFramesInFlight is the number of frames the CPU may record ahead
// of the GPU.
const DefaultFramesInFlight = 2

// FrameRing owns a swapchain and a ring of frames that take turns
// recording into it.
type FrameRing struct {
	backend        Backend
	framesInFlight int

	swapchain Swapchain
	frames    []Frame
	index     int
	vsync     bool
}

// NewFrameRing creates an empty ring. Call Update to build it.
func NewFrameRing(backend Backend, framesInFlight int) *FrameRing {
	if framesInFlight < 1 {
		framesInFlight = DefaultFramesInFlight
	}
	return &FrameRing{backend: backend, framesInFlight: framesInFlight}
}

// Empty reports whether the ring has no swapchain.
func (r *FrameRing) Empty() bool { return r.swapchain == nil }

// Len returns the number of frames in the ring.
func (r *FrameRing) Len() int { return len(r.frames) }

// Index returns the position of the current frame.
func (r *FrameRing) Index() int { return r.index }

// Current returns the frame to record next.
func (r *FrameRing) Current() Frame { return r.frames[r.index] }

// Swapchain returns the current swapchain, or nil if the ring is empty.
func (r *FrameRing) Swapchain() Swapchain { return r.swapchain }

// VSync reports the vertical sync preference the ring was built for.
func (r *FrameRing) VSync() bool { return r.vsync }

// Config returns the current swapchain configuration.
func (r *FrameRing) Config() SwapchainConfig {
	if r.swapchain == nil {
		return SwapchainConfig{}
	}
	return r.swapchain.Config()
}

// Advance moves to the next frame.
func (r *FrameRing) Advance() {
	r.index = (r.index + 1) % len(r.frames)
}

// Update rebuilds the swapchain and frames for the surface's current size
// and vsync preference. The previous swapchain and frames are destroyed
// first and the ring restarts at frame zero.
func (r *FrameRing) Update(surface *Surface, info SurfaceInfo) error {
	if err := r.destroy(); err != nil {
		return err
	}

	cfg := SwapchainConfig{
		Extent:      ChooseExtent(info, surface.Extent()),
		Format:      ChooseFormat(info.Formats),
		PresentMode: ChoosePresentMode(info.PresentModes, surface.VSync()),
		ImageCount:  ChooseImageCount(info),
	}
	sc, err := r.backend.CreateSwapchain(cfg)
	if err != nil {
		return fmt.Errorf("render: create swapchain: %w", err)
	}
	r.swapchain = sc
	r.vsync = surface.VSync()

	n := r.framesInFlight
	if cfg.ImageCount > 0 && uint32(n) > cfg.ImageCount {
		n = int(cfg.ImageCount)
	}
	r.frames = make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		f, err := r.backend.CreateFrame(sc)
		if err != nil {
			err = fmt.Errorf("render: create frame %d: %w", i, err)
			return errors.Join(err, r.destroy())
		}
		r.frames = append(r.frames, f)
	}
	r.index = 0

	slogger().Debug("render: frame ring rebuilt",
		"width", cfg.Extent.Width,
		"height", cfg.Extent.Height,
		"format", cfg.Format.String(),
		"presentMode", cfg.PresentMode.String(),
		"images", cfg.ImageCount,
		"frames", n)
	return nil
}

// Destroy waits for every frame and releases the ring's resources.
// It is safe to call more than once.
func (r *FrameRing) Destroy() error {
	return r.destroy()
}

func (r *FrameRing) destroy() error {
	var errs []error
	for _, f := range r.frames {
		if err := f.Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, f := range r.frames {
		f.Destroy()
	}
	r.frames = nil
	if r.swapchain != nil {
		r.swapchain.Destroy()
		r.swapchain = nil
	}
	r.index = 0
	return errors.Join(errs...)
}
