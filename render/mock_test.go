// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/engine/batch"
	"github.com/gogpu/engine/texture"
)

// fakeWindow is a gpucontext.WindowProvider with a settable size.
type fakeWindow struct {
	w, h    int
	redraws int
}

func (w *fakeWindow) Size() (int, int)     { return w.w, w.h }
func (w *fakeWindow) ScaleFactor() float64 { return 1 }
func (w *fakeWindow) RequestRedraw()       { w.redraws++ }

// resource records its own lifecycle in the owning mock.
type resource struct {
	kind      string
	id        int
	destroyed int
	waits     int
	cfg       SwapchainConfig
}

func (r *resource) Config() SwapchainConfig { return r.cfg }
func (r *resource) Wait() error             { r.waits++; return nil }
func (r *resource) Destroy()                { r.destroyed++ }

type mockImage int

func (i mockImage) Index() int { return int(i) }

// mockBackend records every call and lets tests inject failures.
type mockBackend struct {
	info SurfaceInfo

	swapchains []*resource
	frames     []*resource

	// acquireErr and presentErr are consulted on every call; nil means
	// success.
	acquireErr func(call int) error
	presentErr func(call int) error

	calls     []string
	acquires  int
	presents  int
	recorded  []int
	atlas     *texture.Texture
	destroyed int
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		info: SurfaceInfo{
			Formats:       []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm},
			PresentModes:  []gputypes.PresentMode{gputypes.PresentModeFifo, gputypes.PresentModeImmediate},
			CurrentExtent: AnyExtent,
			MinExtent:     Extent{1, 1},
			MaxExtent:     Extent{4096, 4096},
			MinImageCount: 2,
			MaxImageCount: 3,
		},
	}
}

func (m *mockBackend) Name() string { return "mock" }

func (m *mockBackend) SurfaceInfo() (SurfaceInfo, error) {
	m.calls = append(m.calls, "info")
	return m.info, nil
}

func (m *mockBackend) CreateSwapchain(cfg SwapchainConfig) (Swapchain, error) {
	m.calls = append(m.calls, "swapchain")
	sc := &resource{kind: "swapchain", id: len(m.swapchains), cfg: cfg}
	m.swapchains = append(m.swapchains, sc)
	return sc, nil
}

func (m *mockBackend) CreateFrame(Swapchain) (Frame, error) {
	f := &resource{kind: "frame", id: len(m.frames)}
	m.frames = append(m.frames, f)
	return f, nil
}

func (m *mockBackend) Acquire(Swapchain, Frame) (Image, error) {
	m.acquires++
	m.calls = append(m.calls, "acquire")
	if m.acquireErr != nil {
		if err := m.acquireErr(m.acquires); err != nil {
			return nil, err
		}
	}
	return mockImage(m.acquires % 3), nil
}

func (m *mockBackend) Record(f Frame, _ Image, b *batch.Batch) error {
	m.calls = append(m.calls, "record")
	m.recorded = append(m.recorded, b.VertexCount())
	return nil
}

func (m *mockBackend) Submit(Frame) error {
	m.calls = append(m.calls, "submit")
	return nil
}

func (m *mockBackend) Present(Swapchain, Frame, Image) error {
	m.presents++
	m.calls = append(m.calls, "present")
	if m.presentErr != nil {
		return m.presentErr(m.presents)
	}
	return nil
}

func (m *mockBackend) UpdateAtlas(tex *texture.Texture) error {
	m.atlas = tex
	return nil
}

func (m *mockBackend) Destroy() { m.destroyed++ }

// checkLifecycle fails unless every resource but the live ones was
// destroyed exactly once and the live ones not at all.
func (m *mockBackend) checkLifecycle(liveSwapchains, liveFrames int) error {
	check := func(rs []*resource, live int) error {
		for i, r := range rs {
			want := 1
			if i >= len(rs)-live {
				want = 0
			}
			if r.destroyed != want {
				return fmt.Errorf("%s %d destroyed %d times, want %d", r.kind, r.id, r.destroyed, want)
			}
		}
		return nil
	}
	if err := check(m.swapchains, liveSwapchains); err != nil {
		return err
	}
	return check(m.frames, liveFrames)
}
