// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/engine/backend"
	"github.com/gogpu/engine/batch"
	"github.com/gogpu/engine/render"
	"github.com/gogpu/engine/texture"
)

func init() {
	backend.Register(backend.Software, backend.PrioritySoftware,
		func(w gpucontext.WindowProvider) (render.Backend, error) {
			return New(w), nil
		}, nil)
}

// MaxExtent is the largest swapchain image the backend allocates.
const MaxExtent = 8192

// Sink receives presented frames. The image is only valid during the
// call.
type Sink interface {
	PresentImage(img *image.RGBA) error
}

// Option configures a Backend.
type Option func(*Backend)

// WithSink sends presented frames to s instead of the window.
func WithSink(s Sink) Option {
	return func(b *Backend) { b.sink = s }
}

// Backend rasterizes batches on the CPU.
type Backend struct {
	window gpucontext.WindowProvider
	sink   Sink
	atlas  *texture.Texture
	raster *rasterizer

	// Fault injection, set from any goroutine.
	mu          sync.Mutex
	failAcquire int
	failPresent int
}

var _ render.Backend = (*Backend)(nil)

// New creates a software backend presenting to window. If window
// implements Sink it receives every presented frame.
func New(window gpucontext.WindowProvider, opts ...Option) *Backend {
	b := &Backend{
		window: window,
		atlas:  texture.White(),
		raster: newRasterizer(),
	}
	if s, ok := window.(Sink); ok {
		b.sink = s
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns "software".
func (b *Backend) Name() string { return backend.Software }

// InjectOutOfDate makes the next n acquires fail with render.ErrOutOfDate.
func (b *Backend) InjectOutOfDate(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failAcquire = n
}

// InjectPresentOutOfDate makes the next n presents fail with
// render.ErrOutOfDate.
func (b *Backend) InjectPresentOutOfDate(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failPresent = n
}

func (b *Backend) consume(counter *int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if *counter > 0 {
		*counter--
		return true
	}
	return false
}

// SurfaceInfo reports the window size as the fixed current extent.
func (b *Backend) SurfaceInfo() (render.SurfaceInfo, error) {
	w, h := b.window.Size()
	return render.SurfaceInfo{
		Formats: []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm},
		PresentModes: []gputypes.PresentMode{
			gputypes.PresentModeFifo,
			gputypes.PresentModeFifoRelaxed,
			gputypes.PresentModeImmediate,
			gputypes.PresentModeMailbox,
		},
		CurrentExtent: render.Extent{Width: uint32(max(w, 0)), Height: uint32(max(h, 0))},
		MinExtent:     render.Extent{Width: 1, Height: 1},
		MaxExtent:     render.Extent{Width: MaxExtent, Height: MaxExtent},
		MinImageCount: 2,
		MaxImageCount: 3,
	}, nil
}

// swapchain is a ring of RGBA images.
type swapchain struct {
	cfg    render.SwapchainConfig
	images []*image.RGBA
	next   int
}

func (s *swapchain) Config() render.SwapchainConfig { return s.cfg }
func (s *swapchain) Destroy()                       { s.images = nil }

// CreateSwapchain allocates the swapchain images.
func (b *Backend) CreateSwapchain(cfg render.SwapchainConfig) (render.Swapchain, error) {
	if cfg.Extent.Empty() || cfg.Extent.Width > MaxExtent || cfg.Extent.Height > MaxExtent {
		return nil, fmt.Errorf("software: invalid extent %dx%d", cfg.Extent.Width, cfg.Extent.Height)
	}
	n := max(int(cfg.ImageCount), 1)
	sc := &swapchain{cfg: cfg, images: make([]*image.RGBA, n)}
	for i := range sc.images {
		sc.images[i] = image.NewRGBA(image.Rect(0, 0, int(cfg.Extent.Width), int(cfg.Extent.Height)))
	}
	return sc, nil
}

// frame tracks the image a frame drew into. Work completes synchronously,
// so waiting never blocks.
type frame struct {
	target *image.RGBA
}

func (f *frame) Wait() error { return nil }
func (f *frame) Destroy()    { f.target = nil }

// CreateFrame returns a new frame.
func (b *Backend) CreateFrame(render.Swapchain) (render.Frame, error) {
	return &frame{}, nil
}

// acquired is a swapchain image handed out by Acquire.
type acquired struct {
	index int
	img   *image.RGBA
}

func (a *acquired) Index() int { return a.index }

// Acquire returns the next image. It fails with render.ErrOutOfDate when
// the window size no longer matches the swapchain.
func (b *Backend) Acquire(s render.Swapchain, _ render.Frame) (render.Image, error) {
	sc := s.(*swapchain)
	if b.consume(&b.failAcquire) || b.stale(sc) {
		return nil, render.ErrOutOfDate
	}
	a := &acquired{index: sc.next, img: sc.images[sc.next]}
	sc.next = (sc.next + 1) % len(sc.images)
	return a, nil
}

func (b *Backend) stale(sc *swapchain) bool {
	w, h := b.window.Size()
	return uint32(max(w, 0)) != sc.cfg.Extent.Width || uint32(max(h, 0)) != sc.cfg.Extent.Height
}

// Record rasterizes the batch into the acquired image.
func (b *Backend) Record(f render.Frame, img render.Image, bt *batch.Batch) error {
	fr := f.(*frame)
	fr.target = img.(*acquired).img
	b.raster.draw(fr.target, bt, b.atlas)
	return nil
}

// Submit is a no-op: Record has already finished the work.
func (b *Backend) Submit(render.Frame) error { return nil }

// Present sends the image to the sink.
func (b *Backend) Present(s render.Swapchain, _ render.Frame, img render.Image) error {
	if b.consume(&b.failPresent) {
		return render.ErrOutOfDate
	}
	if b.sink != nil {
		if err := b.sink.PresentImage(img.(*acquired).img); err != nil {
			return fmt.Errorf("software: present: %w", err)
		}
	}
	if b.stale(s.(*swapchain)) {
		return render.ErrSuboptimal
	}
	return nil
}

// UpdateAtlas keeps a copy of tex for sampling.
func (b *Backend) UpdateAtlas(tex *texture.Texture) error {
	if err := tex.Validate(); err != nil {
		return err
	}
	b.atlas = &texture.Texture{
		Width:  tex.Width,
		Height: tex.Height,
		Pixels: append([]byte(nil), tex.Pixels...),
	}
	backend.Logger().Debug("software: atlas updated", "width", tex.Width, "height", tex.Height)
	return nil
}

// Destroy releases the atlas.
func (b *Backend) Destroy() {
	b.atlas = nil
}
