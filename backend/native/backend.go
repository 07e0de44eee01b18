// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/engine/backend"
	"github.com/gogpu/engine/batch"
	"github.com/gogpu/engine/render"
	"github.com/gogpu/engine/texture"
)

func init() {
	backend.Register(backend.Native, backend.PriorityGPU,
		func(w gpucontext.WindowProvider) (render.Backend, error) {
			return New(w)
		},
		func() bool {
			_, ok := hal.GetBackend(gputypes.BackendVulkan)
			return ok
		})
}

// pollInterval is how long Wait sleeps between completion polls.
const pollInterval = 100 * time.Microsecond

// ErrNoHandle is returned for windows that expose no native handles.
var ErrNoHandle = errors.New("native: window has no native handle")

// Handles is implemented by windows a GPU surface can be created for.
type Handles interface {
	// NativeHandle returns the platform display and window handles.
	NativeHandle() (display, window uintptr)
}

// Option configures a Backend.
type Option func(*Backend)

// WithVariant selects the HAL backend. The default is Vulkan.
func WithVariant(v gputypes.Backend) Option {
	return func(b *Backend) { b.variant = v }
}

// Backend draws batches with a wgpu HAL device.
type Backend struct {
	variant gputypes.Backend
	window  gpucontext.WindowProvider
	display uintptr
	handle  uintptr

	instance hal.Instance
	surface  hal.Surface
	adapter  hal.Adapter
	device   hal.Device
	queue    hal.Queue
	limits   gputypes.Limits
	info     gputypes.AdapterInfo

	pipes *pipelines

	atlas     hal.Texture
	atlasView hal.TextureView
	atlasGen  uint64

	// surfaceLost is set when the surface must be recreated before the
	// next swapchain.
	surfaceLost bool
}

var _ render.Backend = (*Backend)(nil)

// New opens a device that can present to window.
func New(window gpucontext.WindowProvider, opts ...Option) (*Backend, error) {
	h, ok := window.(Handles)
	if !ok {
		return nil, ErrNoHandle
	}
	b := &Backend{variant: gputypes.BackendVulkan, window: window}
	for _, opt := range opts {
		opt(b)
	}
	b.display, b.handle = h.NativeHandle()

	if err := b.init(); err != nil {
		b.Destroy()
		return nil, err
	}
	backend.Logger().Info("native: device opened",
		"backend", b.variant.String(), "adapter", b.info.Name)
	return b, nil
}

func (b *Backend) init() error {
	api, ok := hal.GetBackend(b.variant)
	if !ok {
		return fmt.Errorf("native: %s backend not registered", b.variant)
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return fmt.Errorf("native: create instance: %w", err)
	}
	b.instance = instance

	if b.surface, err = instance.CreateSurface(b.display, b.handle); err != nil {
		return fmt.Errorf("native: create surface: %w", err)
	}

	adapters := instance.EnumerateAdapters(b.surface)
	if len(adapters) == 0 {
		return errors.New("native: no adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	b.adapter = selected.Adapter
	b.info = selected.Info
	b.limits = selected.Capabilities.Limits

	open, err := b.adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("native: open device: %w", err)
	}
	b.device, b.queue = open.Device, open.Queue

	if b.pipes, err = newPipelines(b.device, b.variant); err != nil {
		return fmt.Errorf("native: %w", err)
	}
	if err := b.UpdateAtlas(texture.White()); err != nil {
		return err
	}
	return nil
}

// Name returns "native".
func (b *Backend) Name() string { return backend.Native }

// AdapterInfo describes the adapter the device was opened on.
func (b *Backend) AdapterInfo() gputypes.AdapterInfo { return b.info }

// SurfaceInfo queries the adapter's surface capabilities. The swapchain
// decides the extent, bounded by the device's texture size limit.
func (b *Backend) SurfaceInfo() (render.SurfaceInfo, error) {
	caps := b.adapter.SurfaceCapabilities(b.surface)
	if caps == nil {
		return render.SurfaceInfo{}, errors.New("native: surface not supported by adapter")
	}
	maxDim := b.limits.MaxTextureDimension2D
	if maxDim == 0 {
		maxDim = gputypes.DefaultLimits().MaxTextureDimension2D
	}
	return render.SurfaceInfo{
		Formats:       caps.Formats,
		PresentModes:  caps.PresentModes,
		CurrentExtent: render.AnyExtent,
		MinExtent:     render.Extent{Width: 1, Height: 1},
		MaxExtent:     render.Extent{Width: maxDim, Height: maxDim},
		MinImageCount: 2,
		MaxImageCount: 3,
	}, nil
}

// swapchain is a configured surface.
type swapchain struct {
	b    *Backend
	cfg  render.SwapchainConfig
	next int

	// pending is the image acquired but not yet presented.
	pending *surfaceImage
}

func (s *swapchain) Config() render.SwapchainConfig { return s.cfg }

func (s *swapchain) Destroy() {
	s.discard()
	if s.b.surface != nil && s.b.device != nil {
		s.b.surface.Unconfigure(s.b.device)
	}
}

// discard returns an acquired image that was never presented.
func (s *swapchain) discard() {
	if s.pending == nil {
		return
	}
	s.pending.release(s.b.device)
	s.b.surface.DiscardTexture(s.pending.tex)
	s.pending = nil
}

// CreateSwapchain configures the surface and builds the pipelines for
// its format.
func (b *Backend) CreateSwapchain(cfg render.SwapchainConfig) (render.Swapchain, error) {
	if cfg.Extent.Empty() {
		return nil, fmt.Errorf("native: configure surface: %w", hal.ErrZeroArea)
	}
	if b.surfaceLost {
		if err := b.recreateSurface(); err != nil {
			return nil, err
		}
	}
	err := b.surface.Configure(b.device, &hal.SurfaceConfiguration{
		Width:       cfg.Extent.Width,
		Height:      cfg.Extent.Height,
		Format:      cfg.Format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: cfg.PresentMode,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return nil, fmt.Errorf("native: configure surface: %w", err)
	}
	if err := b.pipes.build(cfg.Format); err != nil {
		b.surface.Unconfigure(b.device)
		return nil, fmt.Errorf("native: %w", err)
	}
	return &swapchain{b: b, cfg: cfg}, nil
}

func (b *Backend) recreateSurface() error {
	b.surface.Destroy()
	s, err := b.instance.CreateSurface(b.display, b.handle)
	if err != nil {
		b.surface = nil
		return fmt.Errorf("native: recreate surface: %w", err)
	}
	b.surface = s
	b.surfaceLost = false
	backend.Logger().Warn("native: surface recreated")
	return nil
}

// frame holds the per-frame command and upload resources.
type frame struct {
	b       *Backend
	encoder hal.CommandEncoder
	cmd     hal.CommandBuffer

	uniform hal.Buffer

	vertices    hal.Buffer
	vertexCap   uint64
	indices     hal.Buffer
	indexCap    uint64
	plainGroup  hal.BindGroup
	texGroup    hal.BindGroup
	texGroupGen uint64

	enc encoding

	// submission is the queue index of the last submit; zero if none.
	submission uint64
}

// CreateFrame allocates a command encoder and uniform buffer.
func (b *Backend) CreateFrame(render.Swapchain) (render.Frame, error) {
	f := &frame{b: b}
	var err error
	f.encoder, err = b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "frame_encoder"})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	f.uniform, err = b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "frame_viewport",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		f.Destroy()
		return nil, fmt.Errorf("native: create uniform buffer: %w", err)
	}
	f.plainGroup, err = b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "frame_bind",
		Layout:  b.pipes.plainLayout,
		Entries: []gputypes.BindGroupEntry{f.viewportEntry()},
	})
	if err != nil {
		f.Destroy()
		return nil, fmt.Errorf("native: create bind group: %w", err)
	}
	return f, nil
}

func (f *frame) viewportEntry() gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{Binding: 0, Resource: gputypes.BufferBinding{
		Buffer: f.uniform.NativeHandle(), Offset: 0, Size: uniformSize,
	}}
}

// Wait polls the queue until the frame's last submission completes.
func (f *frame) Wait() error {
	for f.submission != 0 && f.b.queue.PollCompleted() < f.submission {
		time.Sleep(pollInterval)
	}
	f.freeCommands()
	return nil
}

func (f *frame) freeCommands() {
	if f.cmd != nil {
		f.b.device.FreeCommandBuffer(f.cmd)
		f.cmd = nil
	}
}

func (f *frame) Destroy() {
	d := f.b.device
	f.freeCommands()
	if f.texGroup != nil {
		d.DestroyBindGroup(f.texGroup)
		f.texGroup = nil
	}
	if f.plainGroup != nil {
		d.DestroyBindGroup(f.plainGroup)
		f.plainGroup = nil
	}
	for _, buf := range []hal.Buffer{f.indices, f.vertices, f.uniform} {
		if buf != nil {
			d.DestroyBuffer(buf)
		}
	}
	f.indices, f.vertices, f.uniform = nil, nil, nil
	if f.encoder != nil {
		f.encoder.Destroy()
		f.encoder = nil
	}
}

// surfaceImage is an acquired surface texture and its render view.
type surfaceImage struct {
	index      int
	tex        hal.SurfaceTexture
	view       hal.TextureView
	extent     render.Extent
	suboptimal bool
}

func (i *surfaceImage) Index() int { return i.index }

func (i *surfaceImage) release(d hal.Device) {
	if i.view != nil {
		d.DestroyTextureView(i.view)
		i.view = nil
	}
}

// Acquire obtains the next surface texture.
func (b *Backend) Acquire(s render.Swapchain, _ render.Frame) (render.Image, error) {
	sc := s.(*swapchain)
	sc.discard()

	at, err := b.surface.AcquireTexture(nil)
	if err != nil {
		return nil, b.surfaceError("acquire", err)
	}
	view, err := b.device.CreateTextureView(at.Texture, &hal.TextureViewDescriptor{
		Label:           "surface_view",
		Format:          sc.cfg.Format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		b.surface.DiscardTexture(at.Texture)
		return nil, fmt.Errorf("native: create surface view: %w", err)
	}

	img := &surfaceImage{
		index:      sc.next,
		tex:        at.Texture,
		view:       view,
		extent:     sc.cfg.Extent,
		suboptimal: at.Suboptimal,
	}
	sc.next = (sc.next + 1) % max(int(sc.cfg.ImageCount), 1)
	sc.pending = img
	return img, nil
}

// surfaceError maps HAL surface errors onto the renderer's outcomes.
func (b *Backend) surfaceError(op string, err error) error {
	switch {
	case errors.Is(err, hal.ErrSurfaceLost):
		b.surfaceLost = true
		return fmt.Errorf("native: %s: %w: %w", op, render.ErrOutOfDate, err)
	case errors.Is(err, hal.ErrSurfaceOutdated), errors.Is(err, hal.ErrZeroArea):
		return fmt.Errorf("native: %s: %w: %w", op, render.ErrOutOfDate, err)
	case errors.Is(err, hal.ErrNotReady), errors.Is(err, hal.ErrTimeout):
		return fmt.Errorf("native: %s: %w: %w", op, render.ErrNotReady, err)
	default:
		return fmt.Errorf("native: %s: %w", op, err)
	}
}

// Record encodes a render pass clearing img and drawing every layer.
func (b *Backend) Record(fr render.Frame, im render.Image, bt *batch.Batch) error {
	f := fr.(*frame)
	img := im.(*surfaceImage)
	f.freeCommands()

	f.enc.encode(bt)
	if err := f.upload(img.extent); err != nil {
		return err
	}
	if err := f.bindAtlas(); err != nil {
		return err
	}

	if err := f.encoder.BeginEncoding("frame"); err != nil {
		return fmt.Errorf("native: begin encoding: %w", err)
	}
	rp := f.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       img.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: bt.ClearColor,
		}},
	})
	rp.SetViewport(0, 0, float32(img.extent.Width), float32(img.extent.Height), 0, 1)
	for _, d := range f.enc.draws {
		rp.SetPipeline(b.pipes.pipeline(d))
		if d.textured {
			rp.SetBindGroup(0, f.texGroup, nil)
		} else {
			rp.SetBindGroup(0, f.plainGroup, nil)
		}
		rp.SetVertexBuffer(0, f.vertices, d.vertexOffset)
		if d.indexed {
			rp.SetIndexBuffer(f.indices, gputypes.IndexFormatUint16, d.indexOffset)
			rp.DrawIndexed(d.count, 1, 0, 0, 0)
		} else {
			rp.Draw(d.count, 1, 0, 0)
		}
	}
	rp.End()

	cmd, err := f.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	f.cmd = cmd
	return nil
}

// upload writes the encoded batch and viewport into the frame's buffers,
// growing them as needed.
func (f *frame) upload(extent render.Extent) error {
	q := f.b.queue
	if err := q.WriteBuffer(f.uniform, 0, viewportUniform(extent.Width, extent.Height)); err != nil {
		return fmt.Errorf("native: write viewport: %w", err)
	}
	if len(f.enc.vertices) > 0 {
		buf, n, err := f.ensure(f.vertices, f.vertexCap, uint64(len(f.enc.vertices)),
			"frame_vertices", gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		f.vertices, f.vertexCap = buf, n
		if err := q.WriteBuffer(f.vertices, 0, f.enc.vertices); err != nil {
			return fmt.Errorf("native: write vertices: %w", err)
		}
	}
	if len(f.enc.indices) > 0 {
		buf, n, err := f.ensure(f.indices, f.indexCap, uint64(len(f.enc.indices)),
			"frame_indices", gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		f.indices, f.indexCap = buf, n
		if err := q.WriteBuffer(f.indices, 0, f.enc.indices); err != nil {
			return fmt.Errorf("native: write indices: %w", err)
		}
	}
	return nil
}

// minBufferSize is the smallest vertex or index buffer allocated.
const minBufferSize = 4096

func (f *frame) ensure(buf hal.Buffer, capacity, need uint64, label string, usage gputypes.BufferUsage) (hal.Buffer, uint64, error) {
	if buf != nil && capacity >= need {
		return buf, capacity, nil
	}
	size := max(capacity, minBufferSize)
	for size < need {
		size *= 2
	}
	nb, err := f.b.device.CreateBuffer(&hal.BufferDescriptor{Label: label, Size: size, Usage: usage})
	if err != nil {
		return buf, capacity, fmt.Errorf("native: create %s: %w", label, err)
	}
	if buf != nil {
		f.b.device.DestroyBuffer(buf)
	}
	return nb, size, nil
}

// bindAtlas rebuilds the textured bind group when the atlas has changed
// since the frame last used it.
func (f *frame) bindAtlas() error {
	b := f.b
	if f.texGroup != nil && f.texGroupGen == b.atlasGen {
		return nil
	}
	g, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "frame_textured_bind",
		Layout: b.pipes.texturedLayout,
		Entries: []gputypes.BindGroupEntry{
			f.viewportEntry(),
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: b.atlasView.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: b.pipes.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("native: create textured bind group: %w", err)
	}
	if f.texGroup != nil {
		b.device.DestroyBindGroup(f.texGroup)
	}
	f.texGroup, f.texGroupGen = g, b.atlasGen
	return nil
}

// Submit hands the frame's command buffer to the queue.
func (b *Backend) Submit(fr render.Frame) error {
	f := fr.(*frame)
	if f.cmd == nil {
		return nil
	}
	idx, err := b.queue.Submit([]hal.CommandBuffer{f.cmd})
	if err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	f.submission = idx
	return nil
}

// Present queues the image for display.
func (b *Backend) Present(s render.Swapchain, _ render.Frame, im render.Image) error {
	sc := s.(*swapchain)
	img := im.(*surfaceImage)
	if sc.pending == img {
		sc.pending = nil
	}
	err := b.queue.Present(b.surface, img.tex, nil)
	img.release(b.device)
	if err != nil {
		return b.surfaceError("present", err)
	}
	if img.suboptimal {
		return render.ErrSuboptimal
	}
	return nil
}

// UpdateAtlas uploads tex as the texture sampled by textured primitives.
// The previous atlas is released once the device is idle.
func (b *Backend) UpdateAtlas(tex *texture.Texture) error {
	if err := tex.Validate(); err != nil {
		return err
	}
	w, h := uint32(tex.Width), uint32(tex.Height)
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	t, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "atlas",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("native: create atlas texture: %w", err)
	}
	view, err := b.device.CreateTextureView(t, &hal.TextureViewDescriptor{
		Label:           "atlas_view",
		Format:          gputypes.TextureFormatRGBA8Unorm,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(t)
		return fmt.Errorf("native: create atlas view: %w", err)
	}
	err = b.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t, Aspect: gputypes.TextureAspectAll},
		tex.Pixels,
		&hal.ImageDataLayout{BytesPerRow: uint32(tex.Stride()), RowsPerImage: h},
		&size,
	)
	if err != nil {
		b.device.DestroyTextureView(view)
		b.device.DestroyTexture(t)
		return fmt.Errorf("native: upload atlas: %w", err)
	}

	if b.atlas != nil {
		if err := b.device.WaitIdle(); err != nil {
			backend.Logger().Warn("native: wait idle before atlas swap", "err", err)
		}
		b.device.DestroyTextureView(b.atlasView)
		b.device.DestroyTexture(b.atlas)
	}
	b.atlas, b.atlasView = t, view
	b.atlasGen++
	backend.Logger().Debug("native: atlas updated", "width", w, "height", h)
	return nil
}

// Destroy waits for the device to go idle and releases everything.
func (b *Backend) Destroy() {
	if b.device != nil {
		if err := b.device.WaitIdle(); err != nil {
			backend.Logger().Warn("native: wait idle", "err", err)
		}
		if b.atlasView != nil {
			b.device.DestroyTextureView(b.atlasView)
		}
		if b.atlas != nil {
			b.device.DestroyTexture(b.atlas)
		}
		b.atlas, b.atlasView = nil, nil
		if b.pipes != nil {
			b.pipes.destroy()
			b.pipes = nil
		}
	}
	if b.surface != nil {
		b.surface.Destroy()
		b.surface = nil
	}
	if b.device != nil {
		b.device.Destroy()
		b.device, b.queue = nil, nil
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
}
