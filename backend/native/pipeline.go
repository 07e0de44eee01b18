// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// pipelines owns the shaders, layouts and render pipelines shared by all
// frames. The pipeline table is built per swapchain format.
type pipelines struct {
	device hal.Device

	plainShader    hal.ShaderModule
	texturedShader hal.ShaderModule

	plainLayout    hal.BindGroupLayout
	texturedLayout hal.BindGroupLayout

	plainPipeLayout    hal.PipelineLayout
	texturedPipeLayout hal.PipelineLayout

	sampler hal.Sampler

	format gputypes.TextureFormat
	// table is indexed by [textured][topology slot].
	table [2][len(topologies)]hal.RenderPipeline
}

func newPipelines(device hal.Device, variant gputypes.Backend) (*pipelines, error) {
	p := &pipelines{device: device}
	if err := p.init(variant); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

func (p *pipelines) init(variant gputypes.Backend) error {
	var err error
	p.plainShader, err = createShaderModule(p.device, variant, "batch_shader", plainShaderSource)
	if err != nil {
		return err
	}
	p.texturedShader, err = createShaderModule(p.device, variant, "batch_textured_shader", texturedShaderSource)
	if err != nil {
		return err
	}

	viewport := gputypes.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: gputypes.ShaderStageVertex,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}
	p.plainLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "batch_layout",
		Entries: []gputypes.BindGroupLayoutEntry{viewport},
	})
	if err != nil {
		return fmt.Errorf("create batch layout: %w", err)
	}
	p.texturedLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "batch_textured_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			viewport,
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create batch textured layout: %w", err)
	}

	p.plainPipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "batch_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.plainLayout},
	})
	if err != nil {
		return fmt.Errorf("create batch pipeline layout: %w", err)
	}
	p.texturedPipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "batch_textured_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.texturedLayout},
	})
	if err != nil {
		return fmt.Errorf("create batch textured pipeline layout: %w", err)
	}

	// Atlas texels map 1:1 to glyph and sprite pixels.
	p.sampler, err = p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "atlas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create atlas sampler: %w", err)
	}
	return nil
}

// build creates the pipeline table for format. It is a no-op if the
// table already targets format.
func (p *pipelines) build(format gputypes.TextureFormat) error {
	if p.format == format && p.table[0][0] != nil {
		return nil
	}
	p.destroyTable()

	for textured := range p.table {
		for slot, topology := range topologies {
			pl, err := p.create(format, textured == 1, topology)
			if err != nil {
				p.destroyTable()
				return err
			}
			p.table[textured][slot] = pl
		}
	}
	p.format = format
	return nil
}

func (p *pipelines) create(format gputypes.TextureFormat, textured bool, topology gputypes.PrimitiveTopology) (hal.RenderPipeline, error) {
	shader, layout, buffers := p.plainShader, p.plainPipeLayout, plainVertexLayout()
	label := "batch_pipeline_" + topology.String()
	if textured {
		shader, layout, buffers = p.texturedShader, p.texturedPipeLayout, texturedVertexLayout()
		label = "batch_textured_pipeline_" + topology.String()
	}

	primitive := gputypes.PrimitiveState{
		Topology: topology,
		CullMode: gputypes.CullModeNone,
	}
	if topology == gputypes.PrimitiveTopologyLineStrip || topology == gputypes.PrimitiveTopologyTriangleStrip {
		f := gputypes.IndexFormatUint16
		primitive.StripIndexFormat = &f
	}

	blend := gputypes.BlendStateAlpha()
	pl, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: primitive,
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return pl, nil
}

// pipeline returns the pipeline for a recorded draw.
func (p *pipelines) pipeline(d draw) hal.RenderPipeline {
	t := 0
	if d.textured {
		t = 1
	}
	return p.table[t][d.slot]
}

func (p *pipelines) destroyTable() {
	for t := range p.table {
		for s, pl := range p.table[t] {
			if pl != nil {
				p.device.DestroyRenderPipeline(pl)
				p.table[t][s] = nil
			}
		}
	}
}

// destroy releases everything in reverse creation order.
func (p *pipelines) destroy() {
	p.destroyTable()
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.texturedPipeLayout != nil {
		p.device.DestroyPipelineLayout(p.texturedPipeLayout)
		p.texturedPipeLayout = nil
	}
	if p.plainPipeLayout != nil {
		p.device.DestroyPipelineLayout(p.plainPipeLayout)
		p.plainPipeLayout = nil
	}
	if p.texturedLayout != nil {
		p.device.DestroyBindGroupLayout(p.texturedLayout)
		p.texturedLayout = nil
	}
	if p.plainLayout != nil {
		p.device.DestroyBindGroupLayout(p.plainLayout)
		p.plainLayout = nil
	}
	if p.texturedShader != nil {
		p.device.DestroyShaderModule(p.texturedShader)
		p.texturedShader = nil
	}
	if p.plainShader != nil {
		p.device.DestroyShaderModule(p.plainShader)
		p.plainShader = nil
	}
}

func plainVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: plainStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1}, // color
			},
		},
	}
}

func texturedVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: texturedStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // uv
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2}, // color
			},
		},
	}
}
