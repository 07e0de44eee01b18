// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/batch.wgsl
var plainShaderSource string

//go:embed shaders/batch_textured.wgsl
var texturedShaderSource string

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	b, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(b))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words, nil
}

// shaderSource returns the module source for the given backend variant.
// Vulkan takes SPIR-V compiled ahead of time; every other backend
// compiles WGSL itself.
func shaderSource(variant gputypes.Backend, wgsl string) (hal.ShaderSource, error) {
	if variant != gputypes.BackendVulkan {
		return hal.ShaderSource{WGSL: wgsl}, nil
	}
	words, err := compileSPIRV(wgsl)
	if err != nil {
		return hal.ShaderSource{}, err
	}
	return hal.ShaderSource{SPIRV: words}, nil
}

func createShaderModule(device hal.Device, variant gputypes.Backend, label, wgsl string) (hal.ShaderModule, error) {
	src, err := shaderSource(variant, wgsl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	m, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{Label: label, Source: src})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return m, nil
}
