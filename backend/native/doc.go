// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native draws batches on the GPU through the wgpu hardware
// abstraction layer.
//
// Importing the package registers it with the backend registry at GPU
// priority. The window must implement [Handles] so a presentable surface
// can be created for it.
//
// Each frame in flight owns a command encoder, a viewport uniform and
// growable vertex and index buffers. Batches are recorded into a single
// render pass that clears the surface texture and draws every layer in
// order. Triangle fans are expanded to triangle lists since the device
// has no fan topology; strips keep their restart indices.
package native
