// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package platform defines the windowing layer the engine runs on.
//
// A platform provides an [EventLoop] that owns the windows and pumps OS
// events into a [Handler] until asked to stop. The loop's Run method
// blocks, and every handler callback is made on the goroutine that called
// Run.
//
// Implementations register themselves by name:
//
//	import _ "github.com/gogpu/engine/platform/terminal"
//
//	loop, err := platform.New("terminal")
//
// Input uses the key, modifier and mouse button types of
// github.com/gogpu/gpucontext, and windows satisfy
// gpucontext.WindowProvider so renderers can read their size.
package platform
