// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package headless is an in-process platform with no display.
//
// Windows are plain memory: resizing, fullscreen and closing take effect
// immediately and are reported back through the handler like a real
// window system would. Input is synthesized with the Loop's Inject
// methods, which are safe to call from any goroutine, making the platform
// suitable for tests and offscreen rendering.
//
// Frames drawn by the software backend are kept on the window and can be
// read with [Window.Frame].
package headless
