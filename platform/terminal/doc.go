// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package terminal is a platform that draws into a text terminal.
//
// The terminal is a single fullscreen window. Each character cell shows
// two vertically stacked pixels using the upper half block glyph with
// 24-bit foreground and background colors, so a terminal of C columns
// and R rows is a C x 2R pixel window. Frames presented by the software
// backend are scaled to that size.
//
// Terminals report key presses only. Each key press is delivered as a
// press immediately followed by a release. Ctrl-C is delivered as a close
// request.
//
// The loop owns the terminal while it runs. Configure the platform logger
// with a handler that writes elsewhere, see [platform.SetLogger].
package terminal
