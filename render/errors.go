// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
)

// Presentation errors returned by backends.
var (
	// ErrOutOfDate means the swapchain no longer matches the surface and
	// must be rebuilt before the frame can be presented.
	ErrOutOfDate = errors.New("render: swapchain out of date")

	// ErrSuboptimal means the frame was presented but the swapchain should
	// be rebuilt before the next one.
	ErrSuboptimal = errors.New("render: swapchain suboptimal")

	// ErrNotReady means no image could be acquired this frame.
	ErrNotReady = errors.New("render: no image ready")
)

// Renderer errors.
var (
	// ErrRetriesExhausted is matched by the error returned when a frame
	// keeps failing after the retry budget is spent.
	ErrRetriesExhausted = errors.New("render: presentation retries exhausted")

	// ErrClosed is returned when rendering after Close.
	ErrClosed = errors.New("render: renderer closed")

	// ErrNilBackend is returned by NewRenderer without a backend.
	ErrNilBackend = errors.New("render: nil backend")
)

// RetryError reports a frame that could not be presented.
type RetryError struct {
	// Attempts is the number of times the frame was tried.
	Attempts int

	// Err is the failure of the last attempt.
	Err error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("render: frame failed after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last failure and ErrRetriesExhausted.
func (e *RetryError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.Err}
}
