// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package timing

import (
	"runtime"
	"sync"
	"time"
)

// Clock is the time source used by FrameTimer.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks for at least d. Non-positive durations return immediately.
	Sleep(d time.Duration)

	// Yield gives up the processor without sleeping.
	Yield()
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep calls time.Sleep.
func (SystemClock) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// Yield calls runtime.Gosched.
func (SystemClock) Yield() { runtime.Gosched() }

// ManualClock is a virtual clock. Sleep advances the clock instead of
// blocking, so code paced by a FrameTimer runs as fast as it can while
// observing exact frame boundaries.
//
// ManualClock is safe for concurrent use.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
	yields int
}

// NewManualClock creates a ManualClock starting at start.
// A zero start uses a fixed reference instant.
func NewManualClock(start time.Time) *ManualClock {
	if start.IsZero() {
		start = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &ManualClock{now: start}
}

// Now returns the virtual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the virtual time by d.
func (c *ManualClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps++
	if d > 0 {
		c.now = c.now.Add(d)
	}
}

// Yield records the call and lets other goroutines run.
func (c *ManualClock) Yield() {
	c.mu.Lock()
	c.yields++
	c.mu.Unlock()
	runtime.Gosched()
}

// Advance moves the virtual time forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the virtual time to t.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Sleeps returns how many times Sleep has been called.
func (c *ManualClock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps
}

// Yields returns how many times Yield has been called.
func (c *ManualClock) Yields() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yields
}
