// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package timing

import (
	"fmt"
	"math"
	"time"
)

// FrameTimer paces a loop to a target frame rate.
//
// FrameTimer is not safe for concurrent use. The engine accesses it only
// while holding its state lock.
type FrameTimer struct {
	fps      float64
	vsync    bool
	epoch    time.Time
	lastTick time.Time
	clock    Clock
}

// NewFrameTimer creates a timer targeting fps frames per second, with its
// epoch set to the current time. An fps of zero means unbounded.
// A nil clock uses SystemClock.
//
// NewFrameTimer panics if fps is negative, NaN or infinite.
func NewFrameTimer(fps float64, vsync bool, clock Clock) *FrameTimer {
	mustValidFPS(fps)
	if clock == nil {
		clock = SystemClock{}
	}
	now := clock.Now()
	return &FrameTimer{
		fps:      fps,
		vsync:    vsync,
		epoch:    now,
		lastTick: now,
		clock:    clock,
	}
}

func mustValidFPS(fps float64) {
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps < 0 {
		panic(fmt.Sprintf("timing: invalid fps %v", fps))
	}
}

// FPS returns the target frame rate. Zero means unbounded.
func (t *FrameTimer) FPS() float64 { return t.fps }

// SetFPS changes the target frame rate and resets the epoch.
// It panics under the same conditions as NewFrameTimer.
func (t *FrameTimer) SetFPS(fps float64) {
	mustValidFPS(fps)
	t.fps = fps
	t.Reset()
}

// VSync reports whether presentation should wait for vertical blank.
func (t *FrameTimer) VSync() bool { return t.vsync }

// SetVSync sets the vertical sync preference. The renderer observes the
// change on the next frame and rebuilds its swapchain.
func (t *FrameTimer) SetVSync(vsync bool) { t.vsync = vsync }

// Epoch returns the instant frame zero started.
func (t *FrameTimer) Epoch() time.Time { return t.epoch }

// LastTick returns the boundary most recently returned by NextTick.
func (t *FrameTimer) LastTick() time.Time { return t.lastTick }

// Reset sets the epoch to the current time.
func (t *FrameTimer) Reset() {
	now := t.clock.Now()
	t.epoch = now
	t.lastTick = now
}

// Elapsed returns the time since the epoch.
func (t *FrameTimer) Elapsed() time.Duration {
	return t.clock.Now().Sub(t.epoch)
}

// ElapsedSeconds returns the time since the epoch in seconds.
func (t *FrameTimer) ElapsedSeconds() float64 {
	return t.Elapsed().Seconds()
}

// ElapsedFrames returns the number of frame periods since the epoch,
// including the fraction of the current one. It returns +Inf when the
// timer is unbounded.
func (t *FrameTimer) ElapsedFrames() float64 {
	if t.fps == 0 {
		return math.Inf(1)
	}
	return t.ElapsedSeconds() * t.fps
}

// NextTick returns the first frame boundary strictly after the current
// time. Boundaries fall on epoch + n/fps for integer n. When the timer
// is unbounded NextTick returns the current time.
func (t *FrameTimer) NextTick() time.Time {
	now := t.clock.Now()
	if t.fps == 0 {
		t.lastTick = now
		return now
	}

	n := int64(math.Floor(now.Sub(t.epoch).Seconds()*t.fps)) + 1
	if n < 1 {
		n = 1
	}
	// The float estimate can be off by one near a boundary.
	for !t.tickAt(n).After(now) {
		n++
	}
	for n > 1 && t.tickAt(n-1).After(now) {
		n--
	}

	tick := t.tickAt(n)
	t.lastTick = tick
	return tick
}

// tickAt returns the instant of frame boundary n.
func (t *FrameTimer) tickAt(n int64) time.Time {
	return t.epoch.Add(time.Duration(math.Round(float64(n) * float64(time.Second) / t.fps)))
}

// Sync blocks until tick. If tick has already passed it yields instead.
// Sync never returns before tick.
func (t *FrameTimer) Sync(tick time.Time) {
	d := tick.Sub(t.clock.Now())
	if d <= 0 {
		t.clock.Yield()
		return
	}
	for d > 0 {
		t.clock.Sleep(d)
		d = tick.Sub(t.clock.Now())
	}
}
