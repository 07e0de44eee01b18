// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package timing provides drift-free frame pacing for the engine loop.
//
// A [FrameTimer] divides time since its epoch into equal frame periods and
// reports the next exact boundary. Boundaries are always computed from the
// epoch as integer multiples of the period, so rounding error never
// accumulates across frames:
//
//	timer := timing.NewFrameTimer(60, true, nil)
//	for running {
//	    next := timer.NextTick()
//	    update()
//	    timer.Sync(next)
//	}
//
// An fps of zero means unbounded: NextTick returns the current time and
// Sync only yields the processor.
//
// Time is read through the [Clock] interface. [SystemClock] uses the
// wall clock; [ManualClock] is a virtual clock for deterministic tests.
package timing
