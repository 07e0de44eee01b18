// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package batch

import "iter"

// Runs yields the index runs of a strip or fan list, split at each
// RestartIndex. Empty runs are skipped.
func Runs(indices []uint16) iter.Seq[[]uint16] {
	return func(yield func([]uint16) bool) {
		start := 0
		for i, idx := range indices {
			if idx != RestartIndex {
				continue
			}
			if i > start && !yield(indices[start:i]) {
				return
			}
			start = i + 1
		}
		if start < len(indices) {
			yield(indices[start:])
		}
	}
}

// FanTriangles appends to dst a triangle list equivalent to the fans in
// indices and returns the extended slice.
func FanTriangles(dst, indices []uint16) []uint16 {
	for run := range Runs(indices) {
		for i := 1; i+1 < len(run); i++ {
			dst = append(dst, run[0], run[i], run[i+1])
		}
	}
	return dst
}

// StripTriangles appends to dst a triangle list equivalent to the strips
// in indices and returns the extended slice. Every other triangle has its
// first two vertices swapped to keep a consistent winding.
func StripTriangles(dst, indices []uint16) []uint16 {
	for run := range Runs(indices) {
		for i := 0; i+2 < len(run); i++ {
			if i%2 == 0 {
				dst = append(dst, run[i], run[i+1], run[i+2])
			} else {
				dst = append(dst, run[i+1], run[i], run[i+2])
			}
		}
	}
	return dst
}

// StripSegments appends to dst a line list equivalent to the line strips
// in indices and returns the extended slice.
func StripSegments(dst, indices []uint16) []uint16 {
	for run := range Runs(indices) {
		for i := 0; i+1 < len(run); i++ {
			dst = append(dst, run[i], run[i+1])
		}
	}
	return dst
}
