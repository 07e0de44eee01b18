// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"math"
	"sync"
)

// handshake lets the update goroutine wait until the event goroutine has
// rendered a given update.
//
// rendered only grows. Waiters compare with >=, so a render that covers
// several updates, or the release sentinel, satisfies every earlier
// target.
type handshake struct {
	mu       sync.Mutex
	cond     *sync.Cond
	rendered uint64
}

func newHandshake() *handshake {
	h := &handshake{}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// Signal records that update n has been rendered.
func (h *handshake) Signal(n uint64) {
	h.mu.Lock()
	if n > h.rendered {
		h.rendered = n
	}
	h.mu.Unlock()
	h.cond.Broadcast()
}

// Wait blocks until update target has been rendered or Release is called.
func (h *handshake) Wait(target uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for h.rendered < target {
		h.cond.Wait()
	}
}

// Release wakes every waiter for good.
func (h *handshake) Release() {
	h.Signal(math.MaxUint64)
}

// Rendered returns the last rendered update.
func (h *handshake) Rendered() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rendered
}
