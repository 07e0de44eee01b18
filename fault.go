// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"os"
	"runtime/debug"
	"sync"
)

// exitOnDoubleFault is the default double fault hook.
func exitOnDoubleFault(first, second *PanicError) {
	Logger().Error("engine: panic while another is pending, exiting",
		"first", first.Error(),
		"second", second.Error(),
		"stack", string(second.Stack))
	os.Exit(2)
}

// faultGuard runs callbacks, recovering panics. The first panic is kept
// until Run returns it; a second one calls doubleFault.
type faultGuard struct {
	mu      sync.Mutex
	pending *PanicError

	// onFault is called once, after the first panic is stored.
	onFault func(*PanicError)

	// doubleFault is called for a panic that arrives while another is
	// pending. It is not expected to return.
	doubleFault func(first, second *PanicError)
}

// Do calls fn and reports whether it returned normally. A panic in fn is
// recorded under the given callback name.
func (g *faultGuard) Do(callback string, fn func()) (ok bool) {
	defer func() {
		if v := recover(); v != nil {
			g.record(&PanicError{Callback: callback, Value: v, Stack: debug.Stack()})
			ok = false
		}
	}()
	fn()
	return true
}

func (g *faultGuard) record(p *PanicError) {
	g.mu.Lock()
	first := g.pending
	if first == nil {
		g.pending = p
	}
	g.mu.Unlock()

	if first != nil {
		hook := g.doubleFault
		if hook == nil {
			hook = exitOnDoubleFault
		}
		hook(first, p)
		return
	}

	Logger().Error("engine: panic in callback", "callback", p.Callback, "value", p.Value)
	if g.onFault != nil {
		g.onFault(p)
	}
}

// Err returns the pending panic, or nil.
func (g *faultGuard) Err() *PanicError {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}
