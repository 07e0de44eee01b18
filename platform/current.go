// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package platform

import "sync"

// The running event loop. Only one loop may pump events per process.
var (
	currentMu   sync.Mutex
	currentLoop EventLoop
)

// Enter marks loop as the running event loop. Implementations call it at
// the top of Run and call the returned release function when Run returns.
// It fails with ErrLoopActive if another loop is running.
func Enter(loop EventLoop) (release func(), err error) {
	currentMu.Lock()
	defer currentMu.Unlock()

	if currentLoop != nil {
		return nil, ErrLoopActive
	}
	currentLoop = loop

	var once sync.Once
	return func() {
		once.Do(func() {
			currentMu.Lock()
			defer currentMu.Unlock()
			if currentLoop == loop {
				currentLoop = nil
			}
		})
	}, nil
}

// Current returns the running event loop, or nil.
func Current() EventLoop {
	currentMu.Lock()
	defer currentMu.Unlock()
	return currentLoop
}
