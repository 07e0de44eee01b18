// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package platform

import (
	"sort"

	"github.com/gogpu/gpucontext"
)

// Standard platform names.
const (
	Terminal = "terminal"
	Headless = "headless"
)

// platforms holds event loop factories. Interactive platforms come first.
var platforms = gpucontext.NewRegistry[EventLoop](
	gpucontext.WithPriority(Terminal, Headless),
)

// Register adds an event loop factory. It is usually called from an init
// function. Registering an existing name replaces it.
func Register(name string, factory func() EventLoop) {
	platforms.Register(name, factory)
}

// Unregister removes a platform.
func Unregister(name string) {
	platforms.Unregister(name)
}

// Names returns the registered platform names in sorted order.
func Names() []string {
	names := platforms.Available()
	sort.Strings(names)
	return names
}

// New creates an event loop for the named platform. An empty name selects
// the preferred registered platform.
func New(name string) (EventLoop, error) {
	if name == "" {
		name = platforms.BestName()
		if name == "" {
			return nil, ErrNoPlatform
		}
	}
	if !platforms.Has(name) {
		return nil, &NotFoundError{Name: name}
	}
	return platforms.Get(name), nil
}

// NotFoundError indicates a named platform is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "platform: not found: " + e.Name
}
