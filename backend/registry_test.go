// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/engine/render"
)

type stubBackend struct {
	render.Backend
	name string
}

func (s *stubBackend) Name() string { return s.name }

func stubFactory(name string) Factory {
	return func(gpucontext.WindowProvider) (render.Backend, error) {
		return &stubBackend{name: name}, nil
	}
}

func failingFactory(err error) Factory {
	return func(gpucontext.WindowProvider) (render.Backend, error) {
		return nil, err
	}
}

func TestRegistryPriorityOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, stubFactory("low"), nil)
	r.Register("high", 100, stubFactory("high"), nil)
	r.Register("off", 200, stubFactory("off"), func() bool { return false })

	if got, want := r.List(), []string{"off", "high", "low"}; !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if got, want := r.Available(), []string{"high", "low"}; !slices.Equal(got, want) {
		t.Errorf("Available() = %v, want %v", got, want)
	}

	b, err := r.New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if b.Name() != "high" {
		t.Errorf("New() selected %q, want high", b.Name())
	}
}

func TestRegistryFallsBack(t *testing.T) {
	r := NewRegistry()
	gpuErr := errors.New("no adapter")
	r.Register(Native, PriorityGPU, failingFactory(gpuErr), nil)
	r.Register(Software, PrioritySoftware, stubFactory(Software), nil)

	b, err := r.New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if b.Name() != Software {
		t.Errorf("New() selected %q, want %q", b.Name(), Software)
	}

	r.Unregister(Software)
	if _, err := r.New(nil); !errors.Is(err, gpuErr) {
		t.Errorf("New() error = %v, want %v", err, gpuErr)
	}
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.New(nil); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("New() on empty registry error = %v, want ErrNoBackendAvailable", err)
	}

	var nf *NotFoundError
	if _, err := r.NewByName("vulkan", nil); !errors.As(err, &nf) || nf.Name != "vulkan" {
		t.Errorf("NewByName() error = %v, want NotFoundError", err)
	}

	r.Register("off", 1, stubFactory("off"), func() bool { return false })
	var ue *UnavailableError
	if _, err := r.NewByName("off", nil); !errors.As(err, &ue) {
		t.Errorf("NewByName() error = %v, want UnavailableError", err)
	}
}
