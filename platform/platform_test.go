// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package platform

import (
	"errors"
	"slices"
	"testing"
)

type stubLoop struct {
	EventLoop
	name string
}

func TestEnterSingleSlot(t *testing.T) {
	a := &stubLoop{name: "a"}
	b := &stubLoop{name: "b"}

	release, err := Enter(a)
	if err != nil {
		t.Fatalf("Enter(a) error = %v", err)
	}
	if Current() != a {
		t.Error("Current() should be a")
	}
	if _, err := Enter(b); !errors.Is(err, ErrLoopActive) {
		t.Errorf("Enter(b) error = %v, want ErrLoopActive", err)
	}

	release()
	release()
	if Current() != nil {
		t.Error("Current() should be nil after release")
	}

	release, err = Enter(b)
	if err != nil {
		t.Fatalf("Enter(b) after release error = %v", err)
	}
	defer release()
	if Current() != b {
		t.Error("Current() should be b")
	}
}

func TestRegistry(t *testing.T) {
	Register("stub-x", func() EventLoop { return &stubLoop{name: "x"} })
	defer Unregister("stub-x")

	if !slices.Contains(Names(), "stub-x") {
		t.Errorf("Names() = %v, missing stub-x", Names())
	}
	loop, err := New("stub-x")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if loop.(*stubLoop).name != "x" {
		t.Error("New() returned the wrong loop")
	}

	var nf *NotFoundError
	if _, err := New("wayland"); !errors.As(err, &nf) {
		t.Errorf("New(wayland) error = %v, want NotFoundError", err)
	}
}

func TestRegistryPrefersTerminal(t *testing.T) {
	Register(Headless, func() EventLoop { return &stubLoop{name: Headless} })
	Register(Terminal, func() EventLoop { return &stubLoop{name: Terminal} })
	defer Unregister(Headless)
	defer Unregister(Terminal)

	loop, err := New("")
	if err != nil {
		t.Fatalf("New(\"\") error = %v", err)
	}
	if got := loop.(*stubLoop).name; got != Terminal {
		t.Errorf("New(\"\") = %s, want %s", got, Terminal)
	}
}
