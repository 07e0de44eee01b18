// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"
)

// Errors returned by the engine.
var (
	// ErrNilGame is returned when Run is given no game.
	ErrNilGame = errors.New("engine: nil game")

	// ErrAlreadyRun is returned when an Engine is run twice.
	ErrAlreadyRun = errors.New("engine: already run")

	// ErrInvalidConfig is wrapped by configuration validation errors.
	ErrInvalidConfig = errors.New("engine: invalid config")
)

// PanicError is a panic recovered from a game callback or a fatal
// rendering failure.
type PanicError struct {
	// Callback names where the panic happened, such as "update" or
	// "render".
	Callback string

	// Value is the value passed to panic.
	Value any

	// Stack is the goroutine stack at the time of the panic.
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("engine: panic in %s: %v", e.Callback, e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
