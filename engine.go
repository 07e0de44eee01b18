// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/engine/backend"
	"github.com/gogpu/engine/platform"
	"github.com/gogpu/engine/render"
	"github.com/gogpu/engine/timing"
)

// Engine runs one game. Create it with New; it can be run once.
type Engine struct {
	cfg Config

	// mu guards game and state. Update holds it for writing on the update
	// goroutine, Render on the event goroutine.
	mu    sync.RWMutex
	game  Game
	state *State

	loopMu sync.Mutex
	loop   platform.EventLoop

	// Set on the event goroutine before started is closed.
	window   platform.Window
	renderer *render.Renderer
	startErr error

	started  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	stopping atomic.Bool
	ran      atomic.Bool

	// updates counts finished updates.
	updates atomic.Uint64
	vsync   *handshake
	input   inputQueue
	faults  faultGuard
}

// New creates an engine with cfg.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:     cfg,
		started: make(chan struct{}),
		done:    make(chan struct{}),
		vsync:   newHandshake(),
	}
	e.faults.onFault = func(*PanicError) { e.Stop() }
	return e, nil
}

// Run creates an engine from the default configuration modified by opts
// and runs game on it.
func Run(game Game, opts ...Option) error {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	e, err := New(cfg)
	if err != nil {
		return err
	}
	return e.Run(game)
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Run runs game until it stops, its window is closed or Stop is called.
// It returns a *PanicError if a callback panicked or rendering failed.
func (e *Engine) Run(game Game) error {
	if game == nil {
		return ErrNilGame
	}
	if !e.ran.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}

	loop := e.cfg.EventLoop
	if loop == nil {
		l, err := platform.New(e.cfg.Platform)
		if err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		loop = l
	}
	e.loopMu.Lock()
	e.loop = loop
	e.loopMu.Unlock()

	e.game = game
	e.state = newState(e, timing.NewFrameTimer(e.cfg.FPS, e.cfg.VSync, e.cfg.Clock))

	Logger().Debug("engine: run",
		"fps", e.cfg.FPS,
		"vsync", e.cfg.VSync,
		"platform", e.cfg.Platform,
		"backend", e.cfg.Backend)

	var g errgroup.Group
	g.Go(e.runEvents)
	g.Go(e.runUpdates)
	err := g.Wait()

	if p := e.faults.Err(); p != nil {
		return p
	}
	if e.startErr != nil {
		return e.startErr
	}
	return err
}

// Stop asks the engine to shut down. It may be called from any goroutine
// and more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.stopping.Store(true)
		close(e.done)

		e.loopMu.Lock()
		loop := e.loop
		e.loopMu.Unlock()
		if loop != nil {
			loop.RequestStop()
		}
		e.vsync.Release()
		Logger().Debug("engine: stop requested")
	})
}

// Stopping reports whether Stop has been called.
func (e *Engine) Stopping() bool { return e.stopping.Load() }

// runEvents runs the event loop on a locked OS thread.
func (e *Engine) runEvents() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// The loop may end without Stop, for example when it fails to start.
	defer e.Stop()

	if err := e.loop.Run(&eventHandler{e: e}); err != nil {
		return fmt.Errorf("engine: event loop: %w", err)
	}
	return nil
}

// runUpdates ticks the game on a locked OS thread.
func (e *Engine) runUpdates() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	select {
	case <-e.started:
	case <-e.done:
		return nil
	}

	e.mu.Lock()
	timer := e.state.timer
	timer.Reset()
	e.mu.Unlock()

	for !e.stopping.Load() {
		target, next, ok := e.update()
		if !ok {
			e.Stop()
			break
		}
		e.window.RequestRedraw()
		e.vsync.Wait(target)
		if e.stopping.Load() {
			break
		}
		timer.Sync(next)
	}
	return nil
}

// update runs one tick. It returns the update count the next frame must
// render and the deadline of the following tick, or ok false to stop.
func (e *Engine) update() (target uint64, next time.Time, ok bool) {
	events := e.input.drain()

	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	st.input = st.input.next(events)
	st.tick = e.updates.Load() + 1

	var cont bool
	if !e.faults.Do("update", func() { cont = e.game.Update(st) }) || !cont {
		return 0, time.Time{}, false
	}
	next = st.timer.NextTick()
	return e.updates.Add(1), next, true
}

// start opens the window and creates the renderer. It runs on the event
// goroutine from the loop's Start callback.
func (e *Engine) start(loop platform.EventLoop) error {
	cfg := e.cfg
	w, err := loop.OpenWindow(platform.WindowConfig{
		Name:       cfg.Title,
		Rect:       platform.Rect{Width: cfg.Width, Height: cfg.Height},
		Fullscreen: cfg.Fullscreen,
	})
	if err != nil {
		return fmt.Errorf("engine: open window: %w", err)
	}

	be, err := backend.NewByName(cfg.Backend, w)
	if err != nil {
		w.Close()
		return fmt.Errorf("engine: %w", err)
	}
	r, err := render.NewRenderer(be, w, cfg.VSync,
		render.WithMaxRetries(cfg.MaxPresentRetries),
		render.WithFramesInFlight(cfg.FramesInFlight))
	if err != nil {
		w.Close()
		return fmt.Errorf("engine: create renderer: %w", err)
	}

	e.mu.Lock()
	e.state.screens = loop.Screens()
	e.state.window.observe(w)
	e.mu.Unlock()

	e.window = w
	e.renderer = r
	Logger().Info("engine: started",
		"backend", be.Name(),
		"window", w.Rect().String(),
		"screens", len(e.state.screens))
	close(e.started)
	return nil
}

// redraw renders one frame on the event goroutine.
//
// The frame is built and rendered under the write lock, which yields the
// window changes to apply. The vsync waiter is released before the
// changes are applied under a read lock.
func (e *Engine) redraw() {
	token, rendered, cont := e.renderLocked()
	e.vsync.Signal(rendered)

	if !token.empty() {
		e.mu.RLock()
		token.apply(e.window)
		e.mu.RUnlock()
	}
	if !cont {
		e.Stop()
	}
}

func (e *Engine) renderLocked() (windowToken, uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	st.batch.Clear()
	cont := e.game.Render(st)

	if tex := st.atlas; tex != nil {
		st.atlas = nil
		if err := e.renderer.UpdateAtlas(tex); err != nil {
			panic(fmt.Errorf("engine: update atlas: %w", err))
		}
	}
	// A vsync change made by the game rebuilds the swapchain on this frame.
	e.renderer.SetVSync(st.timer.VSync())
	if err := e.renderer.Render(st.batch); err != nil {
		panic(fmt.Errorf("engine: render: %w", err))
	}
	st.stats = e.renderer.Stats()
	return st.window.take(), e.updates.Load(), cont
}

// teardown releases the renderer, then the window. It runs on the event
// goroutine and is idempotent.
func (e *Engine) teardown() {
	if r := e.renderer; r != nil {
		e.renderer = nil
		if err := r.Close(); err != nil {
			Logger().Warn("engine: close renderer", "err", err)
		}
	}
	if e.window != nil {
		e.window.Close()
	}
}
