// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command enginedemo runs a small animated scene on the engine.
//
// Usage:
//
//	enginedemo [flags]
//
// Escape or Ctrl-C quits. Space pauses the animation and F toggles
// fullscreen.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/engine"
	_ "github.com/gogpu/engine/backend/native"
	_ "github.com/gogpu/engine/backend/software"
	"github.com/gogpu/engine/batch"
	_ "github.com/gogpu/engine/platform/headless"
	_ "github.com/gogpu/engine/platform/terminal"
	"github.com/gogpu/engine/text"
)

func main() {
	var (
		fps      = flag.Float64("fps", 60, "updates per second, 0 for unbounded")
		vsync    = flag.Bool("vsync", true, "wait for vertical blank when presenting")
		width    = flag.Float64("width", 640, "window width")
		height   = flag.Float64("height", 480, "window height")
		title    = flag.String("title", "enginedemo", "window title")
		plat     = flag.String("platform", "", "event loop platform (terminal, headless); empty picks the best")
		backend  = flag.String("backend", "", "render backend (native, software); empty picks the best")
		ticks    = flag.Uint64("ticks", 0, "stop after this many updates, 0 runs until closed")
		logFile  = flag.String("log", "", "write debug logs to this file")
		logLevel = flag.String("level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	if *logFile != "" {
		closeLog, err := setupLogging(*logFile, *logLevel)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer closeLog()
	}

	d := &demo{face: text.Default(), maxTicks: *ticks}
	err := engine.Run(d,
		engine.WithFPS(*fps),
		engine.WithVSync(*vsync),
		engine.WithSize(*width, *height),
		engine.WithTitle(*title),
		engine.WithPlatform(*plat),
		engine.WithBackend(*backend),
	)
	if err != nil {
		log.Fatalf("Engine stopped: %v", err)
	}
}

// setupLogging sends engine logs to path. Logging goes to a file since
// the terminal platform owns the screen.
func setupLogging(path, level string) (func(), error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	engine.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lv})))
	return func() { _ = f.Close() }, nil
}

// demo bounces a square around the window over a few reference shapes.
type demo struct {
	face     *text.Face
	maxTicks uint64

	x, y   float32
	dx, dy float32
	phase  float64
	paused bool
}

func (d *demo) Update(s *engine.State) bool {
	if s.Tick() == 1 {
		s.SetAtlas(d.face.Texture())
		d.x, d.y, d.dx, d.dy = 10, 10, 3, 2
	}
	if d.maxTicks > 0 && s.Tick() >= d.maxTicks {
		return false
	}

	in := s.Input()
	if in.Pressed(gpucontext.KeyEscape) {
		return false
	}
	if in.Pressed(gpucontext.KeySpace) {
		d.paused = !d.paused
	}
	if in.Pressed(gpucontext.KeyF) {
		s.Window().SetFullscreen(!s.Window().Fullscreen())
	}
	if d.paused {
		return true
	}

	w, h := s.Window().Size()
	const size = 24
	d.x += d.dx
	d.y += d.dy
	if d.x < 0 || d.x+size > float32(w) {
		d.dx = -d.dx
	}
	if d.y < 0 || d.y+size > float32(h) {
		d.dy = -d.dy
	}
	d.phase += 0.05
	return true
}

func (d *demo) Render(s *engine.State) bool {
	b := s.Batch()
	w, h := s.Window().Size()
	fw, fh := float32(w), float32(h)

	b.SetClearColor(gputypes.Color{R: 0.08, G: 0.09, B: 0.12, A: 1})

	// Grid of points.
	dim := batch.RGBA(0.4, 0.4, 0.5, 1)
	for x := float32(0); x < fw; x += 16 {
		for y := float32(0); y < fh; y += 16 {
			b.Point(batch.V(x, y, dim))
		}
	}

	// Sine wave.
	wave := make([]batch.Vertex, 0, 64)
	for i := range 64 {
		t := float64(i) / 63
		y := fh/2 + float32(math.Sin(t*4*math.Pi+d.phase))*fh/6
		wave = append(wave, batch.V(float32(t)*fw, y, batch.RGBA(0.3, 0.8, 1, 1)))
	}
	b.LineStrip(wave...)

	// Spinning fan.
	cx, cy, r := fw*0.75, fh*0.3, min(fw, fh)/8
	fan := []batch.Vertex{batch.V(cx, cy, batch.White)}
	for i := range 9 {
		a := d.phase + float64(i)*math.Pi/4
		c := batch.RGBA(float32(i)/8, 0.5, 1-float32(i)/8, 1)
		fan = append(fan, batch.V(cx+r*float32(math.Cos(a)), cy+r*float32(math.Sin(a)), c))
	}
	b.TriangleFan(fan...)

	// Frame border.
	edge := batch.RGBA(1, 1, 1, 0.6)
	b.LineStrip(
		batch.V(1, 1, edge), batch.V(fw-1, 1, edge),
		batch.V(fw-1, fh-1, edge), batch.V(1, fh-1, edge), batch.V(1, 1, edge))

	b.Quad(d.x, d.y, 24, 24, batch.RGBA(1, 0.6, 0.1, 1))

	stats := s.RenderStats()
	status := fmt.Sprintf("tick %d  frames %d  %.0f fps", s.Tick(), stats.Presented, s.Timer().FPS())
	if d.paused {
		status += "  paused"
	}
	d.face.Draw(b, 4, 4, status, batch.White)
	return true
}
