// Package visualize renders a live capacitance heatmap and touch overlay
// for -visualize debugging. It owns its own SDL2 window and is driven from
// the engine's FrameObserver callback between otherwise-idle reads of the
// serial port; it never runs on its own goroutine.
package visualize

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/colornames"

	"ctma395-touchd/internal/engine"
	"ctma395-touchd/internal/grid"
)

const (
	cellPixels = 16
	windowW    = grid.Cols * cellPixels
	windowH    = grid.Rows * cellPixels
)

// Window is the debug heatmap view. Close it when the daemon exits.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
}

// Open creates the SDL2 window. Call Pump once per loop iteration to keep
// it responsive, and Observe (wired as an engine.FrameObserver) to draw
// each completed frame.
func Open() (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("visualize: sdl init: %w", err)
	}

	window, renderer, err := sdl.CreateWindowAndRenderer(
		windowW, windowH, sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("visualize: create window: %w", err)
	}
	window.SetTitle("ctma395-touchd: capacitance heatmap")

	return &Window{window: window, renderer: renderer}, nil
}

// Pump drains pending SDL events. It never blocks; a quit event just
// closes the window on the next Close call rather than killing the
// daemon, since the debug view is optional.
func (w *Window) Pump() {
	for {
		if e := sdl.PollEvent(); e == nil {
			return
		}
	}
}

// Observe renders one frame: the capacitance grid as a heatmap, with a
// ring drawn over each active touch's position.
func (w *Window) Observe(s *engine.Snapshot) {
	w.renderer.SetDrawColor(0, 0, 0, 255)
	w.renderer.Clear()

	for i := 0; i < grid.Rows; i++ {
		for j := 0; j < grid.Cols; j++ {
			r, g, b := heatColor(s.Matrix.At(i, j))
			w.renderer.SetDrawColor(r, g, b, 255)
			rect := sdl.Rect{
				X: int32(j * cellPixels), Y: int32(i * cellPixels),
				W: cellPixels, H: cellPixels,
			}
			w.renderer.FillRect(&rect)
		}
	}

	for _, tp := range s.Touches {
		if !tp.Active {
			continue
		}
		drawTouchMarker(w.renderer, tp.X, tp.Y)
	}

	w.renderer.Present()
}

// heatColor maps an 8-bit capacitance sample to an RGB color: black for no
// signal, ramping through the cool end of the palette toward the panel's
// alert color at full scale.
func heatColor(v uint8) (r, g, b uint8) {
	if v == 0 {
		return 0, 0, 0
	}
	cool := colornames.Steelblue
	hot := colornames.Orangered
	t := float64(v) / 255.0
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + t*(float64(b)-float64(a)))
	}
	return lerp(cool.R, hot.R), lerp(cool.G, hot.G), lerp(cool.B, hot.B)
}

// drawTouchMarker plots a touch at its screen position (x in [0,1024], y
// in [0,768], per the coordinate transform in internal/peaks), scaled down
// to the heatmap window's pixel grid.
func drawTouchMarker(renderer *sdl.Renderer, x, y float64) {
	c := colornames.Lime
	renderer.SetDrawColor(c.R, c.G, c.B, 255)

	px := int32(x / 1024.0 * windowW)
	py := int32(y / 768.0 * windowH)
	const r = 6
	rect := sdl.Rect{X: px - r, Y: py - r, W: 2 * r, H: 2 * r}
	renderer.FillRect(&rect)
}

// Close destroys the window and shuts down SDL2.
func (w *Window) Close() {
	w.renderer.Destroy()
	w.window.Destroy()
	sdl.Quit()
}
