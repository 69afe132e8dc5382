// Copyright © 2024 Galvanized Logic Inc.

// Package viewport is the thin windowing/input collaborator surface the
// frame scheduler polls once per tick. It owns no window itself — a real
// platform window (GLFW, a mobile shell, a headless test harness) is
// expected to implement Window and feed Input, following the teacher's
// device.Pressed -> vu.Input conversion (input.go's convertInput) and
// app.go's "snapshot once per frame, hand to the game thread" pattern.
package viewport

import "github.com/go-gl/glfw/v3.3/glfw"

// Key and MouseButton are typed against go-gl/glfw's own constants (the
// engine's actual key/button vocabulary) rather than invented enums, per
// the domain stack wiring: a viewport.Input's Down map is keyed by these.
type Key = glfw.Key
type MouseButton = glfw.MouseButton

// Input is the per-frame snapshot the frame scheduler reads. It never
// changes mid-frame: a platform Window accumulates raw events and
// Window.Poll copies them into a fresh Input once per tick, matching
// input.go's convertInput (mouse position, focus, resize, scroll, and a
// down-duration map cleared and refilled every call).
type Input struct {
	Mx, My  int          // current cursor position, in pixels.
	Down    map[Key]int  // keys with events since the last Poll: press/repeat count, or -1 if released.
	Buttons map[MouseButton]int
	Focus   bool
	Resized bool
	Width, Height int
	Scroll  float32
}

// NewInput returns an Input with its maps allocated, ready for repeated
// reuse by Window.Poll.
func NewInput() *Input {
	return &Input{Down: map[Key]int{}, Buttons: map[MouseButton]int{}}
}

// reset clears the down-duration maps before a fresh accumulation pass,
// mirroring input.go's "expected to be cleared and refilled each update".
func (in *Input) reset() {
	for k := range in.Down {
		delete(in.Down, k)
	}
	for b := range in.Buttons {
		delete(in.Buttons, b)
	}
	in.Scroll = 0
	in.Resized = false
}

// Window is implemented by a platform window. The frame scheduler only
// ever calls Poll and IsOpen; window creation and the backend's surface
// handshake are out of scope (the backend binds its own surface
// descriptor to the platform window, as Carmen-Shannon-oxy-go's
// wgpuglfw.GetSurfaceDescriptor does — viewport does not wrap that).
type Window interface {
	// Poll drains pending platform events into in, which the caller owns
	// and reuses across frames.
	Poll(in *Input)
	IsOpen() bool
	Close()
}
