// Copyright © 2024 Galvanized Logic Inc.

package viewport

// glfw_window.go wires viewport.Window to go-gl/glfw, following the
// callback-into-accumulator shape of window_glfw.go (key/mouse/scroll/
// resize callbacks write into mutable state; Poll — this package's
// equivalent of that file's platformProcessMessages — then snapshots it).

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type glfwWindow struct {
	win     *glfw.Window
	pending Input
	open    bool
}

// NewGLFWWindow creates a GLFW window with no client graphics API bound
// (the backend owns the WebGPU surface), matching window_glfw.go's
// glfw.ClientAPI/glfw.NoAPI hint.
func NewGLFWWindow(width, height int, title string) (*glfwWindow, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("viewport: glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("viewport: create window: %w", err)
	}
	w := &glfwWindow{win: win, open: true}
	w.pending.Down = map[Key]int{}
	w.pending.Buttons = map[MouseButton]int{}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press, glfw.Repeat:
			w.pending.Down[key] = w.pending.Down[key] + 1
		case glfw.Release:
			w.pending.Down[key] = -1
		}
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			w.pending.Buttons[button] = w.pending.Buttons[button] + 1
		case glfw.Release:
			w.pending.Buttons[button] = -1
		}
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.pending.Mx, w.pending.My = int(xpos), int(ypos)
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		w.pending.Scroll += float32(yoff)
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.pending.Width, w.pending.Height = width, height
		w.pending.Resized = true
	})

	fbw, fbh := win.GetFramebufferSize()
	w.pending.Width, w.pending.Height = fbw, fbh
	return w, nil
}

// Poll drains queued GLFW events, resets in and copies the accumulated
// state into it, then clears the accumulated state for the next frame.
func (w *glfwWindow) Poll(in *Input) {
	glfw.PollEvents()
	in.reset()
	in.Mx, in.My = w.pending.Mx, w.pending.My
	in.Width, in.Height = w.pending.Width, w.pending.Height
	in.Resized = w.pending.Resized
	in.Scroll = w.pending.Scroll
	for k, v := range w.pending.Down {
		in.Down[k] = v
	}
	for b, v := range w.pending.Buttons {
		in.Buttons[b] = v
	}
	w.pending.reset()
	if w.win.ShouldClose() {
		w.open = false
	}
}

func (w *glfwWindow) IsOpen() bool { return w.open }

func (w *glfwWindow) Close() {
	if !w.open {
		return
	}
	w.open = false
	w.win.Destroy()
	glfw.Terminate()
	slog.Info("viewport: window closed")
}
