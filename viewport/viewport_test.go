// Copyright © 2024 Galvanized Logic Inc.

package viewport

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	glfwKeyA       = glfw.KeyA
	glfwButtonLeft = glfw.MouseButtonLeft
)

// fakeWindow is a headless Window stand-in: no real GLFW init is safe to
// run on a test host without a display, so tests exercise the Window
// interface contract against a fake rather than NewGLFWWindow.
type fakeWindow struct {
	events []func(*Input)
	open   bool
}

func (f *fakeWindow) Poll(in *Input) {
	in.reset()
	for _, apply := range f.events {
		apply(in)
	}
	f.events = f.events[:0]
}
func (f *fakeWindow) IsOpen() bool { return f.open }
func (f *fakeWindow) Close()       { f.open = false }

func TestInputResetClearsDownMaps(t *testing.T) {
	in := NewInput()
	in.Down[glfwKeyA] = 3
	in.Buttons[glfwButtonLeft] = 1
	in.Scroll = 2
	in.Resized = true

	in.reset()

	if len(in.Down) != 0 || len(in.Buttons) != 0 {
		t.Fatalf("expected reset to clear down maps, got keys=%v buttons=%v", in.Down, in.Buttons)
	}
	if in.Scroll != 0 || in.Resized {
		t.Errorf("expected scroll and resized flags cleared, got scroll=%v resized=%v", in.Scroll, in.Resized)
	}
}

func TestWindowPollSnapshotsOncePerFrame(t *testing.T) {
	w := &fakeWindow{open: true}
	in := NewInput()

	w.events = append(w.events, func(in *Input) { in.Down[glfwKeyA] = 1 })
	w.Poll(in)
	if in.Down[glfwKeyA] != 1 {
		t.Fatalf("expected key A down after first poll, got %v", in.Down)
	}

	w.Poll(in) // no new events queued: previous frame's down state must not leak.
	if _, ok := in.Down[glfwKeyA]; ok {
		t.Error("expected down map to be cleared on a frame with no new key events")
	}
}
