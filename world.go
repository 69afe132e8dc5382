// Copyright © 2024 Galvanized Logic Inc.

package forge

// world.go: World, the top-level container owning the persistent level,
// any streamed levels, the physics simulation, and the two clocks the
// frame scheduler advances. Grounded on app.go's application struct (one
// instance owning every component manager) generalized from a single
// implicit scene into an explicit persistent-plus-streamed Level set per
// spec's level/world split.

import (
	"log/slog"

	"github.com/ninthmoon/forge/lin"
	"github.com/ninthmoon/forge/physics"
)

// World owns a persistent level, zero or more streamed levels, the
// physics simulation, and running/gameplay time.
type World struct {
	ids    idPool
	actors []*Actor

	Persistent *Level
	levels     []*Level

	Physics *physics.World
	Gravity lin.V3

	pauseRequest   bool
	unpauseRequest bool
	Paused         bool

	resetGameplayTimer bool

	RunningTime  float64 // advances every frame.
	GameplayTime float64 // advances only while unpaused.

	timers []*Timer
}

// NewWorld returns a world with its persistent level created and physics
// running at hz steps/second in the given step mode.
func NewWorld(hz float64, mode physics.StepMode) *World {
	w := &World{
		Physics: physics.NewWorld(hz, mode),
		Gravity: lin.V3{X: 0, Y: -9.8, Z: 0},
	}
	w.Persistent = newLevel(w, true)
	return w
}

// RequestPause / RequestUnpause apply at the next frame boundary, per the
// scheduler's pause-request/unpause-request semantics: a pause mid-frame
// never truncates the frame already in flight.
func (w *World) RequestPause()           { w.pauseRequest = true }
func (w *World) RequestUnpause()         { w.unpauseRequest = true }
func (w *World) ResetGameplayTimer()     { w.resetGameplayTimer = true }

// AddLevel adopts level into this world's streamed level set, detaching
// it from any prior owner first. The persistent level can never be added
// (it is always implicitly owned) or removed.
func (w *World) AddLevel(level *Level) {
	if level == w.Persistent || level.persistent {
		slog.Warn("forge: cannot add the persistent level to another world")
		return
	}
	if level.world != nil && level.world != w {
		level.world.RemoveLevel(level)
	}
	level.world = w
	level.worldIdx = len(w.levels)
	w.levels = append(w.levels, level)
}

// RemoveLevel detaches level from this world via swap-with-last.
func (w *World) RemoveLevel(level *Level) {
	if level.persistent {
		slog.Warn("forge: cannot remove the persistent level")
		return
	}
	idx := level.worldIdx
	last := len(w.levels) - 1
	if idx < 0 || idx > last || w.levels[idx] != level {
		return
	}
	w.levels[idx] = w.levels[last]
	w.levels[idx].worldIdx = idx
	w.levels = w.levels[:last]
	level.worldIdx = -1
}

// Levels returns the persistent level followed by every streamed level.
func (w *World) Levels() []*Level {
	all := make([]*Level, 0, len(w.levels)+1)
	all = append(all, w.Persistent)
	return append(all, w.levels...)
}

// AddTimer registers t with this world so the scheduler advances it every
// frame tick.
func (w *World) AddTimer(t *Timer) { w.timers = append(w.timers, t) }

// removeFromWorld unlinks a from World.actors via swap-with-last.
func (w *World) removeFromWorld(a *Actor) {
	last := len(w.actors) - 1
	idx := a.worldIdx
	if idx < 0 || idx > last || w.actors[idx] != a {
		return
	}
	w.actors[idx] = w.actors[last]
	w.actors[idx].worldIdx = idx
	w.actors = w.actors[:last]
}
