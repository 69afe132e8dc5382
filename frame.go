// Copyright © 2024 Galvanized Logic Inc.

package forge

// frame.go: the single-threaded cooperative frame scheduler that drives a
// World. Grounded on app.go's application.update (apply input, step
// physics/particles at a fixed rate, call the application, swap prev
// state, reset profiling) generalized into the full pause/timer/actor/
// level/kickoff ordering spec's frame scheduler describes, since vu's
// update has no explicit levels, timers, or pending-kill kickoff phase.

import "github.com/ninthmoon/forge/physics"

// Tick advances world by one frame of elapsed seconds, in order:
// apply pause/unpause requests, advance clocks, fire due timers, tick
// actors around a physics step, tick levels, then kick off anything
// marked pending-kill during the frame.
func Tick(w *World, elapsed float64, dispatch func(physics.Event)) {
	applyPauseRequests(w)

	w.RunningTime += elapsed
	if w.resetGameplayTimer {
		w.GameplayTime = 0
		w.resetGameplayTimer = false
	} else if !w.Paused {
		w.GameplayTime += elapsed
	}

	for _, t := range w.timers {
		t.tick(elapsed)
	}

	tickActors(w, elapsed, dispatch)

	for _, lvl := range w.Levels() {
		tickLevelStreaming(lvl)
	}

	for _, lvl := range w.Levels() {
		lvl.kickoff()
	}
}

func applyPauseRequests(w *World) {
	if w.pauseRequest {
		w.Paused = true
		w.pauseRequest = false
	}
	if w.unpauseRequest {
		w.Paused = false
		w.unpauseRequest = false
	}
}

// tickActors runs pre-physics ticks, steps physics once, then runs
// post-physics ticks, skipping actors that are pending-kill or paused out
// (unless flagged to tick regardless).
func tickActors(w *World, dt float64, dispatch func(physics.Event)) {
	live := func(a *Actor) bool {
		if a.pendingKill {
			return false
		}
		return !w.Paused || a.tickEvenWhenPaused
	}
	for _, a := range w.actors {
		if live(a) {
			a.tickPrePhysics(dt)
		}
	}
	w.Physics.Tick(dt, dispatch)
	for _, a := range w.actors {
		if live(a) {
			a.tickPostPhysics(dt)
		}
	}
}

// tickLevelStreaming advances level-scoped systems (navmesh updates,
// streaming) — a hook for future levels; the base Level has nothing to
// advance on its own today.
func tickLevelStreaming(l *Level) {}
