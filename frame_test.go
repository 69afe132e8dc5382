// Copyright © 2024 Galvanized Logic Inc.

package forge

import (
	"testing"

	"github.com/ninthmoon/forge/physics"
)

type countingComponent struct {
	BaseComponent
	preTicks, postTicks int
}

func newCountingComponent(phases TickPhase) *countingComponent {
	return &countingComponent{BaseComponent: NewBaseComponent(phases)}
}

func (c *countingComponent) Tick(dt float64) {
	if c.Phases()&TickPrePhysics != 0 {
		c.preTicks++
	}
	if c.Phases()&TickPostPhysics != 0 {
		c.postTicks++
	}
}

func TestTickAdvancesClocksAndFiresTimers(t *testing.T) {
	w := NewWorld(60, physics.AccumulatorMode)
	fired := 0
	w.AddTimer(NewTimer(0.05, func() { fired++ }))

	Tick(w, 0.1, nil)

	if w.RunningTime != 0.1 {
		t.Fatalf("running time = %v, want 0.1", w.RunningTime)
	}
	if w.GameplayTime != 0.1 {
		t.Fatalf("gameplay time = %v, want 0.1", w.GameplayTime)
	}
	if fired != 1 {
		t.Fatalf("expected timer to fire once, fired=%d", fired)
	}
}

func TestTickSkipsPausedActorsUnlessFlagged(t *testing.T) {
	w := NewWorld(60, physics.AccumulatorMode)
	w.RequestPause()
	Tick(w, 0.016, nil) // pause-request applies at this frame boundary.

	normal := w.Persistent.SpawnActor()
	comp := newCountingComponent(TickPrePhysics | TickPostPhysics)
	normal.AddComponent(comp)

	alwaysOn := w.Persistent.SpawnActor()
	alwaysOn.SetTickEvenWhenPaused(true)
	alwaysComp := newCountingComponent(TickPrePhysics | TickPostPhysics)
	alwaysOn.AddComponent(alwaysComp)

	Tick(w, 0.016, nil)

	if comp.preTicks != 0 || comp.postTicks != 0 {
		t.Fatalf("expected paused actor's component to not tick, got pre=%d post=%d", comp.preTicks, comp.postTicks)
	}
	// The actor ticks the component once per subscribed phase (pre and
	// post), and each Tick call bumps every counter the phase mask covers,
	// so both counters read 2 after one frame.
	if alwaysComp.preTicks != 2 || alwaysComp.postTicks != 2 {
		t.Fatalf("expected tick-even-when-paused component to tick, got pre=%d post=%d", alwaysComp.preTicks, alwaysComp.postTicks)
	}
	if w.GameplayTime != 0 {
		t.Fatalf("expected gameplay time frozen while paused, got %v", w.GameplayTime)
	}
}

func TestDestroyDefersRemovalUntilKickoff(t *testing.T) {
	w := NewWorld(60, physics.AccumulatorMode)
	a := w.Persistent.SpawnActor()

	a.Destroy()
	if !a.IsPendingKill() {
		t.Fatalf("expected actor to be pending-kill immediately after Destroy")
	}
	found := false
	for _, live := range w.Persistent.Actors() {
		if live == a {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected pending-kill actor to still be reachable before kickoff")
	}

	Tick(w, 0.016, nil)

	for _, live := range w.Persistent.Actors() {
		if live == a {
			t.Fatalf("expected actor removed from level after kickoff")
		}
	}
	for _, live := range w.actors {
		if live == a {
			t.Fatalf("expected actor removed from world after kickoff")
		}
	}
}

func TestLifespanDestroysActorAtZero(t *testing.T) {
	w := NewWorld(60, physics.AccumulatorMode)
	a := w.Persistent.SpawnActor()
	a.SetLifespan(0.02)

	Tick(w, 0.01, nil)
	if a.IsPendingKill() {
		t.Fatalf("expected actor alive before lifespan elapses")
	}

	Tick(w, 0.02, nil)
	if !a.IsPendingKill() {
		t.Fatalf("expected actor pending-kill once lifespan reaches zero")
	}
}
