// Copyright © 2024 Galvanized Logic Inc.

package physics

import (
	"testing"

	"github.com/ninthmoon/forge/lin"
)

func TestWorldAddBodyIsDeferredUntilTick(t *testing.T) {
	w := NewWorld(60, AccumulatorMode)
	id := w.AddBody(*NewSphere(1, false))
	if w.Body(id) != nil {
		t.Fatal("body should not be live before the first Tick")
	}
	w.Tick(1.0/60.0, nil)
	if w.Body(id) == nil {
		t.Fatal("body should be live after Tick flushes the pending-add list")
	}
}

func TestWorldRemoveBodyCancelsPendingAdd(t *testing.T) {
	w := NewWorld(60, AccumulatorMode)
	id := w.AddBody(*NewSphere(1, false))
	w.RemoveBody(id)
	w.Tick(1.0/60.0, nil)
	if w.Body(id) != nil {
		t.Fatal("removed pending body should never become live")
	}
}

func TestWorldDispatchesBeginUpdateEnd(t *testing.T) {
	w := NewWorld(60, AccumulatorMode)
	w.EnableCollisions = false // isolate broadphase+event logic from the solver.

	floor := NewBox(10, 1, 10, true)
	floor.SetPosition(lin.V3{X: 0, Y: -1, Z: 0}).SetActor(1).SetWantsEvents(true)
	ball := NewSphere(1, true) // static so it never leaves the overlap.
	ball.SetPosition(lin.V3{X: 0, Y: 0, Z: 0}).SetActor(2).SetWantsEvents(true)

	w.AddBody(*floor)
	w.AddBody(*ball)

	var kinds []EventKind
	dispatch := func(e Event) { kinds = append(kinds, e.Kind) }

	w.Tick(1.0/60.0, dispatch) // flush pending, first overlap -> begin
	if len(kinds) != 1 || kinds[0] != EventBegin {
		t.Fatalf("expected a single begin event, got %v", kinds)
	}

	kinds = nil
	w.Tick(1.0/60.0, dispatch) // still overlapping -> update
	if len(kinds) != 1 || kinds[0] != EventUpdate {
		t.Fatalf("expected a single update event, got %v", kinds)
	}

	kinds = nil
	w.RemoveBody(BodyID(1))
	w.Tick(1.0/60.0, dispatch) // ball removed -> end
	if len(kinds) != 1 || kinds[0] != EventEnd {
		t.Fatalf("expected a single end event, got %v", kinds)
	}
}

func TestWorldCollisionFilterIgnoresDisjointMasks(t *testing.T) {
	w := NewWorld(60, AccumulatorMode)
	w.EnableCollisions = false

	a := NewSphere(1, true)
	a.SetPosition(lin.V3{}).SetFilter(1, 1).SetWantsEvents(true)
	b := NewSphere(1, true)
	b.SetPosition(lin.V3{}).SetFilter(2, 2).SetWantsEvents(true)

	w.AddBody(*a)
	w.AddBody(*b)

	var events int
	w.Tick(1.0/60.0, func(Event) { events++ })
	if events != 0 {
		t.Fatalf("bodies with disjoint group/mask should never generate events, got %d", events)
	}
}

func TestWorldTraceRayClosestHitsNearestBody(t *testing.T) {
	w := NewWorld(60, AccumulatorMode)
	near := NewSphere(1, true)
	near.SetPosition(lin.V3{X: 0, Y: 0, Z: 5})
	far := NewSphere(1, true)
	far.SetPosition(lin.V3{X: 0, Y: 0, Z: 10})
	w.AddBody(*near)
	w.AddBody(*far)
	w.Tick(1.0/60.0, nil)

	hit, ok := w.TraceRayClosest(lin.V3{X: 0, Y: 0, Z: -5}, lin.V3{X: 0, Y: 0, Z: 1})
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Body != BodyID(0) {
		t.Errorf("expected the nearer body (id 0) to be hit first, got %v", hit.Body)
	}
}

func TestWorldQueryBodiesFindsOverlappingSpheres(t *testing.T) {
	w := NewWorld(60, AccumulatorMode)
	inside := NewSphere(1, true)
	inside.SetPosition(lin.V3{X: 1, Y: 0, Z: 0})
	outside := NewSphere(1, true)
	outside.SetPosition(lin.V3{X: 100, Y: 0, Z: 0})
	w.AddBody(*inside)
	w.AddBody(*outside)
	w.Tick(1.0/60.0, nil)

	found := w.QueryBodies(lin.V3{}, 5)
	if len(found) != 1 || found[0] != BodyID(0) {
		t.Errorf("expected only the inside body to be found, got %v", found)
	}
}

func TestWorldApplyRadialDamageCallsActorsInRange(t *testing.T) {
	w := NewWorld(60, AccumulatorMode)
	victim := NewSphere(1, true)
	victim.SetPosition(lin.V3{X: 2, Y: 0, Z: 0}).SetActor(42)
	w.AddBody(*victim)
	w.Tick(1.0/60.0, nil)

	var hitActor uint64
	var hitAmount float64
	w.ApplyRadialDamage(50, lin.V3{}, 10, func(actor uint64, amount float64, center lin.V3) {
		hitActor, hitAmount = actor, amount
	})
	if hitActor != 42 || hitAmount != 50 {
		t.Errorf("expected actor 42 to take 50 damage, got actor=%d amount=%v", hitActor, hitAmount)
	}
}

func TestWorldTraceShapeWidensHitRadius(t *testing.T) {
	w := NewWorld(60, AccumulatorMode)
	target := NewSphere(1, true)
	target.SetPosition(lin.V3{X: 3, Y: 0, Z: 5})
	w.AddBody(*target)
	w.Tick(1.0/60.0, nil)

	if hits := w.TraceShape(lin.V3{X: 0, Y: 0, Z: -5}, lin.V3{X: 0, Y: 0, Z: 1}, 0.5); len(hits) != 0 {
		t.Errorf("expected a thin ray to miss an off-axis sphere, got %v", hits)
	}
	hits := w.TraceShape(lin.V3{X: 0, Y: 0, Z: -5}, lin.V3{X: 0, Y: 0, Z: 1}, 5)
	if len(hits) != 1 || hits[0].Body != BodyID(0) {
		t.Errorf("expected the widened sweep to hit the off-axis sphere, got %v", hits)
	}
}
