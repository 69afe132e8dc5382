// Copyright © 2024 Galvanized Logic Inc.

package physics

import (
	"testing"

	"github.com/ninthmoon/forge/lin"
)

// A sphere dropped above a fixed box should come to rest on top of it.
func TestSimulateSphereRestsOnBox(t *testing.T) {
	floor := NewBox(50, 1, 50, true)
	floor.SetPosition(lin.V3{X: 0, Y: -1, Z: 0})

	ball := NewSphere(1, false)
	ball.SetPosition(lin.V3{X: 0, Y: 10, Z: 0})

	bodies := []Body{*floor, *ball}
	for i := 0; i < 600; i++ {
		Simulate(bodies, 1.0/60.0)
	}

	// The floor's top face is at y=0 (centre -1, half-height 1), so a
	// radius-1 ball rests with its centre at y=1.
	resting := bodies[1].Position()
	if resting.Y < 0.9 || resting.Y > 1.1 {
		t.Errorf("ball expected to rest near y=1, got y=%.3f", resting.Y)
	}
}

// A fixed body never integrates, regardless of applied forces.
func TestSimulateFixedBodyDoesNotMove(t *testing.T) {
	anchor := NewSphere(1, true)
	anchor.SetPosition(lin.V3{X: 3, Y: 3, Z: 3})
	start := anchor.Position()

	bodies := []Body{*anchor}
	for i := 0; i < 120; i++ {
		Simulate(bodies, 1.0/60.0)
	}

	end := bodies[0].Position()
	if !start.Aeq(&end) {
		t.Errorf("fixed body moved: start=%v end=%v", start, end)
	}
}

// Two spheres approaching each other broadphase-overlap once they are
// within the sum of their bounding radii.
func TestBroadGetCollisionPairsFindsOverlap(t *testing.T) {
	a := body_create_ex(lin.V3{X: 0, Y: 0, Z: 0}, *lin.NewQ(), lin.V3{X: 1, Y: 1, Z: 1}, 1,
		[]collider{collider_sphere_create(1)}, 0.5, 0.5, 0, false)
	b := body_create_ex(lin.V3{X: 1.5, Y: 0, Z: 0}, *lin.NewQ(), lin.V3{X: 1, Y: 1, Z: 1}, 1,
		[]collider{collider_sphere_create(1)}, 0.5, 0.5, 0, false)

	pairs := broad_get_collision_pairs([]Body{*a, *b})
	if len(pairs) != 1 {
		t.Fatalf("expected 1 broadphase pair, got %d", len(pairs))
	}

	c := body_create_ex(lin.V3{X: 100, Y: 0, Z: 0}, *lin.NewQ(), lin.V3{X: 1, Y: 1, Z: 1}, 1,
		[]collider{collider_sphere_create(1)}, 0.5, 0.5, 0, false)
	pairs = broad_get_collision_pairs([]Body{*a, *c})
	if len(pairs) != 0 {
		t.Fatalf("expected 0 broadphase pairs for distant bodies, got %d", len(pairs))
	}
}

// broad_get_collision_pairs excludes a pair whose group/mask never
// intersect, before narrow phase ever sees it.
func TestBroadGetCollisionPairsHonorsFilter(t *testing.T) {
	a := body_create_ex(lin.V3{X: 0, Y: 0, Z: 0}, *lin.NewQ(), lin.V3{X: 1, Y: 1, Z: 1}, 1,
		[]collider{collider_sphere_create(1)}, 0.5, 0.5, 0, false)
	b := body_create_ex(lin.V3{X: 0.5, Y: 0, Z: 0}, *lin.NewQ(), lin.V3{X: 1, Y: 1, Z: 1}, 1,
		[]collider{collider_sphere_create(1)}, 0.5, 0.5, 0, false)
	a.group, a.mask = 1, 1
	b.group, b.mask = 2, 2

	pairs := broad_get_collision_pairs([]Body{*a, *b})
	if len(pairs) != 0 {
		t.Fatalf("expected a disjoint group/mask pair to be excluded, got %d", len(pairs))
	}

	b.group, b.mask = 1, 1
	pairs = broad_get_collision_pairs([]Body{*a, *b})
	if len(pairs) != 1 {
		t.Fatalf("expected a matching group/mask pair to be included, got %d", len(pairs))
	}
}

// A trigger body reports overlap (exercised at the World layer) but never
// receives the solver's impulse response, so a ball marked as a trigger
// falls straight through a fixed box instead of resting on it.
func TestSimulateTriggerBodyPassesThroughFixedBody(t *testing.T) {
	floor := NewBox(50, 1, 50, true)
	floor.SetPosition(lin.V3{X: 0, Y: -1, Z: 0})

	ball := NewSphere(1, false)
	ball.SetPosition(lin.V3{X: 0, Y: 10, Z: 0})
	ball.trigger = true

	bodies := []Body{*floor, *ball}
	for i := 0; i < 600; i++ {
		Simulate(bodies, 1.0/60.0)
	}

	final := bodies[1].Position()
	if final.Y > -5 {
		t.Errorf("trigger ball expected to fall through the floor, got y=%.3f", final.Y)
	}
}
