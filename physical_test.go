// Copyright © 2024 Galvanized Logic Inc.

package forge

import (
	"testing"

	"github.com/ninthmoon/forge/lin"
	"github.com/ninthmoon/forge/physics"
)

func TestPhysicalSyncsSceneTransformFromBody(t *testing.T) {
	w := NewWorld(60, physics.AccumulatorMode)
	a := w.Persistent.SpawnActor()

	body := physics.NewSphere(1, false)
	body.SetPosition(lin.V3{X: 5, Y: 0, Z: 0})
	p := NewPhysical(a, *body)

	for i := 0; i < 30; i++ {
		Tick(w, 1.0/60.0, nil) // lets the deferred AddBody insert, then runs several physics steps.
	}

	got := p.Scene().WorldPosition()
	if got.Y > -0.01 {
		t.Fatalf("expected body to have fallen under gravity by now, got %+v", got)
	}
}

func TestPhysicalPushRequiresInsertedBody(t *testing.T) {
	w := NewWorld(60, physics.AccumulatorMode)
	a := w.Persistent.SpawnActor()
	body := physics.NewSphere(1, false)
	p := NewPhysical(a, *body)

	p.Push(1, 0, 0) // body still pending-add: logs a warning, does not panic.

	Tick(w, 1.0/60.0, nil)
	p.Push(1, 0, 0) // now inserted: should not panic either.
}
