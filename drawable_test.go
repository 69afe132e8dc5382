// Copyright © 2024 Galvanized Logic Inc.

package forge

import (
	"testing"

	"github.com/ninthmoon/forge/lin"
	"github.com/ninthmoon/forge/physics"
)

func TestDrawablePrimitiveFollowsSceneTransform(t *testing.T) {
	w := NewWorld(60, physics.AccumulatorMode)
	a := w.Persistent.SpawnActor()
	d := NewDrawable(a, 42, DrawableStatic)
	d.Bounds = lin.AABB{Min: lin.V3{X: -1, Y: -1, Z: -1}, Max: lin.V3{X: 1, Y: 1, Z: 1}}

	a.Root().SetPosition(lin.V3{X: 10, Y: 0, Z: 0})
	prim := d.Primitive()

	if prim.ID != 42 {
		t.Fatalf("primitive id = %d, want 42", prim.ID)
	}
	if prim.Bounds.Min.X != 9 || prim.Bounds.Max.X != 11 {
		t.Fatalf("expected bounds offset by root position, got %+v", prim.Bounds)
	}
}

func TestLightItemBoundsCenteredOnWorldPosition(t *testing.T) {
	w := NewWorld(60, physics.AccumulatorMode)
	a := w.Persistent.SpawnActor()
	l := NewLight(a, 7, LightPoint)
	l.Radius = 5
	a.Root().SetPosition(lin.V3{X: 0, Y: 10, Z: 0})

	item := l.Item(*lin.NewM4I())
	if item.Bounds.Min.Y != 5 || item.Bounds.Max.Y != 15 {
		t.Fatalf("expected light bounds centered at y=10 with radius 5, got %+v", item.Bounds)
	}
}
