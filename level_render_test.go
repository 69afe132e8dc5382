// Copyright © 2024 Galvanized Logic Inc.

package forge

import (
	"testing"

	"github.com/ninthmoon/forge/lin"
	"github.com/ninthmoon/forge/physics"
	"github.com/ninthmoon/forge/render"
)

func testRenderView() *render.RenderView {
	v := &render.RenderView{Width: 1920, Height: 1080}
	v.View = *lin.NewM4I()
	v.Proj.Persp(60, 16.0/9.0, 0.1, 1000)
	v.PrevView = v.View
	v.PrevProj = v.Proj
	v.SetFrustum()
	return v
}

func TestLevelRenderFrameIncludesDrawable(t *testing.T) {
	w := NewWorld(60, physics.AccumulatorMode)
	a := w.Persistent.SpawnActor()
	d := NewDrawable(a, 9, DrawableStatic)
	d.Bounds = lin.AABB{Min: lin.V3{X: -1, Y: -1, Z: -1}, Max: lin.V3{X: 1, Y: 1, Z: 1}}
	a.Root().SetPosition(lin.V3{X: 0, Y: 0, Z: -5}) // the camera looks down -Z.

	view := testRenderView()
	var packet render.FramePacket
	w.Persistent.RenderFrame(&packet, view, 1)

	if len(packet.Opaque) != 1 {
		t.Fatalf("expected one opaque instance, got %d", len(packet.Opaque))
	}
	if packet.Opaque[0].PrimitiveID != 9 {
		t.Fatalf("instance primitive id = %d, want 9", packet.Opaque[0].PrimitiveID)
	}
}

func TestLevelRenderFrameSkipsPendingKillActors(t *testing.T) {
	w := NewWorld(60, physics.AccumulatorMode)
	a := w.Persistent.SpawnActor()
	NewDrawable(a, 3, DrawableStatic)
	a.Root().SetPosition(lin.V3{X: 0, Y: 0, Z: -5}) // in view, so only pending-kill excludes it.
	a.Destroy()

	view := testRenderView()
	var packet render.FramePacket
	w.Persistent.RenderFrame(&packet, view, 1)

	if len(packet.Opaque) != 0 {
		t.Fatalf("expected pending-kill actor's drawable excluded, got %d", len(packet.Opaque))
	}
}
