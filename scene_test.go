// Copyright © 2024 Galvanized Logic Inc.

package forge

import (
	"testing"

	"github.com/ninthmoon/forge/lin"
)

func TestSceneComponentWorldPositionFollowsParent(t *testing.T) {
	parent := NewSceneComponent(nil)
	parent.SetPosition(lin.V3{X: 10, Y: 0, Z: 0})

	child := NewSceneComponent(nil)
	child.SetPosition(lin.V3{X: 1, Y: 2, Z: 3})
	child.AttachTo(parent, "", false)

	got := child.WorldPosition()
	want := lin.V3{X: 11, Y: 2, Z: 3}
	if !got.Aeq(&want) {
		t.Fatalf("world position = %+v, want %+v", got, want)
	}
}

func TestSceneComponentDirtyPropagatesToDescendants(t *testing.T) {
	root := NewSceneComponent(nil)
	child := NewSceneComponent(nil)
	grandchild := NewSceneComponent(nil)
	child.AttachTo(root, "", false)
	grandchild.AttachTo(child, "", false)

	_ = grandchild.WorldPosition() // force a clean recompute.
	if grandchild.dirty {
		t.Fatalf("expected grandchild clean after recompute")
	}

	root.SetPosition(lin.V3{X: 5, Y: 0, Z: 0})
	if !grandchild.dirty {
		t.Fatalf("expected grandchild marked dirty after ancestor move")
	}
	got := grandchild.WorldPosition()
	want := lin.V3{X: 5, Y: 0, Z: 0}
	if !got.Aeq(&want) {
		t.Fatalf("grandchild world position = %+v, want %+v", got, want)
	}
}

func TestSceneComponentAttachKeepsWorldTransform(t *testing.T) {
	parentA := NewSceneComponent(nil)
	parentA.SetPosition(lin.V3{X: 0, Y: 0, Z: 0})
	parentB := NewSceneComponent(nil)
	parentB.SetPosition(lin.V3{X: 100, Y: 0, Z: 0})

	child := NewSceneComponent(nil)
	child.SetPosition(lin.V3{X: 1, Y: 0, Z: 0})
	child.AttachTo(parentA, "", false)

	before := child.WorldPosition()
	child.AttachTo(parentB, "", true)
	after := child.WorldPosition()

	if !before.Aeq(&after) {
		t.Fatalf("keep-world-transform attach changed world position: before=%+v after=%+v", before, after)
	}
	if child.Parent() != parentB {
		t.Fatalf("expected child reparented to parentB")
	}
}

func TestSceneComponentAbsolutePositionIgnoresParent(t *testing.T) {
	parent := NewSceneComponent(nil)
	parent.SetPosition(lin.V3{X: 50, Y: 50, Z: 50})

	child := NewSceneComponent(nil)
	child.SetAbsolutePosition(true)
	child.SetPosition(lin.V3{X: 1, Y: 2, Z: 3})
	child.AttachTo(parent, "", false)

	got := child.WorldPosition()
	want := lin.V3{X: 1, Y: 2, Z: 3}
	if !got.Aeq(&want) {
		t.Fatalf("absolute-position child world position = %+v, want %+v", got, want)
	}
}

func TestSceneComponentDetachClearsParent(t *testing.T) {
	parent := NewSceneComponent(nil)
	child := NewSceneComponent(nil)
	child.AttachTo(parent, "", false)
	if len(parent.Children()) != 1 {
		t.Fatalf("expected one child after attach")
	}

	child.Detach(false)
	if child.Parent() != nil {
		t.Fatalf("expected nil parent after detach")
	}
	if len(parent.Children()) != 0 {
		t.Fatalf("expected parent child list emptied after detach")
	}
}

func TestSceneComponentSpinRotatesLocalOrientation(t *testing.T) {
	sc := NewSceneComponent(nil)
	sc.Spin(0, 90, 0)
	fwd := sc.Forward()
	if fwd.X < 0.9 || fwd.Y > 0.1 {
		t.Fatalf("expected forward rotated toward +X after a 90 degree yaw, got %+v", fwd)
	}
}

func TestSceneComponentFindSocketRespondsIndexOrNegOne(t *testing.T) {
	parent := NewSceneComponent(nil)
	if parent.FindSocket("weapon_r") != -1 {
		t.Fatalf("expected -1 for an unskinned parent")
	}

	parent.SetSkinned([]string{"hand_l", "hand_r", "head"})
	if got := parent.FindSocket("hand_r"); got != 1 {
		t.Fatalf("FindSocket(hand_r) = %d, want 1", got)
	}
	if got := parent.FindSocket("tail"); got != -1 {
		t.Fatalf("FindSocket(tail) = %d, want -1", got)
	}
}

func TestSceneComponentAttachToNonSkinnedParentWithSocketRejected(t *testing.T) {
	parent := NewSceneComponent(nil)
	child := NewSceneComponent(nil)

	ok := child.AttachTo(parent, "hand_r", false)
	if ok {
		t.Fatalf("expected attach to a non-skinned parent with a non-empty socket to be rejected")
	}
	if child.Parent() != nil {
		t.Fatalf("expected rejected attach to leave child unattached")
	}
}

func TestSceneComponentAttachToUnresolvedSocketRejected(t *testing.T) {
	parent := NewSceneComponent(nil)
	parent.SetSkinned([]string{"hand_l", "hand_r"})
	child := NewSceneComponent(nil)

	ok := child.AttachTo(parent, "tail", false)
	if ok {
		t.Fatalf("expected attach to an unresolved socket name to be rejected")
	}
	if child.Parent() != nil {
		t.Fatalf("expected rejected attach to leave child unattached")
	}
}

func TestSceneComponentAttachToSocketAccepted(t *testing.T) {
	parent := NewSceneComponent(nil)
	parent.SetSkinned([]string{"hand_l", "hand_r"})
	child := NewSceneComponent(nil)

	ok := child.AttachTo(parent, "hand_r", false)
	if !ok {
		t.Fatalf("expected attach to a resolved socket to succeed")
	}
	if child.Parent() != parent {
		t.Fatalf("expected child attached to parent")
	}
	if child.Socket() != "hand_r" {
		t.Fatalf("Socket() = %q, want %q", child.Socket(), "hand_r")
	}
}
