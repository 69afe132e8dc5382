// Copyright © 2024 Galvanized Logic Inc.

package forge

// scene.go implements the scene graph: SceneComponent, the tree of
// positioned components spec §4.3 describes. Grounded on pov.go's
// location+rotation pair, generalized into the full taxonomy per
// original_source/SceneComponent.h (local transform, parent attach with
// optional keep-world-transform, absolute-position/rotation/scale
// overrides, and a lazily-recomputed dirty world transform) since the
// teacher's own pov never grew a hierarchy or dirty-flag mechanism.

import (
	"log/slog"

	"github.com/ninthmoon/forge/lin"
)

// SceneComponent is a node in the scene graph: a local transform, an
// optional parent, and a dirty flag recomputed lazily on read rather than
// eagerly on every Move/Spin — mirrors simulation.go's
// "recompute-on-read" pattern used for body transforms.
type SceneComponent struct {
	actor *Actor

	localPos lin.V3
	localRot lin.Q
	localScl lin.V3

	worldPos   lin.V3
	worldRot   lin.Q
	worldScl   lin.V3
	worldM     lin.M4
	dirty      bool

	parent   *SceneComponent
	children []*SceneComponent
	socket   string

	skinned bool
	sockets map[string]int

	absolutePosition bool
	absoluteRotation bool
	absoluteScale    bool
}

// NewSceneComponent returns a component at the local identity transform,
// owned by actor.
func NewSceneComponent(actor *Actor) *SceneComponent {
	sc := &SceneComponent{
		actor:    actor,
		localRot: *lin.NewQ(),
		localScl: lin.V3{X: 1, Y: 1, Z: 1},
		worldRot: *lin.NewQ(),
		worldScl: lin.V3{X: 1, Y: 1, Z: 1},
		dirty:    true,
	}
	return sc
}

// Actor returns the owning actor.
func (sc *SceneComponent) Actor() *Actor { return sc.actor }

// SetSkinned marks sc as exposing the given named attachment points —
// bone indices in a skinned mesh's skeleton — so a child SceneComponent
// can AttachTo it at a socket. socketNames is indexed in the order given.
func (sc *SceneComponent) SetSkinned(socketNames []string) {
	sc.skinned = true
	sc.sockets = make(map[string]int, len(socketNames))
	for i, name := range socketNames {
		sc.sockets[name] = i
	}
}

// IsSkinned reports whether sc exposes sockets a child can attach to.
func (sc *SceneComponent) IsSkinned() bool { return sc.skinned }

// FindSocket resolves a socket name to its bone index on sc, matching
// SceneComponent.h's find_socket(name) -> index/-1 contract: it returns
// -1 when sc is nil, unskinned, or has no socket by that name.
func (sc *SceneComponent) FindSocket(name string) int {
	if sc == nil || !sc.skinned {
		return -1
	}
	if idx, ok := sc.sockets[name]; ok {
		return idx
	}
	return -1
}

// Socket returns the socket name sc is currently attached by, or "" if
// sc is attached to its parent's root transform (or is a root itself).
func (sc *SceneComponent) Socket() string { return sc.socket }

// AttachTo makes sc a child of parent, optionally at a named socket. If
// keepWorld is set, sc's local transform is rewritten so its world
// transform is unchanged by the reparent, matching SceneComponent.h's
// AttachTo(parent, socket, keepWorldTransform) contract.
//
// A non-empty socket that parent cannot resolve — because parent is nil,
// unskinned, or has no socket by that name — is a precondition
// violation: the attach is rejected, sc's current attachment is left
// untouched, the rejection is logged, and AttachTo returns false.
func (sc *SceneComponent) AttachTo(parent *SceneComponent, socket string, keepWorld bool) bool {
	if socket != "" && parent.FindSocket(socket) < 0 {
		slog.Warn("forge: rejected attach to unresolved socket", "socket", socket, "skinned", parent != nil && parent.IsSkinned())
		return false
	}
	if sc.parent == parent && sc.socket == socket {
		return true
	}
	var worldPos lin.V3
	var worldRot lin.Q
	var worldScl lin.V3
	if keepWorld {
		sc.recompute()
		worldPos, worldRot, worldScl = sc.worldPos, sc.worldRot, sc.worldScl
	}
	sc.Detach(false)
	sc.parent = parent
	sc.socket = socket
	if parent != nil {
		parent.children = append(parent.children, sc)
	}
	if keepWorld {
		sc.SetWorldTransform(worldPos, worldRot, worldScl)
	} else {
		sc.markDirty()
	}
	return true
}

// Detach removes sc from its parent's child list. If keepWorld is set,
// sc's local transform is rewritten to preserve its current world
// transform once it becomes a root.
func (sc *SceneComponent) Detach(keepWorld bool) {
	if sc.parent == nil {
		return
	}
	if keepWorld {
		sc.recompute()
	}
	siblings := sc.parent.children
	for i, c := range siblings {
		if c == sc {
			siblings[i] = siblings[len(siblings)-1]
			sc.parent.children = siblings[:len(siblings)-1]
			break
		}
	}
	sc.parent = nil
	sc.socket = ""
	if keepWorld {
		sc.localPos, sc.localRot, sc.localScl = sc.worldPos, sc.worldRot, sc.worldScl
	}
	sc.markDirty()
}

// Parent returns sc's parent, or nil if sc is a root.
func (sc *SceneComponent) Parent() *SceneComponent { return sc.parent }

// Children returns sc's direct children.
func (sc *SceneComponent) Children() []*SceneComponent { return sc.children }

// IsRoot reports whether sc has no parent.
func (sc *SceneComponent) IsRoot() bool { return sc.parent == nil }

// SetAbsolutePosition sets whether sc ignores its parent's position.
func (sc *SceneComponent) SetAbsolutePosition(v bool) { sc.absolutePosition = v; sc.markDirty() }

// SetAbsoluteRotation sets whether sc ignores its parent's rotation.
func (sc *SceneComponent) SetAbsoluteRotation(v bool) { sc.absoluteRotation = v; sc.markDirty() }

// SetAbsoluteScale sets whether sc ignores its parent's scale.
func (sc *SceneComponent) SetAbsoluteScale(v bool) { sc.absoluteScale = v; sc.markDirty() }

// SetPosition sets sc's local position.
func (sc *SceneComponent) SetPosition(p lin.V3) { sc.localPos = p; sc.markDirty() }

// SetRotation sets sc's local rotation.
func (sc *SceneComponent) SetRotation(r lin.Q) { sc.localRot = r; sc.markDirty() }

// SetScale sets sc's local scale.
func (sc *SceneComponent) SetScale(s lin.V3) { sc.localScl = s; sc.markDirty() }

// Position returns sc's local position.
func (sc *SceneComponent) Position() lin.V3 { return sc.localPos }

// Rotation returns sc's local rotation.
func (sc *SceneComponent) Rotation() lin.Q { return sc.localRot }

// Scale returns sc's local scale.
func (sc *SceneComponent) Scale() lin.V3 { return sc.localScl }

// WorldPosition returns sc's world-space position, recomputing the chain
// from the root if any ancestor or sc itself is dirty.
func (sc *SceneComponent) WorldPosition() lin.V3 { sc.recompute(); return sc.worldPos }

// WorldRotation returns sc's world-space rotation.
func (sc *SceneComponent) WorldRotation() lin.Q { sc.recompute(); return sc.worldRot }

// WorldScale returns sc's world-space scale.
func (sc *SceneComponent) WorldScale() lin.V3 { sc.recompute(); return sc.worldScl }

// WorldTransform returns sc's world transform as a 4x4 matrix, suitable
// for feeding directly into render.Primitive.World.
func (sc *SceneComponent) WorldTransform() lin.M4 {
	sc.recompute()
	return sc.worldM
}

// SetWorldTransform sets sc's local transform so that its resulting world
// transform equals the given values, per SceneComponent.h's
// SetWorldPosition/SetWorldRotation/SetWorldTransform family.
func (sc *SceneComponent) SetWorldTransform(pos lin.V3, rot lin.Q, scl lin.V3) {
	if sc.parent == nil {
		sc.SetPosition(pos)
		sc.SetRotation(rot)
		sc.SetScale(scl)
		return
	}
	sc.parent.recompute()
	if !sc.absolutePosition {
		inv := lin.NewQ().Inv(&sc.parent.worldRot)
		local := lin.NewV3().Sub(&pos, &sc.parent.worldPos)
		local.MultvQ(local, inv)
		if !sc.absoluteScale && sc.parent.worldScl.X != 0 && sc.parent.worldScl.Y != 0 && sc.parent.worldScl.Z != 0 {
			local.X /= sc.parent.worldScl.X
			local.Y /= sc.parent.worldScl.Y
			local.Z /= sc.parent.worldScl.Z
		}
		sc.localPos = *local
	} else {
		sc.localPos = pos
	}
	if !sc.absoluteRotation {
		inv := lin.NewQ().Inv(&sc.parent.worldRot)
		sc.localRot = *lin.NewQ().Mult(inv, &rot)
	} else {
		sc.localRot = rot
	}
	if !sc.absoluteScale && sc.parent.worldScl.X != 0 && sc.parent.worldScl.Y != 0 && sc.parent.worldScl.Z != 0 {
		sc.localScl = lin.V3{X: scl.X / sc.parent.worldScl.X, Y: scl.Y / sc.parent.worldScl.Y, Z: scl.Z / sc.parent.worldScl.Z}
	} else {
		sc.localScl = scl
	}
	sc.markDirty()
}

// markDirty flags sc and every descendant dirty, per
// SceneComponent.h's MarkTransformDirty — propagation runs down, not up,
// since an ancestor's own dirtiness is orthogonal to a child's edit.
func (sc *SceneComponent) markDirty() {
	if sc.dirty {
		return // already dirty; children were already marked with it.
	}
	sc.dirty = true
	for _, c := range sc.children {
		c.markDirty()
	}
}

// recompute walks up to the first clean ancestor (or the root) and
// rebuilds world transforms down from there, skipping any subtree that is
// already clean — the lazy, recompute-on-read counterpart to markDirty.
func (sc *SceneComponent) recompute() {
	if !sc.dirty {
		return
	}
	if sc.parent != nil {
		sc.parent.recompute()
		sc.composeFromParent()
	} else {
		sc.worldPos, sc.worldRot, sc.worldScl = sc.localPos, sc.localRot, sc.localScl
	}
	wt := lin.T{Loc: &sc.worldPos, Rot: &sc.worldRot}
	wt.Matrix(&sc.worldScl, &sc.worldM)
	sc.dirty = false
}

// Move advances sc's local position by (x,y,z) expressed in sc's own
// local orientation, matching pov.go's Move.
func (sc *SceneComponent) Move(x, y, z float64) {
	dx, dy, dz := lin.MultSQ(x, y, z, &sc.localRot)
	sc.localPos.X += dx
	sc.localPos.Y += dy
	sc.localPos.Z += dz
	sc.markDirty()
}

// Spin rotates sc's local orientation by the given degrees around each
// axis, matching pov.go's Spin.
func (sc *SceneComponent) Spin(x, y, z float64) {
	if x != 0 {
		sc.localRot.Mult(lin.NewQ().SetAa(1, 0, 0, lin.Rad(x)), &sc.localRot)
	}
	if y != 0 {
		sc.localRot.Mult(lin.NewQ().SetAa(0, 1, 0, lin.Rad(y)), &sc.localRot)
	}
	if z != 0 {
		sc.localRot.Mult(lin.NewQ().SetAa(0, 0, 1, lin.Rad(z)), &sc.localRot)
	}
	sc.markDirty()
}

// Right, Up and Forward return sc's world-space basis vectors, per
// SceneComponent.h's GetRightVector/GetUpVector/GetForwardVector.
func (sc *SceneComponent) Right() lin.V3 {
	sc.recompute()
	return *lin.NewV3().Right(&sc.worldRot)
}
func (sc *SceneComponent) Up() lin.V3 {
	sc.recompute()
	return *lin.NewV3().Up(&sc.worldRot)
}
func (sc *SceneComponent) Forward() lin.V3 {
	sc.recompute()
	return *lin.NewV3().Forward(&sc.worldRot)
}

func (sc *SceneComponent) composeFromParent() {
	p := sc.parent
	if sc.absolutePosition {
		sc.worldPos = sc.localPos
	} else {
		offset := sc.localPos
		if !sc.absoluteScale {
			offset = lin.V3{X: offset.X * p.worldScl.X, Y: offset.Y * p.worldScl.Y, Z: offset.Z * p.worldScl.Z}
		}
		rotated := lin.NewV3().MultvQ(&offset, &p.worldRot)
		sc.worldPos = *lin.NewV3().Add(&p.worldPos, rotated)
	}
	if sc.absoluteRotation {
		sc.worldRot = sc.localRot
	} else {
		sc.worldRot = *lin.NewQ().Mult(&p.worldRot, &sc.localRot)
	}
	if sc.absoluteScale {
		sc.worldScl = sc.localScl
	} else {
		sc.worldScl = lin.V3{X: sc.localScl.X * p.worldScl.X, Y: sc.localScl.Y * p.worldScl.Y, Z: sc.localScl.Z * p.worldScl.Z}
	}
}
