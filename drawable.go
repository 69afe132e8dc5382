// Copyright © 2024 Galvanized Logic Inc.

package forge

// drawable.go: Drawable, the scene component with world bounds that the
// render frontend consumes. Grounded on model.go's Model (mesh/material/
// texture references attached to a pov), stripped of vu's shader/GL
// binding plumbing since render.DrawableInfo already carries the buffer
// references the backend needs — a Drawable here only needs to supply
// that struct and keep its bounds current.

import (
	"github.com/ninthmoon/forge/lin"
	"github.com/ninthmoon/forge/render"
)

// DrawableKind distinguishes the three drawable shapes spec's data model
// names: static mesh, skinned mesh, and procedural mesh.
type DrawableKind uint8

const (
	DrawableStatic DrawableKind = iota
	DrawableSkinned
	DrawableProcedural
)

// Drawable is a scene component with a mesh, material, and local-space
// bounds; Primitive/Info expose it to render.Query/BuildInstances.
type Drawable struct {
	BaseComponent
	scene *SceneComponent
	id    uint64

	Kind   DrawableKind
	Bounds lin.AABB // local-space bounds; world bounds reflect scene.WorldTransform.
	Info   render.DrawableInfo
	Mask   uint32
}

// NewDrawable attaches a drawable scene component to actor, given a
// stable primitive id the level's render bookkeeping assigns.
func NewDrawable(a *Actor, id uint64, kind DrawableKind) *Drawable {
	d := &Drawable{BaseComponent: NewBaseComponent(0), id: id, Kind: kind, Mask: 1}
	d.scene = NewSceneComponent(a)
	d.scene.AttachTo(a.Root(), "", false)
	a.AddComponent(d)
	return d
}

// Scene returns the underlying scene component.
func (d *Drawable) Scene() *SceneComponent { return d.scene }

// SetSockets marks a DrawableSkinned's scene component as exposing the
// given named attachment points, so other scene components can attach to
// it at a socket via SceneComponent.AttachTo; see SceneComponent.SetSkinned.
func (d *Drawable) SetSockets(names []string) { d.scene.SetSkinned(names) }

// Primitive returns the render-package-facing snapshot of this drawable's
// current placement, suitable as one element of the candidate slice
// passed to render.Query.
func (d *Drawable) Primitive() render.Primitive {
	pos := d.scene.WorldPosition()
	rot := d.scene.WorldRotation()
	t := lin.T{Loc: &pos, Rot: &rot}
	worldBounds := d.Bounds.Transform(&t, d.scene.WorldScale())
	return render.Primitive{
		Kind:   render.PrimDrawable,
		ID:     d.id,
		Bounds: worldBounds,
		World:  d.scene.WorldTransform(),
		Mask:   d.Mask,
	}
}
