// Copyright © 2024 Galvanized Logic Inc.

package forge

// light.go: Light, the scene component with a color and an OBB-inverse
// used for clustered light assignment. Grounded on light.go's tiny
// {R,G,B} struct attached to a pov, generalized with the radius/kind data
// render.LightItem needs for voxelization that vu's forward-lit renderer
// never required.

import (
	"github.com/ninthmoon/forge/lin"
	"github.com/ninthmoon/forge/render"
)

// LightKind distinguishes the analytic point/spot light, the directional
// (sun) light, and the IBL probe spec's data model lists as the three
// light-like scene components.
type LightKind uint8

const (
	LightPoint LightKind = iota
	LightDirectional
	LightProbe
)

// Light is a scene component carrying a color and radius, attached the
// same way Drawable is: a dedicated child SceneComponent under the
// owning actor's root.
type Light struct {
	BaseComponent
	scene *SceneComponent
	id    uint64

	Kind         LightKind
	R, G, B      float64
	Intensity    float64
	Radius       float64 // point/spot falloff distance; unused for directional/probe.
}

// NewLight creates a white light of the given kind attached to actor.
func NewLight(a *Actor, id uint64, kind LightKind) *Light {
	l := &Light{
		BaseComponent: NewBaseComponent(0),
		id:            id,
		Kind:          kind,
		R:             1, G: 1, B: 1,
		Intensity: 1,
		Radius:    10,
	}
	l.scene = NewSceneComponent(a)
	l.scene.AttachTo(a.Root(), "", false)
	a.AddComponent(l)
	return l
}

// Scene returns the underlying scene component.
func (l *Light) Scene() *SceneComponent { return l.scene }

// SetColor is a convenience method matching light.go's SetColor.
func (l *Light) SetColor(r, g, b float64) { l.R, l.G, l.B = r, g, b }

// Item returns the render-package-facing snapshot used by
// render.VoxelizeLights: a world-space bounding box plus the OBB-to-clip
// matrix a fragment shader tests cluster corners against.
func (l *Light) Item(viewProj lin.M4) render.LightItem {
	pos := l.scene.WorldPosition()
	bounds := lin.AABB{
		Min: lin.V3{X: pos.X - l.Radius, Y: pos.Y - l.Radius, Z: pos.Z - l.Radius},
		Max: lin.V3{X: pos.X + l.Radius, Y: pos.Y + l.Radius, Z: pos.Z + l.Radius},
	}
	obb := lin.NewM4().Mult(&l.scene.worldM, &viewProj)
	return render.LightItem{ID: l.id, Bounds: bounds, ObbToClip: *obb}
}
