// Copyright © 2024 Galvanized Logic Inc.

// Package render is the simulation core's render frontend. It never draws:
// given a RenderView and the scene's visible set it produces a FramePacket
// the GPU backend consumes. It follows the teacher's render package split
// (render/packet.go's reusable, reset-in-place Packets) generalized from a
// single forward-renderer packet into the full per-view pipeline: a
// visibility query, render-instance construction, shadow draw lists, and
// light cluster voxelization.
package render

import "github.com/ninthmoon/forge/lin"

// QueryMask selects which visibility pass a caller of Query cares about.
// A primitive can be visible in more than one pass at once (a light is
// both "visible" for its gameplay glow sprite and "shadow-cast" for its
// shadow map), so this is a bitmask, not an enum.
type QueryMask uint8

const (
	QueryVisible QueryMask = 1 << iota
	QueryLightPass
	QueryShadowCast
)

// RenderView carries everything the frontend needs to build one viewport's
// frame packet: the camera transforms (current and previous, for motion
// vector reprojection), the derived frustum, and the post-process refs the
// backend will apply once the packet reaches it.
type RenderView struct {
	View, Proj   lin.M4 // current frame.
	PrevView     lin.M4 // previous frame, for motion reprojection.
	PrevProj     lin.M4
	InvView      lin.M4
	InvProj      lin.M4
	Frustum      lin.Frustum
	Origin       lin.V3 // camera world position, used for BSP leaf lookup.
	Right, Up    lin.V3 // camera basis, used for billboard primitives.
	Width, Height int

	// Post-process refs. These are resource handles/ids, not float knobs —
	// the backend owns the actual LUTs/curves; the frontend just threads
	// which one is active through to the packet.
	ToneMapRef    uint32
	ColorGradeRef uint32
	Exposure      float64

	VisibilityMask uint32    // bit per renderable layer, ANDed against a primitive's own mask.
	Query          QueryMask // which passes this view's Query call should populate.

	// ShadowCascades holds one view-projection matrix per cascade for a
	// directional light, filled in by the caller before the shadow pass
	// query runs. Empty when the view has no shadow pass.
	ShadowCascades []lin.M4
}

// VP returns the combined view-projection matrix for the current frame.
func (v *RenderView) VP() lin.M4 {
	var m lin.M4
	m.Mult(&v.View, &v.Proj)
	return m
}

// PrevVP returns the combined view-projection matrix for the previous frame.
func (v *RenderView) PrevVP() lin.M4 {
	var m lin.M4
	m.Mult(&v.PrevView, &v.PrevProj)
	return m
}

// SetFrustum derives the view frustum from the current view-projection
// matrix. Callers must call this after updating View/Proj and before
// Query.
func (v *RenderView) SetFrustum() {
	vp := v.VP()
	v.Frustum.SetFromVP(&vp)
}
