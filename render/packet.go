// Copyright © 2024 Galvanized Logic Inc.

package render

import "github.com/ninthmoon/forge/lin"

// packet.go assembles the final FramePacket the frontend hands the
// backend. Directly grounded on the teacher's render/packet.go: Packets'
// GetPacket grow-and-reuse scheme and Packet.Reset's keep-capacity reset
// are reused verbatim in shape, generalized from one homogeneous list of
// draw packets into the frontend's opaque/translucent/outline/shadow
// split plus the cluster grid and post-process refs a single forward pass
// never needed.

// FramePacket is the frontend's entire output for one view, one frame.
// The backend consumes it read-only; the frontend never issues GPU calls
// itself, per spec §4.7 "The frontend never renders".
type FramePacket struct {
	View RenderView

	Opaque      []Instance
	Translucent []Instance
	Outline     []Instance
	Surfaces    []SurfaceDef // merged brush-face runs, see MergeSurfaces.

	ShadowDraws []ShadowDraw
	Clusters    ClusterGrid
}

// Reset clears a FramePacket for reuse, keeping its slices' backing
// arrays, exactly as Packet.Reset does for the teacher's single-packet
// case.
func (p *FramePacket) Reset() {
	p.Opaque = p.Opaque[:0]
	p.Translucent = p.Translucent[:0]
	p.Outline = p.Outline[:0]
	p.Surfaces = p.Surfaces[:0]
	p.ShadowDraws = p.ShadowDraws[:0]
}

// FramePackets is a reusable pool of FramePacket, one per active
// viewport, grown as needed and reset in place rather than reallocated
// every frame — the same scheme as the teacher's Packets.GetPacket.
type FramePackets []FramePacket

// GetPacket returns a FramePacket from the pool, growing it if every
// existing entry is already in use this frame, and reset otherwise.
func (p FramePackets) GetPacket() (FramePackets, *FramePacket) {
	size := len(p)
	switch {
	case size == cap(p):
		p = append(p, FramePacket{})
	case size < cap(p):
		p = p[:size+1]
		p[size].Reset()
	}
	return p, &p[size]
}

// Assemble runs the full per-view pipeline (spec §4.7) and fills packet
// with the result: visibility query, instance construction (split into
// opaque/translucent/outline), surface merge, and shadow draw list. It
// does not voxelize lights — VoxelizeLights takes the caller's light list
// and a cluster-space bounds callback and is run separately, writing
// directly into packet.Clusters.
func Assemble(packet *FramePacket, view *RenderView, level *Level, frame uint32,
	candidates []Primitive, surfaces []SurfaceDef,
	drawInfo func(id uint64) (DrawableInfo, bool),
	casters []ShadowCaster, cascadeVP []lin.M4, worldOf func(id uint64) lin.M4) {

	packet.Reset()
	packet.View = *view

	set := Query(view, level, frame, candidates, surfaces)
	lists := BuildInstances(view, set, drawInfo)
	packet.Opaque = append(packet.Opaque, lists.Opaque...)
	packet.Translucent = append(packet.Translucent, lists.Translucent...)
	packet.Outline = append(packet.Outline, lists.Outline...)
	packet.Surfaces = append(packet.Surfaces, MergeSurfaces(set.Surfaces)...)

	if len(cascadeVP) > 0 {
		cascadeFrustums := make([]lin.Frustum, len(cascadeVP))
		for i, vp := range cascadeVP {
			cascadeFrustums[i].SetFromVP(&vp)
		}
		masks := CullCascades(cascadeFrustums, casters)
		packet.ShadowDraws = append(packet.ShadowDraws, BuildCascadeDrawList(casters, masks, cascadeVP, worldOf)...)
	}
}
