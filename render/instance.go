// Copyright © 2024 Galvanized Logic Inc.

package render

// instance.go turns a VisibleSet's drawable primitives into render
// instances: spec §4.7 steps 3-4. Grounded on render/packet.go's Packet
// (GPU references + a uniform-data blob keyed by buffer offsets) —
// generalized from one packet per model into one instance per drawable
// plus motion-vector and sort-key fields the teacher's single-frame
// forward renderer never needed.

import "github.com/ninthmoon/forge/lin"

// DrawableInfo is everything the scene graph knows about a drawable that
// the render frontend cannot derive from the Primitive alone: its GPU
// buffer references and whether it can cast a shadow. Callers build one
// per visible drawable primitive, keyed by Primitive.ID.
type DrawableInfo struct {
	MaterialRef            uint32
	MaterialFrameData       []byte
	VertexRef, IndexRef     uint32
	VertexOffset, IndexOffset uint32
	WeightsRef              uint32 // 0 if not skinned.
	SkeletonOffset, SkeletonSize uint32
	LightmapUV              uint32 // used instead of skeleton refs for static lit meshes.
	MeshID                  uint32
	MaterialPriority        uint16
	Dynamic                 bool
	Translucent             bool
	Outlined                bool
	CastsShadow             bool
	PrevWorld               lin.M4 // previous frame's world transform, for motion vectors.
}

// Instance is one render instance: the per-draw data the backend needs,
// independent of how many other instances share its mesh/material.
type Instance struct {
	PrimitiveID     uint64
	MaterialRef     uint32
	MaterialFrame   []byte
	VertexRef, IndexRef uint32
	VertexOffset, IndexOffset uint32
	WeightsRef      uint32
	SkeletonOffset, SkeletonSize uint32
	LightmapUV      uint32

	MVP     lin.M4 // P * V * model, current frame.
	PrevMVP lin.M4 // P_prev * V_prev * model_prev, for motion vectors.
	NormalToView lin.M4

	SortKey uint64
}

// instanceSortKey packs (material priority, dynamic bit, mesh id) so lower
// keys sort earlier, batching static-before-dynamic draws of the same
// material together, per spec §4.7 step 3.
func instanceSortKey(priority uint16, dynamic bool, meshID uint32) uint64 {
	dyn := uint64(0)
	if dynamic {
		dyn = 1
	}
	return uint64(priority)<<49 | dyn<<48 | uint64(meshID)
}

// InstanceLists groups the render instances built from one VisibleSet's
// drawables by the downstream pass that consumes them, per spec §4.7
// step 4.
type InstanceLists struct {
	Opaque      []Instance
	Translucent []Instance
	Outline     []Instance
}

// BuildInstances converts a VisibleSet's drawable primitives into render
// instances using the caller-supplied per-drawable info lookup, and
// splits them into the opaque/translucent/outline lists the packet keeps
// separate.
func BuildInstances(view *RenderView, set VisibleSet, info func(id uint64) (DrawableInfo, bool)) InstanceLists {
	var lists InstanceLists
	vp := view.VP()
	prevVP := view.PrevVP()
	for _, p := range set.Primitives {
		if p.Kind != PrimDrawable {
			continue
		}
		d, ok := info(p.ID)
		if !ok {
			continue
		}
		var mvp, prevMvp, normalToView lin.M4
		mvp.Mult(&p.World, &vp)
		prevMvp.Mult(&d.PrevWorld, &prevVP)
		normalToView.Mult(&p.World, &view.View)

		inst := Instance{
			PrimitiveID:    p.ID,
			MaterialRef:    d.MaterialRef,
			MaterialFrame:  d.MaterialFrameData,
			VertexRef:      d.VertexRef,
			IndexRef:       d.IndexRef,
			VertexOffset:   d.VertexOffset,
			IndexOffset:    d.IndexOffset,
			WeightsRef:     d.WeightsRef,
			SkeletonOffset: d.SkeletonOffset,
			SkeletonSize:   d.SkeletonSize,
			LightmapUV:     d.LightmapUV,
			MVP:            mvp,
			PrevMVP:        prevMvp,
			NormalToView:   normalToView,
			SortKey:        instanceSortKey(d.MaterialPriority, d.Dynamic, d.MeshID),
		}
		if d.Translucent {
			lists.Translucent = append(lists.Translucent, inst)
		} else {
			lists.Opaque = append(lists.Opaque, inst)
		}
		if d.Outlined {
			lists.Outline = append(lists.Outline, inst)
		}
	}
	return lists
}
