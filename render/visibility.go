// Copyright © 2024 Galvanized Logic Inc.

package render

// visibility.go runs the per-view visibility query: spec §4.6. Grounded on
// culler.go's Cull interface (frontCull/radiusCull culled-by-radius tests)
// expanded to a full frustum+PVS+portal walk using the spatial package's
// BSP/Flood primitives, which have no teacher precedent of their own.

import (
	"sort"

	"github.com/ninthmoon/forge/lin"
	"github.com/ninthmoon/forge/spatial"
)

// PrimitiveKind classifies an entry returned by Query.
type PrimitiveKind uint8

const (
	PrimDrawable PrimitiveKind = iota
	PrimLight
	PrimProbe
	PrimTerrain
)

// Primitive is one visibility-query result: a drawable, light, probe, or
// terrain patch. ID is opaque to this package — the caller's scene graph
// assigns it and uses it to look the object back up after the query.
type Primitive struct {
	Kind   PrimitiveKind
	ID     uint64
	Bounds lin.AABB
	World  lin.M4
	Mask   uint32 // layer mask, ANDed against the view's VisibilityMask.
	Leaf   int    // BSP leaf the primitive's origin falls in, -1 if unknown/always-visible.
}

// SurfaceDef is a mergeable brush-face run, grouped by the fields spec §4.6
// says define a merge-compatible batch: model, lightmap block, material,
// then the vertex range itself.
type SurfaceDef struct {
	ModelID       uint32
	LightmapBlock uint16
	Material      uint32
	FirstVertex   uint32
	VertexCount   uint32
	Leaf          int
	SortKey       uint64
}

// sortKey packs (model, lightmap block, material) into a single sortable
// value, most-significant field first, matching spec §4.6 step 5's
// "sort by... model id → lightmap block → material → first vertex".
func sortKey(modelID uint32, lightmapBlock uint16, material uint32, firstVertex uint32) uint64 {
	return uint64(modelID)<<48 | uint64(lightmapBlock)<<32 | uint64(material)<<16 | uint64(firstVertex)&0xFFFF
}

// Level is the subset of a loaded level's spatial data a visibility query
// needs: the BSP+PVS for leaf/cluster visibility and the root area the
// query floods portals from. Both may be nil for an open (non-BSP) view,
// in which case every candidate is frustum-tested directly.
type Level struct {
	BSP      *spatial.BSP
	ViewArea func(origin lin.V3) *spatial.Area // resolves the area containing a world point.
	LeafArea func(leaf int) *spatial.Area      // resolves a primitive's owning area by leaf.
}

// VisibleSet is the result of a Query call: the primitives and surfaces
// that passed the BSP/PVS/portal/frustum pipeline, ready for instance
// construction.
type VisibleSet struct {
	Primitives []Primitive
	Surfaces   []SurfaceDef
}

// Query runs the spec §4.6 visibility pipeline: locate the view's area,
// mark PVS-visible BSP leaves, flood portals accumulating per-area clip
// volumes, then filter candidates against both the leaf's PVS bit and its
// area's (possibly portal-clipped) frustum. frame must be a monotonically
// increasing counter — it is used to stamp BSP/portal visited-this-frame
// marks, exactly as spatial.BSP.MarkVisibleLeaves and spatial.Flood expect.
func Query(view *RenderView, level *Level, frame uint32, candidates []Primitive, surfaces []SurfaceDef) VisibleSet {
	var viewArea *spatial.Area
	clips := map[*spatial.Area]*spatial.ClipVolume{}

	if level != nil && level.BSP != nil {
		level.BSP.MarkVisibleLeaves(view.Origin, frame)
	}
	if level != nil && level.ViewArea != nil {
		viewArea = level.ViewArea(view.Origin)
	}
	if viewArea != nil {
		spatial.Flood(viewArea, &view.Frustum, frame, func(a *spatial.Area, c *spatial.ClipVolume) {
			clips[a] = c
		})
	}

	areaClip := func(leaf int) (*spatial.ClipVolume, bool) {
		if level == nil || level.LeafArea == nil {
			return nil, true // no area graph: fall back to the raw view frustum.
		}
		a := level.LeafArea(leaf)
		if a == nil {
			return nil, true
		}
		cv, visited := clips[a]
		return cv, visited
	}

	out := VisibleSet{}
	for _, p := range candidates {
		if view.VisibilityMask != 0 && p.Mask&view.VisibilityMask == 0 {
			continue
		}
		if level != nil && level.BSP != nil && p.Leaf >= 0 && !level.BSP.LeafVisible(p.Leaf, frame) {
			continue
		}
		if cv, ok := areaClip(p.Leaf); ok && cv != nil {
			if cv.CullAABB(p.Bounds) {
				continue
			}
		} else if view.Frustum.CullAABB(p.Bounds) {
			continue
		}
		out.Primitives = append(out.Primitives, p)
	}

	for _, s := range surfaces {
		if level != nil && level.BSP != nil && s.Leaf >= 0 && !level.BSP.LeafVisible(s.Leaf, frame) {
			continue
		}
		s.SortKey = sortKey(s.ModelID, s.LightmapBlock, s.Material, s.FirstVertex)
		out.Surfaces = append(out.Surfaces, s)
	}
	sort.Slice(out.Surfaces, func(i, j int) bool { return out.Surfaces[i].SortKey < out.Surfaces[j].SortKey })

	return out
}

// MergeSurfaces coalesces adjacent, key-equal surface runs into a single
// run covering their combined vertex range, per spec §4.6 step 5 ("runs
// with identical key can be merged into one draw"). surfaces must already
// be sorted by SortKey (Query's output is).
func MergeSurfaces(surfaces []SurfaceDef) []SurfaceDef {
	if len(surfaces) == 0 {
		return nil
	}
	merged := make([]SurfaceDef, 0, len(surfaces))
	cur := surfaces[0]
	for _, s := range surfaces[1:] {
		adjacent := s.ModelID == cur.ModelID && s.LightmapBlock == cur.LightmapBlock &&
			s.Material == cur.Material && s.FirstVertex == cur.FirstVertex+cur.VertexCount
		if adjacent {
			cur.VertexCount += s.VertexCount
			continue
		}
		merged = append(merged, cur)
		cur = s
	}
	merged = append(merged, cur)
	return merged
}
