// Copyright © 2024 Galvanized Logic Inc.

package render

import (
	"testing"

	"github.com/ninthmoon/forge/lin"
)

func testView() *RenderView {
	v := &RenderView{Width: 1920, Height: 1080}
	v.View = *lin.NewM4I()
	v.Proj.Persp(60, 16.0/9.0, 0.1, 1000)
	v.PrevView = v.View
	v.PrevProj = v.Proj
	v.SetFrustum()
	return v
}

func TestQueryFiltersOutsideFrustum(t *testing.T) {
	view := testView()
	// The view camera looks down -Z.
	inFront := Primitive{Kind: PrimDrawable, ID: 1, Bounds: lin.AABB{Min: lin.V3{X: -1, Y: -1, Z: -6}, Max: lin.V3{X: 1, Y: 1, Z: -5}}, Leaf: -1}
	behind := Primitive{Kind: PrimDrawable, ID: 2, Bounds: lin.AABB{Min: lin.V3{X: -1, Y: -1, Z: 5}, Max: lin.V3{X: 1, Y: 1, Z: 6}}, Leaf: -1}

	set := Query(view, nil, 1, []Primitive{inFront, behind}, nil)
	if len(set.Primitives) != 1 || set.Primitives[0].ID != 1 {
		t.Fatalf("expected only the in-front primitive to survive, got %+v", set.Primitives)
	}
}

func TestQueryRespectsVisibilityMask(t *testing.T) {
	view := testView()
	view.VisibilityMask = 0x1
	matching := Primitive{Kind: PrimDrawable, ID: 1, Mask: 0x1, Bounds: lin.AABB{Min: lin.V3{X: -1, Y: -1, Z: -6}, Max: lin.V3{X: 1, Y: 1, Z: -5}}, Leaf: -1}
	nonMatching := Primitive{Kind: PrimDrawable, ID: 2, Mask: 0x2, Bounds: matching.Bounds, Leaf: -1}

	set := Query(view, nil, 1, []Primitive{matching, nonMatching}, nil)
	if len(set.Primitives) != 1 || set.Primitives[0].ID != 1 {
		t.Fatalf("expected only the mask-matching primitive, got %+v", set.Primitives)
	}
}

func TestQuerySortsSurfacesByKey(t *testing.T) {
	view := testView()
	surfaces := []SurfaceDef{
		{ModelID: 2, Material: 1, FirstVertex: 0, VertexCount: 3, Leaf: -1},
		{ModelID: 1, Material: 5, FirstVertex: 0, VertexCount: 3, Leaf: -1},
		{ModelID: 1, Material: 1, FirstVertex: 0, VertexCount: 3, Leaf: -1},
	}
	set := Query(view, nil, 1, nil, surfaces)
	if len(set.Surfaces) != 3 {
		t.Fatalf("expected 3 surfaces, got %d", len(set.Surfaces))
	}
	for i := 1; i < len(set.Surfaces); i++ {
		if set.Surfaces[i-1].SortKey > set.Surfaces[i].SortKey {
			t.Fatalf("surfaces not sorted by key: %+v", set.Surfaces)
		}
	}
}

func TestMergeSurfacesCoalescesAdjacentRuns(t *testing.T) {
	surfaces := []SurfaceDef{
		{ModelID: 1, Material: 1, FirstVertex: 0, VertexCount: 3},
		{ModelID: 1, Material: 1, FirstVertex: 3, VertexCount: 3},
		{ModelID: 1, Material: 1, FirstVertex: 9, VertexCount: 3}, // gap: not adjacent.
	}
	merged := MergeSurfaces(surfaces)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged runs, got %d: %+v", len(merged), merged)
	}
	if merged[0].VertexCount != 6 {
		t.Errorf("expected the first two runs to merge into 6 vertices, got %d", merged[0].VertexCount)
	}
}

func TestBuildInstancesSplitsTranslucentAndOutline(t *testing.T) {
	view := testView()
	set := VisibleSet{Primitives: []Primitive{
		{Kind: PrimDrawable, ID: 1, World: *lin.NewM4I()},
		{Kind: PrimDrawable, ID: 2, World: *lin.NewM4I()},
	}}
	info := func(id uint64) (DrawableInfo, bool) {
		if id == 1 {
			return DrawableInfo{Translucent: true}, true
		}
		return DrawableInfo{Outlined: true}, true
	}
	lists := BuildInstances(view, set, info)
	if len(lists.Translucent) != 1 || lists.Translucent[0].PrimitiveID != 1 {
		t.Errorf("expected primitive 1 in translucent list, got %+v", lists.Translucent)
	}
	if len(lists.Outline) != 1 || lists.Outline[0].PrimitiveID != 2 {
		t.Errorf("expected primitive 2 in outline list, got %+v", lists.Outline)
	}
	if len(lists.Opaque) != 1 || lists.Opaque[0].PrimitiveID != 2 {
		t.Errorf("expected primitive 2 in opaque list too (outline is additive), got %+v", lists.Opaque)
	}
}

func TestCullCascadesSkipsNonCastingCasters(t *testing.T) {
	view := testView()
	casters := []ShadowCaster{
		{PrimitiveID: 1, Bounds: lin.AABB{Min: lin.V3{X: -1, Y: -1, Z: -6}, Max: lin.V3{X: 1, Y: 1, Z: -5}}, CastsShadow: true},
		{PrimitiveID: 2, Bounds: lin.AABB{Min: lin.V3{X: -1, Y: -1, Z: -6}, Max: lin.V3{X: 1, Y: 1, Z: -5}}, CastsShadow: false},
	}
	masks := CullCascades([]lin.Frustum{view.Frustum}, casters)
	if masks[0]&1 == 0 {
		t.Error("expected caster 1 to be visible in cascade 0")
	}
	if masks[1] != 0 {
		t.Error("expected caster 2 (CastsShadow=false) to have an empty mask")
	}
}

func TestFramePacketsGetPacketGrowsWithFreshPacket(t *testing.T) {
	var pool FramePackets
	pool, p1 := pool.GetPacket()
	p1.Opaque = append(p1.Opaque, Instance{PrimitiveID: 1})
	pool, p2 := pool.GetPacket()
	if len(pool) != 2 {
		t.Fatalf("expected pool to grow to 2 packets, got %d", len(pool))
	}
	if len(p2.Opaque) != 0 {
		t.Error("expected a fresh packet to start with an empty opaque list")
	}
}

func TestClusterGridVoxelizesWithinRange(t *testing.T) {
	g := NewClusterGrid(nil, ClustersX, ClustersY, ClustersZ)
	items := []LightItem{{ID: 7, Bounds: lin.AABB{Min: lin.V3{X: 2, Y: 2, Z: 5}, Max: lin.V3{X: 4, Y: 4, Z: 5}}}}
	VoxelizeLights(g, items, 0.1, 1000, func(i LightItem) lin.AABB { return i.Bounds })
	total := uint32(0)
	for _, c := range g.Counts {
		total += c
	}
	if total == 0 {
		t.Error("expected the light to land in at least one cluster")
	}
}
