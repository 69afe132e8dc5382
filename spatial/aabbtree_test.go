package spatial

import (
	"math"
	"testing"

	"github.com/ninthmoon/forge/lin"
)

// gridMesh builds an n x n grid of unit quads (2 triangles each) in the XY
// plane at Z=0, used to exercise both the SAH build and raycast traversal
// with enough triangles to force an internal split.
func gridMesh(n int) (vertices []lin.V3, indices []uint32) {
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			vertices = append(vertices, lin.V3{X: float64(x), Y: float64(y), Z: 0})
		}
	}
	stride := n + 1
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i0 := uint32(y*stride + x)
			i1 := i0 + 1
			i2 := uint32((y+1)*stride + x)
			i3 := i2 + 1
			indices = append(indices, i0, i2, i1, i1, i2, i3)
		}
	}
	return vertices, indices
}

func TestBuildAABBTreeCoversAllTriangles(t *testing.T) {
	vertices, indices := gridMesh(8)
	tree := BuildAABBTree(vertices, indices, 0, len(indices), 0, MinPrimitivesPerLeaf)

	seen := make(map[int]bool)
	for _, n := range tree.Nodes {
		if n.IsLeaf() {
			for k := 0; k < n.PrimitiveCount; k++ {
				seen[tree.Indirection[n.Index+k]] = true
			}
		}
	}
	triCount := len(indices) / 3
	if len(seen) != triCount {
		t.Fatalf("indirection covers %d triangles, want %d", len(seen), triCount)
	}
}

func TestBuildAABBTreeRespectsPrimitivesPerLeaf(t *testing.T) {
	vertices, indices := gridMesh(16)
	tree := BuildAABBTree(vertices, indices, 0, len(indices), 0, MinPrimitivesPerLeaf)
	for _, n := range tree.Nodes {
		if n.IsLeaf() && n.PrimitiveCount > MinPrimitivesPerLeaf {
			t.Errorf("leaf with %d primitives exceeds PrimitivesPerLeaf=%d", n.PrimitiveCount, MinPrimitivesPerLeaf)
		}
	}
}

func TestRaycastClosestEqualsMinOfAllHits(t *testing.T) {
	vertices, indices := gridMesh(8)
	tree := BuildAABBTree(vertices, indices, 0, len(indices), 0, MinPrimitivesPerLeaf)

	r := lin.Ray{Origin: lin.V3{X: 4.25, Y: 4.25, Z: -10}, Dir: lin.V3{X: 0, Y: 0, Z: 1}}

	closest, ok := tree.RaycastClosest(vertices, indices, 0, 0, r, lin.Large)
	if !ok {
		t.Fatal("expected a hit")
	}
	all := tree.RaycastAll(vertices, indices, 0, 0, r, lin.Large)
	if len(all) == 0 {
		t.Fatal("expected at least one hit from RaycastAll")
	}
	min := math.MaxFloat64
	for _, h := range all {
		if h.Distance < min {
			min = h.Distance
		}
	}
	if closest.Distance != min {
		t.Errorf("RaycastClosest = %v, want min of RaycastAll = %v", closest.Distance, min)
	}
	if !aeqf(closest.Distance, 10) {
		t.Errorf("closest distance = %v, want 10", closest.Distance)
	}
}

func TestRaycastMissesOutsideGrid(t *testing.T) {
	vertices, indices := gridMesh(4)
	tree := BuildAABBTree(vertices, indices, 0, len(indices), 0, MinPrimitivesPerLeaf)
	r := lin.Ray{Origin: lin.V3{X: 100, Y: 100, Z: -10}, Dir: lin.V3{X: 0, Y: 0, Z: 1}}
	if _, ok := tree.RaycastClosest(vertices, indices, 0, 0, r, lin.Large); ok {
		t.Error("expected no hit for a ray outside the mesh bounds")
	}
}

func aeqf(a, b float64) bool { return math.Abs(a-b) < 1e-6 }
