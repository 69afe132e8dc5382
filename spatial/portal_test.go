package spatial

import (
	"testing"

	"github.com/ninthmoon/forge/lin"
)

func squareHull(cx, cy, z, half float64) []lin.V3 {
	return []lin.V3{
		{X: cx - half, Y: cy - half, Z: z},
		{X: cx + half, Y: cy - half, Z: z},
		{X: cx + half, Y: cy + half, Z: z},
		{X: cx - half, Y: cy + half, Z: z},
	}
}

func openFrustum() *lin.Frustum {
	f := &lin.Frustum{}
	for i := range f.Planes {
		f.Planes[i] = lin.Plane{Normal: lin.V3{X: 0, Y: 0, Z: 1}, Dist: lin.Large}
	}
	return f
}

func TestPortalFloodVisitsConnectedArea(t *testing.T) {
	a1 := &Area{Name: "A1"}
	a2 := &Area{Name: "A2"}
	hull := squareHull(0, 0, 0, 1)
	p := &Portal{
		Areas: [2]*Area{a1, a2},
		Hull:  [2][]lin.V3{hull, hull},
		Plane: [2]lin.Plane{{Normal: lin.V3{X: 0, Y: 0, Z: 1}}, {Normal: lin.V3{X: 0, Y: 0, Z: -1}}},
	}
	a1.AddPortal(p, 0)
	a2.AddPortal(p, 1)

	visited := map[string]bool{}
	Flood(a1, openFrustum(), 1, func(a *Area, c *ClipVolume) { visited[a.Name] = true })

	if !visited["A1"] || !visited["A2"] {
		t.Fatalf("expected both areas visited, got %v", visited)
	}
}

func TestPortalFloodBreaksCycles(t *testing.T) {
	a1 := &Area{Name: "A1"}
	a2 := &Area{Name: "A2"}
	hull := squareHull(0, 0, 0, 1)
	p := &Portal{
		Areas: [2]*Area{a1, a2},
		Hull:  [2][]lin.V3{hull, hull},
		Plane: [2]lin.Plane{{Normal: lin.V3{X: 0, Y: 0, Z: 1}}, {Normal: lin.V3{X: 0, Y: 0, Z: -1}}},
	}
	a1.AddPortal(p, 0)
	a2.AddPortal(p, 1)

	visitCount := map[string]int{}
	Flood(a1, openFrustum(), 7, func(a *Area, c *ClipVolume) { visitCount[a.Name]++ })

	if visitCount["A1"] != 1 || visitCount["A2"] != 1 {
		t.Fatalf("expected each area visited exactly once, got %v", visitCount)
	}
}

func TestVisDataRLERoundTrip(t *testing.T) {
	row := make([]byte, 32)
	row[0] = 0xFF
	row[10] = 0x01
	row[31] = 0x80

	compressed := EncodeRLE(row)
	vd := &VisData{ClusterCount: 256, RowBytes: 32, Compressed: true, Rows: [][]byte{compressed}}
	decoded := vd.Decode(0)

	if len(decoded) != len(row) {
		t.Fatalf("decoded length %d, want %d", len(decoded), len(row))
	}
	for i := range row {
		if decoded[i] != row[i] {
			t.Fatalf("byte %d: got %x want %x", i, decoded[i], row[i])
		}
	}
}

func TestBSPMarksOnlyPotentiallyVisibleLeaves(t *testing.T) {
	// Two clusters: cluster 0 can see cluster 0 and 1; cluster 1 can see only itself.
	row0 := []byte{0b00000011}
	row1 := []byte{0b00000010}
	vis := NewVisData(2, [][]byte{row0, row1})

	leaves := []BSPLeaf{
		{Cluster: 0, Bounds: lin.AABB{Min: lin.V3{X: -1, Y: -1, Z: -1}, Max: lin.V3{X: 0, Y: 0, Z: 0}}},
		{Cluster: 1, Bounds: lin.AABB{Min: lin.V3{X: 0, Y: 0, Z: 0}, Max: lin.V3{X: 1, Y: 1, Z: 1}}},
		{Cluster: -1, Bounds: lin.AABB{}},
	}
	nodes := []BSPNode{
		{Plane: lin.Plane{Normal: lin.V3{X: 1, Y: 0, Z: 0}, Dist: 0}, Front: ^1, Back: ^0},
	}
	bsp := NewBSP(nodes, leaves, vis)

	bsp.MarkVisibleLeaves(lin.V3{X: -0.5, Y: -0.5, Z: -0.5}, 5)

	if !bsp.LeafVisible(0, 5) {
		t.Error("leaf 0 (own cluster) should be marked visible")
	}
	if !bsp.LeafVisible(1, 5) {
		t.Error("leaf 1 (in cluster 0's PVS row) should be marked visible")
	}
	if bsp.LeafVisible(2, 5) {
		t.Error("solid leaf (cluster -1) should never be marked visible")
	}
}

func TestLeafAtWalksPlaneSide(t *testing.T) {
	nodes := []BSPNode{
		{Plane: lin.Plane{Normal: lin.V3{X: 1, Y: 0, Z: 0}, Dist: 0}, Front: ^1, Back: ^0},
	}
	leaves := []BSPLeaf{{Cluster: 0}, {Cluster: 1}}
	bsp := NewBSP(nodes, leaves, NewVisData(2, [][]byte{{1}, {2}}))

	if got := bsp.LeafAt(lin.V3{X: -5}); got != 0 {
		t.Errorf("LeafAt(-5,..) = %d, want leaf 0", got)
	}
	if got := bsp.LeafAt(lin.V3{X: 5}); got != 1 {
		t.Errorf("LeafAt(5,..) = %d, want leaf 1", got)
	}
}
