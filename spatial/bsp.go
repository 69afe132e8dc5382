package spatial

import "github.com/ninthmoon/forge/lin"

// BSPNode is one splitting plane of a brush model's binary space
// partition. Front and Back reference a child: a non-negative value
// indexes Nodes, a negative value encodes a leaf at ^value (bitwise
// complement), following the classic BSP leaf-encoding trick so a single
// int field covers both without a tagged union.
type BSPNode struct {
	Plane lin.Plane
	Front int
	Back  int
}

// BSPLeaf is a terminal BSP cell. Cluster is an index into the level's
// VisData rows, or -1 for a solid leaf that carries no visibility row.
type BSPLeaf struct {
	Cluster int
	Bounds  lin.AABB
}

// BSP is a loaded brush model's binary space partition plus its
// potentially-visible-set data. The asset pipeline builds and bakes this
// structure offline; this package only walks and queries it.
type BSP struct {
	Nodes []BSPNode
	Leaves []BSPLeaf
	Vis    *VisData

	frameMark []uint32 // per leaf, the last frame number MarkVisibleLeaves set it visible.
}

// NewBSP wraps loaded node/leaf/visdata arrays for querying.
func NewBSP(nodes []BSPNode, leaves []BSPLeaf, vis *VisData) *BSP {
	return &BSP{Nodes: nodes, Leaves: leaves, Vis: vis, frameMark: make([]uint32, len(leaves))}
}

// leafChild decodes a Front/Back child reference: ok is false when child
// refers to a node rather than a leaf.
func leafChild(child int) (leaf int, ok bool) {
	if child < 0 {
		return ^child, true
	}
	return 0, false
}

// LeafAt walks from the root to the leaf containing p, following each
// node's plane side.
func (b *BSP) LeafAt(p lin.V3) int {
	if len(b.Nodes) == 0 {
		if len(b.Leaves) == 0 {
			return -1
		}
		return 0
	}
	node := 0
	for {
		n := &b.Nodes[node]
		var child int
		if n.Plane.DistanceTo(p) >= 0 {
			child = n.Front
		} else {
			child = n.Back
		}
		if leaf, ok := leafChild(child); ok {
			return leaf
		}
		node = child
	}
}

// MarkVisibleLeaves walks to the leaf containing viewPos, decodes that
// leaf's cluster's PVS row, and stamps frame onto every leaf whose cluster
// is potentially visible from it. Leaves are re-decoded fresh on every
// call — callers must not assume the result is cached across frames, per
// the requirement that each query gets its own decoded bitmap rather than
// a shared scratch buffer.
func (b *BSP) MarkVisibleLeaves(viewPos lin.V3, frame uint32) {
	viewLeaf := b.LeafAt(viewPos)
	if viewLeaf < 0 || viewLeaf >= len(b.Leaves) {
		return
	}
	viewCluster := b.Leaves[viewLeaf].Cluster
	if viewCluster < 0 {
		return
	}
	row := b.Vis.Decode(viewCluster)
	for i, l := range b.Leaves {
		if l.Cluster < 0 {
			continue
		}
		if visBit(row, l.Cluster) {
			b.frameMark[i] = frame
		}
	}
}

// LeafVisible reports whether leaf was stamped visible by the most recent
// MarkVisibleLeaves call for the given frame number.
func (b *BSP) LeafVisible(leaf int, frame uint32) bool {
	if leaf < 0 || leaf >= len(b.frameMark) {
		return false
	}
	return b.frameMark[leaf] == frame
}

// CullAABBMasked tests b against only the frustum planes whose bit is set
// in mask (bit i corresponds to f.Planes[i]), returning whether b is culled
// and a narrowed mask with bits cleared for planes b is already fully
// inside — callers recursing into children pass the narrowed mask down so
// an ancestor's fully-inside plane is never retested.
func CullAABBMasked(f *lin.Frustum, b lin.AABB, mask uint32) (culled bool, childMask uint32) {
	for i := 0; i < 6; i++ {
		bit := uint32(1) << uint(i)
		if mask&bit == 0 {
			continue
		}
		switch f.Planes[i].ClassifyAABB(b) {
		case -1:
			return true, 0
		case 0:
			childMask |= bit
		}
	}
	return false, childMask
}

// AllPlanesMask is the initial plane mask passed to the top-level CullAABBMasked call.
const AllPlanesMask uint32 = 0x3F // 6 frustum planes.
