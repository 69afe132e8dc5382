package spatial

import (
	"sort"

	"github.com/ninthmoon/forge/lin"
)

// MinPrimitivesPerLeaf is the floor GenerateTree clamps PrimitivesPerLeaf
// to — below this the per-leaf traversal overhead outweighs the savings
// from a finer split.
const MinPrimitivesPerLeaf = 16

// MaxPrimitivesPerLeaf is the ceiling GenerateTree clamps PrimitivesPerLeaf
// to.
const MaxPrimitivesPerLeaf = 1024

// AABBNode is one flat-array slot of an AABBTree. Internal nodes use Index
// as a signed skip-jump: a traversal that determines the node's bounds
// don't overlap its query advances by -Index instead of +1, skipping the
// whole subtree. Leaf nodes (PrimitiveCount > 0) store the range
// [Index, Index+PrimitiveCount) into the tree's Indirection array.
type AABBNode struct {
	Bounds         lin.AABB
	Index          int // internal: -jump to next sibling. leaf: start index into Indirection.
	PrimitiveCount int // 0 for internal nodes.
}

// IsLeaf reports whether n is a leaf node.
func (n *AABBNode) IsLeaf() bool { return n.PrimitiveCount > 0 }

// AABBTree is a flattened, iteratively-traversable bounding volume
// hierarchy over a triangle range, built top-down with a surface-area
// heuristic split. See BuildAABBTree.
type AABBTree struct {
	Nodes       []AABBNode
	Indirection []int // leaf slot -> triangle index (0-based triangle number, not vertex index).

	indirectionUsed int // next free slot in Indirection during build.
}

type primitiveBounds struct {
	bounds lin.AABB
	prim   int // triangle index.
}

// BuildAABBTree builds a raycast acceleration tree over the triangles in
// indices[firstIndex : firstIndex+indexCount], read through baseVertex,
// with a top-down SAH split choosing among the three axes the partition
// that minimizes volume(left)*count(left) + volume(right)*count(right).
// Leaves hold between 1 and the clamped primitivesPerLeaf triangles.
func BuildAABBTree(vertices []lin.V3, indices []uint32, firstIndex, indexCount, baseVertex, primitivesPerLeaf int) *AABBTree {
	if primitivesPerLeaf < MinPrimitivesPerLeaf {
		primitivesPerLeaf = MinPrimitivesPerLeaf
	}
	if primitivesPerLeaf > MaxPrimitivesPerLeaf {
		primitivesPerLeaf = MaxPrimitivesPerLeaf
	}

	triCount := indexCount / 3
	prims := make([]primitiveBounds, triCount)
	for i := 0; i < triCount; i++ {
		i0 := indices[firstIndex+i*3+0]
		i1 := indices[firstIndex+i*3+1]
		i2 := indices[firstIndex+i*3+2]
		v0 := vertices[baseVertex+int(i0)]
		v1 := vertices[baseVertex+int(i1)]
		v2 := vertices[baseVertex+int(i2)]
		b := lin.Empty()
		b = b.ExpandPoint(v0)
		b = b.ExpandPoint(v1)
		b = b.ExpandPoint(v2)
		prims[i] = primitiveBounds{bounds: b, prim: i}
	}

	numLeafs := triCount/primitivesPerLeaf + 1
	t := &AABBTree{
		Nodes:       make([]AABBNode, 0, numLeafs*4),
		Indirection: make([]int, triCount),
	}
	t.subdivide(prims, primitivesPerLeaf)
	return t
}

func calcBounds(prims []primitiveBounds) lin.AABB {
	b := lin.Empty()
	for _, p := range prims {
		b = b.Union(p.bounds)
	}
	return b
}

// subdivide appends one node for prims and recurses, returning the index
// of the node it appended.
func (t *AABBTree) subdivide(prims []primitiveBounds, primitivesPerLeaf int) int {
	nodeIndex := len(t.Nodes)
	t.Nodes = append(t.Nodes, AABBNode{Bounds: calcBounds(prims)})

	if len(prims) <= primitivesPerLeaf {
		leafStart := t.allocIndirection(len(prims))
		for i, p := range prims {
			t.Indirection[leafStart+i] = p.prim
		}
		t.Nodes[nodeIndex].Index = leafStart
		t.Nodes[nodeIndex].PrimitiveCount = len(prims)
		return nodeIndex
	}

	axis, split := findBestSplit(prims)
	sortByAxis(prims, axis)

	t.subdivide(prims[:split], primitivesPerLeaf)
	t.subdivide(prims[split:], primitivesPerLeaf)

	// negative relative jump past this node's whole subtree.
	t.Nodes[nodeIndex].Index = -(len(t.Nodes) - nodeIndex)
	t.Nodes[nodeIndex].PrimitiveCount = 0
	return nodeIndex
}

// allocIndirection reserves n contiguous slots in Indirection and returns
// the start offset.
func (t *AABBTree) allocIndirection(n int) int {
	start := t.indirectionUsed
	t.indirectionUsed += n
	return start
}

func sortByAxis(prims []primitiveBounds, axis int) {
	sort.Slice(prims, func(i, j int) bool {
		return centroidAxis(prims[i].bounds, axis) < centroidAxis(prims[j].bounds, axis)
	})
}

func centroidAxis(b lin.AABB, axis int) float64 {
	c := b.Center()
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

// findBestSplit evaluates, for each of the three axes, every split point
// after sorting primitives by that axis's centroid, accumulating right-side
// bounds back to front and left-side bounds front to back so each split's
// SAH cost is O(1) to compute once the sweep totals are known. It returns
// the axis and split index (a count of primitives assigned to the left
// child) with the lowest volume(left)*count(left) + volume(right)*count(right).
func findBestSplit(prims []primitiveBounds) (bestAxis, bestSplit int) {
	n := len(prims)
	bestCost := lin.Large

	scratch := make([]primitiveBounds, n)
	copy(scratch, prims)

	rightBounds := make([]lin.AABB, n+1)

	for axis := 0; axis < 3; axis++ {
		sortByAxis(scratch, axis)

		rightBounds[n] = lin.Empty()
		for i := n - 1; i >= 0; i-- {
			rightBounds[i] = rightBounds[i+1].Union(scratch[i].bounds)
		}

		left := lin.Empty()
		for i := 1; i < n; i++ {
			left = left.Union(scratch[i-1].bounds)
			right := rightBounds[i]
			cost := left.Volume()*float64(i) + right.Volume()*float64(n-i)
			if cost < bestCost {
				bestCost = cost
				bestAxis = axis
				bestSplit = i
			}
		}
	}
	if bestSplit == 0 {
		bestSplit = n / 2 // degenerate (coincident centroids): split evenly rather than loop forever.
	}
	return bestAxis, bestSplit
}
