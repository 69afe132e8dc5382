// Package spatial holds the acceleration structures shared by the
// rendering frontend and gameplay queries: per-subpart AABB trees for
// raycasts, and a BSP+PVS with portal graph for indoor visibility.
//
// The AABB tree build/traversal is ported from the source engine's
// ATreeAABB (IndexedMesh.cpp): top-down SAH split, flat node array with a
// signed skip-jump, and a leaf indirection array. See aabbtree.go.
package spatial

import "github.com/ninthmoon/forge/lin"

// Subpart is a contiguous triangle range within a shared mesh vertex/index
// buffer, with its own AABB and (optional) raycast acceleration tree.
type Subpart struct {
	Name        string
	FirstIndex  int // start offset into the owning mesh's index buffer.
	IndexCount  int // number of indices (a multiple of 3).
	BaseVertex  int // offset applied to every index when reading vertices.
	Bounds      lin.AABB
	Tree        *AABBTree // nil until GenerateTree is called.
}

// Mesh is a set of subparts sharing one vertex/index buffer, with optional
// skinning weights (opaque to this package — the loader supplies them).
type Mesh struct {
	Vertices []lin.V3
	Indices  []uint32
	Subparts []*Subpart
	Skinned  bool
}

// Bounds returns the union AABB of every subpart.
func (m *Mesh) Bounds() lin.AABB {
	b := lin.Empty()
	for _, s := range m.Subparts {
		b = b.Union(s.Bounds)
	}
	return b
}

// ComputeSubpartBounds recomputes Bounds from the mesh's own vertex data,
// respecting FirstIndex/IndexCount/BaseVertex.
func (s *Subpart) ComputeSubpartBounds(m *Mesh) {
	b := lin.Empty()
	for i := s.FirstIndex; i < s.FirstIndex+s.IndexCount; i++ {
		v := m.Vertices[s.BaseVertex+int(m.Indices[i])]
		b = b.ExpandPoint(v)
	}
	s.Bounds = b
}

// GenerateTree builds this subpart's raycast AABB tree with the given
// primitives-per-leaf, clamped to [MinPrimitivesPerLeaf, MaxPrimitivesPerLeaf].
func (s *Subpart) GenerateTree(m *Mesh, primitivesPerLeaf int) {
	s.Tree = BuildAABBTree(m.Vertices, m.Indices, s.FirstIndex, s.IndexCount, s.BaseVertex, primitivesPerLeaf)
}
