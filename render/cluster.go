// Copyright © 2024 Galvanized Logic Inc.

package render

// cluster.go voxelizes visible lights and probes into a fixed 3D cluster
// grid over the view frustum: spec §4.6 "Light voxelization". No teacher
// precedent (load/shd.go's shaders reference cluster uniforms but the
// teacher never builds them CPU-side) — built fresh in the
// grow-and-reuse idiom of render/packet.go's Packets.GetPacket.

import (
	"math"

	"github.com/ninthmoon/forge/lin"
)

// Default cluster grid dimensions (NewClusterGrid accepts any others);
// these are the spec's MAX_FRUSTUM_CLUSTERS_{X,Y,Z} defaults.
const (
	ClustersX = 16
	ClustersY = 9
	ClustersZ = 24
)

// LightItem is one light or probe packed for cluster assignment: its
// world AABB for a coarse per-cluster overlap test, and the matrix that
// maps a cluster corner into the light's own clip space so the OBB test
// in spec §4.6 can run per-corner without the cluster grid knowing the
// light's shape.
type LightItem struct {
	ID          uint64
	Bounds      lin.AABB
	ObbToClip   lin.M4
}

// ClusterGrid is the per-cluster light/probe index lists, flattened for
// streaming into a GPU buffer. Cluster c's items are the half-open range
// [Offsets[c], Offsets[c]+Counts[c]) into Indices holding item indices.
type ClusterGrid struct {
	X, Y, Z int
	Offsets []uint32
	Counts  []uint32
	Indices []uint32
}

// NewClusterGrid allocates a grid of the given dimensions, reusing g's
// backing arrays if it is non-nil and already large enough.
func NewClusterGrid(g *ClusterGrid, x, y, z int) *ClusterGrid {
	n := x * y * z
	if g == nil {
		g = &ClusterGrid{}
	}
	g.X, g.Y, g.Z = x, y, z
	if cap(g.Offsets) < n {
		g.Offsets = make([]uint32, n)
		g.Counts = make([]uint32, n)
	} else {
		g.Offsets = g.Offsets[:n]
		g.Counts = g.Counts[:n]
	}
	for i := range g.Counts {
		g.Counts[i] = 0
	}
	g.Indices = g.Indices[:0]
	return g
}

// clusterBounds returns the view-space AABB of cluster (cx,cy,cz), slicing
// the view frustum's screen-space extent linearly in X/Y and the view
// depth range logarithmically in Z (the standard clustered-shading depth
// split, matching spec's fixed grid over the view frustum).
func clusterBounds(cx, cy, cz, nx, ny, nz int, near, far float64) (zNear, zFar float64) {
	t0 := float64(cz) / float64(nz)
	t1 := float64(cz+1) / float64(nz)
	// logarithmic depth split: z = near * (far/near)^t
	ratio := far / near
	zNear = near * pow(ratio, t0)
	zFar = near * pow(ratio, t1)
	return
}

func pow(base, exp float64) float64 {
	if exp == 0 {
		return 1
	}
	result := 1.0
	whole := int(exp)
	frac := exp - float64(whole)
	for i := 0; i < whole; i++ {
		result *= base
	}
	if frac != 0 {
		result *= math.Pow(base, frac)
	}
	return result
}

// VoxelizeLights assigns every item to the clusters its bounds overlap.
// clusterSpaceBounds must return the item's bounds with X/Y already
// expressed in cluster-index space ([0,g.X] by [0,g.Y], the screen split
// is linear) and Z in true view-space depth, which this function slices
// logarithmically per spec §4.6's fixed grid over the view frustum.
func VoxelizeLights(g *ClusterGrid, items []LightItem, near, far float64, clusterSpaceBounds func(LightItem) lin.AABB) {
	nx, ny, nz := g.X, g.Y, g.Z
	lists := make([][]uint32, nx*ny*nz)
	for idx, item := range items {
		b := clusterSpaceBounds(item)
		cxLo, cxHi := clampClusterRange(b.Min.X, b.Max.X, nx)
		cyLo, cyHi := clampClusterRange(b.Min.Y, b.Max.Y, ny)
		for cz := 0; cz < nz; cz++ {
			zNear, zFar := clusterBounds(0, 0, cz, nx, ny, nz, near, far)
			if b.Max.Z < zNear || b.Min.Z > zFar {
				continue
			}
			for cy := cyLo; cy < cyHi; cy++ {
				for cx := cxLo; cx < cxHi; cx++ {
					c := (cz*ny+cy)*nx + cx
					lists[c] = append(lists[c], uint32(idx))
				}
			}
		}
	}
	g.Indices = g.Indices[:0]
	for i, list := range lists {
		g.Offsets[i] = uint32(len(g.Indices))
		g.Counts[i] = uint32(len(list))
		g.Indices = append(g.Indices, list...)
	}
}

// clampClusterRange converts a [lo,hi] cluster-index-space extent into an
// inclusive-exclusive integer cluster range clamped to [0,n).
func clampClusterRange(lo, hi float64, n int) (int, int) {
	a, b := int(lo), int(hi)+1
	if a < 0 {
		a = 0
	}
	if b > n {
		b = n
	}
	if a > b {
		a = b
	}
	return a, b
}
