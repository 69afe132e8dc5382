package spatial

import "github.com/ninthmoon/forge/lin"

// Hit is one ray/triangle intersection result.
type Hit struct {
	Distance    float64
	Triangle    int // triangle index into the subpart's index buffer, /3.
	U, V        float64 // barycentric coordinates of the hit point.
}

// RaycastClosest walks the tree iteratively, advancing one node at a time
// when a node's bounds overlap the ray (or it is a leaf to test), and by
// -node.Index to skip an entirely-missed subtree. It returns the nearest
// triangle intersection within [0, maxDistance], or ok=false if none.
func (t *AABBTree) RaycastClosest(vertices []lin.V3, indices []uint32, firstIndex, baseVertex int, r lin.Ray, maxDistance float64) (hit Hit, ok bool) {
	best := maxDistance
	found := false

	for i := 0; i < len(t.Nodes); {
		n := &t.Nodes[i]
		tmin, tmax, boxHit := r.IntersectAABB(n.Bounds)
		if !boxHit || tmin > best || tmax < 0 {
			if n.IsLeaf() {
				i++
			} else {
				i += -n.Index
			}
			continue
		}
		if n.IsLeaf() {
			for k := 0; k < n.PrimitiveCount; k++ {
				tri := t.Indirection[n.Index+k]
				if h, hitOk := intersectTriangle(vertices, indices, firstIndex, baseVertex, tri, r); hitOk && h.Distance <= best {
					best = h.Distance
					hit = h
					found = true
				}
			}
			i++
			continue
		}
		i++ // descend into the left child, which immediately follows.
	}
	return hit, found
}

// RaycastAll returns every triangle intersection along the ray within
// [0, maxDistance], unordered.
func (t *AABBTree) RaycastAll(vertices []lin.V3, indices []uint32, firstIndex, baseVertex int, r lin.Ray, maxDistance float64) []Hit {
	var hits []Hit
	for i := 0; i < len(t.Nodes); {
		n := &t.Nodes[i]
		_, tmax, boxHit := r.IntersectAABB(n.Bounds)
		if !boxHit || tmax < 0 {
			if n.IsLeaf() {
				i++
			} else {
				i += -n.Index
			}
			continue
		}
		if n.IsLeaf() {
			for k := 0; k < n.PrimitiveCount; k++ {
				tri := t.Indirection[n.Index+k]
				if h, hitOk := intersectTriangle(vertices, indices, firstIndex, baseVertex, tri, r); hitOk && h.Distance <= maxDistance {
					hits = append(hits, h)
				}
			}
			i++
			continue
		}
		i++
	}
	return hits
}

// intersectTriangle implements the Möller–Trumbore ray/triangle test
// against triangle number tri within the subpart's index range.
func intersectTriangle(vertices []lin.V3, indices []uint32, firstIndex, baseVertex, tri int, r lin.Ray) (Hit, bool) {
	base := firstIndex + tri*3
	v0 := vertices[baseVertex+int(indices[base+0])]
	v1 := vertices[baseVertex+int(indices[base+1])]
	v2 := vertices[baseVertex+int(indices[base+2])]

	e1 := lin.NewV3().Sub(&v1, &v0)
	e2 := lin.NewV3().Sub(&v2, &v0)
	pvec := lin.NewV3().Cross(&r.Dir, e2)
	det := e1.Dot(pvec)
	if det > -lin.Epsilon && det < lin.Epsilon {
		return Hit{}, false
	}
	invDet := 1.0 / det
	tvec := lin.NewV3().Sub(&r.Origin, &v0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return Hit{}, false
	}
	qvec := lin.NewV3().Cross(tvec, e1)
	v := r.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return Hit{}, false
	}
	dist := e2.Dot(qvec) * invDet
	if dist < 0 {
		return Hit{}, false
	}
	return Hit{Distance: dist, Triangle: tri, U: u, V: v}, true
}
