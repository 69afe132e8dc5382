package lin

import "math"

// T is a location+orientation transform, excluding scale. It is the
// workhorse type for scene component and physics body poses, used instead
// of a full 4x4 matrix to keep per-frame composition cheap.
type T struct {
	Loc *V3 // translation
	Rot *Q  // orientation
}

// NewT returns an identity transform at the origin.
func NewT() *T { return &T{&V3{}, &Q{0, 0, 0, 1}} }

// Eq returns true if t and a have identical components.
func (t *T) Eq(a *T) bool { return t.Rot.Eq(a.Rot) && t.Loc.Eq(a.Loc) }

// Aeq returns true if t and a are within Epsilon of each other.
func (t *T) Aeq(a *T) bool { return t.Rot.Aeq(a.Rot) && t.Loc.Aeq(a.Loc) }

// Set copies a into t and returns t.
func (t *T) Set(a *T) *T {
	t.Loc.Set(a.Loc)
	t.Rot.Set(a.Rot)
	return t
}

// SetI resets t to the identity transform.
func (t *T) SetI() *T {
	t.Loc.SetS(0, 0, 0)
	t.Rot.Set(QI)
	return t
}

// Mult sets t = a*b: apply b first (child-local), then a (parent-world).
// t may alias a or b.
func (t *T) Mult(a, b *T) *T {
	lx, ly, lz := MultSQ(b.Loc.X, b.Loc.Y, b.Loc.Z, a.Rot)
	rx, ry, rz, rw := a.Rot.X, a.Rot.Y, a.Rot.Z, a.Rot.W
	q := &Q{}
	q.Mult(&Q{rx, ry, rz, rw}, b.Rot)
	t.Loc.X, t.Loc.Y, t.Loc.Z = lx+a.Loc.X, ly+a.Loc.Y, lz+a.Loc.Z
	t.Rot.Set(q)
	return t
}

// App applies t (rotate then translate) to v in place and returns v.
func (t *T) App(v *V3) *V3 {
	v.MultvQ(v, t.Rot)
	v.Add(v, t.Loc)
	return v
}

// Inv applies the inverse of t to v in place (inverse translate then
// inverse rotate) and returns v.
func (t *T) Inv(v *V3) *V3 {
	v.Sub(v, t.Loc)
	ix, iy, iz := -t.Rot.X, -t.Rot.Y, -t.Rot.Z
	v.X, v.Y, v.Z = multSQ(v.X, v.Y, v.Z, ix, iy, iz, t.Rot.W)
	return v
}

// Integrate advances t from a by linear velocity linv and angular velocity
// angv over dt seconds, following the exponential-map small-angle
// approximation used by rigid body integrators. t and a must be distinct.
func (t *T) Integrate(a *T, linv, angv *V3, dt float64) *T {
	t.Loc.X = a.Loc.X + linv.X*dt
	t.Loc.Y = a.Loc.Y + linv.Y*dt
	t.Loc.Z = a.Loc.Z + linv.Z*dt

	angularMotionLimit := 0.5 * HalfPi
	angLen := angv.Len()
	if angLen*dt > angularMotionLimit {
		angLen = angularMotionLimit / dt
	}
	fac := 0.0
	if angLen < 0.001 {
		fac = 0.5*dt - dt*dt*dt*0.020833333333*angLen*angLen
	} else {
		fac = math.Sin(0.5*angLen*dt) / angLen
	}
	rx, ry, rz, rw := a.Rot.X, a.Rot.Y, a.Rot.Z, a.Rot.W
	sx, sy, sz, sw := angv.X*fac, angv.Y*fac, angv.Z*fac, math.Cos(angLen*dt*0.5)
	t.Rot.X = rw*sx + rx*sw - ry*sz + rz*sy
	t.Rot.Y = rw*sy + rx*sz + ry*sw - rz*sx
	t.Rot.Z = rw*sz - rx*sy + ry*sx + rz*sw
	t.Rot.W = rw*sw - rx*sx - ry*sy - rz*sz
	t.Rot.Unit()
	return t
}

// Matrix composes t (and an optional non-uniform scale) into m and returns m.
func (t *T) Matrix(scale *V3, m *M4) *M4 {
	m.SetT(t)
	if scale != nil && (scale.X != 1 || scale.Y != 1 || scale.Z != 1) {
		m.Xx, m.Xy, m.Xz = m.Xx*scale.X, m.Xy*scale.X, m.Xz*scale.X
		m.Yx, m.Yy, m.Yz = m.Yx*scale.Y, m.Yy*scale.Y, m.Yz*scale.Y
		m.Zx, m.Zy, m.Zz = m.Zx*scale.Z, m.Zy*scale.Z, m.Zz*scale.Z
	}
	return m
}

// AABB is an axis-aligned bounding box stored as min/max corners.
type AABB struct {
	Min, Max V3
}

// Empty returns an AABB with no extent, suitable as a union accumulator.
func Empty() AABB {
	return AABB{Min: V3{Large, Large, Large}, Max: V3{-Large, -Large, -Large}}
}

// Valid returns true if the box has non-inverted extents.
func (b AABB) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Union returns the smallest AABB containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: V3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: V3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// ExpandPoint grows b, if needed, to contain p.
func (b AABB) ExpandPoint(p V3) AABB {
	return b.Union(AABB{Min: p, Max: p})
}

// Center returns the midpoint of the box.
func (b AABB) Center() V3 {
	return V3{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2, (b.Min.Z + b.Max.Z) / 2}
}

// Extent returns the half-widths of the box along each axis.
func (b AABB) Extent() V3 {
	return V3{(b.Max.X - b.Min.X) / 2, (b.Max.Y - b.Min.Y) / 2, (b.Max.Z - b.Min.Z) / 2}
}

// SurfaceArea returns the box's surface area, used by SAH tree construction.
func (b AABB) SurfaceArea() float64 {
	if !b.Valid() {
		return 0
	}
	d := V3{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
	return 2 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

// Volume returns the box's volume, used by the AABB tree SAH cost metric.
func (b AABB) Volume() float64 {
	if !b.Valid() {
		return 0
	}
	return (b.Max.X - b.Min.X) * (b.Max.Y - b.Min.Y) * (b.Max.Z - b.Min.Z)
}

// Overlaps returns true if b and o intersect, touching included.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Contains returns true if p is inside or on the boundary of b.
func (b AABB) Contains(p V3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Transform returns the AABB of b after applying world transform wt and
// scale s; the eight corners are transformed and re-bounded.
func (b AABB) Transform(wt *T, s V3) AABB {
	out := Empty()
	corners := [8]V3{
		{b.Min.X, b.Min.Y, b.Min.Z}, {b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z}, {b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z}, {b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z}, {b.Max.X, b.Max.Y, b.Max.Z},
	}
	for _, c := range corners {
		c.X *= s.X
		c.Y *= s.Y
		c.Z *= s.Z
		wt.App(&c)
		out = out.ExpandPoint(c)
	}
	return out
}

// Ray is a line with an origin and a (not necessarily normalized) direction.
type Ray struct {
	Origin V3
	Dir    V3
}

// IntersectAABB returns the near/far distances where r enters/exits b, and
// whether it intersects at all. tmin may be negative if the origin is
// inside the box.
func (r Ray) IntersectAABB(b AABB) (tmin, tmax float64, hit bool) {
	tmin, tmax = -Large, Large
	axisMin := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	axisMax := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < Epsilon {
			if origin[i] < axisMin[i] || origin[i] > axisMax[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1.0 / dir[i]
		t1 := (axisMin[i] - origin[i]) * inv
		t2 := (axisMax[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, true
}

// Plane is a half-space boundary: points p with Normal.Dot(p) + Dist > 0
// are in front of the plane.
type Plane struct {
	Normal V3
	Dist   float64
}

// DistanceTo returns the signed distance from p to the plane.
func (pl Plane) DistanceTo(p V3) float64 {
	return pl.Normal.Dot(&p) + pl.Dist
}

// ClassifyAABB returns 1 if b is entirely in front of the plane, -1 if
// entirely behind, and 0 if it straddles — the classification spec.md's
// BSP frustum walk uses to elide already-inside planes for children.
func (pl Plane) ClassifyAABB(b AABB) int {
	c := b.Center()
	e := b.Extent()
	r := math.Abs(pl.Normal.X)*e.X + math.Abs(pl.Normal.Y)*e.Y + math.Abs(pl.Normal.Z)*e.Z
	d := pl.DistanceTo(c)
	switch {
	case d-r > 0:
		return 1
	case d+r < 0:
		return -1
	default:
		return 0
	}
}

// Frustum is six inward-facing planes: left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// SetFromVP derives the six frustum planes from a combined view-projection
// matrix, following the standard Gribb/Hartmann row extraction.
func (f *Frustum) SetFromVP(vp *M4) *Frustum {
	rows := [4][4]float64{
		{vp.Xx, vp.Yx, vp.Zx, vp.Wx},
		{vp.Xy, vp.Yy, vp.Zy, vp.Wy},
		{vp.Xz, vp.Yz, vp.Zz, vp.Wz},
		{vp.Xw, vp.Yw, vp.Zw, vp.Ww},
	}
	set := func(i int, a, b [4]float64, sign float64) {
		var r [4]float64
		for k := 0; k < 4; k++ {
			r[k] = a[k] + sign*b[k]
		}
		n := V3{r[0], r[1], r[2]}
		l := n.Len()
		if l > Epsilon {
			n.X, n.Y, n.Z = n.X/l, n.Y/l, n.Z/l
			r[3] /= l
		}
		f.Planes[i] = Plane{Normal: n, Dist: r[3]}
	}
	set(0, rows[3], rows[0], 1)  // left
	set(1, rows[3], rows[0], -1) // right
	set(2, rows[3], rows[1], 1)  // bottom
	set(3, rows[3], rows[1], -1) // top
	set(4, rows[3], rows[2], 1)  // near
	set(5, rows[3], rows[2], -1) // far
	return f
}

// CullAABB returns true if b is entirely outside at least one frustum
// plane and should be culled.
func (f *Frustum) CullAABB(b AABB) bool {
	for _, p := range f.Planes {
		if p.ClassifyAABB(b) < 0 {
			return true
		}
	}
	return false
}
