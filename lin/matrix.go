package lin

import "math"

// M3 is a row-major 3x3 matrix, used for inertia tensors and rotation-only
// transforms.
type M3 struct {
	Xx, Xy, Xz float64
	Yx, Yy, Yz float64
	Zx, Zy, Zz float64
}

// M4 is a row-major 4x4 matrix used for view, projection, and model matrices.
type M4 struct {
	Xx, Xy, Xz, Xw float64
	Yx, Yy, Yz, Yw float64
	Zx, Zy, Zz, Zw float64
	Wx, Wy, Wz, Ww float64
}

// M4I is the 4x4 identity. Never mutate it.
var M4I = &M4{Xx: 1, Yy: 1, Zz: 1, Ww: 1}

// NewM4 returns a zeroed matrix.
func NewM4() *M4 { return &M4{} }

// NewM4I returns an identity matrix.
func NewM4I() *M4 { return &M4{Xx: 1, Yy: 1, Zz: 1, Ww: 1} }

// NewM3I returns a 3x3 identity matrix.
func NewM3I() *M3 { return &M3{Xx: 1, Yy: 1, Zz: 1} }

// Set copies a into m and returns m.
func (m *M4) Set(a *M4) *M4 { *m = *a; return m }

// SetM4 sets m to the upper-left 3x3 of a, discarding translation.
func (m *M3) SetM4(a *M4) *M3 {
	m.Xx, m.Xy, m.Xz = a.Xx, a.Xy, a.Xz
	m.Yx, m.Yy, m.Yz = a.Yx, a.Yy, a.Yz
	m.Zx, m.Zy, m.Zz = a.Zx, a.Zy, a.Zz
	return m
}

// SetQ sets m to the rotation matrix represented by unit quaternion q.
func (m *M3) SetQ(q *Q) *M3 {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z
	m.Xx, m.Xy, m.Xz = 1-2*(yy+zz), 2*(xy-wz), 2*(xz+wy)
	m.Yx, m.Yy, m.Yz = 2*(xy+wz), 1-2*(xx+zz), 2*(yz-wx)
	m.Zx, m.Zy, m.Zz = 2*(xz-wy), 2*(yz+wx), 1-2*(xx+yy)
	return m
}

// Transpose sets m to the transpose of a and returns m.
func (m *M3) Transpose(a *M3) *M3 {
	m.Xx, m.Xy, m.Xz = a.Xx, a.Yx, a.Zx
	m.Yx, m.Yy, m.Yz = a.Xy, a.Yy, a.Zy
	m.Zx, m.Zy, m.Zz = a.Xz, a.Yz, a.Zz
	return m
}

// Mult sets m = l*r (row-vector convention) and returns m.
func (m *M3) Mult(l, r *M3) *M3 {
	var o M3
	o.Xx = l.Xx*r.Xx + l.Xy*r.Yx + l.Xz*r.Zx
	o.Xy = l.Xx*r.Xy + l.Xy*r.Yy + l.Xz*r.Zy
	o.Xz = l.Xx*r.Xz + l.Xy*r.Yz + l.Xz*r.Zz

	o.Yx = l.Yx*r.Xx + l.Yy*r.Yx + l.Yz*r.Zx
	o.Yy = l.Yx*r.Xy + l.Yy*r.Yy + l.Yz*r.Zy
	o.Yz = l.Yx*r.Xz + l.Yy*r.Yz + l.Yz*r.Zz

	o.Zx = l.Zx*r.Xx + l.Zy*r.Yx + l.Zz*r.Zx
	o.Zy = l.Zx*r.Xy + l.Zy*r.Yy + l.Zz*r.Zy
	o.Zz = l.Zx*r.Xz + l.Zy*r.Yz + l.Zz*r.Zz
	*m = o
	return m
}

// NewM3 returns a zeroed 3x3 matrix.
func NewM3() *M3 { return &M3{} }

// Inv sets m to the inverse of a via cofactor expansion. Returns m as the
// zero matrix if a is singular.
func (m *M3) Inv(a *M3) *M3 {
	c00 := a.Yy*a.Zz - a.Yz*a.Zy
	c01 := a.Yz*a.Zx - a.Yx*a.Zz
	c02 := a.Yx*a.Zy - a.Yy*a.Zx
	det := a.Xx*c00 + a.Xy*c01 + a.Xz*c02
	if det == 0 {
		*m = M3{}
		return m
	}
	inv := 1.0 / det
	c10 := a.Xz*a.Zy - a.Xy*a.Zz
	c11 := a.Xx*a.Zz - a.Xz*a.Zx
	c12 := a.Xy*a.Zx - a.Xx*a.Zy
	c20 := a.Xy*a.Yz - a.Xz*a.Yy
	c21 := a.Xz*a.Yx - a.Xx*a.Yz
	c22 := a.Xx*a.Yy - a.Xy*a.Yx
	m.Xx, m.Xy, m.Xz = c00*inv, c10*inv, c20*inv
	m.Yx, m.Yy, m.Yz = c01*inv, c11*inv, c21*inv
	m.Zx, m.Zy, m.Zz = c02*inv, c12*inv, c22*inv
	return m
}

// SetQ sets m's rotation part from quaternion q, leaving translation zero.
func (m *M4) SetQ(q *Q) *M4 {
	x2, y2, z2 := q.X+q.X, q.Y+q.Y, q.Z+q.Z
	xx, xy, xz := q.X*x2, q.X*y2, q.X*z2
	yy, yz, zz := q.Y*y2, q.Y*z2, q.Z*z2
	wx, wy, wz := q.W*x2, q.W*y2, q.W*z2
	m.Xx, m.Xy, m.Xz, m.Xw = 1-(yy+zz), xy+wz, xz-wy, 0
	m.Yx, m.Yy, m.Yz, m.Yw = xy-wz, 1-(xx+zz), yz+wx, 0
	m.Zx, m.Zy, m.Zz, m.Zw = xz+wy, yz-wx, 1-(xx+yy), 0
	m.Wx, m.Wy, m.Wz, m.Ww = 0, 0, 0, 1
	return m
}

// SetT sets m to the composite of rotation q and translation loc
// (rotation applied first, i.e. m = Translate(loc) * Rotate(q)).
func (m *M4) SetT(t *T) *M4 {
	m.SetQ(t.Rot)
	m.Wx, m.Wy, m.Wz = t.Loc.X, t.Loc.Y, t.Loc.Z
	return m
}

// Mult sets m = l*r (row-vector convention, apply l then r) and returns m.
func (m *M4) Mult(l, r *M4) *M4 {
	var o M4
	o.Xx = l.Xx*r.Xx + l.Xy*r.Yx + l.Xz*r.Zx + l.Xw*r.Wx
	o.Xy = l.Xx*r.Xy + l.Xy*r.Yy + l.Xz*r.Zy + l.Xw*r.Wy
	o.Xz = l.Xx*r.Xz + l.Xy*r.Yz + l.Xz*r.Zz + l.Xw*r.Wz
	o.Xw = l.Xx*r.Xw + l.Xy*r.Yw + l.Xz*r.Zw + l.Xw*r.Ww

	o.Yx = l.Yx*r.Xx + l.Yy*r.Yx + l.Yz*r.Zx + l.Yw*r.Wx
	o.Yy = l.Yx*r.Xy + l.Yy*r.Yy + l.Yz*r.Zy + l.Yw*r.Wy
	o.Yz = l.Yx*r.Xz + l.Yy*r.Yz + l.Yz*r.Zz + l.Yw*r.Wz
	o.Yw = l.Yx*r.Xw + l.Yy*r.Yw + l.Yz*r.Zw + l.Yw*r.Ww

	o.Zx = l.Zx*r.Xx + l.Zy*r.Yx + l.Zz*r.Zx + l.Zw*r.Wx
	o.Zy = l.Zx*r.Xy + l.Zy*r.Yy + l.Zz*r.Zy + l.Zw*r.Wy
	o.Zz = l.Zx*r.Xz + l.Zy*r.Yz + l.Zz*r.Zz + l.Zw*r.Wz
	o.Zw = l.Zx*r.Xw + l.Zy*r.Yw + l.Zz*r.Zw + l.Zw*r.Ww

	o.Wx = l.Wx*r.Xx + l.Wy*r.Yx + l.Wz*r.Zx + l.Ww*r.Wx
	o.Wy = l.Wx*r.Xy + l.Wy*r.Yy + l.Wz*r.Zy + l.Ww*r.Wy
	o.Wz = l.Wx*r.Xz + l.Wy*r.Yz + l.Wz*r.Zz + l.Ww*r.Wz
	o.Ww = l.Wx*r.Xw + l.Wy*r.Yw + l.Wz*r.Zw + l.Ww*r.Ww
	*m = o
	return m
}

// AppV applies m to vector v (as a point, w=1) and returns the transformed
// components.
func (m *M4) AppV(v *V3) (x, y, z float64) {
	x = v.X*m.Xx + v.Y*m.Yx + v.Z*m.Zx + m.Wx
	y = v.X*m.Xy + v.Y*m.Yy + v.Z*m.Zy + m.Wy
	z = v.X*m.Xz + v.Y*m.Yz + v.Z*m.Zz + m.Wz
	return x, y, z
}

// Persp sets m to a right-handed reverse-Z perspective projection.
// fov is the vertical field of view in degrees.
func (m *M4) Persp(fov, aspect, near, far float64) *M4 {
	*m = M4{}
	f := 1.0 / math.Tan(Rad(fov)/2)
	m.Xx = f / aspect
	m.Yy = f
	// reverse-Z: near maps to 1, far maps to 0.
	m.Zz = near / (far - near)
	m.Zw = -1
	m.Wz = (near * far) / (far - near)
	return m
}

// Ortho sets m to an orthographic projection matrix.
func (m *M4) Ortho(left, right, bottom, top, near, far float64) *M4 {
	*m = M4{}
	m.Xx = 2 / (right - left)
	m.Yy = 2 / (top - bottom)
	m.Zz = -2 / (far - near)
	m.Wx = -(right + left) / (right - left)
	m.Wy = -(top + bottom) / (top - bottom)
	m.Wz = -(far + near) / (far - near)
	m.Ww = 1
	return m
}

// Inv sets m to the inverse of a, a general-purpose 4x4 inverse via
// cofactor expansion. Sets m to the identity if a is singular.
func (m *M4) Inv(a *M4) *M4 {
	e := [16]float64{
		a.Xx, a.Xy, a.Xz, a.Xw,
		a.Yx, a.Yy, a.Yz, a.Yw,
		a.Zx, a.Zy, a.Zz, a.Zw,
		a.Wx, a.Wy, a.Wz, a.Ww,
	}
	var inv [16]float64
	inv[0] = e[5]*e[10]*e[15] - e[5]*e[11]*e[14] - e[9]*e[6]*e[15] + e[9]*e[7]*e[14] + e[13]*e[6]*e[11] - e[13]*e[7]*e[10]
	inv[4] = -e[4]*e[10]*e[15] + e[4]*e[11]*e[14] + e[8]*e[6]*e[15] - e[8]*e[7]*e[14] - e[12]*e[6]*e[11] + e[12]*e[7]*e[10]
	inv[8] = e[4]*e[9]*e[15] - e[4]*e[11]*e[13] - e[8]*e[5]*e[15] + e[8]*e[7]*e[13] + e[12]*e[5]*e[11] - e[12]*e[7]*e[9]
	inv[12] = -e[4]*e[9]*e[14] + e[4]*e[10]*e[13] + e[8]*e[5]*e[14] - e[8]*e[6]*e[13] - e[12]*e[5]*e[10] + e[12]*e[6]*e[9]
	inv[1] = -e[1]*e[10]*e[15] + e[1]*e[11]*e[14] + e[9]*e[2]*e[15] - e[9]*e[3]*e[14] - e[13]*e[2]*e[11] + e[13]*e[3]*e[10]
	inv[5] = e[0]*e[10]*e[15] - e[0]*e[11]*e[14] - e[8]*e[2]*e[15] + e[8]*e[3]*e[14] + e[12]*e[2]*e[11] - e[12]*e[3]*e[10]
	inv[9] = -e[0]*e[9]*e[15] + e[0]*e[11]*e[13] + e[8]*e[1]*e[15] - e[8]*e[3]*e[13] - e[12]*e[1]*e[11] + e[12]*e[3]*e[9]
	inv[13] = e[0]*e[9]*e[14] - e[0]*e[10]*e[13] - e[8]*e[1]*e[14] + e[8]*e[2]*e[13] + e[12]*e[1]*e[10] - e[12]*e[2]*e[9]
	inv[2] = e[1]*e[6]*e[15] - e[1]*e[7]*e[14] - e[5]*e[2]*e[15] + e[5]*e[3]*e[14] + e[13]*e[2]*e[7] - e[13]*e[3]*e[6]
	inv[6] = -e[0]*e[6]*e[15] + e[0]*e[7]*e[14] + e[4]*e[2]*e[15] - e[4]*e[3]*e[14] - e[12]*e[2]*e[7] + e[12]*e[3]*e[6]
	inv[10] = e[0]*e[5]*e[15] - e[0]*e[7]*e[13] - e[4]*e[1]*e[15] + e[4]*e[3]*e[13] + e[12]*e[1]*e[7] - e[12]*e[3]*e[5]
	inv[14] = -e[0]*e[5]*e[14] + e[0]*e[6]*e[13] + e[4]*e[1]*e[14] - e[4]*e[2]*e[13] - e[12]*e[1]*e[6] + e[12]*e[2]*e[5]
	inv[3] = -e[1]*e[6]*e[11] + e[1]*e[7]*e[10] + e[5]*e[2]*e[11] - e[5]*e[3]*e[10] - e[9]*e[2]*e[7] + e[9]*e[3]*e[6]
	inv[7] = e[0]*e[6]*e[11] - e[0]*e[7]*e[10] - e[4]*e[2]*e[11] + e[4]*e[3]*e[10] + e[8]*e[2]*e[7] - e[8]*e[3]*e[6]
	inv[11] = -e[0]*e[5]*e[11] + e[0]*e[7]*e[9] + e[4]*e[1]*e[11] - e[4]*e[3]*e[9] - e[8]*e[1]*e[7] + e[8]*e[3]*e[5]
	inv[15] = e[0]*e[5]*e[10] - e[0]*e[6]*e[9] - e[4]*e[1]*e[10] + e[4]*e[2]*e[9] + e[8]*e[1]*e[6] - e[8]*e[2]*e[5]

	det := e[0]*inv[0] + e[1]*inv[4] + e[2]*inv[8] + e[3]*inv[12]
	if det == 0 {
		return m.Set(NewM4I())
	}
	det = 1.0 / det
	m.Xx, m.Xy, m.Xz, m.Xw = inv[0]*det, inv[1]*det, inv[2]*det, inv[3]*det
	m.Yx, m.Yy, m.Yz, m.Yw = inv[4]*det, inv[5]*det, inv[6]*det, inv[7]*det
	m.Zx, m.Zy, m.Zz, m.Zw = inv[8]*det, inv[9]*det, inv[10]*det, inv[11]*det
	m.Wx, m.Wy, m.Wz, m.Ww = inv[12]*det, inv[13]*det, inv[14]*det, inv[15]*det
	return m
}
