package lin

import "testing"

func TestV3AddSub(t *testing.T) {
	a, b := &V3{1, 2, 3}, &V3{4, 5, 6}
	sum := NewV3().Add(a, b)
	if !sum.Eq(&V3{5, 7, 9}) {
		t.Errorf("Add got %+v", sum)
	}
	diff := NewV3().Sub(b, a)
	if !diff.Eq(&V3{3, 3, 3}) {
		t.Errorf("Sub got %+v", diff)
	}
}

func TestQRotationRoundTrip(t *testing.T) {
	q := NewQ().SetAa(0, 1, 0, Rad(90))
	v := &V3{1, 0, 0}
	v.MultvQ(v, q)
	if !v.Aeq(&V3{0, 0, -1}) {
		t.Errorf("rotate got %+v", v)
	}
}

func TestTransformInverseRoundTrip(t *testing.T) {
	tr := NewT()
	tr.Loc.SetS(3, -2, 5)
	tr.Rot.SetAa(0, 1, 0, Rad(45))
	p := &V3{1, 2, 3}
	want := &V3{1, 2, 3}
	tr.App(p)
	tr.Inv(p)
	if !p.Aeq(want) {
		t.Errorf("App+Inv round trip got %+v want %+v", p, want)
	}
}

func TestAABBOverlaps(t *testing.T) {
	a := AABB{Min: V3{0, 0, 0}, Max: V3{1, 1, 1}}
	b := AABB{Min: V3{0.5, 0.5, 0.5}, Max: V3{2, 2, 2}}
	c := AABB{Min: V3{5, 5, 5}, Max: V3{6, 6, 6}}
	if !a.Overlaps(b) {
		t.Error("expected overlap")
	}
	if a.Overlaps(c) {
		t.Error("expected no overlap")
	}
}

func TestRayIntersectAABB(t *testing.T) {
	box := AABB{Min: V3{-1, -1, -1}, Max: V3{1, 1, 1}}
	r := Ray{Origin: V3{0, 0, -5}, Dir: V3{0, 0, 1}}
	tmin, _, hit := r.IntersectAABB(box)
	if !hit {
		t.Fatal("expected hit")
	}
	if !aeq(tmin, 4) {
		t.Errorf("tmin = %v, want 4", tmin)
	}
}

func TestM3InvRoundTrip(t *testing.T) {
	m := &M3{Xx: 2, Xy: 0, Xz: 0, Yx: 0, Yy: 4, Yz: 0, Zx: 0, Zy: 0, Zz: 5}
	inv := NewM3().Inv(m)
	identity := NewM3().Mult(m, inv)
	want := NewM3I()
	if !aeq(identity.Xx, want.Xx) || !aeq(identity.Yy, want.Yy) || !aeq(identity.Zz, want.Zz) {
		t.Errorf("m*inv(m) got %+v, want identity", identity)
	}
}

func TestM3SetQRoundTripsWithTranspose(t *testing.T) {
	q := NewQ().SetAa(0, 0, 1, Rad(30))
	r := NewM3().SetQ(q)
	rt := NewM3().Transpose(r)
	identity := NewM3().Mult(r, rt)
	want := NewM3I()
	if !aeq(identity.Xx, want.Xx) || !aeq(identity.Yy, want.Yy) || !aeq(identity.Zz, want.Zz) {
		t.Errorf("R*R^T got %+v, want identity (rotation matrices are orthogonal)", identity)
	}
}

func TestAxisHelpersMatchIdentityOrientation(t *testing.T) {
	right := NewV3().Right(QI)
	if !right.Aeq(&V3{1, 0, 0}) {
		t.Errorf("Right(identity) got %+v", right)
	}
	leftOfRight := NewV3().RightInverted(QI)
	if !leftOfRight.Aeq(&V3{-1, 0, 0}) {
		t.Errorf("RightInverted(identity) got %+v", leftOfRight)
	}
	up := NewV3().Up(QI)
	if !up.Aeq(&V3{0, 1, 0}) {
		t.Errorf("Up(identity) got %+v", up)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 1) != 1 {
		t.Error("expected clamp to upper bound")
	}
	if Clamp(-5, 0, 1) != 0 {
		t.Error("expected clamp to lower bound")
	}
	if Clamp(0.5, 0, 1) != 0.5 {
		t.Error("expected value within range to be unchanged")
	}
}

func TestFrustumCullsOutsidePlane(t *testing.T) {
	// A single forward-facing plane at the origin: points with +Z in front.
	f := &Frustum{}
	f.Planes[0] = Plane{Normal: V3{0, 0, 1}, Dist: 0}
	for i := 1; i < 6; i++ {
		f.Planes[i] = Plane{Normal: V3{0, 0, 1}, Dist: Large} // always-inside filler planes.
	}
	inFront := AABB{Min: V3{-1, -1, 5}, Max: V3{1, 1, 6}}
	behind := AABB{Min: V3{-1, -1, -6}, Max: V3{1, 1, -5}}
	if f.CullAABB(inFront) {
		t.Error("box in front of the plane should not be culled")
	}
	if !f.CullAABB(behind) {
		t.Error("box behind the plane should be culled")
	}
}
