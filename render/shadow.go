// Copyright © 2024 Galvanized Logic Inc.

package render

// shadow.go builds the shadow caster query and per-cascade/per-face draw
// lists: spec §4.7 step 5. The teacher's own shadow.go (single sun-light
// shadow map, see shadow.go:drawShadow) has no cascade or cubemap concept;
// this generalizes its "render from the light's point of view" idea to N
// cascades and six cube faces, using the same scratch-matrix reuse idiom.

import "github.com/ninthmoon/forge/lin"

// MaxCascades bounds the cascade bitmask's width. Matches spec's
// "cascade bitmask" requirement of a small, fixed cascade count.
const MaxCascades = 4

// ShadowCaster is a registered shadow-casting drawable, tested against
// every cascade's light-space frustum independently.
type ShadowCaster struct {
	PrimitiveID uint64
	Bounds      lin.AABB
	CastsShadow bool
}

// CullCascades tests every caster against every cascade frustum and
// returns, per caster (by index into casters), a bitmask with bit i set
// if the caster is visible in cascade i. Casters with CastsShadow false
// are skipped (mask stays zero) so a material that opts out of shadow
// casting never appears in any cascade's draw list, per spec §4.7 step 5.
func CullCascades(cascadeFrustums []lin.Frustum, casters []ShadowCaster) []uint32 {
	masks := make([]uint32, len(casters))
	for i, c := range casters {
		if !c.CastsShadow {
			continue
		}
		var mask uint32
		for cascade, f := range cascadeFrustums {
			if cascade >= MaxCascades {
				break
			}
			if !f.CullAABB(c.Bounds) {
				mask |= 1 << uint(cascade)
			}
		}
		masks[i] = mask
	}
	return masks
}

// ShadowDraw is one shadow-pass instance: a caster rendered into one
// cascade (directional) or one cube face (point light).
type ShadowDraw struct {
	PrimitiveID uint64
	Cascade     int // cascade index for directional lights.
	Face        int // cube face 0-5 for point lights, -1 for directional.
	LightMVP    lin.M4
}

// BuildCascadeDrawList expands a cascade-bitmask culling result into one
// ShadowDraw per (caster, cascade) pair the caster is visible in.
func BuildCascadeDrawList(casters []ShadowCaster, masks []uint32, cascadeVP []lin.M4, worldOf func(id uint64) lin.M4) []ShadowDraw {
	var draws []ShadowDraw
	for i, c := range casters {
		for cascade := 0; cascade < len(cascadeVP) && cascade < MaxCascades; cascade++ {
			if masks[i]&(1<<uint(cascade)) == 0 {
				continue
			}
			world := worldOf(c.PrimitiveID)
			var mvp lin.M4
			mvp.Mult(&world, &cascadeVP[cascade])
			draws = append(draws, ShadowDraw{PrimitiveID: c.PrimitiveID, Cascade: cascade, Face: -1, LightMVP: mvp})
		}
	}
	return draws
}

// cubeFaceDirs/ups are the six standard cubemap view axes, in the
// conventional +X,-X,+Y,-Y,+Z,-Z order.
var cubeFaceDirs = [6]lin.V3{
	{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
}
var cubeFaceUps = [6]lin.V3{
	{Y: 1}, {Y: 1}, {Z: -1}, {Z: 1}, {Y: 1}, {Y: 1},
}

// PointLightFaceVP builds the six view-projection matrices for an
// omnidirectional point-light cube shadow, using lin.M4.Persp's reverse-Z
// perspective (near maps to depth 1, far to 0) per spec §4.7 step 5's
// "reverse-Z perspective" requirement.
func PointLightFaceVP(lightPos lin.V3, fov, near, far float64) [6]lin.M4 {
	var out [6]lin.M4
	for face := 0; face < 6; face++ {
		dir := cubeFaceDirs[face]
		up := cubeFaceUps[face]
		target := *lin.NewV3().Add(&lightPos, &dir)
		view := lookAt(lightPos, target, up)
		var proj lin.M4
		proj.Persp(fov, 1.0, near, far) // Persp is already reverse-Z.
		var vp lin.M4
		vp.Mult(&view, &proj)
		out[face] = vp
	}
	return out
}

// lookAt builds a right-handed view matrix from eye toward target with the
// given up vector, matching the convention camera.go's view transforms
// use (rotation then negated-eye translation).
func lookAt(eye, target, up lin.V3) lin.M4 {
	fwd := lin.NewV3().Sub(&target, &eye).Unit()
	right := lin.NewV3().Cross(fwd, &up).Unit()
	realUp := lin.NewV3().Cross(right, fwd)

	m := lin.M4{
		Xx: right.X, Yx: right.Y, Zx: right.Z,
		Xy: realUp.X, Yy: realUp.Y, Zy: realUp.Z,
		Xz: -fwd.X, Yz: -fwd.Y, Zz: -fwd.Z,
		Ww: 1,
	}
	m.Wx = -right.Dot(&eye)
	m.Wy = -realUp.Dot(&eye)
	m.Wz = fwd.Dot(&eye)
	return m
}
