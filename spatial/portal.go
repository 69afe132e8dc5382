package spatial

import "github.com/ninthmoon/forge/lin"

// Portal links two areas through a convex opening. Both directions of
// travel are represented (Areas[0]->Areas[1] and the reverse), each with
// its own outward-facing Plane and convex Hull, since the two directions
// clip incoming view volumes against different windings of the same
// opening.
type Portal struct {
	Areas [2]*Area
	Hull  [2][]lin.V3 // convex polygon, one per direction, wound outward.
	Plane [2]lin.Plane

	mark uint32 // frame number this portal was last crossed during a flood, breaking cycles.
}

// Area is a visibility region of a level: an outdoor area or an indoor
// room. Portals is the head of the area's singly-linked portal list, used
// instead of a slice so portals can be shared and unlinked cheaply by the
// streaming loader without reshuffling an array.
type Area struct {
	Name    string
	Bounds  lin.AABB
	Portals *AreaPortal
}

// AreaPortal is one node of an area's portal list: the portal itself, the
// direction index to use from that area's side, and the link to the next
// portal in the same area.
type AreaPortal struct {
	Portal    *Portal
	Direction int // 0 or 1: which Hull/Plane side faces out of the owning area.
	next      *AreaPortal
}

// AddPortal links p onto a's portal list, facing out via direction.
func (a *Area) AddPortal(p *Portal, direction int) {
	a.Portals = &AreaPortal{Portal: p, Direction: direction, next: a.Portals}
}

// ClipVolume is a convex culling volume: the view frustum's six planes
// plus, after crossing a portal, one side plane per edge of that portal's
// hull. It only ever gains planes as the flood descends, so a region
// visible through two nested portals is the intersection of both.
type ClipVolume struct {
	Planes []lin.Plane
}

// NewClipVolume seeds a ClipVolume from a view frustum.
func NewClipVolume(f *lin.Frustum) *ClipVolume {
	planes := make([]lin.Plane, len(f.Planes))
	copy(planes, f.Planes[:])
	return &ClipVolume{Planes: planes}
}

// CullAABB reports whether b is entirely outside at least one plane.
func (c *ClipVolume) CullAABB(b lin.AABB) bool {
	for _, p := range c.Planes {
		if p.ClassifyAABB(b) < 0 {
			return true
		}
	}
	return false
}

// clippedTo returns a new ClipVolume extending c with one inward-facing
// side plane per edge of hull, computed from the edge direction and the
// portal's own plane normal so the added planes bound exactly the solid
// angle the portal opening subtends.
func (c *ClipVolume) clippedTo(hull []lin.V3, portalNormal lin.V3) *ClipVolume {
	out := &ClipVolume{Planes: append([]lin.Plane(nil), c.Planes...)}
	n := len(hull)
	if n < 3 {
		return out
	}
	for i := 0; i < n; i++ {
		a := hull[i]
		b := hull[(i+1)%n]
		edge := lin.NewV3().Sub(&b, &a)
		sideNormal := lin.NewV3().Cross(edge, &portalNormal)
		sideNormal.Unit()
		dist := -sideNormal.Dot(&a)
		out.Planes = append(out.Planes, lin.Plane{Normal: *sideNormal, Dist: dist})
	}
	return out
}

// Flood walks from the view area across every portal whose hull intersects
// the current clip volume, clipping the volume to the crossed portal's
// hull before recursing, and calls visit once per entered area (the view
// area included, as the first call). Cycles are broken with a per-portal
// frame mark: a portal already crossed this frame is not crossed again.
func Flood(view *Area, frustum *lin.Frustum, frame uint32, visit func(a *Area, c *ClipVolume)) {
	cv := NewClipVolume(frustum)
	visit(view, cv)
	floodPortals(view, cv, frame, visit)
}

func floodPortals(area *Area, cv *ClipVolume, frame uint32, visit func(a *Area, c *ClipVolume)) {
	for ap := area.Portals; ap != nil; ap = ap.next {
		p := ap.Portal
		if p.mark == frame {
			continue
		}
		hull := p.Hull[ap.Direction]
		if !hullIntersectsVolume(hull, cv) {
			continue
		}
		other := p.Areas[1-portalSideIndex(p, area)]
		if other == nil || other == area {
			continue
		}
		p.mark = frame
		clipped := cv.clippedTo(hull, p.Plane[ap.Direction].Normal)
		visit(other, clipped)
		floodPortals(other, clipped, frame, visit)
	}
}

func portalSideIndex(p *Portal, a *Area) int {
	if p.Areas[0] == a {
		return 0
	}
	return 1
}

// hullIntersectsVolume reports whether any vertex of hull lies inside every
// plane of cv — a conservative test adequate for portal-sized convex
// openings against a much larger view volume.
func hullIntersectsVolume(hull []lin.V3, cv *ClipVolume) bool {
	if len(hull) == 0 {
		return true
	}
	for _, v := range hull {
		inside := true
		for _, pl := range cv.Planes {
			if pl.DistanceTo(v) < 0 {
				inside = false
				break
			}
		}
		if inside {
			return true
		}
	}
	return false
}
