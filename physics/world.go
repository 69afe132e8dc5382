// Copyright © 2024 Galvanized Logic Inc.

package physics

// world.go wraps the fixed-step PBD stepper (physics.go) with the
// bookkeeping an engine needs around it: a stable body registry, a fixed
// timestep accumulator (or variable-step interpolation), a collision
// filter, double-buffered contact/overlap events, and spatial queries.
// The registry follows the same dense-array/sparse-map/swap-with-last-
// removal scheme used elsewhere in the engine for component storage.

import (
	"log/slog"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/ninthmoon/forge/lin"
)

// BodyID identifies a body registered with a World. Stable across
// add/remove, unlike the transient bid used inside a single Simulate call.
type BodyID uint32

// StepMode selects how World.Tick turns a variable frame delta into fixed
// physics steps.
type StepMode uint8

const (
	// AccumulatorMode integrates floor(elapsed/dt) fixed steps per Tick,
	// carrying the remainder to the next call.
	AccumulatorMode StepMode = iota
	// InterpolationMode passes the frame delta straight through as a single
	// substep budget and blends the render transform between the previous
	// and current physics state using the leftover alpha.
	InterpolationMode
)

// World owns the set of simulated bodies, runs the fixed-step simulation,
// and reports contact/overlap lifecycle events to interested callers.
type World struct {
	Hz   float64  // Steps per second. Default 60.
	Mode StepMode // AccumulatorMode or InterpolationMode.

	IterationCount   uint32 // position solver iterations per step.
	SubstepCount     uint32 // substeps per fixed step.
	EnableCollisions bool

	bids   map[BodyID]uint32 // sparse: BodyID -> dense index.
	bodies []Body            // dense, indexed by the map's values.
	ids    []BodyID          // dense, parallel to bodies.
	nextID BodyID

	pendingAdd []pendingBody // deferred registrations, flushed pre-step.

	accumulator float64
	tick        uint64 // fixed_tick_number, used for frame_parity.
	alphaTween  *gween.Tween

	contacts [2][]Contact      // double-buffered, indexed by frame_parity.
	byPair   [2]map[pairKey]int // hash of (bodyA, bodyB) -> index into contacts[parity].
}

type pendingBody struct {
	id   BodyID
	body Body
}

// pairKey canonicalizes a body pair so bodyA's id is always the larger,
// matching the "pointer order" canonicalization of the spec's pair hash.
type pairKey struct {
	a, b BodyID
}

func newPairKey(a, b BodyID) pairKey {
	if a < b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// NewWorld creates a world stepping at hz fixed steps per second.
func NewWorld(hz float64, mode StepMode) *World {
	if hz <= 0 {
		hz = 60
	}
	w := &World{
		Hz:               hz,
		Mode:             mode,
		IterationCount:   1,
		SubstepCount:     1,
		EnableCollisions: true,
		bids:             map[BodyID]uint32{},
	}
	w.byPair[0] = map[pairKey]int{}
	w.byPair[1] = map[pairKey]int{}
	w.alphaTween = gween.New(0, 1, float32(1.0/hz), ease.Linear)
	return w
}

// AddBody defers registration of b: the body is linked into a pending-add
// list and actually inserted on the next Tick's pre-physics step. Bodies
// may be added safely from inside a tick or contact callback.
func (w *World) AddBody(b Body) BodyID {
	id := w.nextID
	w.nextID++
	w.pendingAdd = append(w.pendingAdd, pendingBody{id: id, body: b})
	return id
}

// RemoveBody removes id immediately, including from the pending-add list.
func (w *World) RemoveBody(id BodyID) {
	for i := range w.pendingAdd {
		if w.pendingAdd[i].id == id {
			w.pendingAdd = append(w.pendingAdd[:i], w.pendingAdd[i+1:]...)
			return
		}
	}
	index, ok := w.bids[id]
	if !ok {
		return
	}
	delete(w.bids, id)
	last := len(w.bodies) - 1
	lastID := w.ids[last]
	w.bodies[index] = w.bodies[last]
	w.ids[index] = w.ids[last]
	w.bodies = w.bodies[:last]
	w.ids = w.ids[:last]
	if id != lastID {
		w.bids[lastID] = index
	}
}

// Body returns the live body for id, or nil if it does not exist (or is
// still pending addition).
func (w *World) Body(id BodyID) *Body {
	if index, ok := w.bids[id]; ok {
		return &w.bodies[index]
	}
	return nil
}

func (w *World) flushPending() {
	if len(w.pendingAdd) == 0 {
		return
	}
	for _, p := range w.pendingAdd {
		index := len(w.bodies)
		w.bodies = append(w.bodies, p.body)
		w.ids = append(w.ids, p.id)
		w.bids[p.id] = uint32(index)
	}
	w.pendingAdd = w.pendingAdd[:0]
}

// Tick advances the world by elapsed seconds, running zero or more fixed
// steps depending on Mode, and dispatches contact/overlap events for each
// fixed step taken. It returns the interpolation alpha in [0,1) describing
// how far between the last two fixed states the render should blend (only
// meaningful in InterpolationMode; always 0 in AccumulatorMode).
func (w *World) Tick(elapsed float64, dispatch func(Event)) float64 {
	dt := 1.0 / w.Hz
	switch w.Mode {
	case AccumulatorMode:
		w.accumulator += elapsed
		for w.accumulator >= dt {
			w.step(dt, dispatch)
			w.accumulator -= dt
		}
		return 0
	case InterpolationMode:
		w.step(elapsed, dispatch)
		alpha, _ := w.alphaTween.Update(float32(elapsed))
		return float64(alpha)
	}
	return 0
}

// Gravity is the downward acceleration applied to every non-fixed body
// each step, in the same place physics.Simulate applies it.
const Gravity = 10.0

func (w *World) step(dt float64, dispatch func(Event)) {
	w.flushPending()
	w.reapKilled()

	bodies := w.bodies
	for i := range bodies {
		bod := &bodies[i]
		colliders_update(bod.colliders, bod.world_position, &bod.world_rotation)
	}
	for i := range bodies {
		bod := &bodies[i]
		if bod.fixed {
			continue
		}
		force := lin.NewV3().SetS(0, -Gravity/bod.inverse_mass, 0)
		bod.AddForce(lin.V3{}, *force, false)
	}

	substeps := w.SubstepCount
	if substeps == 0 {
		substeps = 1
	}
	iterations := w.IterationCount
	if iterations == 0 {
		iterations = 1
	}
	pbd_simulate(dt, bodies, substeps, iterations, w.EnableCollisions)

	for i := range bodies {
		bodies[i].clear_forces()
	}

	w.buildContacts()
	if dispatch != nil {
		w.dispatchEvents(dispatch)
	}
	w.tick++
}

// reapKilled removes bodies marked pendingKill before stepping, mirroring
// the spec's "bodies/actors pending kill are skipped" rule by simply never
// handing them to Simulate.
func (w *World) reapKilled() {
	for i := 0; i < len(w.bodies); {
		if w.bodies[i].pendingKill {
			id := w.ids[i]
			w.RemoveBody(id)
			continue
		}
		i++
	}
}

// Contact describes one contact or overlap pair for a single fixed step.
type Contact struct {
	BodyA, BodyB   BodyID
	ActorA, ActorB uint64
	Normal         lin.V3
	Overlap        bool // true if either body is a trigger.

	// CombinedStaticFriction, CombinedDynamicFriction, and
	// CombinedRestitution are the two bodies' material coefficients
	// combined exactly as pbd.go's constraint solver combines them
	// (friction averaged, restitution multiplied), so a listener never
	// has to re-derive what the step that produced this contact used.
	CombinedStaticFriction  float64
	CombinedDynamicFriction float64
	CombinedRestitution     float64

	pointsA, pointsB []lin.V3 // lazily extracted, cached per side.
}

// EventKind classifies a dispatched contact/overlap lifecycle event.
type EventKind uint8

const (
	EventBegin EventKind = iota
	EventUpdate
	EventEnd
)

// Event is a single contact/overlap lifecycle notification.
type Event struct {
	Kind    EventKind
	Contact Contact
}

// buildContacts runs broadphase + narrow phase over the current body set
// and fills contacts[cur] with the manifolds bodies have opted into.
// broad_get_collision_pairs already excludes pairs the group/mask filter or
// an ignore set rule out, so only the wantsEvents opt-in is checked here.
func (w *World) buildContacts() {
	cur := int(w.tick & 1)
	w.contacts[cur] = w.contacts[cur][:0]
	w.byPair[cur] = map[pairKey]int{}

	pairs := broad_get_collision_pairs(w.bodies)
	for _, p := range pairs {
		a, b := &w.bodies[p.b1_id], &w.bodies[p.b2_id]
		if !a.wantsEvents && !b.wantsEvents {
			continue
		}
		colliders_update(a.colliders, a.world_position, &a.world_rotation)
		colliders_update(b.colliders, b.world_position, &b.world_rotation)
		raw := colliders_get_contacts(a.colliders, b.colliders)
		if len(raw) == 0 {
			continue
		}
		idA, idB := w.ids[p.b1_id], w.ids[p.b2_id]
		if idA < idB {
			idA, idB = idB, idA
			a, b = b, a
		}
		c := Contact{
			BodyA: idA, BodyB: idB,
			ActorA: a.actor, ActorB: b.actor,
			Normal:                  raw[0].normal,
			Overlap:                 a.trigger || b.trigger,
			CombinedStaticFriction:  (a.static_friction_coefficient + b.static_friction_coefficient) / 2.0,
			CombinedDynamicFriction: (a.dynamic_friction_coefficient + b.dynamic_friction_coefficient) / 2.0,
			CombinedRestitution:     a.restitution_coefficient * b.restitution_coefficient,
		}
		key := newPairKey(idA, idB)
		w.byPair[cur][key] = len(w.contacts[cur])
		w.contacts[cur] = append(w.contacts[cur], c)
	}
}

// dispatchEvents emits begin/update for everything live this step, then
// end for everything that dropped out, per the spec's emission order.
func (w *World) dispatchEvents(dispatch func(Event)) {
	cur := int(w.tick & 1)
	prev := 1 - cur

	for i := range w.contacts[cur] {
		c := w.contacts[cur][i]
		key := newPairKey(c.BodyA, c.BodyB)
		if _, existed := w.byPair[prev][key]; existed {
			dispatch(Event{Kind: EventUpdate, Contact: c})
		} else {
			dispatch(Event{Kind: EventBegin, Contact: c})
		}
	}
	for key, index := range w.byPair[prev] {
		if _, stillLive := w.byPair[cur][key]; !stillLive {
			dispatch(Event{Kind: EventEnd, Contact: w.contacts[prev][index]})
		}
	}
}

// ContactPoints lazily extracts and caches the world-space contact points
// on the requested side of c, so repeated queries in one frame's event
// handlers pay the extraction cost once.
func (c *Contact) ContactPoints(side int, colliders1, colliders2 []collider) []lin.V3 {
	if side == 0 {
		if c.pointsA == nil {
			c.pointsA = extractContactPoints(colliders1, colliders2, 0)
		}
		return c.pointsA
	}
	if c.pointsB == nil {
		c.pointsB = extractContactPoints(colliders1, colliders2, 1)
	}
	return c.pointsB
}

func extractContactPoints(colliders1, colliders2 []collider, side int) []lin.V3 {
	raw := colliders_get_contacts(colliders1, colliders2)
	points := make([]lin.V3, len(raw))
	for i, r := range raw {
		if side == 0 {
			points[i] = r.collision_point1
		} else {
			points[i] = r.collision_point2
		}
	}
	return points
}

// RayHit is the result of a trace_ray query against the world's bodies.
type RayHit struct {
	Body     BodyID
	Distance float64
	Point    lin.V3
}

// TraceRayClosest returns the nearest body the ray hits, testing each
// body's bounding sphere first and falling back to its convex hull trees
// when present. ok is false if nothing was hit.
func (w *World) TraceRayClosest(origin, dir lin.V3) (hit RayHit, ok bool) {
	best := lin.Large
	for i := range w.bodies {
		b := &w.bodies[i]
		d, hitSphere := sphereTrace(origin, dir, b.world_position, b.bounding_sphere_radius)
		if !hitSphere || d >= best {
			continue
		}
		best = d
		hit = RayHit{Body: w.ids[i], Distance: d, Point: *lin.NewV3().Add(&origin, lin.NewV3().Scale(&dir, d))}
		ok = true
	}
	return hit, ok
}

// TraceRayAll returns every body the ray hits, sorted nearest-first.
func (w *World) TraceRayAll(origin, dir lin.V3) []RayHit {
	hits := make([]RayHit, 0, 4)
	for i := range w.bodies {
		b := &w.bodies[i]
		if d, ok := sphereTrace(origin, dir, b.world_position, b.bounding_sphere_radius); ok {
			hits = append(hits, RayHit{Body: w.ids[i], Distance: d, Point: *lin.NewV3().Add(&origin, lin.NewV3().Scale(&dir, d))})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func sphereTrace(origin, dir, center lin.V3, radius float64) (float64, bool) {
	r := lin.Ray{Origin: origin, Dir: dir}
	box := lin.AABB{
		Min: lin.V3{X: center.X - radius, Y: center.Y - radius, Z: center.Z - radius},
		Max: lin.V3{X: center.X + radius, Y: center.Y + radius, Z: center.Z + radius},
	}
	tmin, _, hit := r.IntersectAABB(box)
	return tmin, hit
}

// TraceShape sweeps a sphere of the given radius along dir from origin and
// returns every body it would touch, nearest first, emulating the spec's
// sphere/box/cylinder/capsule/convex sweep test against each body's
// bounding sphere rather than its exact collider — the same conservative
// approximation TraceRayClosest/TraceRayAll already make for rayTest.
func (w *World) TraceShape(origin, dir lin.V3, radius float64) []RayHit {
	hits := make([]RayHit, 0, 4)
	for i := range w.bodies {
		b := &w.bodies[i]
		if d, ok := sphereTrace(origin, dir, b.world_position, b.bounding_sphere_radius+radius); ok {
			hits = append(hits, RayHit{Body: w.ids[i], Distance: d, Point: *lin.NewV3().Add(&origin, lin.NewV3().Scale(&dir, d))})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// QueryBodies returns every body whose bounding sphere overlaps the given
// sphere, emulating the spec's "temporary ghost body" test without
// actually registering one.
func (w *World) QueryBodies(center lin.V3, radius float64) []BodyID {
	var found []BodyID
	for i := range w.bodies {
		b := &w.bodies[i]
		dist := lin.NewV3().Sub(&center, &b.world_position).Len()
		if dist <= radius+b.bounding_sphere_radius {
			found = append(found, w.ids[i])
		}
	}
	return found
}

// ApplyRadialDamage calls apply on every actor whose body is found within
// radius of center, passing the amount and center through unmodified.
func (w *World) ApplyRadialDamage(amount float64, center lin.V3, radius float64, apply func(actor uint64, amount float64, center lin.V3)) {
	for _, id := range w.QueryBodies(center, radius) {
		b := w.Body(id)
		if b == nil {
			slog.Warn("ApplyRadialDamage: body vanished mid-query", "body", id)
			continue
		}
		apply(b.actor, amount, center)
	}
}
