// Copyright © 2024 Galvanized Logic Inc.

package physics

// body.go : ../entity.cpp ../entity.h

import (
	"github.com/ninthmoon/forge/lin"
)

// applied_force is a single force acting at a world-space point on a body,
// accumulated between Simulate calls and cleared at the end of each step.
type applied_force struct {
	position lin.V3
	newtons  lin.V3
}

// Body is a rigid body participating in the simulation. Body IDs are the
// index of the body within the slice passed to Simulate and are only
// valid for that one call.
type Body struct {
	colliders []collider

	world_position lin.V3
	world_rotation lin.Q
	world_scale    lin.V3

	previous_world_position lin.V3
	previous_world_rotation lin.Q

	linear_velocity  lin.V3
	angular_velocity lin.V3

	previous_linear_velocity  lin.V3
	previous_angular_velocity lin.V3

	inverse_mass          float64
	inertia_tensor        lin.M3
	inverse_inertia_tensor lin.M3

	fixed             bool
	active            bool
	deactivation_time float64

	bounding_sphere_radius float64

	static_friction_coefficient  float64
	dynamic_friction_coefficient float64
	restitution_coefficient      float64

	forces []applied_force

	// World-level bookkeeping, set by World and not touched by Simulate.
	actor       uint64
	group, mask uint32
	ignore      map[uint64]bool
	trigger     bool
	wantsEvents bool
	pendingKill bool
}

// body_create_ex builds a Body from the given initial transform, mass, and
// colliders. A static body has zero inverse mass and never integrates.
func body_create_ex(world_position lin.V3, world_rotation lin.Q, world_scale lin.V3, mass float64,
	colliders []collider, static_friction_coefficient, dynamic_friction_coefficient,
	restitution_coefficient float64, static bool) *Body {
	b := &Body{
		colliders:                    colliders,
		world_position:               world_position,
		world_rotation:               world_rotation,
		world_scale:                  world_scale,
		previous_world_position:      world_position,
		previous_world_rotation:      world_rotation,
		fixed:                        static,
		active:                       true,
		bounding_sphere_radius:       colliders_get_bounding_sphere_radius(colliders),
		static_friction_coefficient:  static_friction_coefficient,
		dynamic_friction_coefficient: dynamic_friction_coefficient,
		restitution_coefficient:      restitution_coefficient,
		group:                        ^uint32(0),
		mask:                         ^uint32(0),
	}
	if static || mass <= 0 {
		b.inverse_mass = 0
	} else {
		b.inverse_mass = 1.0 / mass
	}
	tensor := colliders_get_default_inertia_tensor(colliders, mass)
	b.inertia_tensor = tensor
	if !static && mass > 0 {
		b.inverse_inertia_tensor = *lin.NewM3().Inv(&tensor)
	}
	return b
}

// body_get_by_id returns the body registered for this simulation run under id.
func body_get_by_id(id bid) *Body {
	return &bodies[id]
}

// AddForce accumulates a force acting at a world-space position, to be
// applied over the next Simulate call. wake reactivates a sleeping body.
func (b *Body) AddForce(position, force lin.V3, wake bool) {
	b.forces = append(b.forces, applied_force{position: position, newtons: force})
	if wake {
		b.active = true
		b.deactivation_time = 0
	}
}

func (b *Body) clear_forces() {
	b.forces = b.forces[:0]
}

// SetPosition places the body at the given world position.
func (b *Body) SetPosition(position lin.V3) *Body {
	b.world_position = position
	b.previous_world_position = position
	return b
}

// SetRotation orients the body with the given world rotation.
func (b *Body) SetRotation(rotation lin.Q) *Body {
	b.world_rotation = rotation
	b.previous_world_rotation = rotation
	return b
}

// SetScale records the body's render/collider scale. Colliders must be
// built pre-scaled; this only affects reported transforms.
func (b *Body) SetScale(scale lin.V3) *Body {
	b.world_scale = scale
	return b
}

// Position returns the body's current world position.
func (b *Body) Position() lin.V3 { return b.world_position }

// Rotation returns the body's current world rotation.
func (b *Body) Rotation() lin.Q { return b.world_rotation }

// Scale returns the body's render/collider scale.
func (b *Body) Scale() lin.V3 { return b.world_scale }

// LinearVelocity returns the body's current linear velocity.
func (b *Body) LinearVelocity() lin.V3 { return b.linear_velocity }

// AngularVelocity returns the body's current angular velocity.
func (b *Body) AngularVelocity() lin.V3 { return b.angular_velocity }

// SetLinearVelocity sets the body's linear velocity directly.
func (b *Body) SetLinearVelocity(v lin.V3) *Body { b.linear_velocity = v; return b }

// SetAngularVelocity sets the body's angular velocity directly.
func (b *Body) SetAngularVelocity(v lin.V3) *Body { b.angular_velocity = v; return b }

// Fixed reports whether the body is static (infinite mass, never integrated).
func (b *Body) Fixed() bool { return b.fixed }

// Active reports whether the body is awake and participating in integration.
func (b *Body) Active() bool { return b.active }

// SetFriction sets the static and dynamic (Coulomb) friction coefficients.
func (b *Body) SetFriction(static, dynamic float64) *Body {
	b.static_friction_coefficient = static
	b.dynamic_friction_coefficient = dynamic
	return b
}

// SetRestitution sets the coefficient of restitution used at contact resolution.
func (b *Body) SetRestitution(restitution float64) *Body {
	b.restitution_coefficient = restitution
	return b
}

// SetActor associates this body with an owning actor id, used to report
// ActorA/ActorB on contact events and to key ignore sets.
func (b *Body) SetActor(actor uint64) *Body { b.actor = actor; return b }

// SetFilter sets the broadphase collision group this body belongs to and
// the mask of groups it collides with.
func (b *Body) SetFilter(group, mask uint32) *Body {
	b.group, b.mask = group, mask
	return b
}

// Ignore excludes the given actor from collision against this body.
func (b *Body) Ignore(actor uint64) *Body {
	if b.ignore == nil {
		b.ignore = map[uint64]bool{}
	}
	b.ignore[actor] = true
	return b
}

// SetTrigger marks this body as a trigger volume: it reports overlap
// events but never participates in contact resolution's impulse response.
func (b *Body) SetTrigger(trigger bool) *Body { b.trigger = trigger; return b }

// SetWantsEvents marks whether this body should generate Contact events.
func (b *Body) SetWantsEvents(wants bool) *Body { b.wantsEvents = wants; return b }

// MarkForKill flags the body to be removed on the next pre-physics step.
func (b *Body) MarkForKill() { b.pendingKill = true }
