// Copyright © 2024 Galvanized Logic Inc.

package forge

// physical.go: Physical, the scene component that owns a physics body
// and keeps its scene-graph transform in sync with the simulated one.
// Grounded directly on simulation.go's Body/AddToSimulation/Push/
// DisposeBody — generalized from an entity-keyed simulation manager (vu
// keeps physics bodies in their own dense array, separate from the pov
// tree) into a component that owns its SceneComponent outright, since
// forge's scene graph already provides the dense-array/id bookkeeping a
// Physical needs.

import (
	"log/slog"

	"github.com/ninthmoon/forge/lin"
	"github.com/ninthmoon/forge/physics"
)

// Physical is a scene component backed by a physics.Body. Position and
// rotation are driven by the simulation: the scene component's world
// transform is overwritten from the body's pose once per post-physics
// tick rather than the other way around.
type Physical struct {
	BaseComponent
	scene *SceneComponent

	world *World
	id    physics.BodyID
}

// NewPhysical registers body with actor's world's physics simulation
// (deferred until the next pre-physics step, per AddBody's contract) and
// attaches a scene component to act as body's visual placement.
func NewPhysical(a *Actor, body physics.Body) *Physical {
	p := &Physical{BaseComponent: NewBaseComponent(TickPostPhysics)}
	p.scene = NewSceneComponent(a)
	p.scene.AttachTo(a.Root(), "", false)
	p.world = a.Level().world
	p.id = p.world.Physics.AddBody(body)
	a.AddComponent(p)
	return p
}

// Scene returns the scene component Physical keeps synchronized with the
// simulated body's pose.
func (p *Physical) Scene() *SceneComponent { return p.scene }

// Body returns the live physics body, or nil if it has not been inserted
// yet (still pending-add) or has been removed.
func (p *Physical) Body() *physics.Body { return p.world.Physics.Body(p.id) }

// Push adds to the body's linear velocity, mirroring simulation.go's
// Entity.Push.
func (p *Physical) Push(x, y, z float64) {
	b := p.Body()
	if b == nil {
		slog.Warn("forge: push on a physical body not yet inserted into the simulation")
		return
	}
	v := b.LinearVelocity()
	b.SetLinearVelocity(lin.V3{X: v.X + x, Y: v.Y + y, Z: v.Z + z})
}

// Tick copies the simulated body's pose into the scene component, run
// once per post-physics tick after physics.World.Tick has advanced.
func (p *Physical) Tick(dt float64) {
	b := p.Body()
	if b == nil {
		return
	}
	p.scene.SetWorldTransform(b.Position(), b.Rotation(), lin.V3{X: 1, Y: 1, Z: 1})
}

// Dispose removes the body from the simulation immediately.
func (p *Physical) Dispose() {
	p.world.Physics.RemoveBody(p.id)
}
