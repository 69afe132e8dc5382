// Copyright © 2024 Galvanized Logic Inc.

package forge

// actor.go: Actor, a composition of components plus a distinguished root
// scene component. Grounded on entity.go's Entity (an id plus an owning
// manager) and app.go's AddScene/dispose, generalized from vu's fixed
// scene/pov/model/body/light/sound component set into an open Component
// slice per actor.

// Actor is a composable game-world entity: an id, a root SceneComponent
// establishing its place in the scene graph, and zero or more attached
// Components. An actor lives in exactly one Level for its lifetime.
type Actor struct {
	id    ActorID
	level *Level
	root  *SceneComponent

	components []Component

	worldIdx int // index into World.actors, for O(1) removal.
	levelIdx int // index into Level.actors, for O(1) removal.

	pendingKill        bool
	tickEvenWhenPaused bool

	hasLifespan bool
	lifespan    float64 // seconds remaining; decremented at post-physics tick.
}

// newActor allocates an actor with an identity-transform root component.
// Only Level.SpawnActor constructs actors so world/level indices stay
// consistent with the arrays that hold them.
func newActor(id ActorID, level *Level) *Actor {
	a := &Actor{id: id, level: level}
	a.root = NewSceneComponent(a)
	return a
}

// ID returns the actor's stable identifier.
func (a *Actor) ID() ActorID { return a.id }

// Level returns the level this actor lives in.
func (a *Actor) Level() *Level { return a.level }

// Root returns the actor's distinguished root scene component. Every
// other scene component the actor owns is, directly or indirectly,
// attached under this one.
func (a *Actor) Root() *SceneComponent { return a.root }

// IsPendingKill reports whether Destroy has been called; the actor
// remains reachable via live iteration until the scheduler's kickoff
// phase frees it.
func (a *Actor) IsPendingKill() bool { return a.pendingKill }

// SetTickEvenWhenPaused controls whether this actor still ticks while
// its world is paused (e.g. a menu controller or a camera rig).
func (a *Actor) SetTickEvenWhenPaused(v bool) { a.tickEvenWhenPaused = v }

// SetLifespan gives the actor a countdown in seconds; it is destroyed
// once the countdown reaches zero or below at a post-physics tick. A
// lifespan is never set by default: actors live until explicitly killed.
func (a *Actor) SetLifespan(seconds float64) {
	a.hasLifespan = true
	a.lifespan = seconds
}

// AddComponent attaches c to the actor and returns it for chaining.
func (a *Actor) AddComponent(c Component) Component {
	c.setActor(a)
	a.components = append(a.components, c)
	return c
}

// Components returns the actor's attached components, root scene
// component excluded (it is reached via Root).
func (a *Actor) Components() []Component { return a.components }

// Destroy marks the actor pending-kill. It is unlinked from live
// iteration by the scheduler's kickoff phase at the end of the current
// frame, not immediately — see invariant 5 on pending-kill reachability.
func (a *Actor) Destroy() {
	if a.pendingKill {
		return
	}
	a.pendingKill = true
	a.level.queueActorKill(a)
}

// tickPrePhysics runs every attached component's pre-physics tick.
func (a *Actor) tickPrePhysics(dt float64) {
	for _, c := range a.components {
		if c.Phases()&TickPrePhysics != 0 {
			c.Tick(dt)
		}
	}
}

// tickPostPhysics runs every attached component's post-physics tick,
// then decrements the actor's lifespan and destroys it once expired.
func (a *Actor) tickPostPhysics(dt float64) {
	for _, c := range a.components {
		if c.Phases()&TickPostPhysics != 0 {
			c.Tick(dt)
		}
	}
	if a.hasLifespan {
		a.lifespan -= dt
		if a.lifespan <= 0 {
			a.Destroy()
		}
	}
}

// dispose releases every component and detaches the root scene component,
// called once by the scheduler's kickoff phase.
func (a *Actor) dispose() {
	for _, c := range a.components {
		c.Dispose()
	}
	a.components = nil
	a.root.Detach(false)
}
