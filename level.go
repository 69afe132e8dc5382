// Copyright © 2024 Galvanized Logic Inc.

package forge

// level.go: Level, the container of actors plus the spatial data that
// visibility queries walk. Grounded on app.go's scenes manager (a named
// collection with swap-with-last removal) generalized with the BSP/
// portal/area data the spatial package already provides.

import (
	"github.com/ninthmoon/forge/lin"
	"github.com/ninthmoon/forge/render"
	"github.com/ninthmoon/forge/spatial"
)

// Level owns an actor list and the level-scoped spatial data a visibility
// query walks: the BSP/PVS tree for indoor areas, the portal/area graph,
// and the outdoor area. A level is either persistent (created with its
// World and never removable) or streamed (added/removed at runtime).
type Level struct {
	world      *World
	persistent bool
	worldIdx   int // index into World.levels, -1 for the persistent level.

	actors []*Actor

	BSP       *spatial.BSP
	OutdoorArea *spatial.Area
	Areas     []*spatial.Area

	killQueue []*Actor // actors pending destruction, drained at kickoff.
}

func newLevel(world *World, persistent bool) *Level {
	return &Level{world: world, persistent: persistent, worldIdx: -1}
}

// Persistent reports whether this is the world's always-resident level.
func (l *Level) Persistent() bool { return l.persistent }

// Actors returns the level's live actors, pending-kill ones included (per
// invariant 5, they disappear only after the current frame's kickoff).
func (l *Level) Actors() []*Actor { return l.actors }

// SpawnActor allocates an actor id from the owning world, appends it to
// both world.actors and this level's actors, and returns it uninitialized
// at the scene-graph identity transform — the caller positions it via
// Root().SetWorldTransform before the first tick.
func (l *Level) SpawnActor() *Actor {
	id := l.world.ids.create()
	a := newActor(id, l)
	a.levelIdx = len(l.actors)
	l.actors = append(l.actors, a)
	a.worldIdx = len(l.world.actors)
	l.world.actors = append(l.world.actors, a)
	return a
}

// queueActorKill enqueues a for removal at the next kickoff phase.
func (l *Level) queueActorKill(a *Actor) {
	l.killQueue = append(l.killQueue, a)
}

// kickoff drains the level's kill queue: each actor is unlinked from
// level.actors and world.actors via swap-with-last, disposed, and its id
// released back to the world's pool.
func (l *Level) kickoff() {
	if len(l.killQueue) == 0 {
		return
	}
	for _, a := range l.killQueue {
		l.removeFromLevel(a)
		l.world.removeFromWorld(a)
		a.dispose()
		l.world.ids.dispose(a.id)
	}
	l.killQueue = l.killQueue[:0]
}

func (l *Level) removeFromLevel(a *Actor) {
	last := len(l.actors) - 1
	idx := a.levelIdx
	if idx < 0 || idx > last || l.actors[idx] != a {
		return
	}
	l.actors[idx] = l.actors[last]
	l.actors[idx].levelIdx = idx
	l.actors = l.actors[:last]
}

// renderLevel adapts this level's spatial data into the shape
// render.Query expects, since the render package stays ignorant of Actor/
// Level and depends only on the shared spatial/lin primitives.
func (l *Level) renderLevel() *render.Level {
	return &render.Level{
		BSP:      l.BSP,
		ViewArea: func(_ lin.V3) *spatial.Area { return l.OutdoorArea },
		LeafArea: func(leaf int) *spatial.Area {
			if leaf >= 0 && leaf < len(l.Areas) {
				return l.Areas[leaf]
			}
			return l.OutdoorArea
		},
	}
}
