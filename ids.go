// Copyright © 2024 Galvanized Logic Inc.

package forge

// ids.go: actor identifier allocation. Ported directly from the
// teacher's entity.go (eID: an index-plus-edition id, recycled once the
// free list grows past maxFreeList) and carried over from entity ids to
// actor ids.

import "log/slog"

// ActorID identifies an Actor. The low idBits select an array index; the
// high edBits are an edition counter bumped on every reuse so a stale
// handle from a destroyed actor is never mistaken for its replacement.
type ActorID uint32

const (
	idBits      = 20
	edBits      = 12
	maxID       = (1 << idBits) - 1
	maxEdition  = (1 << edBits) - 1
	maxFreeList = 1 << (edBits - 1) // start recycling once this many ids are free.
)

func (id ActorID) index() uint32    { return uint32(id) & maxID }
func (id ActorID) edition() uint16  { return uint16((uint32(id) >> idBits) & maxEdition) }
func makeID(index uint32, edition uint16) ActorID {
	return ActorID(index | uint32(edition)<<idBits)
}

// idPool allocates and recycles ActorIDs, exactly as the teacher's eids
// does for eID: a dense edition slice plus a free index list.
type idPool struct {
	editions []uint16
	free     []uint32
}

// create returns a fresh id, reusing the oldest freed index once the free
// list has grown past maxFreeList entries so an index's edition has had a
// chance to wrap safely away from any lingering stale handles.
func (p *idPool) create() ActorID {
	var index uint32
	if len(p.free) > maxFreeList {
		index = p.free[0]
		p.free = append(p.free[:0], p.free[1:]...)
	} else {
		p.editions = append(p.editions, 0)
		index = uint32(len(p.editions) - 1)
		if index > maxID {
			if len(p.free) == 0 {
				slog.Error("forge: all actor identifiers in use", "max", maxID+1)
				return 0
			}
			index = p.free[0]
			p.free = append(p.free[:0], p.free[1:]...)
		}
	}
	return makeID(index, p.editions[index])
}

// valid reports whether id was created and not yet disposed.
func (p *idPool) valid(id ActorID) bool {
	index := id.index()
	if index >= uint32(len(p.editions)) {
		return false
	}
	return p.editions[index] == id.edition()
}

// dispose invalidates id and queues its index for reuse.
func (p *idPool) dispose(id ActorID) {
	index := id.index()
	if index >= uint32(len(p.editions)) {
		return
	}
	p.editions[index]++
	p.free = append(p.free, index)
}
