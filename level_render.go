// Copyright © 2024 Galvanized Logic Inc.

package forge

// level_render.go: RenderFrame, the bridge between the scene graph and
// the render package's per-view pipeline. Grounded on spec §4.7's "for
// each viewport: build RenderView, run the visibility query, build
// instances" sequence, wired here against this level's live actors
// rather than render.Assemble's level-agnostic candidate slice.

import "github.com/ninthmoon/forge/render"

// RenderFrame gathers this level's drawables into render.Primitive/
// DrawableInfo form and assembles packet for view, following spec §4.7
// end to end short of GPU submission (the caller hands packet to a
// render.Backend afterward).
func (l *Level) RenderFrame(packet *render.FramePacket, view *render.RenderView, frame uint32) {
	var candidates []render.Primitive
	infos := map[uint64]render.DrawableInfo{}

	for _, a := range l.actors {
		if a.pendingKill {
			continue
		}
		for _, c := range a.components {
			if d, ok := c.(*Drawable); ok {
				candidates = append(candidates, d.Primitive())
				infos[d.id] = d.Info
			}
		}
	}

	drawInfo := func(id uint64) (render.DrawableInfo, bool) {
		info, ok := infos[id]
		return info, ok
	}

	render.Assemble(packet, view, l.renderLevel(), frame, candidates, nil, drawInfo, nil, nil, nil)
}
