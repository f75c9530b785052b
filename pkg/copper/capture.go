package copper

import (
	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

type searchState struct {
	pos  Vec
	path []ItemID
}

// CapturePath finds the single shortest-hop copper path from any pad of
// the source footprint to any pad of the destination footprint and
// captures it as a rotation-normalised template. refRot is the canonical
// reference orientation the template is normalised to.
//
// The contract is best-effort: an unknown reference or an unreachable
// destination yields an empty template and an empty identity set, never an
// error. Callers test Template.Empty.
func (e *Engine) CapturePath(srcRef, dstRef string, refRot float64) (Template, IDSet) {
	tmpl := Template{Kind: TemplatePath, RefRot: refRot}
	ids := make(IDSet)

	src := e.board.FootprintByReference(srcRef)
	dst := e.board.FootprintByReference(dstRef)
	if src == nil || dst == nil {
		return tmpl, ids
	}

	// Seed the frontier with every pad of the source. For each pad, also
	// pick up tracks that terminate slightly off the pad's exact centre:
	// an endpoint within the proximity window that still hit-tests against
	// the pad shape joins the frontier through that track.
	var queue []searchState
	visited := make(map[Vec]struct{})
	for i := range src.Pads {
		pad := &src.Pads[i]
		pos := VecOf(src.PadPosition(pad))
		queue = append(queue, searchState{pos: pos})
		visited[pos] = struct{}{}

		for _, it := range e.idx.items {
			if it.Kind != KindTrack {
				continue
			}
			start := VecOf(it.Track.Start)
			end := VecOf(it.Track.End)
			if near(start, pos) && src.PadHitTest(pad, it.Track.Start) {
				queue = append(queue, searchState{pos: end, path: []ItemID{it.ID}})
				visited[end] = struct{}{}
			} else if near(end, pos) && src.PadHitTest(pad, it.Track.End) {
				queue = append(queue, searchState{pos: start, path: []ItemID{it.ID}})
				visited[start] = struct{}{}
			}
		}
	}

	// BFS: first hit on a destination pad is the shortest-hop path, ties
	// broken by frontier insertion order
	var found []ItemID
	var hit bool
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		if e.hitsFootprint(dst, curr.pos) {
			found = curr.path
			hit = true
			break
		}

		for _, id := range e.idx.At(curr.pos) {
			if containsID(curr.path, id) {
				continue
			}
			next := farEndpoint(e.idx.Item(id), curr.pos)
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			path := make([]ItemID, len(curr.path), len(curr.path)+1)
			copy(path, curr.path)
			queue = append(queue, searchState{pos: next, path: append(path, id)})
		}
	}
	if !hit {
		return tmpl, ids
	}

	// Enrichment: vias sitting at a junction the path passes through are
	// part of the electrical picture even when the hop search did not need
	// them to reach the destination
	found = e.enrichWithVias(found)

	// Normalise: origin at the source footprint, rotated into the
	// canonical reference orientation
	origin := VecOf(src.Position.Position)
	correction := -(float64(src.Position.Angle) - refRot)
	for _, id := range found {
		ids.Add(id)
		tmpl.Items = append(tmpl.Items, snapshotItem(e.idx.Item(id), origin, correction, ""))
	}

	return tmpl, ids
}

// CaptureCluster captures every chain around the footprint that is fully
// contained in the zone (zero exit points) as a relative-only template.
// Each chain is tagged with the pad number it touches, if any, so replay
// can reconnect it to the matching pad's net on the destination.
func (e *Engine) CaptureCluster(ref string, radius int64) (Template, IDSet) {
	fp := e.board.FootprintByReference(ref)
	tmpl := Template{Kind: TemplateCluster, Radius: radius}
	ids := make(IDSet)
	if fp == nil {
		return tmpl, ids
	}

	origin := VecOf(fp.Position.Position)
	tmpl.RefRot = float64(fp.Position.Angle)

	processed := make(IDSet)
	for _, it := range e.idx.items {
		if processed.Has(it.ID) || !e.touchesZone(it, origin, radius) {
			continue
		}
		chain, chainIDs, exits := e.idx.TraceChain(it.ID, origin, radius)
		processed.AddAll(chainIDs)
		if len(exits) != 0 {
			continue
		}

		padNum := e.chainPadNumber(fp, chain)
		for _, id := range chain {
			ids.Add(id)
			// Relative translation only; rotation is resolved at apply
			// time from the target/reference orientation delta
			tmpl.Items = append(tmpl.Items, snapshotItem(e.idx.Item(id), origin, 0, padNum))
		}
	}

	return tmpl, ids
}

// near is the fast per-axis proximity check used before the exact pad
// shape test
func near(a, b Vec) bool {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx < PadProximity && dy < PadProximity
}

func containsID(path []ItemID, id ItemID) bool {
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}

// farEndpoint returns the endpoint to continue the search from: a via
// pivots in place, a track leads to whichever end is not the current
// position
func farEndpoint(it Item, pos Vec) Vec {
	if it.Kind == KindVia {
		return VecOf(it.Via.Position)
	}
	start := VecOf(it.Track.Start)
	if start == pos {
		return VecOf(it.Track.End)
	}
	return start
}

// hitsFootprint checks the current search position against every pad of
// the footprint: exact coordinate match first, then the pad shape test
func (e *Engine) hitsFootprint(fp *pcb.Footprint, pos Vec) bool {
	mm := pos.Position()
	for i := range fp.Pads {
		pad := &fp.Pads[i]
		if VecOf(fp.PadPosition(pad)) == pos {
			return true
		}
		if fp.PadHitTest(pad, mm) {
			return true
		}
	}
	return false
}

// enrichWithVias pulls in any via registered at a coordinate the path
// touches that the hop search skipped. The walk follows the path and each
// item's endpoints in order, so enriched vias land in a fixed position in
// the template no matter how many junctions the path crosses.
func (e *Engine) enrichWithVias(path []ItemID) []ItemID {
	present := NewIDSet(path...)
	enriched := path
	for _, id := range path {
		for _, p := range e.idx.Item(id).Endpoints() {
			for _, cand := range e.idx.At(p) {
				if e.idx.Item(cand).Kind == KindVia && !present.Has(cand) {
					enriched = append(enriched, cand)
					present.Add(cand)
				}
			}
		}
	}
	return enriched
}

func (e *Engine) touchesZone(it Item, center Vec, radius int64) bool {
	for _, p := range it.Endpoints() {
		if InZone(p, center, radius) {
			return true
		}
	}
	return false
}

// chainPadNumber finds the first pad of fp that any endpoint of the chain
// hit-tests against
func (e *Engine) chainPadNumber(fp *pcb.Footprint, chain []ItemID) string {
	for _, id := range chain {
		for _, p := range e.idx.Item(id).Endpoints() {
			mm := p.Position()
			for i := range fp.Pads {
				if fp.PadHitTest(&fp.Pads[i], mm) {
					return fp.Pads[i].Number
				}
			}
		}
	}
	return ""
}

// snapshotItem converts a live segment into a value-type template item,
// translated relative to origin and rotated by correction degrees
func snapshotItem(it Item, origin Vec, correction float64, padNum string) TemplateItem {
	rot := func(v Vec) Vec {
		if correction == 0 {
			return v
		}
		return Rotate(v, correction)
	}

	switch it.Kind {
	case KindVia:
		v := it.Via
		layers := make([]string, len(v.Layers))
		copy(layers, v.Layers)
		return TemplateItem{
			Kind:      KindVia,
			Pos:       rot(VecOf(v.Position).Sub(origin)),
			Width:     v.Size,
			Drill:     v.Drill,
			ViaType:   v.Type,
			Layers:    layers,
			PadNumber: padNum,
		}
	default:
		t := it.Track
		return TemplateItem{
			Kind:      KindTrack,
			Start:     rot(VecOf(t.Start).Sub(origin)),
			End:       rot(VecOf(t.End).Sub(origin)),
			Width:     t.Width,
			Layer:     t.Layer,
			PadNumber: padNum,
		}
	}
}
