package copper

import (
	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

// Kind discriminates the two copper segment variants
type Kind int

const (
	KindTrack Kind = iota
	KindVia
)

// ItemID is a segment's stable index in the engine's arena. It is the
// segment's identity for the duration of one operation: two segments with
// identical geometry still have distinct IDs.
type ItemID int

// Item is the engine's view of one copper segment, a tagged union over
// track and via. Exactly one of Track/Via is non-nil, matching Kind.
type Item struct {
	ID    ItemID
	Kind  Kind
	Track *pcb.Track
	Via   *pcb.Via
}

// Endpoints returns the segment's graph endpoints: one point for a via,
// start and end for a track.
func (it Item) Endpoints() []Vec {
	switch it.Kind {
	case KindVia:
		return []Vec{VecOf(it.Via.Position)}
	default:
		return []Vec{VecOf(it.Track.Start), VecOf(it.Track.End)}
	}
}

// IDSet is a set of segment identities
type IDSet map[ItemID]struct{}

// NewIDSet builds a set from the given ids
func NewIDSet(ids ...ItemID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts an id
func (s IDSet) Add(id ItemID) { s[id] = struct{}{} }

// Has reports membership
func (s IDSet) Has(id ItemID) bool {
	_, ok := s[id]
	return ok
}

// AddAll inserts every id from other
func (s IDSet) AddAll(other IDSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Index is the adjacency index: every exact endpoint coordinate maps to
// the ordered list of segments touching it. Built wholesale from the live
// board at the start of an operation and discarded at the end; it is a
// derived cache, never refreshed mid-operation, so removals made during
// the same operation are not reflected (accepted staleness window).
type Index struct {
	items []Item
	adj   map[Vec][]ItemID
}

// BuildIndex constructs the segment arena and adjacency index from every
// live track and via on the board. Arena order (tracks first, then vias,
// both in board order) fixes iteration order, keeping traversals
// deterministic.
func BuildIndex(board *pcb.Board) *Index {
	idx := &Index{
		adj: make(map[Vec][]ItemID),
	}

	for _, t := range board.Tracks {
		if t.IsRemoved() {
			continue
		}
		idx.add(Item{Kind: KindTrack, Track: t})
	}
	for _, v := range board.Vias {
		if v.IsRemoved() {
			continue
		}
		idx.add(Item{Kind: KindVia, Via: v})
	}

	return idx
}

func (idx *Index) add(it Item) {
	it.ID = ItemID(len(idx.items))
	idx.items = append(idx.items, it)
	for _, p := range it.Endpoints() {
		idx.adj[p] = append(idx.adj[p], it.ID)
	}
}

// Item returns the arena entry for an id
func (idx *Index) Item(id ItemID) Item {
	return idx.items[id]
}

// Items returns the full arena in order
func (idx *Index) Items() []Item {
	return idx.items
}

// At returns the segments touching the exact endpoint p
func (idx *Index) At(p Vec) []ItemID {
	return idx.adj[p]
}
