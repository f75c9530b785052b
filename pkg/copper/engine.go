package copper

import (
	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

// Engine bundles the per-operation snapshot state: the segment arena with
// its adjacency index and the (position, layer) net index. Build one at
// the start of a top-level operation and discard it at the end — the
// board is the single source of truth and these are disposable caches.
// The engine is not safe for use concurrently with board mutation; one
// index-build-to-mutation sequence is a single critical section per board.
type Engine struct {
	board *pcb.Board
	idx   *Index
	nets  NetIndex
}

// NewEngine snapshots the board into fresh indices
func NewEngine(board *pcb.Board) *Engine {
	return &Engine{
		board: board,
		idx:   BuildIndex(board),
		nets:  BuildNetIndex(board),
	}
}

// Board returns the live board the engine was built over
func (e *Engine) Board() *pcb.Board { return e.board }

// Index returns the adjacency index snapshot
func (e *Engine) Index() *Index { return e.idx }

// Nets returns the (position, layer) net index snapshot
func (e *Engine) Nets() NetIndex { return e.nets }
