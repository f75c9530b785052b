// Package plan parses and executes replication plan files. A plan is the
// caller-defined pattern side of the engine: which templates to capture,
// which local copper to clean up, and which footprints to replay onto, in
// what order. Keeping it in a small text format means the board-specific
// iteration patterns live next to the board, not in code.
//
// Example plan:
//
//	# LED chain wiring
//	reference LED2
//	capture H path LED2 -> LED3
//	capture A cluster SW3 radius 8.5
//	cleanup LED pad 2 radius 100 skip 14
//	apply H to LED 1..75 step 3 pad 2 skip 14
//	align D, C with SW from 3 to 1..125 skip 2, 3, 14
package plan

// Plan is a parsed plan file: an ordered list of statements executed top
// to bottom
type Plan struct {
	Statements []*Statement `parser:"@@*"`
}

// Statement is one plan line
type Statement struct {
	Reference *ReferenceStmt `parser:"  @@"`
	Capture   *CaptureStmt   `parser:"| @@"`
	Cleanup   *CleanupStmt   `parser:"| @@"`
	Apply     *ApplyStmt     `parser:"| @@"`
	Align     *AlignStmt     `parser:"| @@"`
}

// ReferenceStmt names the footprint whose orientation becomes the global
// reference rotation for subsequent path captures
type ReferenceStmt struct {
	Ref string `parser:"'reference' @Ident"`
}

// CaptureStmt captures a named template, either a strict path between two
// footprints or a local cluster around one
type CaptureStmt struct {
	Name    string       `parser:"'capture' @Ident"`
	Path    *PathSpec    `parser:"( 'path' @@"`
	Cluster *ClusterSpec `parser:"| 'cluster' @@ )"`
}

// PathSpec is the source and destination of a strict path capture
type PathSpec struct {
	Src string `parser:"@Ident"`
	Dst string `parser:"Arrow @Ident"`
}

// ClusterSpec is the reference footprint and zone radius (mm) of a
// cluster capture
type ClusterSpec struct {
	Ref    string  `parser:"@Ident"`
	Radius float64 `parser:"'radius' @(Float|Int)"`
}

// CleanupStmt removes existing copper hanging off one pad of every
// footprint matching the prefix (radius in mm; skip lists footprint
// indices to leave alone)
type CleanupStmt struct {
	Prefix string  `parser:"'cleanup' @Ident"`
	Pad    string  `parser:"'pad' @(Ident|Int)"`
	Radius float64 `parser:"'radius' @(Float|Int)"`
	Skip   []int   `parser:"('skip' @Int (',' @Int)*)?"`
}

// ApplyStmt replays a captured template onto a range of footprints. The
// optional pad gives the net source on each target; without it, nets
// resolve per item from pad associations and the net index.
type ApplyStmt struct {
	Name   string `parser:"'apply' @Ident"`
	Prefix string `parser:"'to' @Ident"`
	Range  *Range `parser:"@@"`
	Pad    string `parser:"('pad' @(Ident|Int))?"`
	Skip   []int  `parser:"('skip' @Int (',' @Int)*)?"`
}

// AlignStmt moves satellite footprints (Prefixes) so each keeps the same
// offset from its anchor footprint as the reference index's satellites
// keep from theirs
type AlignStmt struct {
	Prefixes []string `parser:"'align' @Ident (',' @Ident)*"`
	Anchor   string   `parser:"'with' @Ident"`
	From     int      `parser:"'from' @Int"`
	Range    *Range   `parser:"'to' @@"`
	Skip     []int    `parser:"('skip' @Int (',' @Int)*)?"`
}

// Range is an inclusive footprint index range with optional step:
// "7", "1..75" or "1..75 step 3"
type Range struct {
	Start int  `parser:"@Int"`
	End   *int `parser:"(DotDot @Int)?"`
	Step  int  `parser:"('step' @Int)?"`
}

// Indices expands the range to the concrete index list, honouring step
// and the skip list
func (r *Range) Indices(skip []int) []int {
	end := r.Start
	if r.End != nil {
		end = *r.End
	}
	step := r.Step
	if step <= 0 {
		step = 1
	}

	skipSet := make(map[int]struct{}, len(skip))
	for _, s := range skip {
		skipSet[s] = struct{}{}
	}

	var out []int
	for i := r.Start; i <= end; i += step {
		if _, skipped := skipSet[i]; skipped {
			continue
		}
		out = append(out, i)
	}
	return out
}
