// Package copper is a connectivity-templating engine over KiCad board
// copper. It builds an adjacency graph from track and via endpoints,
// flood-fills bounded local clusters, captures the shortest electrical
// path between two footprints as a position/rotation-independent template,
// and replays templates elsewhere on the board, reconnecting them to the
// right nets.
//
// All engine coordinates are integer nanometres so endpoint equality is
// exact; the board model's millimetre floats are converted once at the
// engine boundary.
package copper

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

// Vec is a 2D point in integer nanometres
type Vec struct {
	X, Y int64
}

const (
	// Epsilon is the zone-containment tolerance: 0.01 mm. It absorbs
	// coordinate jitter so endpoints on a zone edge are not misclassified.
	Epsilon int64 = 10_000

	// PadProximity is the window used when matching tracks that terminate
	// slightly off a pad's exact centre: 2 mm.
	PadProximity int64 = 2_000_000

	nmPerMM = 1e6
)

// FromMM converts a millimetre coordinate to nanometres
func FromMM(mm float64) int64 {
	return int64(math.Round(mm * nmPerMM))
}

// ToMM converts a nanometre coordinate back to millimetres
func ToMM(nm int64) float64 {
	return float64(nm) / nmPerMM
}

// VecOf converts a board position to engine coordinates
func VecOf(p pcb.Position) Vec {
	return Vec{X: FromMM(p.X), Y: FromMM(p.Y)}
}

// Position converts back to board millimetres
func (v Vec) Position() pcb.Position {
	return pcb.Position{X: ToMM(v.X), Y: ToMM(v.Y)}
}

// Add returns v + o
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Rotate rotates v by the given angle in degrees, mathematical convention.
// Components are truncated toward zero: repeated rotation accumulates a
// bounded rounding error, an accepted property of the integer geometry.
func Rotate(v Vec, angleDegrees float64) Vec {
	rads := angleDegrees * math.Pi / 180.0
	cos := math.Cos(rads)
	sin := math.Sin(rads)
	x := float64(v.X)*cos - float64(v.Y)*sin
	y := float64(v.X)*sin + float64(v.Y)*cos
	return Vec{X: int64(x), Y: int64(y)}
}

// InZone reports whether p lies within the square zone around center:
// Chebyshev distance at most radius plus Epsilon.
func InZone(p, center Vec, radius int64) bool {
	dx := p.X - center.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - center.Y
	if dy < 0 {
		dy = -dy
	}
	d := dx
	if dy > d {
		d = dy
	}
	return d <= radius+Epsilon
}
