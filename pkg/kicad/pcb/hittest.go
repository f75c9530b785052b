package pcb

import "math"

// hitEpsilon keeps endpoints that sit exactly on a pad edge inside the pad
// despite nanometre rounding. 0.1 µm in mm.
const hitEpsilon = 1e-4

// PadHitTest checks whether a board position lies inside the pad's copper
// shape. The test honours the pad shape (not just the bounding box) and the
// pad's rotation: KiCad stores pad angles in the board frame, so the point
// is rotated into the pad-local frame before the shape test.
func (fp *Footprint) PadHitTest(pad *Pad, pos Position) bool {
	abs := fp.PadPosition(pad)
	dx := pos.X - abs.X
	dy := pos.Y - abs.Y

	// Inverse of the placement rotation (see TransformPosition)
	if pad.Position.Angle != 0 {
		angleRad := float64(pad.Position.Angle) * math.Pi / 180.0
		cos := math.Cos(angleRad)
		sin := math.Sin(angleRad)
		dx, dy = dx*cos-dy*sin, dx*sin+dy*cos
	}

	halfW := pad.Size.Width/2 + hitEpsilon
	halfH := pad.Size.Height/2 + hitEpsilon

	switch pad.Shape {
	case "circle":
		r := halfW
		return dx*dx+dy*dy <= r*r

	case "oval":
		// Stadium shape: a rectangle capped by semicircles on the long axis
		r := math.Min(halfW, halfH)
		cx := clamp(dx, -(halfW - r), halfW-r)
		cy := clamp(dy, -(halfH - r), halfH-r)
		ex := dx - cx
		ey := dy - cy
		return ex*ex+ey*ey <= r*r

	default:
		// rect, roundrect, trapezoid, custom: rectangle outline is close
		// enough for endpoint classification
		return math.Abs(dx) <= halfW && math.Abs(dy) <= halfH
	}
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
