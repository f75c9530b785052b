package pcb

import "math"

// GetBoundingBox calculates the bounding box of the entire board
// Includes live tracks, vias, and footprint pads
func (b *Board) GetBoundingBox() BoundingBox {
	bbox := NewBoundingBox()

	for _, track := range b.Tracks {
		if track.IsRemoved() {
			continue
		}
		bbox.Expand(track.Start)
		bbox.Expand(track.End)
	}

	for _, via := range b.Vias {
		if via.IsRemoved() {
			continue
		}
		// Vias have a size, so expand by radius
		radius := via.Size / 2.0
		bbox.Expand(Position{X: via.Position.X - radius, Y: via.Position.Y - radius})
		bbox.Expand(Position{X: via.Position.X + radius, Y: via.Position.Y + radius})
	}

	for _, fp := range b.Footprints {
		bbox.Expand(fp.Position.Position)
		for i := range fp.Pads {
			bbox.Expand(fp.PadPosition(&fp.Pads[i]))
		}
	}

	return bbox
}

// TransformPosition transforms a footprint-relative position into board
// coordinates, applying the footprint's rotation and translation
func (fp *Footprint) TransformPosition(relPos Position) Position {
	x, y := relPos.X, relPos.Y

	// Negate the angle to match KiCad's y-down coordinate system
	if fp.Position.Angle != 0 {
		angleRad := -float64(fp.Position.Angle) * math.Pi / 180.0
		cos := math.Cos(angleRad)
		sin := math.Sin(angleRad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	x += fp.Position.X
	y += fp.Position.Y

	return Position{X: x, Y: y}
}

// PadPosition returns a pad's absolute board position
func (fp *Footprint) PadPosition(pad *Pad) Position {
	return fp.TransformPosition(pad.Position.Position)
}
