package copper

import (
	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

// ApplyItem instantiates one template item on the board at the target
// position, rotated by rotDelta degrees. Pure construction: no search, no
// lookup; a nil net is valid and leaves the new segment unassigned. Net
// resolution is the caller's job (see Driver.Replicate).
func ApplyItem(board *pcb.Board, item TemplateItem, target Vec, rotDelta float64, net *pcb.Net) {
	switch item.Kind {
	case KindVia:
		layers := make(pcb.LayerSet, len(item.Layers))
		copy(layers, item.Layers)
		via := &pcb.Via{
			Position: target.Add(Rotate(item.Pos, rotDelta)).Position(),
			Size:     item.Width,
			Drill:    item.Drill,
			Type:     item.ViaType,
			Layers:   layers,
			Net:      net,
		}
		board.AddVia(via)
	default:
		track := &pcb.Track{
			Start: target.Add(Rotate(item.Start, rotDelta)).Position(),
			End:   target.Add(Rotate(item.End, rotDelta)).Position(),
			Width: item.Width,
			Layer: item.Layer,
			Net:   net,
		}
		board.AddTrack(track)
	}
}

// anchorPoint returns the reference coordinate used for net lookup at the
// item's replayed location
func anchorPoint(item TemplateItem) Vec {
	if item.Kind == KindVia {
		return item.Pos
	}
	return item.Start
}

// itemLayer returns the layer the item's net lives on: a track's layer, or
// the top layer of a via's pair
func itemLayer(item TemplateItem) string {
	if item.Kind == KindVia {
		if len(item.Layers) > 0 {
			return item.Layers[0]
		}
		return ""
	}
	return item.Layer
}
