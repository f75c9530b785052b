package copper

import (
	"strings"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

type netKey struct {
	X, Y  int64
	Layer string
}

// NetIndex maps an exact (position, layer) pair to the net already present
// there, derived from pad and via positions. It exists so a replayed
// template can be reconnected when no pad association is available; lookup
// is exact-match only, never by distance.
type NetIndex map[netKey]*pcb.Net

// BuildNetIndex registers every footprint pad (under each copper layer of
// its layer set, wildcards expanded) and every via (under both layers of
// its pair) at its absolute position.
func BuildNetIndex(board *pcb.Board) NetIndex {
	ni := make(NetIndex)
	copperLayers := copperLayerNames(board)

	for _, fp := range board.Footprints {
		for i := range fp.Pads {
			pad := &fp.Pads[i]
			pos := VecOf(fp.PadPosition(pad))
			for _, layer := range expandLayers(pad.Layers, copperLayers) {
				ni[netKey{X: pos.X, Y: pos.Y, Layer: layer}] = pad.Net
			}
		}
	}

	for _, via := range board.Vias {
		if via.IsRemoved() {
			continue
		}
		pos := VecOf(via.Position)
		for _, layer := range via.Layers {
			ni[netKey{X: pos.X, Y: pos.Y, Layer: layer}] = via.Net
		}
	}

	return ni
}

// At returns the net registered at the exact position and layer, or nil
func (ni NetIndex) At(p Vec, layer string) *pcb.Net {
	return ni[netKey{X: p.X, Y: p.Y, Layer: layer}]
}

func copperLayerNames(board *pcb.Board) []string {
	lm := pcb.NewLayerMap(board.Layers)
	var names []string
	for _, layer := range board.Layers {
		if lm.IsCopperLayer(layer.Name) {
			names = append(names, layer.Name)
		}
	}
	if len(names) == 0 {
		// Boards built in code may carry no layer table
		names = []string{"F.Cu", "B.Cu"}
	}
	return names
}

// expandLayers resolves wildcard entries like "*.Cu" against the board's
// copper layers; mask/paste layers are not copper and are dropped
func expandLayers(set pcb.LayerSet, copperLayers []string) []string {
	var out []string
	for _, name := range set {
		switch {
		case name == "*.Cu":
			out = append(out, copperLayers...)
		case strings.HasSuffix(name, ".Cu"):
			out = append(out, name)
		}
	}
	return out
}
