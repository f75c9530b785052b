package pcb

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/sexp/kicadsexp"
)

// Write serialises the board back to its S-expression form. Segments added
// through AddTrack/AddVia appear as new nodes, removed segments are gone,
// footprint positions reflect any moves; everything the model does not
// represent is emitted exactly as parsed.
func (b *Board) Write(w io.Writer) error {
	if b.root == nil {
		return fmt.Errorf("board has no source document (built in code, not parsed)")
	}

	// Footprints may have been moved or re-oriented since parsing
	for _, fp := range b.Footprints {
		syncFootprintNode(fp)
	}

	return kicadsexp.Write(w, b.root)
}

// Save writes the board to the named file
func (b *Board) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := b.Write(file); err != nil {
		return fmt.Errorf("failed to write board: %w", err)
	}
	return nil
}

// numAtom formats a mm coordinate the way pcbnew does: plain decimal,
// shortest representation
func numAtom(v float64) kicadsexp.Symbol {
	return kicadsexp.Symbol(strconv.FormatFloat(v, 'f', -1, 64))
}

func intAtom(v int) kicadsexp.Symbol {
	return kicadsexp.Symbol(strconv.Itoa(v))
}

func netNumber(n *Net) int {
	if n == nil {
		return 0
	}
	return n.Number
}

// trackNode builds a (segment ...) document node for a track
func trackNode(t *Track) *kicadsexp.List {
	return kicadsexp.NewList(
		kicadsexp.Symbol("segment"),
		kicadsexp.NewList(kicadsexp.Symbol("start"), numAtom(t.Start.X), numAtom(t.Start.Y)),
		kicadsexp.NewList(kicadsexp.Symbol("end"), numAtom(t.End.X), numAtom(t.End.Y)),
		kicadsexp.NewList(kicadsexp.Symbol("width"), numAtom(t.Width)),
		kicadsexp.NewList(kicadsexp.Symbol("layer"), kicadsexp.String(t.Layer)),
		kicadsexp.NewList(kicadsexp.Symbol("net"), intAtom(netNumber(t.Net))),
		kicadsexp.NewList(kicadsexp.Symbol("uuid"), kicadsexp.String(uuid.NewString())),
	)
}

// viaNode builds a (via ...) document node for a via
func viaNode(v *Via) *kicadsexp.List {
	node := kicadsexp.NewList(kicadsexp.Symbol("via"))
	if v.Type == ViaBlind || v.Type == ViaMicro {
		node.Append(kicadsexp.Symbol(v.Type))
	}
	node.Append(
		kicadsexp.NewList(kicadsexp.Symbol("at"), numAtom(v.Position.X), numAtom(v.Position.Y)),
		kicadsexp.NewList(kicadsexp.Symbol("size"), numAtom(v.Size)),
		kicadsexp.NewList(kicadsexp.Symbol("drill"), numAtom(v.Drill)),
	)

	layersNode := kicadsexp.NewList(kicadsexp.Symbol("layers"))
	for _, layer := range v.Layers {
		layersNode.Append(kicadsexp.String(layer))
	}
	node.Append(
		layersNode,
		kicadsexp.NewList(kicadsexp.Symbol("net"), intAtom(netNumber(v.Net))),
		kicadsexp.NewList(kicadsexp.Symbol("uuid"), kicadsexp.String(uuid.NewString())),
	)
	return node
}

// syncFootprintNode rewrites a footprint's (at ...) and (layer ...) nodes,
// and each pad's (at ...) node, from the current model state. Pad angles
// are absolute, so a re-oriented footprint changes them too.
func syncFootprintNode(fp *Footprint) {
	if fp.node == nil {
		return
	}

	if old, found := findNode(fp.node, "at"); found {
		fp.node.Replace(old, positionNode(fp.Position))
	}

	if old, found := findNode(fp.node, "layer"); found {
		fp.node.Replace(old, kicadsexp.NewList(kicadsexp.Symbol("layer"), kicadsexp.String(fp.Layer)))
	}

	for i := range fp.Pads {
		pad := &fp.Pads[i]
		if pad.node == nil {
			continue
		}
		if old, found := findNode(pad.node, "at"); found {
			pad.node.Replace(old, positionNode(pad.Position))
		}
	}
}

// positionNode builds an (at x y [angle]) node
func positionNode(pos PositionAngle) *kicadsexp.List {
	node := kicadsexp.NewList(kicadsexp.Symbol("at"), numAtom(pos.X), numAtom(pos.Y))
	if pos.Angle != 0 {
		node.Append(numAtom(float64(pos.Angle)))
	}
	return node
}
