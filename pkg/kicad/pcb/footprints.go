package pcb

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/sexp/kicadsexp"
)

// parsePad extracts a pad definition from a footprint
// Expected format: (pad "number" type shape (at x y [angle]) (size w h) (layers ...) (net n) ...)
func parsePad(node kicadsexp.Sexp, netMap *NetMap) (*Pad, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected pad list, got leaf")
	}

	pad := &Pad{}
	pad.node, _ = node.(*kicadsexp.List)

	// Parse pad number/name (second element after "pad")
	number, err := getQuotedString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad number: %w", err)
	}
	pad.Number = number

	// Parse pad type (third element: thru_hole, smd, connect, np_thru_hole)
	padType, err := getString(node, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad type: %w", err)
	}
	pad.Type = padType

	// Parse pad shape (fourth element: circle, rect, oval, roundrect, trapezoid, custom)
	shape, err := getString(node, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad shape: %w", err)
	}
	pad.Shape = shape

	// Parse position (at x y [angle])
	if atNode, found := findNode(node, "at"); found {
		pos, err := getPositionAngle(atNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad position: %w", err)
		}
		pad.Position = pos
	} else {
		return nil, fmt.Errorf("missing required 'at' position")
	}

	// Parse size
	if sizeNode, found := findNode(node, "size"); found {
		width, err := getFloat(sizeNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad width: %w", err)
		}
		height, err := getFloat(sizeNode, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad height: %w", err)
		}
		pad.Size = Size{Width: width, Height: height}
	} else {
		return nil, fmt.Errorf("missing required 'size' field")
	}

	// Parse drill (for through-hole pads)
	if drillNode, found := findNode(node, "drill"); found {
		// Drill can be just a number or (drill (diameter d))
		if drill, err := getFloat(drillNode, 1); err == nil {
			pad.Drill = drill
		}
	}

	// Parse layers
	if layersNode, found := findNode(node, "layers"); found {
		layers, err := getLayers(layersNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad layers: %w", err)
		}
		pad.Layers = layers
	} else {
		return nil, fmt.Errorf("missing required 'layers' field")
	}

	// Parse net (optional). The pad's net node carries number and name:
	// (net 2 "GND")
	if netNode, found := findNode(node, "net"); found {
		netNum, err := getInt(netNode, 1)
		if err == nil && netMap != nil {
			if net, ok := netMap.GetByNumber(netNum); ok {
				pad.Net = net
			}
		}
	}

	return pad, nil
}

// parseFootprint extracts a footprint (component) definition
// Expected format: (footprint "library:name" (layer "layer") (at x y [angle]) ...)
func parseFootprint(node kicadsexp.Sexp, netMap *NetMap) (*Footprint, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected footprint list, got leaf")
	}

	footprint := &Footprint{}
	footprint.node, _ = node.(*kicadsexp.List)

	// Parse footprint name (library:name format, second element after "footprint")
	fpName, err := getQuotedString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}

	// Split library:name format
	// Example: "Resistor_SMD:R_0603_1608Metric"
	if colonIdx := strings.IndexByte(fpName, ':'); colonIdx > 0 {
		footprint.Library = fpName[:colonIdx]
		footprint.Name = fpName[colonIdx+1:]
	} else {
		footprint.Name = fpName
	}

	// Parse layer
	if layerNode, found := findNode(node, "layer"); found {
		layer, err := getQuotedString(layerNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer: %w", err)
		}
		footprint.Layer = layer
	} else {
		return nil, fmt.Errorf("missing required 'layer' field")
	}

	// Parse position (at x y [angle])
	if atNode, found := findNode(node, "at"); found {
		pos, err := getPositionAngle(atNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse position: %w", err)
		}
		footprint.Position = pos
	} else {
		return nil, fmt.Errorf("missing required 'at' position")
	}

	// Parse properties (Reference and Value are most important)
	for _, propNode := range findAllNodes(node, "property") {
		propName, err := getQuotedString(propNode, 1)
		if err != nil {
			continue
		}
		propValue, err := getQuotedString(propNode, 2)
		if err != nil {
			continue
		}

		switch propName {
		case "Reference":
			footprint.Reference = propValue
		case "Value":
			footprint.Value = propValue
		}
	}

	// Older files carry the reference in (fp_text reference "SW3" ...)
	if footprint.Reference == "" {
		for _, textNode := range findAllNodes(node, "fp_text") {
			kind, err := getString(textNode, 1)
			if err != nil || kind != "reference" {
				continue
			}
			if ref, err := getQuotedString(textNode, 2); err == nil {
				footprint.Reference = ref
				break
			}
		}
	}

	// Parse pads
	for _, padNode := range findAllNodes(node, "pad") {
		pad, err := parsePad(padNode, netMap)
		if err != nil {
			// Skip pads that fail to parse; partial footprints are still useful
			continue
		}
		footprint.Pads = append(footprint.Pads, *pad)
	}

	return footprint, nil
}

// parseFootprints extracts all footprint definitions from the root node
// Finds and parses all (footprint ...) nodes
func parseFootprints(root kicadsexp.Sexp, netMap *NetMap) ([]*Footprint, error) {
	if root.IsLeaf() {
		return nil, fmt.Errorf("expected root list")
	}

	footprintNodes := findAllNodes(root, "footprint")
	footprints := make([]*Footprint, 0, len(footprintNodes))

	for _, fpNode := range footprintNodes {
		footprint, err := parseFootprint(fpNode, netMap)
		if err != nil {
			// Skip footprints that fail to parse, keep the rest of the board
			continue
		}
		footprints = append(footprints, footprint)
	}

	return footprints, nil
}
