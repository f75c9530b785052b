package pcb

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// nodeKey returns the name of a list node (its first symbol), or "" if the
// node has no symbol head
func nodeKey(s kicadsexp.Sexp) string {
	if s == nil || s.IsLeaf() {
		return ""
	}
	if sym, ok := s.Head().(kicadsexp.Symbol); ok {
		return string(sym)
	}
	return ""
}

// findNode searches for a child node with the given key (first symbol)
// Example: findNode(sexp, "at") finds (at 100 50) in a list
func findNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	if s.IsLeaf() {
		return nil, false
	}

	for _, item := range sexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if nodeKey(item) == key {
			return item, true
		}
	}

	return nil, false
}

// findAllNodes finds all child nodes with the given key
func findAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp

	if s.IsLeaf() {
		return results
	}

	for _, item := range sexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if nodeKey(item) == key {
			results = append(results, item)
		}
	}

	return results
}

// getListItems returns all items in a list (excluding the first symbol/key)
// Example: getListItems((layers "F.Cu" "B.Cu")) returns ["F.Cu", "B.Cu"]
func getListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if s.IsLeaf() {
		return []kicadsexp.Sexp{}
	}

	allItems := sexpToSlice(s)
	if len(allItems) <= 1 {
		return []kicadsexp.Sexp{}
	}

	return allItems[1:]
}

// sexpToSlice converts an s-expression list to a Go slice
func sexpToSlice(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if s == nil || s.IsLeaf() {
		return nil
	}

	if list, ok := s.(*kicadsexp.List); ok {
		items := make([]kicadsexp.Sexp, 0, list.Len())
		for i := 0; i < list.Len(); i++ {
			items = append(items, list.Get(i))
		}
		return items
	}

	// Fallback for other Sexp implementations: walk Head/Tail
	var items []kicadsexp.Sexp
	for s != nil && !s.IsLeaf() && s.LeafCount() > 0 {
		items = append(items, s.Head())
		s = s.Tail()
	}
	return items
}

// Typed value extraction helpers

// getString extracts a string value at the given index in a list.
// Index 0 is the key, 1 is first value, etc. Accepts bare symbols and
// quoted strings alike.
func getString(s kicadsexp.Sexp, index int) (string, error) {
	if s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf")
	}

	items := sexpToSlice(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}

	if !items[index].IsLeaf() {
		return "", fmt.Errorf("expected atom at index %d, got %T", index, items[index])
	}

	return items[index].String(), nil
}

// getQuotedString extracts a string value, tolerating both quoted-string
// and bare-symbol atoms (older files leave short names unquoted)
func getQuotedString(s kicadsexp.Sexp, index int) (string, error) {
	return getString(s, index)
}

// getFloat extracts a float64 value at the given index
func getFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := getString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}

	return val, nil
}

// getInt extracts an int value at the given index
func getInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := getString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// hasSymbol checks if a list contains a specific bare symbol.
// Example: hasSymbol((via blind (at 1 2)), "blind") is true.
func hasSymbol(s kicadsexp.Sexp, symbol string) bool {
	if s.IsLeaf() {
		return false
	}

	for _, item := range sexpToSlice(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}

	return false
}

// getNodeName returns the first symbol of a list (the node type/name)
func getNodeName(s kicadsexp.Sexp) (string, error) {
	if s.IsLeaf() {
		if sym, ok := s.(kicadsexp.Symbol); ok {
			return string(sym), nil
		}
		return "", fmt.Errorf("expected symbol leaf")
	}

	if key := nodeKey(s); key != "" {
		return key, nil
	}

	return "", fmt.Errorf("expected symbol at head of list")
}

// Domain-specific extraction helpers

// getPositionXY extracts X,Y coordinates from a (keyword X Y ...) node.
// Used for (start X Y), (end X Y), (at X Y), etc. Values are mm.
func getPositionXY(s kicadsexp.Sexp) (Position, error) {
	if s.IsLeaf() {
		return Position{}, fmt.Errorf("expected position list")
	}

	x, err := getFloat(s, 1)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse X: %w", err)
	}

	y, err := getFloat(s, 2)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse Y: %w", err)
	}

	return Position{X: x, Y: y}, nil
}

// getPositionAngle extracts position plus the optional trailing angle from
// an (at X Y [angle]) node
func getPositionAngle(s kicadsexp.Sexp) (PositionAngle, error) {
	pos, err := getPositionXY(s)
	if err != nil {
		return PositionAngle{}, err
	}

	result := PositionAngle{Position: pos}
	if angle, err := getFloat(s, 3); err == nil {
		result.Angle = Angle(angle)
	}
	return result, nil
}

// getLayers extracts layer specifications
// Format: (layer "F.Cu") or (layers "F.Cu" "B.Cu" "*.Mask")
func getLayers(s kicadsexp.Sexp) (LayerSet, error) {
	if s.IsLeaf() {
		return nil, fmt.Errorf("expected layer list")
	}

	keyword := nodeKey(s)

	switch keyword {
	case "layer":
		layer, err := getString(s, 1)
		if err != nil {
			return nil, err
		}
		return LayerSet{layer}, nil
	case "layers":
		var layers LayerSet
		for _, item := range getListItems(s) {
			if item.IsLeaf() {
				layers = append(layers, item.String())
			}
		}
		return layers, nil
	default:
		return nil, fmt.Errorf("expected 'layer' or 'layers', got %q", keyword)
	}
}
