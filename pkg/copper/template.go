package copper

// TemplateKind tells how a template was captured, which decides how it is
// re-anchored at apply time
type TemplateKind int

const (
	// TemplatePath is a strict shortest path between two footprints,
	// rotation-normalised to a global reference orientation at capture
	TemplatePath TemplateKind = iota

	// TemplateCluster is a set of isolated local chains around one
	// footprint, stored relative-only; rotation is resolved entirely by
	// the delta between target and reference orientation at apply
	TemplateCluster
)

// TemplateItem is a value-type snapshot of one copper segment, positioned
// relative to the template origin. It never references a live board
// segment. Kind selects which fields are meaningful.
type TemplateItem struct {
	Kind Kind

	// Track fields
	Start Vec
	End   Vec
	Layer string

	// Via fields
	Pos     Vec
	Drill   float64 // mm
	ViaType string
	Layers  []string // layer pair, top then bottom

	// Common
	Width float64 // mm

	// Pad on the source footprint this item's chain touches, if any; used
	// to resolve the net on the destination footprint at replay
	PadNumber string
}

// Template is an ordered, immutable sequence of captured items plus the
// anchoring data needed to replay them
type Template struct {
	Kind   TemplateKind
	Items  []TemplateItem
	RefRot float64 // orientation (degrees) the geometry is anchored to
	Radius int64   // capture zone radius, cluster templates only
}

// Empty reports whether the capture produced nothing (unknown reference or
// no path found — the best-effort contract signals failure by emptiness)
func (t Template) Empty() bool {
	return len(t.Items) == 0
}
