package pcb

import (
	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/sexp/kicadsexp"
)

// Board represents a complete KiCad PCB. Tracks, vias and footprints are
// pointer arenas: a pointer stays valid (and usable as a map key) for the
// Board's lifetime, including across removals, which only mark the segment
// dead. Unmodelled file content (graphics, zones, groups) is preserved in
// the underlying S-expression document and round-trips through Save
// untouched.
type Board struct {
	Version    int          // File format version
	Generator  string       // Generator info (e.g., "pcbnew")
	General    General      // General board properties
	Layers     []Layer      // Layer definitions
	Nets       []Net        // Electrical nets
	Footprints []*Footprint // Component footprints
	Tracks     []*Track     // Track segments
	Vias       []*Via       // Vias

	root *kicadsexp.List // Source document; nil for boards built in code
}

// General contains general board properties
type General struct {
	Thickness float64 // Board thickness in mm
	Title     string  // Board title
	Date      string  // Design date
	Revision  string  // Board revision
	Company   string  // Company name
}

// Footprint represents a component footprint
type Footprint struct {
	Library   string        // Library name
	Name      string        // Footprint name
	Layer     string        // Layer (F.Cu or B.Cu typically)
	Position  PositionAngle // Position and rotation
	Pads      []Pad         // Pads
	Reference string        // Reference designator (e.g., "SW3")
	Value     string        // Component value

	node *kicadsexp.List
}

// Flipped reports whether the footprint is placed on the back of the board
func (fp *Footprint) Flipped() bool {
	return fp.Layer == "B.Cu"
}

// SetOrientation rotates the footprint to the given absolute angle. Pad
// angles are stored in the board frame with the footprint rotation folded
// in, so every pad angle shifts by the same delta.
func (fp *Footprint) SetOrientation(angle Angle) {
	delta := angle - fp.Position.Angle
	if delta == 0 {
		return
	}
	fp.Position.Angle = angle
	for i := range fp.Pads {
		fp.Pads[i].Position.Angle += delta
	}
}

// PadByNumber returns the pad with the given number, or nil
func (fp *Footprint) PadByNumber(number string) *Pad {
	for i := range fp.Pads {
		if fp.Pads[i].Number == number {
			return &fp.Pads[i]
		}
	}
	return nil
}

// Pad represents a footprint pad. Position is relative to the owning
// footprint; Angle is the pad's rotation in the board frame (KiCad stores
// pad angles absolute, footprint rotation already folded in).
type Pad struct {
	Number   string        // Pad number/name
	Type     string        // Pad type (thru_hole, smd, etc.)
	Shape    string        // Pad shape (circle, rect, oval, roundrect, ...)
	Position PositionAngle // Position relative to footprint, absolute angle
	Size     Size          // Pad size
	Drill    float64       // Drill diameter (0 for SMD)
	Layers   LayerSet      // Layers the pad appears on
	Net      *Net          // Connected net (if any)

	node *kicadsexp.List
}

// ViaType values preserved verbatim from the board file
const (
	ViaThrough = "through"
	ViaBlind   = "blind"
	ViaMicro   = "micro"
)

// Track represents a copper track segment
type Track struct {
	Start  Position // Start point
	End    Position // End point
	Width  float64  // Track width in mm
	Layer  string   // Layer name
	Net    *Net     // Connected net
	Locked bool     // Whether track is locked

	node    *kicadsexp.List
	removed bool
}

// IsRemoved reports whether the track has been removed from the board
func (t *Track) IsRemoved() bool { return t.removed }

// Via represents a via
type Via struct {
	Position Position // Via position
	Size     float64  // Via diameter
	Drill    float64  // Drill diameter
	Layers   LayerSet // Layer pair
	Type     string   // Via type: through, blind or micro
	Net      *Net     // Connected net
	Locked   bool     // Whether via is locked

	node    *kicadsexp.List
	removed bool
}

// IsRemoved reports whether the via has been removed from the board
func (v *Via) IsRemoved() bool { return v.removed }

// NewBoard creates an empty in-memory board (no source document). Useful
// for building boards in code; such a board cannot be saved to a file.
func NewBoard() *Board {
	return &Board{}
}

// FootprintByReference returns the footprint with the given reference
// designator, or nil if not found
func (b *Board) FootprintByReference(ref string) *Footprint {
	for _, fp := range b.Footprints {
		if fp.Reference == ref {
			return fp
		}
	}
	return nil
}

// GetNet returns a net by name, or nil if not found
func (b *Board) GetNet(name string) *Net {
	for i := range b.Nets {
		if b.Nets[i].Name == name {
			return &b.Nets[i]
		}
	}
	return nil
}

// AddTrack appends a new track segment to the board. If the board was
// parsed from a file, a matching (segment ...) node is appended to the
// document so the track survives Save.
func (b *Board) AddTrack(t *Track) {
	b.Tracks = append(b.Tracks, t)
	if b.root != nil {
		t.node = trackNode(t)
		b.root.Append(t.node)
	}
}

// AddVia appends a new via to the board, mirroring it into the document
// like AddTrack.
func (b *Board) AddVia(v *Via) {
	b.Vias = append(b.Vias, v)
	if b.root != nil {
		v.node = viaNode(v)
		b.root.Append(v.node)
	}
}

// RemoveTrack marks a track removed and drops its document node. Returns
// false if the track was already removed; callers that treat removal as
// best-effort simply ignore the result.
func (b *Board) RemoveTrack(t *Track) bool {
	if t == nil || t.removed {
		return false
	}
	t.removed = true
	if b.root != nil && t.node != nil {
		b.root.Remove(t.node)
	}
	return true
}

// RemoveVia marks a via removed, like RemoveTrack
func (b *Board) RemoveVia(v *Via) bool {
	if v == nil || v.removed {
		return false
	}
	v.removed = true
	if b.root != nil && v.node != nil {
		b.root.Remove(v.node)
	}
	return true
}

// GetNetTracks returns all live tracks connected to a specific net
func (b *Board) GetNetTracks(netName string) []*Track {
	var tracks []*Track
	for _, track := range b.Tracks {
		if track.removed {
			continue
		}
		if track.Net != nil && track.Net.Name == netName {
			tracks = append(tracks, track)
		}
	}
	return tracks
}

// GetNetVias returns all live vias connected to a specific net
func (b *Board) GetNetVias(netName string) []*Via {
	var vias []*Via
	for _, via := range b.Vias {
		if via.removed {
			continue
		}
		if via.Net != nil && via.Net.Name == netName {
			vias = append(vias, via)
		}
	}
	return vias
}

// GetNetPads returns all pads connected to a specific net
func (b *Board) GetNetPads(netName string) []*Pad {
	var pads []*Pad
	for _, fp := range b.Footprints {
		for i := range fp.Pads {
			pad := &fp.Pads[i]
			if pad.Net != nil && pad.Net.Name == netName {
				pads = append(pads, pad)
			}
		}
	}
	return pads
}

// NetInfo contains information about a net and its connections
type NetInfo struct {
	Net    *Net
	Pads   []*Pad
	Tracks []*Track
	Vias   []*Via
}

// GetNetInfo returns complete information about a net
func (b *Board) GetNetInfo(netName string) *NetInfo {
	net := b.GetNet(netName)
	if net == nil {
		return nil
	}

	return &NetInfo{
		Net:    net,
		Pads:   b.GetNetPads(netName),
		Tracks: b.GetNetTracks(netName),
		Vias:   b.GetNetVias(netName),
	}
}

// GetAllNetNames returns a list of all net names in the board
func (b *Board) GetAllNetNames() []string {
	names := make([]string, len(b.Nets))
	for i, net := range b.Nets {
		names[i] = net.Name
	}
	return names
}
