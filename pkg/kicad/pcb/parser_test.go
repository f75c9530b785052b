package pcb

import (
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/sexp/kicadsexp"
)

// Test parseHeader function
func TestParseHeader(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantVersion int
		wantGen     string
		wantErr     bool
	}{
		{
			name:        "valid KiCad 6.0 with generator",
			input:       "(kicad_pcb (version 20211014) (generator pcbnew))",
			wantVersion: 20211014,
			wantGen:     "pcbnew",
			wantErr:     false,
		},
		{
			name:        "valid KiCad 6.0 with host",
			input:       "(kicad_pcb (version 20221018) (host pcbnew \"(6.0.10)\"))",
			wantVersion: 20221018,
			wantGen:     "pcbnew",
			wantErr:     false,
		},
		{
			name:        "valid KiCad 7.0",
			input:       "(kicad_pcb (version 20230314) (generator pcbnew))",
			wantVersion: 20230314,
			wantGen:     "pcbnew",
			wantErr:     false,
		},
		{
			name:    "missing version",
			input:   "(kicad_pcb (generator pcbnew))",
			wantErr: true,
		},
		{
			name:    "old version (KiCad 5)",
			input:   "(kicad_pcb (version 20171130))",
			wantErr: true,
		},
		{
			name:        "no generator (should default to unknown)",
			input:       "(kicad_pcb (version 20211014))",
			wantVersion: 20211014,
			wantGen:     "unknown",
			wantErr:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sexps, err := kicadsexp.ParseString(tt.input)
			if err != nil {
				t.Fatalf("Failed to parse s-expression: %v", err)
			}

			version, gen, err := parseHeader(sexps[0])

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseHeader() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("parseHeader() unexpected error: %v", err)
				return
			}

			if version != tt.wantVersion {
				t.Errorf("parseHeader() version = %d, want %d", version, tt.wantVersion)
			}

			if gen != tt.wantGen {
				t.Errorf("parseHeader() generator = %q, want %q", gen, tt.wantGen)
			}
		})
	}
}

// minimal but complete board used by the whole-file parse tests
const sampleBoard = `(kicad_pcb (version 20221018) (generator pcbnew)
  (general (thickness 1.6))
  (layers
    (0 "F.Cu" signal)
    (31 "B.Cu" signal)
  )
  (net 0 "")
  (net 1 "GND")
  (net 2 "LED_1")
  (footprint "LED_SMD:LED_0603" (layer "F.Cu")
    (at 10 20 90)
    (property "Reference" "LED2")
    (property "Value" "WS2812")
    (pad "1" smd rect (at -1 0 90) (size 1 1) (layers "F.Cu") (net 1 "GND"))
    (pad "2" smd circle (at 1 0 90) (size 1 1) (layers "*.Cu") (net 2 "LED_1"))
  )
  (gr_line (start 0 0) (end 50 0) (layer "Edge.Cuts") (width 0.1))
  (segment (start 10 20) (end 15 20) (width 0.25) (layer "F.Cu") (net 2))
  (via (at 15 20) (size 0.6) (drill 0.3) (layers "F.Cu" "B.Cu") (net 2))
  (via blind (at 30 30) (size 0.6) (drill 0.3) (layers "F.Cu" "B.Cu") (net 0))
)`

func TestParseBoard(t *testing.T) {
	board, err := Parse(strings.NewReader(sampleBoard))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if board.Version != 20221018 {
		t.Errorf("version = %d, want 20221018", board.Version)
	}
	if board.Generator != "pcbnew" {
		t.Errorf("generator = %q, want pcbnew", board.Generator)
	}
	if board.General.Thickness != 1.6 {
		t.Errorf("thickness = %v, want 1.6", board.General.Thickness)
	}
	if len(board.Layers) != 2 {
		t.Errorf("layers = %d, want 2", len(board.Layers))
	}
	if len(board.Nets) != 3 {
		t.Errorf("nets = %d, want 3", len(board.Nets))
	}
	if len(board.Footprints) != 1 {
		t.Fatalf("footprints = %d, want 1", len(board.Footprints))
	}
	if len(board.Tracks) != 1 {
		t.Fatalf("tracks = %d, want 1", len(board.Tracks))
	}
	if len(board.Vias) != 2 {
		t.Fatalf("vias = %d, want 2", len(board.Vias))
	}
}

func TestParseBoardFootprint(t *testing.T) {
	board, err := Parse(strings.NewReader(sampleBoard))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	fp := board.FootprintByReference("LED2")
	if fp == nil {
		t.Fatal("footprint LED2 not found")
	}
	if fp.Library != "LED_SMD" || fp.Name != "LED_0603" {
		t.Errorf("library:name = %s:%s, want LED_SMD:LED_0603", fp.Library, fp.Name)
	}
	if fp.Value != "WS2812" {
		t.Errorf("value = %q, want WS2812", fp.Value)
	}
	if fp.Position.X != 10 || fp.Position.Y != 20 || fp.Position.Angle != 90 {
		t.Errorf("position = %+v, want (10, 20) at 90", fp.Position)
	}
	if len(fp.Pads) != 2 {
		t.Fatalf("pads = %d, want 2", len(fp.Pads))
	}

	pad := fp.PadByNumber("2")
	if pad == nil {
		t.Fatal("pad 2 not found")
	}
	if pad.Shape != "circle" {
		t.Errorf("pad shape = %q, want circle", pad.Shape)
	}
	if pad.Net == nil || pad.Net.Name != "LED_1" {
		t.Error("pad 2 must be wired to LED_1")
	}
	if !pad.Layers.Contains("*.Cu") {
		t.Errorf("pad layers = %v, want *.Cu", pad.Layers)
	}
}

func TestParseBoardTracksAndVias(t *testing.T) {
	board, err := Parse(strings.NewReader(sampleBoard))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	track := board.Tracks[0]
	if track.Start.X != 10 || track.Start.Y != 20 {
		t.Errorf("track start = %+v, want (10, 20)", track.Start)
	}
	if track.Width != 0.25 || track.Layer != "F.Cu" {
		t.Errorf("track width/layer = %v/%q", track.Width, track.Layer)
	}
	if track.Net == nil || track.Net.Name != "LED_1" {
		t.Error("track must be wired to LED_1")
	}

	via := board.Vias[0]
	if via.Type != ViaThrough {
		t.Errorf("via type = %q, want through", via.Type)
	}
	if via.Size != 0.6 || via.Drill != 0.3 {
		t.Errorf("via size/drill = %v/%v", via.Size, via.Drill)
	}
	if len(via.Layers) != 2 {
		t.Errorf("via layers = %v", via.Layers)
	}

	if board.Vias[1].Type != ViaBlind {
		t.Errorf("second via type = %q, want blind", board.Vias[1].Type)
	}
}

func TestParseRejectsNonBoardFiles(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not a board", "(kicad_sch (version 20211014))"},
		{"bare atom", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Error("Parse() expected error, got nil")
			}
		})
	}
}

func TestGetNetInfo(t *testing.T) {
	board, err := Parse(strings.NewReader(sampleBoard))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	info := board.GetNetInfo("LED_1")
	if info == nil {
		t.Fatal("GetNetInfo(LED_1) returned nil")
	}
	if len(info.Pads) != 1 || len(info.Tracks) != 1 || len(info.Vias) != 1 {
		t.Errorf("net LED_1: %d pads %d tracks %d vias, want 1 each",
			len(info.Pads), len(info.Tracks), len(info.Vias))
	}

	if board.GetNetInfo("MISSING") != nil {
		t.Error("GetNetInfo of an unknown net must return nil")
	}
}

func TestNetQueriesSkipRemoved(t *testing.T) {
	board, err := Parse(strings.NewReader(sampleBoard))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	board.RemoveTrack(board.Tracks[0])
	board.RemoveVia(board.Vias[0])

	info := board.GetNetInfo("LED_1")
	if len(info.Tracks) != 0 || len(info.Vias) != 0 {
		t.Errorf("removed segments still reported: %d tracks %d vias",
			len(info.Tracks), len(info.Vias))
	}
}

func TestTransformPosition(t *testing.T) {
	fp := &Footprint{
		Position: PositionAngle{Position: Position{X: 10, Y: 20}, Angle: 90},
	}

	// KiCad's y axis points down, so +90° rotates (1, 0) to (0, -1)
	got := fp.TransformPosition(Position{X: 1, Y: 0})
	if !floatClose(got.X, 10) || !floatClose(got.Y, 19) {
		t.Errorf("TransformPosition = (%v, %v), want (10, 19)", got.X, got.Y)
	}
}

func floatClose(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
