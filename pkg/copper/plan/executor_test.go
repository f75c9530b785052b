package plan

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/copper"
	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

func ledPad(number string, net *pcb.Net) pcb.Pad {
	return pcb.Pad{
		Number: number,
		Type:   "smd",
		Shape:  "circle",
		Size:   pcb.Size{Width: 1.0, Height: 1.0},
		Layers: pcb.LayerSet{"F.Cu"},
		Net:    net,
	}
}

func ledFootprint(ref string, x, y float64, pads ...pcb.Pad) *pcb.Footprint {
	return &pcb.Footprint{
		Reference: ref,
		Layer:     "F.Cu",
		Position:  pcb.PositionAngle{Position: pcb.Position{X: x, Y: y}},
		Pads:      pads,
	}
}

func ledTrack(x1, y1, x2, y2 float64) *pcb.Track {
	return &pcb.Track{
		Start: pcb.Position{X: x1, Y: y1},
		End:   pcb.Position{X: x2, Y: y2},
		Width: 0.25,
		Layer: "F.Cu",
	}
}

func countLive(board *pcb.Board) int {
	n := 0
	for _, t := range board.Tracks {
		if !t.IsRemoved() {
			n++
		}
	}
	return n
}

// chainBoard builds the standard executor fixture: a wired LED1->LED2
// pair to capture from, and LED3/LED4 targets carrying stale stubs.
func chainBoard() *pcb.Board {
	n1 := &pcb.Net{Number: 1, Name: "D1"}
	n3 := &pcb.Net{Number: 3, Name: "D3"}
	n4 := &pcb.Net{Number: 4, Name: "D4"}

	board := pcb.NewBoard()
	board.Footprints = []*pcb.Footprint{
		ledFootprint("LED1", 0, 0, ledPad("2", n1)),
		ledFootprint("LED2", 5, 0, ledPad("1", n1)),
		ledFootprint("LED3", 20, 0, ledPad("2", n3)),
		ledFootprint("LED4", 25, 0, ledPad("2", n4)),
	}
	// Source wiring to capture
	board.AddTrack(ledTrack(0, 0, 5, 0))
	// Stale stubs on the targets
	board.AddTrack(ledTrack(20, 0, 22, 0))
	board.AddTrack(ledTrack(25, 0, 27, 0))
	return board
}

func runPlan(t *testing.T, board *pcb.Board, input string) *Executor {
	t.Helper()
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser() failed: %v", err)
	}
	p, err := parser.ParseString(input)
	if err != nil {
		t.Fatalf("plan parse failed: %v", err)
	}
	ex := NewExecutor(copper.NewDriver(board, nil), nil)
	if err := ex.Run(p); err != nil {
		t.Fatalf("plan run failed: %v", err)
	}
	return ex
}

func TestExecutorCaptureAndApply(t *testing.T) {
	board := chainBoard()

	ex := runPlan(t, board, `
reference LED1
capture H path LED1 -> LED2
cleanup LED pad 2 radius 50 skip 4
apply H to LED 3..4 pad 2
`)

	tmpl, ok := ex.Templates()["H"]
	if !ok || tmpl.Empty() {
		t.Fatal("expected a captured template named H")
	}

	// Source track preserved, LED3 stub cleaned, LED4 stub skipped, two
	// replayed tracks added
	if got := countLive(board); got != 4 {
		t.Fatalf("live tracks = %d, want 4", got)
	}

	// Replayed tracks land at the targets and carry the target pad nets
	var at20, at25 *pcb.Track
	for _, track := range board.Tracks {
		if track.IsRemoved() {
			continue
		}
		switch track.Start.X {
		case 20:
			if track.End.X == 25 {
				at20 = track
			}
		case 25:
			if track.End.X == 30 {
				at25 = track
			}
		}
	}
	if at20 == nil || at25 == nil {
		t.Fatal("replayed tracks not found at the targets")
	}
	if at20.Net == nil || at20.Net.Name != "D3" {
		t.Error("LED3 replay must carry net D3")
	}
	if at25.Net == nil || at25.Net.Name != "D4" {
		t.Error("LED4 replay must carry net D4")
	}
}

func TestExecutorCleanupHonoursSkip(t *testing.T) {
	board := chainBoard()

	runPlan(t, board, `
capture H path LED1 -> LED2
cleanup LED pad 2 radius 50 skip 3, 4
`)

	// Everything survives: source is preserved by the capture, both
	// targets are in the skip list
	if got := countLive(board); got != 3 {
		t.Errorf("live tracks = %d, want 3", got)
	}
}

func TestExecutorMissingFootprintsAreSkipped(t *testing.T) {
	board := chainBoard()

	ex := runPlan(t, board, `
capture H path LED1 -> LED2
apply H to LED 3..9 pad 2
`)

	if tmpl := ex.Templates()["H"]; tmpl.Empty() {
		t.Fatal("expected a captured template")
	}

	// Only LED3 and LED4 exist in the range; no error, two replays
	if got := countLive(board); got != 5 {
		t.Errorf("live tracks = %d, want 5", got)
	}
}

func TestExecutorMissingTemplateIsSkipped(t *testing.T) {
	board := chainBoard()

	runPlan(t, board, `apply NOPE to LED 3..4 pad 2`)

	if got := countLive(board); got != 3 {
		t.Errorf("live tracks = %d, want 3 (nothing applied)", got)
	}
}

func TestExecutorAlign(t *testing.T) {
	board := pcb.NewBoard()
	board.Footprints = []*pcb.Footprint{
		ledFootprint("SW1", 10, 10),
		ledFootprint("SW2", 40, 10),
		ledFootprint("D1", 12, 11),
		ledFootprint("D2", 0, 0),
	}

	runPlan(t, board, `align D with SW from 1 to 1..2`)

	d2 := board.FootprintByReference("D2")
	if d2.Position.X != 42 || d2.Position.Y != 11 {
		t.Errorf("D2 aligned to (%v, %v), want (42, 11)", d2.Position.X, d2.Position.Y)
	}
}
