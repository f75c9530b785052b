package copper

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

func liveTracks(board *pcb.Board) int {
	n := 0
	for _, t := range board.Tracks {
		if !t.IsRemoved() {
			n++
		}
	}
	return n
}

func liveVias(board *pcb.Board) int {
	n := 0
	for _, v := range board.Vias {
		if !v.IsRemoved() {
			n++
		}
	}
	return n
}

func TestZoneCleanupRemovesIsolatedChains(t *testing.T) {
	board := pcb.NewBoard()
	// Isolated stub inside the zone
	board.AddTrack(testTrack(51, 50, 53, 50))
	board.AddVia(testVia(53, 50))
	// Chain with an exit point: must survive
	board.AddTrack(testTrack(50, 48, 70, 48))

	d := NewDriver(board, nil)
	removed := d.ZoneCleanup(Vec{FromMM(50), FromMM(50)}, FromMM(8.5))

	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if liveTracks(board) != 1 || liveVias(board) != 0 {
		t.Errorf("live tracks %d vias %d, want 1 and 0", liveTracks(board), liveVias(board))
	}
}

func TestZoneCleanupSecondPassRemovesNothing(t *testing.T) {
	board := pcb.NewBoard()
	board.AddTrack(testTrack(51, 50, 53, 50))

	d := NewDriver(board, nil)
	center := Vec{FromMM(50), FromMM(50)}
	first := d.ZoneCleanup(center, FromMM(8.5))
	second := d.ZoneCleanup(center, FromMM(8.5))

	if first != 1 {
		t.Errorf("first pass removed %d, want 1", first)
	}
	if second != 0 {
		t.Errorf("second pass removed %d, want 0", second)
	}
}

func TestZoneCleanupSparesPreserved(t *testing.T) {
	board := pcb.NewBoard()
	board.Footprints = []*pcb.Footprint{
		testFootprint("SW3", 50, 50, 0, testPad("1", 1, 0, nil)),
	}
	board.AddTrack(testTrack(51, 50, 53, 50))

	d := NewDriver(board, nil)
	// Capturing the cluster protects its segments
	tmpl := d.CaptureCluster("SW3", FromMM(8.5))
	if tmpl.Empty() {
		t.Fatal("expected a cluster capture")
	}

	removed := d.ZoneCleanup(Vec{FromMM(50), FromMM(50)}, FromMM(8.5))
	if removed != 0 {
		t.Errorf("cleanup removed %d preserved segments", removed)
	}
	if liveTracks(board) != 1 {
		t.Error("preserved track must survive cleanup")
	}
}

func TestPadCleanupRemovesChainRegardlessOfExits(t *testing.T) {
	board := pcb.NewBoard()
	board.Footprints = []*pcb.Footprint{
		testFootprint("LED5", 20, 20, 0, testPad("2", 0, 0, nil)),
	}
	// Chain off pad 2 that runs far outside any zone
	board.AddTrack(testTrack(20, 20, 60, 20))
	board.AddTrack(testTrack(60, 20, 60, 40))
	// Unrelated copper
	board.AddTrack(testTrack(0, 0, 1, 0))

	d := NewDriver(board, nil)
	fp := board.FootprintByReference("LED5")
	removed := d.PadCleanup(fp, "2", FromMM(100))

	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if liveTracks(board) != 1 {
		t.Errorf("live tracks = %d, want 1", liveTracks(board))
	}
}

func TestPadCleanupFuzzySeed(t *testing.T) {
	board := pcb.NewBoard()
	board.Footprints = []*pcb.Footprint{
		testFootprint("LED5", 20, 20, 0, testPad("2", 0, 0, nil)),
	}
	// Track terminates 0.3 mm off the pad centre, inside the pad shape
	board.AddTrack(testTrack(20.3, 20, 30, 20))

	d := NewDriver(board, nil)
	fp := board.FootprintByReference("LED5")
	removed := d.PadCleanup(fp, "2", FromMM(100))

	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

func TestPadCleanupMissingPad(t *testing.T) {
	board := pcb.NewBoard()
	board.Footprints = []*pcb.Footprint{
		testFootprint("LED5", 20, 20, 0, testPad("2", 0, 0, nil)),
	}
	board.AddTrack(testTrack(20, 20, 30, 20))

	d := NewDriver(board, nil)
	fp := board.FootprintByReference("LED5")
	if removed := d.PadCleanup(fp, "9", FromMM(100)); removed != 0 {
		t.Errorf("cleanup of a missing pad removed %d segments", removed)
	}
}

func TestReplicatePathTemplate(t *testing.T) {
	netA := &pcb.Net{Number: 1, Name: "ROW_A"}
	netB := &pcb.Net{Number: 2, Name: "ROW_B"}

	board := pcb.NewBoard()
	board.Nets = []pcb.Net{{Number: 0}, *netA, *netB}
	board.Footprints = []*pcb.Footprint{
		testFootprint("LED2", 0, 0, 0, testPad("2", 0, 0, netA)),
		testFootprint("LED3", 5, 0, 0, testPad("1", 0, 0, netA)),
		testFootprint("LED8", 100, 0, 0, testPad("2", 0, 0, netB)),
	}
	board.AddTrack(testTrack(0, 0, 5, 0))

	d := NewDriver(board, nil)
	tmpl := d.CapturePath("LED2", "LED3", 0)
	if tmpl.Empty() {
		t.Fatal("expected a captured path")
	}

	before := liveTracks(board)
	d.Replicate(tmpl, board.FootprintByReference("LED8"), "2")

	if liveTracks(board) != before+1 {
		t.Fatalf("expected 1 new track, got %d", liveTracks(board)-before)
	}

	// The replayed track starts at the target footprint and carries the
	// target pad's net
	replayed := board.Tracks[len(board.Tracks)-1]
	if replayed.Start.X != 100 || replayed.Start.Y != 0 {
		t.Errorf("replayed start = (%v, %v), want (100, 0)", replayed.Start.X, replayed.Start.Y)
	}
	if replayed.End.X != 105 || replayed.End.Y != 0 {
		t.Errorf("replayed end = (%v, %v), want (105, 0)", replayed.End.X, replayed.End.Y)
	}
	if replayed.Net == nil || replayed.Net.Name != "ROW_B" {
		t.Error("replayed track must carry the target pad's net")
	}
}

func TestReplicateRotatedTarget(t *testing.T) {
	board := pcb.NewBoard()
	board.Footprints = []*pcb.Footprint{
		testFootprint("LED2", 0, 0, 0, testPad("2", 0, 0, nil)),
		testFootprint("LED3", 5, 0, 0, testPad("1", 0, 0, nil)),
		// Target rotated 90° relative to the template's reference frame
		testFootprint("LED8", 100, 100, 90, testPad("2", 0, 0, nil)),
	}
	board.AddTrack(testTrack(0, 0, 5, 0))

	d := NewDriver(board, nil)
	tmpl := d.CapturePath("LED2", "LED3", 0)
	d.Replicate(tmpl, board.FootprintByReference("LED8"), "2")

	replayed := board.Tracks[len(board.Tracks)-1]
	// (5, 0) rotated +90° is (0, 5): end lands at (100, 105)
	if !vecsClose(VecOf(replayed.End), Vec{FromMM(100), FromMM(105)}, 5) {
		t.Errorf("replayed end = (%v, %v), want (100, 105)", replayed.End.X, replayed.End.Y)
	}
}

func TestReplicateClusterCleansTargetZoneFirst(t *testing.T) {
	net := &pcb.Net{Number: 1, Name: "COL_1"}
	board := pcb.NewBoard()
	board.Footprints = []*pcb.Footprint{
		testFootprint("SW3", 50, 50, 0, testPad("1", 1, 0, net)),
		testFootprint("SW9", 90, 50, 0, testPad("1", 1, 0, net)),
	}
	// Source cluster
	board.AddTrack(testTrack(51, 50, 53, 50))
	// Stale isolated copper at the target, should be swept before replay
	board.AddTrack(testTrack(91, 50, 92, 50))

	d := NewDriver(board, nil)
	tmpl := d.CaptureCluster("SW3", FromMM(8.5))
	if tmpl.Empty() {
		t.Fatal("expected a cluster capture")
	}

	d.Replicate(tmpl, board.FootprintByReference("SW9"), "")

	// Stale track removed, one replayed track added; source untouched
	if liveTracks(board) != 2 {
		t.Fatalf("live tracks = %d, want 2 (source + replayed)", liveTracks(board))
	}

	replayed := board.Tracks[len(board.Tracks)-1]
	if replayed.Start.X != 91 || replayed.Start.Y != 50 {
		t.Errorf("replayed start = (%v, %v), want (91, 50)", replayed.Start.X, replayed.Start.Y)
	}
	// Item tagged with pad 1: net resolves via the target's pad
	if replayed.Net == nil || replayed.Net.Name != "COL_1" {
		t.Error("replayed track must resolve its net from the tagged pad")
	}
}

func TestReplicateEmptyTemplateIsNoOp(t *testing.T) {
	board := pcb.NewBoard()
	board.Footprints = []*pcb.Footprint{
		testFootprint("LED8", 100, 0, 0, testPad("2", 0, 0, nil)),
	}

	d := NewDriver(board, nil)
	d.Replicate(Template{}, board.FootprintByReference("LED8"), "2")

	if len(board.Tracks) != 0 {
		t.Error("empty template must add nothing")
	}
}

func TestAlign(t *testing.T) {
	board := pcb.NewBoard()
	anchor3 := testFootprint("SW3", 50, 50, 0)
	anchor9 := testFootprint("SW9", 90, 70, 0)
	refSat := testFootprint("D3", 52, 51, 180)
	sat := testFootprint("D9", 0, 0, 0)
	board.Footprints = []*pcb.Footprint{anchor3, anchor9, refSat, sat}

	d := NewDriver(board, nil)
	d.Align(sat, refSat, anchor3.Position.Position, anchor9.Position.Position)

	// Same offset from its anchor as the reference satellite: (+2, +1)
	if sat.Position.X != 92 || sat.Position.Y != 71 {
		t.Errorf("aligned to (%v, %v), want (92, 71)", sat.Position.X, sat.Position.Y)
	}
	if sat.Position.Angle != 180 {
		t.Errorf("aligned angle = %v, want 180", sat.Position.Angle)
	}
}

func TestAlignShiftsPadAngles(t *testing.T) {
	board := pcb.NewBoard()
	refSat := testFootprint("D3", 52, 51, 180)
	sat := testFootprint("D9", 0, 0, 90, testPad("1", 1, 0, nil))
	sat.Pads[0].Position.Angle = 90
	board.Footprints = []*pcb.Footprint{refSat, sat}

	d := NewDriver(board, nil)
	d.Align(sat, refSat, pcb.Position{X: 50, Y: 50}, pcb.Position{X: 90, Y: 70})

	// Pad angles are absolute: re-orienting the footprint from 90 to 180
	// carries each pad along
	if sat.Position.Angle != 180 {
		t.Fatalf("aligned angle = %v, want 180", sat.Position.Angle)
	}
	if sat.Pads[0].Position.Angle != 180 {
		t.Errorf("pad angle = %v, want 180", sat.Pads[0].Position.Angle)
	}
}

func TestAlignSkipsSideMismatch(t *testing.T) {
	board := pcb.NewBoard()
	refSat := testFootprint("D3", 52, 51, 180)
	refSat.Layer = "B.Cu"
	sat := testFootprint("D9", 7, 8, 0)
	board.Footprints = []*pcb.Footprint{refSat, sat}

	d := NewDriver(board, nil)
	d.Align(sat, refSat, pcb.Position{X: 50, Y: 50}, pcb.Position{X: 90, Y: 70})

	// A front-side satellite cannot mirror a back-side reference: it stays
	// where it is instead of ending up half on each side
	if sat.Position.X != 7 || sat.Position.Y != 8 || sat.Position.Angle != 0 {
		t.Errorf("mismatched satellite moved to %+v", sat.Position)
	}
	if sat.Layer != "F.Cu" {
		t.Errorf("satellite layer = %q, want F.Cu", sat.Layer)
	}
}
