package copper

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

// Driver runs one capture/cleanup/replay operation over a board. It owns
// the engine snapshot for the whole operation (index build, captures,
// cleanup, replay run against the same indices — removals made during
// cleanup are deliberately not reflected back) and the preserved identity
// set protecting captured template segments from cleanup.
//
// Every operation is best-effort: unknown references are skipped, failed
// removals ignored. Nothing the driver does is a fatal error.
type Driver struct {
	board     *pcb.Board
	eng       *Engine
	preserved IDSet
	logger    *log.Logger
}

// NewDriver snapshots the board and prepares an operation. A nil logger
// silences progress output.
func NewDriver(board *pcb.Board, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{
		board:     board,
		eng:       NewEngine(board),
		preserved: make(IDSet),
		logger:    logger,
	}
}

// Engine exposes the operation's snapshot for direct queries
func (d *Driver) Engine() *Engine { return d.eng }

// Preserved returns the identity set of segments belonging to captured
// templates; cleanup never removes these
func (d *Driver) Preserved() IDSet { return d.preserved }

// CapturePath captures a strict path template and protects its segments
// from cleanup for the rest of the operation
func (d *Driver) CapturePath(srcRef, dstRef string, refRot float64) Template {
	tmpl, ids := d.eng.CapturePath(srcRef, dstRef, refRot)
	d.preserved.AddAll(ids)
	if tmpl.Empty() {
		d.logger.Warn("path capture found nothing", "src", srcRef, "dst", dstRef)
	} else {
		d.logger.Debug("captured path", "src", srcRef, "dst", dstRef, "items", len(tmpl.Items))
	}
	return tmpl
}

// CaptureCluster captures a local cluster template, protecting its
// segments like CapturePath
func (d *Driver) CaptureCluster(ref string, radius int64) Template {
	tmpl, ids := d.eng.CaptureCluster(ref, radius)
	d.preserved.AddAll(ids)
	if tmpl.Empty() {
		d.logger.Warn("cluster capture found nothing", "ref", ref)
	} else {
		d.logger.Debug("captured cluster", "ref", ref, "items", len(tmpl.Items))
	}
	return tmpl
}

// ZoneCleanup removes every chain around center that has zero exit points,
// skipping preserved segments. Returns the number of segments removed.
// Running it twice over an unchanged board removes nothing the second
// time: the first pass already took every fully-local chain.
func (d *Driver) ZoneCleanup(center Vec, radius int64) int {
	idx := d.eng.Index()
	cleaned := make(IDSet)
	var toRemove []ItemID

	for _, it := range idx.Items() {
		if cleaned.Has(it.ID) || !d.eng.touchesZone(it, center, radius) {
			continue
		}
		chain, ids, exits := idx.TraceChain(it.ID, center, radius)
		cleaned.AddAll(ids)
		if len(exits) != 0 {
			continue
		}
		for _, id := range chain {
			if !d.preserved.Has(id) {
				toRemove = append(toRemove, id)
			}
		}
	}

	return d.removeAll(toRemove)
}

// PadCleanup removes the chains hanging off one pad, regardless of exit
// points: seeds are the segments adjacent to the pad position plus tracks
// terminating slightly off-centre that still hit the pad shape. Preserved
// segments survive. Returns the number of segments removed.
func (d *Driver) PadCleanup(fp *pcb.Footprint, padNumber string, radius int64) int {
	pad := fp.PadByNumber(padNumber)
	if pad == nil {
		return 0
	}
	pos := VecOf(fp.PadPosition(pad))
	idx := d.eng.Index()

	seeds := append([]ItemID(nil), idx.At(pos)...)
	seedSet := NewIDSet(seeds...)
	for _, it := range idx.Items() {
		if it.Kind != KindTrack || seedSet.Has(it.ID) {
			continue
		}
		start := VecOf(it.Track.Start)
		end := VecOf(it.Track.End)
		if (near(start, pos) && fp.PadHitTest(pad, it.Track.Start)) ||
			(near(end, pos) && fp.PadHitTest(pad, it.Track.End)) {
			seeds = append(seeds, it.ID)
			seedSet.Add(it.ID)
		}
	}

	cleaned := make(IDSet)
	var toRemove []ItemID
	for _, seed := range seeds {
		if cleaned.Has(seed) || d.preserved.Has(seed) {
			continue
		}
		chain, ids, _ := idx.TraceChain(seed, pos, radius)
		cleaned.AddAll(ids)
		for _, id := range chain {
			if !d.preserved.Has(id) {
				toRemove = append(toRemove, id)
			}
		}
	}

	return d.removeAll(toRemove)
}

// removeAll removes segments best-effort; already-removed segments are
// counted out silently, per the mutation-failure policy
func (d *Driver) removeAll(ids []ItemID) int {
	idx := d.eng.Index()
	removed := 0
	for _, id := range ids {
		it := idx.Item(id)
		var ok bool
		switch it.Kind {
		case KindVia:
			ok = d.board.RemoveVia(it.Via)
		default:
			ok = d.board.RemoveTrack(it.Track)
		}
		if ok {
			removed++
		}
	}
	return removed
}

// Replicate replays a template at the target footprint. Cluster templates
// get their local zone cleaned first (preserved segments excepted). The
// net for each new segment comes from padNumber on the target when given,
// else from the item's own pad association, else from an exact
// (position, layer) lookup in the net index; failing all three the segment
// is left unassigned.
func (d *Driver) Replicate(tmpl Template, target *pcb.Footprint, padNumber string) {
	if tmpl.Empty() || target == nil {
		return
	}

	targetPos := VecOf(target.Position.Position)
	rotDelta := float64(target.Position.Angle) - tmpl.RefRot

	if tmpl.Kind == TemplateCluster && tmpl.Radius > 0 {
		d.ZoneCleanup(targetPos, tmpl.Radius)
	}

	var sharedNet *pcb.Net
	if padNumber != "" {
		if pad := target.PadByNumber(padNumber); pad != nil {
			sharedNet = pad.Net
		}
	}

	for _, item := range tmpl.Items {
		net := sharedNet
		if net == nil {
			net = d.resolveItemNet(item, target, targetPos, rotDelta)
		}
		ApplyItem(d.board, item, targetPos, rotDelta, net)
	}
	d.logger.Debug("replicated template", "target", target.Reference, "items", len(tmpl.Items))
}

// resolveItemNet resolves one item's net at its replayed location: pad
// association on the target footprint first, exact net-index lookup
// second. When both resolve and disagree the pad association wins and the
// conflict is logged rather than silently dropped.
func (d *Driver) resolveItemNet(item TemplateItem, target *pcb.Footprint, targetPos Vec, rotDelta float64) *pcb.Net {
	var padNet *pcb.Net
	if item.PadNumber != "" {
		if pad := target.PadByNumber(item.PadNumber); pad != nil {
			padNet = pad.Net
		}
	}

	absolute := targetPos.Add(Rotate(anchorPoint(item), rotDelta))
	indexNet := d.eng.Nets().At(absolute, itemLayer(item))

	if padNet != nil {
		if indexNet != nil && indexNet != padNet {
			d.logger.Warn("net conflict at replay point, using pad association",
				"target", target.Reference, "pad", item.PadNumber,
				"padNet", padNet.Name, "indexNet", indexNet.Name)
		}
		return padNet
	}
	return indexNet
}

// Align moves a satellite footprint so it sits at the same offset from
// targetPos as refSatellite sits from refPos, matching the reference's
// orientation. A satellite on the wrong board side is left where it is:
// the model cannot flip a footprint, and a move without a flip would put
// front-layer pads under a back-side placement.
func (d *Driver) Align(satellite, refSatellite *pcb.Footprint, refPos, targetPos pcb.Position) {
	if satellite == nil || refSatellite == nil {
		return
	}
	if satellite.Flipped() != refSatellite.Flipped() {
		d.logger.Warn("board side mismatch, footprint not moved",
			"ref", satellite.Reference, "anchor", refSatellite.Reference)
		return
	}
	satellite.Position.X = targetPos.X + (refSatellite.Position.X - refPos.X)
	satellite.Position.Y = targetPos.Y + (refSatellite.Position.Y - refPos.Y)
	satellite.SetOrientation(refSatellite.Position.Angle)
	d.logger.Debug("aligned footprint", "ref", satellite.Reference)
}
