package plan

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/copper"
	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

// Executor walks a plan's statements in order against one driver
// operation. Unknown footprints and missing templates are skipped with a
// log line, never an error: plans are expected to run against partially
// populated boards.
type Executor struct {
	driver    *copper.Driver
	board     *pcb.Board
	templates map[string]copper.Template
	refRot    float64
	logger    *log.Logger
}

// NewExecutor prepares an executor over the driver's board. A nil logger
// silences progress output.
func NewExecutor(driver *copper.Driver, logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Executor{
		driver:    driver,
		board:     driver.Engine().Board(),
		templates: make(map[string]copper.Template),
		logger:    logger,
	}
}

// Run executes every statement. The only errors are structural (a
// statement with no recognisable form); board-state misses are logged and
// skipped.
func (ex *Executor) Run(p *Plan) error {
	for i, stmt := range p.Statements {
		switch {
		case stmt.Reference != nil:
			ex.runReference(stmt.Reference)
		case stmt.Capture != nil:
			ex.runCapture(stmt.Capture)
		case stmt.Cleanup != nil:
			ex.runCleanup(stmt.Cleanup)
		case stmt.Apply != nil:
			ex.runApply(stmt.Apply)
		case stmt.Align != nil:
			ex.runAlign(stmt.Align)
		default:
			return fmt.Errorf("statement %d has no recognisable form", i+1)
		}
	}
	return nil
}

// Templates returns the templates captured so far, by name
func (ex *Executor) Templates() map[string]copper.Template {
	return ex.templates
}

func (ex *Executor) runReference(stmt *ReferenceStmt) {
	fp := ex.board.FootprintByReference(stmt.Ref)
	if fp == nil {
		ex.logger.Warn("reference footprint not found, keeping rotation 0", "ref", stmt.Ref)
		ex.refRot = 0
		return
	}
	ex.refRot = float64(fp.Position.Angle)
	ex.logger.Debug("reference rotation set", "ref", stmt.Ref, "degrees", ex.refRot)
}

func (ex *Executor) runCapture(stmt *CaptureStmt) {
	var tmpl copper.Template
	switch {
	case stmt.Path != nil:
		tmpl = ex.driver.CapturePath(stmt.Path.Src, stmt.Path.Dst, ex.refRot)
	case stmt.Cluster != nil:
		tmpl = ex.driver.CaptureCluster(stmt.Cluster.Ref, copper.FromMM(stmt.Cluster.Radius))
	}
	ex.templates[stmt.Name] = tmpl
}

func (ex *Executor) runCleanup(stmt *CleanupStmt) {
	skipSet := make(map[int]struct{}, len(stmt.Skip))
	for _, s := range stmt.Skip {
		skipSet[s] = struct{}{}
	}

	radius := copper.FromMM(stmt.Radius)
	removed := 0
	for _, fp := range ex.board.Footprints {
		idx, ok := prefixIndex(fp.Reference, stmt.Prefix)
		if !ok {
			continue
		}
		if _, skipped := skipSet[idx]; skipped {
			continue
		}
		removed += ex.driver.PadCleanup(fp, stmt.Pad, radius)
	}
	ex.logger.Info("cleanup done", "prefix", stmt.Prefix, "pad", stmt.Pad, "removed", removed)
}

func (ex *Executor) runApply(stmt *ApplyStmt) {
	tmpl, ok := ex.templates[stmt.Name]
	if !ok || tmpl.Empty() {
		ex.logger.Warn("template missing or empty, apply skipped", "template", stmt.Name)
		return
	}

	applied := 0
	for _, i := range stmt.Range.Indices(stmt.Skip) {
		ref := stmt.Prefix + strconv.Itoa(i)
		fp := ex.board.FootprintByReference(ref)
		if fp == nil {
			continue
		}
		ex.driver.Replicate(tmpl, fp, stmt.Pad)
		applied++
	}
	ex.logger.Info("template applied", "template", stmt.Name, "targets", applied)
}

func (ex *Executor) runAlign(stmt *AlignStmt) {
	refAnchor := ex.board.FootprintByReference(stmt.Anchor + strconv.Itoa(stmt.From))
	if refAnchor == nil {
		ex.logger.Warn("align reference anchor not found", "anchor", stmt.Anchor, "index", stmt.From)
		return
	}

	aligned := 0
	for _, i := range stmt.Range.Indices(stmt.Skip) {
		if i == stmt.From {
			continue
		}
		anchor := ex.board.FootprintByReference(stmt.Anchor + strconv.Itoa(i))
		if anchor == nil {
			continue
		}
		for _, prefix := range stmt.Prefixes {
			refSat := ex.board.FootprintByReference(prefix + strconv.Itoa(stmt.From))
			sat := ex.board.FootprintByReference(prefix + strconv.Itoa(i))
			if refSat == nil || sat == nil {
				continue
			}
			ex.driver.Align(sat, refSat, refAnchor.Position.Position, anchor.Position.Position)
			aligned++
		}
	}
	ex.logger.Info("footprints aligned", "anchor", stmt.Anchor, "count", aligned)
}

// prefixIndex splits a reference like "LED42" on the given prefix,
// returning the numeric index. References with a different prefix or a
// non-numeric remainder don't match.
func prefixIndex(ref, prefix string) (int, bool) {
	if !strings.HasPrefix(ref, prefix) {
		return 0, false
	}
	idx, err := strconv.Atoi(ref[len(prefix):])
	if err != nil {
		return 0, false
	}
	return idx, true
}
