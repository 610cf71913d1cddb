// Package flow composes a heterogeneous stream of block-level children
// (paragraph lines, single and breakable blocks, spacing, placed floats,
// tags, and explicit breaks) into the frame for one region at a time,
// carrying state (queued floats, pending footnotes, sticky checkpoints)
// across region boundaries as a document flows across columns and pages.
//
// The pipeline runs in four stages: collect children into preprocessed
// structures, compose frames by distributing content into regions,
// handle floats and footnotes as out-of-flow elements, and apply sticky
// blocks and spacing logic.
package flow

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
)

// PlacementScope says whether a relayout triggered by a float or a
// footnote overflow needs to redo just the current column or the whole
// page (a page-scoped float can shrink every column, not just the one it
// was queued from).
type PlacementScope uint8

const (
	PlacementScopeColumn PlacementScope = iota
	PlacementScopePage
)

// FixedAlignment is a start/center/end alignment already resolved
// against a concrete direction, the form the distributor positions
// items with (as opposed to content.Alignment2D's logical left/right
// that still needs a Dir to resolve).
type FixedAlignment uint8

const (
	FixedAlignStart FixedAlignment = iota
	FixedAlignCenter
	FixedAlignEnd
)

// Position returns the offset from the start edge at which content of
// this alignment should begin, given free leftover space.
func (a FixedAlignment) Position(free layout.Abs) layout.Abs {
	switch a {
	case FixedAlignCenter:
		return free / 2
	case FixedAlignEnd:
		return free
	default:
		return 0
	}
}

// Max returns whichever of a and b sorts later (Start < Center < End),
// the rule the distributor uses to decide a region's vertical ruler
// alignment once any item has asked for more than Start.
func (a FixedAlignment) Max(b FixedAlignment) FixedAlignment {
	if b > a {
		return b
	}
	return a
}

func (a FixedAlignment) Inv() FixedAlignment {
	switch a {
	case FixedAlignStart:
		return FixedAlignEnd
	case FixedAlignEnd:
		return FixedAlignStart
	default:
		return FixedAlignCenter
	}
}

// Rel is a length resolved from content.Relative against a base only
// known once the region it lands in is decided, the form spacing and
// float offsets carry until RelativeTo is called.
type Rel struct {
	Abs layout.Abs
	Rel layout.Ratio
}

// RelOf converts a content.Relative into the layout-local Rel, resolving
// its Length component's em part against fontSize (the font size in
// effect where the relative value was authored).
func RelOf(r content.Relative, fontSize layout.Abs) Rel {
	return Rel{Abs: layout.Abs(r.Abs.Resolve(float64(fontSize))), Rel: layout.Ratio(r.Ratio.Value)}
}

func (r Rel) RelativeTo(base layout.Abs) layout.Abs { return r.Abs + r.Rel.Resolve(base) }

// RelAxesToPoint resolves a pair of relative offsets against a size,
// used to place a float's Delta nudge once its region is known.
func RelAxesToPoint(d layout.Axes[Rel], base layout.Size) layout.Point {
	return layout.Point{X: d.X.RelativeTo(base.Width), Y: d.Y.RelativeTo(base.Height)}
}

// Stop is the control-flow signal a distribution step returns instead of
// an error when the region is done, needs a relayout, or hit a hard
// failure. A nil Stop means "keep going". Every real call site in
// collect.go/distribute.go/compose.go just returns (value, Stop) as a
// plain Go multi-return, the idiomatic shape with no wrapper type needed.
type Stop interface{ isStop() }

// StopFinish ends the current region. Forced distinguishes an explicit
// break (a page/column break, always forced) from content simply not
// fitting (unforced — a later, larger region might still take it).
type StopFinish struct{ Forced bool }

func (StopFinish) isStop() {}

// StopRelayout asks the caller to redo the region from scratch, because
// a float or footnote changed how much space is available in Scope.
type StopRelayout struct{ Scope PlacementScope }

func (StopRelayout) isStop() {}

// StopError aborts layout with a hard failure (e.g. a cyclic footnote
// reference the fixpoint iterator couldn't resolve).
type StopError struct{ Err error }

func (StopError) isStop() {}

// Child is one preprocessed unit of flow content, produced by Collect
// and consumed by Distribute.
type Child interface{ isChild() }

// TagChild carries an introspection tag through the flow unchanged.
type TagChild struct{ Tag *content.TagElem }

func (TagChild) isChild() {}

// RelChild is resolved relative spacing (paragraph/block spacing), with
// a weakness level: 0 is strong (always kept), >0 is collapsible against
// an adjacent weak spacing of the same or lower weakness.
type RelChild struct {
	Amount   Rel
	Weakness uint8
}

func (RelChild) isChild() {}

// FrChild is fractional spacing: a share of the region's leftover
// height, resolved only once every line/block in the region is known.
type FrChild struct {
	Amount   layout.Fr
	Weakness uint8
}

func (FrChild) isChild() {}

// LineChild is one already-shaped paragraph line.
type LineChild struct {
	Frame *layout.Frame
	Align layout.Axes[FixedAlignment]
	// Need is the line's height plus its share of the paragraph's
	// hanging/first-line indent bookkeeping; distinct from Frame.Height()
	// so a line that would fit but whose paragraph wants to avoid an
	// orphan can ask "does the *next* line also fit" before committing.
	Need layout.Abs
}

func (*LineChild) isChild() {}

// SingleChild is an unbreakable block: box(), a non-breakable block(),
// display math, a stack(dir: ltr) of inline content.
type SingleChild struct {
	Align  layout.Axes[FixedAlignment]
	Sticky bool
	Layout func(eng *engine.Engine, region layout.Region) (*layout.Frame, error)
}

func (*SingleChild) isChild() {}

// MultiChild is a breakable block: a paragraph, a list, a multi-column
// stack, a block(breakable: true) that may spill across regions.
type MultiChild struct {
	Align  layout.Axes[FixedAlignment]
	Sticky bool
	Layout func(eng *engine.Engine, regions *layout.Regions) (*layout.Fragment, error)
}

func (*MultiChild) isChild() {}

// MultiSpill is the part of a MultiChild's fragment that didn't fit in
// the region it started in, carried forward to the next one.
type MultiSpill struct {
	Align layout.Axes[FixedAlignment]
	// Frames are the remaining, already-laid-out frames to place one per
	// subsequent region.
	Frames             []*layout.Frame
	ExistNonEmptyFrame bool
}

// Layout consumes as many of the spill's frames as the given regions'
// first slot and backlog can take, returning the first frame to place
// now and any remainder still left over.
func (s *MultiSpill) Layout(regions *layout.Regions) (*layout.Frame, *MultiSpill) {
	if len(s.Frames) == 0 {
		return layout.NewFrame(layout.Size{}), nil
	}
	first := s.Frames[0]
	rest := s.Frames[1:]
	if len(rest) == 0 {
		return first, nil
	}
	nonEmpty := s.ExistNonEmptyFrame
	if !nonEmpty {
		for _, f := range rest {
			if !f.IsEmpty() {
				nonEmpty = true
				break
			}
		}
	}
	return first, &MultiSpill{Align: s.Align, Frames: rest, ExistNonEmptyFrame: nonEmpty}
}

// PlacedChild is place()d content: either a float queued for the
// composer to slot into the top/bottom insertion area, or a plain
// absolutely-positioned overlay.
type PlacedChild struct {
	Float     bool
	Scope     PlacementScope
	AlignX    FixedAlignment
	AlignY    *FixedAlignment
	Delta     layout.Axes[Rel]
	Clearance layout.Abs
	Layout    func(eng *engine.Engine, base layout.Size) (*layout.Frame, error)
	Loc       content.Location
}

func (*PlacedChild) isChild() {}

func (p *PlacedChild) Location() content.Location { return p.Loc }

// FootnoteChild marks where a footnote's body needs to be queued into
// the region's footnote area once the content preceding it on the same
// line/block is placed. Footnotes are discovered up front during
// Collect, where the real content.FootnoteElement is still available
// directly, and queued onto the Child stream at the point the marker
// occurs, rather than by re-scanning the laid-out frame tree for marker
// items after the fact. This doesn't handle a footnote marker synthesized
// by a later show-rule transform, since realization has already finished
// by the time layout sees the tree.
type FootnoteChild struct {
	Loc content.Location
	// Layout shapes the footnote's body against the footnote area's
	// width once a region is known, deferred the same way a PlacedChild's
	// Layout is. first is the height still free in the current region's
	// footnote area and full the undiminished region height; a body too
	// tall for first comes back as a multi-frame fragment whose remainder
	// frames are sized against full, continuing in later regions' areas.
	Layout func(eng *engine.Engine, width, first, full layout.Abs) (*layout.Fragment, error)
}

func (FootnoteChild) isChild() {}

// FlushChild forces any still-queued floats to be placed (or the region
// to end) before continuing, the effect of place.flush().
type FlushChild struct{}

func (FlushChild) isChild() {}

// BreakChild forces (or, if Weak, requests) a column/page break.
type BreakChild struct{ Weak bool }

func (BreakChild) isChild() {}

// Work tracks the children still to be distributed plus everything that
// must survive across a region boundary: spillover from a breakable
// block, queued floats, collected tags, and the set of float/footnote
// locations already placed (so a relayout doesn't place them twice).
// Pending footnotes live in the composer's own FootnoteState instead of
// here, since unlike floats/tags they aren't children still waiting to
// be reached — they're already-laid-out content waiting for room.
type Work struct {
	Children []Child
	Index    int
	Spill    *MultiSpill
	Floats   []*PlacedChild
	Tags     []*content.TagElem
	Skips    map[content.Location]struct{}
}

func NewWork(children []Child) *Work {
	return &Work{Children: children, Skips: make(map[content.Location]struct{})}
}

// Head returns the next unconsumed child, or nil once Index has reached
// the end.
func (w *Work) Head() Child {
	if w.Index >= len(w.Children) {
		return nil
	}
	return w.Children[w.Index]
}

func (w *Work) Advance() { w.Index++ }

// Done reports whether nothing remains to place: no unconsumed
// children, no spilled remainder, and no float still waiting for a
// region with room.
func (w *Work) Done() bool {
	return w.Index >= len(w.Children) && w.Spill == nil && len(w.Floats) == 0
}

// Clone copies the mutable slices so a distribution attempt that gets
// rolled back (sticky migration, a relayout pass) doesn't corrupt the
// caller's view of remaining work. Skips is shared, not copied: it
// mirrors what already landed in the composer's insertion state, which
// a work rollback doesn't undo — restoring an older Skips would place
// the same float twice.
func (w *Work) Clone() *Work {
	clone := &Work{
		Children: w.Children,
		Index:    w.Index,
		Spill:    w.Spill,
		Skips:    w.Skips,
	}
	clone.Floats = append(clone.Floats, w.Floats...)
	clone.Tags = append(clone.Tags, w.Tags...)
	return clone
}
