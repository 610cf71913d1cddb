package flow

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
)

// Footnote is a footnote body already laid out against a region's
// width, waiting for room in the bottom insertion area of the region
// its marker landed in (or a later one, if it didn't fit there).
type Footnote struct {
	Loc   content.Location
	Frame *layout.Frame
}

// FootnoteConfig configures how footnotes are set off from the main
// flow: an optional rule/line Separator frame, the Gap beneath it, and
// the minimum Clearance kept between the flow content and the
// footnote area.
type FootnoteConfig struct {
	Separator *layout.Frame
	Gap       layout.Abs
	Clearance layout.Abs
}

func DefaultFootnoteConfig() FootnoteConfig {
	return FootnoteConfig{Gap: layout.Abs(10)}
}

// FootnoteState tracks footnotes across the regions of one flow: Pending
// footnotes are laid out but haven't found room yet, Insertions are the
// ones placed in the region currently being finalized.
type FootnoteState struct {
	Config     FootnoteConfig
	Pending    []Footnote
	Used       layout.Abs
	Insertions []Footnote
}

func NewFootnoteState(config FootnoteConfig) *FootnoteState {
	return &FootnoteState{Config: config}
}

func (s *FootnoteState) Height() layout.Abs {
	if len(s.Insertions) == 0 {
		return 0
	}
	height := s.Used
	if s.Config.Separator != nil {
		height += s.Config.Separator.Height()
	}
	if height > 0 {
		height += s.Config.Gap
	}
	return height
}

func (s *FootnoteState) Width() layout.Abs {
	var max layout.Abs
	for _, fn := range s.Insertions {
		if fn.Frame.Width() > max {
			max = fn.Frame.Width()
		}
	}
	return max
}

// Clear drops the placed footnotes for a region once it's been
// finalized, keeping anything still Pending to carry into the next one.
func (s *FootnoteState) Clear() {
	s.Insertions = nil
	s.Used = 0
}

// Finalize builds the separator-plus-footnotes frame for the region
// currently being closed out, or nil if nothing was placed.
func (s *FootnoteState) Finalize(width layout.Abs) *layout.Frame {
	if len(s.Insertions) == 0 {
		return nil
	}
	frame := layout.NewFrame(layout.Size{Width: width, Height: s.Height()})
	var y layout.Abs
	if s.Config.Separator != nil {
		frame.PushFrame(layout.Point{X: 0, Y: y}, s.Config.Separator)
		y += s.Config.Separator.Height()
	}
	if y > 0 || s.Config.Gap > 0 {
		y += s.Config.Gap
	}
	for _, fn := range s.Insertions {
		frame.PushFrame(layout.Point{X: 0, Y: y}, fn.Frame)
		y += fn.Frame.Height()
	}
	return frame
}

// placedFrame pairs a placed float child with its laid-out frame.
type placedFrame struct {
	placed *PlacedChild
	frame  *layout.Frame
}

// Insertions accumulates the floats queued for the region currently
// being distributed, split by which edge they're anchored to. Float
// placement and footnote placement (FootnoteState) are tracked
// independently since they have unrelated fit rules.
type Insertions struct {
	topFloats    []placedFrame
	bottomFloats []placedFrame
	topSize      layout.Abs
	bottomSize   layout.Abs
	width        layout.Abs
}

func NewInsertions() *Insertions { return &Insertions{} }

func (ins *Insertions) PushFloat(placed *PlacedChild, frame *layout.Frame, alignY FixedAlignment) {
	pf := placedFrame{placed: placed, frame: frame}
	if frame.Width() > ins.width {
		ins.width = frame.Width()
	}
	switch alignY {
	case FixedAlignEnd:
		ins.bottomFloats = append(ins.bottomFloats, pf)
		ins.bottomSize += frame.Height() + placed.Clearance
	default:
		ins.topFloats = append(ins.topFloats, pf)
		ins.topSize += frame.Height() + placed.Clearance
	}
}

func (ins *Insertions) Height() layout.Abs     { return ins.topSize + ins.bottomSize }
func (ins *Insertions) TopHeight() layout.Abs  { return ins.topSize }
func (ins *Insertions) Width() layout.Abs      { return ins.width }
func (ins *Insertions) IsEmpty() bool {
	return len(ins.topFloats) == 0 && len(ins.bottomFloats) == 0
}

// Finalize composes top floats, the main content, bottom floats, and
// (if any) the footnote frame into one region-sized output, in that
// top-to-bottom order.
func (ins *Insertions) Finalize(content *layout.Frame, notes *layout.Frame, regionSize layout.Size) *layout.Frame {
	if ins.IsEmpty() && notes == nil {
		return content
	}

	output := layout.NewFrame(regionSize)
	var offset layout.Abs

	for _, pf := range ins.topFloats {
		x := pf.placed.AlignX.Position(regionSize.Width - pf.frame.Width())
		delta := RelAxesToPoint(pf.placed.Delta, regionSize)
		output.PushFrame(layout.Point{X: x + delta.X, Y: offset + delta.Y}, pf.frame)
		offset += pf.frame.Height() + pf.placed.Clearance
	}

	output.PushFrame(layout.Point{X: 0, Y: offset}, content)

	bottomStart := regionSize.Height
	if notes != nil {
		bottomStart -= notes.Height()
		output.PushFrame(layout.Point{X: 0, Y: bottomStart}, notes)
	}

	for i := len(ins.bottomFloats) - 1; i >= 0; i-- {
		pf := ins.bottomFloats[i]
		bottomStart -= pf.frame.Height()
		x := pf.placed.AlignX.Position(regionSize.Width - pf.frame.Width())
		delta := RelAxesToPoint(pf.placed.Delta, regionSize)
		output.PushFrame(layout.Point{X: x + delta.X, Y: bottomStart + delta.Y}, pf.frame)
		bottomStart -= pf.placed.Clearance
	}

	return output
}

// Composer is the per-flow context Distribute threads through every
// region: the shared Work queue, the floats/footnotes queued for the
// region presently being built, and the engine to lay children out
// against. Every field is read by the same call sites, so it's kept as
// one type rather than split across a base/extension pair.
type Composer struct {
	Engine *engine.Engine
	Work   *Work
	ins    *Insertions
	notes  *FootnoteState
}

func NewComposer(eng *engine.Engine, work *Work, footnotes FootnoteConfig) *Composer {
	return &Composer{Engine: eng, Work: work, ins: NewInsertions(), notes: NewFootnoteState(footnotes)}
}

func (c *Composer) floatFits(frame *layout.Frame, clearance, available layout.Abs) bool {
	return available.Fits(frame.Height() + clearance)
}

// InsertionHeight is how much of the current region the composer's
// floats and placed footnotes have already reserved; Distribute
// subtracts it from the region before distributing the main flow.
func (c *Composer) InsertionHeight() layout.Abs { return c.ins.Height() + c.notes.Height() }

// Float lays out a queued place(float: true) child and either slots it
// into the current region's insertion area or defers it to Work.Floats
// for a later region, signaling a relayout of the current one either
// way so the main flow redistributes around the new obstruction.
func (c *Composer) Float(placed *PlacedChild, regions *layout.Regions, hasContent bool) (Stop, error) {
	if _, skip := c.Work.Skips[placed.Location()]; skip {
		return nil, nil
	}

	frame, err := placed.Layout(c.Engine, regions.Base())
	if err != nil {
		return nil, err
	}

	alignY := FixedAlignStart
	if placed.AlignY != nil {
		alignY = *placed.AlignY
	}

	// regions here is the distributor's working view, already net of
	// every insertion placed so far; its height is the float's available
	// room directly.
	if !c.floatFits(frame, placed.Clearance, regions.Size.Height) {
		c.Work.Floats = append(c.Work.Floats, placed)
		if hasContent && placed.Clearance > 0 {
			return StopRelayout{Scope: placed.Scope}, nil
		}
		return nil, nil
	}

	c.ins.PushFloat(placed, frame, alignY)
	c.Work.Skips[placed.Location()] = struct{}{}

	return StopRelayout{Scope: placed.Scope}, nil
}

// ProcessQueuedFloats retries every float deferred from an earlier
// region now that a new region (with possibly more height) is on offer.
func (c *Composer) ProcessQueuedFloats(regions *layout.Regions) Stop {
	remaining := make([]*PlacedChild, 0, len(c.Work.Floats))

	for _, placed := range c.Work.Floats {
		if _, skip := c.Work.Skips[placed.Location()]; skip {
			continue
		}
		frame, err := placed.Layout(c.Engine, regions.Base())
		if err != nil {
			return StopError{Err: err}
		}
		alignY := FixedAlignStart
		if placed.AlignY != nil {
			alignY = *placed.AlignY
		}
		available := regions.Size.Height - c.ins.Height() - c.notes.Height()
		if c.floatFits(frame, placed.Clearance, available) {
			c.ins.PushFloat(placed, frame, alignY)
			c.Work.Skips[placed.Location()] = struct{}{}
		} else {
			if !regions.MayProgress() {
				// A fresh terminal region is as much room as any region
				// will ever offer; a float that doesn't fit here fits
				// nowhere.
				return StopError{Err: &engine.Diagnostic{
					Severity: engine.SeverityError,
					Message:  "floating placement does not fit in any region",
				}}
			}
			remaining = append(remaining, placed)
		}
	}

	c.Work.Floats = remaining
	return nil
}

// HasPendingFootnotes reports whether laid-out footnote content is still
// waiting for room, which keeps the region walk alive after the child
// stream itself is exhausted.
func (c *Composer) HasPendingFootnotes() bool { return len(c.notes.Pending) > 0 }

// QueueFootnote lays out a newly discovered footnote's body and slots
// it into the current region's footnote area, splitting it when the
// area can't take it whole: the first fragment frame lands here and the
// remainder goes to Pending, continuing in later regions' footnote
// areas. A body whose first line already doesn't fit defers entirely.
// Marker discovery happens at Collect time rather than by rescanning a
// laid-out frame, so there's exactly one marker to consider per call.
func (c *Composer) QueueFootnote(fc FootnoteChild, regions *layout.Regions) error {
	if _, done := c.Work.Skips[fc.Loc]; done {
		return nil
	}

	// regions is the distributor's working view, already net of the
	// footnote area reserved so far; only the separator (if this is the
	// first insertion) and the clearance still need subtracting.
	var separator layout.Abs
	if len(c.notes.Insertions) == 0 && c.notes.Config.Separator != nil {
		separator = c.notes.Config.Separator.Height() + c.notes.Config.Gap
	}
	before := c.notes.Height()
	full := regions.Base().Height
	available := (regions.Size.Height - c.notes.Config.Clearance - separator).Max(0)

	frag, err := fc.Layout(c.Engine, regions.Base().Width, available, full)
	if err != nil {
		return err
	}

	first := frag.First()
	if first != nil && available.Fits(first.Height()) {
		c.notes.Insertions = append(c.notes.Insertions, Footnote{Loc: fc.Loc, Frame: first})
		c.notes.Used += first.Height()
		c.Work.Skips[fc.Loc] = struct{}{}
		for _, rest := range frag.Frames()[1:] {
			c.notes.Pending = append(c.notes.Pending, Footnote{Loc: fc.Loc, Frame: rest})
		}
	} else {
		// Not even the first part fits; re-lay the body unsplit so the
		// next region's retry sees it whole.
		whole, err := fc.Layout(c.Engine, regions.Base().Width, full, full)
		if err != nil {
			return err
		}
		for _, frame := range whole.Frames() {
			c.notes.Pending = append(c.notes.Pending, Footnote{Loc: fc.Loc, Frame: frame})
		}
	}
	regions.Size.Height -= c.notes.Height() - before

	return nil
}

// Footnotes retries every footnote still Pending now that flowNeed more
// space is about to be consumed by an in-flight line or block, shrinking
// regions by however much more footnote area that newly admits. This
// tracks the height delta across calls so repeated calls within one
// region only ever account for newly admitted footnotes, rather than
// re-subtracting the cumulative total and double-counting space already
// removed.
func (c *Composer) Footnotes(regions *layout.Regions, frame *layout.Frame, flowNeed layout.Abs, breakable, migratable bool) error {
	if len(c.notes.Pending) == 0 {
		return nil
	}

	before := c.notes.Height()
	for i := 0; i < len(c.notes.Pending); {
		fn := c.notes.Pending[i]
		needed := fn.Frame.Height()
		if len(c.notes.Insertions) == 0 && c.notes.Config.Separator != nil {
			needed += c.notes.Config.Separator.Height() + c.notes.Config.Gap
		}
		available := regions.Size.Height - flowNeed - (c.notes.Height() - before) - c.notes.Config.Clearance
		if available.Fits(needed) {
			c.notes.Insertions = append(c.notes.Insertions, fn)
			c.notes.Used += fn.Frame.Height()
			c.notes.Pending = append(c.notes.Pending[:i], c.notes.Pending[i+1:]...)
			continue
		}
		i++
	}
	regions.Size.Height -= c.notes.Height() - before

	return nil
}

// InsertionWidth reports how wide the current region's floats and
// footnotes want to be, the minimum the distributor's own content must
// be given credit for when an unexpanded region picks its final width.
func (c *Composer) InsertionWidth() layout.Abs {
	w := c.ins.Width()
	if nw := c.notes.Width(); nw > w {
		w = nw
	}
	return w
}

// FinalizeInsertions composes this region's floats, main content, and
// footnotes into the final output frame, then clears the per-region
// insertion/footnote state so the next region starts fresh (Pending
// footnotes survive, per FootnoteState.Clear).
func (c *Composer) FinalizeInsertions(content *layout.Frame, regionSize layout.Size) *layout.Frame {
	notes := c.notes.Finalize(regionSize.Width)
	output := c.ins.Finalize(content, notes, regionSize)
	c.ins = NewInsertions()
	c.notes.Clear()
	return output
}

// Compose runs one region's distribution end to end: retry queued
// floats, drain footnotes carried over from the previous region,
// distribute the remaining children, then compose the result with this
// region's insertions.
func Compose(composer *Composer, regions *layout.Regions) (*layout.Frame, Stop) {
	if stop := composer.ProcessQueuedFloats(regions); stop != nil {
		return nil, stop
	}
	drain := regions.Clone()
	drain.Size.Height = (drain.Size.Height - composer.InsertionHeight()).Max(0)
	if err := composer.Footnotes(drain, nil, 0, true, true); err != nil {
		return nil, StopError{Err: err}
	}

	content, stop := Distribute(composer, regions)
	if stop != nil {
		switch stop.(type) {
		case StopRelayout, StopError:
			return nil, stop
		}
	}

	output := composer.FinalizeInsertions(content, regions.Size)
	return output, stop
}

// ComposeLoop retries Compose while a float keeps asking for a
// column-scoped relayout of the same region, giving up and returning
// whatever was last produced once maxIterations is exceeded. Placed
// insertions survive across retries: the relayout redistributes the
// main flow around them, it doesn't re-place them.
func ComposeLoop(composer *Composer, regions *layout.Regions, maxIterations int) (*layout.Frame, Stop) {
	for i := 0; i < maxIterations; i++ {
		frame, stop := Compose(composer, regions)

		if relayout, ok := stop.(StopRelayout); ok {
			if relayout.Scope == PlacementScopePage {
				return nil, stop
			}
			continue
		}

		return frame, stop
	}

	content, stop := Distribute(composer, regions)
	return composer.FinalizeInsertions(content, regions.Size), stop
}
