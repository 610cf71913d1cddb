package flow

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/layout"
)

// Distribute lays out as many of composer.Work's remaining children as
// fit into regions' first slot, returning the resulting frame for that
// region. Children that don't fit (or a sticky group that shouldn't be
// orphaned) stay queued on composer.Work for the caller's next call.
//
// The distribution height is the region's minus whatever the composer's
// float/footnote insertions already reserved, so a relayout pass after a
// float landed redistributes into the reduced area. On StopRelayout the
// work queue is restored to its entry state: the next pass re-walks this
// region's children from the top (the placed float itself is excluded
// from re-placement via Work.Skips).
func Distribute(composer *Composer, regions *layout.Regions) (*layout.Frame, Stop) {
	d := &Distributor{
		composer: composer,
		regions:  regions.Clone(),
	}
	d.regions.Size.Height = (d.regions.Size.Height - composer.InsertionHeight()).Max(0)
	region := layout.Region{Size: d.regions.Size, Expand: d.regions.Expand}
	init := d.snapshot()

	var forced bool
	if stop := d.run(); stop != nil {
		switch s := stop.(type) {
		case StopFinish:
			forced = s.Forced
		case StopRelayout:
			d.restore(init)
			return nil, stop
		default:
			return nil, stop
		}
	} else {
		forced = d.composer.Work.Done()
	}

	return d.finalize(region, init, forced)
}

// Distributor holds the mutable state of one region's distribution pass.
type Distributor struct {
	composer *Composer
	// regions is continuously shrunk as items are added; a local clone so
	// a sticky/migratable rollback can discard work without disturbing
	// the caller's view.
	regions *layout.Regions
	// items are already laid out, not yet positioned within the region.
	items []Item
	// sticky is a snapshot to restore to migrate a sticky group (e.g. a
	// heading) to the next region rather than orphan it here.
	sticky *distributionSnapshot
	// stickable is nil while not tracking a sticky group, and otherwise
	// says whether migration is still allowed for the current one.
	stickable *bool
}

type distributionSnapshot struct {
	work  *Work
	items int
}

// Item is one already-laid-out unit waiting to be positioned by finalize.
type Item interface {
	isItem()
	// Migratable reports whether this item should move to the next
	// region if every item in the current one is equally migratable
	// (an empty region full of nothing but tags and floats shouldn't be
	// emitted just to make room for what follows).
	Migratable() bool
}

type TagItem struct{ Tag *content.TagElem }

func (TagItem) isItem()          {}
func (TagItem) Migratable() bool { return true }

type AbsItem struct {
	Amount   layout.Abs
	Weakness uint8
}

func (AbsItem) isItem()          {}
func (AbsItem) Migratable() bool { return false }

// FrItem is fractional spacing, or — when Single is set — a fractional-
// share block whose actual layout is deferred to finalize, once the
// total leftover space for the region is known.
type FrItem struct {
	Amount   layout.Fr
	Weakness uint8
	Single   *SingleChild
}

func (FrItem) isItem()          {}
func (FrItem) Migratable() bool { return false }

// FlowFrameItem is a laid-out line or block's frame, still needing its
// final position within the region.
type FlowFrameItem struct {
	Frame *layout.Frame
	Align layout.Axes[FixedAlignment]
}

func (FlowFrameItem) isItem() {}

// Migratable is true for an empty frame containing nothing but links
// and tags — content with no visual footprint that shouldn't anchor a
// region on its own.
func (f FlowFrameItem) Migratable() bool {
	if f.Frame.Width() != 0 || f.Frame.Height() != 0 {
		return false
	}
	for _, entry := range f.Frame.Items() {
		switch entry.Item.(type) {
		case layout.LinkItem, layout.TagItem:
		default:
			return false
		}
	}
	return true
}

type PlacedItem struct {
	Frame  *layout.Frame
	Placed *PlacedChild
}

func (PlacedItem) isItem()          {}
func (p PlacedItem) Migratable() bool { return !p.Placed.Float }

func (d *Distributor) run() Stop {
	if spill := d.composer.Work.Spill; spill != nil {
		d.composer.Work.Spill = nil
		if stop := d.multiSpill(spill); stop != nil {
			return stop
		}
	}

	for {
		child := d.composer.Work.Head()
		if child == nil {
			break
		}
		if stop := d.child(child); stop != nil {
			return stop
		}
		d.composer.Work.Advance()
	}

	return nil
}

func (d *Distributor) child(child Child) Stop {
	switch c := child.(type) {
	case TagChild:
		d.tag(c.Tag)
	case RelChild:
		d.rel(c.Amount, c.Weakness)
	case FrChild:
		d.fr(c.Amount, c.Weakness)
	case *LineChild:
		return d.line(c)
	case *SingleChild:
		return d.single(c)
	case *MultiChild:
		return d.multi(c)
	case *PlacedChild:
		return d.placed(c)
	case FootnoteChild:
		return d.footnote(c)
	case FlushChild:
		return d.flush()
	case BreakChild:
		return d.break_(c.Weak)
	}
	return nil
}

func (d *Distributor) tag(tag *content.TagElem) {
	d.composer.Work.Tags = append(d.composer.Work.Tags, tag)
}

func (d *Distributor) flushTags() {
	if len(d.composer.Work.Tags) == 0 {
		return
	}
	for _, tag := range d.composer.Work.Tags {
		d.items = append(d.items, TagItem{Tag: tag})
	}
	d.composer.Work.Tags = nil
}

func (d *Distributor) rel(amount Rel, weakness uint8) {
	resolved := amount.RelativeTo(d.regions.Base().Height)
	if weakness > 0 && !d.keepWeakRelSpacing(resolved, weakness) {
		return
	}
	d.regions.Size.Height -= resolved
	d.items = append(d.items, AbsItem{Amount: resolved, Weakness: weakness})
}

func (d *Distributor) fr(fr layout.Fr, weakness uint8) {
	if weakness > 0 && !d.keepWeakFrSpacing(fr, weakness) {
		return
	}
	d.trimSpacing()
	d.items = append(d.items, FrItem{Amount: fr, Weakness: weakness})
}

func (d *Distributor) keepWeakRelSpacing(amount layout.Abs, weakness uint8) bool {
	for i := len(d.items) - 1; i >= 0; i-- {
		switch item := d.items[i].(type) {
		case AbsItem:
			if item.Weakness >= 1 {
				if weakness <= item.Weakness && (weakness < item.Weakness || amount > item.Amount) {
					d.regions.Size.Height -= amount - item.Amount
					d.items[i] = AbsItem{Amount: amount, Weakness: weakness}
				}
				return false
			}
		case TagItem, PlacedItem:
			// peek beyond
		case FrItem:
			if item.Single == nil {
				return false
			}
			return true
		case FlowFrameItem:
			return true
		}
	}
	return false
}

func (d *Distributor) keepWeakFrSpacing(fr layout.Fr, weakness uint8) bool {
	for i := len(d.items) - 1; i >= 0; i-- {
		switch item := d.items[i].(type) {
		case FrItem:
			if item.Weakness >= 1 && item.Single == nil {
				if weakness <= item.Weakness && (weakness < item.Weakness || fr > item.Amount) {
					d.items[i] = FrItem{Amount: fr, Weakness: weakness}
				}
				return false
			}
			return true
		case TagItem, AbsItem, PlacedItem:
			// peek beyond
		case FlowFrameItem:
			return true
		}
	}
	return false
}

func (d *Distributor) trimSpacing() {
	for i := len(d.items) - 1; i >= 0; i-- {
		switch item := d.items[i].(type) {
		case AbsItem:
			if item.Weakness >= 1 {
				d.regions.Size.Height += item.Amount
				d.items = append(d.items[:i], d.items[i+1:]...)
				return
			}
		case FrItem:
			if item.Weakness >= 1 && item.Single == nil {
				d.items = append(d.items[:i], d.items[i+1:]...)
				return
			}
		case TagItem, PlacedItem:
			// continue searching
		case FlowFrameItem:
			return
		}
	}
}

func (d *Distributor) weakSpacing() layout.Abs {
	for i := len(d.items) - 1; i >= 0; i-- {
		switch item := d.items[i].(type) {
		case AbsItem:
			if item.Weakness >= 1 {
				return item.Amount
			}
		case TagItem, PlacedItem:
			// continue searching
		case FlowFrameItem, FrItem:
			return 0
		}
	}
	return 0
}

func (d *Distributor) line(line *LineChild) Stop {
	if !d.regions.Size.Height.Fits(line.Frame.Height()) && d.regions.MayProgress() {
		return StopFinish{Forced: false}
	}

	if !d.regions.Size.Height.Fits(line.Need) {
		it := d.regions.Iter()
		it.Next()
		if next, ok := it.Next(); ok && next.Size.Height.Fits(line.Need) {
			return StopFinish{Forced: false}
		}
	}

	return d.frame(line.Frame, line.Align, false, false)
}

func (d *Distributor) single(single *SingleChild) Stop {
	pod := layout.Region{Size: d.regions.Base(), Expand: d.regions.Expand}
	frame, err := single.Layout(d.composer.Engine, pod)
	if err != nil {
		return StopError{Err: err}
	}

	if !d.regions.Size.Height.Fits(frame.Height()) && d.regions.MayProgress() {
		return StopFinish{Forced: false}
	}

	return d.frame(frame, single.Align, single.Sticky, false)
}

func (d *Distributor) multi(multi *MultiChild) Stop {
	if d.regions.IsFull() {
		return StopFinish{Forced: false}
	}

	frag, err := multi.Layout(d.composer.Engine, d.regions)
	if err != nil {
		return StopError{Err: err}
	}

	frame := frag.First()
	var spill *MultiSpill
	if frag.Len() > 1 {
		rest := append([]*layout.Frame(nil), frag.Frames()[1:]...)
		nonEmpty := false
		for _, f := range rest {
			if !f.IsEmpty() {
				nonEmpty = true
				break
			}
		}
		spill = &MultiSpill{Align: multi.Align, Frames: rest, ExistNonEmptyFrame: nonEmpty}
	}

	if frame.IsEmpty() && spill != nil && spill.ExistNonEmptyFrame && d.regions.MayProgress() {
		return StopFinish{Forced: false}
	}

	if stop := d.frame(frame, multi.Align, multi.Sticky, true); stop != nil {
		return stop
	}

	if spill != nil {
		d.composer.Work.Spill = spill
		d.composer.Work.Advance()
		return StopFinish{Forced: false}
	}

	return nil
}

func (d *Distributor) multiSpill(spill *MultiSpill) Stop {
	if d.regions.IsFull() {
		d.composer.Work.Spill = spill
		return StopFinish{Forced: false}
	}

	align := spill.Align
	frame, next := spill.Layout(d.regions)

	if stop := d.frame(frame, align, false, true); stop != nil {
		return stop
	}

	if next != nil {
		d.composer.Work.Spill = next
		return StopFinish{Forced: false}
	}

	return nil
}

func (d *Distributor) footnote(fc FootnoteChild) Stop {
	if err := d.composer.QueueFootnote(fc, d.regions); err != nil {
		return StopError{Err: err}
	}
	return nil
}

func (d *Distributor) frame(frame *layout.Frame, align layout.Axes[FixedAlignment], sticky, breakable bool) Stop {
	if sticky {
		if d.sticky == nil {
			mayProgress := d.regions.MayProgress()
			if d.stickable == nil {
				d.stickable = &mayProgress
			}
			if *d.stickable {
				snapshot := d.snapshot()
				d.sticky = &snapshot
			}
		}
	} else if !frame.IsEmpty() {
		d.sticky = nil
		d.stickable = nil
	}

	if err := d.composer.Footnotes(d.regions, frame, frame.Height(), breakable, true); err != nil {
		return StopError{Err: err}
	}

	d.regions.Size.Height -= frame.Height()
	d.flushTags()
	d.items = append(d.items, FlowFrameItem{Frame: frame, Align: align})
	return nil
}

func (d *Distributor) placed(placed *PlacedChild) Stop {
	if placed.Float {
		weak := d.weakSpacing()
		d.regions.Size.Height += weak

		hasFrames := false
		for _, item := range d.items {
			if _, ok := item.(FlowFrameItem); ok {
				hasFrames = true
				break
			}
		}

		stop, err := d.composer.Float(placed, d.regions, hasFrames)
		d.regions.Size.Height -= weak
		if err != nil {
			return StopError{Err: err}
		}
		return stop
	}

	frame, err := placed.Layout(d.composer.Engine, d.regions.Base())
	if err != nil {
		return StopError{Err: err}
	}
	if err := d.composer.Footnotes(d.regions, frame, 0, true, true); err != nil {
		return StopError{Err: err}
	}
	d.flushTags()
	d.items = append(d.items, PlacedItem{Frame: frame, Placed: placed})
	return nil
}

func (d *Distributor) flush() Stop {
	if len(d.composer.Work.Floats) > 0 {
		return StopFinish{Forced: false}
	}
	return nil
}

func (d *Distributor) break_(weak bool) Stop {
	if (!weak || len(d.items) > 0) && d.regions.MayProgress() {
		d.composer.Work.Advance()
		return StopFinish{Forced: true}
	}
	return nil
}

func (d *Distributor) finalize(region layout.Region, init distributionSnapshot, forced bool) (*layout.Frame, Stop) {
	if forced {
		d.flushTags()
	} else if len(d.items) > 0 && d.allMigratable() {
		d.restore(init)
	} else if d.sticky != nil {
		d.restore(*d.sticky)
	}

	d.trimSpacing()

	var frs layout.Fr
	var used layout.Size
	hasFrChild := false

	for _, item := range d.items {
		switch it := item.(type) {
		case AbsItem:
			used.Height += it.Amount
		case FrItem:
			frs += it.Amount
			hasFrChild = hasFrChild || it.Single != nil
		case FlowFrameItem:
			used.Height += it.Frame.Height()
			if it.Frame.Width() > used.Width {
				used.Width = it.Frame.Width()
			}
		case TagItem, PlacedItem:
			// no contribution
		}
	}

	var frSpace layout.Abs
	if frs > 0 && region.Size.Height > 0 {
		frSpace = region.Size.Height - used.Height
		used.Height = region.Size.Height
	}

	var frFrames []*layout.Frame
	if hasFrChild {
		for _, item := range d.items {
			frItem, ok := item.(FrItem)
			if !ok || frItem.Single == nil {
				continue
			}
			length := share(frItem.Amount, frs, frSpace)
			pod := layout.Region{Size: layout.Size{Width: region.Size.Width, Height: length}, Expand: region.Expand}
			frame, err := frItem.Single.Layout(d.composer.Engine, pod)
			if err != nil {
				return nil, StopError{Err: err}
			}
			if frame.Width() > used.Width {
				used.Width = frame.Width()
			}
			frFrames = append(frFrames, frame)
		}
	}

	if !region.Expand.X {
		if iw := d.composer.InsertionWidth(); iw > used.Width {
			used.Width = iw
		}
	}

	size := selectSize(region.Expand, region.Size, minSize(used, region.Size))
	free := size.Height - used.Height

	output := layout.NewFrame(size)
	ruler := FixedAlignStart
	var offset layout.Abs
	frFrameIdx := 0

	for _, item := range d.items {
		switch it := item.(type) {
		case TagItem:
			y := offset + ruler.Position(free)
			output.Push(layout.Point{X: 0, Y: y}, layout.TagItem{Tag: *it.Tag})

		case AbsItem:
			offset += it.Amount

		case FrItem:
			length := share(it.Amount, frs, frSpace)
			if it.Single != nil {
				frame := frFrames[frFrameIdx]
				frFrameIdx++
				x := it.Single.Align.X.Position(size.Width - frame.Width())
				output.PushFrame(layout.Point{X: x, Y: offset}, frame)
			}
			offset += length

		case FlowFrameItem:
			ruler = ruler.Max(it.Align.Y)
			x := it.Align.X.Position(size.Width - it.Frame.Width())
			y := offset + ruler.Position(free)
			offset += it.Frame.Height()
			output.PushFrame(layout.Point{X: x, Y: y}, it.Frame)

		case PlacedItem:
			x := it.Placed.AlignX.Position(size.Width - it.Frame.Width())
			var y layout.Abs
			if it.Placed.AlignY != nil {
				y = it.Placed.AlignY.Position(size.Height - it.Frame.Height())
			} else {
				y = offset + ruler.Position(free)
			}
			delta := RelAxesToPoint(it.Placed.Delta, size)
			output.PushFrame(layout.Point{X: x + delta.X, Y: y + delta.Y}, it.Frame)
		}
	}

	return output, nil
}

func (d *Distributor) snapshot() distributionSnapshot {
	return distributionSnapshot{work: d.composer.Work.Clone(), items: len(d.items)}
}

func (d *Distributor) restore(snapshot distributionSnapshot) {
	*d.composer.Work = *snapshot.work
	d.items = d.items[:snapshot.items]
}

func (d *Distributor) allMigratable() bool {
	for _, item := range d.items {
		if !item.Migratable() {
			return false
		}
	}
	return true
}

func share(fr, total layout.Fr, space layout.Abs) layout.Abs {
	if total <= 0 {
		return 0
	}
	return layout.Abs(float64(fr) / float64(total) * float64(space))
}

func selectSize(expand layout.Axes[bool], full, used layout.Size) layout.Size {
	result := used
	if expand.X {
		result.Width = full.Width
	}
	if expand.Y {
		result.Height = full.Height
	}
	return result
}

func minSize(a, b layout.Size) layout.Size {
	result := a
	if b.Width < result.Width {
		result.Width = b.Width
	}
	if b.Height < result.Height {
		result.Height = b.Height
	}
	return result
}
