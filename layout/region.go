package layout

// Region describes the space a single layout call must fit its result
// into: a size plus, per axis, whether content that's smaller than the
// available space should still expand to fill it (a centered block
// still reports its natural width unless its axis is set to expand).
type Region struct {
	Size   Size
	Expand Axes[bool]
}

func NewRegion(size Size) Region { return Region{Size: size} }

func NewExpandedRegion(size Size) Region {
	return Region{Size: size, Expand: Axes[bool]{X: true, Y: true}}
}

func (r Region) Width() Abs  { return r.Size.Width }
func (r Region) Height() Abs { return r.Size.Height }

func (r Region) IsFinite() bool {
	return r.Size.Width.IsFinite() && r.Size.Height.IsFinite()
}

func (r Region) WithExpand(expand Axes[bool]) Region { return Region{Size: r.Size, Expand: expand} }
func (r Region) WithSize(size Size) Region           { return Region{Size: size, Expand: r.Expand} }

func (r Region) Shrink(inset Sides[Abs]) Region {
	return Region{
		Size: Size{
			Width:  (r.Size.Width - SumHorizontal(inset)).Max(0),
			Height: (r.Size.Height - SumVertical(inset)).Max(0),
		},
		Expand: r.Expand,
	}
}

// Regions is a lazy sequence of regions a breakable layout call may
// advance through: the current region's size, its Full height before
// anything was placed (needed to compute a fractional-unit share), a
// Backlog of explicitly-sized upcoming regions (e.g. the remaining
// columns on a page), and an optional Last region repeated indefinitely
// once the backlog is exhausted (a page template with no fixed page
// count).
type Regions struct {
	Size    Size
	Full    Abs
	Backlog []Abs
	Last    *Abs
	Expand  Axes[bool]
}

func NewRegions(size Size) *Regions {
	return &Regions{Size: size, Full: size.Height}
}

// NewRepeatingRegions builds a Regions whose every page repeats at
// height, the common case of a document with a fixed page size and no
// backlog of differently-sized pages.
func NewRepeatingRegions(size Size) *Regions {
	h := size.Height
	return &Regions{Size: size, Full: h, Last: &h}
}

func (r *Regions) Width() Abs  { return r.Size.Width }
func (r *Regions) Height() Abs { return r.Size.Height }

func (r *Regions) CanBreak() bool { return len(r.Backlog) > 0 || r.Last != nil }
func (r *Regions) InLast() bool   { return len(r.Backlog) == 0 && r.Last != nil }

func (r *Regions) First() Region { return Region{Size: r.Size, Expand: r.Expand} }

// Base is the size relative lengths (a footnote separator's width, a
// placed float's percentage offset) resolve against: the current
// region's width together with its undiminished Full height, rather
// than however much height insertions have already eaten into Size.
func (r *Regions) Base() Size { return Size{Width: r.Size.Width, Height: r.Full} }

// MayProgress reports whether moving to a followup region could improve
// fit for a child that doesn't fit here. A fresh terminal region (its
// height still undiminished) offers no improvement — every subsequent
// region is identical — so a too-tall child is placed overfull there
// instead of bouncing forever.
func (r *Regions) MayProgress() bool {
	return len(r.Backlog) > 0 || (r.Last != nil && r.Size.Height != *r.Last)
}

// IsFull reports whether the current region has no usable height left,
// the fast path that skips attempting to lay out a breakable child that
// cannot possibly produce anything in this region.
func (r *Regions) IsFull() bool { return r.Size.Height <= 0 }

func (r *Regions) Iter() *RegionsIter { return &RegionsIter{regions: r, index: -1} }

// Next advances to the next backlog region, or the repeatable last
// region once the backlog is empty, reporting whether one exists.
func (r *Regions) Next() bool {
	if len(r.Backlog) > 0 {
		r.Size.Height = r.Backlog[0]
		r.Full = r.Backlog[0]
		r.Backlog = r.Backlog[1:]
		return true
	}
	if r.Last != nil {
		r.Size.Height = *r.Last
		r.Full = *r.Last
		return true
	}
	return false
}

func (r *Regions) Clone() *Regions {
	clone := &Regions{Size: r.Size, Full: r.Full, Expand: r.Expand}
	if len(r.Backlog) > 0 {
		clone.Backlog = append([]Abs(nil), r.Backlog...)
	}
	if r.Last != nil {
		last := *r.Last
		clone.Last = &last
	}
	return clone
}

func (r *Regions) WithSize(size Size) *Regions {
	clone := r.Clone()
	clone.Size = size
	return clone
}

func (r *Regions) WithExpand(expand Axes[bool]) *Regions {
	clone := r.Clone()
	clone.Expand = expand
	return clone
}

// Shrink reduces the current region, the full height, every backlog
// entry, and the repeatable last region by inset — used by a padded or
// bordered breakable container, where the inset applies uniformly to
// every page the container's content may flow across.
func (r *Regions) Shrink(inset Sides[Abs]) *Regions {
	clone := &Regions{
		Size: Size{
			Width:  (r.Size.Width - SumHorizontal(inset)).Max(0),
			Height: (r.Size.Height - SumVertical(inset)).Max(0),
		},
		Full:   (r.Full - SumVertical(inset)).Max(0),
		Expand: r.Expand,
	}
	if len(r.Backlog) > 0 {
		clone.Backlog = make([]Abs, len(r.Backlog))
		for i, h := range r.Backlog {
			clone.Backlog[i] = (h - SumVertical(inset)).Max(0)
		}
	}
	if r.Last != nil {
		last := (*r.Last - SumVertical(inset)).Max(0)
		clone.Last = &last
	}
	return clone
}

// RegionsIter walks First then every Backlog entry then, if present, the
// repeatable Last region forever — callers that need a bounded walk stop
// after Backlog is exhausted and Last is nil.
type RegionsIter struct {
	regions *Regions
	index   int
}

func (it *RegionsIter) Next() (*Region, bool) {
	it.index++
	if it.index == 0 {
		r := Region{Size: it.regions.Size, Expand: it.regions.Expand}
		return &r, true
	}
	backlogIdx := it.index - 1
	if backlogIdx < len(it.regions.Backlog) {
		r := Region{
			Size:   Size{Width: it.regions.Size.Width, Height: it.regions.Backlog[backlogIdx]},
			Expand: it.regions.Expand,
		}
		return &r, true
	}
	if it.regions.Last != nil {
		r := Region{
			Size:   Size{Width: it.regions.Size.Width, Height: *it.regions.Last},
			Expand: it.regions.Expand,
		}
		return &r, true
	}
	return nil, false
}
