package grid

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
	"github.com/glyphworks/typeset/layout/inline"
)

// cellFrame pairs a placed cell with its laid-out body frame.
type cellFrame struct {
	cell  resolvedCell
	frame *layout.Frame
}

// rowPlan is one row's resolved height plus its cells' already-shaped
// frames, ready to be stamped into a row-sized frame at a known y
// offset.
type rowPlan struct {
	height layout.Abs
	cells  []cellFrame
}

// Layouter drives grid/table layout across a region sequence: it
// resolves column widths once up front, then walks rows top to bottom,
// spilling into a new region (re-emitting repeating/pending headers and
// the footer) whenever a row doesn't fit. Rowspan isn't supported, which
// keeps row distribution a simple top-to-bottom walk with no lookahead
// for cells that would straddle a region break.
type Layouter struct {
	g         *Grid
	chain     *content.StyleChain
	eng       *engine.Engine
	regions   *layout.Regions
	fontSize  layout.Abs
	colWidths []layout.Abs
	gutterX   layout.Abs
	gutterY   layout.Abs
	rowFrTotal content.Fraction

	headerGroups []headerGroup
	footer       *headerGroup
	footerPlan   []rowPlan
	footerHeight layout.Abs

	header headerState
	align  layout.Axes[FixedAlignment]
}

// FixedAlignment mirrors layout/flow's alignment enum; grid has no
// import path back to flow (flow imports grid, not the reverse), so this
// tiny three-value type is duplicated here rather than shared.
type FixedAlignment uint8

const (
	AlignStart FixedAlignment = iota
	AlignCenter
	AlignEnd
)

func (a FixedAlignment) offset(free layout.Abs) layout.Abs {
	switch a {
	case AlignCenter:
		return free / 2
	case AlignEnd:
		return free
	default:
		return 0
	}
}

func newLayouter(g *Grid, chain *content.StyleChain, eng *engine.Engine, regions *layout.Regions) *Layouter {
	fontSize := resolveFontSize(chain)
	gutterX := layout.Abs(g.elem.ColumnGutter.Resolve(float64(fontSize)))
	gutterY := layout.Abs(g.elem.RowGutter.Resolve(float64(fontSize)))

	l := &Layouter{
		g:        g,
		chain:    chain,
		eng:      eng,
		regions:  regions.Clone(),
		fontSize: fontSize,
		gutterX:  gutterX,
		gutterY:  gutterY,
		align: layout.Axes[FixedAlignment]{
			X: resolveHAlign(g.elem.Align.Horizontal),
			Y: resolveVAlign(g.elem.Align.Vertical),
		},
	}
	l.colWidths = resolveColumns(g, chain, eng, regions.Base().Width, gutterX, fontSize)

	for y := 0; y < g.rowCount; y++ {
		t := trackAt(g.elem.Rows, y)
		if t.Fr != nil {
			l.rowFrTotal = l.rowFrTotal.Add(*t.Fr)
		}
	}

	l.headerGroups = headerGroups(g, g.rowIsHeader, g.rowHeaderLevel)
	footers := headerGroups(g, g.rowIsFooter, func(int) int { return 1 })
	if len(footers) > 0 {
		f := footers[len(footers)-1]
		l.footer = &f
		l.footerPlan = make([]rowPlan, 0, f.rowCount())
		for y := f.start; y < f.end; y++ {
			plan := l.planRow(y, 0)
			l.footerPlan = append(l.footerPlan, plan)
			l.footerHeight += plan.height
		}
		if n := len(l.footerPlan); n > 1 {
			l.footerHeight += l.gutterY * layout.Abs(n-1)
		}
	}

	return l
}

func resolveHAlign(h content.HAlignment) FixedAlignment {
	switch h {
	case content.HAlignCenter:
		return AlignCenter
	case content.HAlignEnd, content.HAlignRight:
		return AlignEnd
	default:
		return AlignStart
	}
}

func resolveVAlign(v content.VAlignment) FixedAlignment {
	switch v {
	case content.VAlignHorizon:
		return AlignCenter
	case content.VAlignBottom:
		return AlignEnd
	default:
		return AlignStart
	}
}

func (l *Layouter) colX(i int) layout.Abs {
	var x layout.Abs
	for j := 0; j < i; j++ {
		x += l.colWidths[j] + l.gutterX
	}
	return x
}

func (l *Layouter) cellWidth(x, span int) layout.Abs {
	var w layout.Abs
	for i := 0; i < span; i++ {
		w += l.colWidths[x+i]
	}
	if span > 1 {
		w += l.gutterX * layout.Abs(span-1)
	}
	return w
}

func (l *Layouter) contentWidth() layout.Abs {
	var w layout.Abs
	for _, cw := range l.colWidths {
		w += cw
	}
	if n := len(l.colWidths); n > 1 {
		w += l.gutterX * layout.Abs(n-1)
	}
	return w
}

// planRow shapes every cell in row y against its column span's width,
// sizing the row by its track kind: Auto measures the tallest cell,
// Relative resolves against the region base, Fractional claims its share
// of avail (the space the caller has already determined is left over in
// the current region for fractional rows).
func (l *Layouter) planRow(y int, avail layout.Abs) rowPlan {
	cells := l.g.cellsInRow(y)
	frames := make([]cellFrame, 0, len(cells))
	var natural layout.Abs
	for _, c := range cells {
		w := l.cellWidth(c.x, c.colSpan)
		par := &content.ParagraphElement{Body: c.Body}
		frame := inline.LayoutStacked(par, l.chain, l.eng.Fonts, layout.Size{Width: w, Height: layout.Inf}, false)
		if frame.Height() > natural {
			natural = frame.Height()
		}
		frames = append(frames, cellFrame{cell: c, frame: frame})
	}

	track := trackAt(l.g.elem.Rows, y)
	height := natural
	switch classify(track) {
	case trackRelative:
		height = resolveRelative(track, l.regions.Base().Height, l.fontSize)
	case trackFractional:
		height = layout.Abs(track.Fr.Share(l.rowFrTotal, float64(avail)))
	}

	return rowPlan{height: height, cells: frames}
}

// renderRow stamps a planned row into a frame sized to this grid's
// content width and the row's resolved height: each cell's fill paints
// first as a plain rectangle, then its four border edges are folded
// (grid default, cell override, explicit hline/vline) and painted
// individually, then its content frame is placed on top.
func (l *Layouter) renderRow(plan rowPlan) *layout.Frame {
	out := layout.NewFrame(layout.Size{Width: l.contentWidth(), Height: plan.height})
	for _, cf := range plan.cells {
		x := l.colX(cf.cell.x)
		w := l.cellWidth(cf.cell.x, cf.cell.colSpan)
		fill := cf.cell.Fill
		if fill == nil {
			fill = l.g.elem.Fill
		}
		if fill != nil {
			out.Push(layout.Point{X: x, Y: 0}, layout.ShapeItem{
				Shape: layout.RectShape{Size: layout.Size{Width: w, Height: plan.height}},
				Fill:  fill,
			})
		}
		edges := l.cellBorders(cf.cell)
		cellFrame := layout.NewFrame(layout.Size{Width: w, Height: plan.height})
		paintCellBorders(cellFrame, edges, w, plan.height)
		out.PushFrame(layout.Point{X: x, Y: 0}, cellFrame)

		xOff := l.align.X.offset((w - cf.frame.Width()).Max(0))
		yOff := l.align.Y.offset((plan.height - cf.frame.Height()).Max(0))
		out.PushFrame(layout.Point{X: x + xOff, Y: yOff}, cf.frame)
	}
	return out
}

// stackRows composes plans top to bottom into one frame, the shape a
// region's header block, body rows, and footer block are each turned
// into before being concatenated.
func (l *Layouter) stackRows(plans []rowPlan) *layout.Frame {
	var total layout.Abs
	for i, p := range plans {
		total += p.height
		if i > 0 {
			total += l.gutterY
		}
	}
	out := layout.NewFrame(layout.Size{Width: l.contentWidth(), Height: total})
	var y layout.Abs
	for i, p := range plans {
		out.PushFrame(layout.Point{X: 0, Y: y}, l.renderRow(p))
		y += p.height
		if i < len(plans)-1 {
			y += l.gutterY
		}
	}
	return out
}
