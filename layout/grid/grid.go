// Package grid lays out grid() and table() content: it resolves column
// and row tracks (auto/relative/fractional), places cells into the
// resulting addressed space, distributes rows across regions with
// repeating headers and footers, and folds each cell's border strokes
// against the grid's default and any explicit hline/vline declarations.
package grid

import (
	"fmt"

	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
	"github.com/glyphworks/typeset/layout/inline"
)

// resolvedCell is one content.GridCell after automatic (x, y) placement.
// Per-cell inset and breakable overrides aren't modeled in this tree's
// content.GridCell, and buildGrid never reads GridCell.RowSpan: every
// cell occupies exactly one row. Only position, column span, fill and
// stroke carry through.
type resolvedCell struct {
	content.GridCell
	x, y    int
	colSpan int
}

func (c resolvedCell) endX() int { return c.x + c.colSpan }

// Grid is the normalized form of a content.GridElement: every cell has a
// concrete (x, y) and the column/row counts are fixed.
type Grid struct {
	elem     *content.GridElement
	cells    []resolvedCell
	colCount int
	rowCount int
}

// trackAt returns the track sizing that governs index i along an axis
// whose explicit tracks are tracks: declared tracks apply positionally,
// an undeclared trailing index repeats the last declared track, and a
// wholly undeclared axis is Auto throughout. This matters since
// content.GridElement allows Rows to be shorter than the cells actually
// use.
func trackAt(tracks []content.GridTrackSizing, i int) content.GridTrackSizing {
	if len(tracks) == 0 {
		return content.GridTrackSizing{Auto: true}
	}
	if i < len(tracks) {
		return tracks[i]
	}
	return tracks[len(tracks)-1]
}

// buildGrid places elem's cells into concrete grid coordinates, resolving
// automatic (x, y) in reading order and skipping positions already taken
// by a manually-placed cell; a conflict between a manually-placed cell
// and one already occupying that slot is fatal.
func buildGrid(elem *content.GridElement) (*Grid, error) {
	colCount := len(elem.Columns)
	if colCount == 0 {
		colCount = 1
		for _, c := range elem.Cells {
			if c.X >= 0 && c.X+maxInt(c.ColSpan, 1) > colCount {
				colCount = c.X + maxInt(c.ColSpan, 1)
			}
		}
	}

	occupied := make(map[[2]int]bool)
	cells := make([]resolvedCell, 0, len(elem.Cells))

	cursorX, cursorY := 0, 0
	rowCount := 0

	for i, c := range elem.Cells {
		span := maxInt(c.ColSpan, 1)
		if span > colCount {
			span = colCount
		}
		autoX, autoY := c.X < 0, c.Y < 0
		x, y := c.X, c.Y
		if autoX {
			x = cursorX
		}
		if autoY {
			y = cursorY
		}

		if autoX || autoY {
			for {
				if x+span > colCount {
					if !autoY {
						return nil, fmt.Errorf("grid: cell %d at row %d has no room for a span of %d columns", i, y, span)
					}
					x, y = 0, y+1
					continue
				}
				if !anyOccupied(occupied, x, y, span) {
					break
				}
				if !autoX {
					return nil, fmt.Errorf("grid: cell %d conflicts with an already-placed cell at (%d, %d)", i, x, y)
				}
				x++
				if x+span > colCount {
					if !autoY {
						return nil, fmt.Errorf("grid: cell %d at row %d has no room for a span of %d columns", i, y, span)
					}
					x, y = 0, y+1
				}
			}
		} else if anyOccupied(occupied, x, y, span) {
			return nil, fmt.Errorf("grid: cell %d conflicts with an already-placed cell at (%d, %d)", i, x, y)
		}

		for dx := 0; dx < span; dx++ {
			occupied[[2]int{x + dx, y}] = true
		}

		cells = append(cells, resolvedCell{GridCell: c, x: x, y: y, colSpan: span})

		// Only an auto-placed cell advances the reading-order cursor; an
		// explicitly-positioned cell occupies its slot without affecting
		// where the next automatic cell starts looking.
		if autoX || autoY {
			cursorX, cursorY = x+span, y
			if cursorX >= colCount {
				cursorX = 0
				cursorY = y + 1
			}
		}
		if y+1 > rowCount {
			rowCount = y + 1
		}
	}

	return &Grid{elem: elem, cells: cells, colCount: colCount, rowCount: rowCount}, nil
}

func anyOccupied(occupied map[[2]int]bool, x, y, span int) bool {
	for dx := 0; dx < span; dx++ {
		if occupied[[2]int{x + dx, y}] {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// cellsInRow returns every cell whose row is y, in column order.
func (g *Grid) cellsInRow(y int) []resolvedCell {
	var out []resolvedCell
	for _, c := range g.cells {
		if c.y == y {
			out = append(out, c)
		}
	}
	return out
}

// rowIsHeader/rowIsFooter report whether every cell touching row y was
// authored with grid.cell(.., header: true)/(.., footer: true); a row
// with no cells (a fully auto-positioned gap) is neither.
func (g *Grid) rowIsHeader(y int) bool { return g.rowFlag(y, func(c resolvedCell) bool { return c.IsHeader }) }
func (g *Grid) rowIsFooter(y int) bool { return g.rowFlag(y, func(c resolvedCell) bool { return c.IsFooter }) }

// rowHeaderLevel is the nesting level in effect on header row y: the
// highest Level any of its cells declares, an unset level reading as 1
// (outermost).
func (g *Grid) rowHeaderLevel(y int) int {
	level := 1
	for _, c := range g.cellsInRow(y) {
		if c.IsHeader && c.Level > level {
			level = c.Level
		}
	}
	return level
}

func (g *Grid) rowFlag(y int, pred func(resolvedCell) bool) bool {
	row := g.cellsInRow(y)
	if len(row) == 0 {
		return false
	}
	for _, c := range row {
		if !pred(c) {
			return false
		}
	}
	return true
}

func resolveFontSize(chain *content.StyleChain) layout.Abs {
	size := content.GetOr(chain, content.KeyTextSize, content.Pt(float64(inline.DefaultFontSize)))
	return layout.Abs(size.Resolve(0))
}

// LayoutGrid lays out a grid/table element across regions, returning one
// frame per region it spills into.
func LayoutGrid(elem *content.GridElement, chain *content.StyleChain, eng *engine.Engine, regions *layout.Regions) (*layout.Fragment, error) {
	g, err := buildGrid(elem)
	if err != nil {
		return nil, err
	}
	l := newLayouter(g, chain, eng, regions)
	return l.layout()
}

// LayoutTable lays out a table() element, which is a grid() with a
// default hairline stroke applied whenever the author didn't specify
// one.
func LayoutTable(elem *content.GridElement, chain *content.StyleChain, eng *engine.Engine, regions *layout.Regions) (*layout.Fragment, error) {
	if elem.IsTable && elem.Stroke == nil {
		cp := *elem
		cp.Stroke = &content.Stroke{Paint: content.RGB(0, 0, 0), Thickness: content.Pt(1)}
		elem = &cp
	}
	return LayoutGrid(elem, chain, eng, regions)
}
