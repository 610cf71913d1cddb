package grid

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/layout"
)

// cellEdges is one cell's four resolved border strokes, nil meaning "no
// line on this edge".
type cellEdges struct {
	Top, Bottom, Left, Right *content.Stroke
}

// resolveEdge applies an EdgeStroke override over a fallback: an explicit
// override always wins (including an explicit nil, i.e. "none"); an
// unset override defers to fallback.
func resolveEdge(override content.EdgeStroke, fallback *content.Stroke) *content.Stroke {
	if override.Explicit {
		return override.Value
	}
	return fallback
}

// hlineOver returns the stroke of an explicit horizontal line declared at
// row y that fully covers the column span [x0, x1), if any. A line whose
// End is negative covers through the last column.
func hlineOver(lines []content.GridHLine, y, x0, x1 int) (content.EdgeStroke, bool) {
	for _, h := range lines {
		if h.Y != y {
			continue
		}
		if h.Start <= x0 && (h.End < 0 || x1 <= h.End) {
			return h.Stroke, true
		}
	}
	return content.EdgeStroke{}, false
}

// vlineOver is hlineOver's column analogue: an explicit vertical line at
// column x covering the row span [y0, y1).
func vlineOver(lines []content.GridVLine, x, y0, y1 int) (content.EdgeStroke, bool) {
	for _, v := range lines {
		if v.X != x {
			continue
		}
		if v.Start <= y0 && (v.End < 0 || y1 <= v.End) {
			return v.Stroke, true
		}
	}
	return content.EdgeStroke{}, false
}

// cellBorders folds a cell's four edge strokes from, in increasing
// precedence: the grid's single default stroke, the cell's own
// CellStroke overrides, and finally any explicit hline/vline declared
// over that edge's exact span.
func (l *Layouter) cellBorders(c resolvedCell) cellEdges {
	def := l.g.elem.Stroke
	edges := cellEdges{
		Top:    resolveEdge(c.Stroke.Top, def),
		Bottom: resolveEdge(c.Stroke.Bottom, def),
		Left:   resolveEdge(c.Stroke.Left, def),
		Right:  resolveEdge(c.Stroke.Right, def),
	}

	x0, x1 := c.x, c.endX()
	if s, ok := hlineOver(l.g.elem.HLines, c.y, x0, x1); ok {
		edges.Top = resolveEdge(s, edges.Top)
	}
	if s, ok := hlineOver(l.g.elem.HLines, c.y+1, x0, x1); ok {
		edges.Bottom = resolveEdge(s, edges.Bottom)
	}
	if s, ok := vlineOver(l.g.elem.VLines, c.x, c.y, c.y+1); ok {
		edges.Left = resolveEdge(s, edges.Left)
	}
	if s, ok := vlineOver(l.g.elem.VLines, c.endX(), c.y, c.y+1); ok {
		edges.Right = resolveEdge(s, edges.Right)
	}
	return edges
}

// paintCellBorders draws whichever of a cell's four resolved edges carry
// a non-nil stroke into frame, which is sized to exactly that cell's box
// (width w, height h) with its origin at the cell's top-left corner.
func paintCellBorders(frame *layout.Frame, edges cellEdges, w, h layout.Abs) {
	if edges.Top != nil {
		frame.Push(layout.Point{}, layout.ShapeItem{
			Shape:  layout.LineShape{Start: layout.Point{X: 0, Y: 0}, End: layout.Point{X: w, Y: 0}},
			Stroke: edges.Top,
		})
	}
	if edges.Bottom != nil {
		frame.Push(layout.Point{}, layout.ShapeItem{
			Shape:  layout.LineShape{Start: layout.Point{X: 0, Y: h}, End: layout.Point{X: w, Y: h}},
			Stroke: edges.Bottom,
		})
	}
	if edges.Left != nil {
		frame.Push(layout.Point{}, layout.ShapeItem{
			Shape:  layout.LineShape{Start: layout.Point{X: 0, Y: 0}, End: layout.Point{X: 0, Y: h}},
			Stroke: edges.Left,
		})
	}
	if edges.Right != nil {
		frame.Push(layout.Point{}, layout.ShapeItem{
			Shape:  layout.LineShape{Start: layout.Point{X: w, Y: 0}, End: layout.Point{X: w, Y: h}},
			Stroke: edges.Right,
		})
	}
}
