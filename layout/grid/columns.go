package grid

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
	"github.com/glyphworks/typeset/layout/inline"
	"github.com/glyphworks/typeset/memo"
)

type trackKind uint8

const (
	trackAuto trackKind = iota
	trackRelative
	trackFractional
)

func classify(t content.GridTrackSizing) trackKind {
	switch {
	case t.Fr != nil:
		return trackFractional
	case t.Auto:
		return trackAuto
	default:
		return trackRelative
	}
}

// resolveRelative turns a Length-or-Ratio track into an absolute width
// against base.
func resolveRelative(t content.GridTrackSizing, base layout.Abs, fontSize layout.Abs) layout.Abs {
	var w layout.Abs
	if t.Length != nil {
		w += layout.Abs(t.Length.Resolve(float64(fontSize)))
	}
	if t.Ratio != nil {
		w += layout.Abs(t.Ratio.Of(float64(base)))
	}
	return w
}

// measureCellWidth lays a cell's body out against an unconstrained
// region, the natural width an auto column's content asks for.
//
// resolveColumns calls this once per auto-column cell, and the same
// (cell, unconstrained-region) pair recurs across incremental
// recompilation passes even though its inputs never change, so the
// result is memoized in the engine's shared memo.Cache instead of
// re-shaping on every call.
func measureCellWidth(cell resolvedCell, chain *content.StyleChain, eng *engine.Engine) layout.Abs {
	key := memo.Key{
		Input:  content.Fingerprint(cell.Body),
		Region: content.FingerprintRegion(float64(layout.Inf), float64(layout.Inf), false, false),
	}
	return memo.Memoize(eng.Memo, key, eng.Route.Depth(), func() layout.Abs {
		par := &content.ParagraphElement{Body: cell.Body}
		frame := inline.LayoutStacked(par, chain, eng.Fonts, layout.Size{Width: layout.Inf, Height: layout.Inf}, false)
		return frame.Width()
	})
}

// resolveColumns runs the three-pass column-width algorithm against
// base (the region's width), returning one width per content column:
// relative columns first, then auto columns measured from their
// content, then fractional columns sharing what's left (or, if fixed
// and auto columns already overflow base, a fair shrink of the auto
// columns instead).
func resolveColumns(g *Grid, chain *content.StyleChain, eng *engine.Engine, base layout.Abs, gutter layout.Abs, fontSize layout.Abs) []layout.Abs {
	n := g.colCount
	widths := make([]layout.Abs, n)
	kinds := make([]trackKind, n)

	var totalRelative layout.Abs
	var frShares content.Fraction

	for i := 0; i < n; i++ {
		t := trackAt(g.elem.Columns, i)
		kinds[i] = classify(t)
		switch kinds[i] {
		case trackRelative:
			widths[i] = resolveRelative(t, base, fontSize)
			totalRelative += widths[i]
		case trackFractional:
			frShares = frShares.Add(*t.Fr)
		}
	}

	totalGutter := layout.Abs(0)
	if n > 1 {
		totalGutter = gutter * layout.Abs(n-1)
	}

	// Step 3: measure auto columns from their colspan-1 cells' natural
	// width.
	var totalAuto layout.Abs
	for i := 0; i < n; i++ {
		if kinds[i] != trackAuto {
			continue
		}
		var max layout.Abs
		for _, c := range g.cells {
			if c.x != i || c.colSpan != 1 {
				continue
			}
			if w := measureCellWidth(c, chain, eng); w > max {
				max = w
			}
		}
		widths[i] = max
		totalAuto += max
	}

	available := (base - totalGutter).Max(0)
	fixed := totalRelative + totalAuto

	if totalFr := frShares.Value; totalFr > 0 && fixed <= available {
		leftover := (available - fixed).Max(0)
		for i := 0; i < n; i++ {
			if kinds[i] != trackFractional {
				continue
			}
			t := trackAt(g.elem.Columns, i)
			widths[i] = layout.Abs(t.Fr.Share(frShares, float64(leftover)))
		}
		return widths
	}

	if fixed > available && totalAuto > 0 {
		// Shrink auto columns fairly: each column exceeding its fair
		// share (available space split evenly among auto columns)
		// absorbs the deficit in proportion to how far over share it is.
		deficit := fixed - available
		autoCount := layout.Abs(0)
		for _, k := range kinds {
			if k == trackAuto {
				autoCount++
			}
		}
		if autoCount > 0 {
			fairShare := (available - totalRelative).Max(0) / autoCount
			var excess layout.Abs
			for i := 0; i < n; i++ {
				if kinds[i] == trackAuto && widths[i] > fairShare {
					excess += widths[i] - fairShare
				}
			}
			if excess > 0 {
				for i := 0; i < n; i++ {
					if kinds[i] == trackAuto && widths[i] > fairShare {
						over := widths[i] - fairShare
						widths[i] -= deficit * (over / excess)
					}
				}
			}
		}
	}

	return widths
}
