package inline

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/font"
	"github.com/glyphworks/typeset/layout"
)

// Layout produces one frame per line. Most callers don't want that
// granularity: a grid cell, a marginal, or an unbreakable block needs
// its paragraph as a single stacked frame, and the flow composer's
// breakable-block contract wants one frame per *region*. LayoutStacked
// and LayoutInRegions cover those two shapes on top of the same
// prepare/break/finalize pipeline.

// LayoutStacked lays out a paragraph as a single frame with its lines
// stacked vertically, separated by the paragraph's leading. The frame's
// baseline is the first line's.
func LayoutStacked(par *content.ParagraphElement, chain *content.StyleChain, provider font.Provider, region layout.Size, expand bool) *layout.Frame {
	prep := Prepare(par, chain, provider)
	lines := Linebreak(prep, region.Width)
	frag := Finalize(prep, lines, region, expand)
	return stackFrames(frag.Frames(), prep.Config.Leading)
}

// LayoutInRegions lays out a paragraph across a region sequence,
// returning one stacked frame per region spanned: as many lines as fit
// in each region, with widow/orphan avoidance at the break when moving a
// line would not leave the current region empty.
func LayoutInRegions(par *content.ParagraphElement, chain *content.StyleChain, provider font.Provider, regions *layout.Regions) *layout.Fragment {
	prep := Prepare(par, chain, provider)
	lines := Linebreak(prep, regions.Size.Width)
	frag := Finalize(prep, lines, regions.First().Size, regions.Expand.X)
	return distributeLines(frag.Frames(), prep.Config.Leading, regions)
}

// stackFrames merges line frames into one frame, top to bottom with
// leading between consecutive lines.
func stackFrames(lines []*layout.Frame, leading layout.Abs) *layout.Frame {
	var width, height layout.Abs
	for i, line := range lines {
		if line.Width() > width {
			width = line.Width()
		}
		height += line.Height()
		if i > 0 {
			height += leading
		}
	}

	out := layout.NewFrame(layout.Size{Width: width, Height: height})
	var y layout.Abs
	for i, line := range lines {
		if i > 0 {
			y += leading
		}
		if i == 0 {
			out.SetBaseline(y + line.Baseline())
		}
		out.PushFrame(layout.Point{X: 0, Y: y}, line)
		y += line.Height()
	}
	return out
}

// distributeLines packs line frames into region-sized stacks, one output
// frame per region consumed. A break that would orphan a single line on
// either side of the boundary is nudged when the neighboring region has
// lines to spare.
func distributeLines(lines []*layout.Frame, leading layout.Abs, regions *layout.Regions) *layout.Fragment {
	walk := regions.Clone()
	frag := layout.NewFragment()

	start := 0
	skipped := false
	for start < len(lines) {
		end := start
		for end < len(lines) {
			need := lines[end].Height()
			if end > start {
				need += leading
			}
			if !walk.Size.Height.Fits(need) && walk.MayProgress() {
				break
			}
			walk.Size.Height -= need
			end++
		}

		// Nothing fit at all: emit an empty frame for this region and try
		// the next (a fresh terminal region always accepts, so this can't
		// run away).
		if end == start {
			frag.Push(layout.NewFrame(layout.Size{Width: walk.Size.Width, Height: 0}))
			if !walk.Next() {
				frag.Push(stackFrames(lines[start:], leading))
				return frag
			}
			continue
		}

		// A lone last line on the next region reads as a widow; pull its
		// predecessor along when this region keeps at least two lines.
		if end == len(lines)-1 && end-start >= 2 && walk.MayProgress() {
			end--
		}
		// A lone first line left behind reads as an orphan; push it over
		// instead of splitting after it — but at most once per line, so
		// identically-sized repeating regions can't starve it forever.
		if end == start+1 && end < len(lines) && walk.MayProgress() && !frag.IsEmpty() && !skipped {
			frag.Push(layout.NewFrame(layout.Size{Width: walk.Size.Width, Height: 0}))
			if !walk.Next() {
				frag.Push(stackFrames(lines[start:], leading))
				return frag
			}
			skipped = true
			continue
		}
		skipped = false

		frag.Push(stackFrames(lines[start:end], leading))
		start = end
		if start < len(lines) && !walk.Next() {
			frag.Push(stackFrames(lines[start:], leading))
			break
		}
	}

	if frag.IsEmpty() {
		frag.Push(stackFrames(nil, leading))
	}
	return frag
}
