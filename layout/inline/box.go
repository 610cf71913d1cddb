package inline

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/font"
	"github.com/glyphworks/typeset/layout"
)

// layoutInlineBox lays a paragraph's inline box() out into a frame sized
// by its own Width/Height/Inset, with its own fill/stroke painted around
// the body — the pieces of layout/flow/block.go's LayoutSingleBlock an
// inline box needs. layout/flow imports layout/inline (for line and cell
// shaping), so layout/inline importing layout/flow back would cycle; the
// handful of pure frame-geometry helpers below (resolveBoxSides/growBox/
// paintBox) are duplicated narrowly from block.go's resolveSidesAbs/grow/
// fillAndStroke rather than shared, and intentionally skip block.go's
// Clip/Radius/Outset handling — an inline box clips and rounds corners
// exactly like a block one conceptually, but adding that here without a
// shared helper to keep both in sync is a correctness risk for a feature
// boxes rarely combine with inline placement; flagged rather than
// half-ported.
func layoutInlineBox(e *content.BoxElement, chain *content.StyleChain, provider font.Provider, fontSize layout.Abs) *layout.Frame {
	base := layout.Size{Width: fontSize, Height: fontSize}
	inset := resolveBoxSides(e.Inset, base, fontSize)

	var frame *layout.Frame
	if e.Body.IsEmpty() {
		frame = layout.NewFrame(layout.Size{})
	} else {
		width := layout.Inf
		if !e.Width.IsAuto {
			width = (layout.Abs(e.Width.Value.Resolve(float64(base.Width), float64(fontSize))) - layout.SumHorizontal(inset)).Max(0)
		}
		par := &content.ParagraphElement{Body: e.Body}
		frame = LayoutStacked(par, chain, provider, layout.Size{Width: width, Height: layout.Inf}, false)
	}

	size := frame.Size()
	if !e.Width.IsAuto {
		size.Width = layout.Abs(e.Width.Value.Resolve(float64(base.Width), float64(fontSize)))
	}
	if !e.Height.IsAuto {
		size.Height = layout.Abs(e.Height.Value.Resolve(float64(base.Height), float64(fontSize)))
	}
	frame.SetSize(size)

	if !isZeroBoxInset(inset) {
		frame = growBox(frame, inset)
	}
	if e.Fill != nil || e.Stroke != nil {
		frame = paintBox(frame, e.Fill, e.Stroke)
	}
	frame.SetKind(layout.FrameKindHard)
	return frame
}

func resolveBoxSides(s content.Sides[content.Relative], base layout.Size, fontSize layout.Abs) layout.Sides[layout.Abs] {
	return layout.Sides[layout.Abs]{
		Left:   layout.Abs(s.Left.Resolve(float64(base.Width), float64(fontSize))),
		Top:    layout.Abs(s.Top.Resolve(float64(base.Height), float64(fontSize))),
		Right:  layout.Abs(s.Right.Resolve(float64(base.Width), float64(fontSize))),
		Bottom: layout.Abs(s.Bottom.Resolve(float64(base.Height), float64(fontSize))),
	}
}

func isZeroBoxInset(s layout.Sides[layout.Abs]) bool {
	return s.Left.IsZero() && s.Top.IsZero() && s.Right.IsZero() && s.Bottom.IsZero()
}

func growBox(frame *layout.Frame, inset layout.Sides[layout.Abs]) *layout.Frame {
	size := layout.Size{
		Width:  frame.Width() + layout.SumHorizontal(inset),
		Height: frame.Height() + layout.SumVertical(inset),
	}
	out := layout.NewFrame(size)
	out.PushFrame(layout.Point{X: inset.Left, Y: inset.Top}, frame)
	return out
}

func paintBox(frame *layout.Frame, fill content.Paint, stroke *content.Stroke) *layout.Frame {
	out := layout.NewFrame(frame.Size())
	out.Push(layout.Point{}, layout.ShapeItem{
		Shape:  layout.RectShape{Size: frame.Size()},
		Fill:   fill,
		Stroke: stroke,
	})
	out.PushFrame(layout.Point{}, frame)
	return out
}
