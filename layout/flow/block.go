package flow

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
	"github.com/glyphworks/typeset/layout/inline"
)

// LayoutSingleBlock lays out a non-breakable block(): resolve its inset
// against the region, build a pod sized to width/height (or the full
// region when auto), lay out the body inside it, then grow/clip/paint
// the result. A realized BlockElement's sizing is Smart[Relative] only —
// no fractional-height case — so there is no 1fr branch to handle here.
func LayoutSingleBlock(elem *content.BlockElement, chain *content.StyleChain, eng *engine.Engine, region layout.Region) (*layout.Frame, error) {
	fontSize := resolveFontSize(chain)
	inset := resolveSidesAbs(elem.Inset, region.Size, fontSize)
	pod := unbreakablePod(elem.Width, elem.Height, inset, region.Size, fontSize)

	var frame *layout.Frame
	if len(elem.Body.Elements) == 0 {
		frame = layout.NewFrame(layout.Size{})
	} else {
		var err error
		frame, err = layoutBlockBody(elem.Body, chain, eng, pod)
		if err != nil {
			return nil, err
		}
	}

	frame.SetKind(layout.FrameKindHard)
	enforceSize(frame, elem.Width, elem.Height, pod)

	if !isZeroInset(inset) {
		frame = grow(frame, inset)
	}
	if elem.Clip {
		frame = clipRect(frame, elem.Radius, region.Size, fontSize)
	}
	if elem.Fill != nil || elem.Stroke != nil {
		frame = fillAndStroke(frame, elem.Fill, elem.Stroke, elem.Outset, elem.Radius, region.Size, fontSize)
	}

	return frame, nil
}

// LayoutMultiBlock lays out a breakable block(): same sizing/inset
// resolution as LayoutSingleBlock, but against a Regions sequence so the
// body can spill across pages/columns, re-applying growth/clip/paint to
// every resulting frame.
func LayoutMultiBlock(elem *content.BlockElement, chain *content.StyleChain, eng *engine.Engine, regions *layout.Regions) (*layout.Fragment, error) {
	fontSize := resolveFontSize(chain)
	inset := resolveSidesAbs(elem.Inset, regions.Size, fontSize)
	pod := breakablePod(elem.Width, elem.Height, inset, regions, fontSize)

	frag, err := layoutBlockBodyMulti(elem.Body, chain, eng, pod)
	if err != nil {
		return nil, err
	}

	for i, frame := range frag.Frames() {
		frame.SetKind(layout.FrameKindHard)
		enforceSize(frame, elem.Width, elem.Height, pod.First())

		if !isZeroInset(inset) {
			frame = grow(frame, inset)
		}
		if elem.Clip {
			frame = clipRect(frame, elem.Radius, regions.Size, fontSize)
		}
		skipPaint := i == 0 && frame.IsEmpty() && frag.Len() > 1
		if !skipPaint && (elem.Fill != nil || elem.Stroke != nil) {
			frame = fillAndStroke(frame, elem.Fill, elem.Stroke, elem.Outset, elem.Radius, regions.Size, fontSize)
		}
		frag.Frames()[i] = frame
	}

	return frag, nil
}

func layoutBlockBody(body content.Content, chain *content.StyleChain, eng *engine.Engine, pod layout.Region) (*layout.Frame, error) {
	par := &content.ParagraphElement{Body: body}
	return inline.LayoutStacked(par, chain, eng.Fonts, pod.Size, pod.Expand.X), nil
}

func layoutBlockBodyMulti(body content.Content, chain *content.StyleChain, eng *engine.Engine, pod *layout.Regions) (*layout.Fragment, error) {
	par := &content.ParagraphElement{Body: body}
	return inline.LayoutInRegions(par, chain, eng.Fonts, pod), nil
}

// unbreakablePod resolves a block's width/height into a concrete region:
// Auto inherits the available size and doesn't expand, an explicit
// Relative resolves against it and does.
func unbreakablePod(width, height content.Smart[content.Relative], inset layout.Sides[layout.Abs], base layout.Size, fontSize layout.Abs) layout.Region {
	podWidth := base.Width
	expandX := false
	if !width.IsAuto {
		podWidth = layout.Abs(width.Value.Resolve(float64(base.Width), float64(fontSize)))
		expandX = true
	}
	podHeight := base.Height
	expandY := false
	if !height.IsAuto {
		podHeight = layout.Abs(height.Value.Resolve(float64(base.Height), float64(fontSize)))
		expandY = true
	}

	podWidth = (podWidth - layout.SumHorizontal(inset)).Max(0)
	podHeight = (podHeight - layout.SumVertical(inset)).Max(0)

	return layout.Region{
		Size:   layout.Size{Width: podWidth, Height: podHeight},
		Expand: layout.Axes[bool]{X: expandX && podWidth.IsFinite(), Y: expandY && podHeight.IsFinite()},
	}
}

// breakablePod is unbreakablePod's Regions-producing counterpart: an
// explicit height is distributed across the region backlog the way a
// fixed-height breakable block carves out exactly that much room from
// each page it spans.
func breakablePod(width, height content.Smart[content.Relative], inset layout.Sides[layout.Abs], regions *layout.Regions, fontSize layout.Abs) *layout.Regions {
	var pod *layout.Regions
	if height.IsAuto {
		pod = regions.Clone()
	} else {
		resolved := layout.Abs(height.Value.Resolve(float64(regions.Full), float64(fontSize)))
		first, backlog := distributeHeight(resolved, regions)
		pod = &layout.Regions{
			Size:    layout.Size{Width: regions.Size.Width, Height: first},
			Full:    first,
			Backlog: backlog,
			Expand:  regions.Expand,
		}
	}

	if !width.IsAuto {
		pod.Size.Width = layout.Abs(width.Value.Resolve(float64(regions.Size.Width), float64(fontSize)))
	}

	pod = pod.Shrink(inset)
	pod.Expand = layout.Axes[bool]{
		X: !width.IsAuto && pod.Size.Width.IsFinite(),
		Y: !height.IsAuto && pod.Size.Height.IsFinite(),
	}
	return pod
}

// distributeHeight carves a fixed total height out of regions' backlog,
// one region at a time, so a breakable block sized to an explicit height
// spans exactly that much space regardless of how it's split across
// pages.
func distributeHeight(height layout.Abs, regions *layout.Regions) (layout.Abs, []layout.Abs) {
	if height <= 0 {
		return 0, nil
	}

	var buf []layout.Abs
	remaining := height
	current := regions.Clone()

	for {
		used := remaining.Min(current.Size.Height)
		buf = append(buf, used)
		remaining -= used

		if remaining.ApproxEq(0) || !current.CanBreak() {
			break
		}
		if !current.Next() {
			break
		}
	}

	if remaining > 0 && len(buf) > 0 {
		buf[len(buf)-1] += remaining
	}
	if len(buf) == 0 {
		return 0, nil
	}
	return buf[0], buf[1:]
}

func resolveSidesAbs(s content.Sides[content.Relative], base layout.Size, fontSize layout.Abs) layout.Sides[layout.Abs] {
	return layout.Sides[layout.Abs]{
		Left:   layout.Abs(s.Left.Resolve(float64(base.Width), float64(fontSize))),
		Top:    layout.Abs(s.Top.Resolve(float64(base.Height), float64(fontSize))),
		Right:  layout.Abs(s.Right.Resolve(float64(base.Width), float64(fontSize))),
		Bottom: layout.Abs(s.Bottom.Resolve(float64(base.Height), float64(fontSize))),
	}
}

func isZeroInset(inset layout.Sides[layout.Abs]) bool {
	return inset.Left.IsZero() && inset.Top.IsZero() && inset.Right.IsZero() && inset.Bottom.IsZero()
}

func enforceSize(frame *layout.Frame, width, height content.Smart[content.Relative], pod layout.Region) {
	size := frame.Size()
	if pod.Expand.X && !width.IsAuto {
		size.Width = pod.Size.Width
	}
	if pod.Expand.Y && !height.IsAuto {
		size.Height = pod.Size.Height
	}
	frame.SetSize(size)
}

// grow wraps frame in a larger one offset by inset, the padding a
// block's inset property adds around its body without the body itself
// knowing about it.
func grow(frame *layout.Frame, inset layout.Sides[layout.Abs]) *layout.Frame {
	size := layout.Size{
		Width:  frame.Width() + layout.SumHorizontal(inset),
		Height: frame.Height() + layout.SumVertical(inset),
	}
	out := layout.NewFrame(size)
	out.SetKind(frame.Kind())
	out.PushFrame(layout.Point{X: inset.Left, Y: inset.Top}, frame)
	return out
}

func clipRect(frame *layout.Frame, radius content.Relative, base layout.Size, fontSize layout.Abs) *layout.Frame {
	r := layout.Abs(radius.Resolve(float64(base.Width.Min(base.Height)), float64(fontSize)))
	out := layout.NewFrame(frame.Size())
	out.SetKind(frame.Kind())
	out.Push(layout.Point{}, layout.GroupItem{
		Frame: frame,
		Clips: []layout.Shape{layout.RectShape{Size: frame.Size(), Radius: layout.CornersSplat(r)}},
	})
	return out
}

func fillAndStroke(frame *layout.Frame, fill content.Paint, stroke *content.Stroke, outset content.Sides[content.Relative], radius content.Relative, base layout.Size, fontSize layout.Abs) *layout.Frame {
	resolvedOutset := resolveSidesAbs(outset, base, fontSize)
	shapeSize := layout.Size{
		Width:  frame.Width() + layout.SumHorizontal(resolvedOutset),
		Height: frame.Height() + layout.SumVertical(resolvedOutset),
	}
	shapeOffset := layout.Point{X: -resolvedOutset.Left, Y: -resolvedOutset.Top}
	r := layout.Abs(radius.Resolve(float64(base.Width.Min(base.Height)), float64(fontSize)))

	out := layout.NewFrame(frame.Size())
	out.SetKind(frame.Kind())
	out.Push(shapeOffset, layout.ShapeItem{
		Shape:  layout.RectShape{Size: shapeSize, Radius: layout.CornersSplat(r)},
		Fill:   fill,
		Stroke: stroke,
	})
	out.PushFrame(layout.Point{}, frame)
	return out
}

// layoutHorizontalStack lays out a stack(dir: ltr/rtl) as a single
// unbreakable frame: each child is laid out against the remaining
// width in turn and placed side by side, the spacing between them
// folded in as plain horizontal gaps. A non-ttb/btt stack has no
// natural break point, unlike a vertical stack.
func layoutHorizontalStack(children []content.Content, chain *content.StyleChain, eng *engine.Engine, region layout.Region) (*layout.Frame, error) {
	out := layout.NewFrame(region.Size)
	var x layout.Abs
	var maxHeight layout.Abs
	for _, child := range children {
		par := &content.ParagraphElement{Body: child}
		remaining := layout.Size{Width: (region.Size.Width - x).Max(0), Height: region.Size.Height}
		frame := inline.LayoutStacked(par, chain, eng.Fonts, remaining, false)
		out.PushFrame(layout.Point{X: x, Y: 0}, frame)
		x += frame.Width()
		if frame.Height() > maxHeight {
			maxHeight = frame.Height()
		}
	}
	if !region.Expand.X {
		out.SetSize(layout.Size{Width: x, Height: maxHeight})
	}
	return out, nil
}
