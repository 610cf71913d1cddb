package pages

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
)

// Finalize assembles layouted's inner content and marginals into one
// page-sized frame, swapping the left/right margins for a two-sided
// document's inside/outside pages, laying out the header/footer now
// that the physical page number (and hence any running numbering text)
// is known, and advancing counter past whatever page-counter tags the
// finished frame carries.
//
// This can only happen once pages are walked in physical order, which
// is also why header/footer layout is deferred this far rather than
// done alongside the rest of a run's content back in layoutPageRun:
// layouted.Header/.Footer arrive as un-laid-out Content and are laid
// out here, into local frame values, now that the physical page number
// is available to resolve running numbering text.
func Finalize(eng *engine.Engine, locator *engine.Locator, chain *content.StyleChain, counter *ManualPageCounter, layouted LayoutedPage) (*Page, error) {
	margin := layouted.Margin
	if layouted.TwoSided && layouted.Binding.Swap(counter.Physical()) {
		margin.Left, margin.Right = margin.Right, margin.Left
	}

	fullSize := layout.Size{
		Width:  layouted.Inner.Width() + margin.Left + margin.Right,
		Height: layouted.Inner.Height() + margin.Top + margin.Bottom,
	}
	frame := layout.NewFrame(fullSize)
	frame.MakeKind(layout.FrameKindHard)

	pageNum := counter.Logical()
	header := layoutRunningMarginal(eng, locator, layouted.Header, layouted.HeaderSize, chain, pageNum, layouted.Numbering)
	footer := layoutRunningMarginal(eng, locator, layouted.Footer, layouted.FooterSize, chain, pageNum, layouted.Numbering)

	// Push order matters: it's also the relative order introspectable
	// elements in these regions resolve in.
	if layouted.Background != nil {
		frame.PushFrame(layout.Point{X: 0, Y: 0}, layouted.Background)
	}
	if header != nil {
		frame.PushFrame(layout.Point{X: margin.Left, Y: 0}, header)
	}

	frame.PushFrame(layout.Point{X: margin.Left, Y: margin.Top}, layouted.Inner)

	if footer != nil {
		y := fullSize.Height - footer.Height()
		frame.PushFrame(layout.Point{X: margin.Left, Y: y}, footer)
	}
	if layouted.Foreground != nil {
		frame.PushFrame(layout.Point{X: 0, Y: 0}, layouted.Foreground)
	}

	counter.Visit(frame)
	number := counter.Logical()
	counter.Step()

	return &Page{
		Frame:       frame,
		Fill:        layouted.Fill,
		Numbering:   layouted.Numbering,
		NumberAlign: layouted.NumberAlign,
		Number:      number,
	}, nil
}
