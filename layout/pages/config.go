package pages

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/layout"
)

// Default page geometry when no content.PageElement ever set one.
const (
	paperA4Width  layout.Abs = 595.276
	paperA4Height layout.Abs = 841.89
)

// pageConfig is the fully resolved, concrete geometry and marginal
// configuration for one page run, derived in a single pass over a
// content.PageElement's typed fields rather than a per-property style
// chain lookup.
type pageConfig struct {
	size          layout.Size
	margin        layout.Sides[layout.Abs]
	fill          content.Paint
	numbering     string
	numberAlign   content.Alignment2D
	header        content.Content
	headerAscent  layout.Abs
	footer        content.Content
	footerDescent layout.Abs
	background    content.Content
	foreground    content.Content
	twoSided      bool
	binding       content.Binding
}

// derivePageConfig resolves elem (the most recently "set" page element
// for this run, or nil for a document that never set one) into concrete
// geometry. A zero width/height/margin is treated as "unset, use the
// default" rather than literally zero, since this tree's PageElement
// carries plain content.Length fields rather than a Smart[Length] for
// geometry — a caller building a "set page(fill: ..)" element that
// doesn't also want to change geometry is expected to carry the
// previous width/height/margin forward, the same way typst's own style
// chain would fold an unset property through from the outer scope.
func derivePageConfig(elem *content.PageElement) pageConfig {
	width, height := paperA4Width, paperA4Height
	heightAuto := false
	var binding content.Binding
	var twoSided bool
	var fill content.Paint
	var numbering string
	var numberAlign content.Alignment2D
	var header, footer, background, foreground content.Content
	var headerAscent, footerDescent layout.Abs
	var margin layout.Sides[layout.Abs]
	haveMargin := false

	if elem != nil {
		if w := layout.Abs(elem.Width.Resolve(0)); w > 0 {
			width = w
		}
		if elem.HeightAuto {
			heightAuto = true
		} else if h := layout.Abs(elem.Height.Resolve(0)); h > 0 {
			height = h
		}
		binding = elem.Binding
		twoSided = elem.TwoSided
		fill = elem.Fill
		numbering = elem.Numbering
		numberAlign = elem.NumberAlign
		header = elem.Header
		footer = elem.Footer
		background = elem.Background
		foreground = elem.Foreground
		headerAscent = layout.Abs(elem.HeaderAscent.Resolve(0))
		footerDescent = layout.Abs(elem.FooterDescent.Resolve(0))

		m := elem.Margin
		if !m.Left.IsZero() || !m.Top.IsZero() || !m.Right.IsZero() || !m.Bottom.IsZero() {
			margin = layout.Sides[layout.Abs]{
				Left:   layout.Abs(m.Left.Resolve(0)),
				Top:    layout.Abs(m.Top.Resolve(0)),
				Right:  layout.Abs(m.Right.Resolve(0)),
				Bottom: layout.Abs(m.Bottom.Resolve(0)),
			}
			haveMargin = true
		}

		if elem.Flipped {
			width, height = height, width
		}
	}

	if heightAuto {
		height = layout.Inf
	}

	if !haveMargin {
		minDim := width
		if height < minDim {
			minDim = height
		}
		if !minDim.IsFinite() {
			minDim = paperA4Width
		}
		d := minDim * layout.Abs(2.5/21.0)
		margin = layout.Sides[layout.Abs]{Left: d, Top: d, Right: d, Bottom: d}
	}

	if headerAscent == 0 {
		headerAscent = margin.Top * 0.3
	}
	if footerDescent == 0 {
		footerDescent = margin.Bottom * 0.3
	}

	return pageConfig{
		size:          layout.Size{Width: width, Height: height},
		margin:        margin,
		fill:          fill,
		numbering:     numbering,
		numberAlign:   numberAlign,
		header:        header,
		headerAscent:  headerAscent,
		footer:        footer,
		footerDescent: footerDescent,
		background:    background,
		foreground:    foreground,
		twoSided:      twoSided,
		binding:       binding,
	}
}

func (c pageConfig) contentArea() layout.Size {
	return layout.Size{
		Width:  (c.size.Width - c.margin.Left - c.margin.Right).Max(0),
		Height: (c.size.Height - c.margin.Top - c.margin.Bottom).Max(0),
	}
}
