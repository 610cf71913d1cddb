package flow

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
	"github.com/glyphworks/typeset/layout/grid"
	"github.com/glyphworks/typeset/layout/inline"
)

// Collector walks a realized content.Content tree and turns it into the
// flat []Child stream Distribute consumes, resolving each block's
// alignment/spacing/stickiness from the style chain in effect at the
// point it occurs. Each collected MultiChild's Layout callback shapes
// its text genuinely against the inline paragraph shaper rather than
// deferring the work to a caller.
type Collector struct {
	engine   *engine.Engine
	locator  *engine.Locator
	children []Child
}

func NewCollector(eng *engine.Engine, locator *engine.Locator) *Collector {
	return &Collector{engine: eng, locator: locator}
}

// Collect is the package's entry point: realize body into a flow Child
// stream under the given style chain.
func Collect(eng *engine.Engine, locator *engine.Locator, body content.Content, chain *content.StyleChain) []Child {
	c := NewCollector(eng, locator)
	c.collect(body, chain)
	return c.children
}

func (c *Collector) collect(body content.Content, chain *content.StyleChain) {
	for _, elem := range body.Elements {
		c.collectElement(elem, chain)
	}
}

func (c *Collector) collectElement(elem content.ContentElement, chain *content.StyleChain) {
	switch e := elem.(type) {
	case *content.ParagraphElement:
		c.collectParagraph(e, chain)
	case *content.HeadingElement:
		c.collectHeading(e, chain)
	case *content.RawElement:
		if e.Block {
			c.collectRawBlock(e, chain)
		}
	case *content.ListElement:
		c.collectList(e, chain)
	case *content.EnumElement:
		c.collectEnum(e, chain)
	case *content.TermsElement:
		c.collectTerms(e, chain)
	case *content.BlockElement:
		c.collectBlock(e, chain)
	case *content.StackElement:
		c.collectStack(e, chain)
	case *content.AlignElement:
		c.collectAlign(e, chain)
	case *content.GridElement:
		c.collectGrid(e, chain)
	case *content.PlaceElement:
		c.collectPlace(e, chain)
	case *content.HElem:
		c.collectHSpacing(e, chain)
	case *content.VElem:
		c.collectVSpacing(e, chain)
	case *content.PagebreakElement:
		c.children = append(c.children, BreakChild{Weak: e.Weak})
	case *content.ColbreakElement:
		c.children = append(c.children, BreakChild{Weak: e.Weak})
	case *content.FootnoteElement:
		c.collectFootnote(e, chain)
	case *content.TagElem:
		c.children = append(c.children, TagChild{Tag: e})
	case *content.ParbreakElement:
		c.addParSpacing(chain)
	case *content.EquationElement:
		if e.Block {
			c.collectParagraph(&content.ParagraphElement{Body: e.Body}, chain)
		}
	default:
		// Inline-only elements (text, links, refs, smart quotes, math,
		// citations...) never reach the flow composer directly: they only
		// ever appear inside a ParagraphElement's Body, which is handled
		// wholesale by collectParagraph below.
	}
}

func (c *Collector) resolveAlign(chain *content.StyleChain) layout.Axes[FixedAlignment] {
	dir := content.GetOr(chain, content.KeyDir, layout.DirLTR)
	a2d := content.GetOr(chain, content.KeyAlignment, content.Alignment2D{})
	return layout.Axes[FixedAlignment]{
		X: resolveHAlign(a2d.Horizontal, dir),
		Y: resolveVAlign(a2d.Vertical),
	}
}

func resolveHAlign(h content.HAlignment, dir layout.Dir) FixedAlignment {
	rtl := dir == layout.DirRTL
	switch h {
	case content.HAlignLeft:
		if rtl {
			return FixedAlignEnd
		}
		return FixedAlignStart
	case content.HAlignRight:
		if rtl {
			return FixedAlignStart
		}
		return FixedAlignEnd
	case content.HAlignCenter:
		return FixedAlignCenter
	case content.HAlignEnd:
		return FixedAlignEnd
	default:
		return FixedAlignStart
	}
}

func resolveVAlign(v content.VAlignment) FixedAlignment {
	switch v {
	case content.VAlignHorizon:
		return FixedAlignCenter
	case content.VAlignBottom:
		return FixedAlignEnd
	default:
		return FixedAlignStart
	}
}

// collectParagraph turns one paragraph into a MultiChild whose Layout
// callback shapes and breaks its lines on demand, once the region width
// is known.
func (c *Collector) collectParagraph(p *content.ParagraphElement, chain *content.StyleChain) {
	align := c.resolveAlign(chain)
	c.addParSpacing(chain)
	c.children = append(c.children, &MultiChild{
		Align: align,
		Layout: func(eng *engine.Engine, regions *layout.Regions) (*layout.Fragment, error) {
			return inline.LayoutInRegions(p, chain, eng.Fonts, regions), nil
		},
	})
	c.addParSpacing(chain)
}

// resolveFontSize reads the current em size off the style chain, the
// base every relative/em-valued spacing in this package resolves
// against. Mirrors layout/inline's own resolveFontSize, duplicated
// rather than exported across packages for one three-line helper.
func resolveFontSize(chain *content.StyleChain) layout.Abs {
	size := content.GetOr(chain, content.KeyTextSize, content.Pt(float64(inline.DefaultFontSize)))
	return layout.Abs(size.Resolve(0))
}

func (c *Collector) addParSpacing(chain *content.StyleChain) {
	fontSize := resolveFontSize(chain)
	spacing := content.GetOr(chain, content.KeyParSpacing, content.Relative{})
	amount := RelOf(spacing, fontSize)
	if amount.Abs == 0 && amount.Rel == 0 {
		return
	}
	c.children = append(c.children, RelChild{Amount: amount, Weakness: 1})
}

// collectHeading lays out a heading as an unbreakable, sticky block (it
// must not be the last thing in a region, orphaned from its body).
func (c *Collector) collectHeading(h *content.HeadingElement, chain *content.StyleChain) {
	align := c.resolveAlign(chain)
	body := h.Body
	par := &content.ParagraphElement{Body: body}
	c.children = append(c.children, &SingleChild{
		Align:  align,
		Sticky: true,
		Layout: func(eng *engine.Engine, region layout.Region) (*layout.Frame, error) {
			return inline.LayoutStacked(par, chain, eng.Fonts, region.Size, region.Expand.X), nil
		},
	})
}

func (c *Collector) collectRawBlock(r *content.RawElement, chain *content.StyleChain) {
	align := c.resolveAlign(chain)
	par := &content.ParagraphElement{Body: content.Single(&content.TextElement{Text: r.Text})}
	c.children = append(c.children, &SingleChild{
		Align: align,
		Layout: func(eng *engine.Engine, region layout.Region) (*layout.Frame, error) {
			return inline.LayoutStacked(par, chain, eng.Fonts, region.Size, region.Expand.X), nil
		},
	})
}

// collectList/collectEnum/collectTerms fold every item's body into a
// single breakable run of paragraphs, one per item, separated by the
// list's own spacing. A fuller implementation would lay out per-item
// markers (bullets, numbers, term labels) in a side column; that's
// deferred to the grid package's cell-placement machinery, which this
// package's collectGrid below already wires a GridElement through.
func (c *Collector) collectList(l *content.ListElement, chain *content.StyleChain) {
	for _, item := range l.Items {
		c.collectParagraph(&content.ParagraphElement{Body: item.Body}, chain)
	}
}

func (c *Collector) collectEnum(e *content.EnumElement, chain *content.StyleChain) {
	for _, item := range e.Items {
		c.collectParagraph(&content.ParagraphElement{Body: item.Body}, chain)
	}
}

func (c *Collector) collectTerms(t *content.TermsElement, chain *content.StyleChain) {
	for _, item := range t.Items {
		c.collectParagraph(&content.ParagraphElement{Body: content.Join(item.Term, item.Description)}, chain)
	}
}

func (c *Collector) collectBlock(b *content.BlockElement, chain *content.StyleChain) {
	align := c.resolveAlign(chain)
	if !b.Breakable {
		c.children = append(c.children, &SingleChild{
			Align:  align,
			Sticky: b.Sticky,
			Layout: func(eng *engine.Engine, region layout.Region) (*layout.Frame, error) {
				return LayoutSingleBlock(b, chain, eng, region)
			},
		})
		return
	}
	c.children = append(c.children, &MultiChild{
		Align:  align,
		Sticky: b.Sticky,
		Layout: func(eng *engine.Engine, regions *layout.Regions) (*layout.Fragment, error) {
			return LayoutMultiBlock(b, chain, eng, regions)
		},
	})
}

// collectStack arranges a vertical stack as a sequence of children with
// the stack's own spacing between them, since a ttb/btt stack is itself
// breakable; a horizontal stack has no natural break point so it
// collects as one block.
func (c *Collector) collectStack(s *content.StackElement, chain *content.StyleChain) {
	if s.Dir != content.StackTTB && s.Dir != content.StackBTT {
		align := c.resolveAlign(chain)
		children := append([]content.Content(nil), s.Children...)
		c.children = append(c.children, &SingleChild{
			Align: align,
			Layout: func(eng *engine.Engine, region layout.Region) (*layout.Frame, error) {
				return layoutHorizontalStack(children, chain, eng, region)
			},
		})
		return
	}
	fontSize := resolveFontSize(chain)
	for i, child := range s.Children {
		c.collect(child, chain)
		if i < len(s.Children)-1 && !s.Spacing.Abs.IsZero() {
			c.children = append(c.children, RelChild{Amount: RelOf(s.Spacing, fontSize), Weakness: 0})
		}
	}
}

func (c *Collector) collectAlign(a *content.AlignElement, chain *content.StyleChain) {
	styles := content.Styles{}
	styles.Set(content.KeyAlignment, a.Alignment)
	c.collect(a.Body, styles.Chain(chain))
}

func (c *Collector) collectGrid(g *content.GridElement, chain *content.StyleChain) {
	align := c.resolveAlign(chain)
	elem := g
	c.children = append(c.children, &MultiChild{
		Align: align,
		Layout: func(eng *engine.Engine, regions *layout.Regions) (*layout.Fragment, error) {
			if elem.IsTable {
				return grid.LayoutTable(elem, chain, eng, regions)
			}
			return grid.LayoutGrid(elem, chain, eng, regions)
		},
	})
}

func (c *Collector) collectPlace(p *content.PlaceElement, chain *content.StyleChain) {
	loc := c.locator.Next(placeKey)
	alignX := resolveHAlign(p.Alignment.Horizontal, content.GetOr(chain, content.KeyDir, layout.DirLTR))
	var alignY *FixedAlignment
	if p.Alignment.Vertical != content.VAlignUnset {
		v := resolveVAlign(p.Alignment.Vertical)
		alignY = &v
	}
	body := p.Body
	c.children = append(c.children, &PlacedChild{
		Float:     p.Float,
		Scope:     PlacementScopeColumn,
		AlignX:    alignX,
		AlignY:    alignY,
		Delta:     layout.Axes[Rel]{X: Rel{Abs: layout.Abs(p.Dx.Resolve(0))}, Y: Rel{Abs: layout.Abs(p.Dy.Resolve(0))}},
		Clearance: layout.Abs(p.Clearance.Resolve(0)),
		Loc:       loc,
		Layout: func(eng *engine.Engine, base layout.Size) (*layout.Frame, error) {
			par := &content.ParagraphElement{Body: body}
			return inline.LayoutStacked(par, chain, eng.Fonts, base, false), nil
		},
	})
}

// collectHSpacing handles explicit h() spacing. Horizontal spacing only
// matters inside a paragraph's inline flow (where the inline shaper
// consumes it directly); between block-level children it has no
// meaning, so outside a paragraph it's treated the same as v() spacing
// for the block axis the composer actually lays children out along.
func (c *Collector) collectHSpacing(h *content.HElem, chain *content.StyleChain) {
	c.collectSpacing(h.Amount, h.Weak, chain)
}

func (c *Collector) collectVSpacing(v *content.VElem, chain *content.StyleChain) {
	c.collectSpacing(v.Amount, v.Weak, chain)
}

func (c *Collector) collectSpacing(amount content.Spacing, weak bool, chain *content.StyleChain) {
	weakness := uint8(0)
	if weak {
		weakness = 1
	}
	if amount.IsFractional {
		c.children = append(c.children, FrChild{Amount: layout.Fr(amount.Fr.Value), Weakness: weakness})
		return
	}
	fontSize := resolveFontSize(chain)
	c.children = append(c.children, RelChild{Amount: RelOf(amount.Abs, fontSize), Weakness: weakness})
}

func (c *Collector) collectFootnote(f *content.FootnoteElement, chain *content.StyleChain) {
	loc := c.locator.Next(footnoteKey)
	if f.Ref != nil {
		loc = *f.Ref
	}
	body := f.Body
	c.children = append(c.children, FootnoteChild{
		Loc: loc,
		Layout: func(eng *engine.Engine, width, first, full layout.Abs) (*layout.Fragment, error) {
			par := &content.ParagraphElement{Body: body}
			regions := &layout.Regions{Size: layout.Size{Width: width, Height: first}, Full: first, Last: &full}
			return inline.LayoutInRegions(par, chain, eng.Fonts, regions), nil
		},
	})
}

// locator disambiguation keys, one small integer per call site that
// hands out a Location during collection.
const (
	placeKey uint64 = iota + 1
	footnoteKey
)
