package pages

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
	"github.com/glyphworks/typeset/layout/flow"
)

// layoutPageRun lays out one RunItem's content against its resolved
// page configuration, producing one LayoutedPage per physical page the
// run's content spills across.
func layoutPageRun(eng *engine.Engine, locator *engine.Locator, run RunItem, chain *content.StyleChain) ([]LayoutedPage, error) {
	cfg := derivePageConfig(run.Config)
	if cfg.numbering != "" && cfg.header.IsEmpty() && cfg.footer.IsEmpty() {
		if cfg.numberAlign.Vertical == content.VAlignTop {
			cfg.header = defaultNumberingContent(cfg.numbering)
		} else {
			cfg.footer = defaultNumberingContent(cfg.numbering)
		}
	}

	area := cfg.contentArea()
	var regions *layout.Regions
	if area.Height.IsFinite() {
		regions = layout.NewRepeatingRegions(area)
	} else {
		regions = layout.NewRegions(area)
	}

	body := content.Content{Elements: run.Children}
	frag, err := flow.LayoutFlow(eng, locator.Split(), body, chain, regions, flow.DefaultFootnoteConfig())
	if err != nil {
		return nil, err
	}
	if frag.IsEmpty() {
		frag.Push(layout.NewFrame(area))
	}

	pages := make([]LayoutedPage, 0, frag.Len())
	for _, inner := range frag.Frames() {
		fullSize := layout.Size{
			Width:  inner.Width() + cfg.margin.Left + cfg.margin.Right,
			Height: inner.Height() + cfg.margin.Top + cfg.margin.Bottom,
		}
		headerSize := layout.Size{Width: fullSize.Width, Height: (cfg.margin.Top - cfg.headerAscent).Max(0)}
		footerSize := layout.Size{Width: fullSize.Width, Height: (cfg.margin.Bottom - cfg.footerDescent).Max(0)}

		pages = append(pages, LayoutedPage{
			Inner:       inner,
			Margin:      cfg.margin,
			Binding:     cfg.binding,
			TwoSided:    cfg.twoSided,
			Header:      cfg.header,
			HeaderSize:  headerSize,
			Footer:      cfg.footer,
			FooterSize:  footerSize,
			Background:  layoutStaticMarginal(eng, locator, cfg.background, fullSize, chain),
			Foreground:  layoutStaticMarginal(eng, locator, cfg.foreground, fullSize, chain),
			Fill:        cfg.fill,
			Numbering:   cfg.numbering,
			NumberAlign: cfg.numberAlign,
		})
	}
	return pages, nil
}

// layoutBlankPage produces a single content-free page for parity
// padding, under the page configuration active when the ParityItem was
// emitted.
func layoutBlankPage(eng *engine.Engine, locator *engine.Locator, cfg *content.PageElement, chain *content.StyleChain) (*LayoutedPage, error) {
	pages, err := layoutPageRun(eng, locator, RunItem{Config: cfg}, chain)
	if err != nil || len(pages) == 0 {
		return nil, err
	}
	return &pages[0], nil
}
