// Package pages turns a flat content.Content document body into a
// PagedDocument: one finished layout.Frame per physical page, with
// page geometry, margins, running headers/footers, and manual page
// numbering resolved along the way.
package pages

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
)

// LayoutDocument collects body into page runs and parity breaks, lays
// each run out page by page, and finalizes every resulting page in
// physical order so that running numbering, counter-update tags, and
// two-sided margin swaps all see the correct physical/logical page
// count as they're applied.
func LayoutDocument(eng *engine.Engine, locator *engine.Locator, body content.Content, chain *content.StyleChain) (*PagedDocument, error) {
	items := Collect(body)
	counter := NewManualPageCounter()
	doc := &PagedDocument{}

	for _, item := range items {
		switch it := item.(type) {
		case RunItem:
			laid, err := layoutPageRun(eng, locator, it, chain)
			if err != nil {
				return nil, err
			}
			for _, l := range laid {
				page, err := Finalize(eng, locator, chain, counter, l)
				if err != nil {
					return nil, err
				}
				doc.Pages = append(doc.Pages, *page)
			}
		case ParityItem:
			if parityMatches(it.Parity, counter.Logical()) {
				continue
			}
			blank, err := layoutBlankPage(eng, locator, it.Config, chain)
			if err != nil {
				return nil, err
			}
			if blank == nil {
				continue
			}
			page, err := Finalize(eng, locator, chain, counter, *blank)
			if err != nil {
				return nil, err
			}
			doc.Pages = append(doc.Pages, *page)
		}
	}

	return doc, nil
}

// parityMatches reports whether the 1-indexed logical page number
// pageNum satisfies parity. ParityAny (no parity requested) always
// matches.
func parityMatches(parity content.PageParity, pageNum int) bool {
	switch parity {
	case content.ParityOdd:
		return pageNum%2 == 1
	case content.ParityEven:
		return pageNum%2 == 0
	default:
		return true
	}
}
