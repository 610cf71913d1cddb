package pages

import "github.com/glyphworks/typeset/content"

// Item is one slice of a partitioned content stream: a page run, or an
// instruction to pad the page count to a desired parity. Inter-run tags
// aren't tracked as a distinct item kind: only a strong pagebreak or the
// end of the document flushes an empty run, so a tag-only group between
// two weak breaks is simply absorbed into whichever neighboring run it
// ends up attached to.
type Item interface{ isItem() }

// RunItem is a page run: the content between two page-run boundaries,
// plus the page configuration (the most recently "set" PageElement, or
// nil for the engine defaults) in effect for it.
type RunItem struct {
	Children []content.ContentElement
	Config   *content.PageElement
}

func (RunItem) isItem() {}

// ParityItem asks for a blank page to be inserted, after the preceding
// run's pages are finalized, if the next page's logical number
// (ManualPageCounter.Logical) does not have the requested parity. It
// can only be resolved once pages are finalized in order, since that's
// the only point the concrete page number is known.
type ParityItem struct {
	Parity content.PageParity
	Config *content.PageElement
}

func (ParityItem) isItem() {}

// Collect partitions body's top-level elements into page runs at every
// content.PagebreakElement, tracking the active page configuration
// (updated by a body-less content.PageElement, a "set page(..)" form)
// and forcing a page boundary around a body-carrying content.PageElement
// (a one-off page override). Page configuration comes from the explicit,
// typed content.PageElement fields this tree's content model carries,
// rather than a generic style-chain lookup.
func Collect(body content.Content) []Item {
	var items []Item
	var config *content.PageElement
	var run []content.ContentElement

	flush := func(forced bool) {
		kept, migrated := splitTrailingTags(run)
		if len(kept) > 0 || forced {
			items = append(items, RunItem{Children: kept, Config: config})
		}
		run = migrated
	}

	for _, e := range body.Elements {
		switch el := e.(type) {
		case *content.PagebreakElement:
			if el.Weak {
				if len(run) > 0 {
					flush(false)
				}
			} else {
				flush(true)
			}
			if el.ToParity != content.ParityAny {
				items = append(items, ParityItem{Parity: el.ToParity, Config: config})
			}

		case *content.PageElement:
			if el.Body.IsEmpty() {
				config = el
				continue
			}
			flush(false)
			items = append(items, RunItem{Children: el.Body.Elements, Config: el})

		default:
			run = append(run, e)
		}
	}

	flush(true)
	return items
}

// splitTrailingTags separates elems' trailing run of content.TagElem
// items into the ones that stay (terminated ones: a TagEnd, or a
// TagStart whose matching TagEnd is also in the trailing run) and the
// ones that migrate across an upcoming page break (a TagStart left
// open at the end of the run). A start tag immediately preceding a page
// break migrates to after it unless terminated.
func splitTrailingTags(elems []content.ContentElement) (kept, migrated []content.ContentElement) {
	i := len(elems)
	for i > 0 {
		if _, ok := elems[i-1].(*content.TagElem); !ok {
			break
		}
		i--
	}
	trailing := elems[i:]
	if len(trailing) == 0 {
		return elems, nil
	}

	ended := make(map[content.Location]bool, len(trailing))
	for _, e := range trailing {
		tag := e.(*content.TagElem)
		if tag.Kind == content.TagEnd {
			ended[tag.Location] = true
		}
	}

	var stay, move []content.ContentElement
	for _, e := range trailing {
		tag := e.(*content.TagElem)
		if tag.Kind == content.TagStart && !ended[tag.Location] {
			move = append(move, e)
		} else {
			stay = append(stay, e)
		}
	}

	kept = append(append([]content.ContentElement{}, elems[:i]...), stay...)
	return kept, move
}
