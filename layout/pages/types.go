package pages

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/layout"
)

// The core data types a page run produces: PagedDocument/Page are the
// finished output, LayoutedPage is the intermediate per-page result run.go
// hands to Finalize once margins and marginals are known but before the
// physical page number fixes header/footer numbering, and
// ManualPageCounter tracks that number across the whole document walk.

// PagedDocument is a fully laid out document: one frame per page plus
// whatever document-level metadata the caller supplied.
type PagedDocument struct {
	Pages []Page
	Info  DocumentInfo
}

// DocumentInfo carries document metadata that doesn't belong to any one
// page, supplied by the caller rather than derived from content.
type DocumentInfo struct {
	Title    string
	Author   []string
	Keywords []string
}

// Page is one finished, numbered page.
type Page struct {
	Frame       *layout.Frame
	Fill        content.Paint
	Numbering   string
	NumberAlign content.Alignment2D
	Number      int
}

// LayoutedPage is a page whose inner content and marginals are already
// laid out, missing only the physical page number needed to resolve
// two-sided margin swapping and running header/footer numbering.
// Header/Footer are kept as un-laid-out Content rather than Frames,
// since a numbering marginal's text depends on the page number, which
// is only known once Finalize runs the pages in physical order;
// HeaderSize/FooterSize carry the space reserved for that deferred
// marginal in the meantime.
type LayoutedPage struct {
	Inner       *layout.Frame
	Margin      layout.Sides[layout.Abs]
	Binding     content.Binding
	TwoSided    bool
	Header      content.Content
	HeaderSize  layout.Size
	Footer      content.Content
	FooterSize  layout.Size
	Background  *layout.Frame
	Foreground  *layout.Frame
	Fill        content.Paint
	Numbering   string
	NumberAlign content.Alignment2D
}

// ManualPageCounter tracks the page builder's own running page number,
// separate from the physical position in PagedDocument.Pages: a
// counter(page).update(..) tag embedded in the content can jump it
// forward or reset it, the common case of restarting numbering at 1 for
// a document's main body after front matter numbered with roman
// numerals.
type ManualPageCounter struct {
	physical int
	logical  int
}

func NewManualPageCounter() *ManualPageCounter {
	return &ManualPageCounter{logical: 1}
}

func (c *ManualPageCounter) Physical() int { return c.physical }
func (c *ManualPageCounter) Logical() int  { return c.logical }

// Step advances both counters once a page has been finalized.
func (c *ManualPageCounter) Step() {
	c.physical++
	c.logical++
}

// Visit applies every page-counter CounterUpdateElem tag found in frame
// (recursing into nested group frames) to the logical counter, in the
// order they appear.
func (c *ManualPageCounter) Visit(frame *layout.Frame) {
	if frame == nil {
		return
	}
	for _, positioned := range frame.Items() {
		switch item := positioned.Item.(type) {
		case layout.GroupItem:
			c.Visit(item.Frame)
		case layout.TagItem:
			if item.Tag.Kind != content.TagStart {
				continue
			}
			update, ok := item.Tag.Elem.(*content.CounterUpdateElem)
			if !ok || update == nil || update.Key != content.CounterKeyPage {
				continue
			}
			c.logical = update.Update.Apply(c.logical)
		}
	}
}
