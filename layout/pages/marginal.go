package pages

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
	"github.com/glyphworks/typeset/layout/flow"
)

// layoutStaticMarginal lays out background/foreground content, which
// never depends on the physical page number, at run-layout time rather
// than deferring it to Finalize.
func layoutStaticMarginal(eng *engine.Engine, locator *engine.Locator, c content.Content, area layout.Size, chain *content.StyleChain) *layout.Frame {
	if c.IsEmpty() {
		return nil
	}
	return layoutMarginalContent(eng, locator, c, area, chain)
}

// layoutRunningMarginal lays out header/footer content once the
// physical page number is known, substituting any embedded
// content.PageNumberElem with the number formatted per pattern first.
func layoutRunningMarginal(eng *engine.Engine, locator *engine.Locator, c content.Content, area layout.Size, chain *content.StyleChain, pageNum int, pattern string) *layout.Frame {
	if c.IsEmpty() {
		return nil
	}
	resolved := substitutePageNumbers(c, pageNum, pattern)
	return layoutMarginalContent(eng, locator, resolved, area, chain)
}

func layoutMarginalContent(eng *engine.Engine, locator *engine.Locator, c content.Content, area layout.Size, chain *content.StyleChain) *layout.Frame {
	regions := layout.NewRegions(area)
	frag, err := flow.LayoutFlow(eng, locator.Split(), c, chain, regions, flow.DefaultFootnoteConfig())
	if err != nil || frag.IsEmpty() {
		return nil
	}
	return frag.First()
}

// substitutePageNumbers replaces every content.PageNumberElem reachable
// through alignment/stack nesting with the formatted page number text,
// leaving every other element untouched.
func substitutePageNumbers(c content.Content, pageNum int, pattern string) content.Content {
	out := make([]content.ContentElement, len(c.Elements))
	for i, e := range c.Elements {
		out[i] = substitutePageNumber(e, pageNum, pattern)
	}
	return content.Content{Elements: out}
}

func substitutePageNumber(e content.ContentElement, pageNum int, pattern string) content.ContentElement {
	switch el := e.(type) {
	case *content.PageNumberElem:
		p := el.Pattern
		if p == "" {
			p = pattern
		}
		return &content.TextElement{Text: formatPageNumber(pageNum, p)}
	case *content.AlignElement:
		cp := *el
		cp.Body = substitutePageNumbers(el.Body, pageNum, pattern)
		return &cp
	case *content.StackElement:
		cp := *el
		cp.Children = make([]content.Content, len(el.Children))
		for i, ch := range el.Children {
			cp.Children[i] = substitutePageNumbers(ch, pageNum, pattern)
		}
		return &cp
	default:
		return e
	}
}

// defaultNumberingContent builds the header/footer content the page
// builder falls back to when a page declares a numbering pattern but no
// explicit header/footer: a centered running page number, in the
// footer unless number-align requests the top.
func defaultNumberingContent(pattern string) content.Content {
	return content.Single(&content.AlignElement{
		Alignment: content.Alignment2D{Horizontal: content.HAlignCenter},
		Body:      content.Single(&content.PageNumberElem{Pattern: pattern}),
	})
}
