package inline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"

	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/font"
	"github.com/glyphworks/typeset/layout"
)

// objectReplacementChar stands in for one non-text prepared item (an
// indent, absolute/fractional spacing, or a tag) in the paragraph's
// flattened text, giving bidi analysis and the line breaker's rune scan a
// single atomic position to see instead of an empty gap.
const objectReplacementChar = '￼'

// DefaultFontSize is the size a paragraph falls back to when no
// KeyTextSize style is set anywhere on its chain.
const DefaultFontSize = layout.Abs(11)

// ResolveConfig derives a paragraph's resolved Config from its own
// explicit fields (which win when set) and the surrounding style chain.
func ResolveConfig(par *content.ParagraphElement, chain *content.StyleChain) *Config {
	fontSize := resolveFontSize(chain)
	dir := content.GetOr(chain, content.KeyDir, Dir(DirLTR))

	linebreaks := par.Linebreaks
	if linebreaks == content.LinebreaksAuto {
		linebreaks = content.GetOr(chain, content.KeyParLinebreaks, content.LinebreaksOptimized)
	}
	if linebreaks == content.LinebreaksAuto {
		linebreaks = content.LinebreaksOptimized
	}

	firstLine := par.FirstLineIndent
	if firstLine.IsZero() {
		firstLine = content.GetOr(chain, content.KeyParFirstLineIndent, content.ZeroLength)
	}
	hanging := par.HangingIndent
	if hanging.IsZero() {
		hanging = content.GetOr(chain, content.KeyParHangingIndent, content.ZeroLength)
	}

	leading := content.GetOr(chain, content.KeyParLeading, content.EmLength(0.65))

	return &Config{
		Justify:         par.Justify || content.GetOr(chain, content.KeyParJustify, false),
		Linebreaks:      linebreaks,
		FirstLineIndent: layout.Abs(firstLine.Resolve(float64(fontSize))),
		HangingIndent:   layout.Abs(hanging.Resolve(float64(fontSize))),
		Leading:         layout.Abs(leading.Resolve(float64(fontSize))),
		Align:           resolveAlign(content.GetOr(chain, content.KeyAlignment, content.Alignment2D{}), dir),
		FontSize:        fontSize,
		Dir:             dir,
		Lang:            content.GetOr(chain, content.KeyTextLang, ""),
		Fallback:        true,
		CJKLatinSpacing: true,
		Costs:           DefaultCosts(),
		Fill:            content.GetOr[content.Paint](chain, content.KeyTextFill, content.RGB(0, 0, 0)),
	}
}

// resolveFontSize ignores KeyTextSize's em-component: a size property's
// own em unit would otherwise be relative to itself, which content.Length
// doesn't define a fixed point for without a separate "outer size" carried
// through the chain.
func resolveFontSize(chain *content.StyleChain) layout.Abs {
	size := content.GetOr(chain, content.KeyTextSize, content.Pt(float64(DefaultFontSize)))
	return layout.Abs(size.Resolve(0))
}

func resolveAlign(a content.Alignment2D, dir Dir) layout.HAlign {
	switch a.Horizontal {
	case content.HAlignLeft:
		return layout.HAlignLeft
	case content.HAlignRight:
		return layout.HAlignRight
	case content.HAlignCenter:
		return layout.HAlignCenter
	case content.HAlignEnd:
		if dir == DirRTL {
			return layout.HAlignLeft
		}
		return layout.HAlignRight
	default: // HAlignUnset or HAlignStart
		if dir == DirRTL {
			return layout.HAlignRight
		}
		return layout.HAlignLeft
	}
}

func resolveVariant(chain *content.StyleChain) font.Variant {
	return font.Variant{
		Style:   content.GetOr(chain, content.KeyTextStyle, font.StyleNormal),
		Weight:  font.Weight(content.GetOr(chain, content.KeyTextWeight, int(font.WeightNormal))),
		Stretch: content.GetOr(chain, content.KeyTextStretch, font.StretchNormal),
	}
}

func resolveFonts(chain *content.StyleChain, provider font.Provider, variant font.Variant) []*font.Font {
	if provider == nil {
		return nil
	}
	families := content.GetOr(chain, content.KeyTextFont, []string(nil))
	fonts := make([]*font.Font, 0, len(families))
	for _, fam := range families {
		if f, ok := provider.Select(fam, variant); ok {
			fonts = append(fonts, f)
		}
	}
	return fonts
}

// builder accumulates a paragraph's flattened text and prepared items
// while walking its content tree. Text runs shape lazily: writeText only
// buffers into pending, and flushText shapes that buffer against whatever
// style chain was active while it accumulated, so a StrongElement or
// EmphElement nested mid-paragraph gets its own font/variant resolution
// without restarting the whole paragraph.
type builder struct {
	cfg      *Config
	provider font.Provider
	chain    *content.StyleChain
	lang     string

	text    strings.Builder
	items   []PreparedItem
	links   []LinkRange
	pending strings.Builder
}

func (b *builder) writeText(s string) {
	b.text.WriteString(s)
	b.pending.WriteString(s)
}

func (b *builder) writeObject(item Item) {
	b.flushText()
	start := b.text.Len()
	b.text.WriteRune(objectReplacementChar)
	b.items = append(b.items, PreparedItem{Range: Range{Start: start, End: b.text.Len()}, Item: item})
}

func (b *builder) lastRune() rune {
	s := b.text.String()
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// flushText shapes whatever plain text has accumulated in pending via a
// full bidi analysis, splitting it into direction-uniform runs, and
// appends one TextItem per resulting run. Each flush re-resolves the
// variant and font candidates from the chain active right now, so text
// shaped under a pushed bold/italic style picks up its own fonts.
func (b *builder) flushText() {
	if b.pending.Len() == 0 {
		return
	}
	segment := b.pending.String()
	b.pending.Reset()
	base := b.text.Len() - len(segment)

	variant := resolveVariant(b.chain)
	fonts := resolveFonts(b.chain, b.provider, variant)
	shaper := NewShapingContext(fonts, b.provider, b.cfg.FontSize, variant)
	shaper.Fallback = b.cfg.Fallback && b.provider != nil

	baseDir := bidi.LeftToRight
	if b.cfg.Dir == DirRTL {
		baseDir = bidi.RightToLeft
	}
	var para bidi.Paragraph
	para.SetString(segment, bidi.DefaultDirection(baseDir))

	for _, shaped := range shaper.ShapeBidi(segment, base, 0, len(segment), &para, b.lang) {
		b.items = append(b.items, PreparedItem{
			Range: Range{Start: shaped.Base, End: shaped.Base + len(shaped.Text)},
			Item:  &TextItem{Shaped: shaped},
		})
	}
}

// withStyle pushes one property override for the duration of body, then
// restores the outer chain.
func (b *builder) withStyle(key content.PropertyKey, value any, body content.Content) {
	b.flushText()
	var styles content.Styles
	styles.Set(key, value)
	outer := b.chain
	b.chain = styles.Chain(outer)
	b.walk(body)
	b.flushText()
	b.chain = outer
}

// walk descends a paragraph's content, turning every leaf element it
// understands into prepared items. A realized paragraph body is
// inline-level content by construction, so this switches over a closed
// set of element kinds rather than recursing into block-level content;
// an element outside that set is skipped.
func (b *builder) walk(body content.Content) {
	body.Each(func(elem content.ContentElement) {
		switch e := elem.(type) {
		case *content.TextElement:
			b.writeText(e.Text)
		case *content.SpaceElement:
			b.writeText(" ")
		case *content.LinebreakElement:
			b.flushText()
			if e.Justify {
				b.text.WriteString(" ")
			} else {
				b.text.WriteString("\n")
			}
		case *content.StrongElement:
			b.withStyle(content.KeyTextWeight, int(font.WeightBold), e.Body)
		case *content.EmphElement:
			b.withStyle(content.KeyTextStyle, font.StyleItalic, e.Body)
		case *content.LinkElement:
			start := b.text.Len()
			b.walk(e.Body)
			if end := b.text.Len(); end > start {
				b.links = append(b.links, LinkRange{URL: e.URL, Range: Range{Start: start, End: end}})
			}
		case *content.RawElement:
			b.writeText(e.Text)
		case *content.SmartQuoteElement:
			b.writeText(smartQuote(b.lastRune(), e.Double))
		case *content.EquationElement:
			// Equation bodies shape like any other styled run; see the
			// element's doc comment for the scope decision.
			b.walk(e.Body)
		case *content.TagElem:
			b.writeObject(&TagItem{Tag: *e})
		case *content.BoxElement:
			b.writeObject(&InlineFrameItem{Frame: layoutInlineBox(e, b.chain, b.provider, b.cfg.FontSize)})
		default:
		}
	})
}

// smartQuote picks the opening or closing glyph for a quote mark from the
// rune that precedes it: start-of-text or whitespace reads as opening,
// anything else as closing. The actual glyph is resolved here during
// layout rather than fixed in the content tree, since it depends on
// context not available when the quote element is constructed.
func smartQuote(prev rune, double bool) string {
	opening := prev == 0 || unicode.IsSpace(prev) || prev == '(' || prev == '['
	switch {
	case double && opening:
		return "“"
	case double:
		return "”"
	case opening:
		return "‘"
	default:
		return "’"
	}
}

// Prepare walks a paragraph's realized content, shaping every text run
// against the style chain active at that point, and returns a
// Preparation ready for Linebreak and Finalize. It walks content.Content
// directly against the closed element set a realized paragraph body can
// contain, rather than expecting a separate collection pass upstream.
func Prepare(par *content.ParagraphElement, chain *content.StyleChain, provider font.Provider) *Preparation {
	cfg := ResolveConfig(par, chain)
	b := &builder{cfg: cfg, provider: provider, chain: chain, lang: cfg.Lang}

	if cfg.FirstLineIndent > 0 {
		b.writeObject(&AbsoluteItem{Amount: cfg.FirstLineIndent})
	}
	b.walk(par.Body)
	b.flushText()

	return &Preparation{Text: b.text.String(), Items: b.items, Links: b.links, Config: cfg}
}

// Layout prepares, breaks, and finalizes a paragraph against a region in
// one call: the entry point a flow or grid cell layouter uses for
// ordinary paragraph content.
func Layout(par *content.ParagraphElement, chain *content.StyleChain, provider font.Provider, region layout.Size, expand bool) *layout.Fragment {
	prep := Prepare(par, chain, provider)
	lines := Linebreak(prep, region.Width)
	return Finalize(prep, lines, region, expand)
}
