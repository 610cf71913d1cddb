// Package inline implements the shaper and line breaker: the two leaf
// components of the pipeline that turn a run of styled text into
// positioned glyphs and, from there, into line frames a flow or grid
// cell can stack. Math layout is handled separately at the content
// level rather than in this package.
package inline

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/font"
	"github.com/glyphworks/typeset/layout"
)

// Dir mirrors layout.Dir for the subset of directions paragraph text
// actually shapes in (horizontal only; vertical writing modes are not
// part of this engine's scope).
type Dir = layout.Dir

const (
	DirLTR = layout.DirLTR
	DirRTL = layout.DirRTL
)

// Range is a byte range within a paragraph's full text.
type Range struct{ Start, End int }

func (r Range) Len() int             { return r.End - r.Start }
func (r Range) Contains(i int) bool  { return i >= r.Start && i < r.End }

// Adjustability records how much a glyph may stretch or shrink on each
// side, the basis for both optimized line breaking's badness function
// and the justification pass.
type Adjustability struct {
	StretchLeft, StretchRight layout.Em
	ShrinkLeft, ShrinkRight   layout.Em
}

func (a Adjustability) Stretch() layout.Em { return a.StretchLeft + a.StretchRight }
func (a Adjustability) Shrink() layout.Em  { return a.ShrinkLeft + a.ShrinkRight }

// ShapedGlyph is one glyph the shaper produced, carrying everything the
// line breaker, justifier, and frame builder need: its font and id, its
// advance/offsets in em units (scaled against Size when painted), the
// source byte range of the cluster it came from, whether it is
// safe-to-break, and classification flags (space, CJK, justifiable).
type ShapedGlyph struct {
	Font          *font.Font
	GlyphID       uint16
	XAdvance      layout.Em
	XOffset       layout.Em
	YOffset       layout.Em
	Size          layout.Abs
	Adjustability Adjustability
	Range         Range
	SafeToBreak   bool
	Char          rune
	IsJustifiable bool
	Script        Script
}

func (g *ShapedGlyph) IsSpace() bool { return isSpace(g.Char) }
func (g *ShapedGlyph) IsCJScript() bool {
	return isCJScript(g.Char, g.Script)
}

// ShrinkLeftBy/ShrinkRightBy consume shrinkability when CJK punctuation
// compression or line-end justification reduces a glyph's advance.
func (g *ShapedGlyph) ShrinkLeftBy(amount layout.Em) {
	g.XOffset -= amount
	g.XAdvance -= amount
	g.Adjustability.ShrinkLeft -= amount
}

func (g *ShapedGlyph) ShrinkRightBy(amount layout.Em) {
	g.XAdvance -= amount
	g.Adjustability.ShrinkRight -= amount
}

// Script is a coarse Unicode script classification, enough for the
// shaper's fallback/feature decisions and the line breaker's CJK
// handling without pulling in a full Unicode script database.
type Script uint8

const (
	ScriptCommon Script = iota
	ScriptLatin
	ScriptGreek
	ScriptCyrillic
	ScriptHan
	ScriptHiragana
	ScriptKatakana
	ScriptArabic
	ScriptHebrew
)

// Glyphs is a trimmable, ownership-aware glyph run: the full shaped
// sequence plus a "kept" sub-range that Trim narrows from either end
// without discarding the underlying data (needed so a re-shape of a
// safe-to-break suffix can still compare against the original run).
type Glyphs struct {
	all  []ShapedGlyph
	kept Range
}

func NewGlyphs(glyphs []ShapedGlyph) *Glyphs {
	return &Glyphs{all: glyphs, kept: Range{0, len(glyphs)}}
}

func (g *Glyphs) Len() int             { return g.kept.Len() }
func (g *Glyphs) All() []ShapedGlyph   { return g.all }
func (g *Glyphs) Kept() []ShapedGlyph  { return g.all[g.kept.Start:g.kept.End] }
func (g *Glyphs) IsEmpty() bool        { return len(g.all) == 0 }

func (g *Glyphs) Trim(pred func(*ShapedGlyph) bool) {
	start, end := g.kept.Start, g.kept.End
	for start < end && pred(&g.all[start]) {
		start++
	}
	for end > start && pred(&g.all[end-1]) {
		end--
	}
	g.kept = Range{start, end}
}

func (g *Glyphs) Last() *ShapedGlyph {
	if g.Len() == 0 {
		return nil
	}
	return &g.all[g.kept.End-1]
}

func (g *Glyphs) First() *ShapedGlyph {
	if g.Len() == 0 {
		return nil
	}
	return &g.all[g.kept.Start]
}

// ShapedText is the shaper's output for one direction/script/font run
// within a paragraph.
type ShapedText struct {
	Base   int // byte offset within the paragraph's full text
	Text   string
	Dir    Dir
	Lang   string
	Variant font.Variant
	Glyphs *Glyphs
}

func (s *ShapedText) Width() layout.Abs {
	var total layout.Abs
	for _, g := range s.Glyphs.Kept() {
		total += g.XAdvance.Resolve(g.Size)
	}
	return total
}

func (s *ShapedText) Justifiables() int {
	n := 0
	for _, g := range s.Glyphs.Kept() {
		if g.IsJustifiable {
			n++
		}
	}
	return n
}

func (s *ShapedText) Stretchability() layout.Abs {
	var total layout.Abs
	for _, g := range s.Glyphs.Kept() {
		total += g.Adjustability.Stretch().Resolve(g.Size)
	}
	return total
}

func (s *ShapedText) Shrinkability() layout.Abs {
	var total layout.Abs
	for _, g := range s.Glyphs.Kept() {
		total += g.Adjustability.Shrink().Resolve(g.Size)
	}
	return total
}

// CJKJustifiableAtLast reports whether the line's final glyph is a CJK
// character or CJK punctuation mark, which the justifier excludes from
// the trailing justifiable count.
func (s *ShapedText) CJKJustifiableAtLast() bool {
	last := s.Glyphs.Last()
	if last == nil {
		return false
	}
	return last.IsCJScript() || isCJKPunctuation(last.Char, CJKPunctGB)
}

// Item is one element of a prepared paragraph: a shaped text run,
// absolute or fractional spacing, an embedded inline-level frame (an
// inline box/equation), or a tag marker.
type Item interface {
	isItem()
	NaturalWidth() layout.Abs
}

type TextItem struct{ Shaped *ShapedText }

func (*TextItem) isItem() {}
func (t *TextItem) NaturalWidth() layout.Abs {
	if t.Shaped == nil {
		return 0
	}
	return t.Shaped.Width()
}

type AbsoluteItem struct {
	Amount layout.Abs
	Weak   bool
}

func (*AbsoluteItem) isItem() {}
func (a *AbsoluteItem) NaturalWidth() layout.Abs { return a.Amount }

type FractionalItem struct{ Amount layout.Fr }

func (*FractionalItem) isItem()                   {}
func (*FractionalItem) NaturalWidth() layout.Abs { return 0 }

// InlineFrameItem is a pre-laid-out inline-level frame (an inline box or
// image) embedded in the text flow as an opaque object-replacement unit.
type InlineFrameItem struct {
	Frame *layout.Frame
}

func (*InlineFrameItem) isItem() {}
func (f *InlineFrameItem) NaturalWidth() layout.Abs {
	if f.Frame == nil {
		return 0
	}
	return f.Frame.Width()
}

type TagItem struct{ Tag content.TagElem }

func (*TagItem) isItem()                   {}
func (*TagItem) NaturalWidth() layout.Abs { return 0 }

// Dash records whether a line ends in a hyphen and, if so, what kind,
// deciding whether the next line must repeat it.
type Dash uint8

const (
	DashNone Dash = iota
	DashSoft
	DashHard
	DashOther
)

// Line is one candidate or committed line of a paragraph.
type Line struct {
	Items   []Item
	Width   layout.Abs
	Justify bool
	Dash    Dash
}

func EmptyLine() Line { return Line{} }

func (l *Line) Justifiables() int {
	n := 0
	var lastShaped *ShapedText
	for _, it := range l.Items {
		if ti, ok := it.(*TextItem); ok && ti.Shaped != nil {
			n += ti.Shaped.Justifiables()
			lastShaped = ti.Shaped
		}
	}
	if lastShaped != nil && lastShaped.CJKJustifiableAtLast() {
		n--
	}
	if n < 0 {
		n = 0
	}
	return n
}

func (l *Line) Stretchability() layout.Abs {
	var total layout.Abs
	for _, it := range l.Items {
		if ti, ok := it.(*TextItem); ok && ti.Shaped != nil {
			total += ti.Shaped.Stretchability()
		}
	}
	return total
}

func (l *Line) Shrinkability() layout.Abs {
	var total layout.Abs
	for _, it := range l.Items {
		if ti, ok := it.(*TextItem); ok && ti.Shaped != nil {
			total += ti.Shaped.Shrinkability()
		}
	}
	return total
}

func (l *Line) HasNegativeWidthItems() bool {
	for _, it := range l.Items {
		if a, ok := it.(*AbsoluteItem); ok && a.Amount < 0 {
			return true
		}
	}
	return false
}

func (l *Line) Fr() layout.Fr {
	var total layout.Fr
	for _, it := range l.Items {
		if f, ok := it.(*FractionalItem); ok {
			total += f.Amount
		}
	}
	return total
}

func (l *Line) LeadingText() *ShapedText {
	for _, it := range l.Items {
		switch v := it.(type) {
		case *TextItem:
			if v.Shaped != nil {
				return v.Shaped
			}
		case *TagItem:
			continue
		default:
			return nil
		}
	}
	return nil
}

func (l *Line) TrailingText() *ShapedText {
	for i := len(l.Items) - 1; i >= 0; i-- {
		switch v := l.Items[i].(type) {
		case *TextItem:
			if v.Shaped != nil {
				return v.Shaped
			}
		case *TagItem:
			continue
		default:
			return nil
		}
	}
	return nil
}

// Costs scales the default hyphenation/runt penalties the optimized
// line breaker applies; exposed per paragraph so a style chain property
// can tune them without touching the algorithm.
type Costs struct {
	Hyphenation float64
	Runt        float64
}

func DefaultCosts() Costs { return Costs{Hyphenation: 1, Runt: 1} }

// Config is the resolved set of paragraph-level settings the shaper and
// line breaker read, derived once from a content.StyleChain rather than
// re-walked per item.
type Config struct {
	Justify         bool
	Linebreaks      content.LinebreakAlgorithm
	FirstLineIndent layout.Abs
	HangingIndent   layout.Abs
	Align           layout.HAlign
	FontSize        layout.Abs
	Leading         layout.Abs
	Dir             Dir
	Hyphenate       *bool
	Lang            string
	Fallback        bool
	CJKLatinSpacing bool
	Costs           Costs
	Fill            content.Paint
}

// PreparedItem associates a byte range in the paragraph's full text with
// the item occupying it.
type PreparedItem struct {
	Range Range
	Item  Item
}

// LinkRange records that the text in Range (paragraph byte offsets) is
// the body of a link, so Commit can annotate each line's covering glyph
// span with a layout.LinkItem. Commit emits one annotation per shaped
// run the link covers, so a link whose body breaks across lines yields
// at least one annotation per line.
type LinkRange struct {
	URL   string
	Range Range
}

// Preparation is the paragraph, fully shaped and ready for the line
// breaker: the flattened text, the prepared items over it, and the
// resolved config.
type Preparation struct {
	Text   string
	Items  []PreparedItem
	Links  []LinkRange
	Config *Config
}

func isSpace(c rune) bool { return c == ' ' || c == ' ' || c == '　' }
