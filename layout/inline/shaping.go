package inline

import (
	"sync"
	"unicode"

	gotext "github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/glyphworks/typeset/font"
	"github.com/glyphworks/typeset/layout"
)

// ShapingContext is the reusable, per-paragraph state the shaper threads
// through every call to Shape: the HarfBuzz shaper instance, the
// candidate font stack for fallback, and the resolved size/variant/
// feature set a style chain produced once up front.
type ShapingContext struct {
	Shaper   *shaping.HarfbuzzShaper
	Fonts    []*font.Font
	Size     layout.Abs
	Variant  font.Variant
	Features []shaping.FontFeature
	Fallback bool
	Provider font.Provider

	mu     sync.Mutex
	glyphs []ShapedGlyph
	used   []*font.Font
}

func NewShapingContext(fonts []*font.Font, provider font.Provider, size layout.Abs, variant font.Variant) *ShapingContext {
	return &ShapingContext{
		Shaper:   &shaping.HarfbuzzShaper{},
		Fonts:    fonts,
		Provider: provider,
		Size:     size,
		Variant:  variant,
		Fallback: provider != nil,
		glyphs:   make([]ShapedGlyph, 0, 128),
	}
}

// Shape shapes one directionally-uniform run of text starting at byte
// offset base within the paragraph's full text.
func (ctx *ShapingContext) Shape(base int, text string, dir Dir, lang string) *ShapedText {
	if len(text) == 0 {
		return &ShapedText{Base: base, Text: text, Dir: dir, Lang: lang, Variant: ctx.Variant, Glyphs: NewGlyphs(nil)}
	}

	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	ctx.glyphs = ctx.glyphs[:0]
	ctx.used = ctx.used[:0]

	ctx.shapeSegment(base, text, dir, lang)
	ctx.calculateAdjustability(lang)

	out := make([]ShapedGlyph, len(ctx.glyphs))
	copy(out, ctx.glyphs)

	return &ShapedText{Base: base, Text: text, Dir: dir, Lang: lang, Variant: ctx.Variant, Glyphs: NewGlyphs(out)}
}

func (ctx *ShapingContext) shapeSegment(base int, text string, dir Dir, lang string) {
	hasContent := false
	for _, c := range text {
		if c != '\n' && c != '\t' && !isDefaultIgnorable(c) {
			hasContent = true
			break
		}
	}
	if !hasContent {
		return
	}

	face := ctx.pickFont(text)
	if face == nil {
		if len(ctx.Fonts) > 0 {
			ctx.shapeTofus(base, text, dir, ctx.Fonts[0])
		}
		return
	}
	ctx.used = append(ctx.used, face)
	defer func() { ctx.used = ctx.used[:len(ctx.used)-1] }()

	runes := []rune(text)
	direction := gotext.DirectionLTR
	if dir == DirRTL {
		direction = gotext.DirectionRTL
	}

	input := shaping.Input{
		Text:         runes,
		RunStart:     0,
		RunEnd:       len(runes),
		Face:         face.Face(),
		Size:         toFixed(float64(ctx.Size)),
		Direction:    direction,
		FontFeatures: ctx.Features,
	}

	output := ctx.Shaper.Shape(input)

	byteOffset, runeIdx := 0, 0
	for i, glyph := range output.Glyphs {
		cluster := glyph.ClusterIndex

		for runeIdx < cluster && runeIdx < len(runes) {
			byteOffset += len(string(runes[runeIdx]))
			runeIdx++
		}
		start := base + byteOffset

		endRune := len(runes)
		if i+1 < len(output.Glyphs) {
			endRune = output.Glyphs[i+1].ClusterIndex
		}
		endByte := byteOffset
		for r := cluster; r < endRune && r < len(runes); r++ {
			endByte += len(string(runes[r]))
		}
		end := base + endByte

		var c rune
		if cluster < len(runes) {
			c = runes[cluster]
		}

		script := classifyScript(c)
		style := CJKPunctStyleForLang(lang, "")

		ctx.glyphs = append(ctx.glyphs, ShapedGlyph{
			Font:          face,
			GlyphID:       uint16(glyph.GlyphID),
			XAdvance:      layout.Em(float64(glyph.XAdvance) / float64(ctx.Size)),
			XOffset:       layout.Em(float64(glyph.XOffset) / float64(ctx.Size)),
			YOffset:       layout.Em(float64(glyph.YOffset) / float64(ctx.Size)),
			Size:          ctx.Size,
			Range:         Range{Start: start, End: end},
			SafeToBreak:   true,
			Char:          c,
			IsJustifiable: isJustifiable(c, script, style),
			Script:        script,
		})
	}
}

// pickFont returns the first candidate font from the family list that is
// not already in use; candidates from the family list are not checked
// for coverage of text. Once the family list is exhausted it falls back
// to the provider's SelectFallback search, which receives text as its
// sample.
func (ctx *ShapingContext) pickFont(text string) *font.Font {
	for _, f := range ctx.Fonts {
		if f != nil && !containsFont(ctx.used, f) {
			return f
		}
	}
	if ctx.Fallback && ctx.Provider != nil && len(ctx.Fonts) > 0 {
		if f, ok := ctx.Provider.SelectFallback(ctx.Fonts[0], ctx.Variant, text); ok {
			return f
		}
	}
	return nil
}

// shapeTofus emits placeholder glyphs of a fixed notional width when no
// font could shape the run at all, so line breaking still has something
// to measure instead of silently losing the text.
func (ctx *ShapingContext) shapeTofus(base int, text string, dir Dir, face *font.Font) {
	xAdvance := layout.Em(0.5)
	add := func(start int, c rune) {
		script := classifyScript(c)
		style := CJKPunctStyleForLang("", "")
		ctx.glyphs = append(ctx.glyphs, ShapedGlyph{
			Font: face, GlyphID: 0, XAdvance: xAdvance, Size: ctx.Size,
			Range: Range{Start: base + start, End: base + start + len(string(c))},
			SafeToBreak: true, Char: c, IsJustifiable: isJustifiable(c, script, style), Script: script,
		})
	}
	if dir.IsPositive() {
		idx := 0
		for _, c := range text {
			add(idx, c)
			idx += len(string(c))
		}
	} else {
		runes := []rune(text)
		idx := len(text)
		for i := len(runes) - 1; i >= 0; i-- {
			idx -= len(string(runes[i]))
			add(idx, runes[i])
		}
	}
}

// calculateAdjustability assigns each glyph its stretch/shrink budget
// and then compresses adjacent CJK punctuation pairs, splitting the
// compression between the two glyphs' shrink budgets.
func (ctx *ShapingContext) calculateAdjustability(lang string) {
	style := CJKPunctStyleForLang(lang, "")
	for i := range ctx.glyphs {
		g := &ctx.glyphs[i]
		stretchable := i+1 >= len(ctx.glyphs) || g.Range.Start != ctx.glyphs[i+1].Range.Start
		g.Adjustability = baseAdjustability(g, style, stretchable)
	}

	for i := 0; i < len(ctx.glyphs)-1; i++ {
		g := &ctx.glyphs[i]
		if style == CJKPunctCNS && isCJKPunctuation(g.Char, style) {
			continue
		}
		next := &ctx.glyphs[i+1]
		if !(isCJKPunctuation(g.Char, style) && isCJKPunctuation(next.Char, style)) {
			continue
		}
		delta := g.XAdvance / 2
		total := g.Adjustability.ShrinkRight + next.Adjustability.ShrinkLeft
		if total < delta {
			continue
		}
		left := g.Adjustability.ShrinkRight
		if left > delta {
			left = delta
		}
		g.ShrinkRightBy(left)
		next.ShrinkLeftBy(delta - left)
	}
}

func baseAdjustability(g *ShapedGlyph, style CJKPunctStyle, stretchable bool) Adjustability {
	width := g.XAdvance
	limited := func(v layout.Em) layout.Em {
		if max := width * 0.75; v > max {
			return max
		}
		return v
	}

	switch {
	case g.IsSpace():
		return Adjustability{StretchRight: width * 0.5, ShrinkRight: limited(width * 0.33)}
	case isCJKLeftAligned(g.Char, style):
		return Adjustability{ShrinkRight: width / 2}
	case isCJKRightAligned(g.Char):
		return Adjustability{ShrinkLeft: width / 2}
	case isCJKCenterAligned(g.Char, style):
		return Adjustability{ShrinkLeft: width / 4, ShrinkRight: width / 4}
	case stretchable:
		return Adjustability{StretchRight: width * 0.02, ShrinkRight: limited(width * 0.02)}
	default:
		return Adjustability{}
	}
}

// ShapeBidi splits text[start:end] into bidi runs via para and shapes
// each in its resolved direction, returning them in visual order.
func (ctx *ShapingContext) ShapeBidi(text string, base, start, end int, para *bidi.Paragraph, lang string) []*ShapedText {
	if start >= end {
		return nil
	}
	ordering, err := para.Order()
	if err != nil {
		return []*ShapedText{ctx.Shape(base+start, text[start:end], DirLTR, lang)}
	}

	var out []*ShapedText
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		runStart, runEnd := run.Pos()
		if runStart < start {
			runStart = start
		}
		if runEnd > end {
			runEnd = end
		}
		if runStart >= runEnd {
			continue
		}
		dir := DirLTR
		if run.Direction() == bidi.RightToLeft {
			dir = DirRTL
		}
		out = append(out, ctx.Shape(base+runStart, text[runStart:runEnd], dir, lang))
	}
	return out
}

func containsFont(fonts []*font.Font, f *font.Font) bool {
	for _, c := range fonts {
		if c == f {
			return true
		}
	}
	return false
}

func toFixed(f float64) fixed.Int26_6 { return fixed.Int26_6(f * 64) }

// classifyScript maps a rune to the coarse Script classification the
// line breaker and shaper need, using stdlib unicode range tables rather
// than pulling in a dedicated script-detection dependency for one lookup.
func classifyScript(c rune) Script {
	switch {
	case unicode.In(c, unicode.Han):
		return ScriptHan
	case unicode.In(c, unicode.Hiragana):
		return ScriptHiragana
	case unicode.In(c, unicode.Katakana):
		return ScriptKatakana
	case unicode.In(c, unicode.Latin):
		return ScriptLatin
	case unicode.In(c, unicode.Greek):
		return ScriptGreek
	case unicode.In(c, unicode.Cyrillic):
		return ScriptCyrillic
	case unicode.In(c, unicode.Arabic):
		return ScriptArabic
	case unicode.In(c, unicode.Hebrew):
		return ScriptHebrew
	default:
		return ScriptCommon
	}
}
