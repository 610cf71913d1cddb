package inline

import (
	"testing"

	"github.com/glyphworks/typeset/font"
	"github.com/glyphworks/typeset/layout"
)

func TestClassifyScript(t *testing.T) {
	tests := []struct {
		name string
		c    rune
		want Script
	}{
		{"latin", 'a', ScriptLatin},
		{"han", '中', ScriptHan},
		{"hiragana", 'あ', ScriptHiragana},
		{"katakana", 'ア', ScriptKatakana},
		{"greek", 'α', ScriptGreek},
		{"cyrillic", 'я', ScriptCyrillic},
		{"arabic", 'ا', ScriptArabic},
		{"hebrew", 'א', ScriptHebrew},
		{"digit falls back to common", '5', ScriptCommon},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyScript(tc.c); got != tc.want {
				t.Errorf("classifyScript(%q) = %v, want %v", tc.c, got, tc.want)
			}
		})
	}
}

func TestToFixed(t *testing.T) {
	if got := toFixed(12.0); got.Round() != 12 {
		t.Errorf("toFixed(12.0).Round() = %d, want 12", got.Round())
	}
}

func TestContainsFont(t *testing.T) {
	a, b := &font.Font{}, &font.Font{}
	fonts := []*font.Font{a}

	if !containsFont(fonts, a) {
		t.Error("expected a to be found")
	}
	if containsFont(fonts, b) {
		t.Error("b was never added, should not be found")
	}
	if containsFont(nil, a) {
		t.Error("empty slice should never contain anything")
	}
}

func TestBaseAdjustabilitySpace(t *testing.T) {
	g := &ShapedGlyph{Char: ' ', XAdvance: 1}
	adj := baseAdjustability(g, CJKPunctGB, true)
	if adj.StretchRight != 0.5 {
		t.Errorf("space StretchRight = %v, want 0.5", adj.StretchRight)
	}
	if adj.ShrinkRight <= 0 {
		t.Error("space should have positive ShrinkRight")
	}
}

func TestBaseAdjustabilityCJKAlignment(t *testing.T) {
	left := baseAdjustability(&ShapedGlyph{Char: '，', XAdvance: 1}, CJKPunctGB, false)
	if left.ShrinkRight != 0.5 || left.ShrinkLeft != 0 {
		t.Errorf("left-aligned punctuation adjustability = %+v", left)
	}

	right := baseAdjustability(&ShapedGlyph{Char: '（', XAdvance: 1}, CJKPunctGB, false)
	if right.ShrinkLeft != 0.5 || right.ShrinkRight != 0 {
		t.Errorf("right-aligned punctuation adjustability = %+v", right)
	}
}

func TestBaseAdjustabilityOrdinaryGlyph(t *testing.T) {
	notStretchable := baseAdjustability(&ShapedGlyph{Char: 'a', XAdvance: 1}, CJKPunctGB, false)
	if notStretchable != (Adjustability{}) {
		t.Errorf("a non-stretchable ordinary glyph should have zero adjustability, got %+v", notStretchable)
	}

	stretchable := baseAdjustability(&ShapedGlyph{Char: 'a', XAdvance: 1}, CJKPunctGB, true)
	if stretchable.StretchRight <= 0 {
		t.Error("a word-final Latin glyph should carry a little stretch")
	}
}

func TestCalculateAdjustabilityCompressesCJKPunctuationPair(t *testing.T) {
	ctx := &ShapingContext{Size: layout.Abs(10)}
	ctx.glyphs = []ShapedGlyph{
		{Char: '中', XAdvance: 1, Range: Range{0, 1}},
		{Char: '，', XAdvance: 1, Range: Range{1, 2}},
		{Char: '。', XAdvance: 1, Range: Range{2, 3}},
	}
	ctx.calculateAdjustability("zh")

	mid := ctx.glyphs[1]
	if mid.Adjustability.ShrinkRight >= 0.5 {
		t.Errorf("compressing the pair should consume the first glyph's right shrink, got ShrinkRight=%v", mid.Adjustability.ShrinkRight)
	}
	last := ctx.glyphs[2]
	if got := mid.XAdvance + last.XAdvance; got != 1.5 {
		t.Errorf("the pair's combined advance should shrink by half an em, got %v, want 1.5", got)
	}
}

func TestShapeEmptyText(t *testing.T) {
	ctx := NewShapingContext(nil, nil, layout.Abs(12), font.NormalVariant())
	st := ctx.Shape(5, "", DirLTR, "en")
	if st.Base != 5 || st.Glyphs.Len() != 0 {
		t.Errorf("Shape(\"\") = %+v, want empty glyph run at base 5", st)
	}
}

func TestNewShapingContextDefaults(t *testing.T) {
	ctx := NewShapingContext(nil, nil, layout.Abs(12), font.NormalVariant())
	if ctx.Fallback {
		t.Error("Fallback should be false when no provider is given")
	}
	if ctx.Shaper == nil {
		t.Error("NewShapingContext should always set up a HarfbuzzShaper")
	}
}
