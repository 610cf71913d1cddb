package inline

import (
	"testing"

	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/layout"
)

func TestOverhang(t *testing.T) {
	tests := []struct {
		name string
		c    rune
		want float64
	}{
		{"en dash", '–', 0.2},
		{"em dash", '—', 0.2},
		{"hyphen", '-', 0.55},
		{"soft hyphen", '­', 0.55},
		{"period", '.', 0.8},
		{"comma", ',', 0.8},
		{"colon", ':', 0.3},
		{"arabic comma", '،', 0.4},
		{"ordinary letter", 'a', 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := overhang(tc.c); got != tc.want {
				t.Errorf("overhang(%q) = %v, want %v", tc.c, got, tc.want)
			}
		})
	}
}

func TestFrShare(t *testing.T) {
	if got := frShare(1, 0, 100); got != 0 {
		t.Errorf("frShare with zero total should be 0, got %v", got)
	}
	if got, want := frShare(1, 2, 100), layout.Abs(50); got != want {
		t.Errorf("frShare(1, 2, 100) = %v, want %v", got, want)
	}
}

func TestAlignPosition(t *testing.T) {
	tests := []struct {
		align layout.HAlign
		want  layout.Abs
	}{
		{layout.HAlignStart, 0},
		{layout.HAlignLeft, 0},
		{layout.HAlignCenter, 10},
		{layout.HAlignEnd, 20},
		{layout.HAlignRight, 20},
	}
	for _, tc := range tests {
		if got := alignPosition(tc.align, 20); got != tc.want {
			t.Errorf("alignPosition(%v, 20) = %v, want %v", tc.align, got, tc.want)
		}
	}
}

func TestBuildTextFrameWidthAndGlyphCount(t *testing.T) {
	size := layout.Abs(10)
	shaped := &ShapedText{
		Lang: "en",
		Glyphs: NewGlyphs([]ShapedGlyph{
			{GlyphID: 1, XAdvance: 0.5, Size: size, Range: Range{0, 1}},
			{GlyphID: 2, XAdvance: 0.5, Size: size, Range: Range{1, 2}},
		}),
	}

	frame := buildTextFrame(shaped, 0, 0, content.RGB(0, 0, 0), nil)
	if got, want := frame.Width(), layout.Abs(10); got != want {
		t.Errorf("Width() = %v, want %v", got, want)
	}
	if frame.Height() <= 0 {
		t.Error("frame should have non-zero height from the line-height approximation")
	}
}

func TestBuildTextFrameLinkAnnotation(t *testing.T) {
	size := layout.Abs(10)
	shaped := &ShapedText{
		Glyphs: NewGlyphs([]ShapedGlyph{
			{GlyphID: 1, XAdvance: 0.5, Size: size, Range: Range{0, 1}},
			{GlyphID: 2, XAdvance: 0.5, Size: size, Range: Range{1, 2}},
			{GlyphID: 3, XAdvance: 0.5, Size: size, Range: Range{2, 3}},
		}),
	}
	links := []LinkRange{{URL: "https://example.org", Range: Range{1, 3}}}

	frame := buildTextFrame(shaped, 0, 0, nil, links)

	var found *layout.LinkItem
	var pos layout.Point
	for _, entry := range frame.Items() {
		if li, ok := entry.Item.(layout.LinkItem); ok {
			found = &li
			pos = entry.Position
		}
	}
	if found == nil {
		t.Fatal("expected a LinkItem covering the linked glyphs")
	}
	if found.Dest != "https://example.org" {
		t.Errorf("Dest = %q", found.Dest)
	}
	if pos.X != 5 {
		t.Errorf("link should start after the first glyph at x=5, got %v", pos.X)
	}
	if found.Size.Width != 10 {
		t.Errorf("link should span the last two glyphs (10pt), got %v", found.Size.Width)
	}
}

func TestBuildTextFrameLinkOutsideRun(t *testing.T) {
	size := layout.Abs(10)
	shaped := &ShapedText{
		Glyphs: NewGlyphs([]ShapedGlyph{
			{GlyphID: 1, XAdvance: 0.5, Size: size, Range: Range{0, 1}},
		}),
	}
	links := []LinkRange{{URL: "https://example.org", Range: Range{5, 9}}}

	frame := buildTextFrame(shaped, 0, 0, nil, links)
	for _, entry := range frame.Items() {
		if _, ok := entry.Item.(layout.LinkItem); ok {
			t.Fatal("a link range not touching this run must not annotate it")
		}
	}
}

func TestBuildTextFrameJustificationStretch(t *testing.T) {
	size := layout.Abs(10)
	shaped := &ShapedText{
		Glyphs: NewGlyphs([]ShapedGlyph{
			{GlyphID: 1, XAdvance: 0.5, Size: size, Adjustability: Adjustability{StretchRight: 0.1}, Range: Range{0, 1}},
		}),
	}

	base := buildTextFrame(shaped, 0, 0, nil, nil)
	stretched := buildTextFrame(shaped, 1.0, 0, nil, nil)
	if stretched.Width() <= base.Width() {
		t.Errorf("a positive justification ratio should widen the frame: base=%v stretched=%v", base.Width(), stretched.Width())
	}
}

// Three words at a width wider than their natural extent: the residual
// distributes equally over the two justifiable spaces and the line lands
// exactly on the target width.
func TestCommitJustifiedLineHitsTargetWidth(t *testing.T) {
	size := layout.Abs(1) // em units read as points directly
	var glyphs []ShapedGlyph
	text := "abc def ghi"
	for i, r := range text {
		g := ShapedGlyph{
			GlyphID:  uint16(i + 1),
			XAdvance: 6,
			Size:     size,
			Range:    Range{i, i + 1},
			Char:     r,
		}
		if r == ' ' {
			g.XAdvance = 3
			g.IsJustifiable = true
		}
		glyphs = append(glyphs, g)
	}
	shaped := &ShapedText{Text: text, Dir: DirLTR, Glyphs: NewGlyphs(glyphs)}

	p := &Preparation{
		Text:   text,
		Config: &Config{Justify: true, Align: layout.HAlignLeft, Dir: DirLTR},
	}
	line := Line{
		Items:   []Item{&TextItem{Shaped: shaped}},
		Width:   60, // 9 chars at 6pt + 2 spaces at 3pt
		Justify: true,
	}

	frame := Commit(p, &line, 70, 0, false)

	var run *layout.TextItem
	var walk func(f *layout.Frame)
	walk = func(f *layout.Frame) {
		for _, entry := range f.Items() {
			switch it := entry.Item.(type) {
			case layout.TextItem:
				run = &it
			case layout.GroupItem:
				walk(it.Frame)
			}
		}
	}
	walk(frame)
	if run == nil {
		t.Fatal("no text run in committed line")
	}

	var total layout.Abs
	var gaps []layout.Abs
	for i, g := range run.Glyphs {
		adv := g.XAdvance.Resolve(size)
		total += adv
		if text[glyphs[i].Range.Start] == ' ' {
			gaps = append(gaps, adv)
		}
	}
	if !total.ApproxEq(70) {
		t.Errorf("justified line width = %v, want exactly 70", total)
	}
	if len(gaps) != 2 {
		t.Fatalf("want 2 word gaps, got %d", len(gaps))
	}
	if !gaps[0].ApproxEq(gaps[1]) {
		t.Errorf("word gaps should expand equally: %v vs %v", gaps[0], gaps[1])
	}
	if !gaps[0].ApproxEq(8) {
		t.Errorf("each gap = %v, want 3 + 10/2 = 8", gaps[0])
	}
}

func TestHyphenRepeatsAtLineStart(t *testing.T) {
	tests := []struct {
		name string
		lang string
		next rune
		want bool
	}{
		{"lower sorbian", "dsb", 'a', true},
		{"czech", "cs", 'A', true},
		{"croatian", "hr", 'a', true},
		{"polish", "pl", 'z', true},
		{"portuguese", "pt", 'A', true},
		{"slovak", "sk", 'a', true},
		{"spanish lowercase continuation", "es", 'a', true},
		{"spanish capitalized continuation", "es", 'A', false},
		{"spanish no continuation", "es", 0, false},
		{"english", "en", 'a', false},
		{"unset language", "", 'a', false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := hyphenRepeatsAtLineStart(tc.lang, tc.next); got != tc.want {
				t.Errorf("hyphenRepeatsAtLineStart(%q, %q) = %v, want %v", tc.lang, tc.next, got, tc.want)
			}
		})
	}
}

func TestLineStartRune(t *testing.T) {
	size := layout.Abs(10)
	line := Line{Items: []Item{&TextItem{Shaped: &ShapedText{
		Glyphs: NewGlyphs([]ShapedGlyph{{XAdvance: 0.5, Size: size, Range: Range{0, 1}, Char: 'q'}}),
	}}}}
	if got := lineStartRune(&line); got != 'q' {
		t.Errorf("lineStartRune = %q, want 'q'", got)
	}
	empty := EmptyLine()
	if got := lineStartRune(&empty); got != 0 {
		t.Errorf("lineStartRune of an empty line = %q, want 0", got)
	}
}

func TestRepeatedHyphenFrameDegenerateLines(t *testing.T) {
	empty := EmptyLine()
	if repeatedHyphenFrame(&empty, nil) != nil {
		t.Error("a line with no text has nothing to take the hyphen's font from")
	}

	// A glyph without a font (tofu emission with no face at all) can't
	// look up a hyphen glyph either.
	line := Line{Items: []Item{&TextItem{Shaped: &ShapedText{
		Glyphs: NewGlyphs([]ShapedGlyph{{XAdvance: 0.5, Size: 10, Range: Range{0, 1}, Char: 'a'}}),
	}}}}
	if repeatedHyphenFrame(&line, nil) != nil {
		t.Error("a fontless run cannot synthesize a hyphen glyph")
	}
}

func TestCommitRepeatHyphenWithoutFontIsHarmless(t *testing.T) {
	size := layout.Abs(10)
	shaped := &ShapedText{
		Glyphs: NewGlyphs([]ShapedGlyph{{GlyphID: 1, XAdvance: 0.5, Size: size, Range: Range{0, 1}, Char: 'a'}}),
	}
	p := &Preparation{Config: &Config{Align: layout.HAlignLeft, Dir: DirLTR}}
	line := Line{Items: []Item{&TextItem{Shaped: shaped}}, Width: 5}

	plain := Commit(p, &line, 40, 0, false)
	repeated := Commit(p, &line, 40, 0, true)
	if plain.Width() != repeated.Width() || len(plain.Items()) != len(repeated.Items()) {
		t.Error("with no usable font the repeat flag must not change the committed line")
	}
}

func TestBuildTextFrameEmpty(t *testing.T) {
	shaped := &ShapedText{Glyphs: NewGlyphs(nil)}
	frame := buildTextFrame(shaped, 0, 0, nil, nil)
	if frame.Width() != 0 {
		t.Errorf("empty shaped text should produce a zero-width frame, got %v", frame.Width())
	}
}
