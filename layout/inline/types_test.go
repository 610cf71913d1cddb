package inline

import (
	"testing"

	"github.com/glyphworks/typeset/layout"
)

func TestRangeContains(t *testing.T) {
	r := Range{Start: 5, End: 10}

	tests := []struct {
		index    int
		expected bool
	}{
		{4, false},
		{5, true},
		{7, true},
		{9, true},
		{10, false},
		{11, false},
	}

	for _, tc := range tests {
		got := r.Contains(tc.index)
		if got != tc.expected {
			t.Errorf("Range{5,10}.Contains(%d) = %v, want %v", tc.index, got, tc.expected)
		}
	}
}

func TestAdjustabilityTotals(t *testing.T) {
	a := Adjustability{StretchLeft: 1, StretchRight: 2, ShrinkLeft: 0.5, ShrinkRight: 0.25}
	if got := a.Stretch(); got != 3 {
		t.Errorf("Stretch() = %v, want 3", got)
	}
	if got := a.Shrink(); got != 0.75 {
		t.Errorf("Shrink() = %v, want 0.75", got)
	}
}

func TestGlyphsTrim(t *testing.T) {
	g := NewGlyphs([]ShapedGlyph{
		{Char: ' '},
		{Char: 'a'},
		{Char: 'b'},
		{Char: ' '},
	})
	g.Trim(func(s *ShapedGlyph) bool { return s.IsSpace() })

	if got := g.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if g.First().Char != 'a' || g.Last().Char != 'b' {
		t.Errorf("Trim didn't keep the inner run: first=%q last=%q", g.First().Char, g.Last().Char)
	}
}

func TestGlyphsTrimEmpty(t *testing.T) {
	g := NewGlyphs(nil)
	if !g.IsEmpty() {
		t.Fatal("expected empty Glyphs to report IsEmpty")
	}
	if g.First() != nil || g.Last() != nil {
		t.Error("First/Last on empty Glyphs should be nil")
	}
}

func TestShapedTextWidth(t *testing.T) {
	size := layout.Abs(10)
	st := &ShapedText{Glyphs: NewGlyphs([]ShapedGlyph{
		{XAdvance: 0.5, Size: size},
		{XAdvance: 1.0, Size: size},
	})}
	if got, want := st.Width(), layout.Abs(15); got != want {
		t.Errorf("Width() = %v, want %v", got, want)
	}
}

func TestShapedTextJustifiables(t *testing.T) {
	st := &ShapedText{Glyphs: NewGlyphs([]ShapedGlyph{
		{IsJustifiable: true},
		{IsJustifiable: false},
		{IsJustifiable: true},
	})}
	if got := st.Justifiables(); got != 2 {
		t.Errorf("Justifiables() = %d, want 2", got)
	}
}

func TestLineFr(t *testing.T) {
	l := &Line{Items: []Item{
		&FractionalItem{Amount: 1},
		&AbsoluteItem{Amount: 5},
		&FractionalItem{Amount: 2},
	}}
	if got, want := l.Fr(), layout.Fr(3); got != want {
		t.Errorf("Fr() = %v, want %v", got, want)
	}
}

func TestLineHasNegativeWidthItems(t *testing.T) {
	l := &Line{Items: []Item{&AbsoluteItem{Amount: -1}}}
	if !l.HasNegativeWidthItems() {
		t.Error("expected negative AbsoluteItem to be detected")
	}

	l2 := &Line{Items: []Item{&AbsoluteItem{Amount: 1}}}
	if l2.HasNegativeWidthItems() {
		t.Error("positive AbsoluteItem should not count as negative")
	}
}

func TestLineLeadingTrailingText(t *testing.T) {
	inner := &ShapedText{Glyphs: NewGlyphs(nil)}
	l := &Line{Items: []Item{
		&TagItem{},
		&TextItem{Shaped: inner},
		&AbsoluteItem{Amount: 1},
	}}
	if l.LeadingText() != inner {
		t.Error("LeadingText should skip a leading TagItem and find the text run")
	}
	if l.TrailingText() != nil {
		t.Error("TrailingText should stop at the trailing AbsoluteItem and find nothing")
	}
}

func TestDefaultCosts(t *testing.T) {
	c := DefaultCosts()
	if c.Hyphenation != 1 || c.Runt != 1 {
		t.Errorf("DefaultCosts() = %+v, want {1 1}", c)
	}
}
