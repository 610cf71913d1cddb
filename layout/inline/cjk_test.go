package inline

import "testing"

func TestCJKPunctStyleForLang(t *testing.T) {
	tests := []struct {
		lang, region string
		want         CJKPunctStyle
	}{
		{"zh", "", CJKPunctGB},
		{"zh", "TW", CJKPunctCNS},
		{"zh", "HK", CJKPunctCNS},
		{"zh", "CN", CJKPunctGB},
		{"ja", "", CJKPunctJIS},
		{"en", "", CJKPunctGB},
		{"", "", CJKPunctGB},
	}

	for _, tc := range tests {
		if got := CJKPunctStyleForLang(tc.lang, tc.region); got != tc.want {
			t.Errorf("CJKPunctStyleForLang(%q, %q) = %v, want %v", tc.lang, tc.region, got, tc.want)
		}
	}
}

func TestIsCJScript(t *testing.T) {
	tests := []struct {
		name   string
		c      rune
		script Script
		want   bool
	}{
		{"han", '中', ScriptHan, true},
		{"hiragana", 'あ', ScriptHiragana, true},
		{"katakana", 'ア', ScriptKatakana, true},
		{"prolonged sound mark", 'ー', ScriptCommon, true},
		{"latin", 'a', ScriptLatin, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isCJScript(tc.c, tc.script); got != tc.want {
				t.Errorf("isCJScript(%q, %v) = %v, want %v", tc.c, tc.script, got, tc.want)
			}
		})
	}
}

func TestIsCJKPunctuationAlignment(t *testing.T) {
	if !isCJKLeftAligned('，', CJKPunctGB) {
		t.Error("GB comma should be left-aligned")
	}
	if !isCJKRightAligned('（') {
		t.Error("opening paren should be right-aligned regardless of style")
	}
	if !isCJKCenterAligned('，', CJKPunctCNS) {
		t.Error("CNS comma should be center-aligned")
	}
	if isCJKCenterAligned('，', CJKPunctGB) {
		t.Error("GB comma should not be center-aligned")
	}
	if !isCJKPunctuation('、', CJKPunctJIS) {
		t.Error("JIS ideographic comma should count as punctuation")
	}
}

func TestIsJustifiable(t *testing.T) {
	if !isJustifiable(' ', ScriptCommon, CJKPunctGB) {
		t.Error("space should be justifiable")
	}
	if !isJustifiable('中', ScriptHan, CJKPunctGB) {
		t.Error("Han glyph should be justifiable")
	}
	if isJustifiable('a', ScriptLatin, CJKPunctGB) {
		t.Error("plain Latin glyph should not be justifiable")
	}
}

func TestIsDefaultIgnorable(t *testing.T) {
	tests := []struct {
		name string
		c    rune
		want bool
	}{
		{"soft hyphen", 0x00AD, true},
		{"zero width space", 0x200B, true},
		{"variation selector", 0xFE0F, true},
		{"byte order mark", 0xFEFF, true},
		{"ordinary letter", 'a', false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isDefaultIgnorable(tc.c); got != tc.want {
				t.Errorf("isDefaultIgnorable(%U) = %v, want %v", tc.c, got, tc.want)
			}
		})
	}
}
