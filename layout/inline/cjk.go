package inline

// CJKPunctStyle selects which of the three regional punctuation-spacing
// conventions a paragraph's CJK compression follows.
type CJKPunctStyle uint8

const (
	CJKPunctGB  CJKPunctStyle = iota // Simplified Chinese
	CJKPunctCNS                      // Traditional Chinese
	CJKPunctJIS                      // Japanese
)

// CJKPunctStyleForLang picks the punctuation style for a BCP-47-ish
// language/region pair, defaulting to GB when neither is recognized.
func CJKPunctStyleForLang(lang, region string) CJKPunctStyle {
	switch lang {
	case "zh":
		if region == "TW" || region == "HK" {
			return CJKPunctCNS
		}
		return CJKPunctGB
	case "ja":
		return CJKPunctJIS
	default:
		return CJKPunctGB
	}
}

func isCJScript(c rune, script Script) bool {
	switch script {
	case ScriptHan, ScriptHiragana, ScriptKatakana:
		return true
	}
	return c == 'ー' // katakana-hiragana prolonged sound mark
}

// isCJKPunctuation reports whether c is any of the three alignment
// classes of CJK punctuation under style.
func isCJKPunctuation(c rune, style CJKPunctStyle) bool {
	return isCJKLeftAligned(c, style) || isCJKRightAligned(c) || isCJKCenterAligned(c, style)
}

func isCJKLeftAligned(c rune, style CJKPunctStyle) bool {
	if (style == CJKPunctGB || style == CJKPunctJIS) &&
		(c == '，' || c == '。' || c == '．' || c == '、' || c == '：' || c == '；') {
		return true
	}
	if style == CJKPunctGB && (c == '？' || c == '！') {
		return true
	}
	switch c {
	case '》', '）', '』', '」', '】', '〗', '〕', '〉', '］', '｝':
		return true
	}
	return false
}

func isCJKRightAligned(c rune) bool {
	switch c {
	case '《', '（', '『', '「', '【', '〖', '〔', '〈', '［', '｛':
		return true
	}
	return false
}

func isCJKCenterAligned(c rune, style CJKPunctStyle) bool {
	if style == CJKPunctCNS &&
		(c == '，' || c == '。' || c == '．' || c == '、' || c == '：' || c == '；') {
		return true
	}
	return c == '・' || c == '·' // katakana middle dot, middle dot
}

// isJustifiable reports whether a glyph participates in justification's
// residual-space distribution: spaces, CJK script characters, and CJK
// punctuation all do; ordinary Latin glyphs don't (their inter-word
// spaces carry the stretch instead).
func isJustifiable(c rune, script Script, style CJKPunctStyle) bool {
	return isSpace(c) || isCJScript(c, script) || isCJKPunctuation(c, style)
}

// isDefaultIgnorable reports whether c is a Unicode default-ignorable
// code point the shaper should skip rather than hand to a font (soft
// hyphens, joiners, bidi controls, variation selectors).
func isDefaultIgnorable(c rune) bool {
	switch {
	case c == 0x00AD:
		return true
	case c == 0x034F:
		return true
	case c >= 0x115F && c <= 0x1160:
		return true
	case c >= 0x17B4 && c <= 0x17B5:
		return true
	case c >= 0x180B && c <= 0x180E:
		return true
	case c >= 0x200B && c <= 0x200F:
		return true
	case c >= 0x202A && c <= 0x202E:
		return true
	case c >= 0x2060 && c <= 0x206F:
		return true
	case c >= 0xFE00 && c <= 0xFE0F:
		return true
	case c == 0xFEFF:
		return true
	case c >= 0xFFF0 && c <= 0xFFF8:
		return true
	}
	return false
}
