package pages

import (
	"strconv"
	"strings"
)

// formatPageNumber renders num according to a single-character pattern:
// "1" (the default) for Arabic numerals, "i"/"I" for lower/upper case
// Roman numerals, "a"/"A" for lower/upper case letters. An unrecognized
// pattern falls back to Arabic.
func formatPageNumber(num int, pattern string) string {
	switch pattern {
	case "i":
		return formatRoman(num)
	case "I":
		return strings.ToUpper(formatRoman(num))
	case "a":
		return formatLetter(num, 'a')
	case "A":
		return formatLetter(num, 'A')
	default:
		return formatArabic(num)
	}
}

func formatArabic(num int) string {
	if num <= 0 {
		return "0"
	}
	return strconv.Itoa(num)
}

// romanNumerals maps subtractive-notation numerals to their values, in
// descending order of value.
var romanNumerals = []struct {
	value   int
	numeral string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

func formatRoman(num int) string {
	if num <= 0 || num > 3999 {
		return formatArabic(num)
	}
	var b strings.Builder
	for _, rn := range romanNumerals {
		for num >= rn.value {
			b.WriteString(rn.numeral)
			num -= rn.value
		}
	}
	return b.String()
}

// formatLetter renders num (1-indexed) as a, b, ..., z, aa, ab, ...
// starting from base ('a' or 'A'). This is bijective base-26: there is
// no zero digit, hence the decrement before each division.
func formatLetter(num int, base byte) string {
	if num <= 0 {
		return string(base)
	}
	var out []byte
	for num > 0 {
		num--
		out = append(out, base+byte(num%26))
		num /= 26
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
