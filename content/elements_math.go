package content

// EquationElement wraps inline math content, either set inline within a
// paragraph or as its own block (a "display" equation).
//
// A full TeX-style box/glue/script model (fractions, radicals, accents,
// stretchy delimiters, scriptstyle cramping) behind a MATH-table-aware
// shaper is out of scope here; equation bodies instead flow through the
// ordinary inline shaper like any other run of styled text, with
// math-specific glyph substitution left as a font/shaping-backend
// concern.
type EquationElement struct {
	Body      Content
	Block     bool
	Numbering string
}

func (*EquationElement) isContentElement() {}
