// Package layout is the typesetting engine: it turns a realized
// content.Content tree plus a region description into paginated frames of
// positioned glyphs, shapes, and images.
package layout

import "math"

// Abs is an absolute length in points, the unit every resolved layout
// quantity is expressed in once content.Length's em-component has been
// resolved against a font size.
type Abs float64

const (
	Pt Abs = 1.0
	Mm Abs = 2.8346456692913
	Cm Abs = 28.346456692913
	In Abs = 72.0
)

// Inf is the saturating infinity sentinel for Abs arithmetic, mirroring
// content.Inf so a Region can represent "unbounded" without actual
// floating-point infinity leaking into frame geometry.
const Inf Abs = 1e18

func (a Abs) IsZero() bool     { return a == 0 }
func (a Abs) IsFinite() bool   { return a < Inf && a > -Inf }
func (a Abs) Abs() Abs {
	if a < 0 {
		return -a
	}
	return a
}
func (a Abs) Min(b Abs) Abs {
	if a < b {
		return a
	}
	return b
}
func (a Abs) Max(b Abs) Abs {
	if a > b {
		return a
	}
	return b
}
func (a Abs) Clamp(lo, hi Abs) Abs {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

// Fits reports whether a value of this width fits within a, allowing a
// small epsilon of slack for floating-point rounding accumulated over a
// long line of glyph advances.
func (a Abs) Fits(value Abs) bool { return value <= a+1e-6 }

// ApproxEq reports whether a and b differ by less than a tolerance tight
// enough to treat as equal once line-width arithmetic has accumulated
// rounding error across many glyphs, but loose enough not to paper over a
// genuine overflow/underflow.
func (a Abs) ApproxEq(b Abs) bool { return (a - b).Abs() < 1e-4 }

// Fr is a fractional unit, the layout-engine-local mirror of
// content.Fraction once a paragraph/stack/grid has resolved how much
// leftover space each fr share is worth.
type Fr float64

// Point is a 2D position in layout coordinates, top-left origin.
type Point struct{ X, Y Abs }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Size is 2D dimensions.
type Size struct{ Width, Height Abs }

func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Axes is a generic horizontal/vertical pair.
type Axes[T any] struct{ X, Y T }

// Sides bundles four independently resolvable per-edge values.
type Sides[T any] struct{ Left, Top, Right, Bottom T }

func SidesSplat[T any](v T) Sides[T] { return Sides[T]{v, v, v, v} }

// Corners bundles four per-corner values (e.g. border radii).
type Corners[T any] struct{ TopLeft, TopRight, BottomRight, BottomLeft T }

func CornersSplat[T any](v T) Corners[T] { return Corners[T]{v, v, v, v} }

func SumHorizontal(s Sides[Abs]) Abs { return s.Left + s.Right }
func SumVertical(s Sides[Abs]) Abs   { return s.Top + s.Bottom }

// Ratio is a resolved fraction of some base quantity.
type Ratio float64

func (r Ratio) Resolve(whole Abs) Abs { return Abs(float64(r) * float64(whole)) }

// Relative combines an absolute offset and a ratio of a base only known
// at resolution time.
type Relative struct {
	Abs Abs
	Rel Ratio
}

func (r Relative) Resolve(whole Abs) Abs { return r.Abs + r.Rel.Resolve(whole) }
func (r Relative) IsZero() bool          { return r.Abs == 0 && r.Rel == 0 }

// Alignment is a resolved 2D alignment (content.Alignment2D with its
// axes' "unset"/"start"/"end" logical values already resolved against a
// concrete Dir).
type Alignment struct {
	X HAlign
	Y VAlign
}

type HAlign uint8

const (
	HAlignStart HAlign = iota
	HAlignCenter
	HAlignEnd
	HAlignLeft
	HAlignRight
)

type VAlign uint8

const (
	VAlignTop VAlign = iota
	VAlignHorizon
	VAlignBottom
)

// Dir is a resolved text/layout direction.
type Dir uint8

const (
	DirLTR Dir = iota
	DirRTL
	DirTTB
	DirBTT
)

func (d Dir) IsHorizontal() bool { return d == DirLTR || d == DirRTL }
func (d Dir) IsPositive() bool   { return d == DirLTR || d == DirTTB }

// Transform is a 2D affine transform in row-major order.
type Transform struct {
	A, B, C, D float64
	E, F       float64
}

func Identity() Transform { return Transform{A: 1, D: 1} }

func TranslateBy(dx, dy Abs) Transform {
	return Transform{A: 1, D: 1, E: float64(dx), F: float64(dy)}
}

func (t Transform) Then(o Transform) Transform {
	return Transform{
		A: t.A*o.A + t.B*o.C,
		B: t.A*o.B + t.B*o.D,
		C: t.C*o.A + t.D*o.C,
		D: t.C*o.B + t.D*o.D,
		E: t.E*o.A + t.F*o.C + o.E,
		F: t.E*o.B + t.F*o.D + o.F,
	}
}

func (t Transform) Apply(p Point) Point {
	return Point{
		X: Abs(t.A*float64(p.X) + t.B*float64(p.Y) + t.E),
		Y: Abs(t.C*float64(p.X) + t.D*float64(p.Y) + t.F),
	}
}

func (t Transform) IsIdentity() bool {
	return t.A == 1 && t.B == 0 && t.C == 0 && t.D == 1 && t.E == 0 && t.F == 0
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }
