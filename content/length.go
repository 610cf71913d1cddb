// Package content holds the data model the layout engine consumes and
// produces: lengths and the rest of the numeric value algebra, colors,
// the content tree and its element kinds, and the style chain that
// resolves properties against that tree.
//
// Parsing source text into this tree, evaluating the embedded scripting
// language, and realizing show rules are all collaborator concerns that
// happen before layout ever sees a Content value; this package only
// describes the tree shape layout walks.
package content

import "math"

// Inf is the saturating infinity sentinel every Length/Ratio/Relative
// computation clamps to instead of overflowing to +Inf or NaN. It is a
// large finite value (not math.Inf) so it can still be compared, stored
// in a fixed-point frame, and round-tripped through arithmetic.
const Inf = 1e18

// Length is an absolute length plus an em-component: Points is resolved
// directly, Em is resolved against a font size at the point of use, so
// font-relative lengths (e.g. paragraph leading, list indents) round-trip
// exactly.
type Length struct {
	Points float64
	Em     float64
}

// ZeroLength is the zero length.
var ZeroLength = Length{}

// Pt creates a pure absolute length.
func Pt(points float64) Length { return Length{Points: points} }

// EmLength creates a pure em length.
func EmLength(em float64) Length { return Length{Em: em} }

// Resolve turns an em-relative length into an absolute one given the font
// size it is relative to.
func (l Length) Resolve(fontSize float64) float64 {
	return saturate(l.Points + l.Em*fontSize)
}

// IsZero reports whether both components are zero.
func (l Length) IsZero() bool { return l.Points == 0 && l.Em == 0 }

// IsInfinite reports whether the absolute component already saturated.
func (l Length) IsInfinite() bool { return math.Abs(l.Points) >= Inf }

func (a Length) Add(b Length) Length {
	return Length{Points: saturate(a.Points + b.Points), Em: saturate(a.Em + b.Em)}
}

func (a Length) Sub(b Length) Length {
	return Length{Points: saturate(a.Points - b.Points), Em: saturate(a.Em - b.Em)}
}

func (a Length) Neg() Length {
	return Length{Points: saturate(-a.Points), Em: saturate(-a.Em)}
}

func (a Length) Mul(scalar float64) Length {
	return Length{Points: saturate(a.Points * scalar), Em: saturate(a.Em * scalar)}
}

// Div divides by a scalar, saturating to Inf on division by zero rather
// than producing NaN or +Inf.
func (a Length) Div(scalar float64) Length {
	if scalar == 0 {
		return Length{Points: Inf, Em: Inf}
	}
	return Length{Points: saturate(a.Points / scalar), Em: saturate(a.Em / scalar)}
}

func (a Length) Max(b Length, fontSize float64) Length {
	if a.Resolve(fontSize) >= b.Resolve(fontSize) {
		return a
	}
	return b
}

func (a Length) Min(b Length, fontSize float64) Length {
	if a.Resolve(fontSize) <= b.Resolve(fontSize) {
		return a
	}
	return b
}

// saturate clamps a value to +-Inf, and collapses NaN (which can only
// arise from an invalid 0/0 upstream) to zero rather than propagating it.
func saturate(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v > Inf {
		return Inf
	}
	if v < -Inf {
		return -Inf
	}
	return v
}

// Angle is an angle in radians internally; constructors are provided for
// the common degree/radian entry points.
type Angle struct {
	Radians float64
}

func Degrees(deg float64) Angle { return Angle{Radians: deg * math.Pi / 180} }
func Radians(rad float64) Angle { return Angle{Radians: rad} }

func (a Angle) Degrees() float64 { return a.Radians * 180 / math.Pi }

func (a Angle) Add(b Angle) Angle { return Angle{Radians: saturate(a.Radians + b.Radians)} }
func (a Angle) Sub(b Angle) Angle { return Angle{Radians: saturate(a.Radians - b.Radians)} }

// Ratio is a unitless fraction of some base quantity, stored so that 1.0
// means 100%.
type Ratio struct {
	Value float64
}

func Percent(pct float64) Ratio { return Ratio{Value: pct / 100} }

func (r Ratio) Of(base float64) float64 { return saturate(r.Value * base) }

func (a Ratio) Add(b Ratio) Ratio { return Ratio{Value: saturate(a.Value + b.Value)} }
func (a Ratio) Mul(scalar float64) Ratio { return Ratio{Value: saturate(a.Value * scalar)} }

// Relative combines an absolute Length with a Ratio of some base that is
// only known at resolution time (e.g. a container's width).
type Relative struct {
	Abs   Length
	Ratio Ratio
}

func RelativeFromLength(l Length) Relative { return Relative{Abs: l} }
func RelativeFromRatio(r Ratio) Relative   { return Relative{Ratio: r} }

// Resolve turns a Relative into an absolute length given the base it is
// relative to and the font size its em-component resolves against.
func (r Relative) Resolve(base, fontSize float64) float64 {
	return saturate(r.Abs.Resolve(fontSize) + r.Ratio.Of(base))
}

func (a Relative) Add(b Relative) Relative {
	return Relative{Abs: a.Abs.Add(b.Abs), Ratio: a.Ratio.Add(b.Ratio)}
}

// Fraction denotes a share of leftover space distributed among fractional
// (`fr`) tracks after all fixed and relative space has been allocated.
type Fraction struct {
	Value float64
}

func Fr(v float64) Fraction { return Fraction{Value: v} }

func (a Fraction) Add(b Fraction) Fraction { return Fraction{Value: saturate(a.Value + b.Value)} }

// Share returns this fraction's portion of the given leftover amount
// against the sum of all fractions competing for it. A zero total yields
// zero rather than dividing by zero, since there is nothing to share.
func (a Fraction) Share(total Fraction, leftover float64) float64 {
	if total.Value == 0 {
		return 0
	}
	return saturate(leftover * a.Value / total.Value)
}
