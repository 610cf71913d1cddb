package content

// Alignment2D is a horizontal/vertical alignment pair; either axis may be
// left unset (zero value) to mean "inherit from context".
type Alignment2D struct {
	Horizontal HAlignment
	Vertical   VAlignment
}

type HAlignment uint8

const (
	HAlignUnset HAlignment = iota
	HAlignStart
	HAlignLeft
	HAlignCenter
	HAlignRight
	HAlignEnd
)

type VAlignment uint8

const (
	VAlignUnset VAlignment = iota
	VAlignTop
	VAlignHorizon
	VAlignBottom
)

// AlignElement positions its body within the leftover space of its
// container according to a 2D alignment.
type AlignElement struct {
	Alignment Alignment2D
	Body      Content
}

func (*AlignElement) isContentElement() {}

// ColumnsElement arranges its body into a fixed number of columns,
// balancing content across them within one page region.
type ColumnsElement struct {
	Count  int
	Gutter Relative
	Body   Content
}

func (*ColumnsElement) isContentElement() {}

// BoxElement is an inline-level sized container.
type BoxElement struct {
	Width    Smart[Relative]
	Height   Smart[Relative]
	Baseline Smart[Relative]
	Fill     Paint
	Stroke   *Stroke
	Radius   Relative
	Inset    Sides[Relative]
	Outset   Sides[Relative]
	Clip     bool
	Body     Content
}

func (*BoxElement) isContentElement() {}

// BlockElement is a block-level container that participates in the flow
// composer's breaking, stickiness, and spacing decisions.
type BlockElement struct {
	Width     Smart[Relative]
	Height    Smart[Relative]
	Breakable bool
	Fill      Paint
	Stroke    *Stroke
	Radius    Relative
	Inset     Sides[Relative]
	Outset    Sides[Relative]
	Spacing   Relative
	Above     Smart[Relative]
	Below     Smart[Relative]
	Clip      bool
	Sticky    bool
	Body      Content
}

func (*BlockElement) isContentElement() {}

// StackDirection is the axis a StackElement arranges its children along.
type StackDirection uint8

const (
	StackLTR StackDirection = iota
	StackRTL
	StackTTB
	StackBTT
)

// StackElement arranges children one after another along an axis.
type StackElement struct {
	Dir      StackDirection
	Spacing  Relative
	Children []Content
}

func (*StackElement) isContentElement() {}

// PadElement adds space around its body without affecting the body's own
// sizing.
type PadElement struct {
	Left, Top, Right, Bottom Length
	Body                     Content
}

func (*PadElement) isContentElement() {}

// HElem is horizontal spacing; VElem is vertical spacing. Amount may be
// absolute/relative or fractional (a share of leftover space).
type HElem struct {
	Amount Spacing
	Weak   bool
}

func (*HElem) isContentElement() {}

type VElem struct {
	Amount Spacing
	Weak   bool
	Attach bool
}

func (*VElem) isContentElement() {}

type Spacing struct {
	Abs          Relative
	Fr           Fraction
	IsFractional bool
}

// GridTrackSizing describes one column or row track: auto-sized, a fixed
// length, a fractional share of leftover space, or a ratio of the
// container.
type GridTrackSizing struct {
	Auto   bool
	Length *Length
	Fr     *Fraction
	Ratio  *Ratio
}

// EdgeStroke is one cell or line's override for a single edge's stroke.
// The zero value (Explicit: false) means "inherit whatever the grid or an
// hline/vline declares for this edge"; an Explicit entry with a nil Value
// means "none" — it suppresses a line that would otherwise be drawn here,
// even if the grid's default stroke is set.
type EdgeStroke struct {
	Explicit bool
	Value    *Stroke
}

// CellStroke bundles a GridCell's four independent edge overrides.
type CellStroke struct {
	Left, Top, Right, Bottom EdgeStroke
}

// GridCell is one child of a grid/table, with optional explicit position
// and span overrides. grid() and table() share this representation since
// layout treats them identically once cells are resolved to a
// track-addressed body.
type GridCell struct {
	Body     Content
	X, Y     int // -1 means auto-positioned
	ColSpan  int
	RowSpan  int
	Fill     Paint
	Stroke   CellStroke
	IsHeader bool
	IsFooter bool
	// Level is the header's nesting depth, 1 being the outermost; a
	// header cell that leaves it unset reads as level 1. An inner header
	// (higher level) repeats beneath its outer ones until a header of
	// equal or lower level conflicts it away. Ignored unless IsHeader is
	// set.
	Level int
}

// GridHLine is an explicit horizontal rule drawn along the top edge of
// row Y, spanning columns [Start, End) (End < 0 means "to the last
// column"). It overrides whatever a cell or the grid default would have
// drawn along that span.
type GridHLine struct {
	Y      int
	Start  int
	End    int
	Stroke EdgeStroke
}

// GridVLine is the column analogue of GridHLine: a rule along the left
// edge of column X, spanning rows [Start, End) (End < 0 means "to the
// last row").
type GridVLine struct {
	X      int
	Start  int
	End    int
	Stroke EdgeStroke
}

// GridElement arranges its children into a grid of explicit or automatic
// tracks, with optional repeating header/footer rows. grid() and table()
// both compile down to the same track-resolution and cell-placement
// problem, so one element type covers both.
type GridElement struct {
	Columns      []GridTrackSizing
	Rows         []GridTrackSizing
	ColumnGutter Length
	RowGutter    Length
	Inset        Sides[Relative]
	Align        Alignment2D
	Fill         Paint
	Stroke       *Stroke
	Cells        []GridCell
	HLines       []GridHLine
	VLines       []GridVLine
	IsTable      bool
}

func (*GridElement) isContentElement() {}

// PageElement configures page geometry and repeating header/footer/
// background/foreground content for the pages it applies to; when it
// wraps a Body it also forces a page break.
type PageElement struct {
	Width, Height Length
	HeightAuto    bool
	Flipped       bool
	Margin        Sides[Length]
	Columns       int
	Fill          Paint
	Numbering     string
	NumberAlign   Alignment2D
	Header        Content
	HeaderAscent  Length
	Footer        Content
	FooterDescent Length
	Background    Content
	Foreground    Content
	TwoSided      bool
	Binding       Binding
	Body          Content
}

func (*PageElement) isContentElement() {}

// Binding is the edge a two-sided document's pages are bound along; it
// decides which physical pages get their left/right margins swapped to
// become inside/outside margins instead.
type Binding uint8

const (
	BindingLeft Binding = iota
	BindingRight
)

// Swap reports whether margins should be exchanged for the physical,
// 0-indexed page number pageNum.
func (b Binding) Swap(pageNum int) bool {
	if b == BindingLeft {
		return pageNum%2 == 1
	}
	return pageNum%2 == 0
}

// PagebreakElement forces a page break, optionally to a specific parity.
type PagebreakElement struct {
	Weak     bool
	ToParity PageParity
}

func (*PagebreakElement) isContentElement() {}

type PageParity uint8

const (
	ParityAny PageParity = iota
	ParityOdd
	ParityEven
)

// PageNumberElem marks where a page's running page number belongs: a
// header/footer built by the page builder's default numbering
// placement embeds one of these, and an author-supplied header/footer
// may embed one directly to place the number amid other content. An
// empty Pattern means "use whatever numbering pattern the enclosing
// page declared".
type PageNumberElem struct {
	Pattern string
}

func (*PageNumberElem) isContentElement() {}

// ColbreakElement forces a column break within a multi-column region.
type ColbreakElement struct {
	Weak bool
}

func (*ColbreakElement) isContentElement() {}

// FootnoteElement is an out-of-flow note whose marker sits inline where
// it's referenced but whose body is collected into the footnote area of
// the region the marker landed in. Referencing the same note a second
// time (Ref non-nil) repeats the marker without duplicating the body.
type FootnoteElement struct {
	Body Content
	Ref  *Location
}

func (*FootnoteElement) isContentElement() {}

// PlaceElement positions its body at an absolute or floating location
// outside the normal flow.
type PlaceElement struct {
	Alignment Alignment2D
	Float     bool
	Clearance Length
	Dx, Dy    Length
	Body      Content
}

func (*PlaceElement) isContentElement() {}

// Sides bundles four independently-resolvable per-edge values.
type Sides[T any] struct {
	Left, Top, Right, Bottom T
}

// Smart represents a value that may be explicit, or left to the layout
// algorithm to decide ("auto" in the surface language).
type Smart[T any] struct {
	IsAuto bool
	Value  T
}

func Auto[T any]() Smart[T]         { return Smart[T]{IsAuto: true} }
func Set[T any](v T) Smart[T]       { return Smart[T]{Value: v} }
func (s Smart[T]) Or(fallback T) T {
	if s.IsAuto {
		return fallback
	}
	return s.Value
}
