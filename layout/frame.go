package layout

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/font"
)

// Frame is a laid-out rectangle of positioned content: the output of
// every layout stage, from shaping a single word up to a full page. It
// carries both a positioned-item list and its own baseline offset, since
// a paragraph's line frames need a baseline for vertical alignment
// within a flow.
type Frame struct {
	size     Size
	baseline Abs
	hasBase  bool
	items    []PositionedItem
	kind     FrameKind
	fill     content.Paint
	stroke   *content.Stroke
}

func NewFrame(size Size) *Frame {
	return &Frame{size: size, kind: FrameKindSoft}
}

func (f *Frame) Size() Size    { return f.size }
func (f *Frame) Width() Abs    { return f.size.Width }
func (f *Frame) Height() Abs   { return f.size.Height }
func (f *Frame) SetSize(s Size) { f.size = s }

// Baseline is the frame's own baseline offset from its top edge, used
// when a sequence of frames (a line's runs, an inline equation) must
// align on a shared baseline rather than their top edges.
func (f *Frame) Baseline() Abs {
	if f.hasBase {
		return f.baseline
	}
	return f.size.Height
}

func (f *Frame) SetBaseline(b Abs) {
	f.baseline = b
	f.hasBase = true
}

func (f *Frame) Items() []PositionedItem { return f.items }

func (f *Frame) Push(pos Point, item FrameItem) {
	f.items = append(f.items, PositionedItem{Position: pos, Item: item})
}

func (f *Frame) PushFrame(pos Point, child *Frame) {
	f.Push(pos, GroupItem{Frame: child})
}

func (f *Frame) IsEmpty() bool { return len(f.items) == 0 }

func (f *Frame) Kind() FrameKind { return f.kind }
func (f *Frame) SetKind(k FrameKind) { f.kind = k }

// MakeKind upgrades a soft frame to k, leaving an already-hard frame
// alone.
func (f *Frame) MakeKind(k FrameKind) {
	if f.kind == FrameKindSoft {
		f.kind = k
	}
}

func (f *Frame) Fill() content.Paint      { return f.fill }
func (f *Frame) SetFill(p content.Paint)  { f.fill = p }
func (f *Frame) Stroke() *content.Stroke  { return f.stroke }
func (f *Frame) SetStroke(s *content.Stroke) { f.stroke = s }

// Translate shifts every top-level item by offset in place.
func (f *Frame) Translate(offset Point) {
	for i := range f.items {
		f.items[i].Position = f.items[i].Position.Add(offset)
	}
}

// FrameKind distinguishes a frame that merely groups content (soft) from
// one that establishes a boundary gradients and clips don't cross
// (hard) — e.g. a page frame is always hard, a paragraph line is soft.
type FrameKind int

const (
	FrameKindSoft FrameKind = iota
	FrameKindHard
)

// FrameItem is anything a Frame can place at a position.
type FrameItem interface{ isFrameItem() }

type PositionedItem struct {
	Position Point
	Item     FrameItem
}

// GroupItem nests a child frame, optionally under its own transform and
// clip path — the mechanism a rotated/scaled block or a clipped box uses
// to embed its content without flattening it into the parent's items.
type GroupItem struct {
	Frame     *Frame
	Transform *Transform
	Clips     []Shape
}

func (GroupItem) isFrameItem() {}

// TextItem is a shaped run: a sequence of positioned glyphs from a
// single font at a single size, the leaf the inline shaper produces.
type TextItem struct {
	Font  *font.Font
	Size  Abs
	Fill  content.Paint
	Lang  string
	Glyphs []Glyph
}

func (TextItem) isFrameItem() {}

// Glyph is one shaped glyph: its id in Font, advance and offsets in
// font-relative em units (scaled against Size when painted), and the
// index of the source text cluster it came from (needed to map a click
// or selection back to source text — a rendering concern this engine
// does not perform itself, but the cluster index is part of what
// shaping produces regardless).
type Glyph struct {
	ID       uint16
	XAdvance Em
	XOffset  Em
	YOffset  Em
	Cluster  int
}

// Em is a length expressed as a fraction of the current font size, the
// unit go-text's shaper and golang.org/x/image/math/fixed both report
// glyph metrics in before they're scaled to absolute points.
type Em float64

func (e Em) Resolve(size Abs) Abs { return Abs(float64(e) * float64(size)) }

type ShapeItem struct {
	Shape  Shape
	Fill   content.Paint
	Stroke *content.Stroke
}

func (ShapeItem) isFrameItem() {}

type Shape interface{ isShape() }

type RectShape struct {
	Size   Size
	Radius Corners[Abs]
}

func (RectShape) isShape() {}

type PathShape struct {
	Segments []PathSegment
}

func (PathShape) isShape() {}

// PathSegment is one drawing command of a path shape.
type PathSegment struct {
	Op     PathOp
	Points [3]Point
}

type PathOp uint8

const (
	PathMoveTo PathOp = iota
	PathLineTo
	PathQuadTo
	PathCubicTo
	PathClose
)

// EllipseShape represents a circle or ellipse.
type EllipseShape struct {
	Size Size
}

func (EllipseShape) isShape() {}

// LineShape is a straight line between two points, used for grid/table
// rule lines that don't need the generality of a PathShape.
type LineShape struct {
	Start Point
	End   Point
}

func (LineShape) isShape() {}

// ImageItem places a decoded raster or vector image at its natural (or
// overridden) size. Decoding itself is a Non-goal; the frame only
// carries whatever opaque handle the caller supplied.
type ImageItem struct {
	Source any
	Size   Size
	Alt    string
}

func (ImageItem) isFrameItem() {}

// LinkItem marks a rectangular region of the frame as a hyperlink
// target.
type LinkItem struct {
	Dest string
	Size Size
}

func (LinkItem) isFrameItem() {}

// TagItem carries a content.TagElem into the frame tree, the mechanism
// by which introspection locations get attached to layout output.
type TagItem struct {
	Tag content.TagElem
}

func (TagItem) isFrameItem() {}

// Fragment is an ordered sequence of frames produced by one layout call
// that may span more than one region (e.g. a block broken across two
// pages produces a two-frame Fragment).
type Fragment struct {
	frames []*Frame
}

func NewFragment() *Fragment                  { return &Fragment{} }
func NewFragmentWithCapacity(n int) *Fragment { return &Fragment{frames: make([]*Frame, 0, n)} }
func FragmentOf(frames ...*Frame) *Fragment   { return &Fragment{frames: frames} }

func (f *Fragment) Frames() []*Frame { return f.frames }
func (f *Fragment) Len() int         { return len(f.frames) }
func (f *Fragment) IsEmpty() bool    { return len(f.frames) == 0 }

func (f *Fragment) First() *Frame {
	if len(f.frames) == 0 {
		return nil
	}
	return f.frames[0]
}

func (f *Fragment) Last() *Frame {
	if len(f.frames) == 0 {
		return nil
	}
	return f.frames[len(f.frames)-1]
}

func (f *Fragment) Push(frame *Frame) { f.frames = append(f.frames, frame) }

// IntoFrame unwraps a single-frame fragment. Panics if the fragment
// doesn't have exactly one frame — every call site only reaches for
// this after checking Len.
func (f *Fragment) IntoFrame() *Frame {
	if len(f.frames) != 1 {
		panic("layout: IntoFrame requires exactly one frame")
	}
	return f.frames[0]
}
