package flow

import (
	"testing"

	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
)

// solidBlock is an unbreakable child of a fixed size, enough to drive
// the distributor without a font provider.
func solidBlock(w, h layout.Abs, sticky bool) *SingleChild {
	return &SingleChild{
		Sticky: sticky,
		Layout: func(_ *engine.Engine, _ layout.Region) (*layout.Frame, error) {
			f := layout.NewFrame(layout.Size{Width: w, Height: h})
			f.Push(layout.Point{}, layout.ShapeItem{Shape: layout.RectShape{Size: layout.Size{Width: w, Height: h}}})
			return f, nil
		},
	}
}

// runFlow drives a child stream across regions the way LayoutFlow does,
// without the content-tree collection step.
func runFlow(t *testing.T, children []Child, regions *layout.Regions) []*layout.Frame {
	t.Helper()
	frames, err := tryRunFlow(children, regions)
	if err != nil {
		t.Fatalf("flow failed: %v", err)
	}
	return frames
}

func tryRunFlow(children []Child, regions *layout.Regions) ([]*layout.Frame, error) {
	work := NewWork(children)
	composer := NewComposer(nil, work, FootnoteConfig{})
	var frames []*layout.Frame
	walk := regions.Clone()
	for {
		frame, stop := ComposeLoop(composer, walk, maxComposeIterations)
		if se, ok := stop.(StopError); ok {
			return nil, se.Err
		}
		if frame != nil {
			frames = append(frames, frame)
		}
		if composer.Work.Done() && !composer.HasPendingFootnotes() {
			break
		}
		if !walk.Next() {
			break
		}
	}
	return frames, nil
}

func groups(frame *layout.Frame) []layout.PositionedItem {
	var out []layout.PositionedItem
	for _, entry := range frame.Items() {
		if _, ok := entry.Item.(layout.GroupItem); ok {
			out = append(out, entry)
		}
	}
	return out
}

func TestStickyBlockMigratesWithFollowingBlock(t *testing.T) {
	children := []Child{
		solidBlock(50, 80, false), // p1
		solidBlock(50, 15, true),  // h1, must stay with p2
		solidBlock(50, 15, false), // p2
	}
	frames := runFlow(t, children, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))

	if len(frames) != 2 {
		t.Fatalf("want 2 regions, got %d", len(frames))
	}
	if n := len(groups(frames[0])); n != 1 {
		t.Errorf("region 1 should hold only p1, got %d blocks", n)
	}
	if n := len(groups(frames[1])); n != 2 {
		t.Errorf("region 2 should hold h1+p2, got %d blocks", n)
	}
	if got, want := frames[0].Height(), layout.Abs(80); got != want {
		t.Errorf("region 1 height = %v, want %v", got, want)
	}
	if got, want := frames[1].Height(), layout.Abs(30); got != want {
		t.Errorf("region 2 height = %v, want %v", got, want)
	}
}

func TestStickyBlockAtRegionTopStays(t *testing.T) {
	children := []Child{
		solidBlock(50, 15, true),
		solidBlock(50, 90, false),
	}
	frames := runFlow(t, children, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))

	if len(frames) != 2 {
		t.Fatalf("want 2 regions, got %d", len(frames))
	}
	if n := len(groups(frames[0])); n != 1 {
		t.Errorf("the sticky block at region top must not migrate, got %d blocks in region 1", n)
	}
}

func TestWeakSpacingCollapses(t *testing.T) {
	children := []Child{
		solidBlock(50, 10, false),
		RelChild{Amount: Rel{Abs: 20}, Weakness: 1},
		RelChild{Amount: Rel{Abs: 30}, Weakness: 1},
		solidBlock(50, 10, false),
	}
	frames := runFlow(t, children, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))

	if len(frames) != 1 {
		t.Fatalf("want 1 region, got %d", len(frames))
	}
	if got, want := frames[0].Height(), layout.Abs(50); got != want {
		t.Errorf("adjacent weak spacings should collapse to the larger: height = %v, want %v", got, want)
	}
}

func TestLeadingWeakSpacingDropped(t *testing.T) {
	children := []Child{
		RelChild{Amount: Rel{Abs: 20}, Weakness: 1},
		solidBlock(50, 10, false),
	}
	frames := runFlow(t, children, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))

	if got, want := frames[0].Height(), layout.Abs(10); got != want {
		t.Errorf("weak spacing at region start should vanish: height = %v, want %v", got, want)
	}
}

func TestTrailingWeakSpacingTrimmed(t *testing.T) {
	children := []Child{
		solidBlock(50, 10, false),
		RelChild{Amount: Rel{Abs: 20}, Weakness: 1},
	}
	frames := runFlow(t, children, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))

	if got, want := frames[0].Height(), layout.Abs(10); got != want {
		t.Errorf("trailing weak spacing should be trimmed: height = %v, want %v", got, want)
	}
}

func TestStrongSpacingKept(t *testing.T) {
	children := []Child{
		solidBlock(50, 10, false),
		RelChild{Amount: Rel{Abs: 20}, Weakness: 0},
		RelChild{Amount: Rel{Abs: 30}, Weakness: 0},
		solidBlock(50, 10, false),
	}
	frames := runFlow(t, children, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))

	if got, want := frames[0].Height(), layout.Abs(70); got != want {
		t.Errorf("strong spacing never collapses: height = %v, want %v", got, want)
	}
}

func TestFractionalSpacingPushesApart(t *testing.T) {
	children := []Child{
		solidBlock(50, 10, false),
		FrChild{Amount: 1},
		solidBlock(50, 10, false),
	}
	frames := runFlow(t, children, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))

	if len(frames) != 1 {
		t.Fatalf("want 1 region, got %d", len(frames))
	}
	frame := frames[0]
	if got, want := frame.Height(), layout.Abs(100); got != want {
		t.Errorf("fr spacing claims the whole region: height = %v, want %v", got, want)
	}
	gs := groups(frame)
	if len(gs) != 2 {
		t.Fatalf("want 2 blocks, got %d", len(gs))
	}
	if gs[0].Position.Y != 0 {
		t.Errorf("first block at y=%v, want 0", gs[0].Position.Y)
	}
	if got, want := gs[1].Position.Y, layout.Abs(90); got != want {
		t.Errorf("second block at y=%v, want %v", got, want)
	}
}

func TestWeakColumnBreakAtRegionStartIsNoop(t *testing.T) {
	children := []Child{
		BreakChild{Weak: true},
		solidBlock(50, 10, false),
	}
	frames := runFlow(t, children, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))

	if len(frames) != 1 {
		t.Fatalf("a weak break at region start is a no-op: want 1 region, got %d", len(frames))
	}
}

func TestStrongColumnBreakFinalizesRegion(t *testing.T) {
	children := []Child{
		solidBlock(50, 10, false),
		BreakChild{Weak: false},
		solidBlock(50, 10, false),
	}
	frames := runFlow(t, children, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))

	if len(frames) != 2 {
		t.Fatalf("want 2 regions, got %d", len(frames))
	}
	if n := len(groups(frames[0])); n != 1 {
		t.Errorf("region 1: want 1 block, got %d", n)
	}
	if n := len(groups(frames[1])); n != 1 {
		t.Errorf("region 2: want 1 block, got %d", n)
	}
}

func TestTagsMigrateToRegionWithContent(t *testing.T) {
	tag := &content.TagElem{Kind: content.TagStart}
	children := []Child{
		TagChild{Tag: tag},
		solidBlock(50, 150, false),
	}
	frames := runFlow(t, children, &layout.Regions{
		Size:    layout.Size{Width: 100, Height: 100},
		Full:    100,
		Backlog: []layout.Abs{200},
	})

	if len(frames) != 2 {
		t.Fatalf("want 2 regions, got %d", len(frames))
	}
	if !frames[0].IsEmpty() {
		t.Errorf("region 1 should be empty (block didn't fit, tag migrates with it)")
	}
	foundTag := false
	for _, entry := range frames[1].Items() {
		if _, ok := entry.Item.(layout.TagItem); ok {
			foundTag = true
		}
	}
	if !foundTag {
		t.Errorf("the tag should land in region 2 with the block it precedes")
	}
}

func TestMultiChildSpillsOneFramePerRegion(t *testing.T) {
	multi := &MultiChild{
		Layout: func(_ *engine.Engine, _ *layout.Regions) (*layout.Fragment, error) {
			var frames []*layout.Frame
			for i := 0; i < 3; i++ {
				f := layout.NewFrame(layout.Size{Width: 50, Height: 40})
				f.Push(layout.Point{}, layout.ShapeItem{Shape: layout.RectShape{Size: layout.Size{Width: 50, Height: 40}}})
				frames = append(frames, f)
			}
			return layout.FragmentOf(frames...), nil
		},
	}
	frames := runFlow(t, []Child{multi}, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 50}))

	if len(frames) != 3 {
		t.Fatalf("a three-frame fragment spans three regions, got %d", len(frames))
	}
	for i, frame := range frames {
		if got, want := frame.Height(), layout.Abs(40); got != want {
			t.Errorf("region %d height = %v, want %v", i, got, want)
		}
	}
}

func TestFloatDefersAndFlushForcesBreak(t *testing.T) {
	float := &PlacedChild{
		Float: true,
		Loc:   content.Location{Hash: 1},
		Layout: func(_ *engine.Engine, _ layout.Size) (*layout.Frame, error) {
			f := layout.NewFrame(layout.Size{Width: 100, Height: 50})
			f.Push(layout.Point{}, layout.ShapeItem{Shape: layout.RectShape{Size: layout.Size{Width: 100, Height: 50}}})
			return f, nil
		},
	}
	children := []Child{
		solidBlock(50, 60, false), // block1: leaves 40pt, too little for the float
		float,
		solidBlock(50, 30, false), // block2
		FlushChild{},
		solidBlock(50, 20, false), // block3
	}
	frames := runFlow(t, children, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))

	if len(frames) != 2 {
		t.Fatalf("want 2 regions, got %d", len(frames))
	}
	if n := len(groups(frames[0])); n != 2 {
		t.Errorf("region 1 should hold block1 and block2, got %d blocks", n)
	}

	// Region 2: the float composed at the top, the content below it.
	gs := groups(frames[1])
	if len(gs) != 2 {
		t.Fatalf("region 2: want float group + content group, got %d", len(gs))
	}
	if gs[0].Position.Y != 0 {
		t.Errorf("float should sit at the region top, got y=%v", gs[0].Position.Y)
	}
	if got, want := gs[1].Position.Y, layout.Abs(50); got != want {
		t.Errorf("content should start below the float at y=%v, want %v", got, want)
	}
}

func TestFloatThatNeverFitsIsError(t *testing.T) {
	float := &PlacedChild{
		Float: true,
		Loc:   content.Location{Hash: 2},
		Layout: func(_ *engine.Engine, _ layout.Size) (*layout.Frame, error) {
			return layout.NewFrame(layout.Size{Width: 100, Height: 200}), nil
		},
	}
	_, err := tryRunFlow([]Child{float}, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))
	if err == nil {
		t.Fatal("a float taller than every region must fail")
	}
}

func TestFootnoteSplitsAcrossRegions(t *testing.T) {
	const bodyHeight = 100
	note := FootnoteChild{
		Loc: content.Location{Hash: 3},
		Layout: func(_ *engine.Engine, width, first, full layout.Abs) (*layout.Fragment, error) {
			mk := func(h layout.Abs) *layout.Frame {
				f := layout.NewFrame(layout.Size{Width: width, Height: h})
				f.Push(layout.Point{}, layout.ShapeItem{Shape: layout.RectShape{Size: layout.Size{Width: width, Height: h}}})
				return f
			}
			if first.Fits(bodyHeight) {
				return layout.FragmentOf(mk(bodyHeight)), nil
			}
			return layout.FragmentOf(mk(first), mk(bodyHeight-first)), nil
		},
	}
	children := []Child{
		solidBlock(50, 50, false),
		note,
	}
	frames := runFlow(t, children, layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 100}))

	if len(frames) != 2 {
		t.Fatalf("an overflowing footnote continues on the next region: want 2 frames, got %d", len(frames))
	}

	// Both regions carry a footnote area at the bottom half.
	for i, frame := range frames {
		gs := groups(frame)
		if len(gs) != 2 {
			t.Fatalf("region %d: want content group + footnote group, got %d", i, len(gs))
		}
		if got, want := gs[len(gs)-1].Position.Y, layout.Abs(50); got != want {
			t.Errorf("region %d: footnote area at y=%v, want %v", i, got, want)
		}
	}
}
