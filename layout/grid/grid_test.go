package grid

import (
	"testing"

	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/layout"
)

func cellAt(x, y int) content.GridCell { return content.GridCell{X: x, Y: y, ColSpan: 1} }

func autoCell() content.GridCell { return content.GridCell{X: -1, Y: -1, ColSpan: 1} }

func TestBuildGridAutoPlacement(t *testing.T) {
	elem := &content.GridElement{
		Columns: []content.GridTrackSizing{{Auto: true}, {Auto: true}},
		Cells:   []content.GridCell{autoCell(), autoCell(), autoCell()},
	}
	g, err := buildGrid(elem)
	if err != nil {
		t.Fatalf("buildGrid: %v", err)
	}
	if g.rowCount != 2 {
		t.Fatalf("rowCount = %d, want 2", g.rowCount)
	}
	want := [][2]int{{0, 0}, {1, 0}, {0, 1}}
	for i, c := range g.cells {
		if c.x != want[i][0] || c.y != want[i][1] {
			t.Errorf("cell %d at (%d,%d), want (%d,%d)", i, c.x, c.y, want[i][0], want[i][1])
		}
	}
}

func TestBuildGridSkipsManuallyPlacedCells(t *testing.T) {
	elem := &content.GridElement{
		Columns: []content.GridTrackSizing{{Auto: true}, {Auto: true}},
		Cells:   []content.GridCell{cellAt(1, 0), autoCell(), autoCell()},
	}
	g, err := buildGrid(elem)
	if err != nil {
		t.Fatalf("buildGrid: %v", err)
	}
	if g.cells[1].x != 0 || g.cells[1].y != 0 {
		t.Errorf("second cell placed at (%d,%d), want (0,0)", g.cells[1].x, g.cells[1].y)
	}
	if g.cells[2].x != 0 || g.cells[2].y != 1 {
		t.Errorf("third cell placed at (%d,%d), want (0,1)", g.cells[2].x, g.cells[2].y)
	}
}

func TestBuildGridExplicitConflictIsFatal(t *testing.T) {
	elem := &content.GridElement{
		Columns: []content.GridTrackSizing{{Auto: true}},
		Cells:   []content.GridCell{cellAt(0, 0), cellAt(0, 0)},
	}
	if _, err := buildGrid(elem); err == nil {
		t.Fatal("expected a conflict error, got nil")
	}
}

func TestBuildGridColSpanOverflowWraps(t *testing.T) {
	elem := &content.GridElement{
		Columns: []content.GridTrackSizing{{Auto: true}, {Auto: true}},
		Cells: []content.GridCell{
			{X: -1, Y: -1, ColSpan: 2},
			autoCell(),
		},
	}
	g, err := buildGrid(elem)
	if err != nil {
		t.Fatalf("buildGrid: %v", err)
	}
	if g.cells[1].x != 0 || g.cells[1].y != 1 {
		t.Errorf("second cell placed at (%d,%d), want (0,1)", g.cells[1].x, g.cells[1].y)
	}
}

func TestBuildGridExplicitRowTooNarrowIsFatal(t *testing.T) {
	elem := &content.GridElement{
		Columns: []content.GridTrackSizing{{Auto: true}, {Auto: true}},
		Cells: []content.GridCell{
			cellAt(1, 0),
			{X: -1, Y: 0, ColSpan: 2},
		},
	}
	if _, err := buildGrid(elem); err == nil {
		t.Fatal("expected a span-overflow error: no room in row 0 for a 2-column span, got nil")
	}
}

func TestTrackAtRepeatsLastDeclaredTrack(t *testing.T) {
	tracks := []content.GridTrackSizing{{Auto: true}, {Ratio: &content.Ratio{Value: 0.5}}}
	if got := trackAt(tracks, 0); !got.Auto {
		t.Errorf("track 0 should be auto")
	}
	if got := trackAt(tracks, 5); got.Ratio == nil {
		t.Errorf("track 5 should repeat the last declared (ratio) track")
	}
	if got := trackAt(nil, 3); !got.Auto {
		t.Errorf("an undeclared axis should default to auto throughout")
	}
}

func TestRowIsHeaderFooter(t *testing.T) {
	elem := &content.GridElement{
		Columns: []content.GridTrackSizing{{Auto: true}, {Auto: true}},
		Cells: []content.GridCell{
			{X: 0, Y: 0, ColSpan: 1, IsHeader: true},
			{X: 1, Y: 0, ColSpan: 1, IsHeader: true},
			{X: 0, Y: 1, ColSpan: 1},
			{X: 1, Y: 1, ColSpan: 1, IsFooter: true},
		},
	}
	g, err := buildGrid(elem)
	if err != nil {
		t.Fatalf("buildGrid: %v", err)
	}
	if !g.rowIsHeader(0) {
		t.Error("row 0 should be a header, every cell in it is flagged")
	}
	if g.rowIsHeader(1) {
		t.Error("row 1 should not be a header, only one cell is flagged")
	}
	if g.rowIsFooter(1) {
		t.Error("row 1 should not be a footer, only one cell is flagged")
	}
}

func TestHeaderGroupsFindsContiguousRuns(t *testing.T) {
	elem := &content.GridElement{
		Columns: []content.GridTrackSizing{{Auto: true}},
		Cells: []content.GridCell{
			{X: 0, Y: 0, ColSpan: 1, IsHeader: true},
			{X: 0, Y: 1, ColSpan: 1, IsHeader: true},
			{X: 0, Y: 2, ColSpan: 1},
			{X: 0, Y: 3, ColSpan: 1, IsHeader: true},
		},
	}
	g, err := buildGrid(elem)
	if err != nil {
		t.Fatalf("buildGrid: %v", err)
	}
	groups := headerGroups(g, g.rowIsHeader, g.rowHeaderLevel)
	want := []headerGroup{{0, 2, 1}, {3, 4, 1}}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d: %+v", len(groups), len(want), groups)
	}
	for i, wg := range want {
		if groups[i] != wg {
			t.Errorf("group %d = %+v, want %+v", i, groups[i], wg)
		}
	}
}

func TestHeaderGroupsSplitOnLevelChange(t *testing.T) {
	elem := &content.GridElement{
		Columns: []content.GridTrackSizing{{Auto: true}},
		Cells: []content.GridCell{
			{X: 0, Y: 0, ColSpan: 1, IsHeader: true},
			{X: 0, Y: 1, ColSpan: 1, IsHeader: true, Level: 2},
			{X: 0, Y: 2, ColSpan: 1, IsHeader: true, Level: 2},
			{X: 0, Y: 3, ColSpan: 1},
		},
	}
	g, err := buildGrid(elem)
	if err != nil {
		t.Fatalf("buildGrid: %v", err)
	}
	groups := headerGroups(g, g.rowIsHeader, g.rowHeaderLevel)
	want := []headerGroup{{0, 1, 1}, {1, 3, 2}}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d: %+v", len(groups), len(want), groups)
	}
	for i, wg := range want {
		if groups[i] != wg {
			t.Errorf("group %d = %+v, want %+v", i, groups[i], wg)
		}
	}
}

func TestHeaderStateLifecycle(t *testing.T) {
	var h headerState
	g0 := headerGroup{0, 1, 1}

	h.encounter(g0, false)
	if len(h.active()) != 1 {
		t.Fatalf("a freshly encountered header should be active while pending")
	}
	if len(h.repeating) != 0 {
		t.Error("a header should not repeat before being confirmed")
	}

	h.confirm()
	if len(h.repeating) != 1 || h.repeating[0] != g0 {
		t.Fatalf("confirm should promote the pending header to repeating, got %+v", h.repeating)
	}
	if len(h.pending) != 0 {
		t.Error("confirm should clear pending")
	}

	g1 := headerGroup{4, 5, 1}
	h.encounter(g1, false)
	if len(h.repeating) != 0 {
		t.Error("a same-level header should conflict the old repeating one away")
	}
	active := h.active()
	if len(active) != 1 || active[0] != g1 {
		t.Errorf("active should report only the new pending header, got %+v", active)
	}
}

func TestHeaderStateInnerLevelRepeatsBeneathOuter(t *testing.T) {
	var h headerState
	outer := headerGroup{0, 1, 1}
	inner := headerGroup{1, 2, 2}

	h.encounter(outer, false)
	h.confirm()
	h.encounter(inner, false)

	if len(h.repeating) != 1 || h.repeating[0] != outer {
		t.Fatalf("a deeper header must not conflict an outer one away, repeating = %+v", h.repeating)
	}
	active := h.active()
	if len(active) != 2 || active[0] != outer || active[1] != inner {
		t.Fatalf("active should report outer then inner, got %+v", active)
	}

	h.confirm()
	if len(h.repeating) != 2 || h.repeating[0].level > h.repeating[1].level {
		t.Errorf("repeating must stay sorted by ascending level, got %+v", h.repeating)
	}
}

func TestHeaderStateTruncatesEqualAndDeeperLevels(t *testing.T) {
	var h headerState
	h.encounter(headerGroup{0, 1, 1}, false)
	h.confirm()
	h.encounter(headerGroup{1, 2, 2}, false)
	h.confirm()
	h.encounter(headerGroup{2, 3, 3}, false)
	h.confirm()

	// A new level-2 header ends the scope of the old level-2 and level-3
	// ones but leaves level 1 repeating.
	next := headerGroup{5, 6, 2}
	h.encounter(next, false)

	if len(h.repeating) != 1 || h.repeating[0].level != 1 {
		t.Fatalf("levels >= 2 should be truncated, repeating = %+v", h.repeating)
	}
	active := h.active()
	if len(active) != 2 || active[1] != next {
		t.Fatalf("active should be [level-1, new level-2], got %+v", active)
	}
	for i := 1; i < len(active); i++ {
		if active[i-1].level > active[i].level {
			t.Errorf("active union must be sorted by ascending level, got %+v", active)
		}
	}
}

func TestHeaderStateShortLivedNeverRepeats(t *testing.T) {
	var h headerState
	h.encounter(headerGroup{0, 1, 1}, true)
	if len(h.pending) != 0 {
		t.Error("a short-lived header should never be tracked as pending")
	}
	if len(h.active()) != 0 {
		t.Error("a short-lived header should not be re-emitted in later regions")
	}
}

func TestHeaderStatePendingEnd(t *testing.T) {
	var h headerState
	if h.pendingEnd() != -1 {
		t.Errorf("no pending headers: pendingEnd = %d, want -1", h.pendingEnd())
	}
	h.encounter(headerGroup{0, 2, 1}, false)
	h.encounter(headerGroup{2, 3, 2}, false)
	if got := h.pendingEnd(); got != 3 {
		t.Errorf("pendingEnd = %d, want the last pending group's end 3", got)
	}
}

func TestResolveColumnsRelativeAndFractional(t *testing.T) {
	g := &Grid{
		elem: &content.GridElement{
			Columns: []content.GridTrackSizing{
				{Length: &content.Length{Points: 100}},
				{Fr: &content.Fraction{Value: 1}},
				{Fr: &content.Fraction{Value: 1}},
			},
		},
		colCount: 3,
	}
	widths := resolveColumns(g, nil, nil, 300, 0, 0)
	if widths[0] != 100 {
		t.Errorf("fixed column width = %v, want 100", widths[0])
	}
	if widths[1] != widths[2] || widths[1] != 100 {
		t.Errorf("fractional columns should split the remaining 200pt evenly, got %v and %v", widths[1], widths[2])
	}
}

func TestResolveColumnsAllAuto(t *testing.T) {
	g := &Grid{
		elem:     &content.GridElement{Columns: []content.GridTrackSizing{{Auto: true}}},
		colCount: 1,
	}
	widths := resolveColumns(g, nil, nil, 200, 0, 0)
	if widths[0] != 0 {
		t.Errorf("an auto column with no colspan-1 cells measures 0, got %v", widths[0])
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		t    content.GridTrackSizing
		want trackKind
	}{
		{"auto", content.GridTrackSizing{Auto: true}, trackAuto},
		{"fr wins over auto", content.GridTrackSizing{Auto: true, Fr: &content.Fraction{Value: 1}}, trackFractional},
		{"length", content.GridTrackSizing{Length: &content.Length{Points: 10}}, trackRelative},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classify(tc.t); got != tc.want {
				t.Errorf("classify(%+v) = %v, want %v", tc.t, got, tc.want)
			}
		})
	}
}

func TestResolveRelativeCombinesLengthAndRatio(t *testing.T) {
	track := content.GridTrackSizing{
		Length: &content.Length{Points: 10},
		Ratio:  &content.Ratio{Value: 0.5},
	}
	got := resolveRelative(track, layout.Abs(100), 0)
	if got != 60 {
		t.Errorf("resolveRelative = %v, want 60 (10pt + 50%% of 100pt)", got)
	}
}
