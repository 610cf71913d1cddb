package pages

import (
	"testing"

	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/layout"
)

func TestManualPageCounterStep(t *testing.T) {
	c := NewManualPageCounter()
	if c.Physical() != 0 || c.Logical() != 1 {
		t.Fatalf("initial physical/logical = %d/%d, want 0/1", c.Physical(), c.Logical())
	}
	c.Step()
	if c.Physical() != 1 || c.Logical() != 2 {
		t.Fatalf("after Step physical/logical = %d/%d, want 1/2", c.Physical(), c.Logical())
	}
}

func TestManualPageCounterVisitAppliesCounterUpdate(t *testing.T) {
	c := NewManualPageCounter()
	frame := layout.NewFrame(layout.Size{Width: 100, Height: 100})
	update := &content.CounterUpdateElem{Key: content.CounterKeyPage, Update: content.CounterUpdateSet{Value: 9}}
	frame.Push(layout.Point{}, layout.TagItem{Tag: *content.NewStartTag(update, content.Location{Hash: 1}, content.TagFlags{})})

	c.Visit(frame)
	if c.Logical() != 9 {
		t.Fatalf("logical = %d, want 9", c.Logical())
	}
}

func TestManualPageCounterVisitIgnoresOtherCounters(t *testing.T) {
	c := NewManualPageCounter()
	frame := layout.NewFrame(layout.Size{Width: 100, Height: 100})
	update := &content.CounterUpdateElem{Key: content.CounterKeyFigure, Update: content.CounterUpdateSet{Value: 9}}
	frame.Push(layout.Point{}, layout.TagItem{Tag: *content.NewStartTag(update, content.Location{Hash: 1}, content.TagFlags{})})

	c.Visit(frame)
	if c.Logical() != 1 {
		t.Fatalf("logical = %d, want unchanged 1", c.Logical())
	}
}

func TestManualPageCounterVisitRecursesIntoGroups(t *testing.T) {
	c := NewManualPageCounter()
	inner := layout.NewFrame(layout.Size{Width: 10, Height: 10})
	update := &content.CounterUpdateElem{Key: content.CounterKeyPage, Update: content.CounterUpdateStep{}}
	inner.Push(layout.Point{}, layout.TagItem{Tag: *content.NewStartTag(update, content.Location{Hash: 1}, content.TagFlags{})})

	outer := layout.NewFrame(layout.Size{Width: 100, Height: 100})
	outer.PushFrame(layout.Point{}, inner)

	c.Visit(outer)
	if c.Logical() != 2 {
		t.Fatalf("logical = %d, want 2", c.Logical())
	}
}

func TestParityMatches(t *testing.T) {
	cases := []struct {
		parity content.PageParity
		page   int
		want   bool
	}{
		{content.ParityAny, 2, true},
		{content.ParityOdd, 3, true},
		{content.ParityOdd, 4, false},
		{content.ParityEven, 4, true},
		{content.ParityEven, 3, false},
	}
	for _, tc := range cases {
		if got := parityMatches(tc.parity, tc.page); got != tc.want {
			t.Errorf("parityMatches(%v, %d) = %v, want %v", tc.parity, tc.page, got, tc.want)
		}
	}
}
