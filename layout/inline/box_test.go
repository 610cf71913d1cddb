package inline

import (
	"testing"

	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/layout"
)

func TestLayoutInlineBoxExplicitSize(t *testing.T) {
	e := &content.BoxElement{
		Width:  content.Set(content.RelativeFromLength(content.Pt(30))),
		Height: content.Set(content.RelativeFromLength(content.Pt(20))),
	}
	frame := layoutInlineBox(e, nil, nil, layout.Abs(11))
	if frame.Width() != 30 || frame.Height() != 20 {
		t.Errorf("got size %v x %v, want 30 x 20", frame.Width(), frame.Height())
	}
}

func TestLayoutInlineBoxInsetGrowsFrame(t *testing.T) {
	e := &content.BoxElement{
		Width:  content.Set(content.RelativeFromLength(content.Pt(10))),
		Height: content.Set(content.RelativeFromLength(content.Pt(10))),
		Inset: content.Sides[content.Relative]{
			Left: content.RelativeFromLength(content.Pt(5)),
			Top:  content.RelativeFromLength(content.Pt(5)),
		},
	}
	frame := layoutInlineBox(e, nil, nil, layout.Abs(11))
	if frame.Width() != 15 || frame.Height() != 15 {
		t.Errorf("got grown size %v x %v, want 15 x 15", frame.Width(), frame.Height())
	}
}

func TestLayoutInlineBoxEmptyBodyAuto(t *testing.T) {
	e := &content.BoxElement{Width: content.Auto[content.Relative](), Height: content.Auto[content.Relative]()}
	frame := layoutInlineBox(e, nil, nil, layout.Abs(11))
	if frame.Width() != 0 || frame.Height() != 0 {
		t.Errorf("empty auto box should be zero-sized, got %v x %v", frame.Width(), frame.Height())
	}
}
