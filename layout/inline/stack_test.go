package inline

import (
	"testing"

	"github.com/glyphworks/typeset/layout"
)

func lineFrame(w, h layout.Abs) *layout.Frame {
	f := layout.NewFrame(layout.Size{Width: w, Height: h})
	f.SetBaseline(h * 0.8)
	f.Push(layout.Point{}, layout.TagItem{})
	return f
}

func TestStackFrames(t *testing.T) {
	lines := []*layout.Frame{
		lineFrame(50, 10),
		lineFrame(80, 10),
		lineFrame(30, 10),
	}
	out := stackFrames(lines, 5)

	if got, want := out.Width(), layout.Abs(80); got != want {
		t.Errorf("Width() = %v, want %v", got, want)
	}
	if got, want := out.Height(), layout.Abs(40); got != want {
		t.Errorf("Height() = %v, want %v (3 lines + 2 gaps)", got, want)
	}
	if got, want := out.Baseline(), layout.Abs(8); got != want {
		t.Errorf("Baseline() = %v, want first line's %v", got, want)
	}
}

func TestStackFramesEmpty(t *testing.T) {
	out := stackFrames(nil, 5)
	if out.Width() != 0 || out.Height() != 0 {
		t.Errorf("empty stack should be zero-sized, got %v", out.Size())
	}
}

func TestDistributeLinesSingleRegion(t *testing.T) {
	lines := []*layout.Frame{lineFrame(50, 10), lineFrame(50, 10)}
	regions := layout.NewRegions(layout.Size{Width: 100, Height: 100})

	frag := distributeLines(lines, 0, regions)
	if frag.Len() != 1 {
		t.Fatalf("everything fits: want 1 frame, got %d", frag.Len())
	}
	if got, want := frag.First().Height(), layout.Abs(20); got != want {
		t.Errorf("Height() = %v, want %v", got, want)
	}
}

func TestDistributeLinesSplitsAcrossRegions(t *testing.T) {
	var lines []*layout.Frame
	for i := 0; i < 6; i++ {
		lines = append(lines, lineFrame(50, 10))
	}
	regions := layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 30})

	frag := distributeLines(lines, 0, regions)
	if frag.Len() != 2 {
		t.Fatalf("6 lines at 10pt into 30pt regions: want 2 frames, got %d", frag.Len())
	}
	for i, frame := range frag.Frames() {
		if got, want := frame.Height(), layout.Abs(30); got != want {
			t.Errorf("frame %d Height() = %v, want %v", i, got, want)
		}
	}
}

func TestDistributeLinesAvoidsWidow(t *testing.T) {
	var lines []*layout.Frame
	for i := 0; i < 4; i++ {
		lines = append(lines, lineFrame(50, 10))
	}
	// Three lines fit in the first region, which would leave the last
	// line alone in the second.
	regions := layout.NewRepeatingRegions(layout.Size{Width: 100, Height: 30})

	frag := distributeLines(lines, 0, regions)
	if frag.Len() != 2 {
		t.Fatalf("want 2 frames, got %d", frag.Len())
	}
	if got, want := frag.First().Height(), layout.Abs(20); got != want {
		t.Errorf("first region should keep 2 lines (widow avoidance), got height %v want %v", got, want)
	}
	if got, want := frag.Last().Height(), layout.Abs(20); got != want {
		t.Errorf("second region should take 2 lines, got height %v want %v", got, want)
	}
}

func TestDistributeLinesOverfillsFinalRegion(t *testing.T) {
	var lines []*layout.Frame
	for i := 0; i < 5; i++ {
		lines = append(lines, lineFrame(50, 10))
	}
	// No backlog, no repeating last region: nowhere to spill, so one
	// overfull frame comes back rather than dropped lines.
	regions := layout.NewRegions(layout.Size{Width: 100, Height: 30})

	frag := distributeLines(lines, 0, regions)
	if frag.Len() != 1 {
		t.Fatalf("want 1 frame, got %d", frag.Len())
	}
	if got, want := frag.First().Height(), layout.Abs(50); got != want {
		t.Errorf("final region should absorb all lines, got height %v want %v", got, want)
	}
}

func TestDistributeLinesDefersTooTallFirstLine(t *testing.T) {
	lines := []*layout.Frame{lineFrame(50, 50)}
	regions := &layout.Regions{
		Size:    layout.Size{Width: 100, Height: 30},
		Full:    30,
		Backlog: []layout.Abs{100},
	}

	frag := distributeLines(lines, 0, regions)
	if frag.Len() != 2 {
		t.Fatalf("want empty frame + deferred line, got %d frames", frag.Len())
	}
	if frag.First().Height() != 0 {
		t.Errorf("first region should stay empty, got height %v", frag.First().Height())
	}
	if got, want := frag.Last().Height(), layout.Abs(50); got != want {
		t.Errorf("line should land in the larger region: height %v, want %v", got, want)
	}
}

func TestDistributeLinesEmptyParagraph(t *testing.T) {
	regions := layout.NewRegions(layout.Size{Width: 100, Height: 30})
	frag := distributeLines(nil, 0, regions)
	if frag.Len() != 1 {
		t.Fatalf("an empty paragraph still yields one (empty) frame, got %d", frag.Len())
	}
}
