package content

import "testing"

func TestLengthResolve(t *testing.T) {
	l := Length{Points: 2, Em: 1.5}
	got := l.Resolve(10)
	want := 2 + 1.5*10
	if got != want {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestLengthSaturatesOnOverflow(t *testing.T) {
	l := Pt(Inf).Add(Pt(Inf))
	if l.Points != Inf {
		t.Errorf("expected saturation to Inf, got %v", l.Points)
	}
}

func TestLengthDivByZeroSaturates(t *testing.T) {
	l := Pt(5).Div(0)
	if l.Points != Inf {
		t.Errorf("expected division by zero to saturate to Inf, got %v", l.Points)
	}
}

func TestFractionShareZeroTotal(t *testing.T) {
	f := Fr(1)
	got := f.Share(Fr(0), 100)
	if got != 0 {
		t.Errorf("expected zero share when total is zero, got %v", got)
	}
}

func TestFractionShareSplitsLeftover(t *testing.T) {
	a, b := Fr(1), Fr(3)
	total := a.Add(b)
	if got := a.Share(total, 100); got != 25 {
		t.Errorf("a.Share = %v, want 25", got)
	}
	if got := b.Share(total, 100); got != 75 {
		t.Errorf("b.Share = %v, want 75", got)
	}
}
