package content

import "testing"

func TestStyleChainResolveInnermostWins(t *testing.T) {
	var outer, inner Styles
	outer.Set(KeyTextSize, Pt(10))
	inner.Set(KeyTextSize, Pt(14))

	outerChain := outer.Chain(nil)
	innerChain := inner.Chain(outerChain)

	got, ok := innerChain.Get(KeyTextSize)
	if !ok {
		t.Fatal("expected a value")
	}
	if got.(Length).Points != 14 {
		t.Errorf("expected innermost 14pt to win, got %v", got)
	}
}

func TestStyleChainFoldAccumulates(t *testing.T) {
	var outer, inner Styles
	outer.Set(KeyBlockSpacing, RelativeFromLength(Pt(5)))
	inner.Set(KeyBlockSpacing, RelativeFromLength(Pt(3)))

	chain := inner.Chain(outer.Chain(nil))
	got, ok := chain.Get(KeyBlockSpacing)
	if !ok {
		t.Fatal("expected a value")
	}
	if got.(Relative).Abs.Points != 8 {
		t.Errorf("expected folded 5+3=8pt, got %v", got.(Relative).Abs.Points)
	}
}

func TestStyleChainMissingKey(t *testing.T) {
	var s Styles
	s.Set(KeyTextSize, Pt(10))
	chain := s.Chain(nil)
	if _, ok := chain.Get(KeyTextWeight); ok {
		t.Error("expected no value for unset key")
	}
}

func TestGetOrFallback(t *testing.T) {
	chain := (&Styles{}).Chain(nil)
	got := GetOr(chain, KeyTextWeight, 400)
	if got != 400 {
		t.Errorf("expected fallback 400, got %d", got)
	}
}
