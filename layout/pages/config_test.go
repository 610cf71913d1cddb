package pages

import (
	"testing"

	"github.com/glyphworks/typeset/content"
)

func TestDerivePageConfigDefaults(t *testing.T) {
	cfg := derivePageConfig(nil)
	if cfg.size.Width != paperA4Width || cfg.size.Height != paperA4Height {
		t.Fatalf("size = %v, want A4", cfg.size)
	}
	if cfg.margin.Left <= 0 || cfg.margin.Left != cfg.margin.Right {
		t.Fatalf("margin = %v, want equal nonzero sides", cfg.margin)
	}
}

func TestDerivePageConfigExplicitMarginOverridesDefault(t *testing.T) {
	elem := &content.PageElement{
		Margin: content.Sides[content.Length]{
			Left: content.Length{Points: 10}, Top: content.Length{Points: 20},
			Right: content.Length{Points: 10}, Bottom: content.Length{Points: 20},
		},
	}
	cfg := derivePageConfig(elem)
	if cfg.margin.Left != 10 || cfg.margin.Top != 20 {
		t.Fatalf("margin = %v, want {10,20,10,20}", cfg.margin)
	}
}

func TestDerivePageConfigFlippedSwapsDimensions(t *testing.T) {
	elem := &content.PageElement{
		Width: content.Length{Points: 100}, Height: content.Length{Points: 200},
		Flipped: true,
	}
	cfg := derivePageConfig(elem)
	if cfg.size.Width != 200 || cfg.size.Height != 100 {
		t.Fatalf("size = %v, want {200,100}", cfg.size)
	}
}

func TestDerivePageConfigHeightAutoIsInfinite(t *testing.T) {
	elem := &content.PageElement{HeightAuto: true}
	cfg := derivePageConfig(elem)
	if cfg.size.Height.IsFinite() {
		t.Fatalf("height = %v, want infinite", cfg.size.Height)
	}
}

func TestContentAreaSubtractsMargins(t *testing.T) {
	elem := &content.PageElement{
		Width: content.Length{Points: 100}, Height: content.Length{Points: 100},
		Margin: content.Sides[content.Length]{
			Left: content.Length{Points: 10}, Top: content.Length{Points: 10},
			Right: content.Length{Points: 10}, Bottom: content.Length{Points: 10},
		},
	}
	cfg := derivePageConfig(elem)
	area := cfg.contentArea()
	if area.Width != 80 || area.Height != 80 {
		t.Fatalf("area = %v, want {80,80}", area)
	}
}
