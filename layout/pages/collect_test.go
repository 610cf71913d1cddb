package pages

import (
	"testing"

	"github.com/glyphworks/typeset/content"
)

func tag(loc content.Location, kind content.TagKind) *content.TagElem {
	return &content.TagElem{Kind: kind, Location: loc}
}

func TestCollectSplitsOnStrongPagebreak(t *testing.T) {
	body := content.Content{Elements: []content.ContentElement{
		&content.TextElement{Text: "a"},
		&content.PagebreakElement{},
		&content.TextElement{Text: "b"},
	}}
	items := Collect(body)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	first, ok := items[0].(RunItem)
	if !ok || len(first.Children) != 1 {
		t.Fatalf("first item = %#v", items[0])
	}
	second, ok := items[1].(RunItem)
	if !ok || len(second.Children) != 1 {
		t.Fatalf("second item = %#v", items[1])
	}
}

func TestCollectWeakBreakDoesNotFlushEmptyRun(t *testing.T) {
	body := content.Content{Elements: []content.ContentElement{
		&content.PagebreakElement{Weak: true},
		&content.TextElement{Text: "a"},
	}}
	items := Collect(body)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	run := items[0].(RunItem)
	if len(run.Children) != 1 {
		t.Fatalf("run has %d children, want 1", len(run.Children))
	}
}

func TestCollectEmptyDocumentProducesOnePage(t *testing.T) {
	items := Collect(content.Content{})
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	run, ok := items[0].(RunItem)
	if !ok || len(run.Children) != 0 {
		t.Fatalf("item = %#v", items[0])
	}
}

func TestCollectParityItemAfterPagebreak(t *testing.T) {
	body := content.Content{Elements: []content.ContentElement{
		&content.TextElement{Text: "a"},
		&content.PagebreakElement{ToParity: content.ParityOdd},
		&content.TextElement{Text: "b"},
	}}
	items := Collect(body)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if _, ok := items[1].(ParityItem); !ok {
		t.Fatalf("items[1] = %#v, want ParityItem", items[1])
	}
}

func TestCollectBodylessPageElementSetsConfigForFollowingRun(t *testing.T) {
	cfg := &content.PageElement{Numbering: "1"}
	body := content.Content{Elements: []content.ContentElement{
		cfg,
		&content.TextElement{Text: "a"},
	}}
	items := Collect(body)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	run := items[0].(RunItem)
	if run.Config != cfg {
		t.Fatalf("run.Config = %v, want %v", run.Config, cfg)
	}
}

func TestCollectBodyfulPageElementIsItsOwnRun(t *testing.T) {
	page := &content.PageElement{Body: content.Single(&content.TextElement{Text: "x"})}
	body := content.Content{Elements: []content.ContentElement{
		&content.TextElement{Text: "before"},
		page,
		&content.TextElement{Text: "after"},
	}}
	items := Collect(body)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	mid := items[1].(RunItem)
	if mid.Config != page || len(mid.Children) != 1 {
		t.Fatalf("middle run = %#v", mid)
	}
}

func TestSplitTrailingTagsMigratesUnterminatedStart(t *testing.T) {
	loc := content.Location{Hash: 1}
	elems := []content.ContentElement{
		&content.TextElement{Text: "a"},
		tag(loc, content.TagStart),
	}
	kept, migrated := splitTrailingTags(elems)
	if len(kept) != 1 {
		t.Fatalf("kept = %#v, want 1 element", kept)
	}
	if len(migrated) != 1 {
		t.Fatalf("migrated = %#v, want 1 element", migrated)
	}
}

func TestSplitTrailingTagsKeepsTerminatedPair(t *testing.T) {
	loc := content.Location{Hash: 1}
	elems := []content.ContentElement{
		&content.TextElement{Text: "a"},
		tag(loc, content.TagStart),
		tag(loc, content.TagEnd),
	}
	kept, migrated := splitTrailingTags(elems)
	if len(kept) != 3 {
		t.Fatalf("kept = %#v, want 3 elements", kept)
	}
	if len(migrated) != 0 {
		t.Fatalf("migrated = %#v, want none", migrated)
	}
}

// All-tags, zero-excluded: every trailing element is an unterminated
// start tag. splitTrailingTags always returns a strictly smaller kept
// slice in this case, with no caller-side index that could stall.
func TestSplitTrailingTagsAllUnterminatedDoesNotStall(t *testing.T) {
	elems := []content.ContentElement{
		tag(content.Location{Hash: 1}, content.TagStart),
		tag(content.Location{Hash: 2}, content.TagStart),
	}
	kept, migrated := splitTrailingTags(elems)
	if len(kept) != 0 {
		t.Fatalf("kept = %#v, want none", kept)
	}
	if len(migrated) != 2 {
		t.Fatalf("migrated = %#v, want 2 elements", migrated)
	}
}
