// Package introspect answers queries about a document's own realized
// structure — "where did heading 3 end up", "what page is the element
// labeled fig:plot on" — from a snapshot built after layout runs, using
// the Tag/Location vocabulary every collecting pass already produces.
package introspect

import "github.com/glyphworks/typeset/content"

// Entry is one realized element's record in a snapshot: its identity,
// the element itself, and the page/position metadata layout attached
// once it knew where the element landed.
type Entry struct {
	Location content.Location
	Elem     content.ContentElement
	Page     int
	X, Y     float64 // page-space position of the element's frame origin
}

// Introspector answers queries against a frozen snapshot of a completed
// (or provisionally completed, mid-fixpoint) layout pass.
type Introspector interface {
	// Query returns every entry matching sel, in document order.
	Query(sel content.Selector) []Entry

	// Location returns the entry for a specific Location, if it exists
	// in this snapshot.
	Location(loc content.Location) (Entry, bool)

	// Range returns entries between two locations (inclusive bounds
	// controlled by the BeforeSelector/AfterSelector wrapping sel, if
	// any), used to answer "how many footnotes appear before this one".
	Range(sel content.Selector, from, to content.Location) []Entry
}

// Snapshot is the default in-memory Introspector: a flat, ordered list of
// entries plus indexes for the lookups layout actually needs (by
// element kind, by location). It's rebuilt wholesale after each fixpoint
// iteration rather than updated incrementally, since a full rebuild from
// a frame tree is already linear in document size and iteration count is
// capped (see Fixpoint).
type Snapshot struct {
	entries  []Entry
	byLoc    map[content.Location]int
	byKind   map[string][]int
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		byLoc:  make(map[content.Location]int),
		byKind: make(map[string][]int),
	}
}

// Empty returns a snapshot with no entries, the starting point for the
// first fixpoint iteration (per the spec's cycle-breaking design note:
// run once against an empty introspector, then rebuild from the output).
func Empty() *Snapshot { return NewSnapshot() }

// Record appends one realized element to the snapshot being built during
// a layout pass. kind is a short discriminant (e.g. "heading", "figure")
// used for ElementSelector matching.
func (s *Snapshot) Record(kind string, e Entry) {
	idx := len(s.entries)
	s.entries = append(s.entries, e)
	s.byLoc[e.Location] = idx
	s.byKind[kind] = append(s.byKind[kind], idx)
}

func (s *Snapshot) Location(loc content.Location) (Entry, bool) {
	idx, ok := s.byLoc[loc]
	if !ok {
		return Entry{}, false
	}
	return s.entries[idx], true
}

func (s *Snapshot) Query(sel content.Selector) []Entry {
	var out []Entry
	for i, e := range s.entries {
		if s.matches(sel, i, e) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Snapshot) Range(sel content.Selector, from, to content.Location) []Entry {
	fromIdx, fromOK := s.byLoc[from]
	toIdx, toOK := s.byLoc[to]
	if !fromOK {
		fromIdx = 0
	}
	if !toOK {
		toIdx = len(s.entries) - 1
	}
	var out []Entry
	for i := fromIdx; i <= toIdx && i < len(s.entries); i++ {
		if i < 0 {
			continue
		}
		if s.matches(sel, i, s.entries[i]) {
			out = append(out, s.entries[i])
		}
	}
	return out
}

func (s *Snapshot) matches(sel content.Selector, idx int, e Entry) bool {
	switch sel := sel.(type) {
	case content.ElementSelector:
		for _, i := range s.byKind[sel.Kind] {
			if i == idx {
				return true
			}
		}
		return false
	case content.LocationSelector:
		return sel.Location == e.Location
	case content.OrSelector:
		for _, sub := range sel.Of {
			if s.matches(sub, idx, e) {
				return true
			}
		}
		return false
	case content.AndSelector:
		for _, sub := range sel.Of {
			if !s.matches(sub, idx, e) {
				return false
			}
		}
		return len(sel.Of) > 0
	case content.BeforeSelector:
		before, ok := s.byLoc[sel.Before]
		if !ok {
			return s.matches(sel.Of, idx, e)
		}
		if sel.Inclusive {
			return idx <= before && s.matches(sel.Of, idx, e)
		}
		return idx < before && s.matches(sel.Of, idx, e)
	case content.AfterSelector:
		after, ok := s.byLoc[sel.After]
		if !ok {
			return s.matches(sel.Of, idx, e)
		}
		if sel.Inclusive {
			return idx >= after && s.matches(sel.Of, idx, e)
		}
		return idx > after && s.matches(sel.Of, idx, e)
	default:
		return false
	}
}
