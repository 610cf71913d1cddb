package grid

// headerGroup is a contiguous row range sharing a header/footer flag and
// a nesting level, row y in [start, end).
type headerGroup struct {
	start, end int
	level      int
}

func (h headerGroup) rowCount() int { return h.end - h.start }

// headerGroups scans every row in order and returns each maximal
// contiguous run for which pred holds at a single level. A header/footer
// is whatever contiguous rows the caller marked cell by cell (via
// GridCell's IsHeader/IsFooter), not a separately declared range; a
// level change inside a flagged run starts a new group.
func headerGroups(g *Grid, pred func(int) bool, level func(int) int) []headerGroup {
	var groups []headerGroup
	inGroup := false
	start, lvl := 0, 0
	for y := 0; y < g.rowCount; y++ {
		switch {
		case pred(y) && !inGroup:
			inGroup, start, lvl = true, y, level(y)
		case pred(y) && level(y) != lvl:
			groups = append(groups, headerGroup{start, y, lvl})
			start, lvl = y, level(y)
		case !pred(y) && inGroup:
			groups = append(groups, headerGroup{start, y, lvl})
			inGroup = false
		}
	}
	if inGroup {
		groups = append(groups, headerGroup{start, g.rowCount, lvl})
	}
	return groups
}

// headerState tracks the repeating/pending header lifecycle across
// regions for one grid. Both lists stay sorted by ascending level (and
// so does their concatenation): pending headers only ever carry levels
// above everything repeating, because encountering a header of level L
// first conflicts away every tracked header of level >= L.
type headerState struct {
	repeating []headerGroup
	pending   []headerGroup
}

// encounter records that header group g was just reached during the row
// walk: headers of level >= g.level are conflicted out of both lists
// (their scope has ended; strictly lower levels belong to an enclosing
// scope that continues beneath g). shortLived headers (immediately
// followed by another header of equal or lower level) are placed once
// and never tracked for repetition.
func (h *headerState) encounter(g headerGroup, shortLived bool) {
	h.repeating = truncateToBelow(h.repeating, g.level)
	h.pending = truncateToBelow(h.pending, g.level)
	if !shortLived {
		h.pending = append(h.pending, g)
	}
}

// truncateToBelow keeps the prefix of a level-sorted group list whose
// levels are strictly below level.
func truncateToBelow(groups []headerGroup, level int) []headerGroup {
	i := 0
	for i < len(groups) && groups[i].level < level {
		i++
	}
	return groups[:i]
}

// confirm promotes every pending header to repeating once a row beyond
// them has been laid out successfully in the same region. Plain appends
// keep the list sorted: pending is itself sorted, and encounter already
// truncated repeating to strictly lower levels than anything pending.
func (h *headerState) confirm() {
	if len(h.pending) == 0 {
		return
	}
	h.repeating = append(h.repeating, h.pending...)
	h.pending = nil
}

// pendingEnd is the last row index (exclusive) covered by a pending
// header, or -1 when nothing is pending; the row walk confirms pending
// headers once it lays out a row at or past this point.
func (h *headerState) pendingEnd() int {
	if len(h.pending) == 0 {
		return -1
	}
	return h.pending[len(h.pending)-1].end
}

// active returns the header groups to re-emit at the top of a new
// region: the confirmed repeating ones, then the still-pending ones
// (re-tried every region for orphan prevention until confirmed or
// conflicted away). The concatenation is sorted by ascending level.
func (h *headerState) active() []headerGroup {
	out := make([]headerGroup, 0, len(h.repeating)+len(h.pending))
	out = append(out, h.repeating...)
	out = append(out, h.pending...)
	return out
}
