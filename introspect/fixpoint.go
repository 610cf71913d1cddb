package introspect

// MaxFixpointIterations bounds how many times Fixpoint reruns layout
// before giving up and using the last snapshot, per the spec's
// introspection-cycle design note.
const MaxFixpointIterations = 5

// Fixpoint breaks the circularity between layout and introspection:
// content can query "what page is X on" before X itself has been laid
// out, so layout runs once against an empty snapshot, the real output is
// used to build a snapshot, and layout reruns against that snapshot —
// repeating until two consecutive snapshots agree (every query's answer
// stopped changing) or the iteration cap is hit.
//
// layoutOnce receives the snapshot to answer queries against and returns
// the new snapshot its output implies; it must be pure given its input
// snapshot (no hidden state carried between calls) for convergence to be
// meaningful. converged, not same-snapshot identity, decides when to
// stop: it's the caller's job to say whether two snapshots are
// equivalent for its purposes (typically: same set of locations at the
// same pages).
func Fixpoint(layoutOnce func(*Snapshot) *Snapshot, converged func(prev, next *Snapshot) bool) (*Snapshot, int, bool) {
	snap := Empty()
	for i := 0; i < MaxFixpointIterations; i++ {
		next := layoutOnce(snap)
		if i > 0 && converged(snap, next) {
			return next, i + 1, true
		}
		snap = next
	}
	return snap, MaxFixpointIterations, false
}

// SameLocations is the converged predicate layout uses by default: two
// snapshots are equivalent if they agree on every location's page and
// position, regardless of entry order.
func SameLocations(prev, next *Snapshot) bool {
	if len(prev.entries) != len(next.entries) {
		return false
	}
	for loc, idx := range prev.byLoc {
		nidx, ok := next.byLoc[loc]
		if !ok {
			return false
		}
		pe, ne := prev.entries[idx], next.entries[nidx]
		if pe.Page != ne.Page || pe.X != ne.X || pe.Y != ne.Y {
			return false
		}
	}
	return true
}
