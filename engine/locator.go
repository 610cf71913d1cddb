package engine

import "github.com/glyphworks/typeset/content"

// Locator hands out stable identities to realized elements as layout
// walks the content tree, so that an element keeps the same
// content.Location across incremental relayout so long as the same
// sequence of Next/Split calls produces it (i.e. so long as nothing
// upstream of it in the tree changed). One canonical implementation is
// shared by every layout package that needs to mint locations, rather
// than each package keeping its own ad-hoc counter.
type Locator struct {
	seed    uint64
	counter uint64
}

// NewLocator creates a root locator. seed distinguishes independent
// documents/fragments sharing the memoization cache from colliding on
// location hashes.
func NewLocator(seed uint64) *Locator {
	return &Locator{seed: seed}
}

// Next advances the locator and returns the Location for the next
// element disambiguated by key, a small integer identifying which kind
// of call site is asking (so that e.g. the 3rd TextElement and the 3rd
// SpaceElement at the same nesting point don't collide).
func (l *Locator) Next(key uint64) content.Location {
	l.counter++
	return content.Location{
		Hash:    mix(l.seed, key, l.counter),
		Variant: 0,
	}
}

// Split produces an independent child locator for content laid out in
// isolation from its siblings (e.g. each grid cell, each footnote body).
// The child's sequence is seeded from the parent's current position so
// it does not collide with the parent's own future Next calls, but
// advancing the child does not advance the parent.
func (l *Locator) Split() *Locator {
	return &Locator{seed: mix(l.seed, l.counter, 0xD1B54A32D192ED03)}
}

// Relayout resets the counter while keeping the same seed, used when
// introspection fixpoint iteration (see the introspect package) reruns
// layout from scratch and needs identical locations to come out for
// identical input.
func (l *Locator) Relayout() *Locator {
	return &Locator{seed: l.seed}
}

// mix is a small stateless hash combiner (splitmix64-style) used to turn
// a locator's path into a 64-bit location hash without pulling in a
// hashing library for what is just a handful of integers; the structural
// hashing a memoizer needs over arbitrarily large keys is a different
// problem solved by the memo package via xxhash.
func mix(a, b, c uint64) uint64 {
	h := a ^ (b * 0x9E3779B97F4A7C15) ^ (c * 0xBF58476D1CE4E5B9)
	h ^= h >> 30
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 27
	h *= 0x94D049BB133111EB
	h ^= h >> 31
	return h
}
