package content

// Selector and Transform are carried through the content tree as inert
// tagged-variant data: layout never evaluates a selector against live
// content or invokes a transform. Show-rule realization (a Non-goal) has
// already run by the time layout sees a tree, replacing every matched
// element with its transform's result; what's left here is only the
// residue layout needs to recognize so it can skip re-deriving style
// decisions realization already made (e.g. a TagElem's Flags) and so
// queries the introspector answers can describe what was matched. It is
// kept as a closed sum type instead of dynamic dispatch since nothing
// downstream of realization constructs new variants.
type Selector interface {
	isSelector()
}

// ElementSelector matches by a realized element's kind, e.g. "every
// heading matches this selector for numbering purposes".
type ElementSelector struct {
	Kind string
}

func (ElementSelector) isSelector() {}

// LabelSelector matches content carrying a specific label.
type LabelSelector struct {
	Label string
}

func (LabelSelector) isSelector() {}

// LocationSelector matches the single element at a specific Location.
type LocationSelector struct {
	Location Location
}

func (LocationSelector) isSelector() {}

// OrSelector matches if any sub-selector matches.
type OrSelector struct {
	Of []Selector
}

func (OrSelector) isSelector() {}

// AndSelector matches if every sub-selector matches.
type AndSelector struct {
	Of []Selector
}

func (AndSelector) isSelector() {}

// BeforeSelector/AfterSelector restrict a selector to occurrences before
// or after a given location, used by the introspector's range queries.
type BeforeSelector struct {
	Of     Selector
	Before Location
	Inclusive bool
}

func (BeforeSelector) isSelector() {}

type AfterSelector struct {
	Of    Selector
	After Location
	Inclusive bool
}

func (AfterSelector) isSelector() {}

// Transform is the residue of a resolved show rule: layout never applies
// one, it only recognizes that an element was the product of one, which
// matters for cycle detection (a transform's output must not re-match
// the selector that produced it).
type Transform interface {
	isTransform()
}

// ContentTransform replaces matched content outright.
type ContentTransform struct {
	Result Content
}

func (ContentTransform) isTransform() {}

// StyleTransform applies additional styling without changing content.
type StyleTransform struct {
	Styles Styles
}

func (StyleTransform) isTransform() {}
