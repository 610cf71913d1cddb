package content

// PropertyKey names one stylable property from a closed, statically
// enumerated set, so the compiler catches an unknown property instead of
// a runtime string miss and StyleChain.Get compares small integer keys
// instead of property-name strings.
type PropertyKey uint8

const (
	KeyTextFont PropertyKey = iota
	KeyTextSize
	KeyTextWeight
	KeyTextStyle
	KeyTextFill
	KeyTextStroke
	KeyTextTracking
	KeyTextStretch
	KeyTextLang
	KeyParLeading
	KeyParJustify
	KeyParLinebreaks
	KeyParFirstLineIndent
	KeyParHangingIndent
	KeyParSpacing
	KeyBlockSpacing
	KeyBlockAbove
	KeyBlockBelow
	KeyAlignment
	KeyDir
	KeyNumColumns
	KeyColumnGutter
	KeyPageWidth
	KeyPageHeight
	KeyPageMargin
	KeyNumPropertyKeys // sentinel: number of keys, never itself assigned
)

// Foldable reports whether a property's pushed values accumulate (the
// effective value is a fold over every style in the chain, innermost
// last) rather than resolve (the innermost non-nil value wins outright).
func (k PropertyKey) Foldable() bool {
	switch k {
	case KeyTextStroke, KeyBlockSpacing:
		return true
	default:
		return false
	}
}

// PropertyValue is a type-erased holder for one property's value. Layout
// code that reads a specific key knows its concrete type and asserts it;
// the chain itself never interprets the payload.
type PropertyValue struct {
	k PropertyKey
	v any
}

func Prop(k PropertyKey, v any) PropertyValue { return PropertyValue{k: k, v: v} }

// Styles is an ordered list of property overrides, outermost first, as
// accumulated while descending into nested content (e.g. a heading's
// style pushed before its body is visited).
type Styles struct {
	props []PropertyValue
}

func (s Styles) Chain(parent *StyleChain) *StyleChain {
	return &StyleChain{styles: s, parent: parent}
}

func (s *Styles) Set(k PropertyKey, v any) {
	s.props = append(s.props, Prop(k, v))
}

// StyleChain is a linked list of Styles frames, innermost first, mirroring
// how nested content pushes narrower scopes on top of outer ones.
type StyleChain struct {
	styles Styles
	parent *StyleChain
}

// Get returns the effective value for k: for a resolving key, the value
// from the nearest frame that set it; for a foldable key, the fold of
// every frame's value from outermost to innermost, via combine.
func (c *StyleChain) Get(k PropertyKey) (any, bool) {
	if c == nil {
		return nil, false
	}
	if !k.Foldable() {
		for frame := c; frame != nil; frame = frame.parent {
			for i := len(frame.styles.props) - 1; i >= 0; i-- {
				if frame.styles.props[i].k == k {
					return frame.styles.props[i].v, true
				}
			}
		}
		return nil, false
	}

	var chainFrames []*StyleChain
	for frame := c; frame != nil; frame = frame.parent {
		chainFrames = append(chainFrames, frame)
	}
	var acc any
	found := false
	for i := len(chainFrames) - 1; i >= 0; i-- {
		frame := chainFrames[i]
		for _, p := range frame.styles.props {
			if p.k != k {
				continue
			}
			if !found {
				acc = p.v
				found = true
			} else {
				acc = foldValue(k, acc, p.v)
			}
		}
	}
	return acc, found
}

// foldValue combines an outer and inner value for a foldable key. Each
// foldable key names its own combination rule; unknown keys fall back to
// "inner wins" so an unanticipated foldable key degrades to resolve
// semantics instead of panicking.
func foldValue(k PropertyKey, outer, inner any) any {
	switch k {
	case KeyTextStroke:
		// An inner stroke override always replaces an outer one outright;
		// strokes don't have a sensible additive combination.
		return inner
	case KeyBlockSpacing:
		if o, ok := outer.(Relative); ok {
			if i, ok := inner.(Relative); ok {
				return o.Add(i)
			}
		}
		return inner
	default:
		return inner
	}
}

// GetOr returns the effective value or a fallback default.
func GetOr[T any](c *StyleChain, k PropertyKey, fallback T) T {
	if v, ok := c.Get(k); ok {
		if t, ok := v.(T); ok {
			return t
		}
	}
	return fallback
}
