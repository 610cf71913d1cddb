package content

import (
	"fmt"

	"github.com/glyphworks/typeset/memo"
)

// Fingerprint computes a structural hash of a content tree, walking the
// same closed element set the inline paragraph builder understands plus
// the block-level wrapper kinds the grid and flow layouters pass through
// it. Two content trees that are field-for-field equal hash to the same
// value regardless of where in memory either tree lives, so a memoizer
// can key on this instead of pointer identity.
//
// This is deliberately scoped to the elements that actually reach
// layout/inline.Layout (cell bodies, paragraph bodies): a full
// fingerprint of every element kind in elements_*.go would need to track
// every field of every block-level container, which no memoized call
// site in this tree needs yet. An element kind outside this set falls
// back to hashing its Go type name only, which is always structurally
// distinguishable from every other kind (good enough not to collide) but
// not from another instance of the *same* unhandled kind (acceptable:
// nothing memoizes on those yet, see memo package's caller sites).
func Fingerprint(c Content) uint64 {
	h := memo.NewHasher()
	fingerprintInto(h, c)
	return h.Sum()
}

func fingerprintInto(h *memo.Hasher, c Content) {
	h.WriteUint64(uint64(len(c.Elements)))
	for _, e := range c.Elements {
		fingerprintElement(h, e)
	}
}

func fingerprintElement(h *memo.Hasher, e ContentElement) {
	switch v := e.(type) {
	case *TextElement:
		h.WriteString("text")
		h.WriteString(v.Text)
	case *SpaceElement:
		h.WriteString("space")
	case *LinebreakElement:
		h.WriteString("linebreak")
		h.WriteUint64(boolBit(v.Justify))
	case *ParbreakElement:
		h.WriteString("parbreak")
	case *StrongElement:
		h.WriteString("strong")
		fingerprintInto(h, v.Body)
	case *EmphElement:
		h.WriteString("emph")
		fingerprintInto(h, v.Body)
	case *LinkElement:
		h.WriteString("link")
		h.WriteString(v.URL)
		fingerprintInto(h, v.Body)
	case *RawElement:
		h.WriteString("raw")
		h.WriteString(v.Text)
		h.WriteString(v.Lang)
	case *SmartQuoteElement:
		h.WriteString("smartquote")
		h.WriteUint64(boolBit(v.Double))
	case *TagElem:
		h.WriteString("tag")
		h.WriteUint64(v.Location.Hash)
		h.WriteUint64(uint64(v.Location.Variant))
	case *ParagraphElement:
		h.WriteString("paragraph")
		h.WriteUint64(boolBit(v.Justify))
		fingerprintInto(h, v.Body)
	default:
		h.WriteString("other")
		h.WriteString(fmt.Sprintf("%T", e))
	}
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// FingerprintRegion hashes a region's size and expansion flags, the
// other half of a memoizer's (input, region) key.
func FingerprintRegion(width, height float64, expandX, expandY bool) uint64 {
	h := memo.NewHasher()
	h.WriteFloat64(width)
	h.WriteFloat64(height)
	h.WriteUint64(boolBit(expandX))
	h.WriteUint64(boolBit(expandY))
	return h.Sum()
}
