package content

import "testing"

func TestFingerprintEqualForEqualText(t *testing.T) {
	a := Single(&TextElement{Text: "hello"})
	b := Single(&TextElement{Text: "hello"})
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("two distinct TextElements with identical text should fingerprint equal")
	}
}

func TestFingerprintDiffersForDifferentText(t *testing.T) {
	a := Single(&TextElement{Text: "hello"})
	b := Single(&TextElement{Text: "world"})
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("different text should fingerprint differently")
	}
}

func TestFingerprintRecursesIntoBody(t *testing.T) {
	a := Single(&StrongElement{Body: Single(&TextElement{Text: "x"})})
	b := Single(&StrongElement{Body: Single(&TextElement{Text: "y"})})
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("fingerprint should distinguish different nested bodies")
	}
}

func TestFingerprintRegionDiffersByExpand(t *testing.T) {
	a := FingerprintRegion(100, 200, false, false)
	b := FingerprintRegion(100, 200, true, false)
	if a == b {
		t.Error("expand flags should change the region fingerprint")
	}
}
