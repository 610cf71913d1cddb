package inline

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/bidi"

	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/layout"
)

// Cost is the Knuth-Plass demerit unit the optimized breaker minimizes.
type Cost = float64

// Default hyphenation and runt-line penalties, tuned above the
// Knuth-Plass paper's values (which would be ~50) because the paper's
// constants hyphenate too eagerly once ported outside TeX's own metrics.
const (
	DefaultHyphCost Cost = 135.0
	DefaultRuntCost Cost = 100.0
)

const (
	minRatioFloor  = -1.0
	minApproxFloor = -0.5
	boundEps       = 1e-3
)

const zeroWidthSpace = '\u200B'

// Breakpoint classifies one candidate end-of-line position.
type Breakpoint uint8

const (
	BreakNormal Breakpoint = iota
	BreakMandatory
)

// HyphenInfo records a hyphenation candidate's syllable split, used by
// the runt/hyphen penalty to discourage splitting too close to a word's
// edge.
type HyphenInfo struct{ Before, After uint8 }

// BreakpointInfo is one entry the breakpoint scanner yields: its class
// and, for a hyphenation candidate, the syllable split either side of
// the hyphen.
type BreakpointInfo struct {
	Kind   Breakpoint
	Hyphen *HyphenInfo
}

func normalBreak() BreakpointInfo    { return BreakpointInfo{Kind: BreakNormal} }
func mandatoryBreak() BreakpointInfo { return BreakpointInfo{Kind: BreakMandatory} }
func hyphenBreak(before, after uint8) BreakpointInfo {
	return BreakpointInfo{Kind: BreakNormal, Hyphen: &HyphenInfo{Before: before, After: after}}
}

func (b BreakpointInfo) IsHyphen() bool     { return b.Hyphen != nil }
func (b BreakpointInfo) IsMandatory() bool  { return b.Kind == BreakMandatory }

// trimSpan is the pair of trim positions a breakpoint implies: Layout is
// where a line's measured width stops, Shaping is where its shaped
// glyphs stop (always >= Layout, since trailing whitespace is shaped but
// contributes no advance).
type trimSpan struct{ Layout, Shaping int }

func (b BreakpointInfo) trimLine(start int, line string) trimSpan {
	switch {
	case b.IsHyphen():
		return trimSpan{start + len(line), start + len(line)}
	case b.IsMandatory():
		trimmed := trimMandatoryBreaks(line)
		return trimSpan{start + len(trimmed), start + len(trimmed)}
	default:
		trimmed := trimTrailingWhitespace(line)
		return trimSpan{start + len(trimmed), start + len(line)}
	}
}

func trimTrailingWhitespace(s string) string {
	r := []rune(s)
	end := len(r)
	for end > 0 && (unicode.IsSpace(r[end-1]) || r[end-1] == zeroWidthSpace) {
		end--
	}
	return string(r[:end])
}

func trimMandatoryBreaks(s string) string {
	r := []rune(s)
	end := len(r)
	for end > 0 {
		switch r[end-1] {
		case '\n', '\r', '\u0085', '\u2028', '\u2029':
			end--
			continue
		}
		break
	}
	return string(r[:end])
}

// Linebreak dispatches to the configured algorithm.
func Linebreak(p *Preparation, width layout.Abs) []Line {
	switch p.Config.Linebreaks {
	case content.LinebreaksSimple:
		return linebreakSimple(p, width)
	case content.LinebreaksOptimized:
		return linebreakOptimized(p, width)
	default:
		return linebreakSimple(p, width)
	}
}

// linebreakSimple is a greedy first-fit breaker: it always extends the
// current line as far as it fits, backing off to the last attempt that
// did when the next breakpoint overflows.
func linebreakSimple(p *Preparation, width layout.Abs) []Line {
	var lines []Line
	start := 0
	type pending struct {
		line Line
		end  int
	}
	var last *pending

	breakpoints(p, func(end int, bp BreakpointInfo) {
		var pred *Line
		if len(lines) > 0 {
			pred = &lines[len(lines)-1]
		}
		attempt := makeLine(p, start, end, bp, pred)

		if !width.Fits(attempt.Width) && last != nil {
			lines = append(lines, last.line)
			start = last.end
			attempt = makeLine(p, start, end, bp, &lines[len(lines)-1])
			last = nil
		}

		if bp.IsMandatory() || !width.Fits(attempt.Width) {
			lines = append(lines, attempt)
			start = end
			last = nil
		} else {
			last = &pending{attempt, end}
		}
	})

	if last != nil {
		lines = append(lines, last.line)
	}
	return lines
}

// linebreakOptimized runs the two-pass Knuth-Plass breaker: a cheap
// approximate pass over cumulative-sum estimates establishes an upper
// cost bound, then the bounded exact pass prunes any partial solution
// that cannot possibly beat it.
func linebreakOptimized(p *Preparation, width layout.Abs) []Line {
	metrics := computeCostMetrics(p)
	upperBound := linebreakApprox(p, width, metrics)
	return linebreakBounded(p, width, metrics, upperBound)
}

type dpEntry struct {
	pred  int
	total Cost
	line  Line
	end   int
}

func linebreakBounded(p *Preparation, width layout.Abs, metrics *costMetrics, upperBound Cost) []Line {
	table := []dpEntry{{pred: 0, total: 0, line: EmptyLine(), end: 0}}
	active, prevEnd := 0, 0

	breakpoints(p, func(end int, bp BreakpointInfo) {
		var best *dpEntry
		var lineLowerBound *Cost

		for i := active; i < len(table); i++ {
			pred := &table[i]
			start := pred.end
			unbreakable := prevEnd == start

			if lineLowerBound != nil && pred.total+*lineLowerBound > upperBound+boundEps {
				continue
			}

			attempt := makeLine(p, start, end, bp, &pred.line)
			ratio, cost := ratioAndCost(p, metrics, width, &pred.line, &attempt, bp, unbreakable)

			if ratio < metrics.minRatio && active == i {
				active++
			}

			total := pred.total + cost
			if ratio > 0 && lineLowerBound == nil && !attempt.HasNegativeWidthItems() {
				lineLowerBound = &cost
			}
			if total > upperBound+boundEps {
				continue
			}
			if best == nil || best.total >= total {
				best = &dpEntry{pred: i, total: total, line: attempt, end: end}
			}
		}

		if bp.IsMandatory() {
			active = len(table)
		}
		if best != nil {
			table = append(table, *best)
		}
		prevEnd = end
	})

	idx := len(table) - 1
	if table[idx].end != len(p.Text) {
		return linebreakBounded(p, width, metrics, math.Inf(1))
	}

	var lines []Line
	for idx != 0 {
		lines = append(lines, table[idx].line)
		idx = table[idx].pred
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}

type approxEntry struct {
	pred        int
	total       Cost
	end         int
	unbreakable bool
	bp          BreakpointInfo
}

func linebreakApprox(p *Preparation, width layout.Abs, metrics *costMetrics) Cost {
	est := computeEstimates(p)

	table := []approxEntry{{pred: 0, total: 0, end: 0, bp: mandatoryBreak()}}
	active, prevEnd := 0, 0

	breakpoints(p, func(end int, bp BreakpointInfo) {
		var best *approxEntry

		for i := active; i < len(table); i++ {
			pred := &table[i]
			start := pred.end
			unbreakable := prevEnd == start

			justify := p.Config.Justify && !bp.IsMandatory()
			consecutiveDash := pred.bp.IsHyphen() && bp.IsHyphen()

			trimmedEnd := start + len(trimTrailingWhitespace(p.Text[start:end]))
			var hyphenWidth layout.Abs
			if bp.IsHyphen() {
				hyphenWidth = metrics.approxHyphenWidth
			}

			ratio := rawRatio(p, width,
				est.widths.estimate(start, trimmedEnd)+hyphenWidth,
				est.stretch.estimate(start, trimmedEnd),
				est.shrink.estimate(start, trimmedEnd),
				est.justifiables.estimate(start, trimmedEnd))

			cost := rawCost(metrics, bp, ratio, justify, unbreakable, consecutiveDash, true)

			if ratio < metrics.minRatio && active == i {
				active++
			}
			total := pred.total + cost
			if best == nil || best.total >= total {
				best = &approxEntry{pred: i, total: total, end: end, unbreakable: unbreakable, bp: bp}
			}
		}

		if bp.IsMandatory() {
			active = len(table)
		}
		if best != nil {
			table = append(table, *best)
		}
		prevEnd = end
	})

	var indices []int
	idx := len(table) - 1
	for idx != 0 {
		indices = append(indices, idx)
		idx = table[idx].pred
	}

	pred := EmptyLine()
	start := 0
	var exact Cost
	for i := len(indices) - 1; i >= 0; i-- {
		e := table[indices[i]]
		attempt := makeLine(p, start, e.end, e.bp, &pred)
		ratio, cost := ratioAndCost(p, metrics, width, &pred, &attempt, e.bp, e.unbreakable)
		if ratio < metrics.minRatio {
			return math.Inf(1)
		}
		pred = attempt
		start = e.end
		exact += cost
	}
	return exact
}

func ratioAndCost(p *Preparation, metrics *costMetrics, available layout.Abs, pred, attempt *Line, bp BreakpointInfo, unbreakable bool) (float64, Cost) {
	ratio := rawRatio(p, available, attempt.Width, attempt.Stretchability(), attempt.Shrinkability(), attempt.Justifiables())
	hasDash := pred.Dash != DashNone && attempt.Dash != DashNone
	return ratio, rawCost(metrics, bp, ratio, attempt.Justify, unbreakable, hasDash, false)
}

func rawRatio(p *Preparation, available, lineWidth, stretch, shrink layout.Abs, justifiables int) float64 {
	delta := available - lineWidth
	if delta.ApproxEq(0) {
		delta = 0
	}

	adjustability := shrink
	if delta >= 0 {
		adjustability = stretch
	}
	if adjustability < 0 {
		adjustability = 0
	}

	ratio := float64(delta) / float64(adjustability)
	if math.IsNaN(ratio) {
		ratio = 0
	}

	if ratio > 1.0 {
		j := justifiables
		if j < 1 {
			j = 1
		}
		extra := float64(delta-adjustability) / float64(j)
		ratio = 1.0 + extra/(float64(p.Config.FontSize)/2.0)
	}

	if ratio < minRatioFloor-1.0 {
		ratio = minRatioFloor - 1.0
	}
	if ratio > 10.0 {
		ratio = 10.0
	}
	return ratio
}

func rawCost(metrics *costMetrics, bp BreakpointInfo, ratio float64, justify, unbreakable, consecutiveDash, approx bool) Cost {
	minRat := metrics.minRatio
	if approx {
		minRat = metrics.minApproxRatio
	}

	var badness Cost
	switch {
	case ratio < minRat:
		badness = 1_000_000.0
	case !bp.IsMandatory() || justify || ratio < 0:
		badness = 100.0 * math.Pow(math.Abs(ratio), 3)
	default:
		badness = 0
	}

	var penalty Cost
	if unbreakable && bp.IsMandatory() {
		penalty += metrics.runtCost
	}
	if bp.Hyphen != nil {
		const limit uint8 = 5
		steps := saturatingSub(limit, bp.Hyphen.Before) + saturatingSub(limit, bp.Hyphen.After)
		penalty += (1.0 + 0.15*float64(steps)) * metrics.hyphCost
	}
	if consecutiveDash {
		penalty += metrics.hyphCost
	}

	return math.Pow(1.0+badness+penalty, 2)
}

func saturatingSub(a, b uint8) uint8 {
	if b >= a {
		return 0
	}
	return a - b
}

type costMetrics struct {
	minRatio, minApproxRatio float64
	approxHyphenWidth        layout.Abs
	hyphCost, runtCost       Cost
}

func computeCostMetrics(p *Preparation) *costMetrics {
	var minRatio, minApprox float64
	if p.Config.Justify {
		minRatio, minApprox = minRatioFloor, minApproxFloor
	}
	return &costMetrics{
		minRatio:          minRatio,
		minApproxRatio:    minApprox,
		approxHyphenWidth: layout.Em(0.33).Resolve(p.Config.FontSize),
		hyphCost:          DefaultHyphCost * p.Config.Costs.Hyphenation,
		runtCost:          DefaultRuntCost * p.Config.Costs.Runt,
	}
}

// estimates holds cumulative-sum arrays over the paragraph's byte range
// so the approximate pass can query any sub-range's width/stretch/
// shrink/justifiable-count in O(1) instead of re-walking glyphs.
type estimates struct {
	widths, stretch, shrink *CumulativeVec[layout.Abs]
	justifiables            *CumulativeVec[int]
}

func computeEstimates(p *Preparation) *estimates {
	n := len(p.Text)
	widths := newCumulativeVec[layout.Abs](n)
	stretch := newCumulativeVec[layout.Abs](n)
	shrink := newCumulativeVec[layout.Abs](n)
	justifiables := newCumulativeVec[int](n)

	for _, pi := range p.Items {
		if ti, ok := pi.Item.(*TextItem); ok && ti.Shaped != nil {
			for _, g := range ti.Shaped.Glyphs.All() {
				byteLen := g.Range.Len()
				widths.push(byteLen, g.XAdvance.Resolve(g.Size))
				stretch.push(byteLen, g.Adjustability.Stretch().Resolve(g.Size))
				shrink.push(byteLen, g.Adjustability.Shrink().Resolve(g.Size))
				j := 0
				if g.IsJustifiable {
					j = 1
				}
				justifiables.push(byteLen, j)
			}
		} else {
			widths.push(pi.Range.Len(), pi.Item.NaturalWidth())
		}
		widths.adjust(pi.Range.End)
		stretch.adjust(pi.Range.End)
		shrink.adjust(pi.Range.End)
		justifiables.adjust(pi.Range.End)
	}

	return &estimates{widths: widths, stretch: stretch, shrink: shrink, justifiables: justifiables}
}

// Numeric bounds the value types CumulativeVec works over.
type Numeric interface{ ~int | ~float64 }

// CumulativeVec is a prefix-sum array supporting O(1) range-sum queries
// over byte offsets, the data structure the approximate line-breaking
// pass uses to avoid re-summing glyph metrics for every candidate line.
type CumulativeVec[T Numeric] struct {
	total  T
	summed []T
}

func newCumulativeVec[T Numeric](capacity int) *CumulativeVec[T] {
	c := &CumulativeVec[T]{summed: make([]T, 0, capacity+1)}
	var zero T
	c.summed = append(c.summed, zero)
	return c
}

func (c *CumulativeVec[T]) adjust(length int) {
	for len(c.summed) < length {
		c.summed = append(c.summed, c.total)
	}
}

func (c *CumulativeVec[T]) push(byteLen int, metric T) {
	c.total += metric
	for i := 0; i < byteLen; i++ {
		c.summed = append(c.summed, c.total)
	}
}

func (c *CumulativeVec[T]) estimate(start, end int) T { return c.get(end) - c.get(start) }

func (c *CumulativeVec[T]) get(index int) T {
	if index == 0 {
		var zero T
		return zero
	}
	if index-1 < len(c.summed) {
		return c.summed[index-1]
	}
	return c.total
}

// breakpoints scans p.Text for every candidate end-of-line position:
// mandatory breaks at hard newlines and end of text, normal breaks at
// spaces and Unicode bidi whitespace/segment/paragraph classes, and
// hyphenation candidates within alphabetic runs between them.
func breakpoints(p *Preparation, f func(end int, bp BreakpointInfo)) {
	text := p.Text
	if len(text) == 0 {
		f(0, mandatoryBreak())
		return
	}

	hyphenate := p.Config.Hyphenate == nil || *p.Config.Hyphenate
	runes := []rune(text)
	offsets := make([]int, len(runes))
	off := 0
	for i, r := range runes {
		offsets[i] = off
		off += len(string(r))
	}

	last := 0
	for i, r := range runes {
		offset := offsets[i]
		nextOffset := len(text)
		if i+1 < len(offsets) {
			nextOffset = offsets[i+1]
		}

		bp := classifyBreakpoint(r, i == len(runes)-1)
		if bp == nil {
			continue
		}

		if hyphenate && last < offset {
			hyphenateSegment(last, text[last:offset], f)
		}
		f(nextOffset, *bp)
		last = nextOffset
	}
}

func classifyBreakpoint(r rune, isLast bool) *BreakpointInfo {
	if isLast {
		bp := mandatoryBreak()
		return &bp
	}
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		bp := mandatoryBreak()
		return &bp
	}
	if unicode.IsSpace(r) {
		bp := normalBreak()
		return &bp
	}
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.WS, bidi.S, bidi.B:
		bp := normalBreak()
		return &bp
	}
	return nil
}

// hyphenateSegment proposes syllable-boundary hyphenation points within
// a purely-alphabetic word, a vowel/consonant heuristic standing in for
// a language-specific hyphenation dictionary (an explicit Non-goal).
func hyphenateSegment(offset int, segment string, f func(end int, bp BreakpointInfo)) {
	runes := []rune(segment)
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return
		}
	}
	if len(runes) < 4 {
		return
	}

	for i := 2; i < len(runes)-2; i++ {
		if !shouldHyphenate(runes, i) {
			continue
		}
		byteOffset := offset
		for j := 0; j < i; j++ {
			byteOffset += len(string(runes[j]))
		}
		f(byteOffset, hyphenBreak(uint8(i), uint8(len(runes)-i)))
	}
}

func shouldHyphenate(runes []rune, pos int) bool {
	if pos < 1 || pos >= len(runes) {
		return false
	}
	return isVowel(runes[pos-1]) && !isVowel(runes[pos])
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u', 'á', 'é', 'í', 'ó', 'ú', 'ä', 'ö', 'ü':
		return true
	}
	return false
}

// makeLine builds one candidate/committed line spanning [start,end) of
// the paragraph text, given the breakpoint that ends it; pred (the
// preceding line) is accepted but not read.
func makeLine(p *Preparation, start, end int, bp BreakpointInfo, pred *Line) Line {
	if start >= end || start >= len(p.Text) {
		return EmptyLine()
	}

	full := p.Text[start:end]
	justify := strings.HasSuffix(full, "\u2028") || (p.Config.Justify && !bp.IsMandatory())

	var dash Dash
	switch {
	case bp.IsHyphen() || strings.HasSuffix(full, "\u00AD"):
		dash = DashSoft
	case strings.HasSuffix(full, "-"):
		dash = DashHard
	case strings.HasSuffix(full, "\u2013") || strings.HasSuffix(full, "\u2014"):
		dash = DashOther
	}

	trim := bp.trimLine(start, full)
	items := collectLineItems(p, start, end, trim)

	var width layout.Abs
	for _, item := range items {
		width += item.NaturalWidth()
	}

	return Line{Items: items, Width: width, Justify: justify, Dash: dash}
}

// collectLineItems slices the paragraph's prepared items down to the
// ones overlapping [start,end). A text item whose range straddles start
// or end (a word split at a hyphenation point) is cut down to a copy
// holding only the glyphs whose cluster begins inside [start,end), so
// each glyph lands on exactly one line; the split glyphs are not
// reshaped.
func collectLineItems(p *Preparation, start, end int, _ trimSpan) []Item {
	var items []Item
	for _, pi := range p.Items {
		if pi.Range.End <= start {
			continue
		}
		if pi.Range.Start >= end {
			break
		}
		if ti, ok := pi.Item.(*TextItem); ok && ti.Shaped != nil && (pi.Range.Start < start || pi.Range.End > end) {
			var kept []ShapedGlyph
			for _, g := range ti.Shaped.Glyphs.Kept() {
				if g.Range.Start >= start && g.Range.Start < end {
					kept = append(kept, g)
				}
			}
			sliced := *ti.Shaped
			sliced.Glyphs = NewGlyphs(kept)
			items = append(items, &TextItem{Shaped: &sliced})
			continue
		}
		items = append(items, pi.Item)
	}
	return items
}
