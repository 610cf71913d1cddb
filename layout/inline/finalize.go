package inline

import (
	"unicode"

	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/font"
	"github.com/glyphworks/typeset/layout"
)

// Finalize turns the breaker's chosen lines into a sequence of line
// frames, one per Line, sized against region and expanded to its full
// width unless every line is naturally narrower and no line carries
// fractional spacing.
func Finalize(p *Preparation, lines []Line, region layout.Size, expand bool) *layout.Fragment {
	width := region.Width

	if region.Width.IsFinite() {
		allZeroFr := true
		var maxLineWidth layout.Abs
		for _, line := range lines {
			if line.Fr() != 0 {
				allZeroFr = false
			}
			if line.Width > maxLineWidth {
				maxLineWidth = line.Width
			}
		}
		if !expand && allZeroFr {
			if fit := p.Config.HangingIndent + maxLineWidth; fit < region.Width {
				width = fit
			}
		}
	}

	frag := layout.NewFragmentWithCapacity(len(lines))
	for i := range lines {
		repeat := i > 0 && lines[i-1].Dash == DashHard &&
			hyphenRepeatsAtLineStart(p.Config.Lang, lineStartRune(&lines[i]))
		frag.Push(Commit(p, &lines[i], width, region.Height, repeat))
	}
	return frag
}

// hyphenRepeatsAtLineStart reports whether lang's orthography requires a
// hard hyphen ending a line to be written again at the start of the
// next. Spanish repeats it only when the continuation begins lowercase
// (a capitalized continuation means the hyphen joins proper names and is
// not doubled).
func hyphenRepeatsAtLineStart(lang string, next rune) bool {
	switch lang {
	case "dsb", "cs", "hr", "pl", "pt", "sk":
		return true
	case "es":
		return unicode.IsLower(next)
	default:
		return false
	}
}

// lineStartRune is the first character the line's leading shaped run
// carries, or 0 for a line with no text.
func lineStartRune(line *Line) rune {
	if t := line.LeadingText(); t != nil {
		if g := t.Glyphs.First(); g != nil {
			return g.Char
		}
	}
	return 0
}

// repeatedHyphenFrame synthesizes the hyphen glyph repeated at a line's
// start, in the font and size of the line's leading run. Nil when the
// line has no usable run or its font carries no hyphen glyph.
func repeatedHyphenFrame(line *Line, fill content.Paint) *layout.Frame {
	leading := line.LeadingText()
	if leading == nil {
		return nil
	}
	g := leading.Glyphs.First()
	if g == nil || g.Font == nil {
		return nil
	}
	gid, ok := g.Font.GlyphIndex('-')
	if !ok {
		return nil
	}
	upem := g.Font.UnitsPerEm()
	if upem <= 0 {
		upem = 1000
	}
	advance := layout.Em(float64(g.Font.GlyphHorAdvance(gid)) / float64(upem))

	height := g.Size * 1.2
	frame := layout.NewFrame(layout.Size{Width: advance.Resolve(g.Size), Height: height})
	frame.SetBaseline(height * 0.8)
	frame.Push(layout.Point{}, layout.TextItem{
		Font: g.Font,
		Size: g.Size,
		Fill: fill,
		Lang: leading.Lang,
		Glyphs: []layout.Glyph{{
			ID:       uint16(gid),
			XAdvance: advance,
			Cluster:  g.Range.Start,
		}},
	})
	return frame
}

// Commit lays out a single line's items left-to-right at the given
// width, resolving justification/shrink ratios, fractional-spacing
// shares, hanging punctuation overhang, and per-line vertical alignment
// (the frame's baseline is the tallest ascent among its items).
// repeatHyphen prepends a hyphen glyph, for languages where a hard
// hyphen ending the previous line must be written again at this line's
// start.
func Commit(p *Preparation, line *Line, width, fullHeight layout.Abs, repeatHyphen bool) *layout.Frame {
	remaining := width - line.Width - p.Config.HangingIndent
	var offset layout.Abs
	if p.Config.Dir == DirLTR {
		offset += p.Config.HangingIndent
	}

	var hyphen *layout.Frame
	if repeatHyphen {
		if hyphen = repeatedHyphenFrame(line, p.Config.Fill); hyphen != nil {
			remaining -= hyphen.Width()
		}
	}

	if leading := line.LeadingText(); leading != nil {
		if glyphs := leading.Glyphs.Kept(); len(glyphs) > 0 {
			g := &glyphs[0]
			if !leading.Dir.IsPositive() && (len(line.Items) > 1 || len(glyphs) > 1) {
				amount := layout.Abs(overhang(g.Char)) * g.XAdvance.Resolve(g.Size)
				offset -= amount
				remaining += amount
			}
		}
	}
	if trailing := line.TrailingText(); trailing != nil {
		if glyphs := trailing.Glyphs.Kept(); len(glyphs) > 0 {
			g := &glyphs[len(glyphs)-1]
			if trailing.Dir.IsPositive() && (len(line.Items) > 1 || len(glyphs) > 1) {
				amount := layout.Abs(overhang(g.Char)) * g.XAdvance.Resolve(g.Size)
				remaining += amount
			}
		}
	}

	fr := line.Fr()
	var justificationRatio float64
	var extraJustification layout.Abs

	shrinkability := line.Shrinkability()
	stretchability := line.Stretchability()

	switch {
	case remaining < 0 && shrinkability > 0:
		ratio := float64(remaining / shrinkability)
		if ratio < -1.0 {
			ratio = -1.0
		}
		justificationRatio = ratio
		adjusted := remaining + shrinkability
		if adjusted > 0 {
			adjusted = 0
		}
		remaining = adjusted

	case line.Justify && fr == 0:
		if stretchability > 0 {
			ratio := float64(remaining / stretchability)
			if ratio > 1.0 {
				ratio = 1.0
			}
			justificationRatio = ratio
			adjusted := remaining - stretchability
			if adjusted < 0 {
				adjusted = 0
			}
			remaining = adjusted
		}
		if justifiables := line.Justifiables(); justifiables > 0 && remaining > 0 {
			extraJustification = remaining / layout.Abs(justifiables)
			remaining = 0
		}
	}

	type positioned struct {
		offset layout.Abs
		frame  *layout.Frame
	}
	var posFrames []positioned
	var top, bottom layout.Abs

	if hyphen != nil {
		top = hyphen.Baseline()
		bottom = hyphen.Height() - hyphen.Baseline()
		posFrames = append(posFrames, positioned{offset, hyphen})
		offset += hyphen.Width()
	}

	for _, item := range line.Items {
		switch it := item.(type) {
		case *AbsoluteItem:
			offset += it.Amount

		case *FractionalItem:
			offset += frShare(it.Amount, fr, remaining)

		case *TextItem:
			if it.Shaped == nil {
				continue
			}
			frame := buildTextFrame(it.Shaped, justificationRatio, extraJustification, p.Config.Fill, p.Links)
			if frame.Baseline() > top {
				top = frame.Baseline()
			}
			if frame.Height()-frame.Baseline() > bottom {
				bottom = frame.Height() - frame.Baseline()
			}
			posFrames = append(posFrames, positioned{offset, frame})
			offset += frame.Width()

		case *InlineFrameItem:
			if it.Frame == nil {
				continue
			}
			if it.Frame.Baseline() > top {
				top = it.Frame.Baseline()
			}
			if it.Frame.Height()-it.Frame.Baseline() > bottom {
				bottom = it.Frame.Height() - it.Frame.Baseline()
			}
			posFrames = append(posFrames, positioned{offset, it.Frame})
			offset += it.Frame.Width()

		case *TagItem:
			tagFrame := layout.NewFrame(layout.Size{})
			tagFrame.Push(layout.Point{}, layout.TagItem{Tag: it.Tag})
			posFrames = append(posFrames, positioned{offset, tagFrame})
		}
	}

	if fr != 0 {
		remaining = 0
	}

	out := layout.NewFrame(layout.Size{Width: width, Height: top + bottom})
	out.SetBaseline(top)

	alignOffset := alignPosition(p.Config.Align, remaining)
	for _, pf := range posFrames {
		x := pf.offset + alignOffset
		y := top - pf.frame.Baseline()
		out.PushFrame(layout.Point{X: x, Y: y}, pf.frame)
	}
	return out
}

// overhang is how far, as a fraction of its own advance, a character
// hangs into the margin when it falls at a line edge. Dashes and stops
// read as visually lighter than their advance box, so letting them
// overshoot keeps the text edge optically even.
func overhang(c rune) float64 {
	switch c {
	case '\u2013', '\u2014':
		return 0.2
	case '-', '\u00ad':
		return 0.55
	case '.', ',':
		return 0.8
	case ':', ';':
		return 0.3
	case '\u060C', '\u06D4':
		return 0.4
	default:
		return 0
	}
}

func frShare(amount, total layout.Fr, remaining layout.Abs) layout.Abs {
	if total == 0 {
		return 0
	}
	return layout.Abs(float64(amount) / float64(total) * float64(remaining))
}

func alignPosition(align layout.HAlign, remaining layout.Abs) layout.Abs {
	switch align {
	case layout.HAlignCenter:
		return remaining / 2
	case layout.HAlignEnd, layout.HAlignRight:
		return remaining
	default:
		return 0
	}
}

// linkSpan accumulates the horizontal extent a link's glyphs cover
// within one shaped run.
type linkSpan struct {
	url        string
	start, end layout.Abs
	seen       bool
}

// buildTextFrame lays out one shaped run's glyphs left to right,
// applying the line's justification ratio (stretch when positive,
// shrink when negative) and any extra per-justifiable-glyph space on
// top of it. Glyphs covered by a link range get a LinkItem annotation
// spanning their extent within this run; a link broken across runs or
// lines produces one annotation per run it touches.
func buildTextFrame(shaped *ShapedText, justificationRatio float64, extraJustification layout.Abs, fill content.Paint, links []LinkRange) *layout.Frame {
	kept := shaped.Glyphs.Kept()
	glyphs := make([]layout.Glyph, 0, len(kept))
	var width, height, baseline layout.Abs
	var runFont *font.Font
	var size layout.Abs

	spans := make([]linkSpan, len(links))
	for i, link := range links {
		spans[i] = linkSpan{url: link.URL}
	}

	for _, g := range kept {
		advance := g.XAdvance.Resolve(g.Size)

		switch {
		case justificationRatio > 0:
			advance += g.Adjustability.Stretch().Resolve(g.Size) * layout.Abs(justificationRatio)
		case justificationRatio < 0:
			advance += g.Adjustability.Shrink().Resolve(g.Size) * layout.Abs(justificationRatio)
		}
		if g.IsJustifiable && extraJustification > 0 {
			advance += extraJustification
		}

		// Line height is approximated as 1.2x the font size with an 80%
		// ascent split, pending real font vertical-metrics plumbing through
		// the font package.
		if lineHeight := g.Size * 1.2; lineHeight > height {
			height = lineHeight
			baseline = lineHeight * 0.8
		}
		if runFont == nil {
			runFont, size = g.Font, g.Size
		}

		var xAdvance layout.Em
		if g.Size != 0 {
			xAdvance = layout.Em(float64(advance) / float64(g.Size))
		}
		glyphs = append(glyphs, layout.Glyph{
			ID:       g.GlyphID,
			XAdvance: xAdvance,
			XOffset:  g.XOffset,
			YOffset:  g.YOffset,
			Cluster:  g.Range.Start,
		})

		for i := range spans {
			if !links[i].Range.Contains(g.Range.Start) {
				continue
			}
			if !spans[i].seen {
				spans[i].start = width
				spans[i].seen = true
			}
			spans[i].end = width + advance
		}

		width += advance
	}

	frame := layout.NewFrame(layout.Size{Width: width, Height: height})
	frame.SetBaseline(baseline)
	if len(glyphs) > 0 {
		frame.Push(layout.Point{}, layout.TextItem{
			Font:   runFont,
			Size:   size,
			Fill:   fill,
			Lang:   shaped.Lang,
			Glyphs: glyphs,
		})
	}
	for _, span := range spans {
		if !span.seen {
			continue
		}
		frame.Push(layout.Point{X: span.start, Y: 0}, layout.LinkItem{
			Dest: span.url,
			Size: layout.Size{Width: span.end - span.start, Height: height},
		})
	}
	return frame
}
