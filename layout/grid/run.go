package grid

import "github.com/glyphworks/typeset/layout"

// bodyRows lists every row index to walk in the main top-to-bottom pass:
// every row except the trailing footer group, which is instead shown as
// a fixed block at the bottom of every region (see Layouter.footerPlan).
func (l *Layouter) bodyRows() []int {
	rows := make([]int, 0, l.g.rowCount)
	for y := 0; y < l.g.rowCount; y++ {
		if l.footer != nil && y >= l.footer.start && y < l.footer.end {
			continue
		}
		rows = append(rows, y)
	}
	return rows
}

func (l *Layouter) availableForFr(used layout.Abs) layout.Abs {
	return (l.regions.Size.Height - used - l.footerHeight).Max(0)
}

// layout walks bodyRows, spilling into a new region (re-emitting active
// headers at the top and the footer at the bottom of every region)
// whenever the next row would overflow.
func (l *Layouter) layout() (*layout.Fragment, error) {
	bodyRows := l.bodyRows()
	frag := layout.NewFragment()

	var headerPlans []rowPlan
	var current []rowPlan
	var used layout.Abs

	startRegion := func() {
		headerPlans = nil
		current = nil
		used = 0
		active := l.header.active()
		for _, hg := range active {
			for y := hg.start; y < hg.end; y++ {
				plan := l.planRow(y, l.availableForFr(used))
				headerPlans = append(headerPlans, plan)
				used += plan.height
			}
		}
		if n := len(headerPlans); n > 1 {
			used += l.gutterY * layout.Abs(n-1)
		}
	}

	finishRegion := func() {
		plans := make([]rowPlan, 0, len(headerPlans)+len(current))
		plans = append(plans, headerPlans...)
		plans = append(plans, current...)

		body := l.stackRows(plans)
		size := layout.Size{Width: l.contentWidth(), Height: l.regions.Size.Height}
		if size.Height < body.Height() {
			size.Height = body.Height()
		}

		frame := layout.NewFrame(size)
		frame.PushFrame(layout.Point{}, body)
		if l.footer != nil {
			footerFrame := l.stackRows(l.footerPlan)
			frame.PushFrame(layout.Point{X: 0, Y: size.Height - footerFrame.Height()}, footerFrame)
		}
		frag.Push(frame)
	}

	startRegion()
	headerIdx := 0

	for i := 0; i < len(bodyRows); {
		y := bodyRows[i]

		if headerIdx < len(l.headerGroups) && y == l.headerGroups[headerIdx].start {
			cur := l.headerGroups[headerIdx]
			// Immediately followed by a header of equal or lower level:
			// cur's scope ends before any body row could sit under it.
			shortLived := headerIdx+1 < len(l.headerGroups) &&
				l.headerGroups[headerIdx+1].start == cur.end &&
				l.headerGroups[headerIdx+1].level <= cur.level
			l.header.encounter(cur, shortLived)
			headerIdx++
		}

		plan := l.planRow(y, l.availableForFr(used))
		rowTotal := plan.height
		if len(current) > 0 {
			rowTotal += l.gutterY
		}

		fits := used+rowTotal+l.footerHeight <= l.regions.Size.Height

		// Spilling helps when body rows were placed here (the next region
		// starts empty) or when an upcoming region genuinely differs.
		// Re-emitted headers alone are not progress: a region holding only
		// them would repeat identically forever.
		improves := len(current) > 0 && l.regions.CanBreak() || l.regions.MayProgress()

		if !fits && improves {
			finishRegion()
			if !l.regions.Next() {
				// No further region to spill into; place the rest
				// overflowing the last one rather than lose content.
				l.regions.Size.Height = used + rowTotal + l.footerHeight
			}
			startRegion()
			continue
		}

		current = append(current, plan)
		used += rowTotal

		if end := l.header.pendingEnd(); end >= 0 && y >= end {
			l.header.confirm()
		}

		i++
	}

	finishRegion()
	return frag, nil
}
