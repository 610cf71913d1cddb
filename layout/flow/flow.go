package flow

import (
	"github.com/glyphworks/typeset/content"
	"github.com/glyphworks/typeset/engine"
	"github.com/glyphworks/typeset/layout"
)

// maxComposeIterations bounds ComposeLoop's retries for a single region
// before it gives up and emits whatever it has.
const maxComposeIterations = 5

// LayoutFlow collects body into a flow child stream once, then composes
// it across every region regions offers, advancing region to region
// until the work queue empties or no further region is available. This
// is the only entry point in the package that drives a whole region
// sequence end to end; Compose/ComposeLoop stop after one region and
// leave advancing to their caller. layoutBlockBodyMulti also walks
// several regions, but only for one block's own body.
func LayoutFlow(eng *engine.Engine, locator *engine.Locator, body content.Content, chain *content.StyleChain, regions *layout.Regions, footnotes FootnoteConfig) (*layout.Fragment, error) {
	children := Collect(eng, locator, body, chain)
	work := NewWork(children)
	composer := NewComposer(eng, work, footnotes)

	frag := layout.NewFragment()
	walk := regions.Clone()

	for {
		frame, stop := ComposeLoop(composer, walk, maxComposeIterations)
		if se, ok := stop.(StopError); ok {
			return nil, se.Err
		}
		if frame != nil {
			frag.Push(frame)
		}

		if composer.Work.Done() && !composer.HasPendingFootnotes() {
			break
		}
		if !walk.Next() {
			break
		}
	}

	return frag, nil
}
