package engine

import (
	"github.com/glyphworks/typeset/font"
	"github.com/glyphworks/typeset/memo"
)

// Engine bundles everything layout needs from its host for one
// compilation: a font provider to shape against, cycle detection, a sink
// for non-fatal output, and the memoization cache. The only layout step
// that goes through the cache is grid cell width measurement; paragraph,
// flow and page layout are recomputed on every call. It does
// not carry filesystem/package access or a scripting evaluator callback,
// since layout never reads source files or evaluates code; it only
// consumes an already-realized content.Content tree.
type Engine struct {
	Fonts font.Provider
	Route *Route
	Sink  *Sink
	Memo  *memo.Cache
}

func New(fonts font.Provider) *Engine {
	return &Engine{
		Fonts: fonts,
		Route: NewRoute(),
		Sink:  NewSink(),
		Memo:  memo.NewCache(),
	}
}

// WithRoute returns a shallow copy of the engine sharing the same sink,
// fonts, and memoization cache but an independent route, used when
// entering a subroutine whose depth should not perturb the caller's
// route after it returns (the route's own depth counter is still shared
// via pointer identity where layout wants that — callers use
// Route.Increase/Decrease for the common case and only clone when true
// isolation is needed, e.g. speculative layout during line-breaking
// trial passes).
func (e *Engine) WithRoute(r *Route) *Engine {
	return &Engine{Fonts: e.Fonts, Route: r, Sink: e.Sink, Memo: e.Memo}
}
