// Package engine provides the compilation context the layout algorithms
// run inside: a cycle-detecting route, a diagnostic sink, and the
// identity scheme (Locator) that gives every realized element a stable
// Location across incremental relayout.
package engine

import (
	"fmt"

	"github.com/glyphworks/typeset/source"
)

// Severity classifies a Diagnostic.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityDeprecation
)

// Diagnostic is the fatal-or-warning unit of the error taxonomy: a span,
// a severity, a message, and optional resolution hints. A fatal
// diagnostic aborts the operation that raised it; warnings and
// deprecations are pushed to a Sink and surfaced alongside a successful
// result.
type Diagnostic struct {
	Span     source.Span
	Severity Severity
	Message  string
	Hints    []string
	Trace    []Tracepoint
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityDeprecation:
		return "deprecated"
	default:
		return "error"
	}
}

// Tracepoint records one frame of context attached to a diagnostic as it
// propagates out through nested layout calls, e.g. "while laying out
// grid cell (2, 0)". Layout functions that wrap a child error with
// additional context append one of these instead of losing the
// original diagnostic.
type Tracepoint struct {
	Span    source.Span
	Message string
}

func Wrap(err error, span source.Span, message string) error {
	if err == nil {
		return nil
	}
	if d, ok := err.(*Diagnostic); ok {
		wrapped := *d
		wrapped.Trace = append(append([]Tracepoint{}, d.Trace...), Tracepoint{Span: span, Message: message})
		return &wrapped
	}
	return &Diagnostic{
		Span:     span,
		Severity: SeverityError,
		Message:  message + ": " + err.Error(),
	}
}

// Diagnostics is a collection-of-diagnostics error: several independent
// fatal failures discovered in the same pass (e.g. every grid cell that
// failed to lay out), returned together instead of stopping at the
// first.
type Diagnostics []*Diagnostic

func (ds Diagnostics) Error() string {
	if len(ds) == 1 {
		return ds[0].Error()
	}
	return fmt.Sprintf("%d diagnostics, first: %s", len(ds), ds[0].Error())
}

func (ds Diagnostics) AsError() error {
	if len(ds) == 0 {
		return nil
	}
	return ds
}
