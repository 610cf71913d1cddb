package engine

// MaxTracedValues caps how many values Sink.TraceValue retains, bounding
// the memory an IDE-inspection trace can consume during one compilation.
const MaxTracedValues = 10

// Sink is a push-only destination for non-fatal output produced while
// laying out a document: warnings, delayed errors that only matter if no
// later iteration resolves them, and (when tracing is enabled) the
// values computed at a particular span for IDE-style inspection.
type Sink struct {
	Delayed  []*Diagnostic
	Warnings []*Diagnostic
	Values   []TracedValue
}

func NewSink() *Sink { return &Sink{} }

// Delay records errors that should only surface if nothing else in this
// compilation resolves them (e.g. an introspection query made before its
// target's final location stabilizes during fixpoint iteration — see
// introspect.Fixpoint).
func (s *Sink) Delay(errs ...*Diagnostic) {
	s.Delayed = append(s.Delayed, errs...)
}

func (s *Sink) Warn(d *Diagnostic) {
	s.Warnings = append(s.Warnings, d)
}

func (s *Sink) TraceValue(v any, label string) {
	if len(s.Values) < MaxTracedValues {
		s.Values = append(s.Values, TracedValue{Value: v, Label: label})
	}
}

// TakeDelayed returns and clears the delayed diagnostics, called once the
// final fixpoint iteration has converged.
func (s *Sink) TakeDelayed() []*Diagnostic {
	d := s.Delayed
	s.Delayed = nil
	return d
}

type TracedValue struct {
	Value any
	Label string
}
