package diagnostic

import "sort"

// SeverityFilter reports whether a record at the given severity should be
// kept (spec §6 "optional command-line flags controlling severity
// filter"). A nil filter keeps everything.
type SeverityFilter func(Severity) bool

// Sink collects diagnostic records for one analysis run and owns them for
// its lifetime (spec §3 "Ownership"). Reports are buffered in arrival
// order, and Records returns them sorted by primary file, then primary
// line. The sort is stable, so the order in which configurations produced
// records survives only among records at the same file and line; Close
// neither flushes nor reorders anything.
type Sink struct {
	filter       SeverityFilter
	isSuppressed func(file string, line int, id string) bool
	records      []Record
	closed       bool
}

// NewSink builds a Sink. filter may be nil to keep every severity.
// isSuppressed may be nil to disable suppression-comment filtering.
func NewSink(filter SeverityFilter, isSuppressed func(file string, line int, id string) bool) *Sink {
	return &Sink{filter: filter, isSuppressed: isSuppressed}
}

// Report records rec unless it is filtered by severity or silenced by a
// "// cppcheck-suppress <id>" comment at its primary location
// (SPEC_FULL.md §4 "Suppression comments"). Report never returns an error:
// a check that cannot continue funnels nothing through Report rather than
// panicking past its own boundary (spec §7).
func (s *Sink) Report(rec Record) {
	if s.filter != nil && !s.filter(rec.Severity) {
		return
	}
	if s.isSuppressed != nil {
		loc := rec.Primary()
		if s.isSuppressed(loc.File, loc.Line, rec.ID) {
			return
		}
	}
	s.records = append(s.records, rec)
}

// Records returns every accepted record, sorted per spec §5's ordering
// guarantee: primary file, then primary line, in source order.
func (s *Sink) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Primary(), out[j].Primary()
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
	return out
}

// HasDiagnostics reports whether any record was accepted.
func (s *Sink) HasDiagnostics() bool {
	return len(s.records) > 0
}

// Close marks the sink closed. Further Report calls are accepted (spec §7
// favors false negatives over a hard panic) but Records() already reflects
// every batched report; Close exists for symmetry with the teacher's
// resource lifecycle and to let callers assert "no more writes expected".
func (s *Sink) Close() {
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *Sink) Closed() bool { return s.closed }
