// Package diagnostic collects, orders, and renders the analyzer's output
// records (spec §3 "Diagnostic record", §6 "Diagnostic format"). A Sink is
// owned by one analysis run (spec §5 "Resources": "the diagnostic sink
// batches records and flushes on sink close").
package diagnostic

import "fmt"

// Severity classifies how confident a diagnostic is (spec §7 "Error
// taxonomy").
type Severity int

const (
	Error Severity = iota
	PossibleError
	Style
	PossibleStyle
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case PossibleError:
		return "possible-error"
	case Style:
		return "style"
	case PossibleStyle:
		return "possible-style"
	default:
		return "unknown"
	}
}

// Location is one (file, line) point in a diagnostic's call-stack chain.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Record is one immutable diagnostic, constructed once at the point of
// detection and handed to a Sink (spec §3 "Diagnostic record" lifecycle).
// Chain holds an ordered call-stack: Chain[0] is the primary location,
// subsequent entries are the call sites a finding crossed (spec §6
// "Chained" format).
type Record struct {
	Severity Severity
	ID       string
	Chain    []Location
	Message  string
}

// Primary returns the record's first, most specific location.
func (r Record) Primary() Location {
	if len(r.Chain) == 0 {
		return Location{}
	}
	return r.Chain[0]
}

// FatalError represents an unrecoverable analyzer failure (unmatched
// bracket, unparsable directive): the translation unit is abandoned (spec
// §7 "Fatal"). It carries the same (file, line) shape as a Record so the
// CLI can print both uniformly.
type FatalError struct {
	Location Location
	Message  string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}
