package output

import (
	"fmt"
	"strings"

	"github.com/gscacco/cppcheck/diagnostic"
)

// ExitCode is the CLI's process exit status (spec §6 "Exit codes").
type ExitCode int

const (
	// ExitCodeSuccess: no diagnostics were emitted.
	ExitCodeSuccess ExitCode = 0
	// ExitCodeDiagnostics: at least one diagnostic was emitted (and, if
	// --fail-on was given, at least one matched the requested severities).
	ExitCodeDiagnostics ExitCode = 1
	// ExitCodeFatal: a translation unit was abandoned after an unmatched
	// bracket or other unrecoverable parse failure (spec §7 "Fatal").
	ExitCodeFatal ExitCode = 2
)

// InvalidSeverityError is returned when --fail-on names an unknown
// severity.
type InvalidSeverityError struct {
	Severity string
	Valid    []string
}

func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid severity %q, must be one of: %s", e.Severity, strings.Join(e.Valid, ", "))
}

var validSeverities = map[string]bool{
	"error":          true,
	"possible-error": true,
	"style":          true,
	"possible-style": true,
}

// ParseFailOn parses the comma-separated --fail-on flag value into a
// slice of severities, trimming whitespace and dropping empty entries.
func ParseFailOn(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p := strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateSeverities reports an error naming the first entry in severities
// that isn't one of diagnostic.Severity's four stable names.
func ValidateSeverities(severities []string) error {
	valid := []string{"error", "possible-error", "style", "possible-style"}
	for _, s := range severities {
		if !validSeverities[strings.ToLower(s)] {
			return &InvalidSeverityError{Severity: s, Valid: valid}
		}
	}
	return nil
}

// DetermineExitCode applies spec §6's exit-code precedence: a fatal parse
// error always wins; otherwise diagnostics win if any record matches
// failOn (or, when failOn is empty, if any record was emitted at all).
func DetermineExitCode(records []diagnostic.Record, failOn []string, hadFatal bool) ExitCode {
	if hadFatal {
		return ExitCodeFatal
	}
	if len(records) == 0 {
		return ExitCodeSuccess
	}
	if len(failOn) == 0 {
		return ExitCodeDiagnostics
	}
	want := make(map[string]bool, len(failOn))
	for _, s := range failOn {
		want[strings.ToLower(s)] = true
	}
	for _, r := range records {
		if want[r.Severity.String()] {
			return ExitCodeDiagnostics
		}
	}
	return ExitCodeSuccess
}
