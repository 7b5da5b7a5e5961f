package diagnostic

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// FormatPlain renders recs as "[file:line]: (severity) message", or the
// chained form "[f1:l1] -> [f2:l2]: (severity) message" when a record's
// Chain crosses more than one call frame (spec §6 "Diagnostic format").
// colorize applies the teacher's fatih/color severity palette
// (cmd/query.go's usage): Error red, PossibleError yellow, Style and
// PossibleStyle cyan.
func FormatPlain(w io.Writer, recs []Record, colorize bool) {
	for _, r := range recs {
		line := formatChain(r.Chain) + ": (" + r.Severity.String() + ") " + r.Message
		if colorize {
			line = severityColor(r.Severity).Sprint(line)
		}
		fmt.Fprintln(w, line)
	}
}

func formatChain(chain []Location) string {
	parts := make([]string, len(chain))
	for i, loc := range chain {
		parts[i] = "[" + loc.String() + "]"
	}
	return strings.Join(parts, " -> ")
}

func severityColor(sev Severity) *color.Color {
	switch sev {
	case Error:
		return color.New(color.FgRed)
	case PossibleError:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

// xmlError mirrors spec §6's stable XML shape:
// <error file="…" line="…" id="…" severity="…" msg="…"/>.
type xmlError struct {
	XMLName  xml.Name `xml:"error"`
	File     string   `xml:"file,attr"`
	Line     int      `xml:"line,attr"`
	ID       string   `xml:"id,attr"`
	Severity string   `xml:"severity,attr"`
	Msg      string   `xml:"msg,attr"`
}

type xmlResults struct {
	XMLName xml.Name   `xml:"results"`
	Errors  []xmlError `xml:"errors>error"`
}

// FormatXML renders recs as the stable XML format of spec §6.
func FormatXML(w io.Writer, recs []Record) error {
	out := xmlResults{}
	for _, r := range recs {
		loc := r.Primary()
		out.Errors = append(out.Errors, xmlError{
			File: loc.File, Line: loc.Line, ID: r.ID,
			Severity: r.Severity.String(), Msg: r.Message,
		})
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("diagnostic: encoding XML: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// FormatCSV renders recs as "file,line,id,severity,message", one record
// per row, for spreadsheet-friendly CI triage (SPEC_FULL.md §3's output
// format set).
func FormatCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"file", "line", "id", "severity", "message"}); err != nil {
		return fmt.Errorf("diagnostic: writing CSV header: %w", err)
	}
	for _, r := range recs {
		loc := r.Primary()
		row := []string{loc.File, strconv.Itoa(loc.Line), r.ID, r.Severity.String(), r.Message}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("diagnostic: writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// jsonRecord is the wire shape for FormatJSON: the primary location
// flattened alongside severity/id/message, plus the full chain for
// multi-frame findings.
type jsonRecord struct {
	File     string     `json:"file"`
	Line     int        `json:"line"`
	ID       string     `json:"id"`
	Severity string     `json:"severity"`
	Message  string     `json:"message"`
	Chain    []Location `json:"chain,omitempty"`
}

// FormatJSON renders recs as a JSON array, one object per diagnostic, for
// tooling that consumes neither the stable XML format nor SARIF.
func FormatJSON(w io.Writer, recs []Record) error {
	out := make([]jsonRecord, 0, len(recs))
	for _, r := range recs {
		loc := r.Primary()
		jr := jsonRecord{File: loc.File, Line: loc.Line, ID: r.ID, Severity: r.Severity.String(), Message: r.Message}
		if len(r.Chain) > 1 {
			jr.Chain = r.Chain
		}
		out = append(out, jr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("diagnostic: encoding JSON: %w", err)
	}
	return nil
}
