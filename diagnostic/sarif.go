package diagnostic

import (
	"encoding/json"
	"fmt"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"
)

// FormatSARIF renders recs as SARIF 2.1.0 (SPEC_FULL.md §3 domain stack:
// an additional CI-friendly rendering alongside spec.md's stable XML
// format, grounded in the teacher's output/sarif_formatter.go).
func FormatSARIF(w io.Writer, recs []Record) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("diagnostic: building SARIF report: %w", err)
	}
	run := sarif.NewRunWithInformationURI("cppcheck-go", "https://github.com/gscacco/cppcheck")

	seen := map[string]bool{}
	for _, r := range recs {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		run.AddRule(r.ID).
			WithDescription(r.ID).
			WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(sarifLevel(r.Severity)))
	}

	for _, r := range recs {
		result := run.CreateResultForRule(r.ID).WithMessage(sarif.NewTextMessage(r.Message))
		loc := r.Primary()
		region := sarif.NewRegion().WithStartLine(loc.Line)
		result.AddLocation(sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(loc.File)).
				WithRegion(region),
		))
		if len(r.Chain) > 1 {
			addSarifChain(result, r.Chain)
		}
	}

	report.AddRun(run)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("diagnostic: encoding SARIF: %w", err)
	}
	return nil
}

func addSarifChain(result *sarif.Result, chain []Location) {
	var locs []*sarif.ThreadFlowLocation
	for _, loc := range chain {
		locs = append(locs, sarif.NewThreadFlowLocation().WithLocation(
			sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(loc.File)).
					WithRegion(sarif.NewRegion().WithStartLine(loc.Line)),
			),
		))
	}
	threadFlow := sarif.NewThreadFlow().WithLocations(locs)
	result.WithCodeFlows([]*sarif.CodeFlow{sarif.NewCodeFlow().WithThreadFlows([]*sarif.ThreadFlow{threadFlow})})
}

func sarifLevel(sev Severity) string {
	switch sev {
	case Error:
		return "error"
	case PossibleError:
		return "warning"
	default:
		return "note"
	}
}
