package diagnostic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkFiltersBySeverity(t *testing.T) {
	onlyErrors := func(s Severity) bool { return s == Error }
	sink := NewSink(onlyErrors, nil)
	sink.Report(Record{Severity: Error, ID: "memleak", Chain: []Location{{File: "a.c", Line: 1}}})
	sink.Report(Record{Severity: Style, ID: "unusedVariable", Chain: []Location{{File: "a.c", Line: 2}}})
	assert.Len(t, sink.Records(), 1)
	assert.Equal(t, "memleak", sink.Records()[0].ID)
}

func TestSinkHonorsSuppression(t *testing.T) {
	suppressed := func(file string, line int, id string) bool { return file == "a.c" && line == 5 && id == "memleak" }
	sink := NewSink(nil, suppressed)
	sink.Report(Record{Severity: Error, ID: "memleak", Chain: []Location{{File: "a.c", Line: 5}}})
	sink.Report(Record{Severity: Error, ID: "memleak", Chain: []Location{{File: "a.c", Line: 6}}})
	assert.Len(t, sink.Records(), 1)
	assert.Equal(t, 6, sink.Records()[0].Primary().Line)
}

func TestRecordsOrderedBySourcePosition(t *testing.T) {
	sink := NewSink(nil, nil)
	sink.Report(Record{ID: "b", Chain: []Location{{File: "a.c", Line: 10}}})
	sink.Report(Record{ID: "a", Chain: []Location{{File: "a.c", Line: 3}}})
	recs := sink.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "b", recs[1].ID)
}

func TestFormatPlainChained(t *testing.T) {
	var buf bytes.Buffer
	FormatPlain(&buf, []Record{{
		Severity: Error,
		ID:       "memleak",
		Chain:    []Location{{File: "a.c", Line: 3}, {File: "a.c", Line: 10}},
		Message:  "memory leak",
	}}, false)
	assert.Equal(t, "[a.c:3] -> [a.c:10]: (error) memory leak\n", buf.String())
}

func TestFormatXMLShape(t *testing.T) {
	var buf bytes.Buffer
	err := FormatXML(&buf, []Record{{
		Severity: Error, ID: "memleak", Chain: []Location{{File: "a.c", Line: 3}}, Message: "leak",
	}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `file="a.c"`)
	assert.Contains(t, buf.String(), `id="memleak"`)
	assert.Contains(t, buf.String(), `severity="error"`)
}

func TestHasDiagnostics(t *testing.T) {
	sink := NewSink(nil, nil)
	assert.False(t, sink.HasDiagnostics())
	sink.Report(Record{ID: "x", Chain: []Location{{File: "a.c", Line: 1}}})
	assert.True(t, sink.HasDiagnostics())
}
