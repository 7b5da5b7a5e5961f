package style

import (
	"testing"

	"github.com/gscacco/cppcheck/diagnostic"
	"github.com/gscacco/cppcheck/sourcebuf"
	"github.com/gscacco/cppcheck/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) []diagnostic.Record {
	t.Helper()
	buf := sourcebuf.New()
	fileIndex := buf.AddFile("test.c", src)

	tz := tokenizer.New(8)
	require.NoError(t, tz.Tokenize(src, fileIndex))

	sink := diagnostic.NewSink(nil, nil)
	Run(tz.Stream(), buf, sink)
	return sink.Records()
}

func ids(records []diagnostic.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestZeroDivisionFlagged(t *testing.T) {
	records := run(t, `void f(){ int x; x = 1 / 0; }`)
	assert.Contains(t, ids(records), "zeroDivision")
}

func TestNonZeroDivisionClean(t *testing.T) {
	records := run(t, `void f(){ int x; x = 1 / 2; }`)
	assert.NotContains(t, ids(records), "zeroDivision")
}

func TestCStylePointerCastFlagged(t *testing.T) {
	records := run(t, `void f(){ void *v; int *p; p = (int *) v; }`)
	assert.Contains(t, ids(records), "cStylePointerCast")
}

func TestRedundantNestedConditionFlagged(t *testing.T) {
	records := run(t, `void f(){ int x; if (x) { if (x) { x = 1; } } }`)
	assert.Contains(t, ids(records), "redundantCondition")
}

func TestCharVariableAsIndexFlagged(t *testing.T) {
	records := run(t, `void f(){ char c; int a[4]; a[c] = 1; }`)
	assert.Contains(t, ids(records), "charVariableAsIndex")
}

func TestIntVariableAsIndexClean(t *testing.T) {
	records := run(t, `void f(){ int c; int a[4]; a[c] = 1; }`)
	assert.NotContains(t, ids(records), "charVariableAsIndex")
}

func TestUnreachableCodeAfterReturnFlagged(t *testing.T) {
	records := run(t, `void f(){ int x; return; x = 1; }`)
	assert.Contains(t, ids(records), "unreachableCode")
}

func TestNoCodeAfterReturnClean(t *testing.T) {
	records := run(t, `void f(){ return; }`)
	assert.NotContains(t, ids(records), "unreachableCode")
}

func TestNullPointerDereferenceFlagged(t *testing.T) {
	records := run(t, `void f(){ struct S *p; p = 0; p->x = 1; }`)
	assert.Contains(t, ids(records), "nullPointer")
}

func TestNullCheckedBeforeDereferenceClean(t *testing.T) {
	records := run(t, `void f(){ struct S *p; p = 0; if (p) { p->x = 1; } }`)
	assert.NotContains(t, ids(records), "nullPointer")
}
