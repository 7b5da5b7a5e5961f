package leak

import (
	"testing"

	"github.com/gscacco/cppcheck/diagnostic"
	"github.com/gscacco/cppcheck/sourcebuf"
	"github.com/gscacco/cppcheck/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string, showAll bool) []diagnostic.Record {
	t.Helper()
	buf := sourcebuf.New()
	fileIndex := buf.AddFile("test.c", src)

	tz := tokenizer.New(8)
	require.NoError(t, tz.Tokenize(src, fileIndex))

	sink := diagnostic.NewSink(nil, nil)
	Run(tz, buf, fileIndex, sink, showAll, 32)
	return sink.Records()
}

func ids(records []diagnostic.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestSimpleLeakNoFree(t *testing.T) {
	records := run(t, `void f(){ char *p; p = malloc(4); }`, false)
	assert.Contains(t, ids(records), "memleak")
}

func TestCombinedDeclAllocNoFreeLeaks(t *testing.T) {
	records := run(t, `void f(){ char *p = malloc(10); }`, false)
	assert.Contains(t, ids(records), "memleak")
}

func TestCombinedDeclAllocThenFreeIsClean(t *testing.T) {
	records := run(t, `void f(){ char *p = malloc(10); free(p); }`, false)
	assert.Empty(t, records)
}

func TestCombinedDeclNewThenDeleteIsClean(t *testing.T) {
	records := run(t, `void f(){ int *p = new int; delete p; }`, false)
	assert.Empty(t, records)
}

func TestAllocThenFreeIsClean(t *testing.T) {
	records := run(t, `void f(){ char *p; p = malloc(4); free(p); }`, false)
	assert.Empty(t, records)
}

func TestLoopAllocWithoutFreeLeaks(t *testing.T) {
	records := run(t, `void f(){ char *p; while (1) { p = malloc(4); } }`, false)
	assert.Contains(t, ids(records), "memleak")
}

func TestDoubleFreeDetected(t *testing.T) {
	records := run(t, `void f(){ char *p; p = malloc(4); free(p); free(p); }`, false)
	assert.Contains(t, ids(records), "doubleFree")
}

func TestUseAfterFreeDetected(t *testing.T) {
	records := run(t, `void f(){ int *p; p = malloc(4); free(p); p[0]; }`, false)
	assert.Contains(t, ids(records), "useAfterFree")
}

func TestMismatchedAllocDeallocDetected(t *testing.T) {
	records := run(t, `void f(){ int *p; p = new int; free(p); }`, false)
	assert.Contains(t, ids(records), "mismatchAllocDealloc")
}

func TestAllocDeallocAllocStillFreedIsClean(t *testing.T) {
	records := run(t, `void f(){ char *p; p = malloc(4); free(p); p = malloc(4); free(p); }`, false)
	assert.Empty(t, records)
}

func TestAllocLostOnEarlyReturnLeaks(t *testing.T) {
	records := run(t, `void f(){ char *p; p = malloc(4); if (1) { return; } free(p); }`, false)
	assert.Contains(t, ids(records), "leak")
}

func TestAllocOverwrittenBeforeFreeLeaks(t *testing.T) {
	records := run(t, `void f(){ char *p; p = malloc(4); p = malloc(8); free(p); }`, false)
	assert.Contains(t, ids(records), "leak")
}

func TestReturnUseTransfersOwnershipCleanly(t *testing.T) {
	records := run(t, `char *f(){ char *p; p = malloc(4); return p; }`, false)
	assert.Empty(t, records)
}

func TestCalleeFreeRecognizedAcrossCall(t *testing.T) {
	records := run(t, `
void release(char *q){ free(q); }
void f(){ char *p; p = malloc(4); release(p); }
`, false)
	assert.Empty(t, records)
}
