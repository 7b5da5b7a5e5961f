package unused

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

func TestUnusedLocalFlagged(t *testing.T) {
	records := run(t, `void f(){ int n; }`)
	assert.Contains(t, ids(records), "unusedVariable")
}

func TestUsedLocalClean(t *testing.T) {
	records := run(t, `void f(){ int n; n = 1; }`)
	assert.NotContains(t, ids(records), "unusedVariable")
}

func TestUnusedStructMemberFlagged(t *testing.T) {
	records := run(t, `
struct Point { int x; int y; };
void f(){ struct Point p; p.x = 1; }
`)
	assert.Contains(t, ids(records), "unusedStructMember")
}

func TestUsedStructMemberClean(t *testing.T) {
	records := run(t, `
struct Point { int x; int y; };
void f(){ struct Point p; p.x = 1; p.y = 2; }
`)
	assert.NotContains(t, ids(records), "unusedStructMember")
}

func TestUnusedStaticFunctionFlagged(t *testing.T) {
	records := run(t, `
static void helper(){ }
void f(){ }
`)
	assert.Contains(t, ids(records), "unusedFunction")
}

func TestUsedStaticFunctionClean(t *testing.T) {
	records := run(t, `
static void helper(){ }
void f(){ helper(); }
`)
	assert.NotContains(t, ids(records), "unusedFunction")
}
