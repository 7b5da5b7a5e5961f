package preprocessor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinContinuations(t *testing.T) {
	lines := []string{`#define ADD(a, b) \`, `  ((a) + (b))`, "int x;"}
	out := joinContinuations(lines)
	assert.Equal(t, []string{`#define ADD(a, b)   ((a) + (b))`, "", "int x;"}, out)
}

func TestStripLineComment(t *testing.T) {
	line := "int x; // set later"
	res := stripComments([]string{line})
	assert.Equal(t, "int x;", strings.TrimSpace(res.lines[0]))
}

func TestStripBlockCommentAcrossLines(t *testing.T) {
	lines := []string{"int x; /* start", "still comment", "end */ int y;"}
	res := stripComments(lines)
	assert.Len(t, res.lines, 3)
	assert.Equal(t, "int x;", strings.TrimSpace(res.lines[0]))
	assert.Equal(t, "", strings.TrimSpace(res.lines[1]))
	assert.Equal(t, "int y;", strings.TrimSpace(res.lines[2]))
	for i := range lines {
		assert.Len(t, res.lines[i], len(lines[i]), "line %d must preserve byte length", i)
	}
}

func TestStripCommentsIgnoresStringContents(t *testing.T) {
	res := stripComments([]string{`char *s = "not // a comment";`})
	assert.Equal(t, `char *s = "not // a comment";`, res.lines[0])
}

func TestSuppressionDetectionLineComment(t *testing.T) {
	res := stripComments([]string{"// cppcheck-suppress memleak", "int *p = malloc(1);"})
	assert.Equal(t, []Suppression{{Line: 2, CheckID: "memleak"}}, res.suppressions)
}

func TestSuppressionDetectionBlockComment(t *testing.T) {
	res := stripComments([]string{"/* cppcheck-suppress nullPointer */", "int *p = 0;"})
	assert.Equal(t, []Suppression{{Line: 2, CheckID: "nullPointer"}}, res.suppressions)
}

func TestJoinAndStripPreservesLineCount(t *testing.T) {
	text := "int a; // comment\nint b;\n"
	res := joinAndStrip(text)
	assert.Len(t, res.lines, len(splitLines(text)))
	assert.Equal(t, "int a;", strings.TrimSpace(res.lines[0]))
	assert.Equal(t, "int b;", strings.TrimSpace(res.lines[1]))
}
