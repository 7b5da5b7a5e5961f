package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandMacrosObjectLike(t *testing.T) {
	lines := []string{"#define MAX_LEN 10", "char buf[MAX_LEN];"}
	out := expandMacros(lines)
	assert.Equal(t, []string{"", "char buf[10];"}, out)
}

func TestExpandMacrosFunctionLike(t *testing.T) {
	lines := []string{"#define SQUARE(x) ((x)*(x))", "int y = SQUARE(5);"}
	out := expandMacros(lines)
	assert.Equal(t, []string{"", "int y = ((5)*(5));"}, out)
}

func TestExpandMacrosUndef(t *testing.T) {
	lines := []string{
		"#define FLAG 1",
		"#undef FLAG",
		"int x = FLAG;",
	}
	out := expandMacros(lines)
	assert.Equal(t, []string{"", "", "int x = FLAG;"}, out)
}

func TestExpandMacrosArityMismatchLeavesCallAlone(t *testing.T) {
	lines := []string{"#define ADD(a,b) ((a)+(b))", "int z = ADD(1);"}
	out := expandMacros(lines)
	assert.Equal(t, "int z = ADD(1);", out[1])
}

func TestExpandMacrosPreservesLineCount(t *testing.T) {
	lines := []string{"#define A 1", "x;", "#define B 2", "y;"}
	out := expandMacros(lines)
	assert.Len(t, out, len(lines))
}
