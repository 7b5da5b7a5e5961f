package simplifier

import (
	"testing"

	"github.com/gscacco/cppcheck/token"
	"github.com/gscacco/cppcheck/tokenizer"
	"github.com/stretchr/testify/assert"
)

func simplify(t *testing.T, src string) []string {
	t.Helper()
	tz := tokenizer.New(8)
	assert.NoError(t, tz.Tokenize(src, 0))
	Run(tz.Stream(), Options{SizeOf: tz.SizeOfType})
	out := make([]string, 0)
	for tok := tz.Stream().Front(); tok != nil; tok = tok.Next() {
		out = append(out, tok.Str)
	}
	return out
}

func join(strs []string) string {
	out := ""
	for i, s := range strs {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}

func TestStripCasts(t *testing.T) {
	got := simplify(t, "void f(){ int *p; p = (int *) malloc(4); }")
	assert.NotContains(t, join(got), "( int * )")
}

func TestReduceParensSingleAtom(t *testing.T) {
	got := simplify(t, "void f(){ return (x); }")
	assert.Equal(t, "void f ( ) { return x ; }", join(got))
}

func TestFoldConstants(t *testing.T) {
	got := simplify(t, "void f(){ int x; x = 2 + 3; }")
	assert.Contains(t, join(got), "x = 5 ;")
}

func TestSizeofResolution(t *testing.T) {
	got := simplify(t, "void f(){ int n; n = sizeof(int); }")
	assert.Contains(t, join(got), "n = 4 ;")
}

func TestConditionalLiteralTrue(t *testing.T) {
	got := simplify(t, "void f(){ if (true) { a(); } else { b(); } }")
	joined := join(got)
	assert.Contains(t, joined, "a ( )")
	assert.NotContains(t, joined, "b ( )")
}

func TestConditionalLiteralFalse(t *testing.T) {
	got := simplify(t, "void f(){ if (false) { a(); } else { b(); } }")
	joined := join(got)
	assert.Contains(t, joined, "b ( )")
	assert.NotContains(t, joined, "a ( )")
}

func TestNegationNormalization(t *testing.T) {
	got := simplify(t, "void f(){ int x; if (0 == x) { y(); } }")
	assert.Contains(t, join(got), "if ( ! x )")
}

func TestPostIncrementDemotion(t *testing.T) {
	got := simplify(t, "void f(){ int i; i++; }")
	assert.Contains(t, join(got), "++ i ;")
}

func TestElseIfFlattening(t *testing.T) {
	got := simplify(t, "void f(){ int x; if (x) { a(); } else if (x) { b(); } }")
	assert.Contains(t, join(got), "else { if ( x )")
}

func TestNamespaceFlattening(t *testing.T) {
	got := simplify(t, "namespace N { void f(){ int x; } }")
	assert.NotContains(t, got, "namespace")
}

func TestArrayDeclOnInit(t *testing.T) {
	got := simplify(t, `void f(){ char str[] = "abc"; }`)
	assert.Contains(t, join(got), "char * str ; str = \"abc\" ;")
}

func TestAssignInConditionHoisting(t *testing.T) {
	got := simplify(t, "void f(){ int a; int b; if (a = b) { c(); } }")
	joined := join(got)
	assert.Contains(t, joined, "a = b ;")
	assert.Contains(t, joined, "if ( a )")
}

func TestFixedPointReachedOnRerun(t *testing.T) {
	tz := tokenizer.New(8)
	assert.NoError(t, tz.Tokenize("void f(){ int x; x = (1 + 2) * 3; }", 0))
	opt := Options{SizeOf: tz.SizeOfType}
	Run(tz.Stream(), opt)
	first := tz.Stream().Tokens()
	iterations := Run(tz.Stream(), opt)
	second := tz.Stream().Tokens()
	assert.Equal(t, 0, iterations, "a second run over an already-fixed stream should change nothing")
	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Str, second[i].Str)
	}
}

func TestSwitchToIfFallthroughFree(t *testing.T) {
	got := simplify(t, "void f(){ int x; switch (x) { case 1: a(); break; default: b(); } }")
	joined := join(got)
	assert.Contains(t, joined, "if ( x == 1 )")
	assert.Contains(t, joined, "else { b ( ) ; }")
}

func TestTernaryConstantFold(t *testing.T) {
	tz := tokenizer.New(8)
	assert.NoError(t, tz.Tokenize("void f(){ int x; x = true ? 1 : 2; }", 0))
	Run(tz.Stream(), Options{SizeOf: tz.SizeOfType})
	var strs []string
	for tok := tz.Stream().Front(); tok != nil; tok = tok.Next() {
		strs = append(strs, tok.Str)
	}
	assert.Contains(t, join(strs), "x = 1 ;")
}

var _ = token.Token{}
