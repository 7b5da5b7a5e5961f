package tokenizer

import (
	"testing"

	"github.com/gscacco/cppcheck/token"
	"github.com/stretchr/testify/assert"
)

func toStrs(toks []*token.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Str
	}
	return out
}

func TestTokenizeBasic(t *testing.T) {
	tz := New(8)
	err := tz.Tokenize("void f(){ char *p = malloc(10); }", 0)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"void", "f", "(", ")", "{", "char", "*", "p", "=", "malloc", "(", "10", ")", ";", "}",
	}, toStrs(tz.Tokens()))
}

func TestBracketLinkBijection(t *testing.T) {
	tz := New(8)
	assert.NoError(t, tz.Tokenize("void f(){ if (x) { y(); } }", 0))
	for _, tok := range tz.Tokens() {
		if tok.Str == "(" || tok.Str == "{" {
			assert.NotNil(t, tok.Link, "open bracket %v missing link", tok.Str)
			assert.Same(t, tok, tok.Link.Link)
		}
	}
}

func TestUnmatchedBracketIsFatal(t *testing.T) {
	tz := New(8)
	err := tz.Tokenize("void f(){ if (x) { y(); }", 0)
	assert.Error(t, err)
}

func TestAdjacentStringConcatenation(t *testing.T) {
	tz := New(8)
	assert.NoError(t, tz.Tokenize(`char *s = "ab" "cd";`, 0))
	toks := tz.Tokens()
	found := false
	for _, tok := range toks {
		if tok.IsString {
			assert.Equal(t, `"abcd"`, tok.Str)
			found = true
		}
	}
	assert.True(t, found)
}

func TestVariableIDScopeStability(t *testing.T) {
	tz := New(8)
	assert.NoError(t, tz.Tokenize("void f(){ int x; { int x; x = 1; } x = 2; }", 0))
	toks := tz.Tokens()

	// indices: void f ( ) { int x ; { int  x  ;  x  =  1  ;  }  x  =  2  ; }
	//            0   1 2 3 4  5  6 7  8  9  10 11 12 13 14 15 16 17 18 19 20 21
	outerDecl := toks[6]  // x (outer decl)
	innerDecl := toks[10] // x (inner decl)
	innerUse := toks[12]  // x = 1 use
	outerUse := toks[17]  // x = 2 use

	assert.Equal(t, "x", outerDecl.Str)
	assert.Equal(t, "x", innerDecl.Str)
	assert.NotZero(t, outerDecl.VarID)
	assert.NotZero(t, innerDecl.VarID)
	assert.NotEqual(t, outerDecl.VarID, innerDecl.VarID, "nested scope must get a distinct id")
	assert.Equal(t, innerDecl.VarID, innerUse.VarID)
	assert.Equal(t, outerDecl.VarID, outerUse.VarID)
}

func TestFunctionTable(t *testing.T) {
	tz := New(8)
	assert.NoError(t, tz.Tokenize("int helper(int a){ return a; } void f(){ helper(1); }", 0))
	defTok := tz.FindFunctionTokenByName("helper")
	assert.NotNil(t, defTok)
	assert.Equal(t, "helper", defTok.Str)
	assert.Nil(t, tz.FindFunctionTokenByName("nope"))
}

func TestSizeOfType(t *testing.T) {
	tz := New(8)
	sz, ok := tz.SizeOfType("int")
	assert.True(t, ok)
	assert.Equal(t, 4, sz)
	sz, ok = tz.SizeOfType("*")
	assert.True(t, ok)
	assert.Equal(t, 8, sz)
}
