package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mk(strs ...string) *Stream {
	toks := make([]*Token, len(strs))
	for i, str := range strs {
		toks[i] = New(str)
		toks[i].IsName = isIdent(str)
		toks[i].IsNumber = isDigits(str)
		toks[i].IsString = len(str) >= 2 && str[0] == '"'
	}
	return NewStream(toks)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func TestMatchLiteralAndVar(t *testing.T) {
	s := mk("if", "(", "x", ")")
	assert.True(t, Match(s.Front(), "if ( %var% )", 0))
	assert.False(t, Match(s.Front(), "while ( %var% )", 0))
}

func TestMatchTypeExcludesDelete(t *testing.T) {
	s := mk("delete", "p")
	assert.False(t, Match(s.Front(), "%type%", 0))
	assert.True(t, Match(s.Front(), "%var%", 0))
}

func TestMatchNum(t *testing.T) {
	s := mk("x", "=", "10", ";")
	assert.True(t, Match(s.Front(), "%var% = %num% ;", 0))
}

func TestMatchAlternationWithEmpty(t *testing.T) {
	s := mk("free", "(", "p", ")")
	// "const|" allows an optional literal that isn't present here.
	assert.True(t, Match(s.Front(), "const| free ( %var% )", 0))
}

func TestMatchCharClass(t *testing.T) {
	s := mk("+")
	assert.True(t, Match(s.Front(), "[+-]", 0))
	s2 := mk("*")
	assert.False(t, Match(s2.Front(), "[+-]", 0))
}

func TestMatchNegate(t *testing.T) {
	s := mk("int", "x")
	assert.True(t, Match(s.Front(), "!!char", 0))
	s2 := mk("char", "x")
	assert.False(t, Match(s2.Front(), "!!char", 0))
}

func TestMatchVarID(t *testing.T) {
	s := mk("x", "=", "x")
	toks := s.Tokens()
	toks[0].VarID = 5
	toks[2].VarID = 5
	assert.True(t, Match(toks[2], "%varid%", 5))
	assert.False(t, Match(toks[2], "%varid%", 6))
}

func TestFindMatch(t *testing.T) {
	s := mk("int", "x", ";", "free", "(", "x", ")", ";")
	hit := FindMatch(s.Front(), "free ( %var% )", 0)
	assert.NotNil(t, hit)
	assert.Equal(t, "free", hit.Str)
}
