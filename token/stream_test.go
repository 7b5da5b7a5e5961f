package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strs(toks []*Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Str
	}
	return out
}

func TestStreamBuildAndWalk(t *testing.T) {
	s := NewStream([]*Token{New("int"), New("x"), New(";")})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"int", "x", ";"}, strs(s.Tokens()))
	assert.Nil(t, s.Front().Prev())
	assert.Nil(t, s.Back().Next())
}

func TestStreamInsertAfterAndBefore(t *testing.T) {
	s := NewStream([]*Token{New("a"), New("c")})
	mid := New("b")
	s.InsertAfter(s.Front(), mid)
	assert.Equal(t, []string{"a", "b", "c"}, strs(s.Tokens()))

	head := New("z")
	s.InsertBefore(s.Front(), head)
	assert.Equal(t, []string{"z", "a", "b", "c"}, strs(s.Tokens()))
	assert.Same(t, head, s.Front())
}

func TestStreamRemoveAndRange(t *testing.T) {
	s := NewStream([]*Token{New("a"), New("b"), New("c"), New("d")})
	b := s.Front().Next()
	s.Remove(b)
	assert.Equal(t, []string{"a", "c", "d"}, strs(s.Tokens()))

	s2 := NewStream([]*Token{New("a"), New("b"), New("c"), New("d")})
	toks := s2.Tokens()
	s2.RemoveRange(toks[1], toks[2])
	assert.Equal(t, []string{"a", "d"}, strs(s2.Tokens()))
	assert.Equal(t, 2, s2.Len())
}

func TestStreamReplace(t *testing.T) {
	s := NewStream([]*Token{New("a"), New("b"), New("c")})
	repl := New("B")
	s.Replace(s.Front().Next(), repl)
	assert.Equal(t, []string{"a", "B", "c"}, strs(s.Tokens()))
}

func TestBracketLinkInvariant(t *testing.T) {
	open, close := New("("), New(")")
	open.Link = close
	close.Link = open
	assert.Same(t, close, open.Link)
	assert.Same(t, open, close.Link)
}
