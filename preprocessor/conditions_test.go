package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceTermsSimple(t *testing.T) {
	reqs, ok := presenceTerms("defined(A)")
	assert.True(t, ok)
	assert.Equal(t, []requirement{{macro: "A", want: true}}, reqs)
}

func TestPresenceTermsNegatedConjunction(t *testing.T) {
	reqs, ok := presenceTerms("defined(A) && !defined(B)")
	assert.True(t, ok)
	assert.Equal(t, []requirement{{macro: "A", want: true}, {macro: "B", want: false}}, reqs)
}

func TestPresenceTermsRejectsArithmetic(t *testing.T) {
	_, ok := presenceTerms("VERSION >= 2")
	assert.False(t, ok)
}

func TestEvalDeterministicArithmetic(t *testing.T) {
	assert.True(t, evalDeterministic("VERSION >= 2", map[string]string{"VERSION": "3"}))
	assert.False(t, evalDeterministic("VERSION >= 2", map[string]string{"VERSION": "1"}))
	assert.False(t, evalDeterministic("VERSION >= 2", nil))
}

func TestEvalDeterministicDefined(t *testing.T) {
	assert.True(t, evalDeterministic("defined(FOO)", map[string]string{"FOO": ""}))
	assert.False(t, evalDeterministic("defined(FOO)", nil))
	assert.True(t, evalDeterministic("!defined(FOO)", nil))
}

func TestEvalDeterministicMixed(t *testing.T) {
	assert.True(t, evalDeterministic("defined(A) || VERSION > 10", map[string]string{"A": ""}))
	assert.False(t, evalDeterministic("defined(A) || VERSION > 10", map[string]string{"VERSION": "1"}))
}

func TestIsPresenceChain(t *testing.T) {
	chain := &condChain{branches: []condBranch{
		{expr: "defined(A)"},
		{isElse: true},
	}}
	reqs, ok := isPresenceChain(chain)
	assert.True(t, ok)
	assert.Len(t, reqs, 1)

	mixed := &condChain{branches: []condBranch{
		{expr: "VERSION >= 2"},
		{isElse: true},
	}}
	_, ok = isPresenceChain(mixed)
	assert.False(t, ok)
}
