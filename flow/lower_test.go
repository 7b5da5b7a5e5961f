package flow

import (
	"testing"

	"github.com/gscacco/cppcheck/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lowerVar tokenizes src, locates function f's body, resolves varName's
// VarID from its first occurrence in the body, and returns the reduced
// (but not yet reducer-folded) stream for that variable.
func lowerVar(t *testing.T, src, varName string) (Stream, *tokenizer.Tokenizer) {
	t.Helper()
	tz := tokenizer.New(8)
	require.NoError(t, tz.Tokenize(src, 0))

	def := tz.FindFunctionTokenByName("f")
	require.NotNil(t, def)
	open := def.Next()
	require.Equal(t, "(", open.Str)
	body := open.Link.Next()
	require.Equal(t, "{", body.Str)

	varID := 0
	for tok := body; tok != nil && varID == 0; tok = tok.Next() {
		if tok.IsName && tok.Str == varName {
			varID = tok.VarID
		}
	}
	require.NotZero(t, varID, "variable %q was never assigned an id", varName)

	ctx := NewContext(tz, 0)
	return Lower(body, varID, ctx), tz
}

func kinds(s Stream) []Kind {
	out := make([]Kind, len(s))
	for i, st := range s {
		out[i] = st.Kind
	}
	return out
}

func TestLowerAllocDealloc(t *testing.T) {
	s, _ := lowerVar(t, `void f(){ char *p; p = malloc(4); free(p); }`, "p")
	assert.Equal(t, []Kind{OpenBrace, Decl, Alloc, Dealloc, CloseBrace}, kinds(s))
}

func TestLowerCombinedDeclAllocMalloc(t *testing.T) {
	s, _ := lowerVar(t, `void f(){ char *p = malloc(10); free(p); }`, "p")
	assert.Equal(t, []Kind{OpenBrace, Decl, Alloc, Dealloc, CloseBrace}, kinds(s))
}

func TestLowerCombinedDeclAllocNew(t *testing.T) {
	s, _ := lowerVar(t, `void f(){ int *p = new int; delete p; }`, "p")
	assert.Equal(t, []Kind{OpenBrace, Decl, Alloc, Dealloc, CloseBrace}, kinds(s))
}

func TestLowerNewDeleteArray(t *testing.T) {
	s, _ := lowerVar(t, `void f(){ int *p; p = new int[4]; delete [] p; }`, "p")
	assert.Equal(t, []Kind{OpenBrace, Decl, Alloc, Dealloc, CloseBrace}, kinds(s))
	for _, st := range s {
		if st.Kind == Alloc {
			assert.Equal(t, "new[]", st.Alloc.String())
		}
	}
}

func TestLowerIfVar(t *testing.T) {
	s, _ := lowerVar(t, `void f(){ char *p; p = malloc(4); if (p) { free(p); } }`, "p")
	assert.Equal(t, []Kind{OpenBrace, Decl, Alloc, IfVar, OpenBrace, Dealloc, CloseBrace, CloseBrace}, kinds(s))
}

func TestLowerLoopAllocLeakPattern(t *testing.T) {
	s, _ := lowerVar(t, `void f(){ char *p; while (1) { p = malloc(4); } }`, "p")
	assert.Equal(t, []Kind{OpenBrace, Decl, Loop, OpenBrace, Alloc, CloseBrace, CloseBrace}, kinds(s))
}

func TestLowerReturnUse(t *testing.T) {
	s, _ := lowerVar(t, `void f(){ char *p; p = malloc(4); return p; }`, "p")
	assert.Contains(t, kinds(s), ReturnUse)
}

func TestLowerIndexedUse(t *testing.T) {
	s, _ := lowerVar(t, `void f(){ int *p; p = malloc(4); p[0]; }`, "p")
	assert.Contains(t, kinds(s), UseIndexed)
}

func TestLowerNeutralCallEmitsNothing(t *testing.T) {
	s, _ := lowerVar(t, `void f(){ char *p; p = malloc(4); strlen(p); free(p); }`, "p")
	assert.Equal(t, []Kind{OpenBrace, Decl, Alloc, Dealloc, CloseBrace}, kinds(s))
}

func TestLowerSpliceRecognizesCalleeFree(t *testing.T) {
	s, _ := lowerVar(t, `
void release(char *q){ free(q); }
void f(){ char *p; p = malloc(4); release(p); }
`, "p")
	found := false
	for _, st := range s {
		if st.Kind == Dealloc {
			found = true
		}
	}
	assert.True(t, found, "spliced callee should classify as a dealloc")
}
