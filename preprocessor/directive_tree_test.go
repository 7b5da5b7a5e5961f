package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeConditionIfdefIfndef(t *testing.T) {
	assert.Equal(t, "defined(FOO)", normalizeCondition("ifdef FOO"))
	assert.Equal(t, "!defined(FOO)", normalizeCondition("ifndef FOO"))
	assert.Equal(t, "VERSION > 1", normalizeCondition("if VERSION > 1"))
	assert.Equal(t, "VERSION > 1", normalizeCondition("elif VERSION > 1"))
}

func TestParseDocumentFlatPlainLines(t *testing.T) {
	items := parseDocument([]string{"int a;", "int b;"})
	require.Len(t, items, 2)
	assert.True(t, items[0].plain)
	assert.Equal(t, 1, items[0].lineNo)
	assert.Equal(t, "int a;", items[0].text)
	assert.True(t, items[1].plain)
	assert.Equal(t, 2, items[1].lineNo)
}

func TestParseDocumentSingleChain(t *testing.T) {
	items := parseDocument([]string{"#ifdef A", "x;", "#endif"})
	require.Len(t, items, 1)
	require.NotNil(t, items[0].chain)
	chain := items[0].chain
	require.Len(t, chain.branches, 1)
	assert.Equal(t, "defined(A)", chain.branches[0].expr)
	assert.Equal(t, 3, chain.endifLine)
	require.Len(t, chain.branches[0].body, 1)
	assert.Equal(t, "x;", chain.branches[0].body[0].text)
}

func TestParseDocumentElifChain(t *testing.T) {
	items := parseDocument([]string{
		"#if A",
		"one;",
		"#elif B",
		"two;",
		"#else",
		"three;",
		"#endif",
	})
	require.Len(t, items, 1)
	chain := items[0].chain
	require.Len(t, chain.branches, 3)
	assert.Equal(t, "A", chain.branches[0].expr)
	assert.False(t, chain.branches[0].isElse)
	assert.Equal(t, "B", chain.branches[1].expr)
	assert.False(t, chain.branches[1].isElse)
	assert.True(t, chain.branches[2].isElse)
	assert.Equal(t, 7, chain.endifLine)
}

func TestParseDocumentNestedChain(t *testing.T) {
	items := parseDocument([]string{
		"#ifdef A",
		"#ifdef B",
		"x;",
		"#endif",
		"#endif",
	})
	require.Len(t, items, 1)
	outer := items[0].chain
	require.Len(t, outer.branches, 1)
	require.Len(t, outer.branches[0].body, 1)
	require.NotNil(t, outer.branches[0].body[0].chain)
	inner := outer.branches[0].body[0].chain
	assert.Equal(t, "defined(B)", inner.branches[0].expr)
}

func TestParseDocumentPlainLinesAroundChain(t *testing.T) {
	items := parseDocument([]string{"a;", "#ifdef X", "b;", "#endif", "c;"})
	require.Len(t, items, 3)
	assert.True(t, items[0].plain)
	assert.NotNil(t, items[1].chain)
	assert.True(t, items[2].plain)
	assert.Equal(t, 5, items[2].lineNo)
}
