package preprocessor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncludeTarget(t *testing.T) {
	name, ok := includeTarget(`include "util.h"`)
	assert.True(t, ok)
	assert.Equal(t, "util.h", name)

	_, ok = includeTarget(`include <stdio.h>`)
	assert.False(t, ok)
}

func TestBlankIncludes(t *testing.T) {
	lines := []string{`#include "a.h"`, "int x;", `#include <stdio.h>`}
	out, targets := blankIncludes(lines)
	assert.Equal(t, []string{"", "int x;", "#include <stdio.h>"}, out)
	assert.Equal(t, []string{"a.h"}, targets)
}

func TestIncludeResolverCachesFileContents(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.h"), []byte("int helper();\n"), 0o644))

	resolver, err := NewIncludeResolver([]string{dir}, 4)
	require.NoError(t, err)

	body, ok := resolver.Resolve(dir, "util.h")
	assert.True(t, ok)
	assert.Equal(t, "int helper();\n", body)

	_, ok = resolver.Resolve(dir, "missing.h")
	assert.False(t, ok)
}
