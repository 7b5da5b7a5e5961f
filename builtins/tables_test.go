package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllocator(t *testing.T) {
	cases := []struct {
		name string
		want AllocKind
		ok   bool
	}{
		{"malloc", KindHeapLegacy, true},
		{"calloc", KindHeapLegacy, true},
		{"fopen", KindFile, true},
		{"open", KindFileDescriptor, true},
		{"popen", KindPipe, true},
		{"opendir", KindDirectory, true},
		{"g_malloc", KindHeapLegacy, true},
		{"g_try_malloc", KindHeapLegacy, true},
		{"strcpy", KindNone, false},
	}
	for _, c := range cases {
		got, ok := IsAllocator(c.name)
		assert.Equal(t, c.ok, ok, c.name)
		if c.ok {
			assert.Equal(t, c.want, got, c.name)
		}
	}
}

func TestIsCloser(t *testing.T) {
	got, ok := IsCloser("free")
	assert.True(t, ok)
	assert.Equal(t, KindHeapLegacy, got)

	got, ok = IsCloser("fclose")
	assert.True(t, ok)
	assert.Equal(t, KindFile, got)

	_, ok = IsCloser("malloc")
	assert.False(t, ok)
}

func TestIsNeutral(t *testing.T) {
	assert.True(t, IsNeutral("strcpy"))
	assert.True(t, IsNeutral("memcpy"))
	assert.False(t, IsNeutral("malloc"))
}

func TestMerge(t *testing.T) {
	assert.Equal(t, KindHeapLegacy, Merge(KindNone, KindHeapLegacy))
	assert.Equal(t, KindHeapLegacy, Merge(KindHeapLegacy, KindHeapLegacy))
	assert.Equal(t, KindMany, Merge(KindHeapLegacy, KindFile))
}
