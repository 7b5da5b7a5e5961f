package sourcebuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddFileAndLine(t *testing.T) {
	b := New()
	idx := b.AddFile("a.c", "int x;\nint y;\n")
	assert.Equal(t, 0, idx)
	assert.Equal(t, "a.c", b.Path(idx))
	assert.Equal(t, 2, b.LineCount(idx))
	assert.Equal(t, "int x;", b.Line(Location{FileIndex: idx, Line: 1}))
	assert.Equal(t, "int y;", b.Line(Location{FileIndex: idx, Line: 2}))
	assert.Equal(t, "", b.Line(Location{FileIndex: idx, Line: 99}))
}

func TestFormat(t *testing.T) {
	b := New()
	idx := b.AddFile("a.c", "x\n")
	assert.Equal(t, "a.c:1", b.Format(Location{FileIndex: idx, Line: 1}))
}

func TestSuppressions(t *testing.T) {
	b := New()
	idx := b.AddFile("a.c", "x\ny\n")
	loc := Location{FileIndex: idx, Line: 2}
	assert.False(t, b.IsSuppressed(loc, "memleak"))
	b.Suppress(loc, "memleak")
	assert.True(t, b.IsSuppressed(loc, "memleak"))
	assert.False(t, b.IsSuppressed(loc, "bufferOverrun"))
}
