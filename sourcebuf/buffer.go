// Package sourcebuf holds the raw text of translation units under analysis
// and the mapping from (file-index, line) back to a source path, used by
// every diagnostic the analyzer emits (spec §3 "Source buffer").
package sourcebuf

import (
	"bufio"
	"fmt"
	"os"
)

// Location identifies a single point in a translation unit. FileIndex is
// an index into a Buffer's file table, never a raw path, so diagnostics
// stay cheap to carry around and compare.
type Location struct {
	FileIndex int
	Line      int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.FileIndex, l.Line)
}

// Buffer owns the text of every file participating in one analysis run: the
// main translation unit plus any headers pulled in by #include "...".
type Buffer struct {
	paths []string
	lines [][]string

	// suppressions[fileIndex][line] holds the set of check IDs silenced by
	// a "// cppcheck-suppress <id>" comment on the line above (see
	// SPEC_FULL.md §4 "Suppression comments").
	suppressions map[int]map[int]map[string]bool
}

// New creates an empty Buffer.
func New() *Buffer {
	return &Buffer{suppressions: make(map[int]map[int]map[string]bool)}
}

// AddFile registers path's content and returns its stable file index.
// Lines are split on "\n"; line numbers are 1-indexed throughout the
// analyzer to match the source text convention.
func (b *Buffer) AddFile(path, content string) int {
	idx := len(b.paths)
	b.paths = append(b.paths, path)
	b.lines = append(b.lines, splitLines(content))
	return idx
}

// LoadFile reads path from disk and registers it.
func (b *Buffer) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("sourcebuf: opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("sourcebuf: reading %s: %w", path, err)
	}

	idx := len(b.paths)
	b.paths = append(b.paths, path)
	b.lines = append(b.lines, lines)
	return idx, nil
}

// Path returns the path registered for fileIndex, or "" if out of range.
func (b *Buffer) Path(fileIndex int) string {
	if fileIndex < 0 || fileIndex >= len(b.paths) {
		return ""
	}
	return b.paths[fileIndex]
}

// Line returns the 1-indexed source line for loc, or "" if out of range.
func (b *Buffer) Line(loc Location) string {
	if loc.FileIndex < 0 || loc.FileIndex >= len(b.lines) {
		return ""
	}
	ls := b.lines[loc.FileIndex]
	if loc.Line < 1 || loc.Line > len(ls) {
		return ""
	}
	return ls[loc.Line-1]
}

// LineCount returns the number of lines registered for fileIndex.
func (b *Buffer) LineCount(fileIndex int) int {
	if fileIndex < 0 || fileIndex >= len(b.lines) {
		return 0
	}
	return len(b.lines[fileIndex])
}

// Format renders loc as "path:line" for diagnostic messages.
func (b *Buffer) Format(loc Location) string {
	return fmt.Sprintf("%s:%d", b.Path(loc.FileIndex), loc.Line)
}

// Suppress records that checkID is silenced at loc (suppressions apply to
// the line the comment annotates, one line below the comment itself).
func (b *Buffer) Suppress(loc Location, checkID string) {
	byLine, ok := b.suppressions[loc.FileIndex]
	if !ok {
		byLine = make(map[int]map[string]bool)
		b.suppressions[loc.FileIndex] = byLine
	}
	ids, ok := byLine[loc.Line]
	if !ok {
		ids = make(map[string]bool)
		byLine[loc.Line] = ids
	}
	ids[checkID] = true
}

// IsSuppressed reports whether checkID was suppressed at loc.
func (b *Buffer) IsSuppressed(loc Location, checkID string) bool {
	byLine, ok := b.suppressions[loc.FileIndex]
	if !ok {
		return false
	}
	ids, ok := byLine[loc.Line]
	if !ok {
		return false
	}
	return ids[checkID]
}

func splitLines(content string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			end := i
			if end > start && content[end-1] == '\r' {
				end--
			}
			lines = append(lines, content[start:end])
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}
