// Package preprocessor strips comments, joins continuation lines, expands
// textual #define macros, records string-form #include targets (the caller
// resolves them), and enumerates
// the reachable #if/#ifdef/#elif/#else configurations of a translation
// unit (spec §4.1). Every transformation preserves the original line
// count exactly, so diagnostics emitted against a preprocessed
// configuration still point at the right line in the original file.
package preprocessor

import "strings"

// Suppression is a "// cppcheck-suppress <id>" marker found while
// stripping comments; it silences checkID on the following source line
// (SPEC_FULL.md §4).
type Suppression struct {
	Line    int
	CheckID string
}

// scanResult is the output of the comment/continuation pass: one entry per
// original line (always len == number of input lines), plus any
// suppression markers discovered along the way.
type scanResult struct {
	lines         []string
	suppressions  []Suppression
}

// joinAndStrip joins backslash-newline continuations and blanks comments,
// in that order, exactly as spec §4.1 describes. Both transformations
// keep the line count identical to the input: a continued line's tail is
// folded onto the line where the continuation started, and the physical
// line it vacated becomes blank instead of disappearing.
func joinAndStrip(text string) scanResult {
	rawLines := splitLines(text)
	joined := joinContinuations(rawLines)
	return stripComments(joined)
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// joinContinuations merges "...\\\nrest" into "...rest" on the first
// line, leaving a blank line behind so downstream line numbers don't
// shift (spec §4.1 "Backslash-newline joins physical lines").
func joinContinuations(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	for i := 0; i < len(out); i++ {
		for strings.HasSuffix(out[i], "\\") && i+1 < len(out) {
			out[i] = out[i][:len(out[i])-1] + out[i+1]
			out[i+1] = ""
		}
	}
	return out
}

// stripComments drops a "//" comment through the end of its line and
// replaces "/* */" comments with spaces, preserving
// every newline (so block comments spanning lines keep the line count
// intact) and leaving string-literal contents untouched (spec §4.1
// "String literals are opaque").
func stripComments(lines []string) scanResult {
	res := scanResult{lines: make([]string, len(lines))}
	inBlockComment := false
	for i, line := range lines {
		var b strings.Builder
		inString := false
		inChar := false
		j := 0
		n := len(line)
		for j < n {
			c := line[j]
			switch {
			case inBlockComment:
				if c == '*' && j+1 < n && line[j+1] == '/' {
					inBlockComment = false
					b.WriteByte(' ')
					b.WriteByte(' ')
					j += 2
					continue
				}
				b.WriteByte(' ')
				j++
			case inString:
				b.WriteByte(c)
				if c == '\\' && j+1 < n {
					b.WriteByte(line[j+1])
					j += 2
					continue
				}
				if c == '"' {
					inString = false
				}
				j++
			case inChar:
				b.WriteByte(c)
				if c == '\\' && j+1 < n {
					b.WriteByte(line[j+1])
					j += 2
					continue
				}
				if c == '\'' {
					inChar = false
				}
				j++
			case c == '"':
				inString = true
				b.WriteByte(c)
				j++
			case c == '\'':
				inChar = true
				b.WriteByte(c)
				j++
			case c == '/' && j+1 < n && line[j+1] == '/':
				cmt := line[j:]
				if id, ok := suppressID(cmt); ok {
					res.suppressions = append(res.suppressions, Suppression{Line: i + 2, CheckID: id})
				}
				j = n // rest of the line is a line comment
			case c == '/' && j+1 < n && line[j+1] == '*':
				cmt := line[j:]
				if id, ok := suppressID(cmt); ok {
					res.suppressions = append(res.suppressions, Suppression{Line: i + 2, CheckID: id})
				}
				inBlockComment = true
				b.WriteByte(' ')
				b.WriteByte(' ')
				j += 2
			default:
				b.WriteByte(c)
				j++
			}
		}
		res.lines[i] = b.String()
	}
	return res
}

// suppressID extracts the check ID from a "cppcheck-suppress <id>" comment
// body, if present.
func suppressID(comment string) (string, bool) {
	const marker = "cppcheck-suppress"
	idx := strings.Index(comment, marker)
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimSpace(comment[idx+len(marker):])
	rest = strings.TrimLeft(rest, "*/ \t")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}
