// Package tokenizer lexes preprocessed C/C++ text into a token.Stream,
// links brackets, assigns variable IDs by scope, and exposes the function
// table the leak analyzer walks (spec §4.3).
package tokenizer

import (
	"strings"

	"github.com/gscacco/cppcheck/token"
)

var multiCharOps = []string{
	"<<=", ">>=", "...",
	"::", "->", ">>", "<<", "<=", ">=", "==", "!=", "&&", "||",
	"++", "--", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// lex scans text (already preprocessed: comments blanked, line
// continuations joined) into a flat, un-linked slice of tokens stamped
// with fileIndex and 1-indexed line numbers.
func lex(text string, fileIndex int) []*token.Token {
	var toks []*token.Token
	line := 1
	i := 0
	n := len(text)

	for i < n {
		c := text[i]

		switch {
		case c == '\n':
			line++
			i++

		case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f':
			i++

		case isIdentStart(c) && !(c == 'L' && i+1 < n && text[i+1] == '"'):
			start := i
			for i < n && isIdentCont(text[i]) {
				i++
			}
			word := text[start:i]
			tok := token.New(word)
			tok.IsName = true
			tok.IsStdType = isStdTypeName(word)
			tok.File, tok.Line = fileIndex, line
			toks = append(toks, tok)

		case c == 'L' && i+1 < n && text[i+1] == '"':
			// wide string: fold to the same representation as a narrow one.
			i++
			str, consumed := scanString(text, i)
			i += consumed
			tok := token.New(str)
			tok.IsString = true
			tok.File, tok.Line = fileIndex, line
			toks = append(toks, tok)

		case c == '"':
			str, consumed := scanString(text, i)
			i += consumed
			tok := token.New(str)
			tok.IsString = true
			tok.File, tok.Line = fileIndex, line
			toks = append(toks, tok)

		case c == '\'':
			str, consumed := scanChar(text, i)
			i += consumed
			tok := token.New(str)
			tok.IsNumber = true // a char literal behaves like a numeric constant downstream
			tok.File, tok.Line = fileIndex, line
			toks = append(toks, tok)

		case isDigit(c) || (c == '.' && i+1 < n && isDigit(text[i+1])):
			start := i
			i = scanNumber(text, i)
			tok := token.New(text[start:i])
			tok.IsNumber = true
			tok.File, tok.Line = fileIndex, line
			toks = append(toks, tok)

		default:
			opLen := matchMultiCharOp(text[i:])
			var lit string
			if opLen > 0 {
				lit = text[i : i+opLen]
				i += opLen
			} else {
				lit = text[i : i+1]
				i++
			}
			tok := token.New(lit)
			tok.File, tok.Line = fileIndex, line
			toks = append(toks, tok)
		}
	}
	return toks
}

func matchMultiCharOp(rest string) int {
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op) {
			return len(op)
		}
	}
	return 0
}

// scanString reads a double-quoted string literal starting at the opening
// quote, honoring backslash escapes, and returns the literal text
// (including quotes) plus the number of bytes consumed.
func scanString(text string, start int) (string, int) {
	i := start + 1
	n := len(text)
	for i < n {
		if text[i] == '\\' && i+1 < n {
			i += 2
			continue
		}
		if text[i] == '"' {
			i++
			break
		}
		if text[i] == '\n' {
			break
		}
		i++
	}
	return text[start:i], i - start
}

func scanChar(text string, start int) (string, int) {
	i := start + 1
	n := len(text)
	for i < n {
		if text[i] == '\\' && i+1 < n {
			i += 2
			continue
		}
		if text[i] == '\'' {
			i++
			break
		}
		if text[i] == '\n' {
			break
		}
		i++
	}
	return text[start:i], i - start
}

// scanNumber consumes a numeric literal: decimal, hex (0x...), octal
// (0...), or floating point with an optional exponent and suffix letters.
func scanNumber(text string, start int) int {
	i := start
	n := len(text)
	if text[i] == '0' && i+1 < n && (text[i+1] == 'x' || text[i+1] == 'X') {
		i += 2
		for i < n && isHexDigit(text[i]) {
			i++
		}
		return skipIntSuffix(text, i)
	}
	for i < n && isDigit(text[i]) {
		i++
	}
	if i < n && text[i] == '.' {
		i++
		for i < n && isDigit(text[i]) {
			i++
		}
	}
	if i < n && (text[i] == 'e' || text[i] == 'E') {
		j := i + 1
		if j < n && (text[j] == '+' || text[j] == '-') {
			j++
		}
		if j < n && isDigit(text[j]) {
			i = j
			for i < n && isDigit(text[i]) {
				i++
			}
		}
	}
	return skipIntSuffix(text, i)
}

func skipIntSuffix(text string, i int) int {
	n := len(text)
	for i < n && strings.ContainsRune("uUlLfF", rune(text[i])) {
		i++
	}
	return i
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

var stdTypeNames = map[string]bool{
	"bool": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "void": true, "unsigned": true, "signed": true,
	"wchar_t": true, "size_t": true,
}

func isStdTypeName(name string) bool {
	return stdTypeNames[name]
}

// combineAdjacentStrings merges runs of consecutive string-literal tokens
// into one token, per spec §4.2 ("Adjacent string literals are
// concatenated").
func combineAdjacentStrings(s *token.Stream) {
	for t := s.Front(); t != nil; {
		nxt := t.Next()
		if t.IsString && nxt != nil && nxt.IsString {
			merged := mergeStringLiterals(t.Str, nxt.Str)
			t.Str = merged
			s.Remove(nxt)
			continue // re-check t against its new next
		}
		t = nxt
	}
}

func mergeStringLiterals(a, b string) string {
	aBody := strings.TrimSuffix(strings.TrimPrefix(a, `"`), `"`)
	bBody := strings.TrimSuffix(strings.TrimPrefix(b, `"`), `"`)
	return `"` + aBody + bBody + `"`
}
