// Package buffer implements the fixed-size-array checks: literal and
// loop-bounded out-of-bounds indexing, string-function overruns against a
// known destination size, and the classic strncat third-argument misuse
// (spec §4.8 "Buffer-overrun / array-out-of-bounds").
package buffer

import (
	"fmt"
	"strconv"

	"github.com/gscacco/cppcheck/diagnostic"
	"github.com/gscacco/cppcheck/sourcebuf"
	"github.com/gscacco/cppcheck/token"
)

type array struct {
	varID int
	size  int
	tok   *token.Token
}

func loc(buf *sourcebuf.Buffer, tok *token.Token) diagnostic.Location {
	return diagnostic.Location{File: buf.Path(tok.File), Line: tok.Line}
}

// Run scans s for fixed-size array declarations and reports overruns
// against them through sink.
func Run(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	defer func() {
		if r := recover(); r != nil {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.PossibleError,
				ID:       "internalError",
				Message:  fmt.Sprintf("buffer check aborted: %v", r),
			})
		}
	}()

	arrays := findArrays(s)
	for _, a := range arrays {
		checkLiteralIndex(s, a, buf, sink)
		checkLoopBoundedIndex(s, a, buf, sink)
		checkStringOps(s, a, buf, sink)
	}
}

// findArrays recognizes "T name [ N ] ;" where N is a literal integer
// (spec §4.8: "for declared T a[N]").
func findArrays(s *token.Stream) []array {
	var out []array
	for t := s.Front(); t != nil; t = t.Next() {
		if !t.IsName || t.VarID == 0 {
			continue
		}
		// A declaration has a type name (or "*") before the variable; a
		// use such as "a [ 3 ] = 1 ;" does not.
		prev := t.Prev()
		if prev == nil || !(prev.IsName || prev.Str == "*") {
			continue
		}
		switch prev.Str {
		case "return", "else", "do", "delete", "throw", "case":
			continue
		}
		open := t.Next()
		if open == nil || open.Str != "[" || open.Link == nil {
			continue
		}
		sizeTok := open.Next()
		if sizeTok == nil || !sizeTok.IsNumber || sizeTok.Next() != open.Link {
			continue
		}
		n, err := strconv.Atoi(sizeTok.Str)
		if err != nil || n <= 0 {
			continue
		}
		after := open.Link.Next()
		if after == nil || (after.Str != ";" && after.Str != "=") {
			continue
		}
		out = append(out, array{varID: t.VarID, size: n, tok: t})
	}
	return out
}

// checkLiteralIndex flags "a[k] ;" where k is a literal at or past a's
// declared size.
func checkLiteralIndex(s *token.Stream, a array, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.VarID != a.varID || t == a.tok {
			continue
		}
		open := t.Next()
		if open == nil || open.Str != "[" || open.Link == nil {
			continue
		}
		idxTok := open.Next()
		if idxTok == nil || !idxTok.IsNumber || idxTok.Next() != open.Link {
			continue
		}
		k, err := strconv.Atoi(idxTok.Str)
		if err != nil {
			continue
		}
		if k < 0 || k >= a.size {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.Error,
				ID:       "arrayIndexOutOfBounds",
				Chain:    []diagnostic.Location{loc(buf, t)},
				Message:  fmt.Sprintf("array index %d is out of bounds for array of size %d", k, a.size),
			})
		}
	}
}

// checkLoopBoundedIndex flags "for ( i = 0 ; i < M ; i++ ) { ... a[i] ... }"
// where the loop's literal upper bound M exceeds a's declared size (spec
// §4.8: "or provably loop-bounded").
func checkLoopBoundedIndex(s *token.Stream, a array, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "for" {
			continue
		}
		open := t.Next()
		if open == nil || open.Str != "(" || open.Link == nil {
			continue
		}
		loopVarID, bound, ok := parseForBound(open)
		if !ok {
			continue
		}
		body := open.Link.Next()
		if body == nil || body.Str != "{" || body.Link == nil {
			continue
		}
		if bound <= a.size {
			continue
		}
		for u := body.Next(); u != nil && u != body.Link; u = u.Next() {
			if u.VarID != a.varID {
				continue
			}
			idx := u.Next()
			if idx != nil && idx.Str == "[" && idx.Next() != nil && idx.Next().VarID == loopVarID {
				sink.Report(diagnostic.Record{
					Severity: diagnostic.Error,
					ID:       "bufferOverrun",
					Chain:    []diagnostic.Location{loc(buf, u)},
					Message:  fmt.Sprintf("loop bound %d exceeds the declared array size %d", bound, a.size),
				})
			}
		}
	}
}

// parseForBound recognizes "( %var% = %num% ; %var% <|<= %num% ; ...)" and
// returns the loop variable's VarID and its exclusive upper bound.
func parseForBound(open *token.Token) (varID int, bound int, ok bool) {
	initVar := open.Next()
	if initVar == nil || initVar.VarID == 0 {
		return 0, 0, false
	}
	t := initVar
	for t != nil && t.Str != ";" {
		t = t.Next()
	}
	if t == nil {
		return 0, 0, false
	}
	condVar := t.Next()
	if condVar == nil || condVar.VarID != initVar.VarID {
		return 0, 0, false
	}
	op := condVar.Next()
	if op == nil {
		return 0, 0, false
	}
	boundTok := op.Next()
	if boundTok == nil || !boundTok.IsNumber {
		return 0, 0, false
	}
	n, err := strconv.Atoi(boundTok.Str)
	if err != nil {
		return 0, 0, false
	}
	switch op.Str {
	case "<":
		return initVar.VarID, n, true
	case "<=":
		return initVar.VarID, n + 1, true
	default:
		return 0, 0, false
	}
}

// checkStringOps flags strcpy/sprintf/snprintf writes whose literal string
// argument is longer than a's declared size, and the classic strncat
// misuse of the destination's own size as the byte count (spec §4.8
// "string ops ... against N and the literal argument length").
func checkStringOps(s *token.Stream, a array, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for t := s.Front(); t != nil; t = t.Next() {
		if !t.IsName {
			continue
		}
		open := t.Next()
		if open == nil || open.Str != "(" || open.Link == nil {
			continue
		}
		dst := open.Next()
		if dst == nil || dst.VarID != a.varID {
			continue
		}

		switch t.Str {
		case "strcpy", "sprintf":
			lit := lastStringArg(open)
			if lit != nil {
				contentLen := len(lit.Str) - 2 // strip the surrounding quotes
				if contentLen+1 > a.size {
					sink.Report(diagnostic.Record{
						Severity: diagnostic.Error,
						ID:       "bufferOverrun",
						Chain:    []diagnostic.Location{loc(buf, t)},
						Message:  fmt.Sprintf("%s writes %d bytes into a %d-byte array", t.Str, contentLen+1, a.size),
					})
				}
			}
		case "strncat":
			args := callArgs(open)
			if len(args) == 3 && isSizeofOf(args[2], dst) {
				sink.Report(diagnostic.Record{
					Severity: diagnostic.Style,
					ID:       "strncatUsage",
					Chain:    []diagnostic.Location{loc(buf, t)},
					Message:  "strncat count should not be the destination buffer's own size: it leaves no room for the terminator",
				})
			}
		}
	}
}

// lastStringArg returns the final string-literal argument of a call, or
// nil if none of the arguments is a string literal.
func lastStringArg(open *token.Token) *token.Token {
	var last *token.Token
	for t := open.Next(); t != nil && t != open.Link; t = t.Next() {
		if t.IsString {
			last = t
		}
	}
	return last
}

// callArgs splits a call's top-level comma-separated arguments into their
// first tokens.
func callArgs(open *token.Token) []*token.Token {
	var args []*token.Token
	depth := 0
	expectArg := true
	for t := open.Next(); t != nil && t != open.Link; t = t.Next() {
		if expectArg && depth == 0 {
			args = append(args, t)
			expectArg = false
		}
		switch t.Str {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ",":
			if depth == 0 {
				expectArg = true
			}
		}
	}
	return args
}

// isSizeofOf reports whether argStart begins "sizeof ( name )" for name
// matching dst's variable.
func isSizeofOf(argStart *token.Token, dst *token.Token) bool {
	if argStart == nil || argStart.Str != "sizeof" {
		return false
	}
	open := argStart.Next()
	if open == nil || open.Str != "(" {
		return false
	}
	inner := open.Next()
	return inner != nil && inner.VarID == dst.VarID
}
