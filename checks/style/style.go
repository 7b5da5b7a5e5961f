// Package style implements the stylistic pattern-scan checks named in
// spec §6's stable-identifier list but never assigned a component by
// §4.8: redundant conditions, char-typed array indices, variables whose
// scope could be narrowed, C-style pointer casts, unreachable code after
// an unconditional exit, division by a literal zero, and dereference of a
// pointer just set to null (SPEC_FULL.md §4).
package style

import (
	"fmt"

	"github.com/gscacco/cppcheck/diagnostic"
	"github.com/gscacco/cppcheck/sourcebuf"
	"github.com/gscacco/cppcheck/token"
)

func loc(buf *sourcebuf.Buffer, tok *token.Token) diagnostic.Location {
	return diagnostic.Location{File: buf.Path(tok.File), Line: tok.Line}
}

// Run scans s for every style-category finding and reports them through
// sink.
func Run(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	defer func() {
		if r := recover(); r != nil {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.PossibleError,
				ID:       "internalError",
				Message:  fmt.Sprintf("style check aborted: %v", r),
			})
		}
	}()

	checkZeroDivision(s, buf, sink)
	checkCStylePointerCast(s, buf, sink)
	checkRedundantCondition(s, buf, sink)
	checkCharVariableAsIndex(s, buf, sink)
	checkUnreachableCode(s, buf, sink)
	checkNullPointer(s, buf, sink)
	checkVarScope(s, buf, sink)
}

// checkZeroDivision flags "x / 0" or "x % 0" with a literal zero divisor.
func checkZeroDivision(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "/" && t.Str != "%" {
			continue
		}
		lhs := t.Prev()
		rhs := t.Next()
		if lhs == nil || rhs == nil {
			continue
		}
		if rhs.IsNumber && rhs.Str == "0" {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.Error,
				ID:       "zeroDivision",
				Chain:    []diagnostic.Location{loc(buf, t)},
				Message:  "division by zero",
			})
		}
	}
}

// checkCStylePointerCast flags "( %type% * ) expr", the C-style cast to a
// pointer type that C++ code should spell as static_cast/reinterpret_cast.
func checkCStylePointerCast(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "(" {
			continue
		}
		typeTok := t.Next()
		if typeTok == nil || !typeTok.IsName {
			continue
		}
		star := typeTok.Next()
		if star == nil || star.Str != "*" {
			continue
		}
		close := star.Next()
		if close == nil || close.Str != ")" {
			continue
		}
		target := close.Next()
		if target == nil || !(target.IsName || target.Str == "&") {
			continue
		}
		sink.Report(diagnostic.Record{
			Severity: diagnostic.Style,
			ID:       "cStylePointerCast",
			Chain:    []diagnostic.Location{loc(buf, t)},
			Message:  fmt.Sprintf("C-style pointer cast to %s*", typeTok.Str),
		})
	}
}

// checkRedundantCondition flags "if ( %varid% ) { if ( %varid% )", a
// nested re-check of a condition already established by the outer if.
func checkRedundantCondition(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "if" {
			continue
		}
		outerVarID, ok := singleVarCondition(t)
		if !ok {
			continue
		}
		body := conditionBody(t)
		if body == nil || body.Str != "{" || body.Link == nil {
			continue
		}
		inner := body.Next()
		if inner == nil || inner.Str != "if" {
			continue
		}
		innerVarID, ok := singleVarCondition(inner)
		if ok && innerVarID == outerVarID {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.Style,
				ID:       "redundantCondition",
				Chain:    []diagnostic.Location{loc(buf, inner)},
				Message:  "condition is redundant: already checked by the enclosing if",
			})
		}
	}
}

// singleVarCondition recognizes "if ( %var% )" and returns the variable's
// VarID.
func singleVarCondition(ifTok *token.Token) (int, bool) {
	open := ifTok.Next()
	if open == nil || open.Str != "(" || open.Link == nil {
		return 0, false
	}
	cond := open.Next()
	if cond == nil || cond.VarID == 0 || cond.Next() != open.Link {
		return 0, false
	}
	return cond.VarID, true
}

func conditionBody(ifTok *token.Token) *token.Token {
	open := ifTok.Next()
	if open == nil || open.Link == nil {
		return nil
	}
	return open.Link.Next()
}

// checkCharVariableAsIndex flags "a[c]" where c was declared with type
// char -- on platforms where char is signed, a negative value wraps the
// index in a way the author rarely intends.
func checkCharVariableAsIndex(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	charVars := make(map[int]bool)
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "char" {
			continue
		}
		n := t.Next()
		if n != nil && n.IsName && n.VarID != 0 {
			charVars[n.VarID] = true
		}
	}
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "[" || t.Prev() == nil || !t.Prev().IsName {
			continue
		}
		idx := t.Next()
		if idx != nil && idx.VarID != 0 && charVars[idx.VarID] {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.Style,
				ID:       "charVariableAsIndex",
				Chain:    []diagnostic.Location{loc(buf, idx)},
				Message:  "array index is a char: may be negative on signed-char platforms",
			})
		}
	}
}

// checkUnreachableCode flags a statement immediately following an
// unconditional return/break/continue/throw at the same brace depth,
// before the enclosing "}".
func checkUnreachableCode(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "return" && t.Str != "break" && t.Str != "continue" && t.Str != "throw" {
			continue
		}
		if p := t.Prev(); p != nil {
			if p.Str == "else" {
				continue // braceless else body: conditional
			}
			if p.Str == ")" && p.Link != nil && p.Link.Prev() != nil {
				if w := p.Link.Prev().Str; w == "if" || w == "while" || w == "for" {
					continue // braceless if/loop body: conditional
				}
			}
		}
		semi := t
		for semi != nil && semi.Str != ";" {
			semi = semi.Next()
		}
		if semi == nil {
			continue
		}
		next := semi.Next()
		if next == nil || next.Str == "}" || next.Str == "case" || next.Str == "default" {
			continue
		}
		sink.Report(diagnostic.Record{
			Severity: diagnostic.Style,
			ID:       "unreachableCode",
			Chain:    []diagnostic.Location{loc(buf, next)},
			Message:  fmt.Sprintf("code after %s is never executed", t.Str),
		})
	}
}

// checkNullPointer flags "p = 0 ;" (or "= NULL") when the next occurrence
// of p, before any "if", is "p->". A "*p" dereference is not detected.
func checkNullPointer(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for t := s.Front(); t != nil; t = t.Next() {
		if !t.IsName || t.VarID == 0 {
			continue
		}
		eq := t.Next()
		if eq == nil || eq.Str != "=" {
			continue
		}
		rhs := eq.Next()
		if rhs == nil || (rhs.Str != "0" && rhs.Str != "NULL") {
			continue
		}
		semi := rhs.Next()
		if semi == nil || semi.Str != ";" {
			continue
		}
		varID := t.VarID
		for u := semi.Next(); u != nil; u = u.Next() {
			if u.Str == "if" {
				break // a null check follows; stop assuming the worst
			}
			if u.VarID == varID {
				if u.Str == "=" {
					break
				}
				n := u.Next()
				if n != nil && n.Str == "->" {
					sink.Report(diagnostic.Record{
						Severity: diagnostic.Error,
						ID:       "nullPointer",
						Chain:    []diagnostic.Location{loc(buf, u)},
						Message:  fmt.Sprintf("%q is dereferenced after being set to null", t.Str),
					})
				}
				break
			}
		}
	}
}

// checkVarScope flags a local variable declared at the top level of a
// function body whose every later occurrence lies at one and the same
// nested brace depth, suggesting its scope could be narrowed. Two sibling
// blocks at that depth are not told apart, so occurrences split between
// them are still flagged (spec §7 "Possible style: ... scope can be
// reduced").
func checkVarScope(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for _, body := range functionBodies(s) {
		checkVarScopeInBody(body, buf, sink)
	}
}

func functionBodies(s *token.Stream) []*token.Token {
	var out []*token.Token
	for t := s.Front(); t != nil; t = t.Next() {
		if !t.IsName {
			continue
		}
		open := t.Next()
		if open == nil || open.Str != "(" || open.Link == nil {
			continue
		}
		body := open.Link.Next()
		if body != nil && body.Str == "const" {
			body = body.Next()
		}
		if body == nil || body.Str != "{" {
			continue
		}
		out = append(out, body)
	}
	return out
}

func checkVarScopeInBody(body *token.Token, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	end := body.Link
	for t := body.Next(); t != nil && t != end; t = t.Next() {
		if t.VarID == 0 {
			continue
		}
		n := t.Next()
		if n == nil || (n.Str != ";" && n.Str != "=") {
			continue
		}
		declDepth := depthAt(body, t)
		if declDepth != 1 {
			continue // only variables declared at the function's own top level
		}
		innerOnly, everUsed := true, false
		nestedDepth := -1
		for u := t.Next(); u != nil && u != end; u = u.Next() {
			if u.VarID != t.VarID {
				continue
			}
			everUsed = true
			d := depthAt(body, u)
			if d <= 1 {
				innerOnly = false
				break
			}
			if nestedDepth == -1 {
				nestedDepth = d
			} else if d != nestedDepth {
				innerOnly = false
				break
			}
		}
		if everUsed && innerOnly {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.PossibleStyle,
				ID:       "varScope",
				Chain:    []diagnostic.Location{loc(buf, t)},
				Message:  fmt.Sprintf("scope of variable %q could be reduced", t.Str),
			})
		}
	}
}

// depthAt returns the brace depth of tok relative to body ("{" itself is
// depth 1).
func depthAt(body, tok *token.Token) int {
	depth := 0
	for t := body; t != nil; t = t.Next() {
		if t.Str == "{" {
			depth++
		}
		if t == tok {
			return depth
		}
		if t.Str == "}" {
			depth--
		}
	}
	return depth
}
