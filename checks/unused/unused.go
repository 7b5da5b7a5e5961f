// Package unused implements the unused-symbol checks: local variables
// never read or written again after their declaration, struct members
// never accessed anywhere, and non-member static functions never called
// (spec §4.8 "Unused variable / struct member"; SPEC_FULL.md §4
// "unusedFunction (whole-file, not just private methods)").
package unused

import (
	"fmt"

	"github.com/gscacco/cppcheck/diagnostic"
	"github.com/gscacco/cppcheck/sourcebuf"
	"github.com/gscacco/cppcheck/token"
)

func loc(buf *sourcebuf.Buffer, tok *token.Token) diagnostic.Location {
	return diagnostic.Location{File: buf.Path(tok.File), Line: tok.Line}
}

// Run scans s for unused locals, unused struct members, and unused static
// functions, reporting through sink.
func Run(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	defer func() {
		if r := recover(); r != nil {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.PossibleError,
				ID:       "internalError",
				Message:  fmt.Sprintf("unused check aborted: %v", r),
			})
		}
	}()

	for _, body := range functionBodies(s) {
		checkUnusedLocals(body, buf, sink)
	}
	checkUnusedStructMembers(s, buf, sink)
	checkUnusedStaticFunctions(s, buf, sink)
}

// functionBodies returns the opening "{" of every function definition in
// s, recognized by a name token followed by a linked "(...)" then a "{"
// (skipping an optional trailing "const").
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

// checkUnusedLocals flags every local variable whose VarID occurs exactly
// once inside body -- at its own declaration, never read or written again.
func checkUnusedLocals(body *token.Token, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	end := body.Link
	firstOccurrence := make(map[int]*token.Token)
	occurrences := make(map[int]int)
	for t := body; t != nil && t != end; t = t.Next() {
		if t.VarID == 0 {
			continue
		}
		occurrences[t.VarID]++
		if firstOccurrence[t.VarID] == nil {
			firstOccurrence[t.VarID] = t
		}
	}
	for varID, tok := range firstOccurrence {
		if occurrences[varID] == 1 && isDeclarationSite(tok) {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.Style,
				ID:       "unusedVariable",
				Chain:    []diagnostic.Location{loc(buf, tok)},
				Message:  fmt.Sprintf("variable %q is never used", tok.Str),
			})
		}
	}
}

// isDeclarationSite reports whether tok's own occurrence looks like a
// declaration ("T name ;", "T name = ...;", "T name [ N ] ;") rather than a
// parameter or some other binding this check should stay silent about.
func isDeclarationSite(tok *token.Token) bool {
	n := tok.Next()
	if n == nil {
		return false
	}
	switch n.Str {
	case ";", "=":
		return true
	case "[":
		return n.Link != nil
	}
	return false
}

// checkUnusedStructMembers collects plain "struct Name { ... };" member
// names (ignoring method declarations) and flags any never referenced via
// "x.field" or "x->field" anywhere in s.
func checkUnusedStructMembers(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "struct" {
			continue
		}
		name := t.Next()
		if name == nil || !name.IsName {
			continue
		}
		open := name.Next()
		if open == nil || open.Str != "{" || open.Link == nil {
			continue
		}
		members := structFields(open)
		for _, m := range members {
			if !fieldReferenced(s, m.Str) {
				sink.Report(diagnostic.Record{
					Severity: diagnostic.Style,
					ID:       "unusedStructMember",
					Chain:    []diagnostic.Location{loc(buf, m)},
					Message:  fmt.Sprintf("struct member %q is never used", m.Str),
				})
			}
		}
	}
}

func structFields(open *token.Token) []*token.Token {
	var out []*token.Token
	for t := open.Next(); t != nil && t != open.Link; t = t.Next() {
		if !t.IsName {
			continue
		}
		// Skip method declarations: name immediately followed by "(".
		if n := t.Next(); n != nil && n.Str == "(" {
			continue
		}
		cur := t.Next()
		for cur != nil && cur.Str == "*" {
			cur = cur.Next()
		}
		if cur == nil || !cur.IsName {
			continue
		}
		after := cur.Next()
		if after != nil && (after.Str == ";" || after.Str == "[") {
			out = append(out, cur)
		}
	}
	return out
}

func fieldReferenced(s *token.Stream, name string) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "." && t.Str != "->" {
			continue
		}
		if n := t.Next(); n != nil && n.Str == name {
			return true
		}
	}
	return false
}

// checkUnusedStaticFunctions flags a file-scope "static" function whose
// name never occurs anywhere else as a call (spec.md §4.8 names only
// "unused private function"; SPEC_FULL.md §4 extends the same idea to
// whole-file static functions, as cppcheck's own unusedFunction check
// does).
func checkUnusedStaticFunctions(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "static" {
			continue
		}
		name := findFunctionName(t)
		if name == nil {
			continue
		}
		if calledElsewhere(s, name) {
			continue
		}
		sink.Report(diagnostic.Record{
			Severity: diagnostic.Style,
			ID:       "unusedFunction",
			Chain:    []diagnostic.Location{loc(buf, name)},
			Message:  fmt.Sprintf("function %q is never used", name.Str),
		})
	}
}

// findFunctionName scans forward from a "static" keyword for the name
// token of a function definition ("static T name ( ... ) { ").
func findFunctionName(staticTok *token.Token) *token.Token {
	for t := staticTok.Next(); t != nil; t = t.Next() {
		if t.Str == ";" || t.Str == "{" {
			return nil
		}
		if t.IsName {
			if open := t.Next(); open != nil && open.Str == "(" && open.Link != nil {
				if body := open.Link.Next(); body != nil && body.Str == "{" {
					return t
				}
			}
		}
	}
	return nil
}

func calledElsewhere(s *token.Stream, name *token.Token) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t == name || t.Str != name.Str || !t.IsName {
			continue
		}
		if n := t.Next(); n != nil && n.Str == "(" {
			return true
		}
	}
	return false
}
