package simplifier

import "github.com/gscacco/cppcheck/token"

// controlWords are keywords whose following "(...)" is not a function
// call's argument list, so reduceParens does not skip it the way it skips
// "foo(x)". The parens that "if"/"while"/"for"/"switch" require are still
// kept; a redundant pair inside them, or after "return" and the other
// words, is reduced (spec §4.4 "Parenthesis reduction").
var controlWords = map[string]bool{
	"if": true, "while": true, "for": true, "switch": true,
	"return": true, "else": true, "do": true, "delete": true,
}

// stripCasts removes "(T *) e" and "(const T *) e" casts, keeping only e
// (spec §4.4 "Cast stripping").
func stripCasts(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "(" || t.Link == nil {
			continue
		}
		p := t.Next()
		if p != nil && p.Str == "const" {
			p = p.Next()
		}
		if p == nil || !p.IsName {
			continue
		}
		p = p.Next()
		stars := 0
		for p != nil && p.Str == "*" {
			p = p.Next()
			stars++
		}
		if stars == 0 || p != t.Link {
			continue
		}
		closeParen := t.Link
		after := closeParen.Next()
		if after == nil {
			continue
		}
		if !(after.IsName || after.IsNumber || after.IsString ||
			after.Str == "(" || after.Str == "-" || after.Str == "!" || after.Str == "~") {
			continue
		}
		s.RemoveRange(t, closeParen)
		return true
	}
	return false
}

// reduceParens drops a redundant "(expr)" wrapper around a single atom,
// and collapses an already-parenthesized expression's outer pair (spec
// §4.4 "Parenthesis reduction").
func reduceParens(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "(" || t.Link == nil {
			continue
		}
		closeParen := t.Link
		prev := t.Prev()
		if prev != nil && prev.IsName && !controlWords[prev.Str] {
			continue // function call or decl argument list, leave alone
		}
		if prev != nil && (prev.Str == "if" || prev.Str == "while" || prev.Str == "for" || prev.Str == "switch") {
			continue // these parens are part of the statement's syntax
		}
		inner := t.Next()
		if inner == nil || inner == closeParen {
			continue
		}
		if inner.Str == "(" && inner.Link == closeParen.Prev() {
			s.Remove(closeParen)
			s.Remove(t)
			return true
		}
		if (inner.IsName || inner.IsNumber || inner.IsString) && inner.Next() == closeParen {
			s.Remove(closeParen)
			s.Remove(t)
			return true
		}
	}
	return false
}
