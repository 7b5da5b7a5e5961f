package simplifier

import "github.com/gscacco/cppcheck/token"

// normalizeNegation rewrites "0 == x" / "x == 0" to "!x" and "not x" to
// "!x" (spec §4.4 "Negation normalization").
func normalizeNegation(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str == "not" {
			bang := token.New("!")
			bang.File, bang.Line = t.File, t.Line
			s.InsertBefore(t, bang)
			s.Remove(t)
			return true
		}
		if t.Str != "==" {
			continue
		}
		lhs, rhs := t.Prev(), t.Next()
		if lhs == nil || rhs == nil {
			continue
		}
		var zero, operand *token.Token
		if lhs.Str == "0" && lhs.IsNumber {
			zero, operand = lhs, rhs
		} else if rhs.Str == "0" && rhs.IsNumber {
			zero, operand = rhs, lhs
		} else {
			continue
		}
		bang := token.New("!")
		bang.File, bang.Line = t.File, t.Line
		s.InsertBefore(lhs, bang)
		s.Remove(operand)
		s.InsertAfter(bang, operand)
		s.Remove(zero)
		s.Remove(t)
		return true
	}
	return false
}

// demotePostIncrement rewrites a bare post-increment/decrement statement
// "a++;" to "++a;" since the post-increment's old value is never read
// (spec §4.4 "Post/pre-increment demotion").
func demotePostIncrement(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "++" && t.Str != "--" {
			continue
		}
		name := t.Prev()
		if name == nil || !name.IsName {
			continue
		}
		semi := t.Next()
		if semi == nil || semi.Str != ";" {
			continue
		}
		// distinguish pre-increment "++a;" (already canonical): the token
		// before 'name' must not itself be the operator.
		if before := name.Prev(); before != nil && (before.Str == "++" || before.Str == "--") {
			continue
		}
		op := token.New(t.Str)
		op.File, op.Line = t.File, t.Line
		s.InsertBefore(name, op)
		s.Remove(t)
		return true
	}
	return false
}

// foldRedundantArithmetic collapses adjacent unary-sign runs: "+ +" -> "+",
// "+ -" -> "-", "- -" -> "+" (spec §4.4 "Redundant arithmetic").
func foldRedundantArithmetic(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "+" && t.Str != "-" {
			continue
		}
		n := t.Next()
		if n == nil || (n.Str != "+" && n.Str != "-") {
			continue
		}
		prev := t.Prev()
		if prev != nil && (prev.IsName || prev.IsNumber || prev.Str == ")" || prev.Str == "]") {
			continue // binary operator, not a unary-sign run
		}
		result := "+"
		if t.Str != n.Str {
			result = "-"
		}
		merged := token.New(result)
		merged.File, merged.Line = t.File, t.Line
		s.InsertBefore(t, merged)
		s.Remove(t)
		s.Remove(n)
		return true
	}
	return false
}

// splitCommaOperator splits a top-level "a, b;" statement into "a; b;"
// when the comma is not nested inside a call, template, or array
// initializer (spec §4.4 "Comma-operator splitting").
func splitCommaOperator(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "," {
			continue
		}
		if inBracketedContext(t) {
			continue
		}
		if !startsStatementToLeft(t) {
			continue
		}
		if !endsBeforeSemicolon(t) {
			continue
		}
		semi := token.New(";")
		semi.File, semi.Line = t.File, t.Line
		s.InsertBefore(t, semi)
		s.Remove(t)
		return true
	}
	return false
}

// inBracketedContext reports whether tok sits inside an unclosed
// "(" / "[" / "<" run within the current statement, i.e. a call's
// argument list, an array initializer, or a template argument list.
func inBracketedContext(tok *token.Token) bool {
	depth := 0
	for t := tok.Prev(); t != nil; t = t.Prev() {
		switch t.Str {
		case ")", "]", ">":
			depth++
		case "(", "[", "<":
			if depth == 0 {
				return true
			}
			depth--
		case ";", "{", "}":
			return false
		}
	}
	return false
}

func startsStatementToLeft(tok *token.Token) bool {
	for t := tok.Prev(); t != nil; t = t.Prev() {
		switch t.Str {
		case ";", "{", "}":
			return true
		}
	}
	return true
}

func endsBeforeSemicolon(tok *token.Token) bool {
	depth := 0
	for t := tok.Next(); t != nil; t = t.Next() {
		switch t.Str {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case ";":
			if depth == 0 {
				return true
			}
		case "{", "}":
			return false
		}
	}
	return false
}

// flattenElseIf rewrites "else if (...)" into "else { if (...) ... }" to
// normalize nesting (spec §4.4 "else if").
func flattenElseIf(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "else" {
			continue
		}
		nxt := t.Next()
		if nxt == nil || nxt.Str != "if" {
			continue
		}
		open := token.New("{")
		open.File, open.Line = t.File, t.Line
		s.InsertAfter(t, open)

		ifEnd := ifStatementEnd(nxt)
		if ifEnd == nil {
			s.Remove(open)
			continue
		}
		close := token.New("}")
		close.File, close.Line = ifEnd.File, ifEnd.Line
		open.Link = close
		close.Link = open
		s.InsertAfter(ifEnd, close)
		return true
	}
	return false
}

// ifStatementEnd returns the last token of a full "if (...) S [else T]"
// statement starting at the "if" keyword.
func ifStatementEnd(ifKw *token.Token) *token.Token {
	open := ifKw.Next()
	if open == nil || open.Str != "(" || open.Link == nil {
		return nil
	}
	thenStart := open.Link.Next()
	end := blockEnd(thenStart)
	if end == nil {
		return nil
	}
	if n := end.Next(); n != nil && n.Str == "else" {
		elseEnd := blockEnd(n.Next())
		if elseEnd != nil {
			return elseEnd
		}
	}
	return end
}

// flattenNamespace strips "namespace N { ... }" down to its body, with no
// name mangling (spec §4.4 "Namespace flattening").
func flattenNamespace(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "namespace" {
			continue
		}
		name := t.Next()
		open := name
		if open != nil && open.Str != "{" {
			open = open.Next()
		}
		if open == nil || open.Str != "{" || open.Link == nil {
			continue
		}
		close := open.Link
		s.RemoveRange(t, open)
		s.Remove(close)
		return true
	}
	return false
}

// lowerArrayDeclOnBraces rewrites "char str[] = "abc";" into
// "char *str; str = "abc";" (spec §4.4 "Array decls on braces/init").
func lowerArrayDeclOnBraces(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if !t.IsName || !t.IsStdType {
			continue
		}
		nameTok := t.Next()
		if nameTok == nil || !nameTok.IsName {
			continue
		}
		open := nameTok.Next()
		if open == nil || open.Str != "[" || open.Link == nil {
			continue
		}
		close := open.Link
		if open.Next() != close {
			continue // sized array decl, not the empty-bracket inference form
		}
		eq := close.Next()
		if eq == nil || eq.Str != "=" {
			continue
		}
		star := token.New("*")
		star.File, star.Line = nameTok.File, nameTok.Line
		s.InsertBefore(nameTok, star)
		s.RemoveRange(open, close)

		semi := token.New(";")
		semi.File, semi.Line = nameTok.File, nameTok.Line
		assignName := token.New(nameTok.Str)
		assignName.IsName = true
		assignName.VarID = nameTok.VarID
		s.InsertAfter(nameTok, semi)
		s.InsertAfter(semi, assignName)
		return true
	}
	return false
}
