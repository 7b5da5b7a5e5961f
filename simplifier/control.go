package simplifier

import "github.com/gscacco/cppcheck/token"

// hoistAssignInCondition rewrites "if (a = b)" to "a = b; if (a)" and
// "while (a = b) S" to "a = b; while (a) { S; a = b; }" (spec §4.4
// "Assignment-in-condition hoisting").
func hoistAssignInCondition(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "if" && t.Str != "while" {
			continue
		}
		open := t.Next()
		if open == nil || open.Str != "(" || open.Link == nil {
			continue
		}
		closeParen := open.Link
		lhs := open.Next()
		if lhs == nil || !lhs.IsName {
			continue
		}
		eq := lhs.Next()
		if eq == nil || eq.Str != "=" {
			continue
		}
		rhsEnd := eq.Next()
		if rhsEnd == nil || rhsEnd.Next() != closeParen {
			continue // only a single-token rhs is hoisted
		}

		kwIsWhile := t.Str == "while"

		// assignment statement before the keyword: "a = b ;"
		assignLHS := token.New(lhs.Str)
		assignLHS.IsName, assignLHS.VarID = true, lhs.VarID
		assignEq := token.New("=")
		assignRHS := token.New(rhsEnd.Str)
		assignRHS.IsName, assignRHS.IsNumber = rhsEnd.IsName, rhsEnd.IsNumber
		assignRHS.VarID = rhsEnd.VarID
		semi := token.New(";")
		for _, nt := range []*token.Token{assignLHS, assignEq, assignRHS, semi} {
			nt.File, nt.Line = t.File, t.Line
		}
		s.InsertBefore(t, assignLHS)
		s.InsertAfter(assignLHS, assignEq)
		s.InsertAfter(assignEq, assignRHS)
		s.InsertAfter(assignRHS, semi)

		// condition becomes the bare lhs name.
		s.RemoveRange(lhs, rhsEnd)
		bareCond := token.New(lhs.Str)
		bareCond.IsName, bareCond.VarID = true, lhs.VarID
		bareCond.File, bareCond.Line = t.File, t.Line
		s.InsertAfter(open, bareCond)

		if kwIsWhile {
			thenStart := closeParen.Next()
			end := blockEnd(thenStart)
			if end != nil {
				wrapIfBare(s, thenStart, end)
				bodyOpen := thenStart
				if bodyOpen.Str != "{" {
					bodyOpen = thenStart.Prev() // the brace wrapIfBare inserted
				}
				bodyClose := bodyOpen.Link
				reassignLHS := token.New(lhs.Str)
				reassignEq := token.New("=")
				reassignRHS := token.New(rhsEnd.Str)
				reassignLHS.IsName, reassignLHS.VarID = true, lhs.VarID
				reassignRHS.IsName, reassignRHS.IsNumber = rhsEnd.IsName, rhsEnd.IsNumber
				reassignRHS.VarID = rhsEnd.VarID
				reassignSemi := token.New(";")
				for _, nt := range []*token.Token{reassignLHS, reassignEq, reassignRHS, reassignSemi} {
					nt.File, nt.Line = t.File, t.Line
				}
				s.InsertBefore(bodyClose, reassignLHS)
				s.InsertAfter(reassignLHS, reassignEq)
				s.InsertAfter(reassignEq, reassignRHS)
				s.InsertAfter(reassignRHS, reassignSemi)
			}
		}
		return true
	}
	return false
}

// caseHasBareBreak reports whether a case body (from just after ':' to
// the next "case"/"default"/closing "}") ends in a top-level "break ;"
// with no nested switch/loop break ambiguity (SPEC_FULL.md §6 "Switch-to-if
// rewrite" open question: the conservative resolution).
func caseHasBareBreak(start, end *token.Token) bool {
	depth := 0
	for t := start; t != nil && t != end; t = t.Next() {
		switch t.Str {
		case "switch", "for", "while", "do":
			depth++
		case "}":
			if depth > 0 {
				depth--
			}
		}
	}
	last := end.Prev()
	return last != nil && last.Str == "break" && depth == 0
}

// switchToIf rewrites a fallthrough-free "switch { case A: ... break; case
// B: ... break; default: ... }" into an if/else-if/else chain (spec §4.4
// "Switch-to-if", open question in spec §9 resolved conservatively).
func switchToIf(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "switch" {
			continue
		}
		open := t.Next()
		if open == nil || open.Str != "(" || open.Link == nil {
			continue
		}
		subject := open.Next()
		if subject == nil || subject.Next() != open.Link {
			continue // only a single-token switch subject is rewritten
		}
		body := open.Link.Next()
		if body == nil || body.Str != "{" || body.Link == nil {
			continue
		}
		bodyEnd := body.Link

		type clause struct {
			isDefault  bool
			value      *token.Token
			stmtsStart *token.Token
			stmtsEnd   *token.Token // exclusive of the "break"
		}
		var clauses []clause
		ok := true
		for c := body.Next(); c != nil && c != bodyEnd; {
			switch c.Str {
			case "case":
				val := c.Next()
				colon := val.Next()
				if val == nil || colon == nil || colon.Str != ":" {
					ok = false
				}
				stmtsStart := colon.Next()
				next := nextCaseOrDefaultOrEnd(stmtsStart, bodyEnd)
				if !caseHasBareBreak(stmtsStart, next) {
					ok = false
				}
				if ok {
					clauses = append(clauses, clause{value: val, stmtsStart: stmtsStart, stmtsEnd: next.Prev()})
				}
				c = next
			case "default":
				colon := c.Next()
				if colon == nil || colon.Str != ":" {
					ok = false
					c = bodyEnd
					continue
				}
				stmtsStart := colon.Next()
				next := nextCaseOrDefaultOrEnd(stmtsStart, bodyEnd)
				stmtsEnd := next
				if stmtsEnd != bodyEnd && caseHasBareBreak(stmtsStart, next) {
					stmtsEnd = next.Prev()
				}
				clauses = append(clauses, clause{isDefault: true, stmtsStart: stmtsStart, stmtsEnd: stmtsEnd})
				c = next
			default:
				ok = false
				c = bodyEnd
			}
			if !ok {
				break
			}
		}
		if !ok || len(clauses) == 0 {
			continue
		}

		newOpen := token.New("{")
		newOpen.File, newOpen.Line = t.File, t.Line
		s.InsertBefore(t, newOpen)
		prevClose := newOpen
		for i, cl := range clauses {
			if cl.isDefault {
				elseKw := token.New("else")
				elseKw.File, elseKw.Line = t.File, t.Line
				s.InsertAfter(prevClose, elseKw)
				prevClose = elseKw
				continue
			}
			kw := "if"
			if i > 0 {
				kw = "else if"
			}
			for _, w := range splitWords(kw) {
				nt := token.New(w)
				nt.File, nt.Line = t.File, t.Line
				s.InsertAfter(prevClose, nt)
				prevClose = nt
			}
			openP := token.New("(")
			eqeq := token.New("==")
			subj2 := token.New(subject.Str)
			subj2.IsName, subj2.VarID = subject.IsName, subject.VarID
			val2 := token.New(cl.value.Str)
			val2.IsNumber = cl.value.IsNumber
			closeP := token.New(")")
			openP.Link, closeP.Link = closeP, openP
			for _, nt := range []*token.Token{openP, subj2, eqeq, val2, closeP} {
				nt.File, nt.Line = t.File, t.Line
				s.InsertAfter(prevClose, nt)
				prevClose = nt
			}
		}
		for _, cl := range clauses {
			if cl.stmtsStart == cl.stmtsEnd && cl.stmtsStart.Str == "}" {
				continue
			}
			braceOpen := token.New("{")
			braceOpen.File, braceOpen.Line = cl.stmtsStart.File, cl.stmtsStart.Line
			s.InsertBefore(cl.stmtsStart, braceOpen)
		}
		s.InsertAfter(prevClose, token.New("}"))

		s.RemoveRange(t, body)
		for c := body.Next(); c != bodyEnd; {
			nxt := c.Next()
			if c.Str == "break" {
				if semi := c.Next(); semi != nil && semi.Str == ";" {
					s.Remove(semi)
				}
				s.Remove(c)
			}
			c = nxt
		}
		s.Remove(bodyEnd)
		return true
	}
	return false
}

func nextCaseOrDefaultOrEnd(start, end *token.Token) *token.Token {
	depth := 0
	for t := start; t != nil && t != end; t = t.Next() {
		switch t.Str {
		case "switch":
			depth++
		case "}":
			if depth > 0 {
				depth--
			}
		case "case", "default":
			if depth == 0 {
				return t
			}
		}
	}
	return end
}

func splitWords(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
