package tokenizer

import "github.com/gscacco/cppcheck/token"

// functionTable indexes function-name -> defining name-token, built after
// bracket linking so the "(...)... {" shape can be recognized reliably
// (spec §3 "Function table").
type functionTable struct {
	byName map[string]*token.Token
}

func buildFunctionTable(s *token.Stream) *functionTable {
	ft := &functionTable{byName: make(map[string]*token.Token)}
	for t := s.Front(); t != nil; t = t.Next() {
		if !t.IsName || controlKeywords[t.Str] {
			continue
		}
		open := t.Next()
		if open == nil || open.Str != "(" || open.Link == nil {
			continue
		}
		closeParen := open.Link
		body := closeParen.Next()
		// skip a trailing "const" qualifier before the body brace.
		if body != nil && body.Str == "const" {
			body = body.Next()
		}
		if body == nil || body.Str != "{" {
			continue
		}
		ft.byName[t.Str] = t
	}
	return ft
}

func (ft *functionTable) find(name string) *token.Token {
	return ft.byName[name]
}
