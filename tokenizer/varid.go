package tokenizer

import "github.com/gscacco/cppcheck/token"

// controlKeywords are name tokens that must never be mistaken for a type
// in declaration detection, even though the pattern matcher's %type% step
// (spec §4.2) accepts any non-"delete" name token. Declaration detection
// is stricter than the generic pattern DSL on purpose: it is the one place
// a false positive would corrupt every downstream variable-ID lookup.
var controlKeywords = map[string]bool{
	"if": true, "else": true, "while": true, "for": true, "do": true,
	"switch": true, "case": true, "default": true, "break": true, "continue": true,
	"return": true, "goto": true, "sizeof": true, "new": true, "delete": true,
	"throw": true, "try": true, "catch": true, "typedef": true, "using": true,
	"namespace": true, "class": true, "struct": true, "enum": true, "union": true,
	"public": true, "private": true, "protected": true, "static": true, "const": true,
	"virtual": true, "template": true, "operator": true, "this": true,
	"true": true, "false": true, "NULL": true, "nullptr": true, "friend": true,
	"inline": true, "explicit": true, "extern": true, "volatile": true, "typename": true,
}

// followsDecl reports whether the token after a candidate variable name
// token is consistent with a declaration site (spec §4.3: "type-spec var;"
// / "type-spec *var;" / "type-spec var = ...").
func followsDecl(after *token.Token) bool {
	if after == nil {
		return false
	}
	switch after.Str {
	case ";", "=", ",", ")", "[":
		return true
	default:
		return false
	}
}

// declTypeStart walks backwards from a candidate %var% token over any
// '*' pointer markers to the type-name token that would precede it in a
// declaration, or nil if the shape does not match.
func declTypeStart(varTok *token.Token) *token.Token {
	p := varTok.Prev()
	for p != nil && p.Str == "*" {
		p = p.Prev()
	}
	if p == nil || !p.IsName || controlKeywords[p.Str] {
		return nil
	}
	return p
}

// isDeclarationSite reports whether tok is the declared-name position of a
// local/parameter/field declaration.
func isDeclarationSite(tok *token.Token) bool {
	if !tok.IsName || controlKeywords[tok.Str] {
		return false
	}
	if declTypeStart(tok) == nil {
		return false
	}
	return followsDecl(tok.Next())
}

// varidScope is one lexical scope frame: declared names visible until the
// frame is popped.
type varidScope struct {
	names map[string]int
}

// assignVariableIDs walks the stream's scopes and stamps VarID on every
// declaration site and every later occurrence of that name within the
// same scope (spec §4.3, §3 "Variable identity").
//
// Params of a function share the frame opened by the function's body
// brace, so a parameter name is visible through the whole function body
// exactly like spec §4.3 requires, without needing a second frame.
func assignVariableIDs(s *token.Stream) {
	var scopes []*varidScope
	nextID := 1

	push := func() { scopes = append(scopes, &varidScope{names: make(map[string]int)}) }
	pop := func() {
		if len(scopes) > 0 {
			scopes = scopes[:len(scopes)-1]
		}
	}
	declare := func(name string) int {
		id := nextID
		nextID++
		if len(scopes) == 0 {
			push()
		}
		scopes[len(scopes)-1].names[name] = id
		return id
	}
	resolve := func(name string) (int, bool) {
		for i := len(scopes) - 1; i >= 0; i-- {
			if id, ok := scopes[i].names[name]; ok {
				return id, true
			}
		}
		return 0, false
	}

	push() // file scope

	for t := s.Front(); t != nil; t = t.Next() {
		switch t.Str {
		case "{":
			push()
			assignParamIDs(t, declare)
		case "}":
			pop()
		default:
			if !t.IsName {
				continue
			}
			if isDeclarationSite(t) {
				t.VarID = declare(t.Str)
				continue
			}
			if id, ok := resolve(t.Str); ok {
				t.VarID = id
			}
		}
	}
}

// assignParamIDs declares the parameters of a function whose body brace is
// open. open.Prev() must be the ")" that closes the parameter list, whose
// Link is the matching "(".
func assignParamIDs(open *token.Token, declare func(string) int) {
	closeParen := open.Prev()
	if closeParen == nil || closeParen.Str != ")" || closeParen.Link == nil {
		return
	}
	openParen := closeParen.Link
	for t := openParen.Next(); t != nil && t != closeParen; t = t.Next() {
		if !t.IsName || controlKeywords[t.Str] {
			continue
		}
		nxt := t.Next()
		if nxt == nil {
			continue
		}
		if (nxt.Str == "," || nxt.Str == ")") && declTypeStart(t) != nil {
			t.VarID = declare(t.Str)
		}
	}
}
