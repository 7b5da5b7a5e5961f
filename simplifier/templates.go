package simplifier

import "github.com/gscacco/cppcheck/token"

// expandTemplates clones a "template <params> decl" once per distinct
// "Name<args>" use-site found elsewhere in the stream, substituting params
// with args textually, and rewrites the use-site to the clone's name. One
// level only -- nested generic parameters are not resolved (spec §4.4
// "Template expansion").
func expandTemplates(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "template" {
			continue
		}
		angleOpen := t.Next()
		if angleOpen == nil || angleOpen.Str != "<" {
			continue
		}
		params, angleClose := collectUntilMatchingAngle(angleOpen)
		if angleClose == nil {
			continue
		}
		declStart := angleClose.Next()
		name := findTemplateDeclName(declStart)
		if name == nil {
			continue
		}
		declEnd := declEndOf(declStart)
		if declEnd == nil {
			continue
		}

		use := findTemplateUse(declEnd.Next(), name.Str)
		if use == nil {
			continue
		}
		useAngleOpen := use.Next()
		args, useAngleClose := collectUntilMatchingAngle(useAngleOpen)
		if useAngleClose == nil || len(args) != len(params) {
			continue
		}

		cloneName := name.Str + "_" + args[0]
		subst := make(map[string]string, len(params))
		for i, p := range params {
			subst[p] = args[i]
		}

		clone := cloneRange(declStart, declEnd, subst, cloneName, name.Str)
		last := declEnd
		for _, ct := range clone {
			s.InsertAfter(last, ct)
			last = ct
		}

		rewriteUse := token.New(cloneName)
		rewriteUse.IsName = true
		rewriteUse.File, rewriteUse.Line = use.File, use.Line
		s.InsertBefore(use, rewriteUse)
		s.RemoveRange(use, useAngleClose)

		return true
	}
	return false
}

func collectUntilMatchingAngle(open *token.Token) (parts []string, closeTok *token.Token) {
	depth := 1
	for t := open.Next(); t != nil; t = t.Next() {
		switch t.Str {
		case "<":
			depth++
		case ">":
			depth--
			if depth == 0 {
				return parts, t
			}
		case ",":
			// separator between parts at depth 1
		default:
			if depth == 1 {
				parts = append(parts, t.Str)
			}
		}
	}
	return parts, nil
}

// findTemplateDeclName finds the declared name following "template <...>":
// the first name token before a "(" parameter list or "{" body.
func findTemplateDeclName(start *token.Token) *token.Token {
	for t := start; t != nil; t = t.Next() {
		if t.IsName {
			if n := t.Next(); n != nil && (n.Str == "(" || n.Str == "{") {
				return t
			}
		}
		if t.Str == ";" {
			return nil
		}
	}
	return nil
}

func declEndOf(start *token.Token) *token.Token {
	for t := start; t != nil; t = t.Next() {
		if t.Str == "{" && t.Link != nil {
			return t.Link
		}
		if t.Str == ";" {
			return t
		}
	}
	return nil
}

func findTemplateUse(start *token.Token, name string) *token.Token {
	for t := start; t != nil; t = t.Next() {
		if t.Str == name && t.IsName {
			if n := t.Next(); n != nil && n.Str == "<" {
				return t
			}
		}
	}
	return nil
}

// cloneRange textually clones tokens from start through end inclusive,
// renaming the declared name to cloneName and substituting any occurrence
// of a template parameter word with its argument.
func cloneRange(start, end *token.Token, subst map[string]string, cloneName, origName string) []*token.Token {
	var out []*token.Token
	for t := start; t != nil; t = t.Next() {
		str := t.Str
		switch {
		case str == origName:
			str = cloneName
		default:
			if repl, ok := subst[str]; ok {
				str = repl
			}
		}
		nt := token.New(str)
		nt.IsName, nt.IsNumber, nt.IsString, nt.IsStdType = t.IsName, t.IsNumber, t.IsString, t.IsStdType
		nt.File, nt.Line = t.File, t.Line
		out = append(out, nt)
		if t == end {
			break
		}
	}
	// re-link braces/parens within the clone.
	var stack []*token.Token
	for _, t := range out {
		switch t.Str {
		case "(", "{", "[":
			stack = append(stack, t)
		case ")", "}", "]":
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				open.Link = t
				t.Link = open
			}
		}
	}
	return out
}
