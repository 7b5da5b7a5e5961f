package tokenizer

import (
	"fmt"

	"github.com/gscacco/cppcheck/token"
)

var bracketPartner = map[string]string{
	"(": ")", "{": "}", "[": "]",
}

// linkBrackets establishes the Link bijection required by spec §3 and
// §4.2: every '(' '{' '[' token's Link points at its partner and vice
// versa. An unmatched bracket is a fatal tokenizer error (spec §7).
func linkBrackets(s *token.Stream) error {
	var stack []*token.Token
	for t := s.Front(); t != nil; t = t.Next() {
		switch t.Str {
		case "(", "{", "[":
			stack = append(stack, t)
		case ")", "}", "]":
			if len(stack) == 0 {
				return fmt.Errorf("tokenizer: unmatched %q at %d:%d", t.Str, t.File, t.Line)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if bracketPartner[open.Str] != t.Str {
				return fmt.Errorf("tokenizer: mismatched %q closed by %q at %d:%d", open.Str, t.Str, t.File, t.Line)
			}
			open.Link = t
			t.Link = open
		}
	}
	if len(stack) != 0 {
		top := stack[len(stack)-1]
		return fmt.Errorf("tokenizer: unmatched %q at %d:%d", top.Str, top.File, top.Line)
	}
	return nil
}
