package preprocessor

import (
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// requirement is one "defined(X)" / "!defined(X)" term of a presence
// condition.
type requirement struct {
	macro string
	want  bool
}

// presenceTerms parses a condition string as a conjunction of
// defined(X)/!defined(X) terms (spec §4.1: "#if defined(X)" normalizes to
// "#ifdef X"; this generalizes that to "&&"-joined conjunctions of such
// terms, which is what #ifdef/#ifndef normalize to above). ok is false if
// any term isn't a defined()-style test, in which case the whole chain
// falls back to deterministic evaluation (SPEC_FULL.md §6).
func presenceTerms(cond string) (reqs []requirement, ok bool) {
	terms := strings.Split(cond, "&&")
	for _, term := range terms {
		term = strings.TrimSpace(term)
		want := true
		if strings.HasPrefix(term, "!") {
			want = false
			term = strings.TrimSpace(term[1:])
		}
		if !strings.HasPrefix(term, "defined(") || !strings.HasSuffix(term, ")") {
			return nil, false
		}
		name := strings.TrimSpace(term[len("defined(") : len(term)-1])
		if name == "" {
			return nil, false
		}
		reqs = append(reqs, requirement{macro: name, want: want})
	}
	if len(reqs) == 0 {
		return nil, false
	}
	return reqs, true
}

// isPresenceChain reports whether every non-else branch of chain is a
// presence condition, and returns the parsed requirements per branch.
func isPresenceChain(chain *condChain) ([][]requirement, bool) {
	var all [][]requirement
	for _, br := range chain.branches {
		if br.isElse {
			continue
		}
		reqs, ok := presenceTerms(br.expr)
		if !ok {
			return nil, false
		}
		all = append(all, reqs)
	}
	return all, true
}

// evalDeterministic evaluates a non-presence condition (arithmetic,
// "defined(X) || Y > 2", bare macro reference, etc.) against the set of
// predefined macro values using expr-lang, which is built for exactly this
// kind of small boolean/arithmetic expression (SPEC_FULL.md §3). Any macro
// name not in predefined evaluates to 0, matching C's "undefined macro ==
// 0 in #if" rule.
func evalDeterministic(cond string, predefined map[string]string) bool {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return false
	}
	if cond == "1" {
		return true
	}
	if cond == "0" {
		return false
	}

	env := map[string]interface{}{
		"defined": func(name string) bool {
			_, ok := predefined[name]
			return ok
		},
	}
	for _, id := range identifiers(cond) {
		if id == "defined" {
			continue
		}
		env[id] = macroIntValue(predefined, id)
	}

	// quoteDefinedArgs turns "defined(FOO)" into "defined(\"FOO\")" so
	// expr-lang passes the macro's literal name to the defined() env
	// function instead of resolving FOO as a (otherwise unrelated) bound
	// variable.
	cond = quoteDefinedArgs(cond)

	program, err := expr.Compile(cond, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return false
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	switch v := out.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}

// quoteDefinedArgs rewrites every "defined(NAME)" call in cond to
// "defined(\"NAME\")", leaving everything else untouched.
func quoteDefinedArgs(cond string) string {
	var b strings.Builder
	i := 0
	n := len(cond)
	for i < n {
		if strings.HasPrefix(cond[i:], "defined(") {
			start := i + len("defined(")
			close := strings.IndexByte(cond[start:], ')')
			if close < 0 {
				b.WriteString(cond[i:])
				break
			}
			name := strings.TrimSpace(cond[start : start+close])
			b.WriteString("defined(\"")
			b.WriteString(name)
			b.WriteString("\")")
			i = start + close + 1
			continue
		}
		b.WriteByte(cond[i])
		i++
	}
	return b.String()
}

func macroIntValue(predefined map[string]string, name string) int {
	v, ok := predefined[name]
	if !ok {
		return 0
	}
	if v == "" {
		return 1
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return n
	}
	return 1
}

// identifiers extracts C-identifier-shaped words from an expression,
// skipping the "defined" keyword call itself is handled by the caller.
func identifiers(expr string) []string {
	var ids []string
	i := 0
	n := len(expr)
	for i < n {
		c := expr[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			start := i
			for i < n {
				c = expr[i]
				if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
					i++
					continue
				}
				break
			}
			ids = append(ids, expr[start:i])
			continue
		}
		i++
	}
	return ids
}
