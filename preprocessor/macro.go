package preprocessor

import "strings"

// macroDef is one #define, object-like or function-like (spec §4.1
// "Macro expansion").
type macroDef struct {
	name     string
	params   []string // nil for object-like macros
	variadic bool
	body     string
}

// macroTable tracks #define/#undef directives as they're encountered
// walking the document top to bottom, in line order, ignoring conditional
// structure: a #define inside an untaken branch still isn't expanded
// outside it in real cppcheck because the branch re-scan happens per
// configuration, but this implementation expands macros once, before
// configuration enumeration, using only macros defined at or before each
// line textually (SPEC_FULL.md §6, consistent with spec's choice to not
// unify preprocessing across configurations beyond #if/#ifdef).
type macroTable struct {
	defs map[string]macroDef
}

func newMacroTable() *macroTable {
	return &macroTable{defs: map[string]macroDef{}}
}

// expandMacros scans lines for #define/#undef directives and performs a
// single forward, non-recursive substitution pass over the remaining
// plain lines (spec §4.1 "one substitution pass; it does not re-scan its
// own output"). #define/#undef lines themselves are blanked, preserving
// line count.
func expandMacros(lines []string) []string {
	table := newMacroTable()
	out := make([]string, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			directive := strings.TrimSpace(trimmed[1:])
			switch {
			case hasDirectivePrefix(directive, "define"):
				if def, ok := parseDefine(strings.TrimSpace(strings.TrimPrefix(directive, "define"))); ok {
					table.defs[def.name] = def
				}
				out[i] = ""
				continue
			case hasDirectivePrefix(directive, "undef"):
				name := strings.TrimSpace(strings.TrimPrefix(directive, "undef"))
				delete(table.defs, name)
				out[i] = ""
				continue
			}
		}
		out[i] = table.substitute(line)
	}
	return out
}

// parseDefine parses the text following "#define " into a macroDef.
func parseDefine(rest string) (macroDef, bool) {
	if rest == "" {
		return macroDef{}, false
	}
	i := 0
	n := len(rest)
	for i < n && isIdentByte(rest[i]) {
		i++
	}
	if i == 0 {
		return macroDef{}, false
	}
	name := rest[:i]

	if i < n && rest[i] == '(' {
		close := strings.IndexByte(rest[i:], ')')
		if close < 0 {
			return macroDef{}, false
		}
		close += i
		paramList := rest[i+1 : close]
		var params []string
		variadic := false
		for _, p := range strings.Split(paramList, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if p == "..." {
				variadic = true
				continue
			}
			params = append(params, p)
		}
		body := strings.TrimSpace(rest[close+1:])
		return macroDef{name: name, params: params, variadic: variadic, body: body}, true
	}

	body := strings.TrimSpace(rest[i:])
	return macroDef{name: name, body: body}, true
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// substitute performs one non-recursive pass of macro replacement over
// line, matching object-like macros verbatim and function-like macros
// with a parenthesized, comma-split argument list (spec §4.1 "Arity must
// match exactly unless the macro is variadic").
func (t *macroTable) substitute(line string) string {
	var b strings.Builder
	i := 0
	n := len(line)
	for i < n {
		c := line[i]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			b.WriteByte(c)
			i++
			continue
		}
		start := i
		for i < n && isIdentByte(line[i]) {
			i++
		}
		name := line[start:i]
		def, ok := t.defs[name]
		if !ok {
			b.WriteString(name)
			continue
		}
		if def.params == nil && !def.variadic {
			b.WriteString(def.body)
			continue
		}
		// function-like: require a following '(' with matching arity.
		j := i
		for j < n && (line[j] == ' ' || line[j] == '\t') {
			j++
		}
		if j >= n || line[j] != '(' {
			b.WriteString(name)
			continue
		}
		args, endIdx, ok := splitArgs(line, j)
		if !ok {
			b.WriteString(name)
			continue
		}
		if !def.variadic && len(args) != len(def.params) {
			b.WriteString(name)
			continue
		}
		b.WriteString(expandBody(def, args))
		i = endIdx
	}
	return b.String()
}

// splitArgs parses a parenthesized, comma-separated argument list starting
// at openIdx (which must index a '('), honoring nested parens. It returns
// the trimmed arguments, the index just past the closing ')', and whether
// the parens were balanced.
func splitArgs(line string, openIdx int) ([]string, int, bool) {
	depth := 0
	var args []string
	start := openIdx + 1
	i := openIdx
	n := len(line)
	for i < n {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				args = append(args, strings.TrimSpace(line[start:i]))
				return args, i + 1, true
			}
		case ',':
			if depth == 1 {
				args = append(args, strings.TrimSpace(line[start:i]))
				start = i + 1
			}
		}
		i++
	}
	return nil, 0, false
}

// expandBody substitutes params in def.body with the corresponding args by
// simple identifier replacement (no stringize/token-paste operators;
// SPEC_FULL.md treats # and ## as out of scope for the textual pass).
func expandBody(def macroDef, args []string) string {
	bind := map[string]string{}
	for i, p := range def.params {
		if i < len(args) {
			bind[p] = args[i]
		}
	}
	if def.variadic {
		extra := ""
		if len(args) > len(def.params) {
			extra = strings.Join(args[len(def.params):], ",")
		}
		bind["__VA_ARGS__"] = extra
	}

	var b strings.Builder
	body := def.body
	i := 0
	n := len(body)
	for i < n {
		c := body[i]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			b.WriteByte(c)
			i++
			continue
		}
		start := i
		for i < n && isIdentByte(body[i]) {
			i++
		}
		word := body[start:i]
		if v, ok := bind[word]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(word)
		}
	}
	return b.String()
}
