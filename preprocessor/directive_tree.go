package preprocessor

import "strings"

// item is one element of a parsed document: either a plain (non-directive)
// source line, or a conditional chain.
type item struct {
	plain  bool
	lineNo int    // 1-indexed, for plain items
	text   string // for plain items: the line text (may hold a #define/#include/#undef directive)

	chain *condChain // for non-plain items
}

// condBranch is one "#if"/"#elif"/"#else" arm of a chain.
type condBranch struct {
	lineNo  int // the directive line itself (becomes blank in every outcome)
	isElse  bool
	expr    string // raw condition text, empty for else
	body    []item
}

// condChain is a full #if...#elif...#else...#endif group, including the
// #endif line number so it can be blanked too.
type condChain struct {
	branches  []condBranch
	endifLine int
}

// parseDocument turns the comment-stripped, continuation-joined lines into
// a flat top-level item list, recursively nesting conditional chains.
func parseDocument(lines []string) []item {
	items, _ := parseBlock(lines, 0)
	return items
}

// parseBlock parses items starting at index start (0-indexed into lines)
// until it hits a line belonging to an enclosing chain (#elif/#else/#endif)
// or runs out of input. It returns the parsed items and the index of the
// terminating line (or len(lines) if none).
func parseBlock(lines []string, start int) ([]item, int) {
	var items []item
	i := start
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "#") {
			directive := strings.TrimSpace(trimmed[1:])
			switch {
			case hasDirectivePrefix(directive, "elif"), directive == "else", hasDirectivePrefix(directive, "endif"):
				return items, i
			case hasDirectivePrefix(directive, "if"), hasDirectivePrefix(directive, "ifdef"), hasDirectivePrefix(directive, "ifndef"):
				chain, next := parseChain(lines, i)
				items = append(items, item{chain: chain})
				i = next
				continue
			}
		}
		items = append(items, item{plain: true, lineNo: i + 1, text: lines[i]})
		i++
	}
	return items, i
}

func hasDirectivePrefix(directive, name string) bool {
	if !strings.HasPrefix(directive, name) {
		return false
	}
	rest := directive[len(name):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '('
}

// parseChain parses one #if.../#endif group starting at line index start
// (which must be an #if/#ifdef/#ifndef line), returning the chain and the
// index right after the #endif line.
func parseChain(lines []string, start int) (*condChain, int) {
	chain := &condChain{}
	i := start
	trimmed := strings.TrimSpace(lines[i])
	directive := strings.TrimSpace(trimmed[1:])
	expr := normalizeCondition(directive)
	i++
	body, next := parseBlock(lines, i)
	chain.branches = append(chain.branches, condBranch{lineNo: start + 1, expr: expr, body: body})
	i = next

	for i < len(lines) {
		trimmed = strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "#") {
			break
		}
		directive = strings.TrimSpace(trimmed[1:])
		switch {
		case hasDirectivePrefix(directive, "elif"):
			expr = normalizeCondition(directive)
			lineNo := i + 1
			i++
			body, next = parseBlock(lines, i)
			chain.branches = append(chain.branches, condBranch{lineNo: lineNo, expr: expr, body: body})
			i = next
		case directive == "else":
			lineNo := i + 1
			i++
			body, next = parseBlock(lines, i)
			chain.branches = append(chain.branches, condBranch{lineNo: lineNo, isElse: true, body: body})
			i = next
		case hasDirectivePrefix(directive, "endif"):
			chain.endifLine = i + 1
			return chain, i + 1
		default:
			// malformed nesting: stop here rather than looping forever.
			chain.endifLine = i + 1
			return chain, i + 1
		}
	}
	// ran off the end without a #endif: treat as closed at EOF (fatal
	// condition is reported by the caller, which knows the file name).
	chain.endifLine = len(lines)
	return chain, len(lines)
}

// normalizeCondition strips the leading directive keyword ("if ", "ifdef
// ", "ifndef ") from a directive body and canonicalizes ifdef/ifndef into
// defined()/!defined() form so every branch downstream can be examined
// uniformly (spec §4.1 normalization bullets).
func normalizeCondition(directive string) string {
	switch {
	case hasDirectivePrefix(directive, "ifdef"):
		name := strings.TrimSpace(strings.TrimPrefix(directive, "ifdef"))
		return "defined(" + name + ")"
	case hasDirectivePrefix(directive, "ifndef"):
		name := strings.TrimSpace(strings.TrimPrefix(directive, "ifndef"))
		return "!defined(" + name + ")"
	case hasDirectivePrefix(directive, "elif"):
		return strings.TrimSpace(strings.TrimPrefix(directive, "elif"))
	case hasDirectivePrefix(directive, "if"):
		return strings.TrimSpace(strings.TrimPrefix(directive, "if"))
	default:
		return strings.TrimSpace(directive)
	}
}
