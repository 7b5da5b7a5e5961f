package flow

// CallClassification names the possible effects of a function call on a
// variable argument (spec §4.5 "Function-call handling"). Lowering does
// not use it: spliceCall classifies a call as "dealloc" or "use" itself.
type CallClassification int

const (
	Unknown CallClassification = iota
	NoOp
	TakesOwnership
	ReturnsOwnership
)

// Reduce folds a reduced-statement stream to a fixed point, applying the
// rewrite rules of spec §4.6 repeatedly until no pass changes the stream.
// When showAll is set the aggressive relaxations in the last rule also
// apply.
func Reduce(in Stream, showAll bool) Stream {
	s := append(Stream(nil), in...)
	for {
		next, changed := reducePass(s, showAll)
		s = next
		if !changed {
			return s
		}
	}
}

func reducePass(s Stream, showAll bool) (Stream, bool) {
	changed := false

	if r, ok := rewriteRealloc(s); ok {
		return r, true
	}
	if r, ok := collapseEmptyBlocks(s); ok {
		return r, true
	}
	if r, ok := collapseSingleStatementBlocks(s); ok {
		return r, true
	}
	if r, ok := dropDeadIf(s); ok {
		return r, true
	}
	if r, ok := collapseIfNoCondElse(s); ok {
		return r, true
	}
	if r, ok := collapseIfElseSameAtom(s); ok {
		return r, true
	}
	if r, ok := dropUnreachableAfterReturn(s); ok {
		return r, true
	}
	if r, ok := collapseDuplicateIfReturn(s); ok {
		return r, true
	}
	if r, ok := dropLoopWithImmediateBreak(s); ok {
		return r, true
	}
	if r, ok := hoistAllocOutOfLoopBreak(s); ok {
		return r, true
	}
	if r, ok := collapseAllocDeallocAlloc(s); ok {
		return r, true
	}
	if r, ok := collapseDuplicateCase(s); ok {
		return r, true
	}
	if r, ok := switchToIfChain(s); ok {
		return r, true
	}
	if showAll {
		if r, ok := dropNonElseIfAlloc(s); ok {
			return r, true
		}
	}
	return s, changed
}

// rewriteRealloc has no work left to do here: rhsStatements (shared by
// matchAssignment and matchDeclarationWithInit) already emits Dealloc;Alloc for a realloc site at lowering time, so this rule
// is a no-op safeguard in case a future emitter still produces a bare
// realloc marker. Kept as its own pass per spec §4.6's listed rule.
func rewriteRealloc(s Stream) (Stream, bool) {
	return s, false
}

// isControlAttachedOpen reports whether the OpenBrace at i is a branch
// body belonging to a control keyword (if/else/loop/do/switch/try/catch).
// Those blocks are left fully braced so the dedicated if/else/switch
// rules below can still recognize their atom shape; only a freestanding
// nested "{ ... }" gets generically flattened here.
func isControlAttachedOpen(s Stream, i int) bool {
	if i == 0 {
		return false
	}
	switch s[i-1].Kind {
	case If, IfVar, IfNotVar, IfValueDependent, Else, Loop, Do, Switch, Try, Catch:
		return true
	default:
		return false
	}
}

// collapseEmptyBlocks erases "{ }" pairs with nothing between them,
// replacing them with nothing (spec §4.6 "erase empty blocks").
func collapseEmptyBlocks(s Stream) (Stream, bool) {
	for i := 0; i+1 < len(s); i++ {
		if s[i].Kind == OpenBrace && s[i+1].Kind == CloseBrace && !isControlAttachedOpen(s, i) {
			return remove(s, i, 2), true
		}
	}
	return s, false
}

// collapseSingleStatementBlocks drops the brace pair around a block
// holding exactly one statement (spec §4.6 "collapse single-statement
// blocks").
func collapseSingleStatementBlocks(s Stream) (Stream, bool) {
	for i := 0; i < len(s); i++ {
		if s[i].Kind != OpenBrace || isControlAttachedOpen(s, i) {
			continue
		}
		closeIdx := matchingClose(s, i)
		if closeIdx < 0 || closeIdx != i+2 {
			continue
		}
		out := append(Stream(nil), s[:i]...)
		out = append(out, s[i+1])
		out = append(out, s[closeIdx+1:]...)
		return out, true
	}
	return s, false
}

// matchingClose returns the index of the CloseBrace matching the
// OpenBrace at open, tracking nesting depth.
func matchingClose(s Stream, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i].Kind {
		case OpenBrace:
			depth++
		case CloseBrace:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// blockAtom returns the single reduced kind standing for a one-statement
// "{ X }" block opening at openIdx and the index of its CloseBrace; the
// bool is false if the block isn't exactly one atom.
func blockAtom(s Stream, openIdx int) (Kind, int, bool) {
	if s[openIdx].Kind != OpenBrace {
		return 0, 0, false
	}
	closeIdx := matchingClose(s, openIdx)
	if closeIdx != openIdx+2 {
		return 0, 0, false
	}
	return s[openIdx+1].Kind, closeIdx, true
}

// dropDeadIf rewrites "if X ; }" -- a condition statement with an empty
// then-block and no else -- to nothing (spec §4.6 "if X ; with no else ->
// ; (dead if)"). A then-block reduced to empty by collapseEmptyBlocks
// leaves "ifKind { }"; this rule removes that whole sequence when no
// "else" follows.
func dropDeadIf(s Stream) (Stream, bool) {
	for i := 0; i < len(s); i++ {
		if !isIfKind(s[i].Kind) {
			continue
		}
		if i+2 >= len(s) || s[i+1].Kind != OpenBrace || s[i+2].Kind != CloseBrace {
			continue
		}
		after := i + 3
		if after < len(s) && s[after].Kind == Else {
			continue
		}
		return remove(s, i, 3), true
	}
	return s, false
}

func isIfKind(k Kind) bool {
	return k == If || k == IfVar || k == IfNotVar || k == IfValueDependent
}

// collapseIfNoCondElse rewrites "if { }  else S" -- a dead-if directly
// followed by an else branch -- to just S (spec §4.6 "if ; followed by
// else S -> S").
func collapseIfNoCondElse(s Stream) (Stream, bool) {
	for i := 0; i < len(s); i++ {
		if !isIfKind(s[i].Kind) {
			continue
		}
		if i+2 >= len(s) || s[i+1].Kind != OpenBrace || s[i+2].Kind != CloseBrace {
			continue
		}
		elseIdx := i + 3
		if elseIdx >= len(s) || s[elseIdx].Kind != Else {
			continue
		}
		elseBodyOpen := elseIdx + 1
		if elseBodyOpen >= len(s) || s[elseBodyOpen].Kind != OpenBrace {
			continue
		}
		closeIdx := matchingClose(s, elseBodyOpen)
		if closeIdx < 0 {
			continue
		}
		out := append(Stream(nil), s[:i]...)
		out = append(out, s[elseBodyOpen:closeIdx+1]...)
		out = append(out, s[closeIdx+1:]...)
		return out, true
	}
	return s, false
}

// collapseIfElseSameAtom rewrites "if { X } else { X }" -- matching
// single-statement branches -- to "X ;" (spec §4.6 "if X ; else Y ; where
// X and Y are the same atom -> X ;").
func collapseIfElseSameAtom(s Stream) (Stream, bool) {
	for i := 0; i < len(s); i++ {
		if !isIfKind(s[i].Kind) {
			continue
		}
		thenKind, thenClose, ok := blockAtom(s, i+1)
		if !ok {
			continue
		}
		elseIdx := thenClose + 1
		if elseIdx >= len(s) || s[elseIdx].Kind != Else {
			continue
		}
		elseKind, elseClose, ok := blockAtom(s, elseIdx+1)
		if !ok || elseKind != thenKind {
			continue
		}
		out := append(Stream(nil), s[:i]...)
		out = append(out, s[i+2])
		out = append(out, s[elseClose+1:]...)
		return out, true
	}
	return s, false
}

// dropUnreachableAfterReturn truncates any statements following a Return,
// ReturnUse, or Exit up to the enclosing CloseBrace (spec §4.6 "return ;
// anything -> return ; (unreachable suffix)").
func dropUnreachableAfterReturn(s Stream) (Stream, bool) {
	for i := 0; i < len(s); i++ {
		if s[i].Kind != Return && s[i].Kind != ReturnUse && s[i].Kind != Exit {
			continue
		}
		j := i + 1
		for j < len(s) && s[j].Kind != CloseBrace {
			j++
		}
		if j == i+1 {
			continue
		}
		out := append(Stream(nil), s[:i+1]...)
		out = append(out, s[j:]...)
		return out, true
	}
	return s, false
}

// collapseDuplicateIfReturn rewrites two consecutive "if(...) { return }"
// statements into one (spec §4.6 "if return ; if return ; -> if return
// ;").
func collapseDuplicateIfReturn(s Stream) (Stream, bool) {
	for i := 0; i < len(s); i++ {
		if !isIfKind(s[i].Kind) {
			continue
		}
		kind1, close1, ok := blockAtom(s, i+1)
		if !ok || (kind1 != Return && kind1 != ReturnUse) {
			continue
		}
		next := close1 + 1
		if next >= len(s) || !isIfKind(s[next].Kind) {
			continue
		}
		kind2, close2, ok := blockAtom(s, next+1)
		if !ok || kind2 != kind1 {
			continue
		}
		out := append(Stream(nil), s[:next]...)
		out = append(out, s[close2+1:]...)
		return out, true
	}
	return s, false
}

// dropLoopWithImmediateBreak rewrites "loop { if(...) { break } }" to
// nothing (spec §4.6 "loop if break ; -> ;").
func dropLoopWithImmediateBreak(s Stream) (Stream, bool) {
	for i := 0; i < len(s); i++ {
		if s[i].Kind != Loop {
			continue
		}
		bodyOpen := i + 1
		if bodyOpen >= len(s) || s[bodyOpen].Kind != OpenBrace {
			continue
		}
		bodyClose := matchingClose(s, bodyOpen)
		if bodyClose < 0 {
			continue
		}
		inner := s[bodyOpen+1 : bodyClose]
		if len(inner) != 4 || !isIfKind(inner[0].Kind) || inner[1].Kind != OpenBrace ||
			inner[2].Kind != Break || inner[3].Kind != CloseBrace {
			continue
		}
		return remove(s, i, bodyClose-i+1), true
	}
	return s, false
}

// hoistAllocOutOfLoopBreak rewrites "loop { alloc ; if(...) { break } }"
// to "alloc ;" (spec §4.6 "loop { alloc ; if break ; } -> alloc ;").
func hoistAllocOutOfLoopBreak(s Stream) (Stream, bool) {
	for i := 0; i < len(s); i++ {
		if s[i].Kind != Loop {
			continue
		}
		bodyOpen := i + 1
		if bodyOpen >= len(s) || s[bodyOpen].Kind != OpenBrace {
			continue
		}
		bodyClose := matchingClose(s, bodyOpen)
		if bodyClose < 0 {
			continue
		}
		inner := s[bodyOpen+1 : bodyClose]
		if len(inner) != 5 || inner[0].Kind != Alloc || !isIfKind(inner[1].Kind) ||
			inner[2].Kind != OpenBrace || inner[3].Kind != Break || inner[4].Kind != CloseBrace {
			continue
		}
		out := append(Stream(nil), s[:i]...)
		out = append(out, inner[0])
		out = append(out, s[bodyClose+1:]...)
		return out, true
	}
	return s, false
}

// collapseAllocDeallocAlloc rewrites three consecutive statements
// "alloc ; dealloc ; alloc ;" on the same variable into "alloc ;" (spec
// §4.6 "alloc ; dealloc ; alloc ; -> alloc ;").
func collapseAllocDeallocAlloc(s Stream) (Stream, bool) {
	for i := 0; i+2 < len(s); i++ {
		a, d, b := s[i], s[i+1], s[i+2]
		if a.Kind == Alloc && d.Kind == Dealloc && b.Kind == Alloc &&
			a.VarID == d.VarID && d.VarID == b.VarID {
			return remove(s, i, 2), true
		}
	}
	return s, false
}

// collapseDuplicateCase merges two adjacent empty "case ;" labels into one
// (spec §4.6 "case ; case ; -> case ;").
func collapseDuplicateCase(s Stream) (Stream, bool) {
	for i := 0; i+1 < len(s); i++ {
		if s[i].Kind == Case && s[i+1].Kind == Case {
			return remove(s, i, 1), true
		}
	}
	return s, false
}

// switchToIfChain converts a switch whose every case/default block ends
// in an explicit break, with no Switch, Loop or Do at the body's top
// level, into an if/else-if/else chain in which a Case marker stands for
// each "if" (see buildIfChain) (spec §4.6's switch rule; the conservative
// resolution of spec.md §9's open question — see SPEC_FULL.md §6).
func switchToIfChain(s Stream) (Stream, bool) {
	for i := 0; i < len(s); i++ {
		if s[i].Kind != Switch {
			continue
		}
		bodyOpen := i + 1
		if bodyOpen >= len(s) || s[bodyOpen].Kind != OpenBrace {
			continue
		}
		bodyClose := matchingClose(s, bodyOpen)
		if bodyClose < 0 {
			continue
		}
		body := s[bodyOpen+1 : bodyClose]
		if !switchBodyIsBreakClean(body) {
			continue
		}
		chain := buildIfChain(body)
		out := append(Stream(nil), s[:i]...)
		out = append(out, chain...)
		out = append(out, s[bodyClose+1:]...)
		return out, true
	}
	return s, false
}

// switchBodyIsBreakClean requires every case/default segment to end in a
// bare Break at depth 0 and rejects a Switch, Loop or Do at depth 0 (whose
// own Break would be ambiguous with the case's). One nested inside a brace
// block of a segment is not rejected.
func switchBodyIsBreakClean(body Stream) bool {
	depth := 0
	sawCase := false
	lastWasBreak := false
	for _, st := range body {
		switch st.Kind {
		case OpenBrace:
			depth++
		case CloseBrace:
			depth--
		case Switch, Loop, Do:
			if depth == 0 {
				return false
			}
		case Case, Default:
			if depth == 0 {
				if sawCase && !lastWasBreak {
					return false
				}
				sawCase = true
				lastWasBreak = false
			}
		case Break:
			if depth == 0 {
				lastWasBreak = true
			}
		}
	}
	return sawCase && lastWasBreak
}

// buildIfChain turns a break-clean switch body into a chain of blocks: a
// Case marker heads each non-default segment, every segment after the
// first is preceded by Else (the default segment by Else alone), and each
// segment's trailing Break is dropped.
func buildIfChain(body Stream) Stream {
	segments := splitSwitchSegments(body)
	var out Stream
	for i, seg := range segments {
		if seg.isDefault {
			out = append(out, Stmt{Kind: Else})
		} else if i == 0 {
			out = append(out, Stmt{Kind: Case})
		} else {
			out = append(out, Stmt{Kind: Else})
			out = append(out, Stmt{Kind: Case})
		}
		out = append(out, Stmt{Kind: OpenBrace})
		out = append(out, seg.body...)
		out = append(out, Stmt{Kind: CloseBrace})
	}
	return out
}

type switchSegment struct {
	isDefault bool
	body      Stream
}

// splitSwitchSegments partitions a switch body into per-label segments,
// stripping the label markers and the trailing Break from each.
func splitSwitchSegments(body Stream) []switchSegment {
	var segs []switchSegment
	var cur *switchSegment
	depth := 0
	for _, st := range body {
		switch st.Kind {
		case OpenBrace:
			depth++
		case CloseBrace:
			depth--
		}
		if depth == 0 && (st.Kind == Case || st.Kind == Default) {
			segs = append(segs, switchSegment{isDefault: st.Kind == Default})
			cur = &segs[len(segs)-1]
			continue
		}
		if cur == nil {
			continue
		}
		if depth == 0 && st.Kind == Break {
			continue
		}
		cur.body = append(cur.body, st)
	}
	return segs
}

// dropNonElseIfAlloc applies the show-all relaxation: an "if { alloc ; }"
// with no else has its if-wrapper removed entirely, leaving the bare
// alloc (spec §4.6 "with the show-all flag on ... if alloc ; not followed
// by else drops the if").
func dropNonElseIfAlloc(s Stream) (Stream, bool) {
	for i := 0; i < len(s); i++ {
		if !isIfKind(s[i].Kind) {
			continue
		}
		kind, closeIdx, ok := blockAtom(s, i+1)
		if !ok || kind != Alloc {
			continue
		}
		after := closeIdx + 1
		if after < len(s) && s[after].Kind == Else {
			continue
		}
		out := append(Stream(nil), s[:i]...)
		out = append(out, s[i+2])
		out = append(out, s[after:]...)
		return out, true
	}
	return s, false
}

// remove deletes count elements starting at i and returns a fresh slice.
func remove(s Stream, i, count int) Stream {
	out := append(Stream(nil), s[:i]...)
	out = append(out, s[i+count:]...)
	return out
}
