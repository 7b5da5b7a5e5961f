package leak

import (
	"github.com/gscacco/cppcheck/builtins"
	"github.com/gscacco/cppcheck/flow"
	"github.com/gscacco/cppcheck/token"
)

// witness is one leak-verdict finding: a rule ID, the token it anchors to,
// and the message text reported to the user.
type witness struct {
	rule    string
	tok     *token.Token
	message string
}

// findWitnesses scans a reduced stream for the seven witness patterns in
// priority order (spec §4.7) and returns the first one that matches. Only
// one verdict is ever reported per variable per reduction pass: a stream
// proving a double-free, say, is not also reported as a plain leak.
func findWitnesses(s flow.Stream) []witness {
	rules := []func(flow.Stream) (witness, bool){
		ruleLoopAlloc,
		ruleAllocThenExit,
		ruleAllocThenReassign,
		ruleDoubleFree,
		ruleMissingDealloc,
		ruleUseAfterFree,
		ruleMismatchedKind,
	}
	for _, rule := range rules {
		if w, ok := rule(s); ok {
			return []witness{w}
		}
	}
	return nil
}

func braceClose(s flow.Stream, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i].Kind {
		case flow.OpenBrace:
			depth++
		case flow.CloseBrace:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ruleLoopAlloc: "loop alloc ;" with no compensating dealloc anywhere in
// the loop body -- each iteration allocates and never frees (spec §4.7
// rule 1, memory leak).
func ruleLoopAlloc(s flow.Stream) (witness, bool) {
	for i := 0; i < len(s); i++ {
		if s[i].Kind != flow.Loop {
			continue
		}
		open := i + 1
		if open >= len(s) || s[open].Kind != flow.OpenBrace {
			continue
		}
		close := braceClose(s, open)
		if close < 0 {
			continue
		}
		var allocStmt flow.Stmt
		hasAlloc, hasDealloc := false, false
		for _, st := range s[open+1 : close] {
			switch st.Kind {
			case flow.Alloc:
				hasAlloc, allocStmt = true, st
			case flow.Dealloc:
				hasDealloc = true
			}
		}
		if hasAlloc && !hasDealloc {
			return witness{
				rule:    "memleak",
				tok:     allocStmt.Tok,
				message: "memory leak: allocation inside a loop is never freed before the next iteration",
			}, true
		}
	}
	return witness{}, false
}

// ruleAllocThenExit: an alloc immediately followed, before any dealloc, by
// an uncompensated break/continue/return that escapes the function or loop
// holding the only reference to the allocation (spec §4.7 rule 2).
func ruleAllocThenExit(s flow.Stream) (witness, bool) {
	for i, st := range s {
		if st.Kind != flow.Alloc {
			continue
		}
	scan:
		for j := i + 1; j < len(s); j++ {
			switch s[j].Kind {
			case flow.Dealloc, flow.ReturnUse:
				break scan
			case flow.Break, flow.Continue, flow.Return:
				return witness{
					rule:    "leak",
					tok:     st.Tok,
					message: "memory leak: allocated resource is not freed before this exit",
				}, true
			}
		}
	}
	return witness{}, false
}

// ruleAllocThenReassign: an alloc immediately followed, before any dealloc,
// by another alloc, a plain assign, or a plain return -- all three lose the
// only reference to the first allocation (spec §4.7 rule 3).
func ruleAllocThenReassign(s flow.Stream) (witness, bool) {
	for i, st := range s {
		if st.Kind != flow.Alloc {
			continue
		}
	scan:
		for j := i + 1; j < len(s); j++ {
			switch s[j].Kind {
			case flow.Dealloc, flow.ReturnUse:
				break scan
			case flow.Alloc, flow.Assign, flow.Return:
				return witness{
					rule:    "leak",
					tok:     st.Tok,
					message: "memory leak: the only reference to this allocation is overwritten before it is freed",
				}, true
			}
		}
	}
	return witness{}, false
}

// ruleDoubleFree: two deallocs of the same variable with no intervening
// alloc (spec §4.7 rule 4).
func ruleDoubleFree(s flow.Stream) (witness, bool) {
	seenDealloc := false
	for _, st := range s {
		switch st.Kind {
		case flow.Dealloc:
			if seenDealloc {
				return witness{
					rule:    "doubleFree",
					tok:     st.Tok,
					message: "resource is freed a second time",
				}, true
			}
			seenDealloc = true
		case flow.Alloc:
			seenDealloc = false
		}
	}
	return witness{}, false
}

// ruleMissingDealloc: the final stream contains an alloc but no dealloc,
// use, or return_use anywhere -- nothing ever observably consumes or frees
// it (spec §4.7 rule 5).
func ruleMissingDealloc(s flow.Stream) (witness, bool) {
	var allocStmt flow.Stmt
	hasAlloc := false
	for _, st := range s {
		switch st.Kind {
		case flow.Alloc:
			hasAlloc, allocStmt = true, st
		case flow.Dealloc, flow.Use, flow.UseIndexed, flow.ReturnUse:
			return witness{}, false
		}
	}
	if !hasAlloc {
		return witness{}, false
	}
	return witness{
		rule:    "memleak",
		tok:     allocStmt.Tok,
		message: "memory leak: allocated resource is never freed or used",
	}, true
}

// ruleUseAfterFree: a dealloc followed, before any re-alloc, by an indexed
// use (spec §4.7 rule 6).
func ruleUseAfterFree(s flow.Stream) (witness, bool) {
	deallocated := false
	for _, st := range s {
		switch st.Kind {
		case flow.Dealloc:
			deallocated = true
		case flow.Alloc:
			deallocated = false
		case flow.UseIndexed:
			if deallocated {
				return witness{
					rule:    "useAfterFree",
					tok:     st.Tok,
					message: "resource is used after being freed",
				}, true
			}
		}
	}
	return witness{}, false
}

// ruleMismatchedKind: an alloc and the dealloc that frees it resolve to
// different AllocKinds, neither of which is the catch-all Many (spec §4.7
// rule 7, e.g. "malloc ... delete").
func ruleMismatchedKind(s flow.Stream) (witness, bool) {
	var allocStmt flow.Stmt
	haveAlloc := false
	for _, st := range s {
		switch st.Kind {
		case flow.Alloc:
			allocStmt, haveAlloc = st, true
		case flow.Dealloc:
			if !haveAlloc {
				continue
			}
			if allocStmt.Alloc == builtins.KindMany || st.Alloc == builtins.KindMany {
				haveAlloc = false
				continue
			}
			merged := builtins.Merge(allocStmt.Alloc, st.Alloc)
			if merged == builtins.KindMany {
				return witness{
					rule:    "mismatchAllocDealloc",
					tok:     st.Tok,
					message: "mismatching allocation and deallocation: " + allocStmt.Alloc.String() + " freed with " + st.Alloc.String(),
				}, true
			}
			haveAlloc = false
		}
	}
	return witness{}, false
}
