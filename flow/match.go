package flow

import (
	"github.com/gscacco/cppcheck/builtins"
	"github.com/gscacco/cppcheck/token"
)

// containsVarRead reports whether varID's token occurs anywhere in
// [start, end).
func containsVarRead(start, end *token.Token, varID int) bool {
	if varID == 0 {
		return false
	}
	for t := start; t != nil && t != end; t = t.Next() {
		if t.VarID == varID {
			return true
		}
	}
	return false
}

// matchDeclaration recognizes a plain declaration of varID with no
// allocating initializer: "T var ;" or "T *var ;" (no "=").
func matchDeclaration(start, semi *token.Token, varID int) (Stmt, bool) {
	if start.Str == "delete" {
		return Stmt{}, false // "delete var ;" is a deallocation, not a declaration
	}
	for t := start; t != nil && t != semi; t = t.Next() {
		if t.VarID == varID && t.IsName {
			if t.Next() == semi {
				return Stmt{Kind: Decl, VarID: varID, Tok: t}, true
			}
			return Stmt{}, false
		}
	}
	return Stmt{}, false
}

// matchDeallocCall recognizes "free(var)", "delete var", "delete [] var",
// "fclose(var)", "close(var)", "pclose(var)", "closedir(var)" anywhere in
// the statement (spec §4.5 "deallocation site").
func matchDeallocCall(start, semi *token.Token, varID int) (Stmt, bool) {
	for t := start; t != nil && t != semi; t = t.Next() {
		if t.Str == "delete" {
			n := t.Next()
			if n != nil && n.Str == "[" && n.Next() != nil && n.Next().Str == "]" {
				n = n.Next().Next()
			}
			if n != nil && n.VarID == varID {
				return Stmt{Kind: Dealloc, VarID: varID, Tok: t, Alloc: builtins.KindMany}, true
			}
			continue
		}
		if !t.IsName {
			continue
		}
		kind, ok := builtins.IsCloser(t.Str)
		if !ok {
			continue
		}
		open := t.Next()
		if open == nil || open.Str != "(" || open.Link == nil {
			continue
		}
		arg := open.Next()
		if arg != nil && arg.VarID == varID && arg.Next() == open.Link {
			return Stmt{Kind: Dealloc, VarID: varID, Tok: t, Alloc: kind}, true
		}
	}
	return Stmt{}, false
}

// allocFormKind recognizes the allocation-form starting at rhs (after the
// "="), returning the resolved kind and the token one past the form, or
// ok=false if rhs is not a recognized allocator (spec §4.5 "alloc-form").
func allocFormKind(rhs *token.Token) (builtins.AllocKind, bool) {
	if rhs == nil {
		return builtins.KindNone, false
	}
	if rhs.Str == "new" {
		p := rhs.Next()
		if p != nil && p.Str == "(" && p.Link != nil {
			// "new (nothrow) T" -- skip the parenthesized placement arg.
			p = p.Link.Next()
		}
		if p == nil || !(p.IsName || p.IsStdType) {
			return builtins.KindNone, false
		}
		if n := p.Next(); n != nil && n.Str == "[" {
			return builtins.KindHeapArray, true
		}
		return builtins.KindHeapScalar, true
	}
	if !rhs.IsName {
		return builtins.KindNone, false
	}
	if n := rhs.Next(); n == nil || n.Str != "(" {
		return builtins.KindNone, false
	}
	return builtins.IsAllocator(rhs.Str)
}

// isRealloc reports whether rhs is "realloc ( var , ... )" -- the one
// allocator that also frees its argument (spec §4.5: "Reallocation emits
// realloc which the reducer later rewrites to dealloc ; alloc").
func isRealloc(rhs *token.Token, varID int) bool {
	if rhs == nil || rhs.Str != "realloc" {
		return false
	}
	open := rhs.Next()
	if open == nil || open.Str != "(" {
		return false
	}
	arg := open.Next()
	return arg != nil && arg.VarID == varID
}

// matchAssignment recognizes "var = rhs ;" for varID and emits either a
// realloc pair, a single alloc, or a plain assign (spec §4.5 "allocation
// site").
func matchAssignment(start, semi *token.Token, varID int) (Stream, bool) {
	if start.VarID != varID || !start.IsName {
		return nil, false
	}
	eq := start.Next()
	if eq == nil || eq.Str != "=" {
		return nil, false
	}
	rhs := eq.Next()
	if rhs == nil {
		return nil, false
	}
	return rhsStatements(start, rhs, varID), true
}

// rhsStatements classifies rhs -- the expression following "=" in either a
// plain assignment or a combined declaration's initializer -- into a
// realloc pair, a single alloc, or a plain assign (spec §4.5 "allocation
// site"). tok anchors the emitted statement(s) at the variable's occurrence.
func rhsStatements(tok *token.Token, rhs *token.Token, varID int) Stream {
	if isRealloc(rhs, varID) {
		return Stream{
			{Kind: Dealloc, VarID: varID, Tok: tok, Alloc: builtins.KindHeapLegacy},
			{Kind: Alloc, VarID: varID, Tok: tok, Alloc: builtins.KindHeapLegacy},
		}
	}
	if kind, ok := allocFormKind(rhs); ok {
		return Stream{{Kind: Alloc, VarID: varID, Tok: tok, Alloc: kind}}
	}
	return Stream{{Kind: Assign, VarID: varID, Tok: tok}}
}

// matchDeclarationWithInit recognizes a combined declaration and
// initializer for varID -- "T *p = malloc(10) ;", "T *p = new T ;", or any
// other "T [*]var = rhs ;" form -- and emits Decl followed by whatever
// rhsStatements classifies the initializer as. This is the combined form
// spec.md's own worked examples use (scenarios 1 and 2); matchDeclaration
// only matches a bare "T var ;" with no initializer, and matchAssignment
// only matches a standalone "var = rhs ;" whose very first token is the
// variable itself, so neither fires here.
func matchDeclarationWithInit(start, semi *token.Token, varID int) (Stream, bool) {
	var varTok *token.Token
	for t := start; t != nil && t != semi; t = t.Next() {
		if t.VarID == varID && t.IsName {
			varTok = t
			break
		}
	}
	if varTok == nil || varTok == start {
		return nil, false
	}
	eq := varTok.Next()
	if eq == nil || eq.Str != "=" {
		return nil, false
	}
	rhs := eq.Next()
	if rhs == nil {
		return nil, false
	}
	return append(Stream{{Kind: Decl, VarID: varID, Tok: varTok}}, rhsStatements(varTok, rhs, varID)...), true
}

// matchGenericUse falls back to a bare read/use classification: an
// indexed read "var[...]" is UseIndexed (spec §4.5: "distinct kind that
// survives reduction for use-after-free detection"); any other occurrence
// of varID is Use.
func matchGenericUse(start, semi *token.Token, varID int) (Stmt, bool) {
	for t := start; t != nil && t != semi; t = t.Next() {
		if t.VarID != varID {
			continue
		}
		if n := t.Next(); n != nil && n.Str == "[" {
			return Stmt{Kind: UseIndexed, VarID: varID, Tok: t}, true
		}
		return Stmt{Kind: Use, VarID: varID, Tok: t}, true
	}
	return Stmt{}, false
}

// matchKnownCall handles a bare call statement "f ( ...var... ) ;"
// (spec §4.5 "Function-call handling"). ok=false means no call classifies
// the statement and the generic fallback should run; Kind == -1 with
// ok == true means the call is a known no-op that should emit nothing.
func matchKnownCall(start, semi *token.Token, varID int, ctx *Context) (Stmt, bool) {
	name := start
	if !name.IsName {
		return Stmt{}, false
	}
	open := name.Next()
	if open == nil || open.Str != "(" || open.Link != nil && open.Link.Next() != semi {
		return Stmt{}, false
	}
	if !containsVarRead(open.Next(), open.Link, varID) {
		return Stmt{}, false
	}
	if builtins.IsNeutral(name.Str) {
		return Stmt{Kind: -1}, true
	}
	argIndex := argPositionOf(open, varID)
	calleeDef := ctx.TZ.FindFunctionTokenByName(name.Str)
	if calleeDef == nil {
		return Stmt{Kind: Use, VarID: varID, Tok: name}, true
	}
	outcome := ctx.spliceCall(calleeDef, argIndex, name.Str)
	switch outcome {
	case "dealloc":
		return Stmt{Kind: Dealloc, VarID: varID, Tok: name, Alloc: builtins.KindMany}, true
	default:
		return Stmt{Kind: Use, VarID: varID, Tok: name}, true
	}
}

// argPositionOf returns the zero-based index of the argument containing
// varID's occurrence within open's call, or -1 if not found at the
// top level of the argument list.
func argPositionOf(open *token.Token, varID int) int {
	idx := 0
	depth := 0
	for t := open.Next(); t != nil && t != open.Link; t = t.Next() {
		switch t.Str {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ",":
			if depth == 0 {
				idx++
			}
		}
		if t.VarID == varID && depth == 0 {
			return idx
		}
	}
	return idx
}

// paramVarIDAt returns the VarID the tokenizer assigned to the argIndex-th
// parameter of a function whose parameter list starts at open ("(").
func paramVarIDAt(open *token.Token, argIndex int) int {
	idx := 0
	for t := open.Next(); t != nil && t != open.Link; t = t.Next() {
		if t.Str == "," {
			idx++
			continue
		}
		if idx == argIndex && t.VarID != 0 {
			return t.VarID
		}
	}
	return 0
}

// spliceCall recursively lowers calleeDef's body focused on the parameter
// at argIndex, bounded by MaxDepth and guarded against self-recursion
// (spec §4.5 "recursion is bounded by a max depth", §9 "Recursive
// analysis control"). It returns a qualitative outcome: "dealloc" if the
// callee frees the parameter, "use" otherwise (the conservative default).
func (ctx *Context) spliceCall(calleeDef *token.Token, argIndex int, name string) string {
	if ctx.depth >= ctx.MaxDepth || ctx.callStack[name] {
		return "use"
	}
	open := calleeDef.Next()
	if open == nil || open.Str != "(" || open.Link == nil {
		return "use"
	}
	body := open.Link.Next()
	if body != nil && body.Str == "const" {
		body = body.Next()
	}
	if body == nil || body.Str != "{" {
		return "use"
	}
	paramVarID := paramVarIDAt(open, argIndex)
	if paramVarID == 0 {
		return "use"
	}

	ctx.depth++
	ctx.callStack[name] = true
	sub := Lower(body, paramVarID, ctx)
	delete(ctx.callStack, name)
	ctx.depth--

	sub = Reduce(sub, false)
	for _, st := range sub {
		if st.Kind == Dealloc {
			return "dealloc"
		}
	}
	return "use"
}
