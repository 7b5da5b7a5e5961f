package flow

import (
	"github.com/gscacco/cppcheck/token"
)

// Lower produces the reduced-statement stream for one function body and
// one focus variable (spec §4.5 "Variable-flow lowering"). bodyOpen must
// be the function's opening "{" token.
func Lower(bodyOpen *token.Token, varID int, ctx *Context) Stream {
	var out Stream
	lowerBlock(bodyOpen, varID, ctx, &out, false)
	return out
}

// lowerBlock emits OpenBrace, walks the statements between open and
// open.Link, and emits CloseBrace. inTry marks that "throw" inside this
// block targets a matching try (spec §4.5 "exceptional exits").
func lowerBlock(open *token.Token, varID int, ctx *Context, out *Stream, inTry bool) {
	*out = append(*out, Stmt{Kind: OpenBrace, Tok: open})
	end := open.Link
	t := open.Next()
	for t != nil && t != end {
		t = lowerStatement(t, varID, ctx, out, inTry)
	}
	*out = append(*out, Stmt{Kind: CloseBrace, Tok: end})
}

// lowerBranch lowers a single control-flow branch, which may be a brace
// block or a single bare statement; either way it is wrapped in
// OpenBrace/CloseBrace in the output stream, matching the reduced model's
// assumption that every branch is a block (spec §3 "Reduced statement").
func lowerBranch(start *token.Token, varID int, ctx *Context, out *Stream, inTry bool) *token.Token {
	if start.Str == "{" {
		lowerBlock(start, varID, ctx, out, inTry)
		return start.Link.Next()
	}
	*out = append(*out, Stmt{Kind: OpenBrace, Tok: start})
	next := lowerStatement(start, varID, ctx, out, inTry)
	*out = append(*out, Stmt{Kind: CloseBrace, Tok: start})
	return next
}

// lowerStatement lowers the single statement starting at t and returns the
// token immediately after it.
func lowerStatement(t *token.Token, varID int, ctx *Context, out *Stream, inTry bool) *token.Token {
	switch t.Str {
	case ";":
		return t.Next()

	case "{":
		lowerBlock(t, varID, ctx, out, inTry)
		return t.Link.Next()

	case "if":
		return lowerIf(t, varID, ctx, out, inTry)

	case "while", "for":
		return lowerLoop(t, varID, ctx, out, inTry)

	case "do":
		return lowerDo(t, varID, ctx, out, inTry)

	case "switch":
		return lowerSwitch(t, varID, ctx, out, inTry)

	case "case":
		*out = append(*out, Stmt{Kind: Case, Tok: t})
		return afterColon(t)

	case "default":
		*out = append(*out, Stmt{Kind: Default, Tok: t})
		return afterColon(t)

	case "break":
		*out = append(*out, Stmt{Kind: Break, Tok: t})
		return afterSemi(t)

	case "continue":
		*out = append(*out, Stmt{Kind: Continue, Tok: t})
		return afterSemi(t)

	case "return":
		semi := findSemi(t)
		if containsVarRead(t.Next(), semi, varID) {
			*out = append(*out, Stmt{Kind: ReturnUse, VarID: varID, Tok: t})
		} else {
			*out = append(*out, Stmt{Kind: Return, Tok: t})
		}
		return nextAfter(semi)

	case "exit":
		*out = append(*out, Stmt{Kind: Exit, Tok: t})
		return nextAfter(findSemi(t))

	case "throw":
		if inTry {
			*out = append(*out, Stmt{Kind: Throw, Tok: t})
		} else {
			*out = append(*out, Stmt{Kind: Return, Tok: t})
		}
		return nextAfter(findSemi(t))

	case "try":
		return lowerTry(t, varID, ctx, out)

	default:
		return lowerExpressionStatement(t, varID, ctx, out)
	}
}

func afterColon(t *token.Token) *token.Token {
	for n := t; n != nil; n = n.Next() {
		if n.Str == ":" {
			return n.Next()
		}
	}
	return nil
}

func afterSemi(t *token.Token) *token.Token {
	return nextAfter(findSemi(t))
}

func nextAfter(t *token.Token) *token.Token {
	if t == nil {
		return nil
	}
	return t.Next()
}

// findSemi returns the top-level ";" ending the statement starting at t.
func findSemi(t *token.Token) *token.Token {
	depth := 0
	for n := t; n != nil; n = n.Next() {
		switch n.Str {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ";":
			if depth == 0 {
				return n
			}
		}
	}
	return nil
}

func lowerIf(t *token.Token, varID int, ctx *Context, out *Stream, inTry bool) *token.Token {
	open := t.Next()
	closeParen := open.Link
	condStart, condEnd := open.Next(), closeParen.Prev()

	kind := classifyCondition(condStart, condEnd, varID)
	*out = append(*out, Stmt{Kind: kind, VarID: varID, Tok: t})

	thenStart := closeParen.Next()
	next := lowerBranch(thenStart, varID, ctx, out, inTry)

	if next != nil && next.Str == "else" {
		*out = append(*out, Stmt{Kind: Else, Tok: next})
		return lowerBranch(next.Next(), varID, ctx, out, inTry)
	}
	return next
}

// classifyCondition picks If / IfVar / IfNotVar / IfValueDependent
// (spec §4.5 "control flow").
func classifyCondition(start, end *token.Token, varID int) Kind {
	if start == end && start.VarID == varID {
		return IfVar
	}
	if start.Str == "!" && start.Next() == end && end.VarID == varID {
		return IfNotVar
	}
	if containsVarRead(start, end.Next(), varID) {
		return IfValueDependent
	}
	return If
}

func lowerLoop(t *token.Token, varID int, ctx *Context, out *Stream, inTry bool) *token.Token {
	open := t.Next()
	closeParen := open.Link
	*out = append(*out, Stmt{Kind: Loop, Tok: t})
	bodyStart := closeParen.Next()
	return lowerBranch(bodyStart, varID, ctx, out, inTry)
}

func lowerDo(t *token.Token, varID int, ctx *Context, out *Stream, inTry bool) *token.Token {
	*out = append(*out, Stmt{Kind: Do, Tok: t})
	next := lowerBranch(t.Next(), varID, ctx, out, inTry)
	// next now points at "while ( cond ) ;"
	if next != nil && next.Str == "while" {
		return afterSemi(next)
	}
	return next
}

func lowerSwitch(t *token.Token, varID int, ctx *Context, out *Stream, inTry bool) *token.Token {
	open := t.Next()
	closeParen := open.Link
	*out = append(*out, Stmt{Kind: Switch, Tok: t})
	body := closeParen.Next()
	lowerBlock(body, varID, ctx, out, inTry)
	return body.Link.Next()
}

func lowerTry(t *token.Token, varID int, ctx *Context, out *Stream) *token.Token {
	*out = append(*out, Stmt{Kind: Try, Tok: t})
	body := t.Next()
	lowerBlock(body, varID, ctx, out, true)
	next := body.Link.Next()
	for next != nil && next.Str == "catch" {
		*out = append(*out, Stmt{Kind: Catch, Tok: next})
		open := next.Next()
		handlerBody := open.Link.Next()
		lowerBlock(handlerBody, varID, ctx, out, false)
		next = handlerBody.Link.Next()
	}
	return next
}

// lowerExpressionStatement handles declarations, assignments, and bare
// call statements -- everything that isn't a control-flow keyword (spec
// §4.5's allocation/deallocation/use emissions).
func lowerExpressionStatement(t *token.Token, varID int, ctx *Context, out *Stream) *token.Token {
	semi := findSemi(t)
	if semi == nil {
		return nil
	}

	if stmt, ok := matchDeclaration(t, semi, varID); ok {
		*out = append(*out, stmt)
		return semi.Next()
	}
	if stmts, ok := matchAssignment(t, semi, varID); ok {
		*out = append(*out, stmts...)
		return semi.Next()
	}
	if stmts, ok := matchDeclarationWithInit(t, semi, varID); ok {
		*out = append(*out, stmts...)
		return semi.Next()
	}
	if stmt, ok := matchDeallocCall(t, semi, varID); ok {
		*out = append(*out, stmt)
		return semi.Next()
	}
	if stmt, ok := matchKnownCall(t, semi, varID, ctx); ok {
		if stmt.Kind != -1 {
			*out = append(*out, stmt)
		}
		return semi.Next()
	}
	if stmt, ok := matchGenericUse(t, semi, varID); ok {
		*out = append(*out, stmt)
	}
	return semi.Next()
}
