// Package flow implements variable-flow lowering and the statement
// reducer (spec §4.5, §4.6): for one variable in one function, it produces
// a reduced-statement stream the leak verdict engine (checks/leak) walks
// for witnesses. The reduced-statement stream is fully materialized and
// finite (spec §3 "Reduced statement"), created per variable per check and
// discarded at the end of that check (spec §3 "Ownership").
package flow

import (
	"github.com/gscacco/cppcheck/builtins"
	"github.com/gscacco/cppcheck/token"
)

// Kind tags one element of a reduced-statement stream (spec §3 "Reduced
// statement").
type Kind int

const (
	OpenBrace Kind = iota
	CloseBrace
	Decl
	Alloc
	Dealloc
	Assign
	Use
	UseIndexed
	If
	IfVar
	IfNotVar
	IfValueDependent
	Else
	Switch
	Case
	Default
	Loop
	Do
	Break
	Continue
	Return
	ReturnUse
	Exit
	Throw
	Try
	Catch
)

func (k Kind) String() string {
	names := [...]string{
		"{", "}", "decl", "alloc", "dealloc", "assign", "use", "use_",
		"if", "if(var)", "if(!var)", "ifv", "else", "switch", "case",
		"default", "loop", "do", "break", "continue", "return", "return_use",
		"exit", "throw", "try", "catch",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "?"
	}
	return names[k]
}

// Stmt is one element of a reduced-statement stream. VarID is the focus
// variable's identity when the statement concerns it (0 otherwise). Tok is
// the originating token, kept for diagnostic locations (spec §3 "Reduced
// statement ... optionally carrying a variable-ID reference and the
// originating token for diagnostics"). Kind carries the AllocKind
// resolved at an Alloc/Dealloc site.
type Stmt struct {
	Kind  Kind
	VarID int
	Tok   *token.Token
	Alloc builtins.AllocKind
}

// Stream is a reduced-statement stream: finite and fully materialized,
// never a live iterator (spec §3).
type Stream []Stmt
