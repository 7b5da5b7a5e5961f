// Package token implements the analyzer's doubly-linked token stream and
// its small pattern-matching DSL (spec §3 "Token", §4.2 "Token stream &
// pattern matcher"). A Stream is owned by exactly one Tokenizer for the
// lifetime of an analysis run; Simplifier passes are the only other code
// permitted to mutate it, and only through Stream's own operations --
// nothing outside this package ever touches prev/next directly.
package token

// Token is one node of a doubly-linked token stream.
type Token struct {
	Str string // canonical string form

	IsName     bool
	IsNumber   bool
	IsBoolean  bool
	IsString   bool
	IsStdType  bool
	IsPointer  bool // declared-pointer marker; no tokenizer pass sets it

	File int
	Line int

	// VarID is nonzero once the tokenizer has resolved this occurrence to
	// a declared variable; every textual occurrence within the variable's
	// scope shares the same value (spec §3 "Variable identity").
	VarID int

	// Link points at the matching bracket/brace/paren token, set by the
	// tokenizer's bracket-linking pass. Every '(' '{' '[' has Link set to
	// its partner and vice versa once tokenization completes (spec §4.2
	// "Bracket linking invariant").
	Link *Token

	prev, next *Token
	stream     *Stream
}

// New creates a detached token. Use Stream.PushBack/InsertAfter to attach
// it to a stream.
func New(str string) *Token {
	return &Token{Str: str}
}

// Prev returns the previous token in the stream, or nil at the head.
func (t *Token) Prev() *Token { return t.prev }

// Next returns the next token in the stream, or nil at the tail.
func (t *Token) Next() *Token { return t.next }

// IsLiteral reports whether the token is a number, string, or boolean
// literal.
func (t *Token) IsLiteral() bool {
	return t.IsNumber || t.IsString || t.IsBoolean
}

// IsOpChar reports whether c is a character that can start or continue a
// C/C++ operator or punctuator token.
func IsOpChar(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '&', '|', '^', '~',
		'(', ')', '{', '}', '[', ']', ';', ',', '.', ':', '?':
		return true
	default:
		return false
	}
}
