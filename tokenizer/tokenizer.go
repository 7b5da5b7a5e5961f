package tokenizer

import (
	"fmt"

	"github.com/gscacco/cppcheck/token"
)

// defaultSizeOfType mirrors spec §4.3: "the map is initialized with
// bool=1, char=1, short=2, int=4, long=8, pointer=4 or 8 by flag".
func defaultSizeOfType(pointerWidth int) map[string]int {
	return map[string]int{
		"bool": 1, "char": 1, "short": 2, "int": 4, "long": 8,
		"float": 4, "double": 8, "long long": 8,
		"*": pointerWidth,
	}
}

// Tokenizer owns one token.Stream for the lifetime of an analysis run
// (spec §3 "Ownership"). It is not safe for concurrent use; run one
// Tokenizer per translation-unit configuration, as spec §5 requires.
type Tokenizer struct {
	stream      *token.Stream
	sizeOfType  map[string]int
	functions   *functionTable
	pointerSize int
}

// New creates a Tokenizer. pointerWidth should be 4 or 8 (spec §9 "Pointer
// width").
func New(pointerWidth int) *Tokenizer {
	if pointerWidth != 4 && pointerWidth != 8 {
		pointerWidth = 8
	}
	return &Tokenizer{
		sizeOfType:  defaultSizeOfType(pointerWidth),
		pointerSize: pointerWidth,
	}
}

// Tokenize lexes text (already preprocessed for one configuration),
// combines adjacent string literals, links brackets, assigns variable
// IDs, and builds the function table, in the order spec §4.3 specifies.
func (tz *Tokenizer) Tokenize(text string, fileIndex int) error {
	toks := lex(text, fileIndex)
	tz.stream = token.NewStream(toks)
	combineAdjacentStrings(tz.stream)
	if err := linkBrackets(tz.stream); err != nil {
		return fmt.Errorf("tokenizer: %w", err)
	}
	assignVariableIDs(tz.stream)
	tz.functions = buildFunctionTable(tz.stream)
	return nil
}

// Stream returns the live token stream. Simplifier passes mutate it
// in-place; rule checks only read from it (spec §5 "Token-stream mutation
// is strictly serial").
func (tz *Tokenizer) Stream() *token.Stream { return tz.stream }

// Tokens materializes the current stream into a slice.
func (tz *Tokenizer) Tokens() []*token.Token {
	if tz.stream == nil {
		return nil
	}
	return tz.stream.Tokens()
}

// FindFunctionTokenByName resolves an intra-file call target to its
// defining name-token, or nil if name is not defined in this translation
// unit (spec §3 "Function table").
func (tz *Tokenizer) FindFunctionTokenByName(name string) *token.Token {
	if tz.functions == nil {
		return nil
	}
	return tz.functions.find(name)
}

// RebuildFunctionTable re-scans the (possibly simplifier-rewritten) stream
// for function definitions. Call after simplification, since passes like
// template expansion and namespace flattening can introduce or relocate
// function bodies.
func (tz *Tokenizer) RebuildFunctionTable() {
	tz.functions = buildFunctionTable(tz.stream)
}

// SizeOfType returns the configured byte size of a type name, and whether
// it was known. "*" looks up the pointer width.
func (tz *Tokenizer) SizeOfType(name string) (int, bool) {
	sz, ok := tz.sizeOfType[name]
	return sz, ok
}

// PointerSize returns the configured pointer width in bytes (4 or 8).
func (tz *Tokenizer) PointerSize() int { return tz.pointerSize }
