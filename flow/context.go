package flow

import (
	"github.com/gscacco/cppcheck/tokenizer"
)

// defaultMaxDepth bounds recursive call splicing (spec §9 "Recursive
// analysis control": "Bound recursion depth (e.g. 32)").
const defaultMaxDepth = 32

// Context threads the tokenizer (for resolving intra-file calls) and
// recursion bookkeeping through a lowering run (spec §4.5 "Function-call
// handling", §9 "Recursive analysis control").
type Context struct {
	TZ       *tokenizer.Tokenizer
	MaxDepth int

	depth     int
	callStack map[string]bool
}

// NewContext builds a lowering Context for one function-focus-variable
// pass. maxDepth <= 0 uses the spec's default of 32.
func NewContext(tz *tokenizer.Tokenizer, maxDepth int) *Context {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Context{TZ: tz, MaxDepth: maxDepth, callStack: map[string]bool{}}
}
