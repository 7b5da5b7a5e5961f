// Package simplifier rewrites a tokenizer's token.Stream into a smaller,
// more uniform form before variable-flow lowering and the rule checks run
// (spec §4.4). Every pass is a local, idempotent rewrite; the driver loops
// passes until none of them change anything, matching the termination
// invariant of strictly reducing token count or matching-pattern count.
package simplifier

import "github.com/gscacco/cppcheck/token"

// SizeOfFunc resolves a type name to its byte size, the same contract the
// tokenizer exposes via Tokenizer.SizeOfType.
type SizeOfFunc func(typeName string) (int, bool)

// Options configures which passes run and gives constant folding access to
// the translation unit's configured type sizes (spec §9 "Global tables").
type Options struct {
	SizeOf SizeOfFunc
}

// maxOuterIterations bounds the fixed-point loop (spec §4.4 "a fixed small
// number of outer iterations"); well-formed input reaches a fixed point in
// a handful of passes, so this is a safety net against a pass with a
// latent non-terminating rewrite, not a expected ceiling.
const maxOuterIterations = 64

// pass is one rewrite rule. It scans s for its pattern and applies at most
// one rewrite per call (to keep the change visible to the caller's changed
// flag), returning whether it changed anything.
type pass func(s *token.Stream, opt Options) bool

var passes = []pass{
	stripCasts,
	reduceParens,
	foldConstants,
	reduceConditionalLiterals,
	lowerTernary,
	hoistAssignInCondition,
	normalizeNegation,
	demotePostIncrement,
	foldRedundantArithmetic,
	splitCommaOperator,
	flattenElseIf,
	flattenNamespace,
	lowerArrayDeclOnBraces,
	expandTemplates,
	switchToIf,
}

// Run applies every pass repeatedly until a full sweep makes no change, or
// the iteration cap is hit. It returns the number of outer iterations that
// produced at least one change, so callers (and tests) can assert
// termination reached a genuine fixed point rather than hitting the cap.
func Run(s *token.Stream, opt Options) int {
	iterations := 0
	for i := 0; i < maxOuterIterations; i++ {
		changed := false
		for _, p := range passes {
			for p(s, opt) {
				changed = true
			}
		}
		if !changed {
			return iterations
		}
		iterations++
	}
	return iterations
}
