// Package leak implements the leak verdict engine: after variable-flow
// lowering and statement reduction, it scans the reduced stream for the
// seven witness patterns that prove a memory/resource leak, double-free,
// use-after-free, or allocation/deallocation mismatch (spec §4.7).
package leak

import (
	"fmt"

	"github.com/gscacco/cppcheck/diagnostic"
	"github.com/gscacco/cppcheck/flow"
	"github.com/gscacco/cppcheck/sourcebuf"
	"github.com/gscacco/cppcheck/token"
	"github.com/gscacco/cppcheck/tokenizer"
)

// Run scans every function body in tz's stream for leak-verdict witnesses,
// reporting through sink. A check-level panic is recovered so one bad
// function body cannot abort the whole analysis run (SPEC_FULL.md §2
// "Error handling": "a check recovers its own internal panics").
func Run(tz *tokenizer.Tokenizer, buf *sourcebuf.Buffer, fileIndex int, sink *diagnostic.Sink, showAll bool, maxDepth int) {
	defer func() {
		if r := recover(); r != nil {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.PossibleError,
				ID:       "internalError",
				Chain:    []diagnostic.Location{{File: buf.Path(fileIndex)}},
				Message:  fmt.Sprintf("leak check aborted: %v", r),
			})
		}
	}()

	for _, body := range functionBodies(tz.Stream()) {
		for _, varID := range localVarIDs(body) {
			ctx := flow.NewContext(tz, maxDepth)
			lowered := flow.Lower(body, varID, ctx)

			strict := flow.Reduce(lowered, false)
			found := findWitnesses(strict)
			reported := make(map[*token.Token]bool, len(found))
			for _, w := range found {
				sink.Report(toRecord(w, diagnostic.Error, buf, fileIndex))
				reported[w.tok] = true
			}

			if !showAll {
				continue
			}
			relaxed := flow.Reduce(lowered, true)
			for _, w := range findWitnesses(relaxed) {
				if reported[w.tok] {
					continue
				}
				sink.Report(toRecord(w, diagnostic.PossibleError, buf, fileIndex))
			}
		}
	}
}

// functionBodies returns the opening "{" of every function definition in
// s, recognized the same way the tokenizer's own function table does
// (spec §3 "Function table"): a name token, a linked "(...)", an optional
// "const", then a "{".
func functionBodies(s *token.Stream) []*token.Token {
	var out []*token.Token
	for t := s.Front(); t != nil; t = t.Next() {
		if !t.IsName {
			continue
		}
		open := t.Next()
		if open == nil || open.Str != "(" || open.Link == nil {
			continue
		}
		body := open.Link.Next()
		if body != nil && body.Str == "const" {
			body = body.Next()
		}
		if body == nil || body.Str != "{" {
			continue
		}
		out = append(out, body)
	}
	return out
}

// localVarIDs returns every distinct nonzero VarID occurring within body
// (up to its matching "}"), in first-occurrence order.
func localVarIDs(body *token.Token) []int {
	seen := make(map[int]bool)
	var ids []int
	end := body.Link
	for t := body; t != nil && t != end; t = t.Next() {
		if t.VarID != 0 && !seen[t.VarID] {
			seen[t.VarID] = true
			ids = append(ids, t.VarID)
		}
	}
	return ids
}

func toRecord(w witness, sev diagnostic.Severity, buf *sourcebuf.Buffer, fileIndex int) diagnostic.Record {
	line := 0
	file := buf.Path(fileIndex)
	if w.tok != nil {
		line = w.tok.Line
		if w.tok.File != fileIndex {
			file = buf.Path(w.tok.File)
		}
	}
	return diagnostic.Record{
		Severity: sev,
		ID:       w.rule,
		Chain:    []diagnostic.Location{{File: file, Line: line}},
		Message:  w.message,
	}
}
