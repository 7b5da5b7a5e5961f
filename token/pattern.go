package token

import "strings"

type stepKind int

const (
	stepLiteral stepKind = iota
	stepAlt
	stepCharClass
	stepVarAny
	stepTypeAny
	stepNumAny
	stepStrAny
	stepBoolAny
	stepAnyAny
	stepVarID
	stepNegate
)

type step struct {
	kind    stepKind
	literal string   // stepLiteral, stepNegate
	alts    []string // stepAlt
	chars   string   // stepCharClass
}

// Pattern is a compiled pattern-matcher program (spec §4.2). Compile once,
// match many times; the step machine is table-driven and allocation-free
// per match (spec §9 "Pattern language").
type Pattern struct {
	steps []step
}

// Compile parses a space-separated pattern string into a Pattern.
func Compile(pattern string) *Pattern {
	chunks := strings.Fields(pattern)
	p := &Pattern{steps: make([]step, 0, len(chunks))}
	for _, c := range chunks {
		p.steps = append(p.steps, compileChunk(c))
	}
	return p
}

func compileChunk(chunk string) step {
	switch chunk {
	case "%var%":
		return step{kind: stepVarAny}
	case "%type%":
		return step{kind: stepTypeAny}
	case "%num%":
		return step{kind: stepNumAny}
	case "%str%":
		return step{kind: stepStrAny}
	case "%bool%":
		return step{kind: stepBoolAny}
	case "%any%":
		return step{kind: stepAnyAny}
	case "%varid%":
		return step{kind: stepVarID}
	}
	if strings.HasPrefix(chunk, "!!") {
		return step{kind: stepNegate, literal: chunk[2:]}
	}
	if strings.HasPrefix(chunk, "[") && strings.HasSuffix(chunk, "]") && len(chunk) >= 2 {
		return step{kind: stepCharClass, chars: chunk[1 : len(chunk)-1]}
	}
	if strings.Contains(chunk, "|") {
		return step{kind: stepAlt, alts: strings.Split(chunk, "|")}
	}
	return step{kind: stepLiteral, literal: chunk}
}

// match evaluates one step against cur. It returns whether the step
// matched and whether it consumed a token (an empty alternative in a "|"
// group matches without consuming, per spec §4.2).
func (s step) match(cur *Token, varID int) (ok bool, consumed bool) {
	switch s.kind {
	case stepLiteral:
		if cur == nil {
			return false, false
		}
		return cur.Str == s.literal, cur.Str == s.literal
	case stepAlt:
		allowEmpty := false
		for _, a := range s.alts {
			if a == "" {
				allowEmpty = true
				continue
			}
			if cur != nil && cur.Str == a {
				return true, true
			}
		}
		return allowEmpty, false
	case stepCharClass:
		if cur == nil || len(cur.Str) != 1 {
			return false, false
		}
		return strings.IndexByte(s.chars, cur.Str[0]) >= 0, true
	case stepVarAny:
		if cur == nil || !cur.IsName {
			return false, false
		}
		return true, true
	case stepTypeAny:
		if cur == nil || !cur.IsName || cur.Str == "delete" {
			return false, false
		}
		return true, true
	case stepNumAny:
		if cur == nil || !cur.IsNumber {
			return false, false
		}
		return true, true
	case stepStrAny:
		if cur == nil || !cur.IsString {
			return false, false
		}
		return true, true
	case stepBoolAny:
		if cur == nil || !(cur.Str == "true" || cur.Str == "false") {
			return false, false
		}
		return true, true
	case stepAnyAny:
		if cur == nil {
			return false, false
		}
		return true, true
	case stepVarID:
		if cur == nil || cur.VarID == 0 || cur.VarID != varID {
			return false, false
		}
		return true, true
	case stepNegate:
		if cur == nil || cur.Str == s.literal {
			return false, false
		}
		return true, true
	default:
		return false, false
	}
}

// MatchAt reports whether the pattern matches starting exactly at tok.
// varID supplies the id that %varid% steps must equal; pass 0 when the
// pattern has no %varid% step.
func (p *Pattern) MatchAt(tok *Token, varID int) bool {
	cur := tok
	for _, st := range p.steps {
		ok, consumed := st.match(cur, varID)
		if !ok {
			return false
		}
		if consumed {
			cur = cur.next
		}
	}
	return true
}

// Match compiles pattern and evaluates it at tok. Prefer Compile once and
// MatchAt repeatedly in hot loops (rule checks, simplifier passes).
func Match(tok *Token, pattern string, varID int) bool {
	return Compile(pattern).MatchAt(tok, varID)
}

// FindMatch returns the first token at or after start where pattern
// matches, or nil if none exists before the stream ends.
func (p *Pattern) FindMatch(start *Token, varID int) *Token {
	for t := start; t != nil; t = t.next {
		if p.MatchAt(t, varID) {
			return t
		}
	}
	return nil
}

// FindMatch compiles pattern and searches for the first match at or after
// start.
func FindMatch(start *Token, pattern string, varID int) *Token {
	return Compile(pattern).FindMatch(start, varID)
}
