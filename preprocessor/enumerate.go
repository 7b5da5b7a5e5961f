package preprocessor

import (
	"sort"
	"strings"
)

// partial is an in-progress enumeration result: the set of macros assumed
// defined along the path taken so far, plus a list of fillers that each
// append their branch's body lines (with directive lines blanked) to an
// output slice once the whole document has been walked.
type partial struct {
	defines map[string]bool
	fillers []func(out []string)
}

func newPartial() partial {
	return partial{defines: map[string]bool{}}
}

func (p partial) clone() partial {
	d := make(map[string]bool, len(p.defines))
	for k, v := range p.defines {
		d[k] = v
	}
	fillers := make([]func(out []string), len(p.fillers))
	copy(fillers, p.fillers)
	return partial{defines: d, fillers: fillers}
}

// Configuration is one reachable preprocessor configuration of a
// translation unit: the set of macros presence-forked chains assumed
// defined, and the fully materialized, line-count-preserving source text
// for that configuration (spec §4.1).
type Configuration struct {
	Name  string // macro names, sorted and ';'-joined; "" for the baseline
	Lines []string
}

// enumerate walks the parsed item tree and returns every reachable
// configuration. Presence chains (#ifdef/#ifndef/defined()-only conditions)
// fork the cartesian product; any chain containing a non-presence
// condition is resolved once via evalDeterministic and contributes no
// additional configurations (SPEC_FULL.md §6 Open Question resolution).
func enumerate(items []item, lineCount int, predefined map[string]string) []Configuration {
	partials := walk(items, predefined)

	configs := make([]Configuration, 0, len(partials))
	for _, p := range partials {
		out := make([]string, lineCount)
		for _, fill := range p.fillers {
			fill(out)
		}
		names := make([]string, 0, len(p.defines))
		for name, on := range p.defines {
			if on {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		configs = append(configs, Configuration{
			Name:  strings.Join(names, ";"),
			Lines: out,
		})
	}
	return configs
}

// walk multiplies a starting single empty partial across every item in
// items, in order, depth-first into chain bodies.
func walk(items []item, predefined map[string]string) []partial {
	results := []partial{newPartial()}
	for _, it := range items {
		results = applyItem(results, it, predefined)
	}
	return results
}

func applyItem(in []partial, it item, predefined map[string]string) []partial {
	if it.plain {
		line := it.text
		lineNo := it.lineNo
		out := make([]partial, len(in))
		for i, p := range in {
			p = p.clone()
			p.fillers = append(p.fillers, func(buf []string) { buf[lineNo-1] = line })
			out[i] = p
		}
		return out
	}
	return applyChain(in, it.chain, predefined)
}

func applyChain(in []partial, chain *condChain, predefined map[string]string) []partial {
	endifLine := chain.endifLine
	blank := func(lineNo int) func([]string) {
		return func(buf []string) { buf[lineNo-1] = "" }
	}

	if reqsPerBranch, ok := isPresenceChain(chain); ok {
		var out []partial
		hasElse := false
		for _, br := range chain.branches {
			if br.isElse {
				hasElse = true
			}
		}
		for bi, br := range chain.branches {
			for _, p := range in {
				branchPartial := p.clone()
				if !br.isElse {
					consistent := true
					for _, req := range reqsPerBranch[bi] {
						if existing, seen := branchPartial.defines[req.macro]; seen && existing != req.want {
							consistent = false
							break
						}
						branchPartial.defines[req.macro] = req.want
					}
					if !consistent {
						continue
					}
				}
				branchPartial.fillers = append(branchPartial.fillers, blank(br.lineNo))
				sub := walk(br.body, predefined)
				for _, s := range sub {
					merged := branchPartial.clone()
					for k, v := range s.defines {
						merged.defines[k] = v
					}
					merged.fillers = append(merged.fillers, s.fillers...)
					merged.fillers = append(merged.fillers, blank(endifLine))
					out = append(out, merged)
				}
			}
		}
		// A presence chain with no #else still has a "none of the
		// conditions hold" path: the body is skipped entirely and no
		// macro requirement is asserted.
		if !hasElse {
			for _, p := range in {
				branchPartial := p.clone()
				for _, br := range chain.branches {
					branchPartial.fillers = append(branchPartial.fillers, blank(br.lineNo))
				}
				branchPartial.fillers = append(branchPartial.fillers, blank(endifLine))
				out = append(out, branchPartial)
			}
		}
		return out
	}

	// Deterministic chain: evaluate each condition once, in order, and
	// pick the first true branch (or the else branch), exactly like the
	// C preprocessor does.
	chosen := -1
	for bi, br := range chain.branches {
		if br.isElse {
			chosen = bi
			break
		}
		if evalDeterministic(br.expr, predefined) {
			chosen = bi
			break
		}
	}

	var out []partial
	for _, p := range in {
		branchPartial := p.clone()
		branchPartial.fillers = append(branchPartial.fillers, func(buf []string) {
			for _, br := range chain.branches {
				buf[br.lineNo-1] = ""
			}
			buf[endifLine-1] = ""
		})
		if chosen >= 0 {
			sub := walk(chain.branches[chosen].body, predefined)
			for _, s := range sub {
				merged := branchPartial.clone()
				for k, v := range s.defines {
					merged.defines[k] = v
				}
				merged.fillers = append(merged.fillers, s.fillers...)
				out = append(out, merged)
			}
		} else {
			out = append(out, branchPartial)
		}
	}
	return out
}
