package preprocessor

// Result is the full output of preprocessing one translation unit: every
// reachable configuration plus any cppcheck-suppress markers found while
// stripping comments (suppressions are configuration-independent since
// they're attached to source lines, not macro state).
type Result struct {
	Configurations []Configuration
	Suppressions   []Suppression
	IncludeTargets []string
}

// Preprocessor turns raw source text into the set of configurations a
// tokenizer run should see, one per reachable #if/#ifdef/#ifndef fork
// (spec §4.1).
type Preprocessor struct {
	predefined map[string]string
	includes   *IncludeResolver
}

// New builds a Preprocessor. predefined holds macro names assumed defined
// before the translation unit starts (e.g. from -D flags); it may be nil.
// includes may be nil; Process does not consult it, and IncludeTargets
// lists only the quoted #include target names, without their bodies.
func New(predefined map[string]string, includes *IncludeResolver) *Preprocessor {
	if predefined == nil {
		predefined = map[string]string{}
	}
	return &Preprocessor{predefined: predefined, includes: includes}
}

// Process runs the full pipeline: comment/continuation stripping, macro
// expansion, include pass-through blanking, and configuration enumeration,
// in that order (spec §4.1).
func (p *Preprocessor) Process(text string) Result {
	scanned := joinAndStrip(text)
	expanded := expandMacros(scanned.lines)
	blanked, targets := blankIncludes(expanded)

	items := parseDocument(blanked)
	configs := enumerate(items, len(blanked), p.predefined)

	return Result{
		Configurations: configs,
		Suppressions:   scanned.suppressions,
		IncludeTargets: targets,
	}
}
