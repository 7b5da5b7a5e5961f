package preprocessor

import (
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// IncludeResolver resolves "#include \"x.h\"" targets against a search
// path, caching file contents so headers shared by many translation units
// are read from disk once (SPEC_FULL.md §3 domain stack: golang-lru backs
// this the same way the teacher caches repeated reads).
type IncludeResolver struct {
	searchDirs []string
	cache      *lru.Cache[string, string]
}

// NewIncludeResolver builds a resolver that searches dirs, in order, for
// quoted includes, caching up to size resolved file bodies.
func NewIncludeResolver(dirs []string, size int) (*IncludeResolver, error) {
	if size <= 0 {
		size = 256
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &IncludeResolver{searchDirs: dirs, cache: c}, nil
}

// Resolve returns the contents of a quoted include target, relative first
// to fromDir (the including file's directory) and then to the configured
// search path. System includes ("<...>") are never resolved here; callers
// should only invoke this for quote-form targets (spec §4.1 "#include
// pass-through marker").
func (r *IncludeResolver) Resolve(fromDir, target string) (string, bool) {
	key := target + "\x00" + fromDir
	if body, ok := r.cache.Get(key); ok {
		return body, true
	}
	candidates := append([]string{fromDir}, r.searchDirs...)
	for _, dir := range candidates {
		path := filepath.Join(dir, target)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		body := string(data)
		r.cache.Add(key, body)
		return body, true
	}
	return "", false
}

// includeTarget extracts the quoted filename from a "#include \"x.h\""
// directive line, or ok=false for angle-bracket or malformed includes.
func includeTarget(directive string) (string, bool) {
	rest := strings.TrimSpace(strings.TrimPrefix(directive, "include"))
	if len(rest) < 2 || rest[0] != '"' {
		return "", false
	}
	end := strings.IndexByte(rest[1:], '"')
	if end < 0 {
		return "", false
	}
	return rest[1 : end+1], true
}

// blankIncludes replaces every quote-form #include line with a blank line
// (the pass-through marker of spec §4.1) while recording the targets in
// encounter order, without touching angle-bracket includes (left as plain
// text, since they name system headers outside the analyzed tree).
func blankIncludes(lines []string) (out []string, targets []string) {
	out = make([]string, len(lines))
	copy(out, lines)
	for i, line := range out {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		directive := strings.TrimSpace(trimmed[1:])
		if !hasDirectivePrefix(directive, "include") {
			continue
		}
		if target, ok := includeTarget(directive); ok {
			targets = append(targets, target)
			out[i] = ""
		}
	}
	return out, targets
}
