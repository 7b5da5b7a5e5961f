package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gscacco/cppcheck/checks/buffer"
	"github.com/gscacco/cppcheck/checks/class"
	"github.com/gscacco/cppcheck/checks/leak"
	"github.com/gscacco/cppcheck/checks/style"
	"github.com/gscacco/cppcheck/checks/unused"
	"github.com/gscacco/cppcheck/diagnostic"
	"github.com/gscacco/cppcheck/output"
	"github.com/gscacco/cppcheck/preprocessor"
	"github.com/gscacco/cppcheck/simplifier"
	"github.com/gscacco/cppcheck/sourcebuf"
	"github.com/gscacco/cppcheck/tokenizer"
)

// analyzeOptions configures one run of the analysis pipeline across a set
// of translation units (spec §9 "Pointer width", "Recursive analysis
// control"; SPEC_FULL.md §4 "Suppression comments").
type analyzeOptions struct {
	pointerWidth int
	defines      map[string]string
	includeDirs  []string
	showAll      bool
	maxDepth     int
}

// analyzer runs the full preprocess -> tokenize -> simplify -> check
// pipeline over every translation unit handed to analyzeFile, sharing one
// diagnostic.Sink, source buffer, and include cache across the run (spec
// §5 "Resources": one sink per analysis run; SPEC_FULL.md §3's shared
// include-body LRU cache, so a header pulled in by many translation units
// in one scan invocation is read from disk once per including directory).
type analyzer struct {
	opts    analyzeOptions
	buf     *sourcebuf.Buffer
	logger  *output.Logger
	include *preprocessor.IncludeResolver
	sink    *diagnostic.Sink

	pathIndex map[string]int
	analyzed  map[string]bool
	hadFatal  bool
}

func newAnalyzer(opts analyzeOptions, logger *output.Logger) (*analyzer, error) {
	include, err := preprocessor.NewIncludeResolver(opts.includeDirs, 256)
	if err != nil {
		return nil, fmt.Errorf("cmd: building include resolver: %w", err)
	}
	a := &analyzer{
		opts:      opts,
		buf:       sourcebuf.New(),
		logger:    logger,
		include:   include,
		pathIndex: make(map[string]int),
		analyzed:  make(map[string]bool),
	}
	a.sink = diagnostic.NewSink(nil, a.isSuppressed)
	return a, nil
}

func (a *analyzer) isSuppressed(file string, line int, id string) bool {
	idx, ok := a.pathIndex[file]
	if !ok {
		return false
	}
	return a.buf.IsSuppressed(sourcebuf.Location{FileIndex: idx, Line: line}, id)
}

func (a *analyzer) addFile(path, content string) int {
	idx := a.buf.AddFile(path, content)
	a.pathIndex[path] = idx
	return idx
}

// analyzeFile loads path, expands every reachable preprocessor
// configuration, and runs the full check suite against each one. Headers
// the file quote-includes are analyzed too, once each, so a shared header
// pulled in by many translation units is only ever tokenized and checked
// a single time per scan invocation.
func (a *analyzer) analyzeFile(path string) error {
	if a.analyzed[path] {
		return nil
	}
	a.analyzed[path] = true

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cmd: reading %s: %w", path, err)
	}
	fileIndex := a.addFile(path, string(content))
	a.logger.Debug("preprocessing %s", path)

	pp := preprocessor.New(a.opts.defines, a.include)
	result := pp.Process(string(content))

	for _, s := range result.Suppressions {
		a.buf.Suppress(sourcebuf.Location{FileIndex: fileIndex, Line: s.Line}, s.CheckID)
	}
	a.logger.Statistic("%s: %d configuration(s) enumerated", filepath.Base(path), len(result.Configurations))

	for _, cfg := range result.Configurations {
		a.analyzeConfiguration(cfg, fileIndex)
	}

	dir := filepath.Dir(path)
	for _, target := range result.IncludeTargets {
		body, ok := a.include.Resolve(dir, target)
		if !ok {
			continue
		}
		headerPath := filepath.Join(dir, target)
		if a.analyzed[headerPath] {
			continue
		}
		a.analyzed[headerPath] = true
		hdrIndex := a.addFile(headerPath, body)
		a.logger.Debug("analyzing included header %s", headerPath)
		a.analyzeConfiguration(preprocessor.Configuration{Lines: splitPreserving(body)}, hdrIndex)
	}

	return nil
}

func (a *analyzer) analyzeConfiguration(cfg preprocessor.Configuration, fileIndex int) {
	text := joinLines(cfg.Lines)

	tz := tokenizer.New(a.opts.pointerWidth)
	if err := tz.Tokenize(text, fileIndex); err != nil {
		a.hadFatal = true
		a.sink.Report(diagnostic.Record{
			Severity: diagnostic.Error,
			ID:       "syntaxError",
			Chain:    []diagnostic.Location{{File: a.buf.Path(fileIndex)}},
			Message:  err.Error(),
		})
		return
	}

	iterations := simplifier.Run(tz.Stream(), simplifier.Options{SizeOf: tz.SizeOfType})
	a.logger.Debug("%s: simplifier reached a fixed point after %d iteration(s)", a.buf.Path(fileIndex), iterations)
	tz.RebuildFunctionTable()

	class.Run(tz.Stream(), a.buf, a.sink)
	unused.Run(tz.Stream(), a.buf, a.sink)
	buffer.Run(tz.Stream(), a.buf, a.sink)
	style.Run(tz.Stream(), a.buf, a.sink)
	leak.Run(tz, a.buf, fileIndex, a.sink, a.opts.showAll, a.opts.maxDepth)
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

var sourceExtensions = map[string]bool{
	".c": true, ".cc": true, ".cpp": true, ".cxx": true,
	".h": true, ".hh": true, ".hpp": true, ".hxx": true,
}

// collectSourceFiles walks paths (files or directories), returning every
// regular file with a recognized C/C++ extension, deduplicated and in
// walk order (mirrors the teacher's cmd/ci.go filepath.Walk rule loader,
// generalized from a single extension to the full source/header set).
func collectSourceFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("cmd: %w", err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if sourceExtensions[strings.ToLower(filepath.Ext(p))] {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("cmd: walking %s: %w", root, err)
		}
	}
	return out, nil
}

func splitPreserving(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
