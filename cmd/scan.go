package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gscacco/cppcheck/analytics"
	"github.com/gscacco/cppcheck/diagnostic"
	"github.com/gscacco/cppcheck/output"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <paths...>",
	Short: "Scan C/C++ source files and directories for defects",
	Long: `Scan tokenizes, simplifies, and runs every rule check against each
translation unit reachable from the given paths (files or directories).

Examples:
  # Scan a single file
  cppcheck scan main.c

  # Scan a whole project directory
  cppcheck scan ./src

  # SARIF output for CI integration
  cppcheck scan ./src --output sarif --output-file results.sarif`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := scanOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		return runScan(cmd, args, opts)
	},
}

// scanFlags holds the raw --output/--fail-on/etc flag values shared by
// both scan and ci (spec §9 "Pointer width", "Recursive analysis
// control"; SPEC_FULL.md §3 domain stack's cobra+pflag CLI).
type scanFlags struct {
	outputFormat string
	outputFile   string
	failOn       string
	showAll      bool
	maxDepth     int
	pointerSize  int
	defines      []string
	includeDirs  []string
	debug        bool
}

func addScanFlags(c *cobra.Command, defaultFormat string) {
	c.Flags().StringP("output", "o", defaultFormat, "Output format: text, xml, json, csv, or sarif")
	c.Flags().StringP("output-file", "f", "", "Output file path (default: stdout)")
	c.Flags().String("fail-on", "", "Comma-separated severities that cause a nonzero exit (error,possible-error,style,possible-style)")
	c.Flags().Bool("show-all", false, "Also report possible-error leak findings found only under the relaxed reduction pass")
	c.Flags().Int("max-depth", 32, "Maximum recursive call-splicing depth")
	c.Flags().Int("pointer-size", 8, "Pointer width in bytes (4 or 8)")
	c.Flags().StringArrayP("define", "D", nil, "Predefine a macro as NAME=VALUE (repeatable)")
	c.Flags().StringArrayP("include-dir", "I", nil, "Add a directory to the quoted-#include search path (repeatable)")
	c.Flags().Bool("debug", false, "Debug-level logging")
}

func scanOptionsFromFlags(cmd *cobra.Command) (scanFlags, error) {
	outputFormat, _ := cmd.Flags().GetString("output")
	outputFile, _ := cmd.Flags().GetString("output-file")
	failOn, _ := cmd.Flags().GetString("fail-on")
	showAll, _ := cmd.Flags().GetBool("show-all")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	pointerSize, _ := cmd.Flags().GetInt("pointer-size")
	defines, _ := cmd.Flags().GetStringArray("define")
	includeDirs, _ := cmd.Flags().GetStringArray("include-dir")
	debug, _ := cmd.Flags().GetBool("debug")

	if pointerSize != 4 && pointerSize != 8 {
		return scanFlags{}, fmt.Errorf("--pointer-size must be 4 or 8, got %d", pointerSize)
	}
	switch outputFormat {
	case "text", "xml", "json", "csv", "sarif":
	default:
		return scanFlags{}, fmt.Errorf("--output must be 'text', 'xml', 'json', 'csv', or 'sarif'")
	}

	return scanFlags{
		outputFormat: outputFormat,
		outputFile:   outputFile,
		failOn:       failOn,
		showAll:      showAll,
		maxDepth:     maxDepth,
		pointerSize:  pointerSize,
		defines:      defines,
		includeDirs:  includeDirs,
		debug:        debug,
	}, nil
}

func parseDefines(raw []string) map[string]string {
	out := make(map[string]string, len(raw))
	for _, d := range raw {
		if name, value, ok := strings.Cut(d, "="); ok {
			out[name] = value
		} else {
			out[d] = "1"
		}
	}
	return out
}

// runScan drives one full scan invocation: collect files, run the
// pipeline, render output, report analytics, and set the process exit
// code (spec §6 "Exit codes").
func runScan(cmd *cobra.Command, paths []string, flags scanFlags) error {
	start := time.Now()

	outOpts := output.NewDefaultOptions()
	outOpts.Format = output.OutputFormat(flags.outputFormat)
	outOpts.FailOn = output.ParseFailOn(flags.failOn)
	if flags.debug {
		outOpts.Verbosity = output.VerbosityDebug
	} else if verboseFlag {
		outOpts.Verbosity = output.VerbosityVerbose
	}
	logger := output.NewLogger(outOpts.Verbosity)
	if outOpts.ShouldShowDebug() {
		logger.Debug("output format %s, fail-on %v", outOpts.Format, outOpts.FailOn)
	}

	failOn := outOpts.FailOn
	if err := output.ValidateSeverities(failOn); err != nil {
		return err
	}

	files, err := collectSourceFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no C/C++ source files found under %s", strings.Join(paths, ", "))
	}
	logger.Progress("Scanning %d file(s)", len(files))

	a, err := newAnalyzer(analyzeOptions{
		pointerWidth: flags.pointerSize,
		defines:      parseDefines(flags.defines),
		includeDirs:  flags.includeDirs,
		showAll:      flags.showAll,
		maxDepth:     flags.maxDepth,
	}, logger)
	if err != nil {
		return err
	}

	stopAnalysis := logger.StartTiming("analysis")
	for _, f := range files {
		if err := a.analyzeFile(f); err != nil {
			return fmt.Errorf("analyzing %s: %w", f, err)
		}
		analytics.ReportEvent(analytics.AnalyzedFile)
		logger.Debug("analyzed %s", f)
	}
	stopAnalysis()

	records := a.sink.Records()
	stopRender := logger.StartTiming("render")
	err = renderRecords(cmd, records, flags)
	stopRender()
	if err != nil {
		return err
	}
	logger.PrintTimingSummary()

	severityBreakdown := map[string]int{}
	for _, r := range records {
		severityBreakdown[r.Severity.String()]++
	}
	analytics.ReportEventWithProperties(analytics.EmittedDiagnostic, map[string]interface{}{
		"duration_ms":     time.Since(start).Milliseconds(),
		"files_scanned":   len(files),
		"diagnostics":     len(records),
		"had_fatal_error": a.hadFatal,
		"output_format":   flags.outputFormat,
		"error_count":     severityBreakdown["error"],
		"style_count":     severityBreakdown["style"],
	})
	if a.hadFatal {
		analytics.ReportEvent(analytics.FatalError)
	}

	exitCode := output.DetermineExitCode(records, failOn, a.hadFatal)
	logger.Statistic("%d diagnostic(s) across %d file(s)", len(records), len(files))
	if exitCode != output.ExitCodeSuccess {
		os.Exit(int(exitCode))
	}
	return nil
}

func renderRecords(cmd *cobra.Command, records []diagnostic.Record, flags scanFlags) error {
	w := cmd.OutOrStdout()
	var file *os.File
	if flags.outputFile != "" {
		f, err := os.Create(flags.outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		file = f
		w = f
	}

	switch flags.outputFormat {
	case "xml":
		return diagnostic.FormatXML(w, records)
	case "json":
		return diagnostic.FormatJSON(w, records)
	case "csv":
		return diagnostic.FormatCSV(w, records)
	case "sarif":
		return diagnostic.FormatSARIF(w, records)
	default:
		diagnostic.FormatPlain(w, records, file == nil && !color.NoColor)
		return nil
	}
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addScanFlags(scanCmd, "text")
}
