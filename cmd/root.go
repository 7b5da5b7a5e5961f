package cmd

import (
	"github.com/gscacco/cppcheck/analytics"
	"github.com/spf13/cobra"
)

var (
	verboseFlag bool
	Version     = "0.1.0"
	GitCommit   = "HEAD"
)

var rootCmd = &cobra.Command{
	Use:   "cppcheck",
	Short: "Static analysis for C and C++ source code",
	Long: `cppcheck is a static analyzer for C and C++ source code.

It tokenizes and simplifies each translation unit, lowers every local
variable's lifetime into a reduced statement stream, and runs a set of
rule checks over that stream: memory-leak and use-after-free detection,
class-shape rules (missing constructors, non-virtual destructors, unused
private methods), fixed-size-array overruns, unused symbols, and a set of
stylistic pattern checks.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics") //nolint:all
		verboseFlag, _ = cmd.Flags().GetBool("verbose")             //nolint:all
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)
		analytics.SetVersion(Version)
	},
}

// Execute runs the command tree, returning the first error any subcommand
// reports. main translates that into exit code 2 (spec §6 "fatal parse
// error" covers analyzer-internal fatals; a cobra/flag error is the CLI's
// own equivalent of an unrecoverable failure).
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable anonymous usage metrics")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")
}
