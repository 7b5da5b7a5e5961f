package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ciCmd = &cobra.Command{
	Use:   "ci <paths...>",
	Short: "Scan for CI pipelines: SARIF output and fail-on-error by default",
	Long: `ci runs the same pipeline as scan, tuned for automated pipelines: it
defaults to SARIF output (consumable by GitHub code scanning and similar
tools) and fails the build on any error-severity diagnostic unless
--fail-on overrides the set of severities that matter.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failOn, _ := cmd.Flags().GetString("fail-on")
		if failOn == "" {
			if err := cmd.Flags().Set("fail-on", "error"); err != nil {
				return fmt.Errorf("cmd: %w", err)
			}
		}
		opts, err := scanOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		return runScan(cmd, args, opts)
	},
}

func init() {
	rootCmd.AddCommand(ciCmd)
	addScanFlags(ciCmd, "sarif")
}
