package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"livemark/internal/lint"
	"livemark/internal/report"
)

var lintCmd = &cobra.Command{
	Use:   "lint <file>...",
	Short: "Validate documents and report findings",
	Long: `Lint runs the structural validator over each file and prints the
findings. The exit status is non-zero when any error-severity finding is
reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().Bool("no-color", false, "disable colored output")
	lintCmd.Flags().Bool("quiet", false, "suppress the summary line")
}

func runLint(cmd *cobra.Command, args []string) error {
	noColor, _ := cmd.Flags().GetBool("no-color")
	quiet, _ := cmd.Flags().GetBool("quiet")
	reporter := report.NewReporter(os.Stdout, noColor)

	totalErrs := 0
	var all []lint.Finding
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		findings := lint.Validate(string(data))
		totalErrs += reporter.Report(path, string(data), findings)
		all = append(all, findings...)
	}
	if !quiet {
		reporter.Summary(all)
	}

	if totalErrs > 0 {
		cmd.SilenceErrors = true
		return fmt.Errorf("%d error findings", totalErrs)
	}
	return nil
}
