// Package main is the entry point for the livemark CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "livemark",
	Short: "Live markup preview and diagnostics engine",
	Long: `Livemark renders markup documents to line-addressable HTML, keeps a
browser preview in sync with the source buffer, and publishes structural
diagnostics as the document changes.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version + " (" + commit + ")"

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(renderCmd)

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
