// Package cmd wires greq's cobra command tree, grounded on the teacher's
// apps/cli/cmd/root.go: a bare root command with subcommands registered in
// init, and version/build-time values injected by Execute from main.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "greq",
	Short: "Plain text HTTP API tests. No magic.",
	Long: `greq runs .greq files: plain-text HTTP request descriptions with
extends/depends-on inheritance and a footer of response assertions.`,
}

// Execute runs the root command, exiting the process with the root
// command's own error handling; the run subcommand sets its own exit code
// via os.Exit before returning when tests fail, so a non-nil error here
// always means a usage or setup error, not a failed assertion.
func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
