package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/achikmagic/greq/internal/greq/scheduler"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>...",
	Short: "Parse .greq files and report syntax errors without executing them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .greq files found")
	}

	results := scheduler.Validate(files)
	hasErrors := false
	for _, file := range files {
		if err := results[file]; err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
	}

	if hasErrors {
		os.Exit(ExitParseError)
	}
	return nil
}

// collectFiles expands args (files or directories) into a flat list of
// .greq file paths in argument order, each directory walked in lexical
// order, grounded on the teacher's apps/cli/cmd/run.go file collection
// helper.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.Walk(arg, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && strings.HasSuffix(path, ".greq") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
