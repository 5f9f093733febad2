package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/achikmagic/greq/internal/greq/config"
	"github.com/achikmagic/greq/internal/greq/env"
	"github.com/achikmagic/greq/internal/greq/httpx"
	"github.com/achikmagic/greq/internal/greq/report"
	"github.com/achikmagic/greq/internal/greq/scheduler"
)

var runCmd = &cobra.Command{
	Use:   "run <file|directory>...",
	Short: "Run .greq files and report pass/fail",
	Long: `Run executes one or more .greq files, resolving their extends and
depends-on relationships, substituting placeholders, issuing the described
HTTP requests, and evaluating the footer assertions against the responses.

Examples:
  greq run api.greq
  greq run api.greq --env-file staging.yaml
  greq run ./tests/ --verbose
  greq run api.greq --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

var (
	envFileFlag     string
	configFlag      string
	verboseFlag     bool
	noColorFlag     bool
	concurrencyFlag int
	watchFlag       bool
)

func init() {
	runCmd.Flags().StringVar(&envFileFlag, "env-file", "", "YAML file of NAME: value environment assignments")
	runCmd.Flags().StringVar(&configFlag, "config", "", "path to a greq config file")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "print response status and unresolved-placeholder warnings")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	runCmd.Flags().IntVarP(&concurrencyFlag, "concurrency", "c", 0, "bounded worker pool size (0 selects a CPU-based default)")
	runCmd.Flags().BoolVar(&watchFlag, "watch", false, "re-run on file change")
}

func runCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .greq files found")
	}

	cfg, err := config.Load(configFlag, ".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if concurrencyFlag == 0 {
		concurrencyFlag = cfg.Concurrency
	}

	scope := env.NewScope()
	for k, v := range cfg.Environment {
		scope.Set(k, v)
	}
	if envFileFlag != "" {
		vars, err := config.LoadEnvFile(envFileFlag)
		if err != nil {
			return fmt.Errorf("loading --env-file: %w", err)
		}
		for k, v := range vars {
			scope.Set(k, v)
		}
	}

	console := report.New(
		report.WithWriter(cmd.OutOrStdout()),
		report.WithVerbose(verboseFlag),
		report.WithNoColor(noColorFlag),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode := runOnce(ctx, console, scope, files)
	if !watchFlag {
		if exitCode != ExitSuccess {
			os.Exit(exitCode)
		}
		return nil
	}

	return watchAndRerun(ctx, console, scope, files)
}

// runOnce builds a fresh Runner (the loader's caches are not meant to
// survive across independent invocations) and executes every file,
// returning the process exit code the caller should use.
func runOnce(ctx context.Context, console *report.Console, scope *env.Scope, files []string) int {
	client := httpx.NewClient()
	runner := scheduler.NewRunner(client, scope, concurrencyFlag)

	results, err := runner.Run(ctx, files)
	if err != nil {
		console.FormatError(err)
		return ExitConfigError
	}

	for _, r := range results {
		console.PrintResult(r)
	}
	summary := report.Summarize(results)
	console.PrintSummary(summary)

	if summary.Failed > 0 || summary.Errored > 0 {
		return ExitTestFailure
	}
	return ExitSuccess
}

// watchAndRerun implements the supplemented --watch surface (§12),
// grounded on the teacher's run.go fsnotify usage and debounced with the
// same style of fixed delay as retryDelay in the HTTP client.
func watchAndRerun(ctx context.Context, console *report.Console, scope *env.Scope, files []string) error {
	const debounce = 300 * time.Millisecond

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	for _, f := range files {
		if err := watcher.Add(f); err != nil {
			return fmt.Errorf("watching %s: %w", f, err)
		}
	}

	runOnce(ctx, console, scope, files)

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				runOnce(ctx, console, scope, files)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			console.FormatError(err)
		}
	}
}
