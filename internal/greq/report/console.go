// Package report formats a run's Results to the terminal, grounded on the
// teacher's packages/output/console.go: fatih/color for symbols, one line
// per Test followed by the reasons of any failed clauses, a verbose mode
// that adds the response status and unresolved-placeholder warnings, and a
// trailing summary block.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/achikmagic/greq/internal/greq/scheduler"
)

// Console formats Results to a writer, following the teacher's functional
// options construction.
type Console struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

// Option configures a Console.
type Option func(*Console)

// New builds a Console writing to os.Stdout by default.
func New(opts ...Option) *Console {
	c := &Console{writer: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}
	if c.noColor {
		color.NoColor = true
	}
	return c
}

// WithWriter overrides the destination writer.
func WithWriter(w io.Writer) Option { return func(c *Console) { c.writer = w } }

// WithVerbose adds the response status line and unresolved-placeholder
// warnings; failed-clause reasons are printed either way.
func WithVerbose(v bool) Option { return func(c *Console) { c.verbose = v } }

// WithNoColor disables ANSI color codes, for non-tty output.
func WithNoColor(nc bool) Option { return func(c *Console) { c.noColor = nc } }

// PrintResult renders one Test's outcome.
func (c *Console) PrintResult(r *scheduler.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if r.Skipped {
		fmt.Fprintf(c.writer, "  %s %s %s\n", yellow("-"), r.Path, yellow(fmt.Sprintf("(%v)", r.Err)))
		return
	}
	if r.Err != nil {
		fmt.Fprintf(c.writer, "  %s %s %s\n", red("x"), r.Path, red(fmt.Sprintf("(%v)", r.Err)))
		c.printWarnings(r)
		return
	}

	symbol := green("✓")
	if r.Verdict == nil || !r.Verdict.Passed {
		symbol = red("✗")
	}
	fmt.Fprintf(c.writer, "  %s %s %s\n", symbol, r.Path, cyan(fmt.Sprintf("(%sms)", r.Verdict.Latency)))

	if c.verbose {
		fmt.Fprintf(c.writer, "    Status: %d\n", r.Verdict.StatusCode)
	}

	if r.Verdict != nil && !r.Verdict.Passed {
		for _, cr := range r.Verdict.Results {
			if !cr.Passed {
				fmt.Fprintf(c.writer, "    %s clause %d: %s\n", red("→"), cr.Index, cr.Reason)
			}
		}
	}

	c.printWarnings(r)
}

func (c *Console) printWarnings(r *scheduler.Result) {
	if !c.verbose || len(r.Warnings) == 0 {
		return
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	for _, w := range r.Warnings {
		fmt.Fprintf(c.writer, "    %s unresolved $(%s.%s)\n", yellow("!"), w.Scope, w.Path)
	}
}

// Summary is the aggregate outcome of a run: pass/fail counts plus latency
// percentiles over every Test that actually produced a Response, computed
// with an HdrHistogram the way the teacher's stress package tracks request
// latency distributions.
type Summary struct {
	RunID                            string
	Passed, Failed, Errored, Skipped int
	P50, P90, P99                    int64 // milliseconds
}

// Summarize aggregates a slice of Results. Each Summary carries a fresh
// correlation ID, printed at the head of the summary block, so separate
// invocations can be told apart in collected output.
func Summarize(results []*scheduler.Result) Summary {
	hist := hdrhistogram.New(1, 60_000, 3)
	s := Summary{RunID: uuid.NewString()}
	for _, r := range results {
		switch {
		case r.Skipped:
			s.Skipped++
		case r.Err != nil:
			s.Errored++
		case r.Verdict != nil && r.Verdict.Passed:
			s.Passed++
		default:
			s.Failed++
		}
		if r.Response != nil {
			_ = hist.RecordValue(r.Response.Latency.Milliseconds())
		}
	}
	s.P50 = hist.ValueAtQuantile(50)
	s.P90 = hist.ValueAtQuantile(90)
	s.P99 = hist.ValueAtQuantile(99)
	return s
}

// PrintSummary renders the trailing "Tests: N passed, ..." block.
func (c *Console) PrintSummary(s Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(c.writer, "\nRun %s\n", s.RunID)
	fmt.Fprintf(c.writer, "Tests: ")
	if s.Passed > 0 {
		fmt.Fprintf(c.writer, "%s, ", green(fmt.Sprintf("%d passed", s.Passed)))
	}
	if s.Failed > 0 {
		fmt.Fprintf(c.writer, "%s, ", red(fmt.Sprintf("%d failed", s.Failed)))
	}
	if s.Errored > 0 {
		fmt.Fprintf(c.writer, "%s, ", red(fmt.Sprintf("%d errored", s.Errored)))
	}
	if s.Skipped > 0 {
		fmt.Fprintf(c.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", s.Skipped)))
	}
	total := s.Passed + s.Failed + s.Errored + s.Skipped
	fmt.Fprintf(c.writer, "%d total\n", total)
	fmt.Fprintf(c.writer, "Latency: p50=%dms p90=%dms p99=%dms\n", s.P50, s.P90, s.P99)
}

// FormatError prints a top-level, non-Test-specific error (e.g. a file that
// could not be read at all before scheduling began).
func (c *Console) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(c.writer, "%s %v\n", red("Error:"), err)
}
