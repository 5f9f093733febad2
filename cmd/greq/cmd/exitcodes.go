package cmd

// Exit codes, grounded on the teacher's apps/cli/cmd/exitcodes.go.
const (
	ExitSuccess     = 0
	ExitTestFailure = 1
	ExitParseError  = 2
	ExitConfigError = 3
	ExitUsageError  = 64
)
