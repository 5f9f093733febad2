// Package greqerr defines the closed error taxonomy shared across the
// parsing, merging, scheduling, and execution stages of greq.
package greqerr

import "fmt"

// Kind tags an Error with one of the taxonomy's closed set of values so
// callers can branch on failure class with errors.As instead of string
// matching.
type Kind string

const (
	MalformedFile         Kind = "malformed-file"
	UnknownHeaderKey       Kind = "unknown-header-key"
	InvalidHeaderValue     Kind = "invalid-header-value"
	InvalidRequestLine     Kind = "invalid-request-line"
	MissingHost            Kind = "missing-host"
	InvalidClause          Kind = "invalid-clause"
	FileNotFound           Kind = "file-not-found"
	FileReadError          Kind = "file-read-error"
	CycleDetected          Kind = "cycle-detected"
	DependencyFailed       Kind = "dependency-failed"
	DependencyParseFailed  Kind = "dependency-parse-failed"
	HTTPTransport          Kind = "http-transport"
	Timeout                Kind = "timeout"
	HookFailed             Kind = "hook-failed"
)

// Error is the single tagged error type used across the pipeline. Path is
// the source file the error concerns, when applicable; Cause wraps an
// underlying error for errors.Unwrap.
type Error struct {
	Kind    Kind
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error without a path.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At attaches a source path to an Error.
func At(kind Kind, path, message string) *Error {
	return &Error{Kind: kind, Path: path, Message: message}
}

// Atf attaches a source path to a formatted Error.
func Atf(kind Kind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an Error built with At.
func Wrap(kind Kind, path string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Message: cause.Error(), Cause: cause}
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
