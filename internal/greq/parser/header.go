package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greqerr"
)

// parseHeader implements §4.2. It does not resolve extends/depends-on
// paths; it stores the raw strings for the merge engine and scheduler to
// resolve relative to the owning file.
func parseHeader(path string, lines []string) (ast.Header, error) {
	h := ast.DefaultHeader()

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			return h, greqerr.Atf(greqerr.InvalidHeaderValue, path, "header line missing ':': %q", raw)
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])

		if strings.HasPrefix(key, "set-environment.") {
			name := key[len("set-environment."):]
			h.SetEnvironment = append(h.SetEnvironment, ast.EnvAssignment{Name: name, Value: value})
			continue
		}

		switch key {
		case "project":
			h.Project = value
			h.ProjectSet = true
		case "is-http":
			b, err := parseBool(value)
			if err != nil {
				return h, greqerr.Atf(greqerr.InvalidHeaderValue, path, "is-http: %v", err)
			}
			h.IsHTTP = b
			h.IsHTTPSet = true
		case "delimiter":
			if len(value) != 1 || isAlnum(value[0]) {
				return h, greqerr.Atf(greqerr.InvalidHeaderValue, path, "delimiter must be a single non-alphanumeric character, got %q", value)
			}
			h.Delimiter = value[0]
			h.DelimiterSet = true
		case "extends":
			h.Extends = value
			h.ExtendsSet = true
		case "depends-on":
			h.DependsOn = value
			h.DependsOnSet = true
		case "allow-dependency-failure":
			b, err := parseBool(value)
			if err != nil {
				return h, greqerr.Atf(greqerr.InvalidHeaderValue, path, "allow-dependency-failure: %v", err)
			}
			h.AllowDependencyFailure = b
			h.AllowDependencyFailureSet = true
		case "show-warnings":
			b, err := parseBool(value)
			if err != nil {
				return h, greqerr.Atf(greqerr.InvalidHeaderValue, path, "show-warnings: %v", err)
			}
			h.ShowWarnings = b
			h.ShowWarningsSet = true
		case "timeout":
			n, err := parseNonNegativeUint32(value)
			if err != nil {
				return h, greqerr.Atf(greqerr.InvalidHeaderValue, path, "timeout: %v", err)
			}
			h.TimeoutMillis = n
			h.TimeoutSet = true
		case "number-of-retries":
			n, err := parseNonNegativeUint32(value)
			if err != nil {
				return h, greqerr.Atf(greqerr.InvalidHeaderValue, path, "number-of-retries: %v", err)
			}
			h.NumberOfRetries = n
			h.NumberOfRetriesSet = true
		default:
			return h, greqerr.Atf(greqerr.UnknownHeaderKey, path, "unrecognized header key %q", key)
		}
	}

	return h, nil
}

// parseBool accepts only "true"/"false" case-insensitively, per §4.2's
// narrower definition than the Rust prototype's yes/no/1/0 aliases.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("expected true or false, got %q", value)
	}
}

func parseNonNegativeUint32(value string) (uint32, error) {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("expected a non-negative integer, got %q", value)
	}
	return uint32(n), nil
}
