package placeholder

import (
	"unicode/utf8"

	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greq/env"
	"github.com/achikmagic/greq/internal/greq/httpx"
	"github.com/achikmagic/greq/internal/greq/jsonpath"
)

// Resolver resolves environment.* and dependency.*/dep.* tokens for one
// Test's substitution pass.
type Resolver struct {
	EnvScope     *env.Snapshot
	ShowWarnings bool

	// Dependency is nil when the Test has no depends-on, or when the
	// dependency failed and DependencyFailed is recorded instead.
	Dependency       *httpx.Response
	DependencyFailed bool

	dependencyWarned bool
}

// resolve implements the Resolve signature used by Substitute.
func (r *Resolver) resolve(t Token) (string, bool) {
	switch t.Scope {
	case "environment":
		v, ok := r.EnvScope.Get(t.Path)
		if !ok {
			return "", r.ShowWarnings
		}
		return v, false
	case "dependency", "dep":
		return r.resolveDependency(t.Path)
	default:
		return "", false
	}
}

func (r *Resolver) resolveDependency(path string) (string, bool) {
	if r.Dependency == nil {
		warn := !r.dependencyWarned && r.ShowWarnings
		r.dependencyWarned = true
		return "", warn
	}

	switch {
	case path == "status-code":
		return r.Dependency.StatusCodeString(), false
	case path == "latency":
		return r.Dependency.LatencyMillisString(), false
	case path == "headers":
		return r.Dependency.Headers.MapString(), false
	case path == "response-body":
		return r.Dependency.BodyString(), false
	case hasPrefix(path, "headers."):
		return r.Dependency.HeaderValue(path[len("headers."):]), false
	case hasPrefix(path, "response-body."):
		v, ok := jsonpath.Lookup(r.Dependency.Body, path[len("response-body."):])
		if !ok {
			warn := !r.dependencyWarned && r.ShowWarnings
			r.dependencyWarned = true
			return "", warn
		}
		return v, false
	default:
		warn := !r.dependencyWarned && r.ShowWarnings
		r.dependencyWarned = true
		return "", warn
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// Warning describes one substitution-time resolution gap.
type Warning struct {
	Scope string
	Path  string
}

// SubstituteTest applies substitution to every textual field §4.5 names:
// request-line URI, every Content header value, the body (when valid
// UTF-8), every set-environment.* raw value, and every footer clause
// value. It returns the accumulated Warnings for the caller to print when
// show-warnings is enabled.
func SubstituteTest(test *ast.Test, r *Resolver) []Warning {
	var warnings []Warning
	collect := func(t Token) {
		warnings = append(warnings, Warning{Scope: t.Scope, Path: t.Path})
	}

	test.Content.RequestLine.URI = Substitute(test.Content.RequestLine.URI, r.resolve, collect)

	newHeaders := &ast.HeaderList{}
	test.Content.Headers.Each(func(name, value string) {
		newHeaders.Add(name, Substitute(value, r.resolve, collect))
	})
	test.Content.Headers = newHeaders

	if test.Content.HasBody {
		if isValidUTF8(test.Content.Body) {
			test.Content.Body = []byte(Substitute(string(test.Content.Body), r.resolve, collect))
		} else if r.ShowWarnings {
			warnings = append(warnings, Warning{Scope: "body", Path: "invalid-utf8"})
		}
	}

	for i := range test.Header.SetEnvironment {
		test.Header.SetEnvironment[i].Value = Substitute(test.Header.SetEnvironment[i].Value, r.resolve, collect)
	}

	for i := range test.Footer.Clauses {
		test.Footer.Clauses[i].Value = Substitute(test.Footer.Clauses[i].Value, r.resolve, collect)
	}

	return warnings
}

func isValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}
