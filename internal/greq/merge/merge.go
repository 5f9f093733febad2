// Package merge implements §4.6: combining a base Test with a child Test
// that declared extends into a single merged Test.
package merge

import (
	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greqerr"
)

// Merge produces M = base (B) extended by child (C). Merge is not
// commutative: child values win for anything it explicitly set.
//
// The footer rule here is the one place this deliberately departs from the
// original Rust prototype's behavior (full footer replacement when the
// child declares any clauses): §4.6 requires concatenation, base clauses
// first, so that is what this does.
func Merge(base, child *ast.Test) (*ast.Test, error) {
	if base == nil {
		return child, nil
	}

	merged := &ast.Test{Path: child.Path}

	merged.Header = mergeHeader(base.Header, child.Header)

	content, err := mergeContent(child.Path, base.Content, child.Content)
	if err != nil {
		return nil, err
	}
	merged.Content = content

	merged.Footer = mergeFooter(base.Footer, child.Footer)

	return merged, nil
}

func mergeHeader(b, c ast.Header) ast.Header {
	m := b

	if c.ProjectSet {
		m.Project = c.Project
		m.ProjectSet = true
	}
	if c.IsHTTPSet {
		m.IsHTTP = c.IsHTTP
		m.IsHTTPSet = true
	}
	if c.DelimiterSet {
		m.Delimiter = c.Delimiter
		m.DelimiterSet = true
	}
	if c.AllowDependencyFailureSet {
		m.AllowDependencyFailure = c.AllowDependencyFailure
		m.AllowDependencyFailureSet = true
	}
	if c.ShowWarningsSet {
		m.ShowWarnings = c.ShowWarnings
		m.ShowWarningsSet = true
	}
	if c.TimeoutSet {
		m.TimeoutMillis = c.TimeoutMillis
		m.TimeoutSet = true
	}
	if c.NumberOfRetriesSet {
		m.NumberOfRetries = c.NumberOfRetries
		m.NumberOfRetriesSet = true
	}
	if c.DependsOnSet {
		m.DependsOn = c.DependsOn
		m.DependsOnSet = true
	}

	// extends is dropped from the merged header: the chain has already
	// been resolved by the time Merge runs.
	m.Extends = ""
	m.ExtendsSet = false

	// set-environment.* concatenates: base's entries first, then child's.
	m.SetEnvironment = append(append([]ast.EnvAssignment{}, b.SetEnvironment...), c.SetEnvironment...)

	return m
}

func mergeContent(path string, b, c ast.Content) (ast.Content, error) {
	m := ast.NewContent()

	switch {
	case c.RequestLine.Present:
		m.RequestLine = c.RequestLine
	case b.RequestLine.Present:
		m.RequestLine = b.RequestLine
	default:
		return m, greqerr.At(greqerr.InvalidRequestLine, path, "neither base nor child defines a request line")
	}

	// Headers start from base's multi-map; child overrides per name.
	m.Headers = b.Headers.Clone()
	c.Headers.Each(func(name, value string) {
		m.Headers.Set(name, value)
	})

	if c.HasBody {
		m.Body = c.Body
		m.HasBody = true
	} else if b.HasBody {
		m.Body = b.Body
		m.HasBody = true
	}

	return m, nil
}

func mergeFooter(b, c ast.Footer) ast.Footer {
	return ast.Footer{
		Clauses: append(append([]ast.Clause{}, b.Clauses...), c.Clauses...),
	}
}
