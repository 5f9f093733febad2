// Package assertions implements §4.10: evaluating a parsed Footer against
// a Response, producing a Verdict.
package assertions

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greq/httpx"
	"github.com/achikmagic/greq/internal/greq/jsonpath"
)

// ClauseResult is the per-clause record in a Verdict, per §3.
type ClauseResult struct {
	Index  int
	Passed bool
	Reason string
}

// Verdict is the complete per-test outcome, per §3.
type Verdict struct {
	StatusCode int
	Latency    string
	Results    []ClauseResult
	Passed     bool
}

// Evaluate groups footer.Clauses into OR-groups (§4.10: a clause's or flag
// replaces the previous AND-boundary with OR) and evaluates every clause —
// not just until the first failure — so every index in the returned
// Verdict.Results corresponds 1:1 with footer.Clauses, matching §3's Verdict
// shape (a full per-clause result list, unlike the Rust prototype this is
// grounded on, which short-circuits at the first failing group).
func Evaluate(footer ast.Footer, resp *httpx.Response) Verdict {
	v := Verdict{
		StatusCode: resp.StatusCode,
		Latency:    resp.LatencyMillisString(),
	}

	groups := groupClauses(footer.Clauses)

	allGroupsPassed := true
	idx := 0
	for _, group := range groups {
		groupPassed := false
		for _, c := range group {
			result := evaluateClause(idx, c, resp)
			v.Results = append(v.Results, result)
			if result.Passed {
				groupPassed = true
			}
			idx++
		}
		if !groupPassed {
			allGroupsPassed = false
		}
	}

	v.Passed = allGroupsPassed
	return v
}

// groupClauses splits clauses into maximal runs where every clause after
// the first in a run carries Or=true; the first clause in the whole
// footer never starts an or-group of its own regardless of its stored Or
// flag, per the first-clause invariant in §8.
func groupClauses(clauses []ast.Clause) [][]ast.Clause {
	var groups [][]ast.Clause
	for i, c := range clauses {
		if i > 0 && c.Or {
			last := len(groups) - 1
			groups[last] = append(groups[last], c)
			continue
		}
		groups = append(groups, []ast.Clause{c})
	}
	return groups
}

func evaluateClause(idx int, c ast.Clause, resp *httpx.Response) ClauseResult {
	actual, scalar := resolveTarget(c.Target, resp)
	if !scalar {
		return applyNot(idx, c, false, "target is not scalar")
	}

	passed, reason := applyOperator(c, actual)
	return applyNot(idx, c, passed, reason)
}

func applyNot(idx int, c ast.Clause, passed bool, reason string) ClauseResult {
	if c.Not {
		passed = !passed
	}
	return ClauseResult{Index: idx, Passed: passed, Reason: reason}
}

// resolveTarget resolves a Target to its string form. The second return
// value is false when the target resolved to a JSON object/array rather
// than a scalar, per §9's Design Notes.
func resolveTarget(t ast.Target, resp *httpx.Response) (string, bool) {
	switch t.Kind {
	case ast.TargetStatusCode:
		return resp.StatusCodeString(), true
	case ast.TargetLatency:
		return resp.LatencyMillisString(), true
	case ast.TargetHeaders:
		return resp.Headers.MapString(), true
	case ast.TargetHeader:
		return resp.HeaderValue(t.Path), true
	case ast.TargetResponseBody:
		return resp.BodyString(), true
	case ast.TargetResponseBodyPath:
		v, ok := resp.JSONPath(t.Path)
		if !ok {
			return "", true
		}
		if r, err := jsonpath.Navigate(gjson.ParseBytes(resp.Body), t.Path); err == nil && (r.IsObject() || r.IsArray()) {
			return v, false
		}
		return v, true
	default:
		return "", true
	}
}

func applyOperator(c ast.Clause, actual string) (bool, string) {
	expected := c.Value
	switch c.Operator {
	case ast.OpEquals:
		if eqFold(actual, expected, c.CaseSensitive) {
			return true, ""
		}
		return false, fmt.Sprintf("expected %q, got %q", expected, actual)
	case ast.OpContains:
		if containsFold(actual, expected, c.CaseSensitive) {
			return true, ""
		}
		return false, fmt.Sprintf("expected %q to contain %q", actual, expected)
	case ast.OpStartsWith:
		if hasPrefixFold(actual, expected, c.CaseSensitive) {
			return true, ""
		}
		return false, fmt.Sprintf("expected %q to start with %q", actual, expected)
	case ast.OpEndsWith:
		if hasSuffixFold(actual, expected, c.CaseSensitive) {
			return true, ""
		}
		return false, fmt.Sprintf("expected %q to end with %q", actual, expected)
	case ast.OpMatchesRegex:
		re, err := regexp.Compile(expected)
		if err != nil {
			return false, fmt.Sprintf("invalid regex %q: %v", expected, err)
		}
		if re.MatchString(actual) {
			return true, ""
		}
		return false, fmt.Sprintf("expected %q to match /%s/", actual, expected)
	case ast.OpLessThan, ast.OpLessThanOrEqual, ast.OpGreaterThan, ast.OpGreaterThanOrEqual:
		return applyNumeric(c.Operator, actual, expected)
	case ast.OpExists:
		return applyExists(actual, expected)
	default:
		return false, "unknown operator"
	}
}

func applyNumeric(op ast.Operator, actual, expected string) (bool, string) {
	a, errA := strconv.ParseInt(strings.TrimSpace(actual), 10, 64)
	e, errE := strconv.ParseInt(strings.TrimSpace(expected), 10, 64)
	if errA != nil || errE != nil {
		return false, fmt.Sprintf("cannot compare %q and %q numerically", actual, expected)
	}
	var pass bool
	switch op {
	case ast.OpLessThan:
		pass = a < e
	case ast.OpLessThanOrEqual:
		pass = a <= e
	case ast.OpGreaterThan:
		pass = a > e
	case ast.OpGreaterThanOrEqual:
		pass = a >= e
	}
	if pass {
		return true, ""
	}
	return false, fmt.Sprintf("expected %d %s %d to hold", a, op, e)
}

func applyExists(actual, expected string) (bool, string) {
	expectedExists, err := strconv.ParseBool(strings.ToLower(expected))
	if err != nil {
		return false, fmt.Sprintf("exists requires a boolean value, got %q", expected)
	}
	actualExists := actual != ""
	if actualExists == expectedExists {
		return true, ""
	}
	return false, fmt.Sprintf("expected exists:%v, target presence was %v", expectedExists, actualExists)
}

func eqFold(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func containsFold(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(a, b)
	}
	return strings.Contains(strings.ToLower(a), strings.ToLower(b))
}

func hasPrefixFold(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.HasPrefix(a, b)
	}
	return strings.HasPrefix(strings.ToLower(a), strings.ToLower(b))
}

func hasSuffixFold(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.HasSuffix(a, b)
	}
	return strings.HasSuffix(strings.ToLower(a), strings.ToLower(b))
}
