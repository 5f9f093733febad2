package parser

import (
	"strings"

	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greqerr"
)

var operatorTokens = map[string]ast.Operator{
	"equals":               ast.OpEquals,
	"contains":             ast.OpContains,
	"matches-regex":        ast.OpMatchesRegex,
	"less-than":            ast.OpLessThan,
	"less-than-or-equal":   ast.OpLessThanOrEqual,
	"greater-than":         ast.OpGreaterThan,
	"greater-than-or-equal": ast.OpGreaterThanOrEqual,
	"starts-with":          ast.OpStartsWith,
	"ends-with":            ast.OpEndsWith,
	"exists":               ast.OpExists,
}

// parseFooter implements §4.4.
func parseFooter(path string, lines []string) (ast.Footer, error) {
	var footer ast.Footer
	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		clause, err := parseClause(path, line, lineNo+1)
		if err != nil {
			return footer, err
		}
		footer.Clauses = append(footer.Clauses, clause)
	}
	return footer, nil
}

// parseClause scans, in any order, the optional or/not/case-sensitive
// modifier tokens, then the target token, operator token, a colon, and the
// value (remainder of the line, trimmed). §4.4 explicitly makes modifier
// order insignificant, unlike the fixed or-then-not ordering of the Rust
// prototype this is grounded on.
func parseClause(path, line string, lineNo int) (ast.Clause, error) {
	colonIdx := strings.Index(line, ":")
	if colonIdx < 0 {
		return ast.Clause{}, greqerr.Atf(greqerr.InvalidClause, path, "clause missing ':': %q", line)
	}
	beforeColon := strings.TrimSpace(line[:colonIdx])
	value := strings.TrimSpace(line[colonIdx+1:])

	tokens := strings.Fields(beforeColon)

	var clause ast.Clause
	clause.Line = lineNo
	clause.Value = value

	var rest []string
	for _, tok := range tokens {
		switch tok {
		case "or":
			clause.Or = true
		case "not":
			clause.Not = true
		case "case-sensitive":
			clause.CaseSensitive = true
		default:
			rest = append(rest, tok)
		}
	}

	if len(rest) != 2 {
		return ast.Clause{}, greqerr.Atf(greqerr.InvalidClause, path, "expected target and operator, got %q", beforeColon)
	}

	target, err := parseTarget(path, rest[0])
	if err != nil {
		return ast.Clause{}, err
	}
	clause.Target = target

	op, ok := operatorTokens[rest[1]]
	if !ok {
		return ast.Clause{}, greqerr.Atf(greqerr.InvalidClause, path, "unknown operator %q", rest[1])
	}
	clause.Operator = op

	return clause, nil
}

func parseTarget(path, token string) (ast.Target, error) {
	switch token {
	case "status-code":
		return ast.Target{Kind: ast.TargetStatusCode}, nil
	case "latency":
		return ast.Target{Kind: ast.TargetLatency}, nil
	case "headers":
		return ast.Target{Kind: ast.TargetHeaders}, nil
	case "response-body":
		return ast.Target{Kind: ast.TargetResponseBody}, nil
	}
	if strings.HasPrefix(token, "headers.") {
		return ast.Target{Kind: ast.TargetHeader, Path: token[len("headers."):]}, nil
	}
	if strings.HasPrefix(token, "response-body.") {
		return ast.Target{Kind: ast.TargetResponseBodyPath, Path: token[len("response-body."):]}, nil
	}
	return ast.Target{}, greqerr.Atf(greqerr.InvalidClause, path, "unknown target %q", token)
}
