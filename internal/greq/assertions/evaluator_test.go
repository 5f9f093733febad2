package assertions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greq/httpx"
)

func newResponse(status int, body string, latency time.Duration) *httpx.Response {
	h := &ast.HeaderList{}
	h.Add("Content-Type", "application/json")
	return &httpx.Response{StatusCode: status, Headers: h, Body: []byte(body), Latency: latency}
}

func TestEvaluate_AllClausesPass(t *testing.T) {
	footer := ast.Footer{Clauses: []ast.Clause{
		{Target: ast.Target{Kind: ast.TargetStatusCode}, Operator: ast.OpEquals, Value: "200"},
	}}
	v := Evaluate(footer, newResponse(200, `{}`, 10*time.Millisecond))
	require.Len(t, v.Results, 1)
	assert.True(t, v.Passed)
}

func TestEvaluate_OrGroupPassesIfAnyMemberPasses(t *testing.T) {
	footer := ast.Footer{Clauses: []ast.Clause{
		{Target: ast.Target{Kind: ast.TargetStatusCode}, Operator: ast.OpEquals, Value: "500"},
		{Or: true, Target: ast.Target{Kind: ast.TargetStatusCode}, Operator: ast.OpEquals, Value: "200"},
	}}
	v := Evaluate(footer, newResponse(200, `{}`, 0))
	require.Len(t, v.Results, 2)
	assert.True(t, v.Passed)
	assert.False(t, v.Results[0].Passed)
	assert.True(t, v.Results[1].Passed)
}

func TestEvaluate_EveryClauseEvaluatedNotFailFast(t *testing.T) {
	footer := ast.Footer{Clauses: []ast.Clause{
		{Target: ast.Target{Kind: ast.TargetStatusCode}, Operator: ast.OpEquals, Value: "500"},
		{Target: ast.Target{Kind: ast.TargetLatency}, Operator: ast.OpLessThan, Value: "1000"},
	}}
	v := Evaluate(footer, newResponse(200, `{}`, 10*time.Millisecond))
	require.Len(t, v.Results, 2)
	assert.False(t, v.Passed)
	assert.False(t, v.Results[0].Passed)
	assert.True(t, v.Results[1].Passed)
}

func TestEvaluate_NotInvertsResult(t *testing.T) {
	footer := ast.Footer{Clauses: []ast.Clause{
		{Not: true, Target: ast.Target{Kind: ast.TargetStatusCode}, Operator: ast.OpEquals, Value: "500"},
	}}
	v := Evaluate(footer, newResponse(200, `{}`, 0))
	assert.True(t, v.Passed)
}

func TestEvaluate_HeaderTargetCaseInsensitiveByDefault(t *testing.T) {
	footer := ast.Footer{Clauses: []ast.Clause{
		{Target: ast.Target{Kind: ast.TargetHeader, Path: "Content-Type"}, Operator: ast.OpEquals, Value: "APPLICATION/JSON"},
	}}
	v := Evaluate(footer, newResponse(200, `{}`, 0))
	assert.True(t, v.Passed)
}

func TestEvaluate_CaseSensitiveClauseFailsOnMismatch(t *testing.T) {
	footer := ast.Footer{Clauses: []ast.Clause{
		{CaseSensitive: true, Target: ast.Target{Kind: ast.TargetHeader, Path: "Content-Type"}, Operator: ast.OpEquals, Value: "APPLICATION/JSON"},
	}}
	v := Evaluate(footer, newResponse(200, `{}`, 0))
	assert.False(t, v.Passed)
}

func TestEvaluate_ResponseBodyPathTarget(t *testing.T) {
	footer := ast.Footer{Clauses: []ast.Clause{
		{Target: ast.Target{Kind: ast.TargetResponseBodyPath, Path: "user.id"}, Operator: ast.OpEquals, Value: "7"},
	}}
	v := Evaluate(footer, newResponse(200, `{"user":{"id":7}}`, 0))
	assert.True(t, v.Passed)
}

func TestEvaluate_JSONContainerTargetIsNotScalar(t *testing.T) {
	footer := ast.Footer{Clauses: []ast.Clause{
		{Target: ast.Target{Kind: ast.TargetResponseBodyPath, Path: "user"}, Operator: ast.OpEquals, Value: `{"id":7}`},
	}}
	v := Evaluate(footer, newResponse(200, `{"user":{"id":7}}`, 0))
	assert.False(t, v.Passed)
}

func TestEvaluate_ExistsOperator(t *testing.T) {
	footer := ast.Footer{Clauses: []ast.Clause{
		{Target: ast.Target{Kind: ast.TargetHeader, Path: "X-Missing"}, Operator: ast.OpExists, Value: "false"},
	}}
	v := Evaluate(footer, newResponse(200, `{}`, 0))
	assert.True(t, v.Passed)
}

func TestEvaluate_ExistsOperatorOnMissingJSONPath(t *testing.T) {
	footer := ast.Footer{Clauses: []ast.Clause{
		{Target: ast.Target{Kind: ast.TargetResponseBodyPath, Path: "some.missing.path"}, Operator: ast.OpExists, Value: "false"},
	}}
	v := Evaluate(footer, newResponse(200, `{"user":{"id":7}}`, 0))
	assert.True(t, v.Passed)
}

func TestEvaluate_MatchesRegex(t *testing.T) {
	footer := ast.Footer{Clauses: []ast.Clause{
		{Target: ast.Target{Kind: ast.TargetResponseBody}, Operator: ast.OpMatchesRegex, Value: `^\{.*\}$`},
	}}
	v := Evaluate(footer, newResponse(200, `{"a":1}`, 0))
	assert.True(t, v.Passed)
}
