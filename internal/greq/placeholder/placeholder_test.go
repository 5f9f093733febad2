package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greq/env"
	"github.com/achikmagic/greq/internal/greq/httpx"
	"github.com/achikmagic/greq/internal/greq/parser"
)

func parseTestFixture(content string) (*ast.Test, error) {
	return parser.ParseString("/tmp/fixture.greq", content)
}

func TestSubstitute_EnvironmentToken(t *testing.T) {
	resolve := func(t Token) (string, bool) {
		if t.Scope == "environment" && t.Path == "HOST" {
			return "api.example.com", false
		}
		return "", true
	}
	out := Substitute("https://$(environment.HOST)/x", resolve, nil)
	assert.Equal(t, "https://api.example.com/x", out)
}

func TestSubstitute_UnterminatedTokenIsLiteral(t *testing.T) {
	out := Substitute("abc $(environment.HOST", func(Token) (string, bool) { return "", false }, nil)
	assert.Equal(t, "abc $(environment.HOST", out)
}

func TestSubstitute_UnknownScopeIsLiteral(t *testing.T) {
	out := Substitute("$(weird.path)", func(Token) (string, bool) { return "nope", false }, nil)
	assert.Equal(t, "$(weird.path)", out)
}

func TestSubstitute_DepAliasForDependency(t *testing.T) {
	var seen []Token
	resolve := func(t Token) (string, bool) {
		seen = append(seen, t)
		return "v", false
	}
	Substitute("$(dep.status-code)", resolve, nil)
	assert.Equal(t, "dep", seen[0].Scope)
	assert.Equal(t, "status-code", seen[0].Path)
}

func TestResolver_DependencyResponseBodyPath(t *testing.T) {
	scope := env.NewScope().Snapshot()
	resp := &httpx.Response{StatusCode: 200, Headers: &ast.HeaderList{}, Body: []byte(`{"id":7}`)}
	r := &Resolver{EnvScope: scope, ShowWarnings: true, Dependency: resp}

	test, err := parseTestFixture(`project: p
====
GET /x?id=$(dependency.response-body.id)
host: x.example
====
`)
	require.NoError(t, err)
	warnings := SubstituteTest(test, r)
	assert.Equal(t, "/x?id=7", test.Content.RequestLine.URI)
	assert.Empty(t, warnings)
}

func TestSubstituteTest_InvalidUTF8BodySkipsSubstitutionAndWarns(t *testing.T) {
	scope := env.NewScope().Snapshot()
	r := &Resolver{EnvScope: scope, ShowWarnings: true}

	test, err := parseTestFixture("project: p\n====\nGET /x\nhost: x.example\n====\n")
	require.NoError(t, err)
	test.Content.HasBody = true
	test.Content.Body = []byte("bad byte: \xff raw")

	warnings := SubstituteTest(test, r)
	require.Len(t, warnings, 1)
	assert.Equal(t, "body", warnings[0].Scope)
	assert.Equal(t, []byte("bad byte: \xff raw"), test.Content.Body)
}

func TestResolver_NilDependencyWarnsOncePerPass(t *testing.T) {
	scope := env.NewScope().Snapshot()
	r := &Resolver{EnvScope: scope, ShowWarnings: true, Dependency: nil}

	test, err := parseTestFixture(`project: p
====
GET /x?a=$(dependency.status-code)&b=$(dependency.latency)
host: x.example
====
`)
	require.NoError(t, err)

	warnings := SubstituteTest(test, r)
	assert.Len(t, warnings, 1, "at most one dependency warning per substitution pass")
	assert.Equal(t, "/x?a=&b=", test.Content.RequestLine.URI)
}
