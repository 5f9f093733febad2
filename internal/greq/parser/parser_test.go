package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greqerr"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.greq")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFile_SimpleGET(t *testing.T) {
	path := writeTemp(t, "project: p\n====\nGET /ok HTTP/1.1\nhost: x.example\n====\nstatus-code equals: 200\n")

	test, err := ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, "p", test.Header.Project)
	assert.Equal(t, "GET", test.Content.RequestLine.Method)
	assert.Equal(t, "/ok", test.Content.RequestLine.URI)
	host, ok := test.Content.Headers.Get("host")
	require.True(t, ok)
	assert.Equal(t, "x.example", host)
	require.Len(t, test.Footer.Clauses, 1)
	assert.Equal(t, ast.OpEquals, test.Footer.Clauses[0].Operator)
}

func TestParseFile_CustomDelimiter(t *testing.T) {
	path := writeTemp(t, "delimiter: *\nproject: p\n****\nGET /ok\nhost: x.example\n****\nstatus-code equals: 200\n")

	test, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('*'), test.Header.Delimiter)
	assert.Equal(t, "GET", test.Content.RequestLine.Method)
}

func TestParseFile_VersionOptional(t *testing.T) {
	path := writeTemp(t, "project: p\n====\nGET /ok\nhost: x.example\n====\nstatus-code equals: 200\n")

	test, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "", test.Content.RequestLine.Version)
}

func TestParseFile_UnknownHeaderKey(t *testing.T) {
	path := writeTemp(t, "bogus: nope\n====\nGET /ok\nhost: x.example\n====\nstatus-code equals: 200\n")

	_, err := ParseFile(path)
	require.Error(t, err)
	assert.True(t, greqerr.Is(err, greqerr.UnknownHeaderKey))
}

func TestParseFile_MissingRequestLineWithoutExtends(t *testing.T) {
	path := writeTemp(t, "project: p\n====\nhost: x.example\n====\nstatus-code equals: 200\n")

	_, err := ParseFile(path)
	require.Error(t, err)
	assert.True(t, greqerr.Is(err, greqerr.InvalidRequestLine))
}

func TestParseFile_MissingRequestLineAllowedWithExtends(t *testing.T) {
	path := writeTemp(t, "extends: base\n====\n====\nstatus-code equals: 200\n")

	test, err := ParseFile(path)
	require.NoError(t, err)
	assert.False(t, test.Content.RequestLine.Present)
}

func TestParseFile_FooterAnyOrderModifiers(t *testing.T) {
	path := writeTemp(t, "project: p\n====\nGET /ok\nhost: x.example\n====\nnot or case-sensitive status-code equals: 500\n")

	test, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, test.Footer.Clauses, 1)
	c := test.Footer.Clauses[0]
	assert.True(t, c.Not)
	assert.True(t, c.Or)
	assert.True(t, c.CaseSensitive)
}

func TestParseFile_FileNotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.greq"))
	require.Error(t, err)
	assert.True(t, greqerr.Is(err, greqerr.FileNotFound))
}

func TestResolveReference_AppendsSuffixAndResolvesRelative(t *testing.T) {
	got := ResolveReference("/a/b/child.greq", "base")
	assert.Equal(t, "/a/b/base.greq", got)

	got = ResolveReference("/a/b/child.greq", "/abs/base.greq")
	assert.Equal(t, "/abs/base.greq", got)
}
