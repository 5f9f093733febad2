package parser

import (
	"strings"

	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greqerr"
)

// parseContent implements §4.3. allowMissingRequestLine is true when the
// owning Test declares extends, in which case an absent request line is
// deferred to merge rather than failing immediately.
func parseContent(path string, lines []string, allowMissingRequestLine bool) (ast.Content, error) {
	content := ast.NewContent()

	blankIdx := len(lines)
	for i, line := range lines {
		if line == "" || line == "\r" {
			blankIdx = i
			break
		}
	}

	headerLines := lines[:blankIdx]
	var bodyLines []string
	if blankIdx < len(lines) {
		bodyLines = lines[blankIdx+1:]
	}

	// Skip leading blank lines before the request line.
	start := 0
	for start < len(headerLines) && strings.TrimSpace(headerLines[start]) == "" {
		start++
	}

	if start >= len(headerLines) {
		if allowMissingRequestLine {
			return content, nil
		}
		return content, greqerr.At(greqerr.InvalidRequestLine, path, "missing request line")
	}

	requestLine, err := parseRequestLine(path, headerLines[start])
	if err != nil {
		return content, err
	}
	content.RequestLine = requestLine

	for _, raw := range headerLines[start+1:] {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		idx := strings.Index(raw, ":")
		if idx < 0 {
			return content, greqerr.Atf(greqerr.InvalidRequestLine, path, "content header missing ':': %q", raw)
		}
		name := strings.TrimSpace(raw[:idx])
		value := strings.TrimSpace(raw[idx+1:])
		content.Headers.Add(name, value)
	}

	if len(bodyLines) > 0 {
		body := strings.Join(bodyLines, "\n")
		// Exactly one trailing newline from the original text was
		// already consumed by the blank-line split and re-joining with
		// "\n"; strip one further trailing newline per §8's boundary
		// behavior (two preserved minus one).
		body = strings.TrimSuffix(body, "\n")
		content.Body = []byte(body)
		content.HasBody = true
	}

	return content, nil
}

// parseRequestLine requires METHOD and URI; the HTTP version token is
// optional, deliberately looser than the Rust prototype's >=3-token
// requirement, per §3's "optional HTTP version".
func parseRequestLine(path, line string) (ast.RequestLine, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ast.RequestLine{}, greqerr.Atf(greqerr.InvalidRequestLine, path, "malformed request line %q", line)
	}
	method := strings.ToUpper(fields[0])
	if !ast.AllowedMethods[method] {
		return ast.RequestLine{}, greqerr.Atf(greqerr.InvalidRequestLine, path, "unsupported method %q", fields[0])
	}
	rl := ast.RequestLine{Method: method, URI: fields[1], Present: true}
	if len(fields) >= 3 {
		rl.Version = fields[2]
	}
	return rl, nil
}
