package parser

import (
	"strings"

	"github.com/achikmagic/greq/internal/greqerr"
)

const delimiterMinLength = 4

// splitSections implements §4.1: the lexical splitter. It locates the
// header/content boundary with a generic delimiter-line scan (any single
// non-alphanumeric character repeated at least delimiterMinLength times),
// then re-scans for the content/footer boundary using whichever character
// the header's own `delimiter:` property names, defaulting to the
// generically-detected character when the property is absent.
//
// This generic first pass is a deliberate refinement over a hardcoded '='
// first guess: it lets the splitter locate the header section even when a
// file both uses a non-default delimiter throughout AND never declares it,
// which a hardcoded-default first pass could never recover from.
func splitSections(path, content string) (headerLines, contentLines, footerLines []string, delim byte, err error) {
	lines := splitLines(content)

	firstIdx, firstChar, ok := findGenericDelimiterLine(lines, 0)
	if !ok {
		return nil, nil, nil, 0, greqerr.At(greqerr.MalformedFile, path, "fewer than two delimiter lines")
	}

	headerLines = lines[:firstIdx]

	declared, hasDeclared := scanDeclaredDelimiter(headerLines)
	delim = firstChar
	if hasDeclared {
		delim = declared
	}

	secondIdx, found := findDelimiterLineForChar(lines, firstIdx+1, delim)
	if !found {
		return nil, nil, nil, 0, greqerr.At(greqerr.MalformedFile, path, "fewer than two delimiter lines")
	}

	contentLines = lines[firstIdx+1 : secondIdx]
	footerLines = lines[secondIdx+1:]
	return headerLines, contentLines, footerLines, delim, nil
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// isAlnum reports whether b is an ASCII letter or digit.
func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// findGenericDelimiterLine finds the first line at or after from whose
// trimmed content is a single non-alphanumeric byte repeated at least
// delimiterMinLength times, returning its index and that byte.
func findGenericDelimiterLine(lines []string, from int) (int, byte, bool) {
	for i := from; i < len(lines); i++ {
		trimmed := strings.TrimRight(lines[i], " \t\r")
		if len(trimmed) < delimiterMinLength {
			continue
		}
		c := trimmed[0]
		if isAlnum(c) {
			continue
		}
		if allBytesEqual(trimmed, c) {
			return i, c, true
		}
	}
	return 0, 0, false
}

// findDelimiterLineForChar finds the first line at or after from whose
// trimmed content consists solely of delim repeated at least
// delimiterMinLength times.
func findDelimiterLineForChar(lines []string, from int, delim byte) (int, bool) {
	for i := from; i < len(lines); i++ {
		trimmed := strings.TrimRight(lines[i], " \t\r")
		if len(trimmed) < delimiterMinLength {
			continue
		}
		if allBytesEqual(trimmed, delim) {
			return i, true
		}
	}
	return 0, false
}

func allBytesEqual(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}

// scanDeclaredDelimiter looks for a `delimiter: X` line among headerLines
// without running the full header parser, so the splitter can re-scan for
// the second boundary before header validation happens.
func scanDeclaredDelimiter(headerLines []string) (byte, bool) {
	for _, line := range headerLines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		idx := strings.Index(trimmed, ":")
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(trimmed[:idx]))
		if key != "delimiter" {
			continue
		}
		value := strings.TrimSpace(trimmed[idx+1:])
		if len(value) == 1 && !isAlnum(value[0]) {
			return value[0], true
		}
		return 0, false
	}
	return 0, false
}
