// Package parser implements §4.1–§4.4: splitting a .greq file into its
// three sections and parsing each into the ast package's typed model.
package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greqerr"
)

// ParseFile reads path, splits it into sections, and parses each section.
// path must already be resolved to an absolute, readable location; callers
// (the scheduler) own path resolution relative to a referring file.
func ParseFile(path string) (*ast.Test, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, greqerr.Wrap(greqerr.FileNotFound, path, err)
		}
		return nil, greqerr.Wrap(greqerr.FileReadError, path, err)
	}
	return ParseString(path, string(data))
}

// ParseString parses already-read file content; path is used for error
// reporting and, made absolute, becomes the returned Test's Path.
func ParseString(path, content string) (*ast.Test, error) {
	headerLines, contentLines, footerLines, _, err := splitSections(path, content)
	if err != nil {
		return nil, err
	}

	header, err := parseHeader(path, headerLines)
	if err != nil {
		return nil, err
	}

	contentSection, err := parseContent(path, contentLines, header.ExtendsSet)
	if err != nil {
		return nil, err
	}

	footer, err := parseFooter(path, footerLines)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return &ast.Test{
		Path:    abs,
		Header:  header,
		Content: contentSection,
		Footer:  footer,
	}, nil
}

// ResolveReference resolves an extends/depends-on path declared in
// referringFile to an absolute path, appending the .greq suffix when
// missing and passing absolute references through unchanged, per §6.
func ResolveReference(referringFile, ref string) string {
	if !strings.HasSuffix(ref, ".greq") {
		ref += ".greq"
	}
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(referringFile), ref)
}
