// Package scheduler implements §4.7: recursive extends/depends-on
// resolution with cycle detection, and §5's cooperative concurrent
// execution of the resulting dependency DAG.
package scheduler

import (
	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greq/merge"
	"github.com/achikmagic/greq/internal/greq/parser"
	"github.com/achikmagic/greq/internal/greqerr"
)

// loader resolves the extends chain of every Test it is asked for,
// memoizing merged results by absolute path and tracking cycles across
// both extends and depends-on with one shared loading stack, per §4.7's
// "arena entries keyed by absolute path" design note (§9).
type loader struct {
	merged  map[string]*ast.Test
	loadErr map[string]error // dependency-only load failures, keyed by the dependency's own path
	loading map[string]bool  // cycle-detection stack
}

func newLoader() *loader {
	return &loader{
		merged:  make(map[string]*ast.Test),
		loadErr: make(map[string]error),
		loading: make(map[string]bool),
	}
}

// resolve returns the fully extends-merged Test at path. It also eagerly
// resolves path's depends-on target (if any) through the same cycle stack,
// but a failure to load the dependency does not fail path itself — it is
// recorded in loadErr for the scheduler to translate into a
// DependencyParseFailed Verdict for whatever depends on path.
func (l *loader) resolve(path string) (*ast.Test, error) {
	if t, ok := l.merged[path]; ok {
		return t, nil
	}
	if l.loading[path] {
		return nil, greqerr.At(greqerr.CycleDetected, path, "cycle detected while loading")
	}
	l.loading[path] = true
	defer delete(l.loading, path)

	test, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	if test.Header.ExtendsSet {
		basePath := parser.ResolveReference(path, test.Header.Extends)
		base, err := l.resolve(basePath)
		if err != nil {
			return nil, err
		}
		merged, err := merge.Merge(base, test)
		if err != nil {
			return nil, err
		}
		test = merged
	}

	if test.Header.DependsOnSet {
		depPath := parser.ResolveReference(path, test.Header.DependsOn)
		if _, err := l.resolve(depPath); err != nil {
			l.loadErr[depPath] = err
		}
	}

	l.merged[path] = test
	return test, nil
}
