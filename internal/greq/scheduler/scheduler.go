package scheduler

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/achikmagic/greq/internal/greq/assertions"
	"github.com/achikmagic/greq/internal/greq/ast"
	"github.com/achikmagic/greq/internal/greq/env"
	"github.com/achikmagic/greq/internal/greq/httpx"
	"github.com/achikmagic/greq/internal/greq/parser"
	"github.com/achikmagic/greq/internal/greq/placeholder"
	"github.com/achikmagic/greq/internal/greqerr"
)

// Result is one Test's terminal outcome, per §3 and the Done{Passed|Failed|
// Skipped} states of §4.7's state machine.
type Result struct {
	Path     string
	Response *httpx.Response
	Verdict  *assertions.Verdict
	Warnings []placeholder.Warning
	Err      error
	Skipped  bool
}

// node is one arena entry: a path, its merged Test (or load error), its
// resolved dependency path, and the channel other nodes block on to learn
// it reached a terminal state.
type node struct {
	path       string
	test       *ast.Test
	loadErr    error
	depPath    string
	depLoadErr error
	done       chan struct{}
	result     *Result
}

// Runner executes a set of root .greq files and everything they pull in
// through extends/depends-on, per §4.7 and §5. Independent Tests run
// concurrently over a bounded worker pool; a Test with a dependency blocks
// only on that dependency's channel, not on unrelated roots.
type Runner struct {
	client *httpx.Client
	scope  *env.Scope
	sem    chan struct{}

	loader *loader
	nodes  map[string]*node
}

// NewRunner builds a Runner. concurrency <= 0 selects runtime.NumCPU(),
// mirroring the teacher's bounded worker-pool default.
func NewRunner(client *httpx.Client, scope *env.Scope, concurrency int) *Runner {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Runner{
		client: client,
		scope:  scope,
		sem:    make(chan struct{}, concurrency),
		loader: newLoader(),
		nodes:  make(map[string]*node),
	}
}

// Run loads and executes every root path (and its transitive depends-on
// targets) and returns one Result per root, in the order given.
func (r *Runner) Run(ctx context.Context, rootPaths []string) ([]*Result, error) {
	roots := make([]*node, 0, len(rootPaths))
	for _, p := range rootPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		roots = append(roots, r.ensureNode(abs))
	}

	var wg sync.WaitGroup
	for _, n := range r.nodes {
		wg.Add(1)
		go func(n *node) {
			defer wg.Done()
			r.runNode(ctx, n)
		}(n)
	}
	wg.Wait()

	results := make([]*Result, len(roots))
	for i, n := range roots {
		results[i] = n.result
	}
	return results, nil
}

// ensureNode builds (or returns the existing) node for path, recursively
// building a node for its depends-on target too, so every Test reachable
// from a root gets its own goroutine in Run. This phase is entirely
// single-threaded — called only from Run before any execution goroutine
// starts — so the node map and the loader's internal caches need no
// locking here.
func (r *Runner) ensureNode(path string) *node {
	if n, ok := r.nodes[path]; ok {
		return n
	}
	n := &node{path: path, done: make(chan struct{})}
	r.nodes[path] = n

	test, err := r.loader.resolve(path)
	if err == nil {
		err = validateRunnable(test)
	}
	n.test = test
	n.loadErr = err
	if err != nil {
		return n
	}

	if test.Header.DependsOnSet {
		depPath := parser.ResolveReference(path, test.Header.DependsOn)
		n.depPath = depPath
		if depErr, ok := r.loader.loadErr[depPath]; ok {
			n.depLoadErr = depErr
		} else {
			r.ensureNode(depPath)
		}
	}

	return n
}

// validateRunnable enforces §4.3's post-merge invariant — a non-empty
// request line and a non-empty host header — on every Test this Runner is
// actually about to execute. It is deliberately not enforced inside the
// loader: an extends base several levels up a chain is allowed to omit
// both, as long as some descendant supplies them before anything tries to
// run it.
func validateRunnable(test *ast.Test) error {
	if !test.Content.RequestLine.Present {
		return greqerr.At(greqerr.InvalidRequestLine, test.Path, "no request line after merge")
	}
	if host, ok := test.Content.Headers.Get("host"); !ok || host == "" {
		return greqerr.At(greqerr.MissingHost, test.Path, "merged Content has no host header")
	}
	return nil
}

// Validate resolves, merges, and cycle-checks every path (and, transitively,
// everything it extends or depends on) without issuing any HTTP request,
// for the `validate` command. A single loader is shared across every path so
// a base file reused by several of the given paths is only parsed once and
// a cycle spanning two different arguments is still caught. The returned map
// has one entry per input path; a nil value means the path resolved and
// merged cleanly, after merge carries a request line and a host, and every
// Test along its depends-on chain loaded without error.
func Validate(paths []string) map[string]error {
	l := newLoader()
	results := make(map[string]error, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		test, err := l.resolve(abs)
		if err == nil {
			err = validateRunnable(test)
		}
		// The loader records depends-on load failures (a cycle through
		// depends-on included) instead of returning them; report them here.
		for dep := test; err == nil && dep != nil && dep.Header.DependsOnSet; {
			depPath := parser.ResolveReference(dep.Path, dep.Header.DependsOn)
			if depErr, ok := l.loadErr[depPath]; ok {
				err = greqerr.Wrap(greqerr.DependencyParseFailed, abs, depErr)
				break
			}
			dep = l.merged[depPath]
		}
		results[p] = err
	}
	return results
}

// runNode drives one Test through Awaiting-Dependency, Substituting,
// InFlight, and Evaluating, per §4.7's state machine, then closes n.done so
// dependents unblock.
func (r *Runner) runNode(ctx context.Context, n *node) {
	defer close(n.done)

	if n.loadErr != nil {
		n.result = &Result{Path: n.path, Err: n.loadErr}
		return
	}

	if n.depLoadErr != nil {
		n.result = &Result{
			Path: n.path,
			Err:  greqerr.Wrap(greqerr.DependencyParseFailed, n.path, n.depLoadErr),
		}
		return
	}

	var depResp *httpx.Response
	depFailed := false
	if n.depPath != "" {
		depNode := r.nodes[n.depPath]
		<-depNode.done
		dr := depNode.result

		succeeded := dr != nil && dr.Err == nil && dr.Response != nil && dr.Verdict != nil && dr.Verdict.Passed
		if !succeeded {
			if !n.test.Header.AllowDependencyFailure {
				n.result = &Result{
					Path:    n.path,
					Skipped: true,
					Err:     greqerr.At(greqerr.DependencyFailed, n.path, "dependency did not succeed and allow-dependency-failure is false"),
				}
				return
			}
			// A failed dependency (transport error, timeout, or a failed
			// Verdict) exposes no data: every dependency.* placeholder
			// resolves empty with a warning, per §4.5 — not the dependency's
			// actual response, even when one exists.
			depFailed = true
		} else {
			depResp = dr.Response
		}
	}

	resolver := &placeholder.Resolver{
		EnvScope:         r.scope.Snapshot(),
		ShowWarnings:     n.test.Header.ShowWarnings,
		Dependency:       depResp,
		DependencyFailed: depFailed,
	}
	warnings := placeholder.SubstituteTest(n.test, resolver)

	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
		n.result = &Result{Path: n.path, Err: ctx.Err(), Warnings: warnings}
		return
	}
	resp, err := r.client.Execute(ctx, n.test)
	<-r.sem

	if err != nil {
		n.result = &Result{Path: n.path, Err: err, Warnings: warnings}
		return
	}

	// set-environment writes are visible to dependents as soon as the HTTP
	// call produced a response, independent of whether assertions pass.
	for _, ea := range n.test.Header.SetEnvironment {
		r.scope.Set(ea.Name, ea.Value)
	}

	verdict := assertions.Evaluate(n.test.Footer, resp)
	n.result = &Result{Path: n.path, Response: resp, Verdict: &verdict, Warnings: warnings}
}
