// Package resolve turns a manifest's raw resource references into
// ResolvedResources: it decides where each reference's bytes actually
// live and tags how it found them (spec.md §4.3).
package resolve

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cenkalti/backoff/v5"

	"github.com/dsf-tools/dsf-plugin-linter/internal/resource"
)

// Provenance classifies where a resolved resource's bytes came from
// (spec.md §3 invariant: exactly one of these four).
type Provenance string

const (
	InRoot         Provenance = "inRoot"
	OutsideRoot    Provenance = "outsideRoot"
	FromDependency Provenance = "fromDependency"
	NotFound       Provenance = "notFound"
)

// Strategy names which of the prioritised root-selection rules produced
// the resource root used for the inRoot/outsideRoot test (spec.md §4.3).
type Strategy string

const (
	CodeSourceDirectory Strategy = "codeSourceDirectory"
	ConventionalLayout  Strategy = "conventionalLayout"
	ProjectRootFallback Strategy = "projectRootFallback"
)

// ResolvedResource is the outcome of resolving a single reference.
type ResolvedResource struct {
	Reference      resource.Ref
	Provenance     Provenance
	ExpectedRoot   string
	ActualLocation string // archive name when Provenance == FromDependency
	Strategy       Strategy

	open func() (io.ReadCloser, error)
}

// Open returns the resolved resource's bytes, or an error if Provenance
// is NotFound.
func (r *ResolvedResource) Open() (io.ReadCloser, error) {
	if r.open == nil {
		return nil, fmt.Errorf("resolve: %s: %w", r.Reference, resource.ErrNotFound)
	}
	return r.open()
}

// conventional nested-dependency-archive locations, probed in this exact
// order — "target/dependency" before "target/dependencies" — because some
// archives ship both and the first match wins (spec.md §9 ordering note).
var dependencyDirCandidates = []string{
	"target/dependency",
	"target/dependencies",
}

// Resolver resolves references for a single plugin archive.
type Resolver struct {
	root         resource.Provider
	rootStrategy Strategy
	expectedRoot string
	wider        resource.Provider // optional: disk tree above root, may be nil

	dependencies []namedProvider

	mu        sync.Mutex
	cache     map[resource.Ref]*cacheEntry
	tempFiles []string
}

type namedProvider struct {
	name     string
	provider resource.Provider
}

type cacheEntry struct {
	once   sync.Once
	result *ResolvedResource
	err    error
}

// New builds a Resolver. root is the plugin's own resource provider;
// expectedRoot/strategy describe how that root was chosen (the caller
// picks per spec.md §4.3's (a)/(b)/(c) priority: code-source directory,
// conventional layout, project root fallback); wider is an optional
// provider covering more than root (e.g. the enclosing filesystem tree)
// for the outsideRoot step.
func New(root resource.Provider, expectedRoot string, strategy Strategy, wider resource.Provider) *Resolver {
	return &Resolver{
		root:         root,
		rootStrategy: strategy,
		expectedRoot: expectedRoot,
		wider:        wider,
		cache:        make(map[resource.Ref]*cacheEntry),
	}
}

// AddDependencyArchive registers a nested archive (already opened) to be
// consulted, in registration order, for the fromDependency resolution
// step. name is recorded as ActualLocation on success.
func (r *Resolver) AddDependencyArchive(name string, provider resource.Provider) {
	r.dependencies = append(r.dependencies, namedProvider{name: name, provider: provider})
}

// DiscoverDependencyArchives scans the resolver's root for nested archives
// at the fixed conventional locations (spec.md §9), in order, and
// registers each one found via open. Only the first matching directory is
// used, since some archives ship both and the first match wins.
func (r *Resolver) DiscoverDependencyArchives(open func(ref resource.Ref) (resource.Provider, error)) error {
	for _, dir := range dependencyDirCandidates {
		var found []namedProvider
		for ref := range r.root.List(dir) {
			if !ref.HasSuffixFold(".jar") {
				continue
			}
			p, err := open(ref)
			if err != nil {
				return fmt.Errorf("resolve: open dependency archive %s: %w", ref, err)
			}
			found = append(found, namedProvider{name: ref.String(), provider: p})
		}
		if len(found) > 0 {
			r.dependencies = append(r.dependencies, found...)
			return nil
		}
	}
	return nil
}

// Resolve implements the fixed four-step order from spec.md §4.3,
// normalising ref first. Concurrent calls for the same reference share a
// single resolution via the per-reference cache entry (grounded on the
// teacher's dedup-then-fan-out pattern in internal/async/runtime.go).
func (r *Resolver) Resolve(ctx context.Context, rawRef string) (*ResolvedResource, error) {
	ref := resource.Normalize(rawRef)

	r.mu.Lock()
	entry, ok := r.cache[ref]
	if !ok {
		entry = &cacheEntry{}
		r.cache[ref] = entry
	}
	r.mu.Unlock()

	entry.once.Do(func() {
		entry.result, entry.err = r.resolveUncached(ctx, ref)
	})
	return entry.result, entry.err
}

func (r *Resolver) resolveUncached(ctx context.Context, ref resource.Ref) (*ResolvedResource, error) {
	if r.root.Exists(ref.String()) {
		path := ref
		return &ResolvedResource{
			Reference:    ref,
			Provenance:   InRoot,
			ExpectedRoot: r.expectedRoot,
			Strategy:     r.rootStrategy,
			open:         func() (io.ReadCloser, error) { return r.root.Open(path.String()) },
		}, nil
	}

	if r.wider != nil && r.wider.Exists(ref.String()) {
		path := ref
		return &ResolvedResource{
			Reference:    ref,
			Provenance:   OutsideRoot,
			ExpectedRoot: r.expectedRoot,
			Strategy:     r.rootStrategy,
			open:         func() (io.ReadCloser, error) { return r.wider.Open(path.String()) },
		}, nil
	}

	for _, dep := range r.dependencies {
		if !dep.provider.Exists(ref.String()) {
			continue
		}
		tmp, err := r.materialise(ctx, dep, ref)
		if err != nil {
			return nil, err
		}
		return &ResolvedResource{
			Reference:      ref,
			Provenance:     FromDependency,
			ExpectedRoot:   r.expectedRoot,
			ActualLocation: dep.name,
			Strategy:       r.rootStrategy,
			open:           func() (io.ReadCloser, error) { return os.Open(tmp) },
		}, nil
	}

	return &ResolvedResource{Reference: ref, Provenance: NotFound, ExpectedRoot: r.expectedRoot}, nil
}

// materialise copies a dependency-archive entry into a temporary file,
// bounded-retried against transient I/O only (spec.md §7: rule evaluators
// never retry; this is the one I/O boundary that may). The temp file is
// tracked for cleanup by Close.
func (r *Resolver) materialise(ctx context.Context, dep namedProvider, ref resource.Ref) (string, error) {
	op := func() (string, error) {
		rc, err := dep.provider.Open(ref.String())
		if err != nil {
			return "", err
		}
		defer rc.Close()

		f, err := os.CreateTemp("", "dsflint-dep-*")
		if err != nil {
			return "", err
		}
		defer f.Close()

		if _, err := io.Copy(f, rc); err != nil {
			os.Remove(f.Name())
			return "", err
		}
		return f.Name(), nil
	}

	path, err := backoff.Retry(ctx, op, backoff.WithMaxTries(3), backoff.WithBackOff(backoff.NewExponentialBackOff()))
	if err != nil {
		return "", fmt.Errorf("resolve: materialise %s from %s: %w", ref, dep.name, err)
	}

	r.mu.Lock()
	r.tempFiles = append(r.tempFiles, path)
	r.mu.Unlock()
	return path, nil
}

// Close deletes every temporary file this Resolver materialised
// (spec.md §5: "temporary files produced by materialisation are owned by
// the lint run and deleted on its completion on any exit path").
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, path := range r.tempFiles {
		_ = os.Remove(path)
	}
	r.tempFiles = nil
}
