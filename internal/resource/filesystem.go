package resource

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Filesystem is a Provider rooted at a directory on disk. List walks the
// subtree (spec.md §4.1: "filesystem-backed: rooted at a directory; list
// walks the subtree"); paths are normalised to "/" on output regardless of
// host OS, the same convention the teacher's discovery package uses for
// glob matching (internal/discovery.isExcluded normalises to forward
// slashes before calling doublestar.Match).
type Filesystem struct {
	root string
}

// NewFilesystem creates a Filesystem rooted at root. The root is resolved
// to an absolute path so Open/Exists are stable regardless of the
// process's current working directory.
func NewFilesystem(root string) (*Filesystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resource: resolve root %q: %w", root, err)
	}
	return &Filesystem{root: abs}, nil
}

// Root returns the absolute resource root directory.
func (f *Filesystem) Root() string { return f.root }

func (f *Filesystem) List(dir string) func(yield func(Ref) bool) {
	return func(yield func(Ref) bool) {
		_ = filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Listing failures degrade to an empty sequence for the
				// affected subtree (spec.md §4.1), not a pipeline abort.
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(f.root, path)
			if err != nil {
				return nil
			}
			ref := Ref(filepath.ToSlash(rel))
			if !ref.IsUnderDir(dir) {
				return nil
			}
			if !yield(ref) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

func (f *Filesystem) resolvedPath(path string) string {
	return filepath.Join(f.root, filepath.FromSlash(string(Normalize(path))))
}

func (f *Filesystem) Open(path string) (io.ReadCloser, error) {
	full := f.resolvedPath(path)
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	file, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	return file, nil
}

func (f *Filesystem) Exists(path string) bool {
	info, err := os.Stat(f.resolvedPath(path))
	return err == nil && info.Mode().IsRegular()
}

func (f *Filesystem) Describe() string {
	return fmt.Sprintf("filesystem:%s", f.root)
}

// GlobMatches reports whether rel (a "/"-separated relative path) matches
// any of the given doublestar patterns. Manifest discovery and the
// nested-archive scan do not call it; they filter by directory prefix and
// file suffix.
func GlobMatches(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
