package resource

import (
	"archive/zip"
	"fmt"
	"io"
	"sync"
)

// Archive is a Provider backed by a zip file (the DSF process-plugin
// archive itself, or a dependency jar nested under it). Entries are
// indexed lazily on first access, mirroring the teacher's pattern of
// deferring expensive scans until a result is actually needed
// (internal/discovery's glob walk is similarly performed once and cached
// by the caller rather than eagerly at construction).
type Archive struct {
	reader *zip.Reader
	closer io.Closer // non-nil when opened from a path and owned by this Archive

	indexOnce sync.Once
	byPath    map[Ref]*zip.File
}

// OpenArchive opens the zip file at path. The caller must call Close.
func OpenArchive(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("resource: open archive %q: %w", path, err)
	}
	return &Archive{reader: &rc.Reader, closer: rc}, nil
}

// NewArchiveFromBytes wraps an in-memory zip, e.g. a dependency jar
// materialised by the resolver from a nested archive entry.
func NewArchiveFromBytes(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("resource: read archive: %w", err)
	}
	return &Archive{reader: zr}, nil
}

// Close releases the underlying file handle, if this Archive owns one.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *Archive) index() map[Ref]*zip.File {
	a.indexOnce.Do(func() {
		a.byPath = make(map[Ref]*zip.File, len(a.reader.File))
		for _, f := range a.reader.File {
			if f.FileInfo().IsDir() {
				continue
			}
			a.byPath[Normalize(f.Name)] = f
		}
	})
	return a.byPath
}

func (a *Archive) List(dir string) func(yield func(Ref) bool) {
	return func(yield func(Ref) bool) {
		for ref := range a.index() {
			if !ref.IsUnderDir(dir) {
				continue
			}
			if !yield(ref) {
				return
			}
		}
	}
}

func (a *Archive) Open(path string) (io.ReadCloser, error) {
	f, ok := a.index()[Normalize(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return f.Open()
}

func (a *Archive) Exists(path string) bool {
	_, ok := a.index()[Normalize(path)]
	return ok
}

func (a *Archive) Describe() string {
	return "archive"
}

// ReadFull is a convenience for callers (e.g. nested-archive
// materialisation) that need the whole entry as bytes rather than a
// stream.
func (a *Archive) ReadFull(path string) ([]byte, error) {
	rc, err := a.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
