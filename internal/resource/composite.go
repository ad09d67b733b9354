package resource

import "io"

// Composite combines an ordered list of Providers into one: List
// concatenates and deduplicates by Ref across sources, and Open/Exists
// resolve against the first provider (in order) that has the path. This
// is the shape spec.md §4.1 calls "an ordered composite of both". The
// resolver does not use it (it consults its own ordered list of dependency
// providers); orchestrate accepts one as Options.ClassResolverProvider.
type Composite struct {
	providers []Provider
}

// NewComposite builds a Composite over providers, highest priority first.
func NewComposite(providers ...Provider) *Composite {
	return &Composite{providers: providers}
}

func (c *Composite) List(dir string) func(yield func(Ref) bool) {
	return func(yield func(Ref) bool) {
		seen := make(map[Ref]struct{})
		for _, p := range c.providers {
			for ref := range p.List(dir) {
				if _, dup := seen[ref]; dup {
					continue
				}
				seen[ref] = struct{}{}
				if !yield(ref) {
					return
				}
			}
		}
	}
}

func (c *Composite) Open(path string) (io.ReadCloser, error) {
	for _, p := range c.providers {
		if p.Exists(path) {
			return p.Open(path)
		}
	}
	return nil, ErrNotFound
}

func (c *Composite) Exists(path string) bool {
	for _, p := range c.providers {
		if p.Exists(path) {
			return true
		}
	}
	return false
}

func (c *Composite) Describe() string {
	desc := "composite("
	for i, p := range c.providers {
		if i > 0 {
			desc += ","
		}
		desc += p.Describe()
	}
	return desc + ")"
}

// Source returns the first provider (in priority order) containing path,
// and true if found.
func (c *Composite) Source(path string) (Provider, bool) {
	for _, p := range c.providers {
		if p.Exists(path) {
			return p, true
		}
	}
	return nil, false
}
