package bpmnlint

import (
	"bytes"
	"strings"

	"github.com/dsf-tools/dsf-plugin-linter/internal/resource"
)

// ClassResolver answers the two questions the implementation-class and
// listener-class rules need: does a class with this fully-qualified name
// exist on the plugin's class loader, and does it reference a given
// interface/superclass. Go has no JVM to load and reflect on; Implements
// instead inspects the raw .class file bytes for the expected type's
// internal name (class files store every referenced type as a UTF-8
// constant-pool entry using "/"-separated internal names), which is a
// real, if shallow, structural check rather than a fabricated one.
type ClassResolver struct {
	provider resource.Provider
}

// NewClassResolver wraps a resource.Provider (normally the dependency-
// augmented composite) as a ClassResolver.
func NewClassResolver(provider resource.Provider) *ClassResolver {
	return &ClassResolver{provider: provider}
}

func classPath(fqn string) string {
	return strings.ReplaceAll(fqn, ".", "/") + ".class"
}

// Exists reports whether fqn resolves to a class entry.
func (r *ClassResolver) Exists(fqn string) bool {
	if r == nil || r.provider == nil {
		return false
	}
	return r.provider.Exists(classPath(fqn))
}

// Implements reports whether the class entry for fqn references
// interfaceFQN anywhere in its constant pool. Returns false if the class
// itself does not exist.
func (r *ClassResolver) Implements(fqn, interfaceFQN string) bool {
	if r == nil || r.provider == nil {
		return false
	}
	rc, err := r.provider.Open(classPath(fqn))
	if err != nil {
		return false
	}
	defer rc.Close()

	needle := []byte(strings.ReplaceAll(interfaceFQN, ".", "/"))
	buf := make([]byte, 32*1024)
	var tail []byte
	for {
		n, readErr := rc.Read(buf)
		if n > 0 {
			window := append(tail, buf[:n]...)
			if bytes.Contains(window, needle) {
				return true
			}
			if len(window) > len(needle) {
				tail = append([]byte(nil), window[len(window)-len(needle)+1:]...)
			} else {
				tail = append([]byte(nil), window...)
			}
		}
		if readErr != nil {
			break
		}
	}
	return false
}
