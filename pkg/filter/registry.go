package filter

import (
	"fmt"
	"sync"

	"github.com/leanderhang/bitpunch/pkg/util/collection/set"
)

// Registry is the process-wide filter-class registry (§9 "Global state"):
// every class a schema may reference by name must be declared here before
// boxes are created against it.  Declaration and lookup are safe for
// concurrent use, matching the board-per-goroutine / shared-registry
// concurrency model (§5).
type Registry struct {
	mu      sync.RWMutex
	classes map[string]Class
	names   *set.SortedSet[string]
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]Class), names: set.NewSortedSet[string]()}
}

// DeclareClass registers a filter class under its own Name(), replacing any
// class previously registered under that name.
func (r *Registry) DeclareClass(c Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[c.Name()] = c
	r.names.Insert(c.Name())
}

// Names returns every declared class name, sorted, for the CLI's `classes`
// subcommand.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.names.Iter().Collect()
}

// LookupClass returns the class registered under name, or an error if none
// is.
func (r *Registry) LookupClass(name string) (Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[name]
	if !ok {
		return nil, fmt.Errorf("filter: no class registered under name %q", name)
	}

	return c, nil
}

// global is the default registry that Init populates and pkg/box consults;
// a Board is always evaluated against it, mirroring the single
// process-wide class table described in §9.
var global = NewRegistry() //nolint:gochecknoglobals

// Global returns the shared, process-wide registry.
func Global() *Registry { return global }

// Init declares the built-in filter classes into the global registry
// (implements the `init` half of the public API's Init/Cleanup pair, §6).
func Init() {
	for _, c := range builtinClasses() {
		global.DeclareClass(c)
	}
}

// Cleanup discards all declared classes.  Present for symmetry with Init and
// for tests that want a clean registry between schemas.
func Cleanup() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.classes = make(map[string]Class)
	global.names = set.NewSortedSet[string]()
}
