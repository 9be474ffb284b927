package step

import (
	"sort"
	"sync"

	"github.com/kbukum/rivet/errors"
)

// Registry maps target names such as "decoder.par" to steps.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]Step)}
}

// Register adds a step under name. A second registration replaces the first.
func (r *Registry) Register(name string, s Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[name] = s
}

// Get retrieves a step by name.
func (r *Registry) Get(name string) (Step, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.steps[name]
	return s, ok
}

// Lookup is Get returning a NOT_FOUND error for unknown targets.
func (r *Registry) Lookup(name string) (Step, error) {
	if s, ok := r.Get(name); ok {
		return s, nil
	}
	return nil, errors.NotFound("target", name)
}

// List returns sorted names of all registered steps.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}
