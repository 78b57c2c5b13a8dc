package modplan

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry maps module names to descriptors. Resolution only reads from it.
type Registry interface {
	// Lookup returns the descriptor registered under name.
	// The returned value is a copy; mutating it never affects the registry.
	Lookup(name string) (ModuleDescriptor, bool)
}

// MemoryRegistry is an in-memory Registry populated through Register.
//
// Population is expected to finish before resolution starts. Reads are safe
// for concurrent use at any time.
type MemoryRegistry struct {
	mu      sync.RWMutex
	modules map[string]ModuleDescriptor
}

// NewRegistry creates a registry holding the given descriptors.
//
// Every descriptor is validated and registered independently: a failing
// descriptor is skipped and its error joined into the returned error, while
// the others stay registered. The registry is never nil.
func NewRegistry(descs ...ModuleDescriptor) (*MemoryRegistry, error) {
	r := &MemoryRegistry{modules: make(map[string]ModuleDescriptor, len(descs))}
	var errs []error
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			errs = append(errs, err)
		}
	}
	return r, errors.Join(errs...)
}

// Register validates d and adds its normalized form to the registry.
// It returns the validation error, or *DuplicateModuleError if the name is
// already present.
func (r *MemoryRegistry) Register(d ModuleDescriptor) error {
	valid, err := Validate(d)
	if err != nil {
		return fmt.Errorf("register module: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.modules == nil {
		r.modules = make(map[string]ModuleDescriptor)
	}
	if _, exists := r.modules[valid.Name]; exists {
		return &DuplicateModuleError{Name: valid.Name}
	}
	r.modules[valid.Name] = valid
	return nil
}

// Lookup returns a copy of the descriptor registered under name.
func (r *MemoryRegistry) Lookup(name string) (ModuleDescriptor, bool) {
	r.mu.RLock()
	d, ok := r.modules[name]
	r.mu.RUnlock()
	if !ok {
		return ModuleDescriptor{}, false
	}
	return d.Clone(), true
}

// Names returns all registered module names, sorted.
func (r *MemoryRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered modules.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}
