package services

import (
	"sort"
	"sync"

	"cutover/internal/api"
	"cutover/internal/config"
)

// Registry holds the service descriptors of one environment. Descriptors are
// read-only during an operation's execution: Load replaces the whole set
// atomically and running operations keep working on the snapshot they took at
// admission.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]config.ServiceDescriptor
}

// NewRegistry creates an empty descriptor registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]config.ServiceDescriptor),
	}
}

// Load replaces all descriptors with the given set.
func (r *Registry) Load(descriptors []config.ServiceDescriptor) {
	next := make(map[string]config.ServiceDescriptor, len(descriptors))
	for _, d := range descriptors {
		next[d.Name] = d
	}

	r.mu.Lock()
	r.descriptors = next
	r.mu.Unlock()
}

// Get returns a descriptor by name.
func (r *Registry) Get(name string) (config.ServiceDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[name]
	return d, ok
}

// All returns every descriptor, sorted by name.
func (r *Registry) All() []config.ServiceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]config.ServiceDescriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Snapshot resolves a service filter against the registry. An empty filter
// selects all descriptors. Unknown names yield a NotFoundError so that bad
// requests fail before any service action is attempted.
func (r *Registry) Snapshot(filter []string) ([]config.ServiceDescriptor, error) {
	if len(filter) == 0 {
		return r.All(), nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	selected := make([]config.ServiceDescriptor, 0, len(filter))
	for _, name := range filter {
		d, ok := r.descriptors[name]
		if !ok {
			return nil, api.NewServiceNotFoundError(name)
		}
		selected = append(selected, d)
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].Name < selected[j].Name })
	return selected, nil
}
