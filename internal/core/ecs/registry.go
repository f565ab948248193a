package ecs

import "fmt"

// Kind is the id the registry assigned to a component store.
type Kind uint32

// Registry tracks all component stores, hands out kind ids in registration
// order starting at 1, and supports bulk cleanup on entity destroy.
type Registry struct {
	stores []Removable
	byName map[string]Kind
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 16),
		byName: make(map[string]Kind),
	}
}

// Register adds a named component store and returns its kind id.
func (r *Registry) Register(name string, store Removable) (Kind, error) {
	if _, dup := r.byName[name]; dup {
		return 0, fmt.Errorf("component kind %q already registered", name)
	}
	r.stores = append(r.stores, store)
	k := Kind(len(r.stores))
	r.byName[name] = k
	return k, nil
}

// Kinds returns a copy of the name → kind table.
func (r *Registry) Kinds() map[string]Kind {
	out := make(map[string]Kind, len(r.byName))
	for n, k := range r.byName {
		out[n] = k
	}
	return out
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
