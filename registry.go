package junction

import "sync"

// Registry is the concurrent store owning the set of intersections, keyed
// by id. Insertion is exclusive: adding an id that is already present fails
// rather than overwriting. The registry is constructed once at process
// start and handed to the scheduler and controller by reference.
type Registry struct {
	mu            sync.RWMutex
	intersections map[string]*Intersection
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		intersections: make(map[string]*Intersection),
	}
}

// Add registers an intersection. Fails with a duplicate-id error if an
// intersection with the same id is already present.
func (r *Registry) Add(i *Intersection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.intersections[i.ID()]; exists {
		return NewDuplicateIDError(i.ID())
	}
	r.intersections[i.ID()] = i
	return nil
}

// Get returns the intersection with the given id, or a not-found error
func (r *Registry) Get(id string) (*Intersection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, exists := r.intersections[id]
	if !exists {
		return nil, NewNotFoundError(id)
	}
	return i, nil
}

// Remove deletes the intersection with the given id, or returns a
// not-found error.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.intersections[id]; !exists {
		return NewNotFoundError(id)
	}
	delete(r.intersections, id)
	return nil
}

// All returns a snapshot of the registered intersections
func (r *Registry) All() []*Intersection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Intersection, 0, len(r.intersections))
	for _, i := range r.intersections {
		out = append(out, i)
	}
	return out
}

// Len returns the number of registered intersections
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.intersections)
}
