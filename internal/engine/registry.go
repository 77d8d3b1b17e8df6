package engine

import (
	"fmt"
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
)

// Registry is the ordered set of live objects. Iteration goes over a snapshot,
// so objects can be added or removed while a traversal is running.
type Registry struct {
	Name    string
	objects []*Object
	index   *intmap.Map[ID, *Object]
}

func NewRegistry(name string) *Registry {
	return &Registry{
		Name:    name,
		objects: make([]*Object, 0),
		index:   intmap.New[ID, *Object](64),
	}
}

func (r *Registry) Add(o *Object) error {
	if r.index.Has(o.ID) {
		return fmt.Errorf("add %s (id %d): %w", o.Name, o.ID, ErrDuplicateIdentity)
	}
	r.objects = append(r.objects, o)
	r.index.Put(o.ID, o)
	return nil
}

// Remove deletes the object with the given id and returns it. Relative order of
// the remaining objects is preserved.
func (r *Registry) Remove(id ID) (*Object, error) {
	o, ok := r.index.Get(id)
	if !ok {
		return nil, fmt.Errorf("remove id %d: %w", id, ErrNotFound)
	}
	r.index.Del(id)
	if i := slices.Index(r.objects, o); i >= 0 {
		r.objects = slices.Delete(r.objects, i, i+1)
	}
	return o, nil
}

func (r *Registry) Get(id ID) *Object {
	o, _ := r.index.Get(id)
	return o
}

func (r *Registry) Contains(o *Object) bool {
	return o != nil && r.Get(o.ID) == o
}

func (r *Registry) FindByName(name string) *Object {
	for _, o := range r.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func (r *Registry) Len() int {
	return len(r.objects)
}

// Snapshot returns a copy of the current members in insertion order.
func (r *Registry) Snapshot() []*Object {
	return slices.Clone(r.objects)
}

// All yields the members present when iteration starts. Objects removed during
// the traversal are skipped once they are gone.
func (r *Registry) All() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, o := range r.Snapshot() {
			if !r.index.Has(o.ID) {
				continue
			}
			if !yield(o) {
				return
			}
		}
	}
}

// Clear removes every object and returns what was removed.
func (r *Registry) Clear() []*Object {
	removed := r.objects
	r.objects = make([]*Object, 0)
	r.index.Clear()
	return removed
}
