package engine

// ObjectRef is a weak reference to an Object by ID. It never keeps a removed
// object alive from the registry's point of view.
type ObjectRef struct {
	ID ID // 0 = none
}

// Get resolves the reference, returning nil if it is empty or the object was removed.
func (r ObjectRef) Get(reg *Registry) *Object {
	if r.ID == 0 || reg == nil {
		return nil
	}
	return reg.Get(r.ID)
}

// IsValid returns true if the reference points to something. It doesn't check liveness.
func (r ObjectRef) IsValid() bool {
	return r.ID != 0
}

func (r *ObjectRef) Set(o *Object) {
	if o == nil {
		r.ID = 0
	} else {
		r.ID = o.ID
	}
}

func (r *ObjectRef) Clear() {
	r.ID = 0
}
