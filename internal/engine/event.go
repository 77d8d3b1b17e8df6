package engine

import "slices"

// ListenerID identifies a subscription so it can be removed later.
type ListenerID uint32

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// Event is a multi-cast notification carrying one argument.
type Event[T any] struct {
	listeners []listener[T]
	next      ListenerID
}

// AddListener subscribes fn and returns an id for RemoveListener. Nil callbacks are ignored.
func (e *Event[T]) AddListener(fn func(T)) ListenerID {
	if fn == nil {
		return 0
	}
	e.next++
	e.listeners = append(e.listeners, listener[T]{id: e.next, fn: fn})
	return e.next
}

func (e *Event[T]) RemoveListener(id ListenerID) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = slices.Delete(slices.Clone(e.listeners), i, i+1)
			return
		}
	}
}

func (e *Event[T]) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls listeners in subscription order. Listeners added during Invoke
// are not called until the next one.
func (e *Event[T]) Invoke(arg T) {
	ls := e.listeners
	for _, l := range ls {
		l.fn(arg)
	}
}

func (e *Event[T]) ListenerCount() int {
	return len(e.listeners)
}
