// Package observer is the change-notification list shared by the stores and the identity provider.
package observer

import "sync"

// Registry holds change callbacks. The zero value is ready to use.
type Registry struct {
	mu     sync.Mutex
	subs   map[int]func()
	next   int
	closed bool
}

// Subscribe registers fn to be called on every Notify.
// The returned func removes the subscription and is safe to call more than once.
// After Close, Subscribe registers nothing.
func (r *Registry) Subscribe(fn func()) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return func() {}
	}
	if r.subs == nil {
		r.subs = make(map[int]func())
	}
	id := r.next
	r.next++
	r.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

// Close drops every subscriber
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.subs = nil
}

// Notify calls every subscriber outside the lock, so callbacks may read the
// notifying object or subscribe and unsubscribe themselves.
func (r *Registry) Notify() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
