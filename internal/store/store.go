// Package store holds the client-side state the views render: reviews, saved spots,
// the spot being viewed and the searchable spot catalogue. Each store keeps a local
// copy of one backend collection and updates it only after the backend confirms a change.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/ngmaloney/surf-terminal/internal/observer"
)

// callTimeout bounds every backend call a store makes
const callTimeout = 30 * time.Second

// state is the part every store shares: a mutex, the loading flag, the last
// error and the subscriber list. Stores embed it and guard their own fields with mu.
type state struct {
	mu      sync.Mutex
	loading bool
	err     string

	observers observer.Registry
}

// Loading reports whether an operation is in flight
func (s *state) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Error returns the message of the last failed operation, or "" if the last operation succeeded
func (s *state) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Subscribe registers fn to be called after every state change.
// The returned func removes the subscription and is safe to call more than once.
func (s *state) Subscribe(fn func()) (unsubscribe func()) {
	return s.observers.Subscribe(fn)
}

// Close drops every subscriber. Later state changes still apply but notify nobody.
func (s *state) Close() {
	s.observers.Close()
}

// notify must be called without mu held so subscribers may read the store
func (s *state) notify() {
	s.observers.Notify()
}

// begin marks an operation as started and clears the previous error
func (s *state) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// fail ends an operation with an error, leaving collections untouched
func (s *state) fail(msg string) {
	s.mu.Lock()
	s.loading = false
	s.err = msg
	s.mu.Unlock()
	s.notify()
}

// withTimeout derives the per-call context used for gateway requests
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, callTimeout)
}
