package state

import (
	"sync"

	"go.uber.org/zap"

	"github.com/nutrigen/nutri/internal/storage"
)

// Store owns the application state. Every transition, local or from an
// async operation, is applied under one lock, so exactly one transition runs
// at a time.
type Store struct {
	mu     sync.Mutex
	state  State
	gens   map[string]uint64
	subs   map[int]chan State
	nextID int
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithHistoryCap sets the nutrition search history cap.
func WithHistoryCap(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.state.Nutrition.HistoryCap = n
		}
	}
}

// New returns a store whose authentication flag is seeded from creds. This is
// the only time the credential is consulted; afterwards the store is the
// source of truth for "is authenticated".
func New(creds storage.CredentialStore, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		gens:   make(map[string]uint64),
		subs:   make(map[int]chan State),
		logger: logger,
	}
	s.state.Nutrition.HistoryCap = DefaultHistoryCap
	s.state.Auth.IsAuthenticated = storage.HasCredential(creds)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe returns a channel that always holds the latest snapshot: it is
// primed with the current state, and a pending unread snapshot is replaced
// by a newer one. Call the returned func to unsubscribe; it closes the
// channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, 1)
	ch <- s.state.Clone()
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// Dispatch applies a local action. An action that resets a slice also
// invalidates the requests in flight against it.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.apply(&s.state)
	if r, ok := a.(resetter); ok {
		for _, key := range r.resets() {
			s.gens[key]++
		}
	}
	s.publishLocked()
}

// begin applies a pending transition and returns the new generation for key.
func (s *Store) begin(key string, fn func(*State)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[key]++
	gen := s.gens[key]
	fn(&s.state)
	s.publishLocked()
	return gen
}

// complete applies fn if gen is still the latest generation for key, and
// reports whether it did.
func (s *Store) complete(key string, gen uint64, fn func(*State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[key] != gen {
		s.logger.Debug("discarding stale completion",
			zap.String("key", key),
			zap.Uint64("generation", gen),
			zap.Uint64("current", s.gens[key]))
		return false
	}
	fn(&s.state)
	s.publishLocked()
	return true
}

func (s *Store) publishLocked() {
	for _, ch := range s.subs {
		// drop the unread snapshot, if any; we are the only sender
		select {
		case <-ch:
		default:
		}
		ch <- s.state.Clone()
	}
}
