package setup

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps the setup flows in memory. Every accessor works on copies,
// so a caller never holds a pointer into the store.
type Store struct {
	mu    sync.Mutex
	flows map[string]*State
	ttl   time.Duration
	newID func() string
}

// NewStore creates a store; flows untouched for longer than ttl count as abandoned
func NewStore(ttl time.Duration) *Store {
	return &Store{
		flows: make(map[string]*State),
		ttl:   ttl,
		newID: uuid.NewString,
	}
}

// Start creates a flow for the owner
func (s *Store) Start(ownerID string, now time.Time) *State {
	state := NewState(s.newID(), ownerID, now)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.flows[state.ID] = state
	return state.Clone()
}

// Get returns a copy of the flow
func (s *Store) Get(id, ownerID string, now time.Time) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.lookup(id, ownerID, now)
	if err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

// Update runs fn on a copy of the flow and stores the copy, also when fn fails:
// State methods either apply fully or only record validation errors.
// fn must not block; the store lock is held while it runs.
func (s *Store) Update(id, ownerID string, now time.Time, fn func(*State) error) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.lookup(id, ownerID, now)
	if err != nil {
		return nil, err
	}

	working := state.Clone()
	fnErr := fn(working)
	working.UpdatedAt = now
	s.flows[id] = working

	return working.Clone(), fnErr
}

// Discard removes the flow (completion or abandonment)
func (s *Store) Discard(id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.flows[id]
	if !ok {
		return ErrFlowNotFound
	}
	if state.OwnerID != ownerID {
		return ErrAccessDenied
	}
	delete(s.flows, id)
	return nil
}

// Sweep drops abandoned flows and returns how many were removed.
// A flow in the middle of processing is kept until processing ends.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, state := range s.flows {
		if s.expired(state, now) && !state.Processing {
			delete(s.flows, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored flows
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}

func (s *Store) lookup(id, ownerID string, now time.Time) (*State, error) {
	state, ok := s.flows[id]
	if !ok || (s.expired(state, now) && !state.Processing) {
		return nil, ErrFlowNotFound
	}
	if state.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}
	return state, nil
}

func (s *Store) expired(state *State, now time.Time) bool {
	return s.ttl > 0 && now.Sub(state.UpdatedAt) > s.ttl
}
