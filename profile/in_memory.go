package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/tutorkit/tutorkit/core"
)

// InMemoryStore is a volatile ProfileStore keeping profiles in a process
// local map. It is safe for concurrent access and best suited for tests or
// ephemeral demo servers. Profiles are cloned on the way in and out to
// prevent external mutation of internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*core.StudentProfile
}

// NewInMemoryStore constructs an empty in-memory profile store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[string]*core.StudentProfile)}
}

// Load returns a clone of the stored profile or core.ErrProfileNotFound.
func (s *InMemoryStore) Load(_ context.Context, studentID string) (*core.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[studentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrProfileNotFound, studentID)
	}
	return p.Clone(), nil
}

// Save stores a clone of the provided profile.
func (s *InMemoryStore) Save(_ context.Context, profile *core.StudentProfile) error {
	if !core.ValidStudentID(profile.StudentID) {
		return fmt.Errorf("%w: %q", core.ErrInvalidStudentID, profile.StudentID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.StudentID] = profile.Clone()
	return nil
}

// ListIDs returns the stored student ids in unspecified order.
func (s *InMemoryStore) ListIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}
