package session

import (
	"time"

	"github.com/tutorkit/tutorkit/core"
)

// Session is the live, in-memory working copy of one student's profile
// plus transient state. It is owned exclusively by the Registry while
// active; callers obtain it through Registry.GetOrCreate and mutate it
// under the registry's single-writer assumption (one student, one client,
// serial requests).
type Session struct {
	// Profile is the student profile being worked on.
	Profile *core.StudentProfile

	// LastActivity is refreshed on every registry operation touching the
	// session and drives idle expiry.
	LastActivity time.Time

	// Scratch is an ephemeral key/value bag for request-scoped state. It
	// is never persisted beyond the session lifetime.
	Scratch map[string]any

	// memory is the attached side-index capability, nil when absent.
	memory core.MemoryStore
}

// HasMemory reports whether the memory index capability is attached.
func (s *Session) HasMemory() bool { return s.memory != nil }

// touch refreshes the activity timestamp.
func (s *Session) touch(now time.Time) { s.LastActivity = now }

// expired reports whether the session's idle time exceeds the timeout.
func (s *Session) expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) > timeout
}
