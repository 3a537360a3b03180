package core

import "context"

// ProfileStore persists StudentProfile records keyed by student id.
// Implementations must be safe for concurrent use. Short method names
// (Load/Save/ListIDs) mirror the other *Store interfaces for consistency.
//
// Contract:
//   - Load returns ErrProfileNotFound (possibly wrapped) when absent
//   - Save is a full overwrite, atomic from the caller's perspective: a
//     subsequent Load never observes a partial write
//   - ListIDs is best-effort; backends that cannot enumerate may return an
//     empty slice and no error
type ProfileStore interface {
	Load(ctx context.Context, studentID string) (*StudentProfile, error)
	Save(ctx context.Context, profile *StudentProfile) error
	ListIDs(ctx context.Context) ([]string, error)
}
