package core

import "errors"

var (
	// ErrProfileNotFound is returned by ProfileStore.Load when no profile
	// exists for the student id. Callers that treat "no profile yet" as
	// an invitation to create a default must test for this sentinel.
	ErrProfileNotFound = errors.New("student profile not found")

	// ErrInvalidStudentID is returned when a student id is unsafe for use
	// as a storage key (empty, contains separators, traversal).
	ErrInvalidStudentID = errors.New("invalid student id")

	// ErrObjectiveNotInCurriculum signals a profile whose current objective
	// does not exist in the curriculum ordering. This is a data
	// inconsistency (curriculum/profile desync), never swallowed silently.
	ErrObjectiveNotInCurriculum = errors.New("objective not found in curriculum")
)
