// Package util holds small unexported helpers shared across TutorKit
// packages. It lives in internal to avoid committing to public API
// stability prematurely.
package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewStudentID mints a new unique student identifier. UUIDs contain no
// separators or traversal sequences, so the result is always safe as a
// filesystem or key-value lookup key.
func NewStudentID() string {
	return uuid.NewString()
}

// NewInvocationID mints a short correlation id for request logging.
func NewInvocationID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
