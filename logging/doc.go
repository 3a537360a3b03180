// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug
// any structured logger. It also offers a richer TutorLogger with contextual
// helpers (component, student) and domain specific logging helpers for
// model calls, persistence and session eviction.
package logging
