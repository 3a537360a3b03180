// Package session implements the in-memory session registry: the single
// authoritative owner of active student state. The registry guarantees at
// most one live session per student id, loads or defaults profiles from a
// core.ProfileStore, attaches the optional memory index capability, and
// evicts idle sessions on a cancellable background cadence with a
// best-effort save before removal.
//
// Concurrency model: one mutex guards the session map and is held for the
// duration of every read-modify-write sequence (resolve-or-create,
// evict-scan-remove), so concurrent requests for the same new student id
// cannot create divergent sessions and the reaper cannot remove a session
// that a request is concurrently refreshing.
package session
