// Package profile houses concrete implementations of core.ProfileStore.
// The interface itself (and the StudentProfile struct) live in the core
// package to centralize domain contracts. Keeping only implementations here
// prevents higher level packages (session, tutor) from depending on
// concrete storage.
//
// The file-backed store is the reference backend (one JSON document per
// student); profile/postgres and profile/redis provide durable and
// cache-style alternatives selected at wiring time.
package profile
