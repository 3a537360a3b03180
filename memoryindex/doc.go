// Package memoryindex contains concrete core.MemoryStore implementations.
// The store interface and SearchResult type reside in the core package;
// depend on core.MemoryStore in your code and select an implementation at
// wiring time.
//
// Two backends are provided: a process-local in-memory index for tests and
// demos, and a SQLite-backed index that persists lexical hash embeddings
// and ranks queries by cosine similarity. Both are strictly best-effort
// capabilities — callers must tolerate any of their errors by treating the
// index as absent.
package memoryindex
