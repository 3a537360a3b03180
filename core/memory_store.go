package core

import "context"

// SearchResult represents a retrieved memory item with a relevance score
// and arbitrary string metadata.
type SearchResult struct {
	ID       string
	Content  string
	Score    float64
	Metadata map[string]string
}

// MemoryStore defines the optional semantic side-index of achievements and
// exercise attempts, queryable by free-text similarity. Implementations can
// back search with embeddings, keywords or any heuristic.
//
// The capability is strictly best-effort: no core flow depends on it, and
// callers treat any failure as the capability being absent for that
// operation. Upsert is keyed by a caller-derived deterministic id so
// repeated syncs overwrite rather than duplicate.
type MemoryStore interface {
	Upsert(ctx context.Context, id, content string, metadata map[string]string) error
	Query(ctx context.Context, text string, limit int) ([]SearchResult, error)

	// Ping checks reachability; the session registry calls it once at
	// session creation to decide whether to attach the capability.
	Ping(ctx context.Context) error
}
