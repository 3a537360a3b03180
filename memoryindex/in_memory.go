package memoryindex

import (
	"context"
	"sort"
	"sync"

	"github.com/tutorkit/tutorkit/core"
)

// storedMemory is the internal representation persisted by InMemoryStore.
type storedMemory struct {
	id       string
	content  string
	vector   []float32
	metadata map[string]string
}

// InMemoryStore is a process-local core.MemoryStore. Upserts are keyed by
// the caller's deterministic id so repeated syncs overwrite rather than
// duplicate. Search ranks by cosine similarity over the lexical hash
// embedding, ties broken by id for stable ordering.
//
// Concurrency: protected by RWMutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]storedMemory
}

// NewInMemoryStore creates an empty in-memory index.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]storedMemory)}
}

// Upsert stores (or overwrites) the entry under the given id.
func (m *InMemoryStore) Upsert(_ context.Context, id, content string, metadata map[string]string) error {
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = storedMemory{id: id, content: content, vector: embed(content), metadata: md}
	return nil
}

// Query returns up to limit entries ranked by similarity to text.
func (m *InMemoryStore) Query(_ context.Context, text string, limit int) ([]core.SearchResult, error) {
	if limit <= 0 {
		return []core.SearchResult{}, nil
	}
	qv := embed(text)

	m.mu.RLock()
	results := make([]core.SearchResult, 0, len(m.entries))
	for _, e := range m.entries {
		md := make(map[string]string, len(e.metadata))
		for k, v := range e.metadata {
			md[k] = v
		}
		results = append(results, core.SearchResult{
			ID:       e.id,
			Content:  e.content,
			Score:    cosineSimilarity(qv, e.vector),
			Metadata: md,
		})
	}
	m.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Ping always succeeds for the in-memory index.
func (m *InMemoryStore) Ping(context.Context) error { return nil }

// Len returns the number of stored entries. Test helper.
func (m *InMemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
