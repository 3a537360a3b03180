package memoryindex

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/tutorkit/tutorkit/core"
)

// SQLiteStore is a file-backed core.MemoryStore. Every entry keeps its
// content, a float32 embedding blob and JSON metadata; queries load all
// rows and rank by cosine similarity in process.
//
// The linear scan is deliberate: the index holds tens of entries per
// student (recent history plus achievements), far below the point where a
// vector database pays off.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the index database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS memories (
			id       TEXT PRIMARY KEY,
			content  TEXT NOT NULL,
			vector   BLOB NOT NULL,
			metadata TEXT NOT NULL
		);`)
	if err != nil {
		return fmt.Errorf("init index schema: %w", err)
	}
	return nil
}

// Upsert stores (or overwrites) the entry under the given id.
func (s *SQLiteStore) Upsert(ctx context.Context, id, content string, metadata map[string]string) error {
	vecBuf := new(bytes.Buffer)
	if err := binary.Write(vecBuf, binary.LittleEndian, embed(content)); err != nil {
		return fmt.Errorf("encode vector: %w", err)
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memories (id, content, vector, metadata) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content  = excluded.content,
			vector   = excluded.vector,
			metadata = excluded.metadata`,
		id, content, vecBuf.Bytes(), string(metaJSON))
	if err != nil {
		return fmt.Errorf("upsert memory %s: %w", id, err)
	}
	return nil
}

// Query returns up to limit entries ranked by similarity to text.
func (s *SQLiteStore) Query(ctx context.Context, text string, limit int) ([]core.SearchResult, error) {
	if limit <= 0 {
		return []core.SearchResult{}, nil
	}
	qv := embed(text)

	rows, err := s.db.QueryContext(ctx, `SELECT id, content, vector, metadata FROM memories`)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer rows.Close()

	var results []core.SearchResult
	for rows.Next() {
		var (
			id, content, metaJSON string
			vecBlob               []byte
		)
		if err := rows.Scan(&id, &content, &vecBlob, &metaJSON); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		vector := make([]float32, len(vecBlob)/4)
		if err := binary.Read(bytes.NewReader(vecBlob), binary.LittleEndian, &vector); err != nil {
			continue // skip corrupt rows rather than failing the whole query
		}
		var meta map[string]string
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			meta = map[string]string{}
		}
		results = append(results, core.SearchResult{
			ID:       id,
			Content:  content,
			Score:    cosineSimilarity(qv, vector),
			Metadata: meta,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}

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

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
