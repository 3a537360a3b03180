// Package postgres provides a PostgreSQL-backed core.ProfileStore using
// pgx. Profiles are stored as one JSONB document per student, keeping the
// persisted representation identical across backends.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorkit/tutorkit/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS student_profiles (
	student_id TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Store implements core.ProfileStore on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database, verifies the connection and ensures the
// profile table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewFromPool wraps an existing pool; the caller keeps ownership and must
// have created the schema.
func NewFromPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Load reads the student's profile document.
func (s *Store) Load(ctx context.Context, studentID string) (*core.StudentProfile, error) {
	if !core.ValidStudentID(studentID) {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidStudentID, studentID)
	}
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM student_profiles WHERE student_id = $1`, studentID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrProfileNotFound, studentID)
		}
		return nil, fmt.Errorf("load profile %s: %w", studentID, err)
	}
	var p core.StudentProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", studentID, err)
	}
	return &p, nil
}

// Save upserts the full profile document. The single-statement upsert makes
// the overwrite atomic from the caller's perspective.
func (s *Store) Save(ctx context.Context, profile *core.StudentProfile) error {
	if !core.ValidStudentID(profile.StudentID) {
		return fmt.Errorf("%w: %q", core.ErrInvalidStudentID, profile.StudentID)
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", profile.StudentID, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO student_profiles (student_id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		profile.StudentID, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save profile %s: %w", profile.StudentID, err)
	}
	return nil
}

// ListIDs enumerates all stored student ids.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT student_id FROM student_profiles ORDER BY student_id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return ids, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Interface compliance (compile-time assertion)
var _ core.ProfileStore = (*Store)(nil)
