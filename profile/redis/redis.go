// Package redis provides a Redis-backed core.ProfileStore. Each profile is
// a JSON document under "profile:<student_id>". Intended for deployments
// that already run Redis for the memory index or as a fast shared store in
// front of flat files; documents are written without TTL since profiles
// are durable state, not cache entries.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/tutorkit/tutorkit/core"
)

// KeyPrefix namespaces profile documents in the keyspace.
const KeyPrefix = "profile:"

// Store implements core.ProfileStore on a go-redis client.
type Store struct {
	client *redis.Client
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{client: client}, nil
}

// NewFromClient wraps an existing client; the caller keeps ownership.
func NewFromClient(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(studentID string) string { return KeyPrefix + studentID }

// Load reads the student's profile document.
func (s *Store) Load(ctx context.Context, studentID string) (*core.StudentProfile, error) {
	if !core.ValidStudentID(studentID) {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidStudentID, studentID)
	}
	data, err := s.client.Get(ctx, key(studentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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

// Save overwrites the full profile document. SET is atomic, so a
// concurrent Load sees either the old or the new document.
func (s *Store) Save(ctx context.Context, profile *core.StudentProfile) error {
	if !core.ValidStudentID(profile.StudentID) {
		return fmt.Errorf("%w: %q", core.ErrInvalidStudentID, profile.StudentID)
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", profile.StudentID, err)
	}
	if err := s.client.Set(ctx, key(profile.StudentID), data, 0).Err(); err != nil {
		return fmt.Errorf("save profile %s: %w", profile.StudentID, err)
	}
	return nil
}

// ListIDs scans the keyspace for profile documents. Best-effort: a large
// keyspace is walked incrementally with SCAN, never KEYS.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), KeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return ids, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Interface compliance (compile-time assertion)
var _ core.ProfileStore = (*Store)(nil)
