package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tutorkit/tutorkit/core"
)

// FileStore persists one JSON document per student under a data directory.
//
// Saves are atomic: the document is written to a temp file in the same
// directory and renamed over the target, so a concurrent Load never
// observes a partial write.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory backing the store.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(studentID string) (string, error) {
	if !core.ValidStudentID(studentID) {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidStudentID, studentID)
	}
	return filepath.Join(s.dir, studentID+".json"), nil
}

// Load reads the student's profile document.
func (s *FileStore) Load(_ context.Context, studentID string) (*core.StudentProfile, error) {
	path, err := s.path(studentID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from a validated id
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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

// Save overwrites the student's profile document atomically.
func (s *FileStore) Save(_ context.Context, profile *core.StudentProfile) error {
	path, err := s.path(profile.StudentID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", profile.StudentID, err)
	}

	tmp, err := os.CreateTemp(s.dir, profile.StudentID+".*.tmp")
	if err != nil {
		return fmt.Errorf("save profile %s: %w", profile.StudentID, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save profile %s: %w", profile.StudentID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save profile %s: %w", profile.StudentID, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save profile %s: %w", profile.StudentID, err)
	}
	return nil
}

// ListIDs enumerates the student ids present in the data directory.
func (s *FileStore) ListIDs(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
