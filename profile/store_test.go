package profile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorkit/tutorkit/core"
)

// Interface compliance (compile-time assertions)
var (
	_ core.ProfileStore = (*FileStore)(nil)
	_ core.ProfileStore = (*InMemoryStore)(nil)
)

func sampleProfile(t *testing.T) *core.StudentProfile {
	t.Helper()
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	p := core.NewStudentProfile("stu-42", "Alice", created)
	p.Level = 2
	p.CurrentObjective = "college::fractions::2"
	p.CompleteObjective("college::fractions::1")
	p.AppendAttempt(core.Attempt{
		ExerciseText: "1/4 + 2/4 = ?",
		Answer:       "3/4",
		Correct:      true,
		Timestamp:    created.Add(time.Minute),
		Concept:      "college::fractions::1",
	})
	return p
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	want := sampleProfile(t)
	require.NoError(t, store.Save(ctx, want))

	// A fresh store over the same directory simulates a process restart.
	reopened, err := NewFileStore(store.Dir())
	require.NoError(t, err)
	got, err := reopened.Load(ctx, "stu-42")
	require.NoError(t, err)

	assert.Equal(t, want.Level, got.Level)
	assert.Equal(t, want.CurrentObjective, got.CurrentObjective)
	assert.Equal(t, want.ObjectivesCompleted, got.ObjectivesCompleted)
	require.Len(t, got.LearningHistory, 1)
	assert.Equal(t, want.LearningHistory[0].ExerciseText, got.LearningHistory[0].ExerciseText)
	assert.True(t, want.LearningHistory[0].Timestamp.Equal(got.LearningHistory[0].Timestamp))
}

func TestFileStore_LoadAbsent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrProfileNotFound)
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"", "..", "a/b", `a\b`, "a b"} {
		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, core.ErrInvalidStudentID, "id %q", id)
	}
}

func TestFileStore_SaveIsFullOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	p := sampleProfile(t)
	require.NoError(t, store.Save(ctx, p))

	p.Level = 3
	p.LearningHistory = nil
	require.NoError(t, store.Save(ctx, p))

	got, err := store.Load(ctx, p.StudentID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Level)
	assert.Empty(t, got.LearningHistory)

	// No temp files left behind.
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, ".json", filepath.Ext(e.Name()))
	}
}

func TestFileStore_ListIDs(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, core.NewStudentProfile(id, "", time.Now())))
	}
	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0o600))

	ids, err := store.ListIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)
}

func TestFileStore_DocumentShape(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), sampleProfile(t)))

	raw, err := os.ReadFile(filepath.Join(store.Dir(), "stu-42.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "student_id")
	assert.Contains(t, doc, "learning_history")
	assert.Contains(t, doc, "objectives_completed")
}

func TestInMemoryStore_CloneIsolation(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	p := sampleProfile(t)
	require.NoError(t, store.Save(ctx, p))

	// Mutating the original after save must not affect the stored copy.
	p.Level = 9
	p.ObjectivesCompleted = append(p.ObjectivesCompleted, "x")

	got, err := store.Load(ctx, "stu-42")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, []string{"college::fractions::1"}, got.ObjectivesCompleted)

	// Mutating a loaded copy must not affect subsequent loads.
	got.Level = 7
	again, err := store.Load(ctx, "stu-42")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Level)
}

func TestInMemoryStore_LoadAbsent(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, core.ErrProfileNotFound)
}
