package tutorkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorkit/tutorkit/core"
	"github.com/tutorkit/tutorkit/progression"
)

func twoObjectiveCurriculum(t *testing.T) *core.Curriculum {
	t.Helper()
	cur, err := core.NewCurriculum([]core.Objective{
		{ID: "c::t::1", Description: "first", LevelName: "Beginner"},
		{ID: "c::t::2", Description: "second", LevelName: "Intermediate"},
	})
	require.NoError(t, err)
	return cur
}

func TestNew_Defaults(t *testing.T) {
	kit := New()
	ctx := context.Background()
	defer kit.Shutdown(ctx)

	p, err := kit.Tutor().CreateStudent(ctx, "Alice")
	require.NoError(t, err)
	assert.Empty(t, p.CurrentObjective, "empty curriculum leaves no objective to assign")
	assert.Equal(t, 1, kit.Sessions().Stats().ActiveSessions)
}

func TestNew_FullCycle(t *testing.T) {
	kit := New(func(o *Options) {
		o.Curriculum = twoObjectiveCurriculum(t)
		o.Progression = progression.Config{Window: 4, MinAttempts: 2, Threshold: 0.5, MaxLevel: 4}
	})
	ctx := context.Background()
	defer kit.Shutdown(ctx)

	svc := kit.Tutor()
	p, err := svc.CreateStudent(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "c::t::1", p.CurrentObjective)

	ex, err := svc.GenerateExercise(ctx, p.StudentID)
	require.NoError(t, err, "mock generator falls back to curriculum material")
	assert.NotEmpty(t, ex.Exercise)

	check, err := svc.CheckCompletion(ctx, p.StudentID)
	require.NoError(t, err)
	assert.False(t, check.CanAdvance)
}

func TestShutdown_FlushesSessions(t *testing.T) {
	kit := New(func(o *Options) {
		o.Curriculum = twoObjectiveCurriculum(t)
	})
	ctx := context.Background()

	p, err := kit.Tutor().CreateStudent(ctx, "Alice")
	require.NoError(t, err)

	kit.Shutdown(ctx)

	ids, err := kit.Tutor().ListStudentIDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, p.StudentID)
}
