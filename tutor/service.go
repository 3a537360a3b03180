package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tutorkit/tutorkit/core"
	"github.com/tutorkit/tutorkit/internal/util"
	"github.com/tutorkit/tutorkit/logging"
	"github.com/tutorkit/tutorkit/progression"
	"github.com/tutorkit/tutorkit/session"
)

// ErrNoObjective indicates the student has no current objective, so there
// is nothing to generate exercises for.
var ErrNoObjective = errors.New("tutor: student has no current objective")

// ErrNoOriginalExercise indicates a similar-exercise request arrived with no
// original and the session holds no previously served exercise either.
var ErrNoOriginalExercise = errors.New("tutor: no original exercise to vary")

// scratchLastExercise is the session scratch key holding the most recently
// generated exercise.
const scratchLastExercise = "last_exercise"

// Options configure a Service.
type Options struct {
	// Logger receives model call and fallback diagnostics. Defaults to NoOp.
	Logger logging.Logger

	// Now is the clock used for history timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Service is the tutoring facade. It owns no state of its own: student
// state lives in the session registry, curriculum data is immutable, and
// the generator is stateless.
type Service struct {
	gen    core.Generator
	cur    *core.Curriculum
	engine *progression.Engine
	reg    *session.Registry
	store  core.ProfileStore
	logger logging.Logger
	now    func() time.Time
}

// New creates a tutoring service. The store is used for read-only lookups
// of students with no active session; writes always go through the registry.
func New(
	gen core.Generator,
	cur *core.Curriculum,
	engine *progression.Engine,
	reg *session.Registry,
	store core.ProfileStore,
	optFns ...func(o *Options),
) *Service {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Now:    time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		gen:    gen,
		cur:    cur,
		engine: engine,
		reg:    reg,
		store:  store,
		logger: opts.Logger,
		now:    opts.Now,
	}
}

// Curriculum returns the immutable objective sequence.
func (s *Service) Curriculum() *core.Curriculum { return s.cur }

// GeneratorInfo describes the backing model.
func (s *Service) GeneratorInfo() core.GeneratorInfo { return s.gen.Info() }

// CreateStudent mints a new student id, opens a session with a default
// profile, points it at the first curriculum objective, and persists it.
func (s *Service) CreateStudent(ctx context.Context, name string) (*core.StudentProfile, error) {
	sess, err := s.reg.GetOrCreate(ctx, util.NewStudentID(), name)
	if err != nil {
		return nil, err
	}
	if first, ok := s.cur.First(); ok && sess.Profile.CurrentObjective == "" {
		sess.Profile.CurrentObjective = first.ID
	}
	s.reg.Save(ctx, sess.Profile.StudentID)
	return sess.Profile.Clone(), nil
}

// GetStudent returns a snapshot of a student's profile without opening a
// session: an active session wins, otherwise the store is consulted.
// Unknown students yield core.ErrProfileNotFound.
func (s *Service) GetStudent(ctx context.Context, studentID string) (*core.StudentProfile, error) {
	if !core.ValidStudentID(studentID) {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidStudentID, studentID)
	}
	if p, ok := s.reg.Peek(studentID); ok {
		return p, nil
	}
	return s.store.Load(ctx, studentID)
}

// Progress returns the compact progress view of a student.
func (s *Service) Progress(ctx context.Context, studentID string) (Progress, error) {
	p, err := s.GetStudent(ctx, studentID)
	if err != nil {
		return Progress{}, err
	}
	return Progress{
		Level:               p.Level,
		Completed:           len(p.ObjectivesCompleted),
		CurrentObjective:    p.CurrentObjective,
		ObjectivesCompleted: p.ObjectivesCompleted,
	}, nil
}

// CurrentObjective returns the curriculum entry the student is working on.
func (s *Service) CurrentObjective(ctx context.Context, studentID string) (core.Objective, error) {
	p, err := s.GetStudent(ctx, studentID)
	if err != nil {
		return core.Objective{}, err
	}
	if p.CurrentObjective == "" {
		return core.Objective{}, ErrNoObjective
	}
	obj, ok := s.cur.Get(p.CurrentObjective)
	if !ok {
		return core.Objective{}, fmt.Errorf("%w: %s", core.ErrObjectiveNotInCurriculum, p.CurrentObjective)
	}
	return obj, nil
}

// GenerateExercise produces a practice problem for the student's current
// objective. Generation failures degrade to a deterministic exercise built
// from the objective's example material.
func (s *Service) GenerateExercise(ctx context.Context, studentID string) (Exercise, error) {
	sess, err := s.reg.GetOrCreate(ctx, studentID, "")
	if err != nil {
		return Exercise{}, err
	}
	if sess.Profile.CurrentObjective == "" {
		return Exercise{}, ErrNoObjective
	}
	obj, ok := s.cur.Get(sess.Profile.CurrentObjective)
	if !ok {
		return Exercise{}, fmt.Errorf("%w: %s", core.ErrObjectiveNotInCurriculum, sess.Profile.CurrentObjective)
	}
	fallback := fallbackExercise(obj)

	prompt, err := util.RenderTemplate(exercisePrompt, map[string]any{
		"objective_description": obj.Description,
		"level_name":            obj.LevelName,
		"objective_id":          obj.ID,
		"example_exercise":      firstOr(obj.ExampleExercises, "a problem from this topic"),
	})
	if err != nil {
		s.logger.Warn("exercise prompt render failed", "student_id", studentID, "error", err)
		return s.remember(studentID, fallback), nil
	}

	var ex Exercise
	if err := s.complete(ctx, prompt, &ex); err != nil {
		s.logger.Warn("exercise generation fell back", "student_id", studentID, "objective", obj.ID, "error", err)
		return s.remember(studentID, fallback), nil
	}
	if strings.TrimSpace(ex.Exercise) == "" || strings.TrimSpace(ex.Solution) == "" {
		return s.remember(studentID, fallback), nil
	}
	if ex.Concept == "" {
		ex.Concept = obj.ID
	}
	if ex.Difficulty == "" {
		ex.Difficulty = obj.LevelName
	}
	return s.remember(studentID, ex), nil
}

// GenerateSimilarExercise produces a variation of a previously served
// exercise at the student's level. An empty original falls back to the
// session's last generated exercise.
func (s *Service) GenerateSimilarExercise(ctx context.Context, studentID string, original Exercise) (Exercise, error) {
	sess, err := s.reg.GetOrCreate(ctx, studentID, "")
	if err != nil {
		return Exercise{}, err
	}
	if strings.TrimSpace(original.Exercise) == "" {
		last, ok := s.LastExercise(studentID)
		if !ok {
			return Exercise{}, ErrNoOriginalExercise
		}
		original = last
	}

	prompt, err := util.RenderTemplate(similarExercisePrompt, map[string]any{
		"student_level":     sess.Profile.Level,
		"original_exercise": original.Exercise,
		"original_solution": original.Solution,
		"concept":           original.Concept,
		"difficulty":        original.Difficulty,
	})
	if err != nil {
		s.logger.Warn("similar-exercise prompt render failed", "student_id", studentID, "error", err)
		return s.remember(studentID, fallbackSimilarExercise(original)), nil
	}

	var ex Exercise
	if err := s.complete(ctx, prompt, &ex); err != nil {
		s.logger.Warn("similar-exercise generation fell back", "student_id", studentID, "error", err)
		return s.remember(studentID, fallbackSimilarExercise(original)), nil
	}
	if strings.TrimSpace(ex.Exercise) == "" || strings.TrimSpace(ex.Solution) == "" {
		return s.remember(studentID, fallbackSimilarExercise(original)), nil
	}
	if ex.Concept == "" {
		ex.Concept = original.Concept
	}
	if ex.Difficulty == "" {
		ex.Difficulty = original.Difficulty
	}
	return s.remember(studentID, ex), nil
}

// EvaluateAnswer assesses a submitted answer, records the attempt in the
// student's learning history, persists the session, and then runs the
// automatic progression check. Evaluation failures degrade to an
// incorrect-by-default fallback so the attempt is still recorded.
func (s *Service) EvaluateAnswer(ctx context.Context, studentID string, exercise Exercise, answer string) (EvaluationOutcome, error) {
	sess, err := s.reg.GetOrCreate(ctx, studentID, "")
	if err != nil {
		return EvaluationOutcome{}, err
	}

	result := fallbackEvaluation(exercise)
	prompt, err := util.RenderTemplate(evaluationPrompt, map[string]any{
		"exercise": exercise.Exercise,
		"solution": exercise.Solution,
		"answer":   answer,
	})
	if err == nil {
		var decoded EvaluationResult
		if err := s.complete(ctx, prompt, &decoded); err != nil {
			s.logger.Warn("evaluation fell back", "student_id", studentID, "error", err)
		} else if strings.TrimSpace(decoded.Feedback) != "" {
			result = decoded
		}
	} else {
		s.logger.Warn("evaluation prompt render failed", "student_id", studentID, "error", err)
	}

	sess.Profile.AppendAttempt(core.Attempt{
		ExerciseText: exercise.Exercise,
		Answer:       answer,
		Correct:      result.IsCorrect,
		Timestamp:    s.now(),
		Concept:      exercise.Concept,
	})
	s.reg.Save(ctx, studentID)

	outcome, err := s.engine.AutoCheckAndAdvance(sess.Profile, s.cur)
	if err != nil {
		s.logger.Warn("progression check failed", "student_id", studentID, "error", err)
	}
	if outcome.Advanced || outcome.CompletedAll {
		s.reg.Save(ctx, studentID)
	}
	return EvaluationOutcome{Evaluation: result, Progression: outcome}, nil
}

// CoachMessage produces a short motivational note tailored to the student.
func (s *Service) CoachMessage(ctx context.Context, studentID string) (CoachMessage, error) {
	sess, err := s.reg.GetOrCreate(ctx, studentID, "")
	if err != nil {
		return CoachMessage{}, err
	}

	objective := "their current objective"
	if obj, ok := s.cur.Get(sess.Profile.CurrentObjective); ok {
		objective = obj.Description
	}
	name := sess.Profile.Name
	if name == "" {
		name = "the student"
	}
	prompt, err := util.RenderTemplate(coachPrompt, map[string]any{
		"student_name": name,
		"level_name":   LevelName(sess.Profile.Level),
		"objective":    objective,
	})
	if err != nil {
		s.logger.Warn("coach prompt render failed", "student_id", studentID, "error", err)
		return fallbackCoachMessage(), nil
	}

	var msg CoachMessage
	if err := s.complete(ctx, prompt, &msg); err != nil {
		s.logger.Warn("coach message fell back", "student_id", studentID, "error", err)
		return fallbackCoachMessage(), nil
	}
	if strings.TrimSpace(msg.Motivation) == "" {
		return fallbackCoachMessage(), nil
	}
	return msg, nil
}

// ProgressionStatus returns the detailed progression view of a student.
func (s *Service) ProgressionStatus(ctx context.Context, studentID string) (progression.Status, error) {
	sess, err := s.reg.GetOrCreate(ctx, studentID, "")
	if err != nil {
		return progression.Status{}, err
	}
	return s.engine.Status(sess.Profile, s.cur), nil
}

// AdvanceObjective manually moves a student to the next objective when the
// advancement criteria are met.
func (s *Service) AdvanceObjective(ctx context.Context, studentID string) (AdvanceResult, error) {
	sess, err := s.reg.GetOrCreate(ctx, studentID, "")
	if err != nil {
		return AdvanceResult{}, err
	}
	if !s.engine.ReadyToAdvance(sess.Profile) {
		return AdvanceResult{
			ProgressionOccurred: false,
			Message:             "The student has not yet met the criteria to move to the next objective.",
		}, nil
	}
	outcome, err := s.engine.Advance(sess.Profile, s.cur)
	if err != nil {
		return AdvanceResult{}, err
	}
	s.reg.Save(ctx, studentID)
	if !outcome.Advanced {
		return AdvanceResult{
			ProgressionOccurred: false,
			Message:             "All objectives have been completed!",
		}, nil
	}
	return AdvanceResult{
		ProgressionOccurred: true,
		Message:             "Advanced to the next objective!",
		NewObjective:        outcome.NewObjective,
		NewLevel:            outcome.NewLevel,
	}, nil
}

// CheckCompletion reports whether the student meets the advancement
// criteria without advancing.
func (s *Service) CheckCompletion(ctx context.Context, studentID string) (CompletionCheck, error) {
	sess, err := s.reg.GetOrCreate(ctx, studentID, "")
	if err != nil {
		return CompletionCheck{}, err
	}
	return CompletionCheck{
		CanAdvance:         s.engine.ReadyToAdvance(sess.Profile),
		RecentSuccessRate:  s.engine.RecentSuccessRate(sess.Profile),
		ExercisesCompleted: len(sess.Profile.LearningHistory),
	}, nil
}

// ListStudentIDs returns the ids of all persisted students, best-effort.
func (s *Service) ListStudentIDs(ctx context.Context) ([]string, error) {
	return s.store.ListIDs(ctx)
}

// LastExercise returns the most recent exercise served in the student's
// session, if any.
func (s *Service) LastExercise(studentID string) (Exercise, bool) {
	v, ok := s.reg.ReadScratch(studentID, scratchLastExercise)
	if !ok {
		return Exercise{}, false
	}
	ex, ok := v.(Exercise)
	return ex, ok
}

// remember stashes the exercise in session scratch so follow-up requests
// can refer back to it.
func (s *Service) remember(studentID string, ex Exercise) Exercise {
	s.reg.UpdateScratch(studentID, scratchLastExercise, ex)
	return ex
}

// complete runs one generative call and decodes the JSON artifact.
func (s *Service) complete(ctx context.Context, prompt string, v any) error {
	info := s.gen.Info()
	start := time.Now()
	completion, err := s.gen.Generate(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Warn("model call failed",
			"provider", info.Provider, "model", info.Name, "duration", elapsed, "error", err)
		return err
	}
	s.logger.Debug("model call completed",
		"provider", info.Provider, "model", info.Name, "duration", elapsed)
	return decodeArtifact(completion, v)
}

func firstOr(values []string, def string) string {
	if len(values) > 0 {
		return values[0]
	}
	return def
}
