package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorkit/tutorkit/core"
	"github.com/tutorkit/tutorkit/model"
	"github.com/tutorkit/tutorkit/profile"
	"github.com/tutorkit/tutorkit/progression"
	"github.com/tutorkit/tutorkit/session"
	"github.com/tutorkit/tutorkit/tutor"
)

func newTestServer(t *testing.T) (*Server, *model.MockGenerator) {
	t.Helper()
	cur, err := core.NewCurriculum([]core.Objective{
		{
			ID:               "cycle4::functions::1",
			Cycle:            "cycle4",
			Theme:            "functions",
			Description:      "Evaluate linear functions",
			LevelName:        "Beginner",
			ObjectiveTexts:   []string{"Evaluate f(x) = 2x + 1"},
			ExampleExercises: []string{"f(x) = 2x + 1"},
		},
		{
			ID:          "cycle4::functions::2",
			Cycle:       "cycle4",
			Theme:       "functions",
			Description: "Solve linear equations",
			LevelName:   "Intermediate",
		},
	})
	require.NoError(t, err)

	gen := model.NewMockGenerator("test-model")
	store := profile.NewInMemoryStore()
	reg := session.NewRegistry(store, func(o *session.Options) { o.ReapInterval = 0 })
	svc := tutor.New(gen, cur, progression.New(progression.DefaultConfig()), reg, store)
	return New(svc, reg), gen
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func createStudent(t *testing.T, h http.Handler, name string) studentResponse {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/students", createStudentRequest{Name: name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeResponse[studentResponse](t, rec)
}

func TestCreateAndGetStudent(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	created := createStudent(t, h, "Alice")
	assert.NotEmpty(t, created.StudentID)
	assert.Equal(t, "Alice", created.Name)
	assert.Equal(t, 1, created.Level)
	assert.Equal(t, "cycle4::functions::1", created.CurrentObjective)

	rec := doJSON(t, h, http.MethodGet, "/students/"+created.StudentID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResponse[studentResponse](t, rec)
	assert.Equal(t, created.StudentID, got.StudentID)
	assert.Equal(t, []string{}, got.ObjectivesCompleted)
}

func TestGetStudent_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/students/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusNotFound, envelope.Error.Status)
	assert.NotEmpty(t, envelope.Error.Message)
}

func TestGenerateExercise(t *testing.T) {
	srv, gen := newTestServer(t)
	h := srv.Handler()
	gen.AddResponseContains("Create one exercise",
		`{"exercise": "Compute f(3)", "solution": "7", "hints": ["Substitute"], "difficulty": "Beginner", "concept": "cycle4::functions::1"}`)

	student := createStudent(t, h, "Alice")
	rec := doJSON(t, h, http.MethodPost, "/exercises/generate", exerciseRequest{StudentID: student.StudentID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ex := decodeResponse[tutor.Exercise](t, rec)
	assert.Equal(t, "Compute f(3)", ex.Exercise)
}

func TestGenerateExercise_ModelOutageStillServes(t *testing.T) {
	srv, gen := newTestServer(t)
	h := srv.Handler()
	gen.FailWith(assert.AnError)

	student := createStudent(t, h, "Alice")
	rec := doJSON(t, h, http.MethodPost, "/exercises/generate", exerciseRequest{StudentID: student.StudentID})
	require.Equal(t, http.StatusOK, rec.Code, "fallbacks keep the endpoint serving")
	ex := decodeResponse[tutor.Exercise](t, rec)
	assert.Equal(t, "Solve: f(x) = 2x + 1", ex.Exercise)
}

func TestSimilarExercise_NoOriginal(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	student := createStudent(t, h, "Alice")
	rec := doJSON(t, h, http.MethodPost, "/exercises/similar", similarExerciseRequest{StudentID: student.StudentID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluateAnswer(t *testing.T) {
	srv, gen := newTestServer(t)
	h := srv.Handler()
	gen.AddResponseContains("Evaluate the student's answer",
		`{"is_correct": true, "feedback": "Well done", "detailed_explanation": "ok", "step_by_step_correction": "", "recommendations": []}`)

	student := createStudent(t, h, "Alice")
	submission := answerSubmission{
		StudentID: student.StudentID,
		Exercise:  tutor.Exercise{Exercise: "Compute f(3)", Solution: "7", Concept: "cycle4::functions::1"},
		Answer:    "7",
	}
	rec := doJSON(t, h, http.MethodPost, "/answers/evaluate", submission)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decodeResponse[tutor.EvaluationOutcome](t, rec)
	assert.True(t, out.Evaluation.IsCorrect)
	assert.False(t, out.Progression.Advanced)

	rec = doJSON(t, h, http.MethodGet, "/students/"+student.StudentID+"/check-completion", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	check := decodeResponse[tutor.CompletionCheck](t, rec)
	assert.Equal(t, 1, check.ExercisesCompleted)
	assert.Equal(t, 100.0, check.RecentSuccessRate)
}

func TestEvaluateAnswer_BadBody(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/answers/evaluate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressionEndpoints(t *testing.T) {
	srv, gen := newTestServer(t)
	h := srv.Handler()
	gen.AddResponseContains("Evaluate the student's answer",
		`{"is_correct": true, "feedback": "ok", "detailed_explanation": "ok", "step_by_step_correction": "", "recommendations": []}`)

	student := createStudent(t, h, "Alice")

	rec := doJSON(t, h, http.MethodPost, "/students/"+student.StudentID+"/advance-objective", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeResponse[tutor.AdvanceResult](t, rec)
	assert.False(t, res.ProgressionOccurred)

	submission := answerSubmission{
		StudentID: student.StudentID,
		Exercise:  tutor.Exercise{Exercise: "Compute f(3)", Solution: "7"},
		Answer:    "7",
	}
	for i := 0; i < 5; i++ {
		rec = doJSON(t, h, http.MethodPost, "/answers/evaluate", submission)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	out := decodeResponse[tutor.EvaluationOutcome](t, rec)
	assert.True(t, out.Progression.Advanced, "auto-advancement fires on the fifth correct answer")
	assert.Equal(t, "cycle4::functions::2", out.Progression.NewObjective)

	rec = doJSON(t, h, http.MethodGet, "/students/"+student.StudentID+"/progression-status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeResponse[progression.Status](t, rec)
	assert.Equal(t, 1, status.CompletedObjectives)
	assert.Equal(t, "cycle4::functions::2", status.CurrentObjective)
	assert.Equal(t, 2, status.CurrentLevel)
}

func TestCurrentObjective(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	student := createStudent(t, h, "Alice")
	rec := doJSON(t, h, http.MethodGet, "/students/"+student.StudentID+"/current-objective", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	obj := decodeResponse[core.Objective](t, rec)
	assert.Equal(t, "cycle4::functions::1", obj.ID)
}

func TestObjectives(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/objectives", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Objectives []core.Objective `json:"objectives"`
		Order      []string         `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Objectives, 2)
	assert.Equal(t, []string{"cycle4::functions::1", "cycle4::functions::2"}, body.Order)
}

func TestCoachMessage(t *testing.T) {
	srv, gen := newTestServer(t)
	h := srv.Handler()
	gen.AddResponseContains("motivational message",
		`{"motivation": "You got this", "strategy": "Step by step", "tip": "Sketch it", "encouragement": ["Nice"]}`)

	student := createStudent(t, h, "Alice")
	rec := doJSON(t, h, http.MethodGet, "/students/"+student.StudentID+"/coach", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msg := decodeResponse[tutor.CoachMessage](t, rec)
	assert.Equal(t, "You got this", msg.Motivation)
}

func TestHealthAndStats(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	createStudent(t, h, "Alice")
	rec = doJSON(t, h, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		StudentsCount       int    `json:"students_count"`
		ActiveSessions      int    `json:"active_sessions"`
		ObjectivesAvailable int    `json:"objectives_available"`
		SystemVersion       string `json:"system_version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.StudentsCount)
	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Equal(t, 2, stats.ObjectivesAvailable)
	assert.Equal(t, Version, stats.SystemVersion)
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/students", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
