package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tutorkit/tutorkit/core"
	"github.com/tutorkit/tutorkit/tutor"
)

// Request bodies.

type createStudentRequest struct {
	Name string `json:"name"`
}

type exerciseRequest struct {
	StudentID string `json:"student_id"`
}

type similarExerciseRequest struct {
	StudentID string         `json:"student_id"`
	Exercise  tutor.Exercise `json:"exercise"`
}

type answerSubmission struct {
	StudentID string         `json:"student_id"`
	Exercise  tutor.Exercise `json:"exercise"`
	Answer    string         `json:"answer"`
}

// studentResponse is the public view of a profile.
type studentResponse struct {
	StudentID           string   `json:"student_id"`
	Name                string   `json:"name"`
	Level               int      `json:"level"`
	CurrentObjective    string   `json:"current_objective,omitempty"`
	ObjectivesCompleted []string `json:"objectives_completed"`
}

func toStudentResponse(p *core.StudentProfile) studentResponse {
	completed := p.ObjectivesCompleted
	if completed == nil {
		completed = []string{}
	}
	return studentResponse{
		StudentID:           p.StudentID,
		Name:                p.Name,
		Level:               p.Level,
		CurrentObjective:    p.CurrentObjective,
		ObjectivesCompleted: completed,
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "tutorkit",
		"version": Version,
		"model":   s.svc.GeneratorInfo(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"active_sessions": s.reg.Stats().ActiveSessions,
	})
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.svc.CreateStudent(r.Context(), req.Name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStudentResponse(p))
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.GetStudent(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStudentResponse(p))
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	prog, err := s.svc.Progress(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if prog.ObjectivesCompleted == nil {
		prog.ObjectivesCompleted = []string{}
	}
	writeJSON(w, http.StatusOK, prog)
}

func (s *Server) handleGenerateExercise(w http.ResponseWriter, r *http.Request) {
	var req exerciseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ex, err := s.svc.GenerateExercise(r.Context(), req.StudentID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleSimilarExercise(w http.ResponseWriter, r *http.Request) {
	var req similarExerciseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ex, err := s.svc.GenerateSimilarExercise(r.Context(), req.StudentID, req.Exercise)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleEvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerSubmission
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := s.svc.EvaluateAnswer(r.Context(), req.StudentID, req.Exercise, req.Answer)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCoachMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := s.svc.CoachMessage(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleObjectives(w http.ResponseWriter, r *http.Request) {
	cur := s.svc.Curriculum()
	objectives := make([]core.Objective, 0, cur.Len())
	for i := 0; i < cur.Len(); i++ {
		objectives = append(objectives, cur.At(i))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"objectives": objectives,
		"order":      cur.IDs(),
	})
}

func (s *Server) handleCurrentObjective(w http.ResponseWriter, r *http.Request) {
	obj, err := s.svc.CurrentObjective(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, obj)
}

func (s *Server) handleProgressionStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.svc.ProgressionStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleAdvanceObjective(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.AdvanceObjective(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCheckCompletion(w http.ResponseWriter, r *http.Request) {
	check, err := s.svc.CheckCompletion(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	studentsCount := 0
	if ids, err := s.svc.ListStudentIDs(r.Context()); err == nil {
		studentsCount = len(ids)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"students_count":       studentsCount,
		"active_sessions":      s.reg.Stats().ActiveSessions,
		"objectives_available": s.svc.Curriculum().Len(),
		"model":                s.svc.GeneratorInfo(),
		"system_version":       Version,
	})
}

// decodeBody parses a JSON request body, replying 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeDomainError maps service errors to status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrProfileNotFound),
		errors.Is(err, core.ErrObjectiveNotInCurriculum):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidStudentID),
		errors.Is(err, tutor.ErrNoObjective),
		errors.Is(err, tutor.ErrNoOriginalExercise):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"status":  status,
			"message": msg,
		},
	})
}
