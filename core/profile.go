package core

import (
	"strings"
	"time"
)

// Attempt is a single entry of a student's learning history: one exercise,
// the answer given, and whether it was judged correct.
type Attempt struct {
	ExerciseText string    `json:"exercise"`
	Answer       string    `json:"answer"`
	Correct      bool      `json:"correct"`
	Timestamp    time.Time `json:"timestamp"`
	Concept      string    `json:"concept,omitempty"`
}

// StudentProfile is the durable record of one student.
//
// Contract:
//   - StudentID is immutable after creation and safe for use as a file or
//     key-value lookup key (see ValidStudentID)
//   - Level is >= 1 and never decreases except by explicit reset
//   - LearningHistory is append-only
//   - ObjectivesCompleted is an append-only ordered set (no duplicates)
//   - CurrentObjective empty means "not started" or "curriculum complete"
type StudentProfile struct {
	StudentID           string    `json:"student_id"`
	Name                string    `json:"name,omitempty"`
	Level               int       `json:"level"`
	CurrentObjective    string    `json:"current_objective,omitempty"`
	ObjectivesCompleted []string  `json:"objectives_completed"`
	LearningHistory     []Attempt `json:"learning_history"`
	CreatedAt           time.Time `json:"created_at"`
	LastSession         time.Time `json:"last_session,omitempty"`
}

// NewStudentProfile creates a fresh default profile: level 1, no objective,
// empty history. The caller supplies the creation instant so stores and
// tests can inject a clock.
func NewStudentProfile(studentID, name string, now time.Time) *StudentProfile {
	return &StudentProfile{
		StudentID:           studentID,
		Name:                name,
		Level:               1,
		ObjectivesCompleted: []string{},
		LearningHistory:     []Attempt{},
		CreatedAt:           now,
		LastSession:         now,
	}
}

// AppendAttempt records one exercise attempt in the learning history.
func (p *StudentProfile) AppendAttempt(a Attempt) {
	p.LearningHistory = append(p.LearningHistory, a)
}

// HasCompleted reports whether the objective id is already in the
// completed set.
func (p *StudentProfile) HasCompleted(objectiveID string) bool {
	for _, id := range p.ObjectivesCompleted {
		if id == objectiveID {
			return true
		}
	}
	return false
}

// CompleteObjective appends the objective id to the completed set if it is
// not already present. Idempotent.
func (p *StudentProfile) CompleteObjective(objectiveID string) {
	if objectiveID == "" || p.HasCompleted(objectiveID) {
		return
	}
	p.ObjectivesCompleted = append(p.ObjectivesCompleted, objectiveID)
}

// RecentHistory returns the last n history entries (fewer if the history is
// shorter). The returned slice aliases the underlying history and must be
// treated as read-only.
func (p *StudentProfile) RecentHistory(n int) []Attempt {
	if n <= 0 || len(p.LearningHistory) == 0 {
		return nil
	}
	if n > len(p.LearningHistory) {
		n = len(p.LearningHistory)
	}
	return p.LearningHistory[len(p.LearningHistory)-n:]
}

// Clone returns a deep copy of the profile safe for independent mutation.
func (p *StudentProfile) Clone() *StudentProfile {
	if p == nil {
		return nil
	}
	clone := *p
	clone.ObjectivesCompleted = make([]string, len(p.ObjectivesCompleted))
	copy(clone.ObjectivesCompleted, p.ObjectivesCompleted)
	clone.LearningHistory = make([]Attempt, len(p.LearningHistory))
	copy(clone.LearningHistory, p.LearningHistory)
	return &clone
}

// ValidStudentID reports whether id is safe to use as a filesystem or
// key-value lookup key: non-empty, no path separators, no traversal.
func ValidStudentID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, "/\\ \t\n\r")
}
