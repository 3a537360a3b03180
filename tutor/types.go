package tutor

import "github.com/tutorkit/tutorkit/progression"

// Exercise is a generated practice problem together with its solution.
type Exercise struct {
	Exercise   string   `json:"exercise"`
	Solution   string   `json:"solution"`
	Hints      []string `json:"hints"`
	Difficulty string   `json:"difficulty"`
	Concept    string   `json:"concept"`
}

// EvaluationResult is the pedagogical assessment of a submitted answer.
type EvaluationResult struct {
	IsCorrect            bool     `json:"is_correct"`
	ErrorType            string   `json:"error_type,omitempty"`
	Feedback             string   `json:"feedback"`
	DetailedExplanation  string   `json:"detailed_explanation"`
	StepByStepCorrection string   `json:"step_by_step_correction"`
	Recommendations      []string `json:"recommendations"`
}

// CoachMessage is a short motivational note from the personal coach.
type CoachMessage struct {
	Motivation    string   `json:"motivation"`
	Strategy      string   `json:"strategy"`
	Tip           string   `json:"tip"`
	Encouragement []string `json:"encouragement"`
}

// EvaluationOutcome bundles an evaluation with the progression check that
// ran right after it was recorded.
type EvaluationOutcome struct {
	Evaluation  EvaluationResult    `json:"evaluation"`
	Progression progression.Outcome `json:"progression"`
}

// AdvanceResult reports a manual advancement attempt.
type AdvanceResult struct {
	ProgressionOccurred bool   `json:"progression_occurred"`
	Message             string `json:"message"`
	NewObjective        string `json:"new_objective,omitempty"`
	NewLevel            int    `json:"new_level,omitempty"`
}

// CompletionCheck reports whether a student currently meets the advancement
// criteria, without advancing.
type CompletionCheck struct {
	CanAdvance         bool    `json:"can_advance"`
	RecentSuccessRate  float64 `json:"recent_success_rate"`
	ExercisesCompleted int     `json:"exercises_completed"`
}

// Progress is the compact progress view used by the student endpoints.
type Progress struct {
	Level               int      `json:"level"`
	Completed           int      `json:"completed"`
	CurrentObjective    string   `json:"current_objective,omitempty"`
	ObjectivesCompleted []string `json:"objectives_completed"`
}

// LevelName maps a profile level to its descriptive name. Levels outside
// the supported range fall back to the highest name.
func LevelName(level int) string {
	switch level {
	case 1:
		return "Beginner"
	case 2:
		return "Intermediate"
	case 3:
		return "Advanced"
	default:
		return "Expert"
	}
}
