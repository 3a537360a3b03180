package tutor

import "github.com/tutorkit/tutorkit/core"

// Fallback artifacts are built entirely from curriculum data so they stay
// available when the generative model is unreachable or returns garbage.

func fallbackExercise(obj core.Objective) Exercise {
	example := "a problem from this topic"
	if len(obj.ExampleExercises) > 0 {
		example = obj.ExampleExercises[0]
	}
	solution := "Apply the methods covered by this objective."
	if len(obj.ObjectiveTexts) > 0 {
		solution = "Solution: " + obj.ObjectiveTexts[0]
	}
	return Exercise{
		Exercise:   "Solve: " + example,
		Solution:   solution,
		Hints:      []string{"Apply the appropriate methods"},
		Difficulty: obj.LevelName,
		Concept:    obj.ID,
	}
}

// fallbackSimilarExercise echoes the original problem so the student still
// gets something to practice on.
func fallbackSimilarExercise(original Exercise) Exercise {
	return Exercise{
		Exercise:   original.Exercise,
		Solution:   original.Solution,
		Hints:      []string{"Apply the appropriate methods"},
		Difficulty: original.Difficulty,
		Concept:    original.Concept,
	}
}

func fallbackEvaluation(exercise Exercise) EvaluationResult {
	return EvaluationResult{
		IsCorrect:            false,
		ErrorType:            "generic",
		Feedback:             "The answer could not be evaluated. Please try again or provide a clearer answer.",
		DetailedExplanation:  "The expected solution was: " + exercise.Solution,
		StepByStepCorrection: "No detailed correction is available because of the error.",
		Recommendations:      []string{"Check your input", "Contact support if the problem persists"},
	}
}

func fallbackCoachMessage() CoachMessage {
	return CoachMessage{
		Motivation: "Hang in there, every effort counts!",
		Strategy:   "Try breaking the problem down into smaller steps.",
		Tip:        "Don't hesitate to ask for help when you are stuck.",
		Encouragement: []string{
			"You are capable of great things!",
			"Perseverance is the key to success.",
		},
	}
}
