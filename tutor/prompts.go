package tutor

// Prompt templates rendered with internal/util.RenderTemplate. Each asks for
// a single JSON object so the response can be decoded directly into the
// corresponding artifact type.

const exercisePrompt = `You are an expert mathematics teacher. Create one exercise with:
- Objective: {{.objective_description}}
- Level: {{.level_name}}
- Topic: {{.objective_id}}
- Based on: {{.example_exercise}}

The exercise must:
1. Be clear and precise
2. Have a detailed solution
3. Include 2-3 pedagogical hints
4. Match the difficulty level

Respond with a single JSON object with exactly these fields:
{"exercise": string, "solution": string, "hints": [string], "difficulty": string, "concept": string}`

const similarExercisePrompt = `As an expert mathematics teacher, create a new exercise SIMILAR to the original below, with slightly different values or context to offer fresh practice. Adapt it to the student's level ({{.student_level}}).

Original exercise:
{{.original_exercise}}
Original solution: {{.original_solution}}
Concept: {{.concept}}
Difficulty: {{.difficulty}}

The new exercise must:
1. Be similar in concept and difficulty to the original.
2. Vary enough that it is not a plain repetition.
3. Have a detailed solution.
4. Include 2-3 pedagogical hints.

Respond with a single JSON object with exactly these fields:
{"exercise": string, "solution": string, "hints": [string], "difficulty": string, "concept": string}`

const evaluationPrompt = `Evaluate the student's answer to the following exercise:
Exercise: {{.exercise}}
Expected solution: {{.solution}}
Student's answer: {{.answer}}

Provide a precise, pedagogical evaluation, clearly identify the mistakes, and give detailed explanations.

Respond with a single JSON object with exactly these fields:
{"is_correct": bool, "error_type": string, "feedback": string, "detailed_explanation": string, "step_by_step_correction": string, "recommendations": [string]}`

const coachPrompt = `Generate a motivational message, a concrete strategy, a practical tip, and encouragements for {{.student_name}}, a {{.level_name}} mathematics student working on "{{.objective}}". Keep it positive and constructive.

Respond with a single JSON object with exactly these fields:
{"motivation": string, "strategy": string, "tip": string, "encouragement": [string]}`
