// Package tutor implements the tutoring facade: exercise generation,
// similar-exercise variation, answer evaluation with automatic progression,
// and personal coach messages.
//
// All generative calls go through core.Generator and are expected to return
// a single JSON object. Malformed output, provider errors, and timeouts
// degrade to deterministic fallback artifacts built from curriculum data,
// so a broken model never turns into a failed tutoring request.
package tutor
