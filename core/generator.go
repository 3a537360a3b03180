package core

import "context"

// GeneratorInfo contains metadata about a generative model implementation.
type GeneratorInfo struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Generator is the minimal contract with the external generative model:
// given a prompt it returns text. TutorKit treats implementations as black
// boxes that may fail (timeout, malformed output); callers recover by
// substituting deterministic fallback artifacts, never by propagating the
// failure to the transport layer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Info returns information about the model implementation.
	Info() GeneratorInfo
}
