package model

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tutorkit/tutorkit/core"
)

// MockGenerator is a lightweight in-memory Generator useful for tests and
// offline development. Responses can be keyed by exact prompt or by a
// substring contained in the prompt.
type MockGenerator struct {
	mu        sync.Mutex
	info      core.GeneratorInfo
	exact     map[string]string
	contains  map[string]string
	err       error
	CallCount int
}

// NewMockGenerator constructs a MockGenerator with the given display name.
func NewMockGenerator(name string) *MockGenerator {
	return &MockGenerator{
		info:     core.GeneratorInfo{Name: name, Provider: "mock"},
		exact:    make(map[string]string),
		contains: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an exact prompt.
func (m *MockGenerator) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exact[prompt] = response
}

// AddResponseContains registers a canned completion served whenever the
// prompt contains the given fragment. Exact matches take precedence.
func (m *MockGenerator) AddResponseContains(fragment, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contains[fragment] = response
}

// FailWith makes every subsequent Generate call return err.
func (m *MockGenerator) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Generate implements core.Generator.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	if m.err != nil {
		return "", m.err
	}
	if resp, ok := m.exact[prompt]; ok {
		return resp, nil
	}
	for fragment, resp := range m.contains {
		if strings.Contains(prompt, fragment) {
			return resp, nil
		}
	}
	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// Info implements core.Generator.
func (m *MockGenerator) Info() core.GeneratorInfo { return m.info }

var _ core.Generator = (*MockGenerator)(nil)
