// Package curriculum loads the static curriculum definition from a JSON or
// YAML document and flattens its cycle/theme/level hierarchy into the
// ordered objective sequence used by the progression engine.
//
// Objective ids are derived as "cycle::theme::level" so a profile's
// objective references stay stable across reloads of the same definition.
package curriculum

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tutorkit/tutorkit/core"
)

// IDSeparator joins the hierarchy segments of an objective id.
const IDSeparator = "::"

// Document is the on-disk curriculum shape. Slices (not maps) keep the
// author-declared ordering, which is the curriculum's progression order.
type Document struct {
	Cycles []Cycle `json:"cycles" yaml:"cycles"`
}

// Cycle groups themes of one school cycle.
type Cycle struct {
	Name   string  `json:"name" yaml:"name"`
	Themes []Theme `json:"themes" yaml:"themes"`
}

// Theme groups the progressive levels of one topic.
type Theme struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Levels      []Level `json:"levels" yaml:"levels"`
}

// Level is one concrete objective within a theme.
type Level struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Objectives       []string `json:"objectives" yaml:"objectives"`
	ExampleExercises []string `json:"example_exercises" yaml:"example_exercises"`
}

// LoadError describes a curriculum definition that could not be used.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("curriculum: %s", e.Reason)
	}
	return fmt.Sprintf("curriculum %s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying cause, if any.
func (e *LoadError) Unwrap() error { return e.Err }

// LoadFile reads a curriculum definition from a file (JSON or YAML,
// selected by extension) and returns the flattened ordered curriculum.
func LoadFile(path string) (*core.Curriculum, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "read failed", Err: err}
	}

	var doc Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &LoadError{Path: path, Reason: "invalid JSON", Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &LoadError{Path: path, Reason: "invalid YAML", Err: err}
		}
	default:
		return nil, &LoadError{Path: path, Reason: fmt.Sprintf("unsupported format %q (use .json or .yaml)", ext)}
	}

	cur, err := Flatten(doc)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
		}
		return nil, err
	}
	return cur, nil
}

// Flatten converts the hierarchical document into the ordered objective
// sequence: cycles in order, themes in order, levels in order.
func Flatten(doc Document) (*core.Curriculum, error) {
	if len(doc.Cycles) == 0 {
		return nil, &LoadError{Reason: "no cycles defined"}
	}

	var objectives []core.Objective
	for _, cycle := range doc.Cycles {
		if cycle.Name == "" {
			return nil, &LoadError{Reason: "cycle with empty name"}
		}
		for _, theme := range cycle.Themes {
			if theme.Name == "" {
				return nil, &LoadError{Reason: fmt.Sprintf("cycle %q: theme with empty name", cycle.Name)}
			}
			for _, level := range theme.Levels {
				if level.ID == "" {
					return nil, &LoadError{Reason: fmt.Sprintf("theme %q: level with empty id", theme.Name)}
				}
				objectives = append(objectives, core.Objective{
					ID:               strings.Join([]string{cycle.Name, theme.Name, level.ID}, IDSeparator),
					Cycle:            cycle.Name,
					Theme:            theme.Name,
					Description:      theme.Description,
					LevelName:        level.Name,
					ObjectiveTexts:   level.Objectives,
					ExampleExercises: level.ExampleExercises,
				})
			}
		}
	}
	if len(objectives) == 0 {
		return nil, &LoadError{Reason: "document defines no objectives"}
	}

	cur, err := core.NewCurriculum(objectives)
	if err != nil {
		return nil, &LoadError{Reason: "invalid objective ordering", Err: err}
	}
	return cur, nil
}
