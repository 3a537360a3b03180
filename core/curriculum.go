package core

import "fmt"

// Objective is one unit of the curriculum a student works toward. Objectives
// are identified uniquely and ordered within a fixed sequence.
type Objective struct {
	ID               string   `json:"id"`
	Cycle            string   `json:"cycle"`
	Theme            string   `json:"theme"`
	Description      string   `json:"description"`
	LevelName        string   `json:"level_name"`
	ObjectiveTexts   []string `json:"objectives"`
	ExampleExercises []string `json:"example_exercises"`
}

// Curriculum is the static ordered objective sequence loaded once at
// startup. It is immutable for the process lifetime and therefore safe for
// concurrent reads without locking.
type Curriculum struct {
	objectives []Objective
	index      map[string]int
}

// NewCurriculum builds a curriculum from an ordered objective list. Duplicate
// or empty objective ids are rejected since position lookup relies on id
// uniqueness.
func NewCurriculum(objectives []Objective) (*Curriculum, error) {
	c := &Curriculum{
		objectives: make([]Objective, len(objectives)),
		index:      make(map[string]int, len(objectives)),
	}
	copy(c.objectives, objectives)
	for i, obj := range c.objectives {
		if obj.ID == "" {
			return nil, fmt.Errorf("objective at position %d has empty id", i)
		}
		if _, exists := c.index[obj.ID]; exists {
			return nil, fmt.Errorf("duplicate objective id %q", obj.ID)
		}
		c.index[obj.ID] = i
	}
	return c, nil
}

// Len returns the number of objectives.
func (c *Curriculum) Len() int { return len(c.objectives) }

// At returns the objective at position i.
func (c *Curriculum) At(i int) Objective { return c.objectives[i] }

// Get returns the objective with the given id.
func (c *Curriculum) Get(id string) (Objective, bool) {
	i, ok := c.index[id]
	if !ok {
		return Objective{}, false
	}
	return c.objectives[i], true
}

// IndexOf returns the position of the objective id in the ordering.
func (c *Curriculum) IndexOf(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Next returns the objective following id in the ordering. The second
// return is false when id is the last objective; ErrObjectiveNotInCurriculum
// is returned when id is unknown.
func (c *Curriculum) Next(id string) (Objective, bool, error) {
	i, ok := c.index[id]
	if !ok {
		return Objective{}, false, fmt.Errorf("%w: %q", ErrObjectiveNotInCurriculum, id)
	}
	if i+1 >= len(c.objectives) {
		return Objective{}, false, nil
	}
	return c.objectives[i+1], true, nil
}

// First returns the first objective of the sequence.
func (c *Curriculum) First() (Objective, bool) {
	if len(c.objectives) == 0 {
		return Objective{}, false
	}
	return c.objectives[0], true
}

// IDs returns the objective ids in curriculum order as a fresh slice.
func (c *Curriculum) IDs() []string {
	ids := make([]string, len(c.objectives))
	for i, obj := range c.objectives {
		ids[i] = obj.ID
	}
	return ids
}
