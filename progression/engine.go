package progression

import (
	"fmt"
	"math"

	"github.com/tutorkit/tutorkit/core"
)

// Config holds the advancement criteria.
type Config struct {
	// Window is how many trailing history entries the rolling metrics
	// consider.
	Window int
	// MinAttempts is the minimum number of entries within the window
	// before advancement can trigger.
	MinAttempts int
	// Threshold is the required correct fraction within the window,
	// expressed in [0,1].
	Threshold float64
	// MaxLevel caps the profile level counter.
	MaxLevel int
}

// DefaultConfig returns the standard criteria: 80% correct over the last
// 10 attempts with at least 5 attempts, levels capped at 4.
func DefaultConfig() Config {
	return Config{Window: 10, MinAttempts: 5, Threshold: 0.8, MaxLevel: 4}
}

// Outcome is the result of one advancement step.
//
// Exactly one of three shapes occurs:
//   - Advanced=true: moved one step; NewObjective and NewLevel are set
//   - Advanced=false, CompletedAll=true: the last objective was completed
//   - Advanced=false, CompletedAll=false: nothing to advance from (no
//     current objective) or criteria not met
type Outcome struct {
	Advanced     bool   `json:"advanced"`
	CompletedAll bool   `json:"completed_all"`
	NewObjective string `json:"new_objective,omitempty"`
	NewLevel     int    `json:"new_level,omitempty"`
}

// Status is the aggregate progression view of one profile.
type Status struct {
	TotalObjectives     int     `json:"total_objectives"`
	CompletedObjectives int     `json:"completed_objectives"`
	CurrentObjective    string  `json:"current_objective,omitempty"`
	ProgressPercentage  float64 `json:"progress_percentage"`
	CurrentLevel        int     `json:"current_level"`
	ReadyToAdvance      bool    `json:"ready_to_advance"`
	NextObjective       string  `json:"next_objective,omitempty"`
	RecentSuccessRate   float64 `json:"recent_success_rate"`
}

// Engine evaluates readiness and performs advancement. Zero-cost to copy;
// safe for concurrent use since it holds only configuration.
type Engine struct {
	cfg Config
}

// New creates an Engine, normalizing non-positive config values to the
// defaults.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.MinAttempts <= 0 {
		cfg.MinAttempts = def.MinAttempts
	}
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = def.Threshold
	}
	if cfg.MaxLevel <= 0 {
		cfg.MaxLevel = def.MaxLevel
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective criteria.
func (e *Engine) Config() Config { return e.cfg }

// RecentSuccessRate returns the percentage of correct attempts within the
// trailing window, rounded to one decimal. An empty history yields exactly
// 0.0 (a well-defined zero, not an error).
func (e *Engine) RecentSuccessRate(p *core.StudentProfile) float64 {
	recent := p.RecentHistory(e.cfg.Window)
	if len(recent) == 0 {
		return 0.0
	}
	correct := 0
	for _, a := range recent {
		if a.Correct {
			correct++
		}
	}
	rate := float64(correct) / float64(len(recent)) * 100
	return math.Round(rate*10) / 10
}

// ReadyToAdvance reports whether the profile meets the advancement
// criteria: at least MinAttempts entries within the window and a correct
// fraction >= Threshold.
func (e *Engine) ReadyToAdvance(p *core.StudentProfile) bool {
	recent := p.RecentHistory(e.cfg.Window)
	if len(recent) < e.cfg.MinAttempts {
		return false
	}
	correct := 0
	for _, a := range recent {
		if a.Correct {
			correct++
		}
	}
	return float64(correct)/float64(len(recent)) >= e.cfg.Threshold
}

// Advance moves the profile forward at most one objective.
//
// The current objective (if any) is appended to the completed set
// idempotently, then the next objective in the curriculum ordering becomes
// current and the level counter increments (capped at MaxLevel). When no
// next objective exists the current objective is cleared and the outcome
// reports CompletedAll. A profile with no current objective is a no-op.
//
// An unknown current objective id returns core.ErrObjectiveNotInCurriculum:
// that's curriculum/profile desync, surfaced loudly rather than repaired.
func (e *Engine) Advance(p *core.StudentProfile, cur *core.Curriculum) (Outcome, error) {
	if p.CurrentObjective == "" {
		return Outcome{}, nil
	}

	next, hasNext, err := cur.Next(p.CurrentObjective)
	if err != nil {
		return Outcome{}, fmt.Errorf("advance %s: %w", p.StudentID, err)
	}

	p.CompleteObjective(p.CurrentObjective)

	if !hasNext {
		p.CurrentObjective = ""
		return Outcome{CompletedAll: true}, nil
	}

	p.CurrentObjective = next.ID
	if p.Level < e.cfg.MaxLevel {
		p.Level++
	}
	return Outcome{Advanced: true, NewObjective: next.ID, NewLevel: p.Level}, nil
}

// AutoCheckAndAdvance advances only when the readiness criteria are met;
// otherwise it returns a zero Outcome without side effects.
func (e *Engine) AutoCheckAndAdvance(p *core.StudentProfile, cur *core.Curriculum) (Outcome, error) {
	if !e.ReadyToAdvance(p) {
		return Outcome{}, nil
	}
	return e.Advance(p, cur)
}

// Status aggregates the progression view for one profile.
func (e *Engine) Status(p *core.StudentProfile, cur *core.Curriculum) Status {
	st := Status{
		TotalObjectives:     cur.Len(),
		CompletedObjectives: len(p.ObjectivesCompleted),
		CurrentObjective:    p.CurrentObjective,
		CurrentLevel:        p.Level,
		ReadyToAdvance:      e.ReadyToAdvance(p),
		RecentSuccessRate:   e.RecentSuccessRate(p),
	}
	if cur.Len() > 0 {
		st.ProgressPercentage = float64(len(p.ObjectivesCompleted)) / float64(cur.Len()) * 100
	}
	if p.CurrentObjective != "" {
		if next, ok, err := cur.Next(p.CurrentObjective); err == nil && ok {
			st.NextObjective = next.ID
		}
	}
	return st
}
