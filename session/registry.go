package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/tutorkit/tutorkit/core"
	"github.com/tutorkit/tutorkit/logging"
)

// ErrNoSession is returned by operations that require an already-active
// session. It is distinct from core.ErrProfileNotFound: an absent session
// triggers default-profile creation in GetOrCreate, never an error.
var ErrNoSession = errors.New("no active session for student")

// Options configure the Registry.
type Options struct {
	// Memory is the optional side-index; nil disables the capability
	// entirely. When set, reachability is probed once per session
	// creation and a failed probe leaves that session without the
	// capability.
	Memory core.MemoryStore

	// Logger receives structured operational events. Defaults to NoOp.
	Logger logging.Logger

	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time

	// IdleTimeout is how long a session may sit untouched before it is
	// eligible for eviction. Defaults to 30 minutes.
	IdleTimeout time.Duration

	// ReapInterval is the background eviction cadence. Defaults to 10
	// minutes; zero or negative disables the background reaper (eviction
	// stays available on demand).
	ReapInterval time.Duration

	// HistorySyncDepth is how many trailing history entries each save
	// mirrors into the memory index. Defaults to 5.
	HistorySyncDepth int
}

// Registry is the authoritative in-memory owner of active student
// sessions. All exported methods are safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store     core.ProfileStore
	memory    core.MemoryStore
	logger    logging.Logger
	now       func() time.Time
	timeout   time.Duration
	interval  time.Duration
	syncDepth int

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewRegistry constructs a registry over the given profile store. The
// background reaper is not started until Start is called, so construction
// never spawns goroutines.
func NewRegistry(store core.ProfileStore, optFns ...func(o *Options)) *Registry {
	opts := Options{
		Logger:           logging.NoOpLogger{},
		Now:              time.Now,
		IdleTimeout:      30 * time.Minute,
		ReapInterval:     10 * time.Minute,
		HistorySyncDepth: 5,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HistorySyncDepth <= 0 {
		opts.HistorySyncDepth = 5
	}
	return &Registry{
		sessions:  make(map[string]*Session),
		store:     store,
		memory:    opts.Memory,
		logger:    opts.Logger,
		now:       opts.Now,
		timeout:   opts.IdleTimeout,
		interval:  opts.ReapInterval,
		syncDepth: opts.HistorySyncDepth,
		stopCh:    make(chan struct{}),
	}
}

// IdleTimeout returns the configured idle timeout.
func (r *Registry) IdleTimeout() time.Duration { return r.timeout }

// GetOrCreate returns the active session for the student, creating one if
// none exists (or the existing one has expired). A missing profile is
// synthesized as a fresh default; a failed memory index probe leaves the
// session without the capability, never failing creation.
func (r *Registry) GetOrCreate(ctx context.Context, studentID, name string) (*Session, error) {
	if !core.ValidStudentID(studentID) {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidStudentID, studentID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if sess, ok := r.sessions[studentID]; ok {
		if !sess.expired(now, r.timeout) {
			sess.touch(now)
			return sess, nil
		}
		// Expired but not yet reaped: flush and replace.
		r.logger.Debug("replacing expired session", "student_id", studentID)
		r.saveLocked(ctx, studentID, sess)
		delete(r.sessions, studentID)
	}

	profile, err := r.store.Load(ctx, studentID)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrProfileNotFound):
		profile = core.NewStudentProfile(studentID, name, now)
	default:
		return nil, fmt.Errorf("resolve session %s: %w", studentID, err)
	}
	profile.LastSession = now

	sess := &Session{
		Profile:      profile,
		LastActivity: now,
		Scratch:      make(map[string]any),
		memory:       r.probeMemory(ctx, studentID),
	}
	r.sessions[studentID] = sess
	r.logger.Info("session created", "student_id", studentID, "has_memory", sess.HasMemory())
	return sess, nil
}

// probeMemory checks the index once and returns it, or nil when the
// capability is unavailable.
func (r *Registry) probeMemory(ctx context.Context, studentID string) core.MemoryStore {
	if r.memory == nil {
		return nil
	}
	if err := r.memory.Ping(ctx); err != nil {
		r.logger.Warn("memory index unavailable, session continues without it",
			"student_id", studentID, "error", err)
		return nil
	}
	return r.memory
}

// Save serializes the session's profile to the profile store and mirrors
// recent history and achievements into the memory index when attached.
// Returns false when no session is active or the primary save failed; an
// index sync failure alone never fails the save.
func (r *Registry) Save(ctx context.Context, studentID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[studentID]
	if !ok {
		r.logger.Warn("save requested for unknown session", "student_id", studentID)
		return false
	}
	sess.touch(r.now())
	return r.saveLocked(ctx, studentID, sess)
}

// saveLocked persists the session; caller must hold the registry lock.
func (r *Registry) saveLocked(ctx context.Context, studentID string, sess *Session) bool {
	sess.Profile.LastSession = r.now()
	if err := r.store.Save(ctx, sess.Profile); err != nil {
		r.logger.Error("profile save failed", "student_id", studentID, "error", err)
		return false
	}
	if sess.memory != nil {
		r.syncToMemory(ctx, sess)
	}
	return true
}

// syncToMemory mirrors completed objectives and the trailing history slice
// into the memory index under deterministic ids, so repeated syncs
// overwrite rather than duplicate. Failures are logged and swallowed.
func (r *Registry) syncToMemory(ctx context.Context, sess *Session) {
	p := sess.Profile
	now := r.now().UTC().Format(time.RFC3339)

	for _, obj := range p.ObjectivesCompleted {
		err := sess.memory.Upsert(ctx,
			fmt.Sprintf("achievement_%s_%s", p.StudentID, obj),
			fmt.Sprintf("Completed objective: %s", obj),
			map[string]string{"type": "achievement", "objective": obj, "timestamp": now},
		)
		if err != nil {
			r.logger.Warn("memory sync failed", "student_id", p.StudentID, "error", err)
			return
		}
	}

	start := len(p.LearningHistory) - r.syncDepth
	if start < 0 {
		start = 0
	}
	for i := start; i < len(p.LearningHistory); i++ {
		a := p.LearningHistory[i]
		err := sess.memory.Upsert(ctx,
			fmt.Sprintf("exercise_%s_%d", p.StudentID, i),
			fmt.Sprintf("Exercise: %s - Answer: %s", a.ExerciseText, a.Answer),
			map[string]string{
				"type":      "exercise",
				"correct":   strconv.FormatBool(a.Correct),
				"timestamp": a.Timestamp.UTC().Format(time.RFC3339),
				"concept":   a.Concept,
			},
		)
		if err != nil {
			r.logger.Warn("memory sync failed", "student_id", p.StudentID, "error", err)
			return
		}
	}
}

// UpdateScratch sets a key in the session's ephemeral bag. Returns false
// when no session is active.
func (r *Registry) UpdateScratch(studentID, key string, value any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[studentID]
	if !ok {
		return false
	}
	sess.Scratch[key] = value
	sess.touch(r.now())
	return true
}

// ReadScratch reads a key from the session's ephemeral bag. The second
// return is false when the session or the key is absent.
func (r *Registry) ReadScratch(studentID, key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[studentID]
	if !ok {
		return nil, false
	}
	v, ok := sess.Scratch[key]
	return v, ok
}

// Peek returns a snapshot of the active session's profile without creating
// a session or refreshing its activity. The clone keeps callers from
// mutating session state outside the registry's write path.
func (r *Registry) Peek(studentID string) (*core.StudentProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[studentID]
	if !ok {
		return nil, false
	}
	return sess.Profile.Clone(), true
}

// EvictExpired removes every session whose idle time exceeds the timeout,
// saving each one first (best-effort). Returns the number evicted. Runs on
// the background cadence and is invocable on demand.
func (r *Registry) EvictExpired(ctx context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	evicted := 0
	for id, sess := range r.sessions {
		if !sess.expired(now, r.timeout) {
			continue
		}
		r.saveLocked(ctx, id, sess)
		delete(r.sessions, id)
		evicted++
	}
	if evicted > 0 {
		r.logger.Info("expired sessions evicted", "count", evicted, "remaining", len(r.sessions))
	}
	return evicted
}

// Close explicitly ends a session: save then remove. Returns false when no
// session is active.
func (r *Registry) Close(ctx context.Context, studentID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[studentID]
	if !ok {
		return false
	}
	r.saveLocked(ctx, studentID, sess)
	delete(r.sessions, studentID)
	r.logger.Info("session closed", "student_id", studentID)
	return true
}

// SaveAll saves every active session and returns how many saves succeeded.
// Used at shutdown and on demand.
func (r *Registry) SaveAll(ctx context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := 0
	for id, sess := range r.sessions {
		if r.saveLocked(ctx, id, sess) {
			saved++
		}
	}
	r.logger.Info("sessions saved", "count", saved)
	return saved
}

// SessionSummary is the read-only introspection view of one session.
type SessionSummary struct {
	Name         string    `json:"name,omitempty"`
	Level        int       `json:"level"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
	HasMemory    bool      `json:"has_memory"`
}

// Stats is the read-only introspection view of the registry.
type Stats struct {
	ActiveSessions int                       `json:"active_sessions"`
	Sessions       map[string]SessionSummary `json:"sessions"`
}

// Stats returns a snapshot of the registry without mutating any session.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := Stats{
		ActiveSessions: len(r.sessions),
		Sessions:       make(map[string]SessionSummary, len(r.sessions)),
	}
	for id, sess := range r.sessions {
		st.Sessions[id] = SessionSummary{
			Name:         sess.Profile.Name,
			Level:        sess.Profile.Level,
			LastActivity: sess.LastActivity,
			ExpiresAt:    sess.LastActivity.Add(r.timeout),
			HasMemory:    sess.HasMemory(),
		}
	}
	return st
}

// Start launches the background reaper. Idempotent; a non-positive reap
// interval leaves the reaper off.
func (r *Registry) Start() {
	if r.interval <= 0 {
		return
	}
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.reapLoop()
	})
}

func (r *Registry) reapLoop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.EvictExpired(context.Background())
		}
	}
}

// Shutdown stops the reaper, waits for it to exit and saves every active
// session. Safe to call multiple times.
func (r *Registry) Shutdown(ctx context.Context) {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
	r.SaveAll(ctx)
	r.logger.Info("session registry shut down")
}
