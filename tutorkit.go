// Package tutorkit provides a high-level façade over the tutoring service
// and its supporting layers (sessions, curriculum, progression, memory &
// logging). Most applications interact with this package by:
//  1. Creating a TutorKit via New() (optionally overriding default in-memory services)
//  2. Serving its Tutor() facade, directly or through httpapi
//  3. Calling Shutdown() on exit to flush active sessions
//
// All defaults are safe for local development and testing: in-memory stores,
// a mock generator, and a NoOp logger. Production deployments supply durable
// stores, a real model provider, and a structured logger.
package tutorkit

import (
	"context"
	"time"

	"github.com/tutorkit/tutorkit/core"
	"github.com/tutorkit/tutorkit/logging"
	"github.com/tutorkit/tutorkit/memoryindex"
	"github.com/tutorkit/tutorkit/model"
	"github.com/tutorkit/tutorkit/profile"
	"github.com/tutorkit/tutorkit/progression"
	"github.com/tutorkit/tutorkit/session"
	"github.com/tutorkit/tutorkit/tutor"
)

// Options configures the TutorKit instance.
type Options struct {
	// Curriculum is the ordered objective sequence. When nil an empty
	// curriculum is used, which is only useful for wiring tests.
	Curriculum *core.Curriculum

	// Progression holds the advancement criteria.
	Progression progression.Config

	// Stores (default to in-memory implementations if not provided).
	ProfileStore core.ProfileStore
	MemoryStore  core.MemoryStore

	// Generator defaults to a mock model.
	Generator core.Generator

	// Session lifecycle settings.
	SessionIdleTimeout  time.Duration
	SessionReapInterval time.Duration
	HistorySyncDepth    int

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// TutorKit is the high-level façade aggregating the tutoring service and
// the session registry behind it.
type TutorKit struct {
	opts     Options
	registry *session.Registry
	service  *tutor.Service
}

// New creates a TutorKit instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *TutorKit {
	opts := Options{
		Progression:  progression.DefaultConfig(),
		ProfileStore: profile.NewInMemoryStore(),
		MemoryStore:  memoryindex.NewInMemoryStore(),
		Generator:    model.NewMockGenerator("mock"),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Curriculum == nil {
		opts.Curriculum, _ = core.NewCurriculum(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	reg := session.NewRegistry(opts.ProfileStore, func(o *session.Options) {
		o.Memory = opts.MemoryStore
		o.Logger = opts.Logger
		if opts.SessionIdleTimeout > 0 {
			o.IdleTimeout = opts.SessionIdleTimeout
		}
		if opts.SessionReapInterval > 0 {
			o.ReapInterval = opts.SessionReapInterval
		}
		if opts.HistorySyncDepth > 0 {
			o.HistorySyncDepth = opts.HistorySyncDepth
		}
	})

	svc := tutor.New(
		opts.Generator,
		opts.Curriculum,
		progression.New(opts.Progression),
		reg,
		opts.ProfileStore,
		func(o *tutor.Options) { o.Logger = opts.Logger },
	)

	return &TutorKit{opts: opts, registry: reg, service: svc}
}

// Tutor returns the tutoring facade.
func (k *TutorKit) Tutor() *tutor.Service { return k.service }

// Sessions returns the session registry.
func (k *TutorKit) Sessions() *session.Registry { return k.registry }

// Start launches the background session reaper.
func (k *TutorKit) Start() { k.registry.Start() }

// Shutdown stops the reaper and flushes every active session.
func (k *TutorKit) Shutdown(ctx context.Context) { k.registry.Shutdown(ctx) }
