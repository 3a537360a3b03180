package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tutorkit/tutorkit/logging"
	"github.com/tutorkit/tutorkit/session"
	"github.com/tutorkit/tutorkit/tutor"
)

// Version reported by the stats and root endpoints.
const Version = "1.0.0"

// Config contains HTTP server settings.
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// DefaultConfig returns the default server settings. The allowed origins
// cover common local dev servers for the web frontend.
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8000,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:3001",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
		},
	}
}

// Address returns the listen address.
func (c Config) Address() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// Options configure a Server.
type Options struct {
	Config Config
	Logger logging.Logger
}

// Server serves the tutoring REST API.
type Server struct {
	svc    *tutor.Service
	reg    *session.Registry
	cfg    Config
	logger logging.Logger
	http   *http.Server
}

// New creates a server wired to the tutoring service and session registry.
func New(svc *tutor.Service, reg *session.Registry, optFns ...func(o *Options)) *Server {
	opts := Options{
		Config: DefaultConfig(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	s := &Server{
		svc:    svc,
		reg:    reg,
		cfg:    opts.Config,
		logger: opts.Logger,
	}
	s.http = &http.Server{
		Addr:         s.cfg.Address(),
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	return s
}

// Handler returns the fully wired route tree. Exposed separately so tests
// can drive it with httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /students", s.handleCreateStudent)
	mux.HandleFunc("GET /students/{id}", s.handleGetStudent)
	mux.HandleFunc("GET /students/{id}/progress", s.handleProgress)
	mux.HandleFunc("GET /students/{id}/coach", s.handleCoachMessage)
	mux.HandleFunc("GET /students/{id}/current-objective", s.handleCurrentObjective)
	mux.HandleFunc("GET /students/{id}/progression-status", s.handleProgressionStatus)
	mux.HandleFunc("POST /students/{id}/advance-objective", s.handleAdvanceObjective)
	mux.HandleFunc("GET /students/{id}/check-completion", s.handleCheckCompletion)

	mux.HandleFunc("POST /exercises/generate", s.handleGenerateExercise)
	mux.HandleFunc("POST /exercises/similar", s.handleSimilarExercise)
	mux.HandleFunc("POST /answers/evaluate", s.handleEvaluateAnswer)

	mux.HandleFunc("GET /objectives", s.handleObjectives)
	mux.HandleFunc("GET /stats", s.handleStats)

	var h http.Handler = mux
	h = s.corsMiddleware(h)
	h = s.loggingMiddleware(h)
	h = s.recoveryMiddleware(h)
	h = requestIDMiddleware(h)
	return h
}

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.cfg.Address())
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.http.Shutdown(ctx)
}
