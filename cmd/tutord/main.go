// Command tutord runs the tutoring REST API server. Configuration comes
// from environment variables (see package config); with no environment set
// it serves on :8000 with file-backed profiles, an in-memory memory index,
// and a mock model.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/tutorkit/tutorkit"
	"github.com/tutorkit/tutorkit/config"
	"github.com/tutorkit/tutorkit/core"
	"github.com/tutorkit/tutorkit/curriculum"
	"github.com/tutorkit/tutorkit/httpapi"
	"github.com/tutorkit/tutorkit/logging"
	"github.com/tutorkit/tutorkit/memoryindex"
	"github.com/tutorkit/tutorkit/model"
	"github.com/tutorkit/tutorkit/model/anthropic"
	"github.com/tutorkit/tutorkit/model/openai"
	"github.com/tutorkit/tutorkit/profile"
	"github.com/tutorkit/tutorkit/profile/postgres"
	"github.com/tutorkit/tutorkit/profile/redis"
	"github.com/tutorkit/tutorkit/progression"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tutord:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.App.LogLevel),
		Format:    cfg.App.LogFormat,
		Component: "tutord",
	})

	cur, err := loadCurriculum(cfg)
	if err != nil {
		return err
	}
	logger.Info("curriculum loaded", "path", cfg.Curriculum.Path, "objectives", cur.Len())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildProfileStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	memStore, closeMem, err := buildMemoryStore(cfg)
	if err != nil {
		return err
	}
	defer closeMem()

	gen := buildGenerator(cfg)
	info := gen.Info()
	logger.Info("model configured", "provider", info.Provider, "model", info.Name)

	kit := tutorkit.New(func(o *tutorkit.Options) {
		o.Curriculum = cur
		o.Progression = progression.Config{
			Window:      cfg.Progression.Window,
			MinAttempts: cfg.Progression.MinAttempts,
			Threshold:   cfg.Progression.Threshold,
			MaxLevel:    cfg.Progression.MaxLevel,
		}
		o.ProfileStore = store
		o.MemoryStore = memStore
		o.Generator = gen
		o.SessionIdleTimeout = cfg.Session.IdleTimeout
		o.SessionReapInterval = cfg.Session.ReapInterval
		o.HistorySyncDepth = cfg.Session.HistorySyncDepth
		o.Logger = logger.WithComponent("session")
	})
	kit.Start()

	srv := httpapi.New(kit.Tutor(), kit.Sessions(), func(o *httpapi.Options) {
		o.Config = httpapi.Config{
			Host:           cfg.HTTP.Host,
			Port:           cfg.HTTP.Port,
			ReadTimeout:    cfg.HTTP.ReadTimeout,
			WriteTimeout:   cfg.HTTP.WriteTimeout,
			IdleTimeout:    cfg.HTTP.IdleTimeout,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		}
		o.Logger = logger.WithComponent("httpapi")
	})

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	kit.Shutdown(shutdownCtx)
	logger.Info("shutdown complete")
	return nil
}

func loadCurriculum(cfg *config.Config) (*core.Curriculum, error) {
	cur, err := curriculum.LoadFile(cfg.Curriculum.Path)
	if err == nil {
		return cur, nil
	}
	// A missing file is tolerated so the server can start in a fresh
	// environment; every other load failure is fatal.
	if errors.Is(err, os.ErrNotExist) {
		return core.NewCurriculum(nil)
	}
	return nil, err
}

func buildProfileStore(ctx context.Context, cfg *config.Config) (core.ProfileStore, func(), error) {
	noop := func() {}
	switch cfg.Profile.Backend {
	case config.ProfileBackendFile:
		store, err := profile.NewFileStore(cfg.Profile.Dir)
		return store, noop, err
	case config.ProfileBackendPostgres:
		store, err := postgres.New(ctx, cfg.Profile.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.ProfileBackendRedis:
		store, err := redis.New(ctx, redis.Options{
			Addr:     cfg.Profile.RedisAddr,
			Password: cfg.Profile.RedisPassword,
			DB:       cfg.Profile.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.ProfileBackendMemory:
		return profile.NewInMemoryStore(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown profile backend %q", cfg.Profile.Backend)
	}
}

func buildMemoryStore(cfg *config.Config) (core.MemoryStore, func(), error) {
	noop := func() {}
	switch cfg.Memory.Backend {
	case config.MemoryBackendSQLite:
		store, err := memoryindex.NewSQLiteStore(cfg.Memory.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.MemoryBackendMemory:
		return memoryindex.NewInMemoryStore(), noop, nil
	case config.MemoryBackendNone:
		return nil, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown memory backend %q", cfg.Memory.Backend)
	}
}

func buildGenerator(cfg *config.Config) core.Generator {
	switch cfg.Model.Provider {
	case config.ModelProviderOpenAI:
		return openai.NewGenerator(func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
			o.APIKey = cfg.Model.APIKey
			o.Temperature = cfg.Model.Temperature
			o.MaxCompletionTokens = cfg.Model.MaxTokens
		})
	case config.ModelProviderAnthropic:
		return anthropic.NewGenerator(func(o *anthropic.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
			o.APIKey = cfg.Model.APIKey
			o.Temperature = cfg.Model.Temperature
			o.MaxTokens = cfg.Model.MaxTokens
		})
	default:
		return model.NewMockGenerator("mock")
	}
}
