package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tutorkit", cfg.App.Name)
	assert.Equal(t, 8000, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Session.ReapInterval)
	assert.Equal(t, 5, cfg.Session.HistorySyncDepth)
	assert.Equal(t, 10, cfg.Progression.Window)
	assert.Equal(t, 0.8, cfg.Progression.Threshold)
	assert.Equal(t, ProfileBackendFile, cfg.Profile.Backend)
	assert.Equal(t, MemoryBackendMemory, cfg.Memory.Backend)
	assert.Equal(t, ModelProviderMock, cfg.Model.Provider)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("PROGRESSION_THRESHOLD", "0.9")
	t.Setenv("PROFILE_BACKEND", "memory")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 0.9, cfg.Progression.Threshold)
	assert.Equal(t, ProfileBackendMemory, cfg.Profile.Backend)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("SESSION_IDLE_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "unknown profile backend",
			mutate:  func(c *Config) { c.Profile.Backend = "etcd" },
			wantErr: "unknown profile backend",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.Profile.Backend = ProfileBackendPostgres },
			wantErr: "PROFILE_POSTGRES_DSN",
		},
		{
			name:    "unknown memory backend",
			mutate:  func(c *Config) { c.Memory.Backend = "weaviate" },
			wantErr: "unknown memory backend",
		},
		{
			name:    "unknown model provider",
			mutate:  func(c *Config) { c.Model.Provider = "bard" },
			wantErr: "unknown model provider",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.HTTP.Port = -1 },
			wantErr: "invalid HTTP port",
		},
		{
			name:    "bad threshold",
			mutate:  func(c *Config) { c.Progression.Threshold = 1.5 },
			wantErr: "threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
