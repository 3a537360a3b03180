// Package config loads the application configuration from environment
// variables with sensible defaults, so the server runs out of the box on
// in-memory backends and a mock model.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by the profile store selector.
const (
	ProfileBackendFile     = "file"
	ProfileBackendPostgres = "postgres"
	ProfileBackendRedis    = "redis"
	ProfileBackendMemory   = "memory"
)

// Backend names accepted by the memory index selector.
const (
	MemoryBackendSQLite = "sqlite"
	MemoryBackendMemory = "memory"
	MemoryBackendNone   = "none"
)

// Provider names accepted by the model selector.
const (
	ModelProviderOpenAI    = "openai"
	ModelProviderAnthropic = "anthropic"
	ModelProviderMock      = "mock"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig
	HTTP        HTTPConfig
	Session     SessionConfig
	Progression ProgressionConfig
	Profile     ProfileConfig
	Memory      MemoryConfig
	Model       ModelConfig
	Curriculum  CurriculumConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name            string
	LogLevel        string
	LogFormat       string // "text" or "json"
	ShutdownTimeout time.Duration
}

// HTTPConfig holds server settings.
type HTTPConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// SessionConfig holds registry settings.
type SessionConfig struct {
	IdleTimeout      time.Duration
	ReapInterval     time.Duration
	HistorySyncDepth int
}

// ProgressionConfig holds advancement criteria.
type ProgressionConfig struct {
	Window      int
	MinAttempts int
	Threshold   float64
	MaxLevel    int
}

// ProfileConfig selects and configures the profile store backend.
type ProfileConfig struct {
	Backend string

	// file backend
	Dir string

	// postgres backend
	PostgresDSN string

	// redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// MemoryConfig selects and configures the memory index backend.
type MemoryConfig struct {
	Backend string

	// sqlite backend
	Path string
}

// ModelConfig selects the generative model provider.
type ModelConfig struct {
	Provider    string
	Name        string
	APIKey      string
	Temperature float64
	MaxTokens   int64
}

// CurriculumConfig locates the objective definitions.
type CurriculumConfig struct {
	Path string
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "tutorkit"),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			LogFormat:       getEnv("LOG_FORMAT", "text"),
			ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		HTTP: HTTPConfig{
			Host:         getEnv("HTTP_HOST", "0.0.0.0"),
			Port:         getEnvInt("HTTP_PORT", 8000),
			ReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:  getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			AllowedOrigins: getEnvSlice("HTTP_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost:3001",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
			}),
		},
		Session: SessionConfig{
			IdleTimeout:      getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			ReapInterval:     getEnvDuration("SESSION_REAP_INTERVAL", 10*time.Minute),
			HistorySyncDepth: getEnvInt("SESSION_HISTORY_SYNC_DEPTH", 5),
		},
		Progression: ProgressionConfig{
			Window:      getEnvInt("PROGRESSION_WINDOW", 10),
			MinAttempts: getEnvInt("PROGRESSION_MIN_ATTEMPTS", 5),
			Threshold:   getEnvFloat("PROGRESSION_THRESHOLD", 0.8),
			MaxLevel:    getEnvInt("PROGRESSION_MAX_LEVEL", 4),
		},
		Profile: ProfileConfig{
			Backend:       getEnv("PROFILE_BACKEND", ProfileBackendFile),
			Dir:           getEnv("PROFILE_DIR", "student_profiles"),
			PostgresDSN:   getEnv("PROFILE_POSTGRES_DSN", ""),
			RedisAddr:     getEnv("PROFILE_REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("PROFILE_REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("PROFILE_REDIS_DB", 0),
		},
		Memory: MemoryConfig{
			Backend: getEnv("MEMORY_BACKEND", MemoryBackendMemory),
			Path:    getEnv("MEMORY_SQLITE_PATH", "tutor_memory.db"),
		},
		Model: ModelConfig{
			Provider:    getEnv("MODEL_PROVIDER", ModelProviderMock),
			Name:        getEnv("MODEL_NAME", ""),
			APIKey:      getEnv("MODEL_API_KEY", ""),
			Temperature: getEnvFloat("MODEL_TEMPERATURE", 0.7),
			MaxTokens:   int64(getEnvInt("MODEL_MAX_TOKENS", 2048)),
		},
		Curriculum: CurriculumConfig{
			Path: getEnv("CURRICULUM_PATH", "curriculum.yaml"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate rejects combinations that cannot produce a working system.
func (c *Config) Validate() error {
	switch c.Profile.Backend {
	case ProfileBackendFile, ProfileBackendMemory, ProfileBackendRedis:
	case ProfileBackendPostgres:
		if c.Profile.PostgresDSN == "" {
			return fmt.Errorf("PROFILE_POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown profile backend %q", c.Profile.Backend)
	}

	switch c.Memory.Backend {
	case MemoryBackendSQLite, MemoryBackendMemory, MemoryBackendNone:
	default:
		return fmt.Errorf("unknown memory backend %q", c.Memory.Backend)
	}

	switch c.Model.Provider {
	case ModelProviderOpenAI, ModelProviderAnthropic, ModelProviderMock:
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port %d", c.HTTP.Port)
	}
	if c.Progression.Threshold < 0 || c.Progression.Threshold > 1 {
		return fmt.Errorf("progression threshold %v must be in [0, 1]", c.Progression.Threshold)
	}
	return nil
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
