package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the orchestrator process.
type Config struct {
	// Server configuration
	Port string
	Host string

	// Data root: the TaskStore journal and per-task working
	// directories both live under this directory.
	DataRoot string

	// JWT configuration. Empty JWTSecret means the task API runs
	// unauthenticated.
	JWTSecret string

	// Scheduler / GPU gate
	WorkerCount int
	QueueSize   int
	GPUPermits  int64

	// Per-step wall-clock timeouts (spec defaults).
	CloneTimeout    time.Duration
	TrimTimeout     time.Duration
	SequenceTimeout time.Duration
	AlignTimeout    time.Duration

	// Subprocess default timeout, overridable per invocation.
	SubprocessTimeout time.Duration

	// External helper binary for the Clone step's subprocess-backed
	// TTSCloner.
	ClonerBin string
}

// Load loads configuration from environment variables and a .env file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Host:     getEnv("HOST", "localhost"),
		DataRoot: getEnv("DATA_ROOT", "data"),

		JWTSecret: getJWTSecret(),

		WorkerCount: getEnvAsInt("WORKER_COUNT", 5),
		QueueSize:   getEnvAsInt("QUEUE_SIZE", 200),
		GPUPermits:  int64(getEnvAsInt("GPU_PERMITS", 1)),

		CloneTimeout:    getEnvAsDuration("CLONE_TIMEOUT", 30*time.Minute),
		TrimTimeout:     getEnvAsDuration("TRIM_TIMEOUT", 5*time.Minute),
		SequenceTimeout: getEnvAsDuration("SEQUENCE_TIMEOUT", 2*time.Minute),
		AlignTimeout:    getEnvAsDuration("ALIGN_TIMEOUT", 10*time.Minute),

		SubprocessTimeout: getEnvAsDuration("SUBPROCESS_TIMEOUT", 5*time.Minute),

		ClonerBin: findClonerBin(),
	}
}

// TaskDir returns the per-task working directory under DataRoot.
func (c *Config) TaskDir(taskID string) string {
	return filepath.Join(c.DataRoot, "tasks", taskID)
}

// JournalPath returns the path to the registry's JSON journal.
func (c *Config) JournalPath() string {
	return filepath.Join(c.DataRoot, "tasks.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getJWTSecret reads JWT_SECRET from the environment. If AUTH_ENABLED
// is set but no secret is configured, a dev secret is generated and
// persisted under the data root so restarts don't invalidate issued
// tokens.
func getJWTSecret() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	if enabled, _ := strconv.ParseBool(os.Getenv("AUTH_ENABLED")); !enabled {
		return ""
	}

	secretFile := getEnv("JWT_SECRET_FILE", filepath.Join(getEnv("DATA_ROOT", "data"), "jwt_secret"))
	if data, err := os.ReadFile(secretFile); err == nil && len(data) > 0 {
		return strings.TrimSpace(string(data))
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		log.Printf("Warning: could not generate secure JWT secret: %v", err)
		return ""
	}
	secret := hex.EncodeToString(raw)
	_ = os.MkdirAll(filepath.Dir(secretFile), 0755)
	_ = os.WriteFile(secretFile, []byte(secret), 0600)
	log.Println("Generated persistent JWT secret at", secretFile)
	return secret
}

// findClonerBin locates the voice-cloning helper binary, falling back
// to PATH lookup and finally to a bare command name.
func findClonerBin() string {
	if bin := os.Getenv("CLONER_BIN"); bin != "" {
		return bin
	}
	if path, err := exec.LookPath("tts-cloner"); err == nil {
		return path
	}
	return "tts-cloner"
}
