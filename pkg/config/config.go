package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds global settings for the VerifiAI authenticity gateway.
// All settings can be configured via environment variables or programmatically.
type Config struct {
	// === Core Settings ===
	Port        string // HTTP listen port for serve mode (default: "8080")
	WeightsPath string // Optional YAML file overriding feature weights

	// === Category Thresholds (0 - 100) ===
	// Band lower bounds are inclusive; scores at or above
	// SuspectThreshold also set the is_deepfake flag.
	ManipulatedThreshold float64 // Score at/above this = "Likely Manipulated" (default: 80)
	SuspectThreshold     float64 // Score at/above this = "Potentially Manipulated" (default: 60)
	UncertainThreshold   float64 // Score at/above this = "Uncertain" (default: 40)

	// === Remote Detector ===
	// An optional external scoring service blended into local results.
	// Empty URL disables the remote leg entirely.
	RemoteDetectorURL string // POST endpoint for the remote detector (default: "")
	RemoteTimeoutMs   int    // Timeout for remote calls in milliseconds (default: 30000)

	// === Result Cache ===
	// Optional Redis cache keyed by content digest. Empty address
	// disables caching.
	RedisAddr       string // Redis host:port (default: "")
	RedisPassword   string // Redis AUTH password (default: "")
	CacheTTLSeconds int    // Cached result lifetime (default: 3600)

	// === Analysis History ===
	// Optional Postgres store of past analyses. Empty URL disables it.
	PostgresURL string // Postgres connection string (default: "")

	// === Upload Limits ===
	MaxUploadBytes int // Largest accepted upload in bytes (default: 52428800, 50 MiB)
}

// NewDefaultConfig creates a Config with sensible defaults.
// All settings can be overridden via environment variables.
func NewDefaultConfig() *Config {
	return &Config{
		Port:        GetEnv("VERIFIAI_PORT", "8080"),
		WeightsPath: GetEnv("VERIFIAI_WEIGHTS_PATH", ""),

		ManipulatedThreshold: GetEnvFloat("VERIFIAI_MANIPULATED_THRESHOLD", 80),
		SuspectThreshold:     GetEnvFloat("VERIFIAI_SUSPECT_THRESHOLD", 60),
		UncertainThreshold:   GetEnvFloat("VERIFIAI_UNCERTAIN_THRESHOLD", 40),

		RemoteDetectorURL: GetEnv("VERIFIAI_REMOTE_URL", ""),
		RemoteTimeoutMs:   GetEnvInt("VERIFIAI_REMOTE_TIMEOUT_MS", 30000),

		RedisAddr:       GetEnv("VERIFIAI_REDIS_ADDR", ""),
		RedisPassword:   GetEnv("VERIFIAI_REDIS_PASSWORD", ""),
		CacheTTLSeconds: clampInt(GetEnvInt("VERIFIAI_CACHE_TTL_SECONDS", 3600), 1, 86400*30),

		PostgresURL: GetEnv("VERIFIAI_POSTGRES_URL", ""),

		MaxUploadBytes: clampInt(GetEnvInt("VERIFIAI_MAX_UPLOAD_BYTES", 50*1024*1024), 1024, 1024*1024*1024),
	}
}

// NewLocalConfig creates a Config for fully offline operation: no remote
// detector, no cache, no history. Use this for air-gapped environments
// or the CLI analyze mode.
func NewLocalConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.RemoteDetectorURL = ""
	cfg.RedisAddr = ""
	cfg.PostgresURL = ""
	return cfg
}

// NewStrictConfig creates a Config that flags content more aggressively
// (lower thresholds = more uploads land in the manipulated bands).
func NewStrictConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.ManipulatedThreshold = 70
	cfg.SuspectThreshold = 50
	cfg.UncertainThreshold = 30
	return cfg
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	var problems []string

	if c.UncertainThreshold <= 0 || c.UncertainThreshold > 100 {
		problems = append(problems, fmt.Sprintf("VERIFIAI_UNCERTAIN_THRESHOLD must be in (0,100], got %v", c.UncertainThreshold))
	}
	if c.SuspectThreshold <= c.UncertainThreshold || c.SuspectThreshold > 100 {
		problems = append(problems, fmt.Sprintf("VERIFIAI_SUSPECT_THRESHOLD must be in (%v,100], got %v", c.UncertainThreshold, c.SuspectThreshold))
	}
	if c.ManipulatedThreshold <= c.SuspectThreshold || c.ManipulatedThreshold > 100 {
		problems = append(problems, fmt.Sprintf("VERIFIAI_MANIPULATED_THRESHOLD must be in (%v,100], got %v", c.SuspectThreshold, c.ManipulatedThreshold))
	}
	if c.RemoteTimeoutMs <= 0 {
		problems = append(problems, fmt.Sprintf("VERIFIAI_REMOTE_TIMEOUT_MS must be positive, got %d", c.RemoteTimeoutMs))
	}
	if c.WeightsPath != "" {
		if _, err := os.Stat(c.WeightsPath); err != nil {
			problems = append(problems, fmt.Sprintf("VERIFIAI_WEIGHTS_PATH %q: %v", c.WeightsPath, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// MustValidate calls Validate and fatally exits if validation fails.
// Call this at startup before starting the server.
func (c *Config) MustValidate() {
	if err := c.Validate(); err != nil {
		log.Fatalf("[STARTUP] FATAL: Configuration validation failed: %v", err)
	}
	log.Println("[STARTUP] Configuration validated successfully")
}

// clampInt ensures a value is within bounds
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Helper functions for environment variable parsing.
// These are exported for use by other packages.

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}
