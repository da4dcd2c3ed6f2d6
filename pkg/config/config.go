package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Remote    RemoteEngineConfig
	Local     LocalEngineConfig
	Synthesis SynthesisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration for the template/folder registries
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration for the preference store
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RemoteEngineConfig holds configuration for the credential-gated remote backend
type RemoteEngineConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LocalEngineConfig holds configuration for the on-device inference runtime
type LocalEngineConfig struct {
	BaseURL string
	Model   string
	// ReadinessRetries and ReadinessDelay bound how long note generation
	// waits for a model still finishing a background load.
	ReadinessRetries int
	ReadinessDelay   time.Duration
	// StreamTimeout is the wall-clock budget for one streaming call before
	// the adapter salvages whatever was accumulated.
	StreamTimeout time.Duration
}

// SynthesisConfig holds the tuning constants of the chunking and two-pass
// pipeline. The thresholds were tuned empirically; they are carried as
// configuration rather than re-derived.
type SynthesisConfig struct {
	ChunkThreshold  int     // characters above which a text is chunked
	ChunkWindowSize int     // characters per window
	ChunkOverlap    int     // characters of overlap between windows
	MergeThreshold  int     // characters of user notes that trigger Pass 2
	MergeGuardRatio float64 // minimum Pass-2/Pass-1 length ratio

	ChunkMaxTokens        int
	ClosingChunkMaxTokens int
	Pass1MaxTokens        int
	Pass2MaxTokens        int
	AnswerMaxTokens       int
	SuggestionMaxTokens   int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "127.0.0.1"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "notegen"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Remote: RemoteEngineConfig{
			APIKey:  getEnv("REMOTE_ENGINE_API_KEY", ""),
			BaseURL: getEnv("REMOTE_ENGINE_URL", "https://api.groq.com/openai/v1"),
			Model:   getEnv("REMOTE_ENGINE_MODEL", "llama-3.1-70b-versatile"),
			Timeout: getEnvAsDuration("REMOTE_ENGINE_TIMEOUT", "90s"),
		},
		Local: LocalEngineConfig{
			BaseURL:          getEnv("LOCAL_ENGINE_URL", "http://127.0.0.1:8731"),
			Model:            getEnv("LOCAL_ENGINE_MODEL", "qwen2.5-3b-instruct-q4_k_m"),
			ReadinessRetries: getEnvAsInt("LOCAL_ENGINE_READINESS_RETRIES", 2),
			ReadinessDelay:   getEnvAsDuration("LOCAL_ENGINE_READINESS_DELAY", "3s"),
			StreamTimeout:    getEnvAsDuration("LOCAL_ENGINE_STREAM_TIMEOUT", "3m"),
		},
		Synthesis: SynthesisConfig{
			ChunkThreshold:  getEnvAsInt("SYNTH_CHUNK_THRESHOLD", 4000),
			ChunkWindowSize: getEnvAsInt("SYNTH_CHUNK_WINDOW", 6000),
			ChunkOverlap:    getEnvAsInt("SYNTH_CHUNK_OVERLAP", 300),
			MergeThreshold:  getEnvAsInt("SYNTH_MERGE_THRESHOLD", 500),
			MergeGuardRatio: getEnvAsFloat("SYNTH_MERGE_GUARD_RATIO", 0.5),

			ChunkMaxTokens:        getEnvAsInt("SYNTH_CHUNK_MAX_TOKENS", 700),
			ClosingChunkMaxTokens: getEnvAsInt("SYNTH_CLOSING_CHUNK_MAX_TOKENS", 1100),
			Pass1MaxTokens:        getEnvAsInt("SYNTH_PASS1_MAX_TOKENS", 2200),
			Pass2MaxTokens:        getEnvAsInt("SYNTH_PASS2_MAX_TOKENS", 2200),
			AnswerMaxTokens:       getEnvAsInt("SYNTH_ANSWER_MAX_TOKENS", 900),
			SuggestionMaxTokens:   getEnvAsInt("SYNTH_SUGGESTION_MAX_TOKENS", 200),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Synthesis.ChunkOverlap >= c.Synthesis.ChunkWindowSize {
		return fmt.Errorf("SYNTH_CHUNK_OVERLAP (%d) must be smaller than SYNTH_CHUNK_WINDOW (%d)",
			c.Synthesis.ChunkOverlap, c.Synthesis.ChunkWindowSize)
	}
	if c.Synthesis.MergeGuardRatio <= 0 || c.Synthesis.MergeGuardRatio > 1 {
		return fmt.Errorf("SYNTH_MERGE_GUARD_RATIO must be in (0, 1], got %g", c.Synthesis.MergeGuardRatio)
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
