package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// VectorBackendMemory keeps vectors in process for the lifetime of a session.
	VectorBackendMemory = "memory"
	// VectorBackendQdrant stores vectors in a Qdrant collection per session.
	VectorBackendQdrant = "qdrant"

	// DedupNone keeps every extracted pair, including overlap duplicates.
	DedupNone = "none"
	// DedupExact suppresses pairs whose normalized question is already stored.
	DedupExact = "exact"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL     string
	LLMModelName   string
	LLMAPIKey      string
	LLMTemperature float32
	LLMTimeout     time.Duration

	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string
	EmbeddingTimeout   time.Duration
	VectorSize         int

	VectorBackend string
	QdrantURL     string
	DBPath        string

	WindowSize         int
	OverlapSize        int
	ExtractConcurrency int
	RetrievalTopK      int
	Dedup              string
	PromptsFile        string
	UploadMaxBytes     int64

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent directory, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://api.deepseek.com"),
		LLMModelName:       getEnv("LLM_MODEL", "deepseek-chat"),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "text-embedding-v3"),
		VectorBackend:      strings.ToLower(getEnv("VECTOR_BACKEND", VectorBackendMemory)),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		// Shared-cache in-memory database: pairs live only as long as the process.
		DBPath:      getEnv("DB_PATH", "file:docqa?mode=memory&cache=shared"),
		Dedup:       strings.ToLower(getEnv("KB_DEDUP", DedupNone)),
		PromptsFile: getEnv("PROMPTS_FILE", ""),
		APIPort:     getEnv("API_PORT", "9000"),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
	cfg.EmbeddingAPIKey = getEnv("EMBEDDING_API_KEY", cfg.LLMAPIKey)

	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}

	temperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.1"), 32)
	if err != nil {
		return nil, fmt.Errorf("LLM_TEMPERATURE must be a valid number: %w", err)
	}
	cfg.LLMTemperature = float32(temperature)

	if cfg.LLMTimeout, err = getDuration("LLM_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.EmbeddingTimeout, err = getDuration("EMBEDDING_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.VectorSize, err = getInt("VECTOR_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.VectorSize <= 0 {
		return nil, fmt.Errorf("VECTOR_SIZE must be greater than 0")
	}

	if cfg.WindowSize, err = getInt("WINDOW_SIZE", 4000); err != nil {
		return nil, err
	}
	if cfg.OverlapSize, err = getInt("OVERLAP_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.WindowSize <= 0 {
		return nil, fmt.Errorf("WINDOW_SIZE must be greater than 0")
	}
	if cfg.OverlapSize < 0 {
		return nil, fmt.Errorf("OVERLAP_SIZE must not be negative")
	}
	if cfg.OverlapSize >= cfg.WindowSize {
		return nil, fmt.Errorf("OVERLAP_SIZE (%d) must be smaller than WINDOW_SIZE (%d)", cfg.OverlapSize, cfg.WindowSize)
	}

	if cfg.ExtractConcurrency, err = getInt("EXTRACT_CONCURRENCY", 1); err != nil {
		return nil, err
	}
	if cfg.ExtractConcurrency < 1 {
		return nil, fmt.Errorf("EXTRACT_CONCURRENCY must be at least 1")
	}

	if cfg.RetrievalTopK, err = getInt("RETRIEVAL_TOP_K", 5); err != nil {
		return nil, err
	}
	if cfg.RetrievalTopK <= 0 {
		return nil, fmt.Errorf("RETRIEVAL_TOP_K must be greater than 0")
	}

	maxMB, err := getInt("UPLOAD_MAX_MB", 32)
	if err != nil {
		return nil, err
	}
	cfg.UploadMaxBytes = int64(maxMB) << 20

	switch cfg.VectorBackend {
	case VectorBackendMemory, VectorBackendQdrant:
	default:
		return nil, fmt.Errorf("VECTOR_BACKEND must be %q or %q, got %q", VectorBackendMemory, VectorBackendQdrant, cfg.VectorBackend)
	}

	switch cfg.Dedup {
	case DedupNone, DedupExact:
	default:
		return nil, fmt.Errorf("KB_DEDUP must be %q or %q, got %q", DedupNone, DedupExact, cfg.Dedup)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	// File-backed databases need their directory; URIs and :memory: do not.
	if !strings.HasPrefix(cfg.DBPath, "file:") && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
