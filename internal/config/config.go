// Package config centralizes how JobSift reads environment variables and
// exposes them as strongly typed Go values.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents runtime configuration for the service.
type Config struct {
	Address     string
	MaxFileSize int64

	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3UseSSL      bool
	S3Region      string
	Bucket        string
	PublicBaseURL string
	SignedURLTTL  time.Duration

	// ExtractorURL points at the remote text-extraction endpoint used for
	// Word documents. PDFs are extracted locally.
	ExtractorURL string

	GeminiAPIKey string
	LLMModel     string

	LogLevel string
	LogPath  string
}

const (
	defaultAddress     = ":8080"
	defaultMaxFileSize = 25 << 20 // 25 MiB
	defaultSignedTTL   = 5 * time.Minute
	defaultBucket      = "jobsift-documents"
	defaultLLMModel    = "gemini-1.5-flash"
)

// Load reads configuration from the environment, picking up a local .env
// file first when present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := &Config{
		Address:       readEnv("JOBSIFT_ADDRESS", defaultAddress),
		MaxFileSize:   parseInt64("JOBSIFT_MAX_FILE_BYTES", defaultMaxFileSize),
		S3Endpoint:    readEnv("JOBSIFT_S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:   readEnv("JOBSIFT_S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:   readEnv("JOBSIFT_S3_SECRET_KEY", "minioadmin"),
		S3UseSSL:      parseBool("JOBSIFT_S3_USE_SSL", false),
		S3Region:      readEnv("JOBSIFT_S3_REGION", "us-east-1"),
		Bucket:        readEnv("JOBSIFT_BUCKET", defaultBucket),
		PublicBaseURL: readEnv("JOBSIFT_PUBLIC_BASE_URL", ""),
		SignedURLTTL:  parseDuration("JOBSIFT_SIGNED_TTL", defaultSignedTTL),
		ExtractorURL:  readEnv("JOBSIFT_EXTRACTOR_URL", ""),
		GeminiAPIKey:  readEnv("GEMINI_API_KEY", ""),
		LLMModel:      readEnv("JOBSIFT_LLM_MODEL", defaultLLMModel),
		LogLevel:      readEnv("JOBSIFT_LOG_LEVEL", "info"),
		LogPath:       readEnv("JOBSIFT_LOG_PATH", ""),
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = defaultSignedTTL
	}
	return cfg, nil
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
