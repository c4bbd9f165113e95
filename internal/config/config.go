package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	GinMode         string
	CORSOrigins     []string
	MaxFileSize     int64
	ShutdownTimeout time.Duration

	// Shared-secret authentication for /extract
	APISecret       string
	APISecretHeader string

	// Chunking defaults, overridable per request
	ChunkSize    int
	ChunkOverlap int

	// Extraction
	PDFStrictValidation bool

	// Per-client rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Heartbeat
	HeartbeatInterval      time.Duration
	HeartbeatReclaimMemory bool

	// OpenTelemetry
	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		MaxFileSize:     getEnvInt64("MAX_FILE_SIZE", 10485760), // 10MB
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		APISecret:       getEnv("API_SECRET", ""),
		APISecretHeader: getEnv("API_SECRET_HEADER", "X-API-Secret"),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 3000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 300),

		PDFStrictValidation: getEnvBool("PDF_STRICT_VALIDATION", false),

		RateLimitRPS:   getEnvFloat64("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),

		HeartbeatInterval:      getEnvDuration("HEARTBEAT_INTERVAL", 5*time.Minute),
		HeartbeatReclaimMemory: getEnvBool("HEARTBEAT_RECLAIM_MEMORY", false),

		OTelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:    getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
		OTelSampleRatio: getEnvFloat64("OTEL_SAMPLE_RATIO", 0.1),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail on every request
func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive")
	}

	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE)")
	}

	if c.APISecretHeader == "" {
		return fmt.Errorf("API_SECRET_HEADER must not be empty")
	}

	if c.GinMode == "release" && c.APISecret == "" {
		return fmt.Errorf("API_SECRET is required in release mode - set it in .env file")
	}

	if c.OTelSampleRatio < 0 || c.OTelSampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATIO must be between 0 and 1")
	}

	return nil
}

// AuthEnabled reports whether /extract requires the shared secret
func (c *Config) AuthEnabled() bool {
	return c.APISecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
