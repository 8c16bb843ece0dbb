package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers      []string
	KafkaGroupID      string
	IsolateTopic      string
	IsolateDLQTopic   string

	// Analysis configuration tables (YAML paths; empty means built-in defaults)
	VocabPath      string
	TaxonomyPath   string
	ThresholdsPath string
	BenchmarksPath string

	// Antibiotic panel reported by default
	AntibioticPanel []string

	// Rate table cache
	RateCacheTTL time.Duration

	// Ingestion
	SubmissionTTL  time.Duration
	AllowedSources []string
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "amrwatch"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "amrwatch123"),
		PostgresDB:       getEnv("POSTGRES_DB", "amrwatch"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:    getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "amrwatch-surveillance"),
		IsolateTopic:    getEnv("ISOLATE_TOPIC", "amr.isolates.cleaned"),
		IsolateDLQTopic: getEnv("ISOLATE_DLQ_TOPIC", "amr.isolates.dlq"),

		VocabPath:      getEnv("VOCAB_PATH", ""),
		TaxonomyPath:   getEnv("TAXONOMY_PATH", ""),
		ThresholdsPath: getEnv("THRESHOLDS_PATH", ""),
		BenchmarksPath: getEnv("BENCHMARKS_PATH", ""),

		AntibioticPanel: getStringSliceEnv("ANTIBIOTIC_PANEL", []string{
			"Amikacin", "Ampicillin", "Ceftriaxone", "Ceftazidime", "Cefotaxime",
			"Ciprofloxacin", "Gentamicin", "Imipenem", "Levofloxacin", "Meropenem",
			"Tetracycline", "Trimethoprim-Sulfamethoxazole", "Vancomycin",
		}),

		RateCacheTTL: getDuration("RATE_CACHE_TTL", 5*time.Minute),

		SubmissionTTL:  getDuration("SUBMISSION_TTL", 30*24*time.Hour),
		AllowedSources: getStringSliceEnv("ALLOWED_SOURCES", []string{"microbiology", "bacteriology", "external"}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
