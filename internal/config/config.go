// Package config loads the process-wide configuration.
// The Config struct is built once at startup and read-only thereafter;
// it is passed by reference into constructors, never looked up ambiently.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all recognized settings.
type Config struct {
	Server    ServerConfig
	Generator GeneratorConfig
	Store     StoreConfig
	Retrieval RetrievalConfig
	Seed      SeedConfig
	LogLevel  string
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port string
}

// GeneratorConfig configures the answer generator client.
type GeneratorConfig struct {
	// Host is the base URL of the generator service.
	Host string
	// Model is the identifier of the model the generator should use.
	Model string
	// EmbeddingModel is the model used for embeddings.
	EmbeddingModel string
	// Mock bypasses the generator and returns retrieved context verbatim.
	Mock bool
}

// StoreConfig configures the knowledge store client.
type StoreConfig struct {
	// Backend selects the vector store: "qdrant", "sqlite" or "memory".
	Backend string
	// QdrantHost and QdrantPort locate the Qdrant gRPC endpoint.
	QdrantHost   string
	QdrantPort   int
	QdrantAPIKey string
	Collection   string
	// VectorDim is the embedding dimension used when creating the collection.
	VectorDim int
	// DataPath is the storage directory for the sqlite backend.
	DataPath string
	// TelemetryDisabled suppresses the store client's own phone-home
	// (for Qdrant, the startup version-compatibility call).
	TelemetryDisabled bool
}

// RetrievalConfig fixes the retrieval policy.
type RetrievalConfig struct {
	// TopK is the number of nearest documents retrieved per query.
	TopK int
	// Timeout bounds each outbound call; single attempt, no retries.
	Timeout time.Duration
}

// SeedConfig controls startup ingestion of seed documents.
type SeedConfig struct {
	Dir   string
	Watch bool
}

// Load builds the configuration from the environment,
// reading a .env file first if one exists.
func Load() (*Config, error) {
	// Ignore a missing .env; plain environment variables are fine.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
		},
		Generator: GeneratorConfig{
			Host:           getEnv("GENERATOR_HOST", "http://localhost:11434"),
			Model:          getEnv("GENERATOR_MODEL", "llama3.2"),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			Mock:           getEnvAsBool("MOCK_GENERATION", false),
		},
		Store: StoreConfig{
			Backend:           getEnv("VECTOR_BACKEND", "qdrant"),
			QdrantHost:        getEnv("QDRANT_HOST", "localhost"),
			QdrantPort:        getEnvAsInt("QDRANT_PORT", 6334),
			QdrantAPIKey:      getEnv("QDRANT_API_KEY", ""),
			Collection:        getEnv("QDRANT_COLLECTION", "documents"),
			VectorDim:         getEnvAsInt("VECTOR_DIM", 768),
			DataPath:          getEnv("DATA_PATH", "./data"),
			TelemetryDisabled: getEnvAsBool("TELEMETRY_DISABLED", false),
		},
		Retrieval: RetrievalConfig{
			TopK:    getEnvAsInt("TOP_K", 3),
			Timeout: time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Seed: SeedConfig{
			Dir:   getEnv("SEED_DIR", ""),
			Watch: getEnvAsBool("WATCH_SEED", false),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
