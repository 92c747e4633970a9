// Package config loads pipeline settings from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/techdesk-ai/go-techdesk/pkg/chunk"
	"github.com/techdesk-ai/go-techdesk/pkg/index"
	"github.com/techdesk-ai/go-techdesk/pkg/retrieve"
)

// Config holds everything needed to wire a pipeline.
type Config struct {
	// Vector index backend. An empty QdrantURL selects the in-process
	// memstore persisted at StorePath.
	QdrantURL        string
	QdrantCollection string
	StorePath        string

	// Embedding/generation services.
	GoogleAPIKey    string
	GenerationModel string
	EmbeddingModel  string

	// Chunking geometry, in words.
	ChunkSize    int
	ChunkOverlap int

	// Retrieval tuning.
	Dimension      int
	TopK           int
	ScoreThreshold float64
	RequireDomain  bool

	// Default corpus tag for ingestion and filtered search.
	Domain string

	// History persistence path for the badger store; empty keeps history
	// in memory.
	HistoryPath string
}

// Load reads configuration from the environment.
//
// A .env file in the working directory is merged first when present;
// real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		QdrantURL:        os.Getenv("QDRANT_URL"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "techsupport"),
		StorePath:        getEnv("STORE_PATH", "data/chunk_store.json"),
		GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		GenerationModel:  getEnv("GENERATION_MODEL", "gemini-2.0-flash"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		ChunkSize:        getEnvInt("CHUNK_SIZE", chunk.DefaultSize),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", chunk.DefaultOverlap),
		Dimension:        getEnvInt("EMBEDDING_DIM", index.DefaultDimension),
		TopK:             getEnvInt("RETRIEVAL_TOP_K", retrieve.DefaultTopK),
		ScoreThreshold:   getEnvFloat("SCORE_THRESHOLD", retrieve.DefaultScoreThreshold),
		RequireDomain:    getEnvBool("REQUIRE_DOMAIN", false),
		Domain:           getEnv("CORPUS_DOMAIN", "techsupport"),
		HistoryPath:      os.Getenv("HISTORY_PATH"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
