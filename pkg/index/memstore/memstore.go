// Package memstore implements index.Manager with an in-process brute-force
// cosine index and an optional JSON side-file for persistence.
//
// It trades scale for zero infrastructure: every search scans all stored
// vectors. Suitable for tests, single-node corpora and development; use
// pkg/index/qdrant for a managed collection.
package memstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// Store is an in-memory vector index with optional JSON persistence.
type Store struct {
	mu        sync.RWMutex
	dimension int
	path      string // side-file path, empty for memory-only
	loaded    bool
	chunks    []index.Chunk // insertion order, embeddings inline
}

// Config holds memstore configuration.
type Config struct {
	// Optional. Vector dimensionality. Defaults to index.DefaultDimension.
	Dimension int

	// Optional. Side-file path for persistence across restarts.
	// Empty keeps the index in memory only.
	Path string
}

// New creates a memstore index manager.
//
// Example:
//
//	store := memstore.New(&memstore.Config{Path: "data/chunk_store.json"})
func New(config *Config) *Store {
	if config == nil {
		config = &Config{}
	}
	dimension := config.Dimension
	if dimension <= 0 {
		dimension = index.DefaultDimension
	}
	return &Store{
		dimension: dimension,
		path:      config.Path,
	}
}

var _ index.Manager = (*Store)(nil)

// EnsureReady loads the side-file if one is configured and present.
//
// Idempotent and safe for concurrent first-callers; a missing side-file is
// not an error, the index just starts empty.
func (s *Store) EnsureReady(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	if s.path != "" {
		if dir := filepath.Dir(s.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("%w: create store dir: %v", techdesk.ErrStoreUnavailable, err)
			}
		}
		data, err := os.ReadFile(s.path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fresh index
		case err != nil:
			return fmt.Errorf("%w: read side-file: %v", techdesk.ErrStoreUnavailable, err)
		default:
			var chunks []index.Chunk
			if err := json.Unmarshal(data, &chunks); err != nil {
				return fmt.Errorf("%w: decode side-file: %v", techdesk.ErrStoreUnavailable, err)
			}
			s.chunks = chunks
		}
	}
	s.loaded = true
	return nil
}

// Insert assigns a UUID to each chunk and appends it to the index.
func (s *Store) Insert(ctx context.Context, chunks []index.Chunk) error {
	if err := s.EnsureReady(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range chunks {
		if c.Text == "" || c.Metadata.SourceName == "" {
			return fmt.Errorf("%w: chunk must have text and a source name", techdesk.ErrInvalidConfiguration)
		}
		if len(c.Embedding) != s.dimension {
			return fmt.Errorf("%w: embedding dimension %d, store expects %d",
				techdesk.ErrInvalidConfiguration, len(c.Embedding), s.dimension)
		}
		c.ID = uuid.NewString()
		s.chunks = append(s.chunks, c)
	}
	return s.persistLocked()
}

// Search scans all stored vectors and returns the top limit by cosine
// similarity, descending, ties stable in insertion order.
func (s *Store) Search(ctx context.Context, vector []float32, limit int, domain string) ([]index.QueryResult, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 3
	}

	results := make([]index.QueryResult, 0, limit)
	for _, c := range s.chunks {
		if domain != "" && c.Metadata.Domain != domain {
			continue
		}
		results = append(results, index.QueryResult{
			Chunk: c,
			Score: cosine(vector, c.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// List enumerates stored chunks in insertion order.
func (s *Store) List(ctx context.Context, domain string, limit int) ([]index.Chunk, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []index.Chunk
	for _, c := range s.chunks {
		if domain != "" && c.Metadata.Domain != domain {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Close persists pending state. The in-memory index needs no other teardown.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// Len reports how many chunks are stored. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// persistLocked writes the side-file. Caller holds the write lock.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode side-file: %v", techdesk.ErrStoreUnavailable, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write side-file: %v", techdesk.ErrStoreUnavailable, err)
	}
	return nil
}

// cosine computes cosine similarity between two vectors.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
