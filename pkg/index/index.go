// Package index defines the retrieval data model and the Manager interface
// that vector index backends implement.
//
// Two backends ship with the module: a managed Qdrant collection
// (pkg/index/qdrant) and an in-process brute-force index with a JSON
// side-file (pkg/index/memstore). The retrieval engine is backend-agnostic.
package index

import "context"

// DefaultDimension is the dimensionality of stored embeddings when no other
// value is configured. Matches the MiniLM-class sentence embedders the
// assistant corpus was built with.
const DefaultDimension = 384

// Metadata is the provenance attached to every stored chunk.
type Metadata struct {
	SourceName string `json:"source_name"` // owning document or page identifier
	PageNumber int    `json:"page_number"` // 1-based, pseudo-page for non-paginated sources
	Domain     string `json:"domain"`      // coarse corpus tag used for filtered search
	SourceType string `json:"source_type"` // provenance: native-text, ocr, web
}

// Source type tags stored in chunk metadata.
const (
	SourceTypeNative = "native-text"
	SourceTypeOCR    = "ocr"
	SourceTypeWeb    = "web"
)

// Chunk is the atomic unit of retrieval: a fixed-size overlapping window of
// a source document's words plus its provenance.
//
// Chunks are immutable once stored. The ID and Embedding are owned by the
// Manager: the ID is assigned at insert time and the embedding is never
// recomputed for a stored chunk.
type Chunk struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
	Metadata  Metadata  `json:"metadata"`
}

// QueryResult is one ranked retrieval hit.
//
// Score is a cosine similarity for dense results (higher is more relevant).
// Lexical results carry an ordinal rank only; their Score is a raw keyword
// overlap count and must not be compared against dense scores, which the
// Lexical flag marks.
type QueryResult struct {
	Chunk   Chunk   `json:"chunk"`
	Score   float64 `json:"score"`
	Lexical bool    `json:"lexical,omitempty"`
}

// Manager owns a vector collection and its metadata payloads.
//
// Implementations must be safe for concurrent use: searches may run
// concurrently with each other and with inserts, and EnsureReady may be
// invoked by multiple first-callers at once.
//
// Backends map an unreachable store to techdesk.ErrStoreUnavailable so the
// retrieval engine can degrade instead of failing the answer pipeline.
type Manager interface {
	// EnsureReady idempotently creates the underlying collection (configured
	// dimensionality, cosine metric) and any payload index needed for
	// domain-filtered queries. Safe to call repeatedly; "already exists"
	// conditions are swallowed.
	EnsureReady(ctx context.Context) error

	// Insert assigns a collision-resistant unique ID to each chunk and writes
	// vector, text and full metadata. Append-only; stored chunks are never
	// mutated.
	Insert(ctx context.Context, chunks []Chunk) error

	// Search runs nearest-neighbor search for the query vector. A non-empty
	// domain restricts results to chunks whose metadata domain matches.
	// Results are in descending score order, ties stable.
	Search(ctx context.Context, vector []float32, limit int, domain string) ([]QueryResult, error)

	// List enumerates stored chunks (optionally restricted by domain) for
	// lexical scanning. Order is the original insertion order where the
	// backend can provide it.
	List(ctx context.Context, domain string, limit int) ([]Chunk, error)

	// Close releases backend resources.
	Close() error
}
