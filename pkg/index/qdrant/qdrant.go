// Package qdrant implements index.Manager against a Qdrant collection.
//
// One collection holds the whole corpus: a cosine vector per chunk plus the
// chunk text and provenance as payload, with a keyword payload index on the
// domain field for filtered search.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	qd "github.com/qdrant/go-client/qdrant"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// Payload field names for stored chunks.
const (
	fieldText       = "text"
	fieldSourceName = "source_name"
	fieldPageNumber = "page_number"
	fieldDomain     = "domain"
	fieldSourceType = "source_type"
)

// Manager is a Qdrant-backed index manager.
type Manager struct {
	client     *qd.Client
	collection string
	dimension  uint64
}

// Config holds Qdrant client configuration.
type Config struct {
	// Qdrant server URL, e.g. "http://localhost:6334".
	URL string

	// Collection name for storing chunks. Defaults to "chunks".
	CollectionName string

	// Optional API key for authentication.
	APIKey string

	// Vector dimensionality. Defaults to index.DefaultDimension.
	Dimension int
}

// New creates a Qdrant index manager.
//
// Example:
//
//	mgr, err := qdrant.New(&qdrant.Config{
//	    URL:            "http://localhost:6334",
//	    CollectionName: "techsupport",
//	})
func New(config *Config) (*Manager, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("qdrant URL is required")
	}
	collection := config.CollectionName
	if collection == "" {
		collection = "chunks"
	}
	dimension := config.Dimension
	if dimension <= 0 {
		dimension = index.DefaultDimension
	}

	parsedURL, err := url.Parse(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}
	port := 6334
	if parsedURL.Port() != "" {
		p, err := strconv.ParseInt(parsedURL.Port(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("error converting string to int: %w", err)
		}
		port = int(p)
	}

	client, err := qd.NewClient(&qd.Config{
		Host:   parsedURL.Hostname(),
		Port:   port,
		APIKey: config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &Manager{
		client:     client,
		collection: collection,
		dimension:  uint64(dimension),
	}, nil
}

var _ index.Manager = (*Manager)(nil)

// EnsureReady creates the collection and the domain payload index if absent.
//
// Safe to call repeatedly and from concurrent first-callers; "already
// exists" responses are swallowed.
func (m *Manager) EnsureReady(ctx context.Context) error {
	exists, err := m.client.CollectionExists(ctx, m.collection)
	if err != nil {
		return m.storeErr(ctx, "check collection", err)
	}
	if !exists {
		err = m.client.CreateCollection(ctx, &qd.CreateCollection{
			CollectionName: m.collection,
			VectorsConfig: qd.NewVectorsConfig(&qd.VectorParams{
				Size:     m.dimension,
				Distance: qd.Distance_Cosine,
			}),
		})
		if err != nil && !alreadyExists(err) {
			return m.storeErr(ctx, "create collection", err)
		}
	}

	_, err = m.client.CreateFieldIndex(ctx, &qd.CreateFieldIndexCollection{
		CollectionName: m.collection,
		FieldName:      fieldDomain,
		FieldType:      qd.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil && !alreadyExists(err) {
		return m.storeErr(ctx, "create domain index", err)
	}
	return nil
}

// Insert assigns a UUID per chunk and upserts vector, text and metadata.
func (m *Manager) Insert(ctx context.Context, chunks []index.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	points := make([]*qd.PointStruct, 0, len(chunks))
	for _, c := range chunks {
		if c.Text == "" || c.Metadata.SourceName == "" {
			return fmt.Errorf("%w: chunk must have text and a source name", techdesk.ErrInvalidConfiguration)
		}
		points = append(points, &qd.PointStruct{
			Id: &qd.PointId{
				PointIdOptions: &qd.PointId_Uuid{Uuid: uuid.NewString()},
			},
			Vectors: &qd.Vectors{
				VectorsOptions: &qd.Vectors_Vector{
					Vector: &qd.Vector{Data: c.Embedding},
				},
			},
			Payload: buildPayload(c),
		})
	}

	waitForResult := true
	_, err := m.client.Upsert(ctx, &qd.UpsertPoints{
		CollectionName: m.collection,
		Points:         points,
		Wait:           &waitForResult,
	})
	if err != nil {
		return m.storeErr(ctx, "upsert points", err)
	}
	return nil
}

// Search runs nearest-neighbor search, optionally domain-filtered.
func (m *Manager) Search(ctx context.Context, vector []float32, limit int, domain string) ([]index.QueryResult, error) {
	request := &qd.QueryPoints{
		CollectionName: m.collection,
		Query:          qd.NewQuery(vector...),
		WithPayload:    qd.NewWithPayload(true),
	}
	if limit > 0 {
		l := uint64(limit)
		request.Limit = &l
	}
	if domain != "" {
		request.Filter = domainFilter(domain)
	}

	points, err := m.client.Query(ctx, request)
	if err != nil {
		return nil, m.storeErr(ctx, "query", err)
	}

	results := make([]index.QueryResult, 0, len(points))
	for _, point := range points {
		results = append(results, index.QueryResult{
			Chunk: chunkFromPayload(point.Id, point.Payload),
			Score: float64(point.Score),
		})
	}
	return results, nil
}

// List scrolls stored chunks for lexical scanning.
func (m *Manager) List(ctx context.Context, domain string, limit int) ([]index.Chunk, error) {
	request := &qd.ScrollPoints{
		CollectionName: m.collection,
		WithPayload:    qd.NewWithPayload(true),
	}
	if limit > 0 {
		request.Limit = qd.PtrOf(uint32(limit))
	}
	if domain != "" {
		request.Filter = domainFilter(domain)
	}

	points, err := m.client.Scroll(ctx, request)
	if err != nil {
		return nil, m.storeErr(ctx, "scroll", err)
	}

	chunks := make([]index.Chunk, 0, len(points))
	for _, point := range points {
		chunks = append(chunks, chunkFromPayload(point.Id, point.Payload))
	}
	return chunks, nil
}

// Close releases the underlying gRPC client.
func (m *Manager) Close() error {
	if err := m.client.Close(); err != nil {
		return fmt.Errorf("close qdrant error %w", err)
	}
	return nil
}

// storeErr wraps a backend failure as store-unavailable for the degradation
// chain, carrying the request ID, operation and collection for logging.
func (m *Manager) storeErr(ctx context.Context, op string, err error) error {
	cause := fmt.Errorf("%w: %v", techdesk.ErrStoreUnavailable, err)
	return techdesk.WrapErr(ctx, cause, "qdrant "+op+" failed").
		Tags(slog.String("op", op), slog.String("collection", m.collection))
}

// alreadyExists reports whether err is Qdrant's already-exists condition,
// which idempotent setup swallows.
func alreadyExists(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// domainFilter builds the keyword match filter on the domain payload field.
func domainFilter(domain string) *qd.Filter {
	return &qd.Filter{
		Must: []*qd.Condition{qd.NewMatch(fieldDomain, domain)},
	}
}

// buildPayload converts chunk text and metadata to Qdrant payload format.
func buildPayload(c index.Chunk) map[string]*qd.Value {
	return map[string]*qd.Value{
		fieldText:       qd.NewValueString(c.Text),
		fieldSourceName: qd.NewValueString(c.Metadata.SourceName),
		fieldPageNumber: qd.NewValueInt(int64(c.Metadata.PageNumber)),
		fieldDomain:     qd.NewValueString(c.Metadata.Domain),
		fieldSourceType: qd.NewValueString(c.Metadata.SourceType),
	}
}

// chunkFromPayload converts a Qdrant payload back into a chunk.
func chunkFromPayload(id *qd.PointId, payload map[string]*qd.Value) index.Chunk {
	c := index.Chunk{}
	if id != nil {
		c.ID = id.GetUuid()
	}
	if payload == nil {
		return c
	}
	if v, ok := payload[fieldText]; ok {
		c.Text = v.GetStringValue()
	}
	if v, ok := payload[fieldSourceName]; ok {
		c.Metadata.SourceName = v.GetStringValue()
	}
	if v, ok := payload[fieldPageNumber]; ok {
		c.Metadata.PageNumber = int(v.GetIntegerValue())
	}
	if v, ok := payload[fieldDomain]; ok {
		c.Metadata.Domain = v.GetStringValue()
	}
	if v, ok := payload[fieldSourceType]; ok {
		c.Metadata.SourceType = v.GetStringValue()
	}
	return c
}
