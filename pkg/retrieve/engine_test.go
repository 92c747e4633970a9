package retrieve

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

type mockEmbedder struct {
	vector []float32
	err    error
}

func (m *mockEmbedder) Embed(context.Context, string) ([]float32, error) {
	return m.vector, m.err
}

func (m *mockEmbedder) Dimension() int { return len(m.vector) }

// mockManager scripts Search responses keyed by domain and records calls.
type mockManager struct {
	byDomain  map[string][]index.QueryResult
	searchErr error
	listed    []index.Chunk
	listErr   error
	searches  []string // domains, in call order
}

func (m *mockManager) EnsureReady(context.Context) error { return nil }

func (m *mockManager) Insert(context.Context, []index.Chunk) error { return nil }

func (m *mockManager) Search(_ context.Context, _ []float32, _ int, domain string) ([]index.QueryResult, error) {
	m.searches = append(m.searches, domain)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.byDomain[domain], nil
}

func (m *mockManager) List(_ context.Context, _ string, _ int) ([]index.Chunk, error) {
	return m.listed, m.listErr
}

func (m *mockManager) Close() error { return nil }

func hit(text string, score float64) index.QueryResult {
	return index.QueryResult{
		Chunk: index.Chunk{
			Text:     text,
			Metadata: index.Metadata{SourceName: "doc.pdf", PageNumber: 1},
		},
		Score: score,
	}
}

func TestRetrieveDomainTier(t *testing.T) {
	manager := &mockManager{
		byDomain: map[string][]index.QueryResult{
			"techsupport": {hit("filtered hit", 0.8)},
			"":            {hit("unfiltered hit", 0.9)},
		},
	}
	engine := NewEngine(&mockEmbedder{vector: []float32{1, 0}}, manager, Options{})

	results := engine.Retrieve(context.Background(), "router reset", "techsupport")
	if len(results) != 1 || results[0].Chunk.Text != "filtered hit" {
		t.Fatalf("Retrieve() = %+v, want the domain-filtered hit", results)
	}
	if len(manager.searches) != 1 || manager.searches[0] != "techsupport" {
		t.Errorf("searches = %v, want one domain-filtered search", manager.searches)
	}
}

func TestRetrieveRelaxesDomain(t *testing.T) {
	manager := &mockManager{
		byDomain: map[string][]index.QueryResult{
			"techsupport": nil,
			"":            {hit("unfiltered hit", 0.9)},
		},
	}
	engine := NewEngine(&mockEmbedder{vector: []float32{1, 0}}, manager, Options{})

	results := engine.Retrieve(context.Background(), "router reset", "techsupport")
	if len(results) != 1 || results[0].Chunk.Text != "unfiltered hit" {
		t.Fatalf("Retrieve() = %+v, want the unfiltered hit", results)
	}
	wantSearches := []string{"techsupport", ""}
	if fmt.Sprint(manager.searches) != fmt.Sprint(wantSearches) {
		t.Errorf("searches = %v, want %v", manager.searches, wantSearches)
	}
}

func TestRetrieveRequireDomainSkipsRelaxation(t *testing.T) {
	manager := &mockManager{
		byDomain: map[string][]index.QueryResult{
			"": {hit("unfiltered hit", 0.9)},
		},
	}
	engine := NewEngine(&mockEmbedder{vector: []float32{1, 0}}, manager, Options{RequireDomain: true})

	results := engine.Retrieve(context.Background(), "router reset", "techsupport")
	if len(results) != 0 {
		t.Fatalf("Retrieve() = %+v, want nothing outside the domain", results)
	}
	if len(manager.searches) != 1 {
		t.Errorf("searches = %v, want the domain search only", manager.searches)
	}
}

func TestRetrieveScoreThreshold(t *testing.T) {
	manager := &mockManager{
		byDomain: map[string][]index.QueryResult{
			"techsupport": {hit("strong", 0.7), hit("weak", 0.1)},
		},
	}
	engine := NewEngine(&mockEmbedder{vector: []float32{1, 0}}, manager, Options{ScoreThreshold: 0.35})

	results := engine.Retrieve(context.Background(), "router reset", "techsupport")
	if len(results) != 1 || results[0].Chunk.Text != "strong" {
		t.Fatalf("Retrieve() = %+v, want the above-threshold hit only", results)
	}
}

func TestRetrieveLexicalWhenDenseBelowThreshold(t *testing.T) {
	manager := &mockManager{
		byDomain: map[string][]index.QueryResult{
			"techsupport": {hit("weak", 0.2)},
			"":            {hit("weak", 0.2)},
		},
		listed: []index.Chunk{
			{Text: "hold the power button to reboot the router",
				Metadata: index.Metadata{SourceName: "router-guide.pdf", PageNumber: 4}},
			{Text: "the router admin page lists firmware versions",
				Metadata: index.Metadata{SourceName: "router-guide.pdf", PageNumber: 9}},
			{Text: "printers need toner replaced regularly",
				Metadata: index.Metadata{SourceName: "printer.pdf", PageNumber: 2}},
		},
	}
	engine := NewEngine(&mockEmbedder{vector: []float32{1, 0}}, manager, Options{})

	results := engine.Retrieve(context.Background(), "rebooting my router", "techsupport")
	if len(results) != 2 {
		t.Fatalf("Retrieve() = %+v, want the two lexical matches", results)
	}
	for _, r := range results {
		if !r.Lexical {
			t.Error("fallback hits should be marked Lexical")
		}
		if r.Chunk.Metadata.SourceName != "router-guide.pdf" {
			t.Errorf("low-confidence dense hit or unrelated chunk leaked: %+v", r.Chunk)
		}
	}
}

func TestRetrieveEmbeddingFailureFallsToLexical(t *testing.T) {
	manager := &mockManager{
		listed: []index.Chunk{
			{Text: "printer toner replacement steps",
				Metadata: index.Metadata{SourceName: "printer.pdf", PageNumber: 2}},
		},
	}
	engine := NewEngine(&mockEmbedder{err: techdesk.ErrEmbeddingUnavailable}, manager, Options{})

	results := engine.Retrieve(context.Background(), "printer toner", "techsupport")
	if len(results) != 1 || !results[0].Lexical {
		t.Fatalf("Retrieve() = %+v, want the lexical hit", results)
	}
	if len(manager.searches) != 0 {
		t.Errorf("dense search should be skipped without a vector, got %v", manager.searches)
	}
}

func TestRetrieveStoreFailureYieldsEmpty(t *testing.T) {
	manager := &mockManager{
		searchErr: techdesk.ErrStoreUnavailable,
		listErr:   techdesk.ErrStoreUnavailable,
	}
	engine := NewEngine(&mockEmbedder{vector: []float32{1, 0}}, manager, Options{})

	results := engine.Retrieve(context.Background(), "router reset", "techsupport")
	if len(results) != 0 {
		t.Fatalf("Retrieve() = %+v, want empty on total store failure", results)
	}
}

func TestRetrieveTierFailureLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := techdesk.NewReqID(techdesk.WithLogger(context.Background(), logger))

	manager := &mockManager{
		searchErr: techdesk.ErrStoreUnavailable,
		listErr:   techdesk.ErrStoreUnavailable,
	}
	engine := NewEngine(&mockEmbedder{vector: []float32{1, 0}}, manager, Options{})

	engine.Retrieve(ctx, "router reset", "techsupport")

	out := buf.String()
	if !strings.Contains(out, "level=WARN") {
		t.Fatalf("tier failures should log at warn level, got %q", out)
	}
	for _, want := range []string{"request_id=" + techdesk.ReqID(ctx), "domain=techsupport", "vector store unavailable"} {
		if !strings.Contains(out, want) {
			t.Errorf("degradation log missing %q: %q", want, out)
		}
	}
}
