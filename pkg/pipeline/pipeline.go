// Package pipeline wires the full query path: intent interception,
// retrieval, prompt construction, streamed generation, answer assembly and
// history persistence.
//
// All collaborators are injected once at construction; the pipeline owns no
// global state and one instance serves concurrent queries.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/techdesk-ai/go-techdesk/pkg/answer"
	"github.com/techdesk-ai/go-techdesk/pkg/chunk"
	"github.com/techdesk-ai/go-techdesk/pkg/embed"
	"github.com/techdesk-ai/go-techdesk/pkg/history"
	"github.com/techdesk-ai/go-techdesk/pkg/index"
	"github.com/techdesk-ai/go-techdesk/pkg/intent"
	"github.com/techdesk-ai/go-techdesk/pkg/llm"
	"github.com/techdesk-ai/go-techdesk/pkg/prompt"
	"github.com/techdesk-ai/go-techdesk/pkg/retrieve"
	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// NoKnowledgeReply is the fixed apology for queries the corpus cannot
// answer at all.
const NoKnowledgeReply = "I'm sorry, I don't have information about that in my knowledge base."

// SummaryWordLimit caps summarizer output length.
const SummaryWordLimit = 500

// Deps are the collaborators a pipeline is built from.
type Deps struct {
	Embedder  embed.Provider
	Index     index.Manager
	Generator llm.Generator
	History   history.Store
}

// Options tunes pipeline behavior.
type Options struct {
	// Retrieval tuning, passed through to the engine.
	TopK           int
	ScoreThreshold float64
	RequireDomain  bool

	// Domain restricts retrieval and tags ingested chunks.
	Domain string

	// Chunking geometry for Ingest, in words.
	ChunkSize    int
	ChunkOverlap int

	// MaxFallbackSentences caps the extractive fallback body.
	MaxFallbackSentences int
}

// Pipeline answers user queries against the ingested corpus.
type Pipeline struct {
	deps      Deps
	opts      Options
	engine    *retrieve.Engine
	assembler *answer.Assembler

	readyOnce sync.Once
	readyErr  error
}

// New creates a pipeline from its collaborators.
//
// Example:
//
//	p := pipeline.New(pipeline.Deps{
//	    Embedder:  provider,
//	    Index:     manager,
//	    Generator: generator,
//	    History:   store,
//	}, pipeline.Options{Domain: "techsupport"})
func New(deps Deps, opts Options) *Pipeline {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunk.DefaultSize
	}
	if opts.ChunkOverlap <= 0 {
		opts.ChunkOverlap = chunk.DefaultOverlap
	}
	return &Pipeline{
		deps: deps,
		opts: opts,
		engine: retrieve.NewEngine(deps.Embedder, deps.Index, retrieve.Options{
			TopK:           opts.TopK,
			ScoreThreshold: opts.ScoreThreshold,
			RequireDomain:  opts.RequireDomain,
		}),
		assembler: &answer.Assembler{MaxFallbackSentences: opts.MaxFallbackSentences},
	}
}

// EnsureReady prepares the index backend. Safe for concurrent first-callers;
// the underlying setup is idempotent.
func (p *Pipeline) EnsureReady(ctx context.Context) error {
	p.readyOnce.Do(func() {
		p.readyErr = p.deps.Index.EnsureReady(ctx)
	})
	return p.readyErr
}

// Ingest chunks per-page source text, embeds each chunk and writes it to the
// index. Returns how many chunks were stored.
func (p *Pipeline) Ingest(ctx context.Context, pages []chunk.Page, opts chunk.Options) (int, error) {
	if opts.Size <= 0 {
		opts.Size = p.opts.ChunkSize
	}
	if opts.Overlap <= 0 {
		opts.Overlap = p.opts.ChunkOverlap
	}
	if opts.Domain == "" {
		opts.Domain = p.opts.Domain
	}

	chunks, err := chunk.Split(pages, opts)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := p.EnsureReady(ctx); err != nil {
		return 0, err
	}

	for i := range chunks {
		vector, err := p.deps.Embedder.Embed(ctx, chunks[i].Text)
		if err != nil {
			return 0, fmt.Errorf("embedding chunk %d of %s: %w", i, opts.SourceName, err)
		}
		chunks[i].Embedding = vector
	}
	if err := p.deps.Index.Insert(ctx, chunks); err != nil {
		return 0, err
	}
	techdesk.LogInfo(ctx, "source ingested",
		"source", opts.SourceName, "pages", len(pages), "chunks", len(chunks))
	return len(chunks), nil
}

// Ask answers one user query, streaming text to emit as it is produced.
//
// Meta-intents (greetings, previous-question) short-circuit before
// retrieval. Otherwise the query runs through the retrieval degradation
// chain; an empty result becomes a fixed apology, anything else is answered
// by the generator and finalized by the assembler. Exactly one history
// record is saved per completed answer, after streaming finishes; a caller
// disconnect or cancellation skips persistence.
func (p *Pipeline) Ask(ctx context.Context, userID, query string, emit func(string) error) (*answer.Answer, error) {
	if techdesk.ReqID(ctx) == "" {
		ctx = techdesk.NewReqID(ctx)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", techdesk.ErrInvalidConfiguration)
	}

	if kind, ok := intent.Match(query); ok {
		return p.answerIntent(ctx, kind, userID, query, emit)
	}

	results := p.engine.Retrieve(ctx, query, p.opts.Domain)
	techdesk.LogInfo(ctx, "retrieval complete", "hits", len(results))

	if len(results) == 0 {
		if err := emit(NoKnowledgeReply); err != nil {
			return nil, err
		}
		final := &answer.Answer{
			Text:           NoKnowledgeReply,
			Classification: answer.ClassificationNonAnswer,
		}
		p.save(ctx, userID, query, final.Text, map[string]any{"retrieved": 0})
		return final, nil
	}

	recent, err := p.deps.History.Recent(ctx, userID, prompt.HistoryTurns)
	if err != nil {
		techdesk.LogWarn(ctx, "history read failed, answering without context", "error", err)
		recent = nil
	}
	promptText, err := prompt.Build(query, results, recent)
	if err != nil {
		return nil, err
	}

	final, err := p.assembler.Assemble(ctx, answer.Input{
		Query:   query,
		Results: results,
		Stream: func(onFragment func(string) error) error {
			return p.deps.Generator.Generate(ctx, promptText, onFragment)
		},
		Emit: emit,
	})
	if err != nil {
		// Disconnect or cancellation: the stream is abandoned and nothing
		// is persisted for a non-finalized answer.
		return nil, err
	}

	p.save(ctx, userID, query, final.Text, retrievalMeta(final, results))
	return final, nil
}

// Summarize produces a structured summary of source text, clipped to the
// model context and a fixed output length.
func (p *Pipeline) Summarize(ctx context.Context, text string) (string, error) {
	summary, err := p.deps.Generator.GenerateOnce(ctx, prompt.BuildSummary(text))
	if err != nil {
		return "", err
	}
	words := strings.Fields(summary)
	if len(words) > SummaryWordLimit {
		summary = strings.Join(words[:SummaryWordLimit], " ") + "..."
	}
	return summary, nil
}

// ClearHistory removes all stored exchanges for a user.
func (p *Pipeline) ClearHistory(ctx context.Context, userID string) (int, error) {
	return p.deps.History.Clear(ctx, userID)
}

// answerIntent handles an intercepted meta-intent: fixed response, no
// retrieval, history record tagged with the intent kind.
func (p *Pipeline) answerIntent(ctx context.Context, kind intent.Kind, userID, query string, emit func(string) error) (*answer.Answer, error) {
	reply, err := intent.Respond(ctx, kind, userID, p.deps.History)
	if err != nil {
		return nil, err
	}
	if err := emit(reply); err != nil {
		return nil, err
	}
	techdesk.LogInfo(ctx, "intent intercepted", "kind", string(kind))
	p.save(ctx, userID, query, reply, map[string]any{"intent": string(kind)})
	return &answer.Answer{
		Text:           reply,
		Classification: answer.ClassificationAnswer,
	}, nil
}

// save persists one exchange, best-effort: the answer has already been
// streamed, so persistence failures are logged and swallowed.
func (p *Pipeline) save(ctx context.Context, userID, query, text string, meta map[string]any) {
	err := p.deps.History.Save(ctx, history.Exchange{
		UserID: userID,
		Query:  query,
		Answer: text,
		Meta:   meta,
	})
	if err != nil {
		techdesk.WrapErr(ctx, err, "history save failed").
			Tag(slog.String("user_id", userID)).
			Log(ctx)
	}
}

// retrievalMeta summarizes what backed an answer for the history record.
func retrievalMeta(final *answer.Answer, results []index.QueryResult) map[string]any {
	sources := make([]string, 0, len(final.Citations))
	for _, c := range final.Citations {
		sources = append(sources, fmt.Sprintf("%s:%d", c.SourceName, c.PageNumber))
	}
	lexical := false
	for _, r := range results {
		if r.Lexical {
			lexical = true
			break
		}
	}
	return map[string]any{
		"retrieved":      len(results),
		"sources":        sources,
		"classification": string(final.Classification),
		"extractive":     final.Extractive,
		"lexical":        lexical,
	}
}
