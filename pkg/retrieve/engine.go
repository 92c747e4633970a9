// Package retrieve ranks stored chunks against a query through a degrading
// chain of search strategies: domain-filtered dense search, unfiltered dense
// search, then a deterministic lexical fallback.
//
// Every tier failure is treated as "this tier found nothing" so one
// unreachable collaborator never fails the whole answer pipeline. An empty
// final result is a legitimate "no knowledge" outcome, not an error.
package retrieve

import (
	"context"
	"log/slog"

	"github.com/techdesk-ai/go-techdesk/pkg/embed"
	"github.com/techdesk-ai/go-techdesk/pkg/index"
	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// Defaults for engine options.
const (
	DefaultTopK           = 3
	DefaultScoreThreshold = 0.35

	// lexicalScanLimit caps how many chunks the lexical tier pulls from the
	// index for scanning.
	lexicalScanLimit = 2000
)

// Options configures retrieval behavior.
type Options struct {
	// TopK is the maximum number of results per query. Defaults to
	// DefaultTopK.
	TopK int

	// ScoreThreshold drops dense hits scoring below it. Defaults to
	// DefaultScoreThreshold.
	ScoreThreshold float64

	// RequireDomain disables the unfiltered dense tier, keeping results
	// strictly inside the requested domain. The lexical tier then scans the
	// domain subset only.
	RequireDomain bool
}

// Engine embeds queries and executes the degradation chain against an index
// manager.
type Engine struct {
	embedder embed.Provider
	manager  index.Manager
	opts     Options
}

// NewEngine creates a retrieval engine.
//
// Example:
//
//	engine := retrieve.NewEngine(provider, manager, retrieve.Options{TopK: 3})
func NewEngine(embedder embed.Provider, manager index.Manager, opts Options) *Engine {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.ScoreThreshold <= 0 {
		opts.ScoreThreshold = DefaultScoreThreshold
	}
	return &Engine{
		embedder: embedder,
		manager:  manager,
		opts:     opts,
	}
}

// Retrieve returns ranked, thresholded results for the query.
//
// The chain stops at the first tier that yields at least one result:
//
//  1. dense search restricted to domain (when non-empty), keeping hits with
//     score >= ScoreThreshold
//  2. dense search without the domain constraint, same threshold, only when
//     tier 1 actually had a domain filter and RequireDomain is off
//  3. lexical keyword fallback over stored chunk text and source names
//
// An empty slice with a nil error means the corpus holds no answer; callers
// turn that into a fixed apology message.
func (e *Engine) Retrieve(ctx context.Context, query, domain string) []index.QueryResult {
	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		// Dense tiers cannot run without a query vector; degrade straight
		// to the lexical tier.
		techdesk.WrapErr(ctx, err, "query embedding failed, skipping dense tiers").LogWarn(ctx)
		return e.lexicalTier(ctx, query, domain)
	}

	if results := e.denseTier(ctx, vector, domain); len(results) > 0 {
		return results
	}
	if domain != "" && !e.opts.RequireDomain {
		if results := e.denseTier(ctx, vector, ""); len(results) > 0 {
			techdesk.LogDebug(ctx, "domain filter relaxed", "domain", domain)
			return results
		}
	}
	return e.lexicalTier(ctx, query, domain)
}

// denseTier runs one nearest-neighbor search and applies the score
// threshold. Failures count as an empty tier.
func (e *Engine) denseTier(ctx context.Context, vector []float32, domain string) []index.QueryResult {
	hits, err := e.manager.Search(ctx, vector, e.opts.TopK, domain)
	if err != nil {
		techdesk.WrapErr(ctx, err, "dense search failed, degrading").
			Tag(slog.String("domain", domain)).
			LogWarn(ctx)
		return nil
	}
	results := hits[:0:0]
	for _, hit := range hits {
		if hit.Score >= e.opts.ScoreThreshold {
			results = append(results, hit)
		}
	}
	return results
}

// lexicalTier scans stored chunks for keyword overlap with the query.
func (e *Engine) lexicalTier(ctx context.Context, query, domain string) []index.QueryResult {
	scanDomain := domain
	if !e.opts.RequireDomain {
		scanDomain = ""
	}
	candidates, err := e.manager.List(ctx, scanDomain, lexicalScanLimit)
	if err != nil {
		techdesk.WrapErr(ctx, err, "lexical scan failed").
			Tag(slog.String("domain", scanDomain)).
			LogWarn(ctx)
		return nil
	}
	results := rankLexical(query, candidates, e.opts.TopK)
	if len(results) > 0 {
		techdesk.LogDebug(ctx, "lexical fallback matched", "hits", len(results))
	}
	return results
}
