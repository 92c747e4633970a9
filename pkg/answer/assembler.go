// Package answer consumes a streamed generation and turns it into the final
// displayed answer: relayed fragments plus either a citation block or an
// extractive fallback built from the retrieved chunks.
//
// Fragments are relayed to the caller the moment they arrive; nothing is
// buffered ahead of the first byte. Classification and the citation or
// fallback decision happen exactly once, after the stream ends.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// RephraseGuidance is the fixed message emitted when a non-answer has no
// extractable fallback sentences. Citations are suppressed with it.
const RephraseGuidance = "I couldn't find a confident answer for that. Could you rephrase your question with more specifics, such as the product name, the exact error message, or what you were doing when the problem occurred?"

// Assembler finalizes streamed generations.
type Assembler struct {
	// MaxFallbackSentences caps the extractive fallback body. Defaults to
	// DefaultMaxFallbackSentences.
	MaxFallbackSentences int
}

// Input carries everything one assembly needs.
type Input struct {
	// Query is the original user question, used for fallback scoring and
	// greeting classification.
	Query string

	// QueryWasGreeting marks queries the intent layer recognized as
	// greetings; a greeting reply is then a legitimate answer.
	QueryWasGreeting bool

	// Results are the ranked retrieval hits backing this answer.
	Results []index.QueryResult

	// Stream drives the generation, invoking the callback once per text
	// fragment in production order.
	Stream func(onFragment func(string) error) error

	// Emit relays text to the caller. An Emit error means the caller is
	// gone; assembly stops and the pipeline skips persistence.
	Emit func(string) error
}

// Answer is the finalized result of one assembly.
type Answer struct {
	// Text is the full final answer for persistence. For extractive
	// fallbacks it is the replacement body, not the discarded generation.
	Text string

	Classification Classification
	Citations      []Citation

	// Extractive marks answers built from retrieved sentences instead of
	// the generation.
	Extractive bool
}

// errDisconnected wraps an Emit failure so the pipeline can tell a caller
// disconnect from a generation failure.
type errDisconnected struct{ cause error }

func (e *errDisconnected) Error() string { return fmt.Sprintf("caller disconnected: %v", e.cause) }
func (e *errDisconnected) Unwrap() error { return e.cause }

// IsDisconnected reports whether err came from the caller going away
// mid-stream. No persistence should happen for such answers.
func IsDisconnected(err error) bool {
	var d *errDisconnected
	return errors.As(err, &d)
}

// Assemble relays the generation stream and finalizes the answer.
//
// Every fragment is passed to in.Emit as it arrives while being folded into
// the accumulator. After the stream ends the accumulated text is classified;
// answers get a deduplicated Sources block appended to both the returned
// text and the emitted stream, non-answers trigger the extractive fallback.
//
// Generation failures mid-stream are swallowed: the stream still terminates
// with readable text (fallback or guidance), never a raw error. Context
// cancellation and Emit failures abort assembly with an error.
func (a *Assembler) Assemble(ctx context.Context, in Input) (*Answer, error) {
	var acc strings.Builder

	streamErr := in.Stream(func(fragment string) error {
		if err := in.Emit(fragment); err != nil {
			return &errDisconnected{cause: err}
		}
		acc.WriteString(fragment)
		return nil
	})
	if streamErr != nil {
		if IsDisconnected(streamErr) {
			return nil, streamErr
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Generation died; classify whatever was already relayed and let
		// the fallback produce a readable ending.
		techdesk.LogWarn(ctx, "generation stream failed, finalizing with fallback", "error", streamErr)
	}

	generated := strings.TrimSpace(acc.String())
	classification := classify(acc.String(), in.QueryWasGreeting)

	if classification == ClassificationAnswer {
		citations := Citations(in.Results)
		text := generated
		if block := renderCitations(citations); block != "" {
			text += "\n\n" + block
			if err := in.Emit("\n\n" + block); err != nil {
				return nil, &errDisconnected{cause: err}
			}
		}
		return &Answer{
			Text:           text,
			Classification: classification,
			Citations:      citations,
		}, nil
	}

	// Non-answer: try to extract a grounded fallback from the retrieved
	// chunks before giving up.
	body := extractSentences(in.Query, in.Results, a.MaxFallbackSentences)
	if body != "" {
		citations := Citations(in.Results)
		text := body
		if block := renderCitations(citations); block != "" {
			text += "\n\n" + block
		}
		if err := a.emitTail(in, generated, text); err != nil {
			return nil, err
		}
		return &Answer{
			Text:           text,
			Classification: ClassificationNonAnswer,
			Citations:      citations,
			Extractive:     true,
		}, nil
	}

	if err := a.emitTail(in, generated, RephraseGuidance); err != nil {
		return nil, err
	}
	return &Answer{
		Text:           RephraseGuidance,
		Classification: ClassificationNonAnswer,
	}, nil
}

// emitTail streams the fallback or guidance text, separated from any
// already-relayed generation fragments.
func (a *Assembler) emitTail(in Input, generated, tail string) error {
	if generated != "" {
		tail = "\n\n" + tail
	}
	if err := in.Emit(tail); err != nil {
		return &errDisconnected{cause: err}
	}
	return nil
}
