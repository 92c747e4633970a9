// Package intent short-circuits meta-queries before retrieval runs.
//
// Two fixed intents are recognized: asking for the previous question and
// bare greetings. Matching is exact full-string matching against the
// normalized query: "hello" embedded in a longer sentence is not a
// greeting.
package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/techdesk-ai/go-techdesk/pkg/history"
	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// Kind identifies an intercepted meta-intent.
type Kind string

// Recognized intent kinds, also used as the history metadata tag.
const (
	KindPreviousQuestion Kind = "meta_previous_question"
	KindGreeting         Kind = "meta_greeting"
)

// Fixed response texts.
const (
	// GreetingReply is the fixed assistant introduction for bare greetings.
	GreetingReply = "Hello! I'm your tech support assistant. How can I help you with any software or hardware issues today?"

	// NothingAskedReply answers a previous-question intent when no prior
	// exchange exists.
	NothingAskedReply = "You haven't asked me anything yet in this conversation."
)

// previousQuestionPatterns are the exact normalized queries that ask for the
// most recent prior question.
var previousQuestionPatterns = map[string]struct{}{
	"what was my previous question":  {},
	"what was my last question":      {},
	"what did i ask before":          {},
	"what did i just ask":            {},
	"what was my previous question?": {},
	"what was my last question?":     {},
}

// greetingPatterns are the exact normalized queries treated as bare
// greetings.
var greetingPatterns = map[string]struct{}{
	"hi":          {},
	"hello":       {},
	"hey":         {},
	"hi there":    {},
	"hello there": {},
	"hey there":   {},
}

// Match reports whether the raw query is a meta-intent.
//
// The query is case-folded and trimmed before matching; the full normalized
// string must equal a known pattern.
func Match(query string) (Kind, bool) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if _, ok := previousQuestionPatterns[normalized]; ok {
		return KindPreviousQuestion, true
	}
	if _, ok := greetingPatterns[normalized]; ok {
		return KindGreeting, true
	}
	return "", false
}

// Respond resolves the fixed response for an intercepted intent.
//
// Previous-question intents read the single most recent prior exchange from
// the history store and quote its question verbatim.
func Respond(ctx context.Context, kind Kind, userID string, store history.Store) (string, error) {
	switch kind {
	case KindGreeting:
		return GreetingReply, nil
	case KindPreviousQuestion:
		recent, err := store.Recent(ctx, userID, 1)
		if err != nil {
			return "", fmt.Errorf("failed to read history: %w", err)
		}
		if len(recent) == 0 {
			return NothingAskedReply, nil
		}
		return fmt.Sprintf("Your previous question was: %q", recent[len(recent)-1].Query), nil
	default:
		return "", techdesk.NewErr(ctx, fmt.Sprintf("unknown intent kind %q", kind))
	}
}
