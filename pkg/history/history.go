// Package history stores past question/answer exchanges per user.
//
// The pipeline saves exactly one exchange per answered query, after
// streaming completes, and reads recent exchanges to give the generator
// conversational context and to answer "what was my previous question"
// meta-intents.
package history

import (
	"context"
	"time"
)

// Exchange is one persisted question/answer pair.
type Exchange struct {
	UserID    string         `json:"user_id"`
	Query     string         `json:"query"`
	Answer    string         `json:"answer"`
	Meta      map[string]any `json:"meta,omitempty"` // retrieval metadata or intent tag
	CreatedAt time.Time      `json:"created_at"`
}

// Store persists exchanges. Implementations must be safe for concurrent use.
type Store interface {
	// Recent returns up to limit most recent exchanges for userID,
	// oldest first.
	Recent(ctx context.Context, userID string, limit int) ([]Exchange, error)

	// Save appends one exchange. CreatedAt is set by the store when zero.
	Save(ctx context.Context, exchange Exchange) error

	// Clear removes all exchanges for userID and reports how many were
	// removed.
	Clear(ctx context.Context, userID string) (int, error)
}
