package domain

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore owns conversation state keyed by session id. Implementations
// must not let callers mutate stored state through returned values.
type SessionStore interface {
	// GetOrCreate returns the stored conversation, or a fresh empty one for
	// an unknown id. The fresh one is not persisted until Save.
	GetOrCreate(ctx context.Context, sessionID string) (Conversation, error)
	// Get fails with ErrSessionNotFound for unknown ids.
	Get(ctx context.Context, sessionID string) (Conversation, error)
	Save(ctx context.Context, conv Conversation) error
	// Delete fails with ErrSessionNotFound for unknown ids.
	Delete(ctx context.Context, sessionID string) error
}

// HotelSearcher is the retrieval capability the conversation layer needs.
// Implementations never fail: a degraded store reads as zero matches.
type HotelSearcher interface {
	Search(ctx context.Context, query string, topK int) []Hotel
}

// Embedder maps text to a vector. The conversation core never calls it; the
// store adapter and the ingestor do.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
