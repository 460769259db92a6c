// Package search retrieves hotel recommendations from the document store and
// shapes heterogeneous hits into canonical hotel records.
package search

import (
	"context"

	"github.com/rs/zerolog/log"

	"hotel_assistant/internal/adapters/observability"
	"hotel_assistant/internal/domain"
)

// Hit is one ranked result from the store. Metadata is the structured part,
// Content the text payload (empty on the raw full-text path, where the whole
// source document lands in Metadata).
type Hit struct {
	Metadata map[string]any
	Content  string
}

// StoreHealth is the store's status probe result.
type StoreHealth struct {
	Status   string
	DocCount int64
}

// DocumentStore is the narrow surface the gateway needs from the index.
type DocumentStore interface {
	Health(ctx context.Context) (StoreHealth, error)
	// SimilaritySearch runs the primary vector path.
	SimilaritySearch(ctx context.Context, query string, k int) ([]Hit, error)
	// TextSearch runs a multi-field best-fields query; fields may carry
	// boosts ("title^2").
	TextSearch(ctx context.Context, query string, fields []string, k int) ([]Hit, error)
}

// Outcome distinguishes no-matches from a degraded store. Callers that only
// want the reference behavior collapse both to an empty slice via Search.
type Outcome string

const (
	OutcomeHits     Outcome = "hits"
	OutcomeEmpty    Outcome = "empty"
	OutcomeDegraded Outcome = "degraded"
)

type Result struct {
	Outcome Outcome
	Hotels  []domain.Hotel
}

// fallbackFields are the weighted fields of the direct full-text path.
var fallbackFields = []string{"name", "title^2", "short_description", "embedding_text"}

type Gateway struct {
	store DocumentStore
}

func NewGateway(store DocumentStore) *Gateway {
	return &Gateway{store: store}
}

// Health exposes the store probe for the service's health endpoint.
func (g *Gateway) Health(ctx context.Context) (StoreHealth, error) {
	return g.store.Health(ctx)
}

// Search implements domain.HotelSearcher: every store fault reads as zero
// matches.
func (g *Gateway) Search(ctx context.Context, query string, topK int) []domain.Hotel {
	return g.Query(ctx, query, topK).Hotels
}

// Query runs the probe, the primary similarity path, and, when the primary
// path errors or returns a malformed first hit, the full-text fallback.
// Store-returned ordering is preserved; nothing is re-ranked locally.
func (g *Gateway) Query(ctx context.Context, query string, topK int) Result {
	health, err := g.store.Health(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("document store unreachable")
		observability.ObserveSearch(string(OutcomeDegraded))
		return Result{Outcome: OutcomeDegraded}
	}
	if health.DocCount == 0 {
		observability.ObserveSearch(string(OutcomeEmpty))
		return Result{Outcome: OutcomeEmpty}
	}

	fallback := false
	hits, err := g.store.SimilaritySearch(ctx, query, topK)
	if err != nil || malformedFirstHit(hits) {
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("similarity search failed, trying full-text fallback")
		} else {
			log.Warn().Str("query", query).Msg("similarity hit shape unusable, trying full-text fallback")
		}
		hits, err = g.store.TextSearch(ctx, query, fallbackFields, topK)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("full-text fallback failed")
			observability.ObserveSearch(string(OutcomeDegraded))
			return Result{Outcome: OutcomeDegraded}
		}
		fallback = true
	}

	if len(hits) == 0 {
		observability.ObserveSearch(string(OutcomeEmpty))
		return Result{Outcome: OutcomeEmpty}
	}

	hotels := make([]domain.Hotel, 0, len(hits))
	for _, h := range hits {
		hotels = append(hotels, normalizeHit(h, fallback))
	}
	observability.ObserveSearch(string(OutcomeHits))
	return Result{Outcome: OutcomeHits, Hotels: hotels}
}

// malformedFirstHit flags documents of an incompatible shape: the primary
// path yields neither structured metadata nor text for its top result.
func malformedFirstHit(hits []Hit) bool {
	return len(hits) > 0 && len(hits[0].Metadata) == 0 && hits[0].Content == ""
}
