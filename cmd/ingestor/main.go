package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_assistant/internal/adapters/elastic"
	"hotel_assistant/internal/adapters/observability"
	"hotel_assistant/internal/adapters/openai"
	"hotel_assistant/internal/shared"
)

// The ingestor reads a JSON array of raw hotel documents, embeds each one,
// and writes it into the similarity index in the shape the primary search
// path expects: {"text", "vector", "metadata"}.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.HotelsFile).
		Str("index", cfg.ESIndex).
		Int("workers", cfg.IngestWorkers).
		Msg("ingestor starting")

	raw, err := os.ReadFile(cfg.HotelsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read hotels file failed")
	}
	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Fatal().Err(err).Msg("parse hotels file failed")
	}

	embedder, err := openai.New(cfg.OpenAIBase, cfg.OpenAIKey, cfg.EmbedModel, cfg.EmbedTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("embedding client init failed")
	}
	store, err := elastic.New(cfg.ESURL, cfg.ESIndex, cfg.ESUser, cfg.ESPass, embedder, cfg.ESRPS, cfg.ESTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("store client init failed")
	}

	if err := store.EnsureIndex(ctx, cfg.EmbedDims); err != nil {
		log.Fatal().Err(err).Msg("ensure index failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.IngestWorkers))
	var wg sync.WaitGroup

	for i, doc := range docs {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(seq int, doc map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			id, text := describe(seq, doc)
			vec, err := embedder.Embed(ctx, text)
			if err != nil {
				log.Warn().Str("id", id).Err(err).Msg("embed failed")
				return
			}
			payload := map[string]any{"text": text, "vector": vec, "metadata": doc}
			if err := store.IndexDocument(ctx, id, payload); err != nil {
				log.Warn().Str("id", id).Err(err).Msg("index failed")
				return
			}
			log.Info().Str("id", id).Msg("indexed")
		}(i, doc)
	}

	wg.Wait()

	if err := store.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("refresh failed")
	}
	log.Info().Int("documents", len(docs)).Msg("ingestion completed")
}

// describe derives the document id and the text to embed. Records may carry
// an explicit embedding_text; otherwise the text is composed from the basics.
func describe(seq int, doc map[string]any) (id, text string) {
	id = fmt.Sprintf("hotel-%d", seq)
	basics, _ := doc["basics"].(map[string]any)
	if basics != nil {
		if s, ok := basics["id"].(string); ok && s != "" {
			id = s
		}
	}

	if s, ok := doc["embedding_text"].(string); ok && s != "" {
		return id, s
	}

	var parts []string
	if basics != nil {
		for _, k := range []string{"title", "name", "short_description"} {
			if s, ok := basics[k].(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		if s, ok := basics["highlights"].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return id, strings.Join(parts, ". ")
}
