// Package elastic talks to the Elasticsearch index holding hotel documents.
//
// Documents indexed on the primary path carry {"text", "vector", "metadata"};
// the raw full-text path searches whole source documents. A failed call is
// returned as-is and not retried: the gateway treats any fault as zero
// matches within the turn.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_assistant/internal/adapters/observability"
	"hotel_assistant/internal/domain"
	"hotel_assistant/internal/search"
)

type Client struct {
	base  string
	index string
	user  string
	pass  string
	hc    *http.Client
	embed domain.Embedder
	rl    *rate.Limiter
}

func New(base, index, user, pass string, embed domain.Embedder, rps int, timeout time.Duration) (*Client, error) {
	if base == "" || index == "" {
		return nil, fmt.Errorf("store url and index are required")
	}
	if rps <= 0 {
		rps = 10
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		index: index,
		user:  user,
		pass:  pass,
		hc:    &http.Client{Timeout: timeout},
		embed: embed,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- gateway surface ----

// Health probes the cluster and the per-index document count.
func (c *Client) Health(ctx context.Context) (search.StoreHealth, error) {
	var cluster struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, c.base+"/_cluster/health", nil, &cluster); err != nil {
		return search.StoreHealth{}, fmt.Errorf("cluster health: %w", err)
	}

	var count struct {
		Count int64 `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, c.base+"/"+c.index+"/_count", nil, &count); err != nil {
		return search.StoreHealth{}, fmt.Errorf("index count: %w", err)
	}

	return search.StoreHealth{Status: cluster.Status, DocCount: count.Count}, nil
}

// SimilaritySearch embeds the query and runs the kNN path against the index.
func (c *Client) SimilaritySearch(ctx context.Context, query string, k int) ([]search.Hit, error) {
	vector, err := c.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	body := map[string]any{
		"knn": map[string]any{
			"field":          "vector",
			"query_vector":   vector,
			"k":              k,
			"num_candidates": k * 10,
		},
		"size": k,
	}

	sources, err := c.searchSources(ctx, body)
	if err != nil {
		return nil, err
	}

	hits := make([]search.Hit, 0, len(sources))
	for _, src := range sources {
		hit := search.Hit{}
		if meta, ok := src["metadata"].(map[string]any); ok {
			hit.Metadata = meta
		}
		if text, ok := src["text"].(string); ok {
			hit.Content = text
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// TextSearch runs a best-fields multi_match over the given (optionally
// boosted) fields and returns whole source documents as hit metadata.
func (c *Client) TextSearch(ctx context.Context, query string, fields []string, k int) ([]search.Hit, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": fields,
				"type":   "best_fields",
			},
		},
		"size": k,
	}

	sources, err := c.searchSources(ctx, body)
	if err != nil {
		return nil, err
	}

	hits := make([]search.Hit, 0, len(sources))
	for _, src := range sources {
		hits = append(hits, search.Hit{Metadata: src})
	}
	return hits, nil
}

// ---- ingestion surface ----

// EnsureIndex creates the index with the text/vector/metadata mapping when it
// does not exist yet.
func (c *Client) EnsureIndex(ctx context.Context, dims int) error {
	err := c.do(ctx, http.MethodHead, c.base+"/"+c.index, nil, nil)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("check index: %w", err)
	}

	mapping := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"text": map[string]any{"type": "text"},
				"vector": map[string]any{
					"type":       "dense_vector",
					"dims":       dims,
					"index":      true,
					"similarity": "cosine",
				},
				"metadata": map[string]any{"type": "object"},
			},
		},
	}
	if err := c.do(ctx, http.MethodPut, c.base+"/"+c.index, mapping, nil); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// IndexDocument writes one document under the given id.
func (c *Client) IndexDocument(ctx context.Context, id string, doc map[string]any) error {
	return c.do(ctx, http.MethodPut, c.base+"/"+c.index+"/_doc/"+id, doc, nil)
}

// Refresh makes indexed documents searchable immediately.
func (c *Client) Refresh(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, c.base+"/"+c.index+"/_refresh", nil, nil)
}

// ---- internals ----

type notFoundError struct{ url string }

func (e *notFoundError) Error() string { return "not found: " + e.url }

func isNotFound(err error) bool {
	_, ok := err.(*notFoundError)
	return ok
}

func (c *Client) searchSources(ctx context.Context, body map[string]any) ([]map[string]any, error) {
	var resp struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := c.do(ctx, http.MethodPost, c.base+"/"+c.index+"/_search", body, &resp); err != nil {
		return nil, err
	}
	sources := make([]map[string]any, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		sources = append(sources, h.Source)
	}
	return sources, nil
}

// do performs one request with client-side rate limiting and JSON codec.
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("elasticsearch", endpointLabel(url), 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("elasticsearch", endpointLabel(url), resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return &notFoundError{url: url}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("elasticsearch %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// endpointLabel keeps the metrics label space small: the first API path
// segment ("_search", "_count", ...), never a document id.
func endpointLabel(url string) string {
	for _, seg := range strings.Split(url, "/") {
		if strings.HasPrefix(seg, "_") {
			return seg
		}
	}
	return "index"
}
