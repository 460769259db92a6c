// Package redisad backs the session store with redis, for deployments that
// need conversation state to outlive a process.
package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"hotel_assistant/internal/adapters/observability"
	"hotel_assistant/internal/domain"
)

const keyPrefix = "session:"

type Store struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *Store {
	return &Store{
		c:   redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl: ttl,
	}
}

// NewFromClient is for tests that bring their own client (miniredis).
func NewFromClient(c *redis.Client, ttl time.Duration) *Store {
	return &Store{c: c, ttl: ttl}
}

func (s *Store) GetOrCreate(ctx context.Context, sessionID string) (domain.Conversation, error) {
	conv, err := s.Get(ctx, sessionID)
	if err == domain.ErrSessionNotFound {
		return domain.Conversation{SessionID: sessionID}, nil
	}
	return conv, err
}

func (s *Store) Get(ctx context.Context, sessionID string) (domain.Conversation, error) {
	b, err := s.c.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		observability.ObserveSession("redis", "miss")
		return domain.Conversation{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	var conv domain.Conversation
	if err := json.Unmarshal(b, &conv); err != nil {
		return domain.Conversation{}, err
	}
	observability.ObserveSession("redis", "hit")
	return conv, nil
}

func (s *Store) Save(ctx context.Context, conv domain.Conversation) error {
	b, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	observability.ObserveSession("redis", "save")
	return s.c.Set(ctx, keyPrefix+conv.SessionID, b, s.ttl).Err()
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	n, err := s.c.Del(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	observability.ObserveSession("redis", "delete")
	return nil
}
