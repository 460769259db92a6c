// Package memory keeps conversation state in process memory. Nothing
// survives a restart; that is the documented baseline behavior.
package memory

import (
	"context"
	"sync"

	"hotel_assistant/internal/adapters/observability"
	"hotel_assistant/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]domain.Conversation
}

func New() *Store {
	return &Store{sessions: make(map[string]domain.Conversation)}
}

func (s *Store) GetOrCreate(_ context.Context, sessionID string) (domain.Conversation, error) {
	s.mu.RLock()
	conv, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		observability.ObserveSession("memory", "hit")
		return conv.Clone(), nil
	}
	observability.ObserveSession("memory", "miss")
	return domain.Conversation{SessionID: sessionID}, nil
}

func (s *Store) Get(_ context.Context, sessionID string) (domain.Conversation, error) {
	s.mu.RLock()
	conv, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		observability.ObserveSession("memory", "miss")
		return domain.Conversation{}, domain.ErrSessionNotFound
	}
	observability.ObserveSession("memory", "hit")
	return conv.Clone(), nil
}

func (s *Store) Save(_ context.Context, conv domain.Conversation) error {
	s.mu.Lock()
	s.sessions[conv.SessionID] = conv.Clone()
	s.mu.Unlock()
	observability.ObserveSession("memory", "save")
	return nil
}

func (s *Store) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	observability.ObserveSession("memory", "delete")
	return nil
}
