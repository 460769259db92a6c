package redisad

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"hotel_assistant/internal/domain"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewFromClient(client, ttl), mr
}

func TestRoundTrip(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	conv := domain.Conversation{
		SessionID: "s1",
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "hotel in Paris"},
			{Role: domain.RoleAssistant, Content: "Which dates?"},
		},
		Preferences:   domain.Preferences{Location: "Paris", Guests: 2, PreferredAmenities: []string{"pool"}},
		MissingInfo:   []string{"check_in_date", "check_out_date"},
		ReadyToSearch: true,
		LastQuery:     "hotel in Paris for 2 guests",
	}
	if err := s.Save(ctx, conv); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Preferences.Location != "Paris" || got.Preferences.Guests != 2 {
		t.Errorf("preferences = %+v", got.Preferences)
	}
	if len(got.Messages) != 2 || got.Messages[1].Role != domain.RoleAssistant {
		t.Errorf("messages = %+v", got.Messages)
	}
	if !got.ReadyToSearch || got.LastQuery != "hotel in Paris for 2 guests" {
		t.Errorf("got = %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	if _, err := s.Get(context.Background(), "ghost"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("get: %v, want ErrSessionNotFound", err)
	}
}

func TestGetOrCreate(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	conv, err := s.GetOrCreate(ctx, "fresh")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if conv.SessionID != "fresh" || len(conv.Messages) != 0 {
		t.Errorf("conv = %+v", conv)
	}

	conv.Messages = append(conv.Messages, domain.ChatMessage{Role: domain.RoleUser, Content: "hi"})
	if err := s.Save(ctx, conv); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, err := s.GetOrCreate(ctx, "fresh")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if len(again.Messages) != 1 {
		t.Errorf("messages = %+v", again.Messages)
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Save(ctx, domain.Conversation{SessionID: "s1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("second delete: %v, want ErrSessionNotFound", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	s, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := s.Save(ctx, domain.Conversation{SessionID: "s1"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := s.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("get after ttl: %v, want ErrSessionNotFound", err)
	}
}
