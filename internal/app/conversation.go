// Package app hosts the conversation service: per-session dialogue state,
// readiness policy, and reply composition.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_assistant/internal/domain"
	"hotel_assistant/internal/extract"
)

// Missing-info keys, reported in this fixed order.
const (
	FieldLocation     = "location"
	FieldCheckInDate  = "check_in_date"
	FieldCheckOutDate = "check_out_date"
	FieldGuests       = "guests"
)

const descriptionLimit = 200

type ConversationService struct {
	sessions  domain.SessionStore
	searcher  domain.HotelSearcher
	extractor *extract.Extractor
	topK      int
	now       func() time.Time
}

func NewConversationService(sessions domain.SessionStore, searcher domain.HotelSearcher, topK int) *ConversationService {
	if topK <= 0 {
		topK = 3
	}
	return &ConversationService{
		sessions:  sessions,
		searcher:  searcher,
		extractor: extract.New(),
		topK:      topK,
		now:       time.Now,
	}
}

// NewSessionID mints an id for a fresh conversation. State is created lazily
// on the first message, so nothing is stored here.
func (s *ConversationService) NewSessionID() string {
	return uuid.NewString()
}

// History returns the full conversation state for a session.
func (s *ConversationService) History(ctx context.Context, sessionID string) (domain.Conversation, error) {
	return s.sessions.Get(ctx, sessionID)
}

// Clear removes a session's state entirely.
func (s *ConversationService) Clear(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// ProcessMessage runs one conversation turn: extract preferences, decide
// whether to search or clarify, and persist the updated transcript.
func (s *ConversationService) ProcessMessage(ctx context.Context, sessionID, message string) (domain.ChatReply, error) {
	conv, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return domain.ChatReply{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	conv.Messages = append(conv.Messages, domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   message,
		Timestamp: s.now(),
	})

	prefs := s.extractor.Extract(message, conv.Preferences)
	conv.Preferences = prefs

	missing := missingInfo(prefs)
	ready := shouldSearch(prefs, missing)
	conv.MissingInfo = missing
	conv.ReadyToSearch = ready

	var replyText string
	var suggested []domain.Hotel

	if ready {
		query := buildSearchQuery(prefs)
		conv.LastQuery = query
		hotels := s.searcher.Search(ctx, query, s.topK)
		if len(hotels) > 0 {
			replyText = composeResults(prefs.Location, hotels)
			suggested = hotels
		} else {
			replyText = fmt.Sprintf("I couldn't find any hotels matching your criteria in %s. Could you try a different location or adjust your requirements?", prefs.Location)
		}
		log.Info().Str("session", sessionID).Str("query", query).Int("results", len(hotels)).Msg("search turn")
	} else {
		replyText = clarifyingQuestion(missing, prefs)
	}

	conv.Messages = append(conv.Messages, domain.ChatMessage{
		Role:      domain.RoleAssistant,
		Content:   replyText,
		Timestamp: s.now(),
	})

	if err := s.sessions.Save(ctx, conv); err != nil {
		return domain.ChatReply{}, fmt.Errorf("save session %s: %w", sessionID, err)
	}

	return domain.ChatReply{
		SessionID:       sessionID,
		Message:         replyText,
		Preferences:     prefs,
		MissingInfo:     missing,
		ReadyToSearch:   ready,
		SuggestedHotels: suggested,
	}, nil
}

// missingInfo lists absent fields: the required location first, then each
// tracked optional field in fixed order.
func missingInfo(p domain.Preferences) []string {
	missing := []string{}
	if p.Location == "" {
		missing = append(missing, FieldLocation)
	}
	if p.CheckInDate == "" {
		missing = append(missing, FieldCheckInDate)
	}
	if p.CheckOutDate == "" {
		missing = append(missing, FieldCheckOutDate)
	}
	if p.Guests == 0 {
		missing = append(missing, FieldGuests)
	}
	return missing
}

// shouldSearch tolerates up to two unanswered optional questions once the
// location is known.
func shouldSearch(p domain.Preferences, missing []string) bool {
	return p.Location != "" && len(missing) <= 2
}

// clarifyingQuestion picks the first matching rule: location, then the joint
// dates-and-guests ask, then dates, then guest count.
func clarifyingQuestion(missing []string, p domain.Preferences) string {
	if contains(missing, FieldLocation) {
		return "I'd be happy to help you find hotels! Could you tell me which city or area you're looking to stay in?"
	}

	optional := make([]string, 0, len(missing))
	for _, f := range missing {
		if f != FieldLocation {
			optional = append(optional, f)
		}
	}

	switch {
	case len(optional) >= 3:
		return fmt.Sprintf("Great! I can help you find hotels in %s. To give you the best recommendations, could you share your travel dates and how many guests will be staying?", p.Location)
	case contains(optional, FieldCheckInDate) && contains(optional, FieldCheckOutDate):
		return fmt.Sprintf("Perfect! I'll help you find hotels in %s. What are your check-in and check-out dates?", p.Location)
	case contains(optional, FieldGuests):
		return fmt.Sprintf("Excellent! For hotels in %s, how many guests will be staying?", p.Location)
	default:
		return fmt.Sprintf("Thanks for the details! Let me search for hotels in %s that match your preferences.", p.Location)
	}
}

// buildSearchQuery concatenates only the present fields, in fixed order.
func buildSearchQuery(p domain.Preferences) string {
	var parts []string
	if p.Location != "" {
		parts = append(parts, "hotel in "+p.Location)
	}
	if p.HotelType != "" {
		parts = append(parts, p.HotelType)
	}
	if len(p.PreferredAmenities) > 0 {
		parts = append(parts, "with "+strings.Join(p.PreferredAmenities, ", "))
	}
	if p.BudgetRange != "" {
		parts = append(parts, "budget "+p.BudgetRange)
	}
	if p.Guests > 0 {
		parts = append(parts, fmt.Sprintf("for %d guests", p.Guests))
	}
	return strings.Join(parts, " ")
}

// composeResults renders the numbered recommendation list.
func composeResults(location string, hotels []domain.Hotel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Great! I found some excellent hotels in %s for you:\n\n", location)
	for i, h := range hotels {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, h.Title)
		if h.Description != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(h.Description, descriptionLimit))
		}
		if len(h.Highlights) > 0 {
			highlights := h.Highlights
			if len(highlights) > 3 {
				highlights = highlights[:3]
			}
			fmt.Fprintf(&b, "   • Highlights: %s\n", strings.Join(highlights, ", "))
		}
		fmt.Fprintf(&b, "   • Location: %.4f, %.4f\n\n", h.Location.Lat, h.Location.Lon)
	}
	b.WriteString("Would you like more details about any of these hotels, or would you like me to search with different criteria?")
	return b.String()
}

// truncate limits by characters, not bytes, so multi-byte descriptions are
// never cut mid-rune.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
