package domain

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// Preferences accumulates everything the user has told us across turns.
// Mutated only by the extractor; cleared only when the session is deleted.
type Preferences struct {
	Location            string   `json:"location,omitempty"`
	CheckInDate         string   `json:"check_in_date,omitempty"`
	CheckOutDate        string   `json:"check_out_date,omitempty"`
	Guests              int      `json:"guests,omitempty"`
	BudgetRange         string   `json:"budget_range,omitempty"`
	PreferredAmenities  []string `json:"preferred_amenities"`
	HotelType           string   `json:"hotel_type,omitempty"`
	SpecialRequirements []string `json:"special_requirements"`
}

// HasAmenity reports whether the canonical tag is already recorded.
func (p Preferences) HasAmenity(tag string) bool {
	for _, a := range p.PreferredAmenities {
		if a == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slice storage with the receiver, so a
// turn's extraction cannot mutate the previously stored snapshot.
func (p Preferences) Clone() Preferences {
	out := p
	if len(p.PreferredAmenities) > 0 {
		out.PreferredAmenities = append([]string(nil), p.PreferredAmenities...)
	}
	if len(p.SpecialRequirements) > 0 {
		out.SpecialRequirements = append([]string(nil), p.SpecialRequirements...)
	}
	return out
}

// Conversation is the per-session dialogue state.
type Conversation struct {
	SessionID     string        `json:"session_id"`
	Messages      []ChatMessage `json:"messages"`
	Preferences   Preferences   `json:"preferences"`
	MissingInfo   []string      `json:"missing_info"`
	ReadyToSearch bool          `json:"ready_to_search"`
	LastQuery     string        `json:"last_query,omitempty"`
}

// Clone deep-copies the conversation so stored state never aliases a caller's
// slices.
func (c Conversation) Clone() Conversation {
	out := c
	if len(c.Messages) > 0 {
		out.Messages = append([]ChatMessage(nil), c.Messages...)
	}
	out.Preferences = c.Preferences.Clone()
	if len(c.MissingInfo) > 0 {
		out.MissingInfo = append([]string(nil), c.MissingInfo...)
	}
	return out
}

// ChatReply is what a processed turn returns to the caller.
type ChatReply struct {
	SessionID       string      `json:"session_id"`
	Message         string      `json:"message"`
	Preferences     Preferences `json:"preferences"`
	MissingInfo     []string    `json:"missing_info"`
	ReadyToSearch   bool        `json:"ready_to_search"`
	SuggestedHotels []Hotel     `json:"suggested_hotels,omitempty"`
}
