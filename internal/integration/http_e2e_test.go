//go:build integration || !unit

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel_assistant/internal/adapters/elastic"
	httpserver "hotel_assistant/internal/adapters/http_server"
	"hotel_assistant/internal/app"
	"hotel_assistant/internal/domain"
	"hotel_assistant/internal/search"
	"hotel_assistant/internal/storage/memory"
)

type staticEmbedder struct{}

func (staticEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

// fakeES speaks just enough of the Elasticsearch REST surface for one
// happy-path conversation: cluster health, index count, and _search.
func fakeES(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/_cluster/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"green"}`))
	})
	mux.HandleFunc("/hotels/_count", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"count":3}`))
	})
	mux.HandleFunc("/hotels/_search", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if _, isKNN := body["knn"]; !isKNN {
			t.Error("expected the primary kNN path, got a full-text query")
		}
		w.Write([]byte(`{"hits":{"hits":[{"_source":{
			"text":"Five minutes from the Louvre, quiet rooms.",
			"vector":[0.1,0.2,0.3],
			"metadata":{
				"basics":{"id":"h1","title":"Louvre Lodge","url":"https://example.com/h1","highlights":"rooftop view, late checkout"},
				"allLocations":[{"locations":{"lon":2.3364,"lat":48.8606}}]
			}}}]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestConversation_EndToEnd(t *testing.T) {
	es := fakeES(t)

	store, err := elastic.New(es.URL, "hotels", "", "", staticEmbedder{}, 50, 5*time.Second)
	if err != nil {
		t.Fatalf("elastic client: %v", err)
	}
	gateway := search.NewGateway(store)
	chat := app.NewConversationService(memory.New(), gateway, 3)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Chat: chat, Gateway: gateway})
	api := httptest.NewServer(srv.Mux())
	t.Cleanup(api.Close)

	// Mint a session.
	resp, err := http.Post(api.URL+"/api/chat/new-session", "application/json", nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	var session map[string]string
	json.NewDecoder(resp.Body).Decode(&session)
	resp.Body.Close()
	sid := session["session_id"]
	if sid == "" {
		t.Fatal("empty session_id")
	}

	post := func(message string) domain.ChatReply {
		t.Helper()
		b, _ := json.Marshal(map[string]string{"session_id": sid, "message": message})
		resp, err := http.Post(api.URL+"/api/chat", "application/json", strings.NewReader(string(b)))
		if err != nil {
			t.Fatalf("chat: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("chat status = %d", resp.StatusCode)
		}
		var reply domain.ChatReply
		if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
			t.Fatalf("decode reply: %v", err)
		}
		return reply
	}

	// Turn 1: location only, three optionals missing, expect the joint ask.
	reply := post("looking for a hotel in Paris")
	if reply.ReadyToSearch {
		t.Error("should not search yet")
	}
	if !strings.Contains(reply.Message, "Paris") {
		t.Errorf("message = %q", reply.Message)
	}

	// Turn 2: dates and guests push it over the readiness threshold.
	reply = post("2 guests, 12/01/2025 to 12/05/2025")
	if !reply.ReadyToSearch {
		t.Fatalf("expected ready, missing = %v", reply.MissingInfo)
	}
	if len(reply.SuggestedHotels) != 1 {
		t.Fatalf("suggested = %+v", reply.SuggestedHotels)
	}
	h := reply.SuggestedHotels[0]
	if h.ID != "h1" || h.Title != "Louvre Lodge" {
		t.Errorf("hotel = %+v", h)
	}
	if h.Description != "Five minutes from the Louvre, quiet rooms." {
		t.Errorf("description = %q", h.Description)
	}
	if len(h.Highlights) != 2 || h.Highlights[0] != "rooftop view" {
		t.Errorf("highlights = %v", h.Highlights)
	}
	if h.Location.Lat != 48.8606 || h.Location.Lon != 2.3364 {
		t.Errorf("location = %+v", h.Location)
	}
	if !strings.Contains(reply.Message, "1. **Louvre Lodge**") {
		t.Errorf("reply message = %q", reply.Message)
	}
	if !strings.Contains(reply.Message, "48.8606, 2.3364") {
		t.Errorf("reply message = %q", reply.Message)
	}

	// History survives the whole exchange.
	resp, err = http.Get(api.URL + "/api/chat/" + sid + "/history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var conv domain.Conversation
	json.NewDecoder(resp.Body).Decode(&conv)
	resp.Body.Close()
	if len(conv.Messages) != 4 {
		t.Errorf("transcript length = %d, want 4", len(conv.Messages))
	}
	if conv.Preferences.CheckInDate != "12/01/2025" || conv.Preferences.CheckOutDate != "12/05/2025" {
		t.Errorf("preferences = %+v", conv.Preferences)
	}
	if conv.LastQuery != "hotel in Paris for 2 guests" {
		t.Errorf("last query = %q", conv.LastQuery)
	}
}
