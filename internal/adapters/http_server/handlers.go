package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_assistant/internal/app"
	"hotel_assistant/internal/domain"
	"hotel_assistant/internal/search"
)

type Handlers struct {
	Chat    *app.ConversationService
	Gateway *search.Gateway
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/health", h.health)
	s.mux.Post("/api/chat", h.chat)
	s.mux.Post("/api/chat/new-session", h.newSession)
	s.mux.Get("/api/chat/{sessionID}/history", h.history)
	s.mux.Delete("/api/chat/{sessionID}", h.clearSession)
	s.mux.Get("/api/recommendations", h.recommendations)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// health reports store reachability and indexed document count.
func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	sh, err := h.Gateway.Health(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": "degraded", "store": "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "store": sh.Status, "documents": sh.DocCount})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (h *Handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be JSON with session_id and message")
		return
	}
	if req.SessionID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "session_id is required")
		return
	}

	reply, err := h.Chat.ProcessMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Chat Failed", "error processing chat message: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *Handlers) newSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"session_id": h.Chat.NewSessionID()})
}

func (h *Handlers) history(w http.ResponseWriter, r *http.Request) {
	conv, err := h.Chat.History(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "session not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "History Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *Handlers) clearSession(w http.ResponseWriter, r *http.Request) {
	err := h.Chat.Clear(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "session not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Clear Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session cleared successfully"})
}

// recommendations bypasses the conversation and queries the store directly.
func (h *Handlers) recommendations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", "query parameter is required")
		return
	}
	topK := 5
	if ts := r.URL.Query().Get("top_k"); ts != "" {
		k, err := strconv.Atoi(ts)
		if err != nil || k <= 0 || k > 50 {
			writeProblem(w, http.StatusBadRequest, "Invalid top_k", "top_k must be an integer between 1 and 50")
			return
		}
		topK = k
	}
	writeJSON(w, http.StatusOK, h.Gateway.Search(r.Context(), query, topK))
}
