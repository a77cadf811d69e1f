package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/morrisliu/voicechat/backend/internal/auth"
	chatmodel "github.com/morrisliu/voicechat/backend/internal/model/chat"
	"github.com/morrisliu/voicechat/backend/pkg/respond"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// Orchestrator runs one chat exchange end to end.
type Orchestrator interface {
	Process(ctx context.Context, req chatmodel.Request) (chatmodel.Response, bool)
}

// HistoryStore reads persisted conversation turns.
type HistoryStore interface {
	ConversationHistory(ctx context.Context, userID string, limit int) []chatmodel.Conversation
}

// Handler serves the chat and conversation-history routes.
type Handler struct {
	chatSvc Orchestrator
	store   HistoryStore
}

// New creates the chat handler.
func New(chatSvc Orchestrator, store HistoryStore) *Handler {
	return &Handler{chatSvc: chatSvc, store: store}
}

// RegisterRoutes mounts the chat routes; the router guards them with the
// auth middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/conversations", h.handleConversations)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Token is missing"})
		return
	}

	var payload struct {
		Message string           `json:"message"`
		Context []chatmodel.Turn `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Message == "" {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "Message is required"})
		return
	}

	resp, ok := h.chatSvc.Process(r.Context(), chatmodel.Request{
		Message: payload.Message,
		UserID:  subject,
		Context: payload.Context,
	})
	if !ok {
		log.Printf("[chat] exchange failed for user %s: %s", subject, resp.Err)
		respond.JSON(w, http.StatusInternalServerError, map[string]string{"error": resp.Err})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"text":      resp.Text,
		"audio_url": resp.AudioURL,
	})
}

func (h *Handler) handleConversations(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Token is missing"})
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxHistoryLimit {
			respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	conversations := h.store.ConversationHistory(r.Context(), subject, limit)
	respond.JSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}
