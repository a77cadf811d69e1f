package memory

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/morrisliu/voicechat/backend/internal/auth"
	"github.com/morrisliu/voicechat/backend/pkg/respond"
)

// Saver is the slice of the persistence gateway this handler writes to.
type Saver interface {
	SaveUserMemory(ctx context.Context, userID, memoryType, information string, importance float64) bool
}

// Handler serves the user-memory route.
type Handler struct {
	store Saver
}

// New creates the memory handler.
func New(store Saver) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the memory routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/memory", h.handleSave)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Token is missing"})
		return
	}

	var payload struct {
		Type        string   `json:"type"`
		Information string   `json:"information"`
		Importance  *float64 `json:"importance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		return
	}
	if payload.Type == "" || payload.Information == "" || payload.Importance == nil {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		return
	}

	if !h.store.SaveUserMemory(r.Context(), subject, payload.Type, payload.Information, *payload.Importance) {
		respond.JSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save memory"})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Memory saved successfully"})
}
