package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/morrisliu/voicechat/backend/internal/auth"
	"github.com/morrisliu/voicechat/backend/pkg/respond"
)

// Synthesizer renders text to a servable audio URL.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Handler serves the standalone audio-generation route.
type Handler struct {
	speechSvc Synthesizer
}

// New creates the speech handler.
func New(speechSvc Synthesizer) *Handler {
	return &Handler{speechSvc: speechSvc}
}

// RegisterRoutes mounts the speech routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate-audio", h.handleGenerate)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Token is missing"})
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Text == "" {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "Text is required"})
		return
	}

	audioURL, err := h.speechSvc.Synthesize(r.Context(), payload.Text)
	if err != nil {
		log.Printf("[speech] synthesis failed for user %s: %v", subject, err)
		respond.JSON(w, http.StatusInternalServerError, map[string]string{
			"error": fmt.Sprintf("Audio generation failed: %v", err),
		})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"audio_url": audioURL})
}
