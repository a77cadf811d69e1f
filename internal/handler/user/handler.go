package user

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/morrisliu/voicechat/backend/internal/auth"
	usermodel "github.com/morrisliu/voicechat/backend/internal/model/user"
	"github.com/morrisliu/voicechat/backend/pkg/respond"
)

// Getter is the slice of the persistence gateway this handler reads from.
type Getter interface {
	GetUser(ctx context.Context, id string) *usermodel.User
}

// Handler serves the user-profile route.
type Handler struct {
	store Getter
}

// New creates the user handler.
func New(store Getter) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the user routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/user", h.handleGet)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Token is missing"})
		return
	}

	u := h.store.GetUser(r.Context(), subject)
	if u == nil {
		respond.JSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"user": u})
}
