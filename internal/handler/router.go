package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/morrisliu/voicechat/backend/internal/auth"
	chathandler "github.com/morrisliu/voicechat/backend/internal/handler/chat"
	memoryhandler "github.com/morrisliu/voicechat/backend/internal/handler/memory"
	speechhandler "github.com/morrisliu/voicechat/backend/internal/handler/speech"
	userhandler "github.com/morrisliu/voicechat/backend/internal/handler/user"
	middlewarePkg "github.com/morrisliu/voicechat/backend/internal/middleware"
	chatservice "github.com/morrisliu/voicechat/backend/internal/service/chat"
	speechservice "github.com/morrisliu/voicechat/backend/internal/service/speech"
	"github.com/morrisliu/voicechat/backend/internal/store"
	"github.com/morrisliu/voicechat/backend/pkg/respond"
)

// NewRouter wires HTTP routes to core services. Everything except /health and
// the audio files sits behind the auth gate, and every response goes through
// the envelope.
func NewRouter(codec *auth.Codec, chatSvc *chatservice.Service, speechSvc *speechservice.Service, st *store.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Synthesized wav files; served without auth so audio_url works in an
	// <audio> tag. Directory requests are refused so unguessable file names
	// stay unguessable.
	audioServer := http.StripPrefix("/audio/", http.FileServer(http.Dir(speechSvc.OutputDir())))
	r.Handle("/audio/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			respond.JSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
			return
		}
		audioServer.ServeHTTP(w, r)
	}))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.RequireToken(codec))

		chathandler.New(chatSvc, st).RegisterRoutes(protected)
		memoryhandler.New(st).RegisterRoutes(protected)
		speechhandler.New(speechSvc).RegisterRoutes(protected)
		userhandler.New(st).RegisterRoutes(protected)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	return r
}
