package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/morrisliu/voicechat/backend/pkg/respond"
)

type contextKey struct{}

var subjectKey contextKey

// SubjectFromContext returns the verified caller identity placed by RequireToken.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

// RequireToken guards a handler chain behind a bearer credential. The second
// whitespace-separated field of the Authorization header is the token; on
// success the subject is injected into the request context. Only failures are
// logged.
func RequireToken(codec *Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				log.Printf("[auth] rejected %s %s: missing authorization header", r.Method, r.URL.Path)
				respond.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Token is missing"})
				return
			}

			parts := strings.Fields(header)
			if len(parts) < 2 {
				log.Printf("[auth] rejected %s %s: malformed authorization header", r.Method, r.URL.Path)
				respond.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
				return
			}

			subject, err := codec.Verify(parts[1])
			if err != nil {
				log.Printf("[auth] rejected %s %s: %v", r.Method, r.URL.Path, err)
				message := "Invalid token"
				if errors.Is(err, ErrExpiredToken) {
					message = "Token has expired"
				}
				respond.JSON(w, http.StatusUnauthorized, map[string]string{"message": message})
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
