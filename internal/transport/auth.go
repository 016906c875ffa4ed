package transport

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rpggio/nutrilog/internal/auth"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// TokenParser turns a bearer token into a session.
type TokenParser interface {
	Parse(token string) (auth.Session, error)
}

// AuthMiddleware enforces bearer token authentication and stores the
// session in the request context.
func AuthMiddleware(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			sess, err := parser.Parse(token)
			if err != nil || sess.UserID == "" {
				msg := "invalid bearer token"
				if errors.Is(err, auth.ErrTokenExpired) {
					msg = "bearer token expired"
				}
				writeError(w, http.StatusUnauthorized, msg)
				return
			}

			ctx := auth.WithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaticSession authenticates every request as one session, for local
// single-user setups.
func StaticSession(sess auth.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
		})
	}
}

func userID(r *http.Request) (string, bool) {
	sess, ok := auth.FromContext(r.Context())
	if !ok || sess.UserID == "" {
		return "", false
	}
	return sess.UserID, true
}
