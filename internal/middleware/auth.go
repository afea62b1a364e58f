package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/waterworks-ph/waterworks/internal/auth"
	"github.com/waterworks-ph/waterworks/internal/models"
)

// Session is the authenticated operator identity for one request. It is an
// explicit value threaded through the request context — handlers never
// consult ambient global state to learn who is acting.
type Session struct {
	StaffID string
	Email   string
	Role    string
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const sessionKey contextKey = "session"

// GetSession extracts the operator session from the context.
// Returns nil if the request was not authenticated.
func GetSession(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey).(*Session)
	return s
}

// sessionHolder carries the session outward to middleware mounted outside
// RequireAuth. RequireAuth derives a new request context for its inner
// handlers, so an outer middleware never sees sessionKey on its own request;
// the holder is installed by the outer middleware and filled in here.
type sessionHolder struct {
	session *Session
}

const holderKey contextKey = "session_holder"

// withSessionHolder installs an empty holder and returns it with the derived
// context.
func withSessionHolder(ctx context.Context) (context.Context, *sessionHolder) {
	h := &sessionHolder{}
	return context.WithValue(ctx, holderKey, h), h
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// RequireAuth returns middleware that validates the Bearer token and stores
// the operator session in the request context.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}

			session := &Session{
				StaffID: claims.StaffID,
				Email:   claims.Email,
				Role:    claims.Role,
			}
			if h, ok := r.Context().Value(holderKey).(*sessionHolder); ok {
				h.session = session
			}
			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTeller returns middleware that rejects requests from sessions
// without the teller role. Payments and account management are teller-only;
// meter readers keep read access plus reading entry.
func RequireTeller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSession(r.Context())
		if session == nil {
			writeError(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
			return
		}
		if session.Role != models.RoleTeller {
			writeError(w, http.StatusForbidden, "teller role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
