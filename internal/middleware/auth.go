package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/pkg/api"
)

// Authenticator resolves a bearer token to a user.
// *service.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (domain.User, error)
}

type ctxKey int

const userKey ctxKey = iota

// Identity is the authenticated caller stored in the request context.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// NewAuth returns a middleware that requires an "Authorization: Bearer"
// header. Requests without a valid token are rejected with 401; otherwise
// the caller's Identity is added to the request context.
func NewAuth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				unauthorized(w, "No token provided")
				return
			}

			user, err := a.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					unauthorized(w, "Invalid or expired token")
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(api.Envelope{Message: "Internal server error"})
				return
			}

			ctx := WithIdentity(r.Context(), Identity{UserID: user.ID, Email: user.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, userKey, id)
}

// IdentityFromContext returns the caller set by NewAuth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(userKey).(Identity)
	return id, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(api.Envelope{Success: false, Message: message})
}
