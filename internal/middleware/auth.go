package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/response"
)

const AccessTokenCookie = "accessToken"

type contextKey string

const userKey contextKey = "user"

// Identifier resolves an access token to the sanitized user it was issued to.
type Identifier interface {
	Identify(ctx context.Context, accessToken string) (*domain.User, error)
}

type AuthMiddleware struct {
	identifier Identifier
	responses  *response.Writer
}

func NewAuthMiddleware(identifier Identifier, responses *response.Writer) *AuthMiddleware {
	return &AuthMiddleware{identifier: identifier, responses: responses}
}

// bearerToken prefers the accessToken cookie over the Authorization header.
func bearerToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			m.responses.Error(w, r, domain.Unauthorized("no token provided"))
			return
		}

		user, err := m.identifier.Identify(r.Context(), token)
		if err != nil {
			m.responses.Error(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// OptionalAuthenticate attaches the user when a valid token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if user, err := m.identifier.Identify(r.Context(), token); err == nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}

// UserIDFromContext returns uuid.Nil for anonymous requests.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID
	}
	return uuid.Nil
}
