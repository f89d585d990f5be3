package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/ratelimit"
	"github.com/vidtube/backend/internal/repository/memory"
	"github.com/vidtube/backend/internal/response"
	"github.com/vidtube/backend/internal/usecase"
)

type authFixture struct {
	mw     *AuthMiddleware
	tokens *usecase.TokenService
	users  *memory.UserRepository
	alice  *domain.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	media, err := memory.NewMediaStore("")
	require.NoError(t, err)

	tokens := usecase.NewTokenService(&config.JWTConfig{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
	auth := usecase.NewAuthUsecase(users, memory.NewRefreshTokenRepository(store), tokens, media, logging.Discard())

	alice := &domain.User{
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice",
		PasswordHash: "hash",
		RefreshToken: "stored-refresh",
	}
	require.NoError(t, users.Create(context.Background(), alice))

	return &authFixture{
		mw:     NewAuthMiddleware(auth, response.NewWriter(false, logging.Discard(), nil)),
		tokens: tokens,
		users:  users,
		alice:  alice,
	}
}

func (f *authFixture) accessToken(t *testing.T, user *domain.User) string {
	t.Helper()
	token, _, err := f.tokens.IssueAccessToken(user)
	require.NoError(t, err)
	return token
}

// echo records the identity the middleware attached.
func echo(seen **domain.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFromContext(r.Context()); ok {
			*seen = user
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Message
}

func TestAuthenticateWithHeader(t *testing.T) {
	f := newAuthFixture(t)
	var seen *domain.User

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+f.accessToken(t, f.alice))
	rec := httptest.NewRecorder()
	f.mw.Authenticate(echo(&seen)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, f.alice.ID, seen.ID)
	assert.Empty(t, seen.PasswordHash)
	assert.Empty(t, seen.RefreshToken)
}

func TestAuthenticateCookieTakesPrecedence(t *testing.T) {
	f := newAuthFixture(t)
	bob := &domain.User{Username: "bob", Email: "bob@example.com", FullName: "Bob", PasswordHash: "x"}
	require.NoError(t, f.users.Create(context.Background(), bob))

	var seen *domain.User
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: f.accessToken(t, f.alice)})
	req.Header.Set("Authorization", "Bearer "+f.accessToken(t, bob))
	rec := httptest.NewRecorder()
	f.mw.Authenticate(echo(&seen)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, f.alice.ID, seen.ID)
}

func TestAuthenticateRejects(t *testing.T) {
	f := newAuthFixture(t)
	ghost := &domain.User{ID: uuid.New(), Username: "ghost"}

	cases := []struct {
		name    string
		header  string
		message string
	}{
		{"no token", "", "no token provided"},
		{"wrong scheme", "Basic abc", "no token provided"},
		{"garbage", "Bearer not-a-jwt", "invalid access token"},
		{"unknown user", "Bearer " + f.accessToken(t, ghost), "invalid token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			f.mw.Authenticate(next).ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tc.message, message(t, rec))
		})
	}
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	refresh, _, err := f.tokens.IssueRefreshToken(f.alice.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	f.mw.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid access token", message(t, rec))
}

func TestOptionalAuthenticate(t *testing.T) {
	f := newAuthFixture(t)

	var seen *domain.User
	rec := httptest.NewRecorder()
	f.mw.OptionalAuthenticate(echo(&seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	f.mw.OptionalAuthenticate(echo(&seen)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+f.accessToken(t, f.alice))
	rec = httptest.NewRecorder()
	f.mw.OptionalAuthenticate(echo(&seen)).ServeHTTP(rec, req)
	require.NotNil(t, seen)
	assert.Equal(t, f.alice.ID, seen.ID)
}

func TestUserIDFromContext(t *testing.T) {
	assert.Equal(t, uuid.Nil, UserIDFromContext(context.Background()))
	id := uuid.New()
	assert.Equal(t, id, UserIDFromContext(WithUser(context.Background(), &domain.User{ID: id})))
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("redis down")
}

func TestRateLimit(t *testing.T) {
	responses := response.NewWriter(true, logging.Discard(), nil)
	limited := RateLimit(ratelimit.NewMemory(2, time.Minute), "login", responses, logging.Discard())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	hit := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:2222").Code)

	rec := hit("10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit("10.0.0.2:1111").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	responses := response.NewWriter(true, logging.Discard(), nil)
	h := RateLimit(failingLimiter{}, "login", responses, logging.Discard())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
	)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
