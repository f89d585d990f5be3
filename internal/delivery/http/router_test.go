package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/ratelimit"
	"github.com/vidtube/backend/internal/repository/memory"
	"github.com/vidtube/backend/internal/response"
	"github.com/vidtube/backend/internal/usecase"
)

// Minimal payloads that pass content sniffing.
var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	mp4Bytes = []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2\x00\x00\x00\x08free")
)

type testServer struct {
	t      *testing.T
	router http.Handler
	media  *memory.MediaStore
	store  *memory.Store
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func newTestServer(t *testing.T, opts ...func(*RouterConfig, *Usecases)) *testServer {
	t.Helper()
	logger := logging.Discard()
	store := memory.NewStore()
	media, err := memory.NewMediaStore("https://cdn.test")
	require.NoError(t, err)

	users := memory.NewUserRepository(store)
	videos := memory.NewVideoRepository(store)
	comments := memory.NewCommentRepository(store)
	likes := memory.NewLikeRepository(store)
	subs := memory.NewSubscriptionRepository(store)
	playlists := memory.NewPlaylistRepository(store)
	tweets := memory.NewTweetRepository(store)

	tokens := usecase.NewTokenService(&config.JWTConfig{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
	uc := Usecases{
		Auth:          usecase.NewAuthUsecase(users, memory.NewRefreshTokenRepository(store), tokens, media, logger),
		Users:         usecase.NewUserUsecase(users, media, logger),
		Videos:        usecase.NewVideoUsecase(videos, users, media, logger),
		Comments:      usecase.NewCommentUsecase(comments, videos),
		Likes:         usecase.NewLikeUsecase(likes, videos, comments, tweets),
		Subscriptions: usecase.NewSubscriptionUsecase(subs, users),
		Playlists:     usecase.NewPlaylistUsecase(playlists, videos, users),
		Tweets:        usecase.NewTweetUsecase(tweets, users),
		Dashboard:     usecase.NewDashboardUsecase(videos, likes, subs, users),
	}
	cfg := RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}
	for _, opt := range opts {
		opt(&cfg, &uc)
	}

	responses := response.NewWriter(false, logger, nil)
	handler := NewHandler(uc, responses, store, HandlerConfig{MaxUploadBytes: 1 << 20}, logger)
	router := NewRouter(handler, middleware.NewAuthMiddleware(uc.Auth, responses), cfg, logger)

	return &testServer{t: t, router: router, media: media, store: store}
}

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
}

type result struct {
	*httptest.ResponseRecorder
	env envelope
}

func (r result) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.env.Data, dst))
}

func (s *testServer) do(req *http.Request, token string) result {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return result{ResponseRecorder: rec, env: env}
}

func (s *testServer) json(method, path, token string, body any) result {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

type part struct {
	field, filename, contentType string
	data                         []byte
}

func (s *testServer) multipart(method, path, token string, fields map[string]string, files ...part) result {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		h.Set("Content-Type", f.contentType)
		w, err := mw.CreatePart(h)
		require.NoError(s.t, err)
		_, err = w.Write(f.data)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req, token)
}

type userJSON struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Avatar   string    `json:"avatar"`
}

func (s *testServer) register(username string) result {
	return s.multipart(http.MethodPost, "/api/v1/user/register", "", map[string]string{
		"fullname": strings.ToUpper(username[:1]) + username[1:],
		"email":    username + "@example.com",
		"username": username,
		"password": "secret-" + username,
	}, part{"avatar", "me.png", "image/png", pngBytes})
}

type session struct {
	user         userJSON
	accessToken  string
	refreshToken string
}

func (s *testServer) signUp(username string) session {
	s.t.Helper()
	require.Equal(s.t, http.StatusCreated, s.register(username).Code)

	res := s.json(http.MethodPost, "/api/v1/user/login", "", map[string]string{
		"username": username,
		"password": "secret-" + username,
	})
	require.Equal(s.t, http.StatusOK, res.Code, res.Body.String())

	var body struct {
		User         userJSON `json:"user"`
		AccessToken  string   `json:"accessToken"`
		RefreshToken string   `json:"refreshToken"`
	}
	res.decode(s.t, &body)
	return session{user: body.User, accessToken: body.AccessToken, refreshToken: body.RefreshToken}
}

type videoJSON struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Views       int64     `json:"views"`
	LikesCount  int64     `json:"likes_count"`
	IsPublished bool      `json:"is_published"`
}

func (s *testServer) publish(token, title string) videoJSON {
	s.t.Helper()
	res := s.multipart(http.MethodPost, "/api/v1/video/upload", token,
		map[string]string{"title": title, "description": "about " + title, "duration": "12.5"},
		part{"videoFile", "clip.mp4", "video/mp4", mp4Bytes},
		part{"thumbnail", "thumb.png", "image/png", pngBytes},
	)
	require.Equal(s.t, http.StatusCreated, res.Code, res.Body.String())
	var v videoJSON
	res.decode(s.t, &v)
	return v
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t)
	res := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil), "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.True(t, res.env.Success)
}

func TestHealthcheckDatabaseDown(t *testing.T) {
	logger := logging.Discard()
	responses := response.NewWriter(true, logger, nil)
	handler := NewHandler(Usecases{}, responses, failingPinger{}, HandlerConfig{}, logger)

	rec := httptest.NewRecorder()
	handler.Healthcheck(rec, httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	res := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil), "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.False(t, res.env.Success)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	res := s.register("alice")
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.True(t, res.env.Success)
	assert.NotContains(t, string(res.env.Data), "password")
	assert.NotContains(t, string(res.env.Data), "refresh")

	var user userJSON
	res.decode(t, &user)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, strings.HasPrefix(user.Avatar, "https://cdn.test/media/"))
	assert.Equal(t, 1, s.media.Len())

	dup := s.register("alice")
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Equal(t, 1, s.media.Len())
}

func TestRegisterRejectsMissingAvatarAndWrongType(t *testing.T) {
	s := newTestServer(t)
	fields := map[string]string{"fullname": "Bob", "email": "bob@example.com", "username": "bob", "password": "pw"}

	res := s.multipart(http.MethodPost, "/api/v1/user/register", "", fields)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.multipart(http.MethodPost, "/api/v1/user/register", "", fields,
		part{"avatar", "me.png", "image/png", []byte("definitely not an image")})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, 0, s.media.Len())
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.register("alice").Code)

	wrong := s.json(http.MethodPost, "/api/v1/user/login", "", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Empty(t, wrong.Result().Cookies())

	missing := s.json(http.MethodPost, "/api/v1/user/login", "", map[string]string{"email": "ghost@example.com", "password": "x"})
	assert.Equal(t, http.StatusNotFound, missing.Code)

	ok := s.json(http.MethodPost, "/api/v1/user/login", "", map[string]string{"email": "ALICE@example.com", "password": "secret-alice"})
	require.Equal(t, http.StatusOK, ok.Code)

	cookies := map[string]*http.Cookie{}
	for _, c := range ok.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, "accessToken")
	require.Contains(t, cookies, "refreshToken")
	assert.True(t, cookies["accessToken"].HttpOnly)
	assert.False(t, cookies["accessToken"].Secure)

	// The access cookie alone authenticates and resolves to the same user.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/account", nil)
	req.AddCookie(cookies["accessToken"])
	account := s.do(req, "")
	require.Equal(t, http.StatusOK, account.Code)
	var me userJSON
	account.decode(t, &me)
	assert.Equal(t, "alice", me.Username)
}

func TestRefreshRotation(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")

	first := s.json(http.MethodPost, "/api/v1/user/refresh-token", "", map[string]string{"refreshToken": alice.refreshToken})
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	var pair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	first.decode(t, &pair)
	assert.NotEqual(t, alice.refreshToken, pair.RefreshToken)

	replay := s.json(http.MethodPost, "/api/v1/user/refresh-token", "", map[string]string{"refreshToken": alice.refreshToken})
	assert.Equal(t, http.StatusUnauthorized, replay.Code)
	assert.Equal(t, "refresh token mismatch or expired", replay.env.Message)

	// The refresh cookie is accepted as well.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: pair.RefreshToken})
	assert.Equal(t, http.StatusOK, s.do(req, "").Code)

	empty := s.json(http.MethodPost, "/api/v1/user/refresh-token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, empty.Code)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")

	first := s.json(http.MethodPost, "/api/v1/user/logout", alice.accessToken, nil)
	require.Equal(t, http.StatusOK, first.Code)
	for _, c := range first.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge, c.Name)
	}

	second := s.json(http.MethodPost, "/api/v1/user/logout", alice.accessToken, nil)
	assert.Equal(t, http.StatusOK, second.Code)

	refresh := s.json(http.MethodPost, "/api/v1/user/refresh-token", "", map[string]string{"refreshToken": alice.refreshToken})
	assert.Equal(t, http.StatusUnauthorized, refresh.Code)

	anonymous := s.json(http.MethodPost, "/api/v1/user/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
	assert.Equal(t, "no token provided", anonymous.env.Message)
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")

	bad := s.json(http.MethodPut, "/api/v1/user/change-password", alice.accessToken,
		map[string]string{"oldPassword": "wrong", "newPassword": "next"})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	ok := s.json(http.MethodPut, "/api/v1/user/change-password", alice.accessToken,
		map[string]string{"oldPassword": "secret-alice", "newPassword": "next"})
	require.Equal(t, http.StatusOK, ok.Code)

	login := s.json(http.MethodPost, "/api/v1/user/login", "", map[string]string{"username": "alice", "password": "next"})
	assert.Equal(t, http.StatusOK, login.Code)
}

func TestUpdateVideoOwnership(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	bob := s.signUp("bob")
	video := s.publish(alice.accessToken, "First")
	path := "/api/v1/video/" + video.ID.String()
	update := map[string]string{"title": "Renamed", "description": "new"}

	forbidden := s.json(http.MethodPut, path, bob.accessToken, update)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)
	assert.Equal(t, "you are not the owner of this video", forbidden.env.Message)

	ok := s.json(http.MethodPut, path, alice.accessToken, update)
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())
	var updated videoJSON
	ok.decode(t, &updated)
	assert.Equal(t, "Renamed", updated.Title)

	missing := s.json(http.MethodPut, "/api/v1/video/"+uuid.NewString(), bob.accessToken, update)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	badID := s.json(http.MethodPut, "/api/v1/video/not-a-uuid", alice.accessToken, update)
	assert.Equal(t, http.StatusBadRequest, badID.Code)
}

func TestVideoViewsAndVisibility(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	bob := s.signUp("bob")
	video := s.publish(alice.accessToken, "Clip")
	path := "/api/v1/video/" + video.ID.String()

	for i := 0; i < 2; i++ {
		res := s.json(http.MethodGet, path, bob.accessToken, nil)
		require.Equal(t, http.StatusOK, res.Code)
		var v videoJSON
		res.decode(t, &v)
		assert.Equal(t, int64(1), v.Views)
	}

	history := s.json(http.MethodGet, "/api/v1/user/history", bob.accessToken, nil)
	require.Equal(t, http.StatusOK, history.Code)
	var watched []videoJSON
	history.decode(t, &watched)
	require.Len(t, watched, 1)
	assert.Equal(t, video.ID, watched[0].ID)

	toggled := s.json(http.MethodPut, path+"/publish", alice.accessToken, nil)
	require.Equal(t, http.StatusOK, toggled.Code)

	assert.Equal(t, http.StatusNotFound, s.json(http.MethodGet, path, bob.accessToken, nil).Code)
	assert.Equal(t, http.StatusOK, s.json(http.MethodGet, path, alice.accessToken, nil).Code)

	search := s.json(http.MethodGet, "/api/v1/video/search?query=clip", bob.accessToken, nil)
	require.Equal(t, http.StatusOK, search.Code)
	var page struct {
		Videos []videoJSON `json:"videos"`
		Total  int         `json:"total"`
	}
	search.decode(t, &page)
	assert.Equal(t, 0, page.Total)

	bad := s.json(http.MethodGet, "/api/v1/video/search?sortBy=likes", bob.accessToken, nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestDeleteVideoRemovesMedia(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	before := s.media.Len()
	video := s.publish(alice.accessToken, "Gone soon")
	assert.Equal(t, before+2, s.media.Len())

	res := s.json(http.MethodDelete, "/api/v1/video/"+video.ID.String(), alice.accessToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, before, s.media.Len())
}

func TestCommentsAndLikes(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	bob := s.signUp("bob")
	video := s.publish(alice.accessToken, "Talk")
	videoPath := "/api/v1/video/" + video.ID.String()

	added := s.json(http.MethodPost, videoPath+"/comment", bob.accessToken, map[string]string{"content": "nice"})
	require.Equal(t, http.StatusCreated, added.Code)
	var comment struct {
		ID      uuid.UUID `json:"id"`
		Content string    `json:"content"`
	}
	added.decode(t, &comment)

	edit := s.json(http.MethodPut, "/api/v1/comment/"+comment.ID.String(), alice.accessToken, map[string]string{"content": "hijack"})
	assert.Equal(t, http.StatusForbidden, edit.Code)
	edit = s.json(http.MethodPut, "/api/v1/comment/"+comment.ID.String(), bob.accessToken, map[string]string{"newContent": "very nice"})
	require.Equal(t, http.StatusOK, edit.Code)

	like := s.json(http.MethodPost, "/api/v1/like/video/"+video.ID.String(), bob.accessToken, nil)
	require.Equal(t, http.StatusOK, like.Code)
	var toggle struct {
		Liked bool `json:"liked"`
	}
	like.decode(t, &toggle)
	assert.True(t, toggle.Liked)

	liked := s.json(http.MethodGet, "/api/v1/like/videos", bob.accessToken, nil)
	var likedVideos []struct {
		Video struct {
			ID uuid.UUID `json:"id"`
		} `json:"video"`
	}
	liked.decode(t, &likedVideos)
	require.Len(t, likedVideos, 1)
	assert.Equal(t, video.ID, likedVideos[0].Video.ID)

	unlike := s.json(http.MethodPost, "/api/v1/like/video/"+video.ID.String(), bob.accessToken, nil)
	unlike.decode(t, &toggle)
	assert.False(t, toggle.Liked)

	missing := s.json(http.MethodPost, "/api/v1/like/tweet/"+uuid.NewString(), bob.accessToken, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	list := s.json(http.MethodGet, videoPath+"/comments?page=1&limit=5", alice.accessToken, nil)
	require.Equal(t, http.StatusOK, list.Code)
	var page struct {
		Comments []struct {
			Content string `json:"content"`
		} `json:"comments"`
		Total int `json:"total"`
	}
	list.decode(t, &page)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "very nice", page.Comments[0].Content)
}

func TestSubscriptions(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	bob := s.signUp("bob")
	channel := "/api/v1/subscription/" + alice.user.ID.String()

	self := s.json(http.MethodPost, channel, alice.accessToken, nil)
	assert.Equal(t, http.StatusBadRequest, self.Code)

	sub := s.json(http.MethodPost, channel, bob.accessToken, nil)
	assert.Equal(t, http.StatusCreated, sub.Code)

	subscribers := s.json(http.MethodGet, channel+"/subscribers", bob.accessToken, nil)
	var users []userJSON
	subscribers.decode(t, &users)
	require.Len(t, users, 1)
	assert.Equal(t, bob.user.ID, users[0].ID)

	profile := s.json(http.MethodGet, "/api/v1/user/profile/alice", bob.accessToken, nil)
	require.Equal(t, http.StatusOK, profile.Code)
	var p struct {
		SubscribersCount int64 `json:"subscribers_count"`
		IsSubscribed     bool  `json:"is_subscribed"`
	}
	profile.decode(t, &p)
	assert.Equal(t, int64(1), p.SubscribersCount)
	assert.True(t, p.IsSubscribed)

	unsub := s.json(http.MethodPost, channel, bob.accessToken, nil)
	assert.Equal(t, http.StatusOK, unsub.Code)

	none := s.json(http.MethodGet, "/api/v1/subscription/"+bob.user.ID.String()+"/subscriptions", bob.accessToken, nil)
	require.Equal(t, http.StatusOK, none.Code)
	assert.JSONEq(t, "[]", string(none.env.Data))
}

func TestPlaylistPrivacy(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	bob := s.signUp("bob")
	video := s.publish(alice.accessToken, "Song")

	created := s.json(http.MethodPost, "/api/v1/playlist/", alice.accessToken,
		map[string]any{"name": "Secret mix", "isPrivate": true})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	var playlist struct {
		ID     uuid.UUID `json:"id"`
		Videos []any     `json:"videos"`
	}
	created.decode(t, &playlist)
	path := "/api/v1/playlist/" + playlist.ID.String()

	add := s.json(http.MethodPost, path+"/"+video.ID.String(), alice.accessToken, nil)
	require.Equal(t, http.StatusOK, add.Code)
	again := s.json(http.MethodPost, path+"/"+video.ID.String(), alice.accessToken, nil)
	assert.Equal(t, http.StatusBadRequest, again.Code)
	intruder := s.json(http.MethodPost, path+"/"+video.ID.String(), bob.accessToken, nil)
	assert.Equal(t, http.StatusForbidden, intruder.Code)

	assert.Equal(t, http.StatusNotFound, s.json(http.MethodGet, path, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.json(http.MethodGet, path, bob.accessToken, nil).Code)

	owner := s.json(http.MethodGet, path, alice.accessToken, nil)
	require.Equal(t, http.StatusOK, owner.Code)
	owner.decode(t, &playlist)
	assert.Len(t, playlist.Videos, 1)

	var lists []any
	s.json(http.MethodGet, "/api/v1/playlist/user/"+alice.user.ID.String(), bob.accessToken, nil).decode(t, &lists)
	assert.Empty(t, lists)
	s.json(http.MethodGet, "/api/v1/playlist/user/"+alice.user.ID.String(), alice.accessToken, nil).decode(t, &lists)
	assert.Len(t, lists, 1)

	remove := s.json(http.MethodDelete, path+"/"+video.ID.String(), alice.accessToken, nil)
	require.Equal(t, http.StatusOK, remove.Code)
	removeAgain := s.json(http.MethodDelete, path+"/"+video.ID.String(), alice.accessToken, nil)
	assert.Equal(t, http.StatusBadRequest, removeAgain.Code)
}

func TestTweetsAndDashboard(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	bob := s.signUp("bob")

	tweet := s.json(http.MethodPost, "/api/v1/tweet/", alice.accessToken, map[string]string{"content": "hello"})
	require.Equal(t, http.StatusCreated, tweet.Code)
	var tw struct {
		ID uuid.UUID `json:"id"`
	}
	tweet.decode(t, &tw)

	assert.Equal(t, http.StatusForbidden,
		s.json(http.MethodDelete, "/api/v1/tweet/"+tw.ID.String(), bob.accessToken, nil).Code)
	assert.Equal(t, http.StatusOK,
		s.json(http.MethodPost, "/api/v1/like/tweet/"+tw.ID.String(), bob.accessToken, nil).Code)

	var tweets []struct {
		LikesCount int64 `json:"likes_count"`
	}
	s.json(http.MethodGet, "/api/v1/tweet/"+alice.user.ID.String(), bob.accessToken, nil).decode(t, &tweets)
	require.Len(t, tweets, 1)
	assert.Equal(t, int64(1), tweets[0].LikesCount)

	video := s.publish(alice.accessToken, "Stats")
	s.json(http.MethodGet, "/api/v1/video/"+video.ID.String(), bob.accessToken, nil)
	s.json(http.MethodPost, "/api/v1/like/video/"+video.ID.String(), bob.accessToken, nil)
	s.json(http.MethodPost, "/api/v1/subscription/"+alice.user.ID.String(), bob.accessToken, nil)

	stats := s.json(http.MethodGet, "/api/v1/dashboard/"+alice.user.ID.String()+"/stats", alice.accessToken, nil)
	require.Equal(t, http.StatusOK, stats.Code)
	assert.JSONEq(t, `{"total_videos":1,"total_views":1,"total_likes":1,"total_subscribers":1}`, string(stats.env.Data))

	assert.Equal(t, http.StatusNotFound,
		s.json(http.MethodGet, "/api/v1/dashboard/"+uuid.NewString()+"/stats", alice.accessToken, nil).Code)
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig, _ *Usecases) {
		cfg.AuthLimiter = ratelimit.NewMemory(2, time.Minute)
	})

	body := map[string]string{"username": "nobody", "password": "x"}
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusNotFound, s.json(http.MethodPost, "/api/v1/user/login", "", body).Code)
	}
	limited := s.json(http.MethodPost, "/api/v1/user/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
}

func TestPublicReadsAllowAnonymous(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	published := s.publish(alice.accessToken, "Public")
	draft := s.publish(alice.accessToken, "Draft")
	require.Equal(t, http.StatusOK, s.json(http.MethodPut, "/api/v1/video/"+draft.ID.String()+"/publish", alice.accessToken, nil).Code)
	channel := alice.user.ID.String()

	for _, path := range []string{
		"/api/v1/video/search?query=public",
		"/api/v1/video/" + published.ID.String() + "/comments",
		"/api/v1/tweet/" + channel,
		"/api/v1/subscription/" + channel + "/subscribers",
		"/api/v1/subscription/" + channel + "/subscriptions",
		"/api/v1/dashboard/" + channel + "/stats",
		"/api/v1/dashboard/" + channel + "/videos",
	} {
		res := s.json(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, res.Code, "%s: %s", path, res.Body.String())
	}

	// Anonymous callers only see published videos and cannot read a draft's comments.
	var anonymous []videoJSON
	s.json(http.MethodGet, "/api/v1/dashboard/"+channel+"/videos", "", nil).decode(t, &anonymous)
	require.Len(t, anonymous, 1)
	assert.Equal(t, published.ID, anonymous[0].ID)
	var own []videoJSON
	s.json(http.MethodGet, "/api/v1/dashboard/"+channel+"/videos", alice.accessToken, nil).decode(t, &own)
	assert.Len(t, own, 2)

	assert.Equal(t, http.StatusNotFound,
		s.json(http.MethodGet, "/api/v1/video/"+draft.ID.String()+"/comments", "", nil).Code)
	assert.Equal(t, http.StatusOK,
		s.json(http.MethodGet, "/api/v1/video/"+draft.ID.String()+"/comments", alice.accessToken, nil).Code)

	// Mutations on the same subtrees still need a session.
	assert.Equal(t, http.StatusUnauthorized,
		s.json(http.MethodPost, "/api/v1/subscription/"+channel, "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		s.json(http.MethodPost, "/api/v1/tweet/", "", map[string]string{"content": "hi"}).Code)
	assert.Equal(t, http.StatusUnauthorized,
		s.json(http.MethodGet, "/api/v1/video/"+published.ID.String(), "", nil).Code)
}

func TestUpdateVideoChecksOwnerBeforeReadingUpload(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	bob := s.signUp("bob")
	video := s.publish(alice.accessToken, "Mine")
	path := "/api/v1/video/" + video.ID.String()
	fields := map[string]string{"title": "Taken", "description": "x"}
	notAnImage := part{"thumbnail", "thumb.png", "image/png", []byte("plain text, not a picture")}

	forbidden := s.multipart(http.MethodPut, path, bob.accessToken, fields, notAnImage)
	assert.Equal(t, http.StatusForbidden, forbidden.Code, forbidden.Body.String())

	missing := s.multipart(http.MethodPut, "/api/v1/video/"+uuid.NewString(), bob.accessToken, fields, notAnImage)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	invalid := s.multipart(http.MethodPut, path, alice.accessToken, fields, notAnImage)
	assert.Equal(t, http.StatusBadRequest, invalid.Code, invalid.Body.String())
}
