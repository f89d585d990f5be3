package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/response"
	"github.com/vidtube/backend/internal/usecase"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Usecases struct {
	Auth          *usecase.AuthUsecase
	Users         *usecase.UserUsecase
	Videos        *usecase.VideoUsecase
	Comments      *usecase.CommentUsecase
	Likes         *usecase.LikeUsecase
	Subscriptions *usecase.SubscriptionUsecase
	Playlists     *usecase.PlaylistUsecase
	Tweets        *usecase.TweetUsecase
	Dashboard     *usecase.DashboardUsecase
}

type Handler struct {
	uc             Usecases
	responses      *response.Writer
	db             Pinger
	secureCookies  bool
	maxUploadBytes int64
	logger         *slog.Logger
}

type HandlerConfig struct {
	SecureCookies  bool
	MaxUploadBytes int64
}

func NewHandler(uc Usecases, responses *response.Writer, db Pinger, cfg HandlerConfig, logger *slog.Logger) *Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 512 << 20
	}
	return &Handler{
		uc:             uc,
		responses:      responses,
		db:             db,
		secureCookies:  cfg.SecureCookies,
		maxUploadBytes: cfg.MaxUploadBytes,
		logger:         logging.WithComponent(logger, "http"),
	}
}

func (h *Handler) ok(w http.ResponseWriter, status int, data any, message string) {
	h.responses.OK(w, status, data, message)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.responses.Error(w, r, err)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return domain.BadRequest("invalid request body")
	}
	return nil
}

func pathID(r *http.Request, param, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, domain.BadRequest("invalid " + what + " id")
	}
	return id, nil
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

// currentUser is only called behind Authenticate.
func currentUser(r *http.Request) *domain.User {
	user, _ := middleware.UserFromContext(r.Context())
	return user
}

func (h *Handler) Healthcheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.fail(w, r, domain.Internal("database unreachable", err))
		return
	}
	h.ok(w, http.StatusOK, map[string]string{"status": "OK"}, "OK")
}
