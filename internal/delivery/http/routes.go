package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/ratelimit"
)

type RouterConfig struct {
	AllowedOrigins []string
	AuthLimiter    ratelimit.Limiter
}

func NewRouter(handler *Handler, authMiddleware *middleware.AuthMiddleware, cfg RouterConfig, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(handler.responses.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		handler.fail(w, req, domain.NotFound("route not found"))
	})

	limiter := cfg.AuthLimiter
	if limiter == nil {
		limiter = ratelimit.Disabled{}
	}
	limit := func(scope string) func(http.Handler) http.Handler {
		return middleware.RateLimit(limiter, scope, handler.responses, logger)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", handler.Healthcheck)

		r.Route("/user", func(r chi.Router) {
			r.With(limit("register")).Post("/register", handler.Register)
			r.With(limit("login")).Post("/login", handler.Login)
			r.With(limit("refresh")).Post("/refresh-token", handler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/logout", handler.Logout)
				r.Get("/account", handler.GetCurrentUser)
				r.Put("/update-profile", handler.UpdateProfile)
				r.Put("/change-password", handler.ChangePassword)
				r.Post("/upload-avatar", handler.UploadAvatar)
				r.Post("/upload-cover", handler.UploadCoverImage)
				r.Get("/profile/{username}", handler.GetChannelProfile)
				r.Get("/history", handler.GetWatchHistory)
			})
		})

		r.Route("/video", func(r chi.Router) {
			r.Get("/search", handler.SearchVideos)
			r.With(authMiddleware.OptionalAuthenticate).Get("/{videoId}/comments", handler.ListVideoComments)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/upload", handler.PublishVideo)
				r.Get("/{videoId}", handler.GetVideo)
				r.Put("/{videoId}", handler.UpdateVideo)
				r.Delete("/{videoId}", handler.DeleteVideo)
				r.Put("/{videoId}/publish", handler.TogglePublishStatus)
				r.Post("/{videoId}/comment", handler.AddComment)
			})
		})

		r.Route("/comment", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Put("/{commentId}", handler.UpdateComment)
			r.Delete("/{commentId}", handler.DeleteComment)
		})

		r.Route("/like", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/video/{videoId}", handler.toggleLike(domain.LikeTargetVideo, "videoId"))
			r.Post("/comment/{commentId}", handler.toggleLike(domain.LikeTargetComment, "commentId"))
			r.Post("/tweet/{tweetId}", handler.toggleLike(domain.LikeTargetTweet, "tweetId"))
			r.Get("/videos", handler.GetLikedVideos)
		})

		r.Route("/subscription", func(r chi.Router) {
			r.Get("/{channelId}/subscribers", handler.GetChannelSubscribers)
			r.Get("/{subscriberId}/subscriptions", handler.GetSubscribedChannels)
			r.With(authMiddleware.Authenticate).Post("/{channelId}", handler.ToggleSubscription)
		})

		r.Route("/playlist", func(r chi.Router) {
			r.With(authMiddleware.OptionalAuthenticate).Get("/{playlistId}", handler.GetPlaylist)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/", handler.CreatePlaylist)
				r.Get("/user/{userId}", handler.GetUserPlaylists)
				r.Put("/{playlistId}", handler.UpdatePlaylist)
				r.Delete("/{playlistId}", handler.DeletePlaylist)
				r.Post("/{playlistId}/{videoId}", handler.AddVideoToPlaylist)
				r.Delete("/{playlistId}/{videoId}", handler.RemoveVideoFromPlaylist)
			})
		})

		r.Route("/tweet", func(r chi.Router) {
			r.Get("/{userId}", handler.GetUserTweets)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/", handler.CreateTweet)
				r.Put("/{tweetId}", handler.UpdateTweet)
				r.Delete("/{tweetId}", handler.DeleteTweet)
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/{channelId}/stats", handler.GetChannelStats)
			r.With(authMiddleware.OptionalAuthenticate).Get("/{channelId}/videos", handler.GetChannelVideos)
		})
	})

	return r
}
