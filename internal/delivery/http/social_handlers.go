package http

import (
	"net/http"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/middleware"
)

// Likes

func (h *Handler) toggleLike(target domain.LikeTarget, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, err := pathID(r, param, string(target))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		result, err := h.uc.Likes.Toggle(r.Context(), currentUser(r).ID, target, targetID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		message := string(target) + " unliked"
		if result.Liked {
			message = string(target) + " liked"
		}
		h.ok(w, http.StatusOK, result, message)
	}
}

func (h *Handler) GetLikedVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.uc.Likes.LikedVideos(r.Context(), currentUser(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, videos, "liked videos fetched successfully")
}

// Subscriptions

func (h *Handler) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	channelID, err := pathID(r, "channelId", "channel")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.uc.Subscriptions.Toggle(r.Context(), currentUser(r).ID, channelID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if result.Subscribed {
		h.ok(w, http.StatusCreated, result, "subscribed successfully")
		return
	}
	h.ok(w, http.StatusOK, result, "unsubscribed successfully")
}

func (h *Handler) GetChannelSubscribers(w http.ResponseWriter, r *http.Request) {
	channelID, err := pathID(r, "channelId", "channel")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	users, err := h.uc.Subscriptions.Subscribers(r.Context(), channelID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, users, "subscribers fetched successfully")
}

func (h *Handler) GetSubscribedChannels(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := pathID(r, "subscriberId", "subscriber")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	channels, err := h.uc.Subscriptions.SubscribedChannels(r.Context(), subscriberID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, channels, "subscribed channels fetched successfully")
}

// Tweets

type tweetRequest struct {
	Content string `json:"content"`
}

func (h *Handler) CreateTweet(w http.ResponseWriter, r *http.Request) {
	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	tweet, err := h.uc.Tweets.Create(r.Context(), currentUser(r).ID, req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, tweet, "tweet created successfully")
}

func (h *Handler) GetUserTweets(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId", "user")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tweets, err := h.uc.Tweets.ListByUser(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, tweets, "tweets fetched successfully")
}

func (h *Handler) UpdateTweet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tweetId", "tweet")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	tweet, err := h.uc.Tweets.Update(r.Context(), id, currentUser(r).ID, req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, tweet, "tweet updated successfully")
}

func (h *Handler) DeleteTweet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tweetId", "tweet")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.uc.Tweets.Delete(r.Context(), id, currentUser(r).ID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, struct{}{}, "tweet deleted successfully")
}

// Dashboard

func (h *Handler) GetChannelStats(w http.ResponseWriter, r *http.Request) {
	channelID, err := pathID(r, "channelId", "channel")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	stats, err := h.uc.Dashboard.Stats(r.Context(), channelID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, stats, "channel stats fetched successfully")
}

func (h *Handler) GetChannelVideos(w http.ResponseWriter, r *http.Request) {
	channelID, err := pathID(r, "channelId", "channel")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	videos, err := h.uc.Dashboard.Videos(r.Context(), channelID, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, videos, "channel videos fetched successfully")
}
