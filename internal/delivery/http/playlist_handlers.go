package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/usecase"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"isPrivate"`
}

func (p playlistRequest) input() usecase.PlaylistInput {
	return usecase.PlaylistInput{Name: p.Name, Description: p.Description, IsPrivate: p.IsPrivate}
}

func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	playlist, err := h.uc.Playlists.Create(r.Context(), currentUser(r).ID, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, playlist, "playlist created successfully")
}

func (h *Handler) GetUserPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId", "user")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	playlists, err := h.uc.Playlists.ListByUser(r.Context(), userID, currentUser(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, playlists, "playlists fetched successfully")
}

// GetPlaylist runs behind OptionalAuthenticate; anonymous viewers only see
// public playlists.
func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "playlistId", "playlist")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	playlist, err := h.uc.Playlists.Get(r.Context(), id, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, playlist, "playlist fetched successfully")
}

func (h *Handler) playlistAndVideo(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	playlistID, err := pathID(r, "playlistId", "playlist")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	videoID, err := pathID(r, "videoId", "video")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return playlistID, videoID, nil
}

func (h *Handler) AddVideoToPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID, videoID, err := h.playlistAndVideo(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	playlist, err := h.uc.Playlists.AddVideo(r.Context(), playlistID, videoID, currentUser(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, playlist, "video added to playlist")
}

func (h *Handler) RemoveVideoFromPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID, videoID, err := h.playlistAndVideo(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	playlist, err := h.uc.Playlists.RemoveVideo(r.Context(), playlistID, videoID, currentUser(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, playlist, "video removed from playlist")
}

func (h *Handler) UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "playlistId", "playlist")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	playlist, err := h.uc.Playlists.Update(r.Context(), id, currentUser(r).ID, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, playlist, "playlist updated successfully")
}

func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "playlistId", "playlist")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.uc.Playlists.Delete(r.Context(), id, currentUser(r).ID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, struct{}{}, "playlist deleted successfully")
}
