package http

import (
	"net/http"

	"github.com/vidtube/backend/internal/middleware"
)

type commentRequest struct {
	Content    string `json:"content"`
	NewContent string `json:"newContent"`
}

func (c commentRequest) text() string {
	if c.Content != "" {
		return c.Content
	}
	return c.NewContent
}

func (h *Handler) ListVideoComments(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoId", "video")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.uc.Comments.List(r.Context(), videoID, middleware.UserIDFromContext(r.Context()), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, page, "comments fetched successfully")
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoId", "video")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	comment, err := h.uc.Comments.Add(r.Context(), videoID, currentUser(r).ID, req.text())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, comment, "comment added successfully")
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "commentId", "comment")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	comment, err := h.uc.Comments.Update(r.Context(), id, currentUser(r).ID, req.text())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, comment, "comment updated successfully")
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "commentId", "comment")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.uc.Comments.Delete(r.Context(), id, currentUser(r).ID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, struct{}{}, "comment deleted successfully")
}
