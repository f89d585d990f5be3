package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/usecase"
)

func (h *Handler) SearchVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.uc.Videos.Search(r.Context(), usecase.VideoSearchInput{
		Query:    q.Get("query"),
		UserID:   q.Get("userId"),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, page, "videos fetched successfully")
}

func (h *Handler) PublishVideo(w http.ResponseWriter, r *http.Request) {
	if err := h.parseMultipart(w, r); err != nil {
		h.fail(w, r, err)
		return
	}
	if r.MultipartForm == nil {
		h.fail(w, r, domain.BadRequest("multipart form is required"))
		return
	}
	files := &formFiles{}
	defer files.Close()

	var duration float64
	if raw := strings.TrimSpace(r.FormValue("duration")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.fail(w, r, domain.BadRequest("invalid duration"))
			return
		}
		duration = d
	}

	videoFile, err := files.get(r, "videoFile", "video")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	thumbnail, err := files.get(r, "thumbnail", "image")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	video, err := h.uc.Videos.Publish(r.Context(), currentUser(r).ID, usecase.PublishVideoInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Duration:    duration,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, video, "video published successfully")
}

func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "videoId", "video")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	video, err := h.uc.Videos.Get(r.Context(), id, currentUser(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, video, "video fetched successfully")
}

func (h *Handler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "videoId", "video")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	actorID := currentUser(r).ID
	if err := h.uc.Videos.Authorize(r.Context(), id, actorID); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.parseMultipart(w, r); err != nil {
		h.fail(w, r, err)
		return
	}
	files := &formFiles{}
	defer files.Close()

	fields, err := formOrJSON(r, "title", "description")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	thumbnail, err := files.get(r, "thumbnail", "image")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	video, err := h.uc.Videos.Update(r.Context(), id, actorID, usecase.UpdateVideoInput{
		Title:       fields["title"],
		Description: fields["description"],
		Thumbnail:   thumbnail,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, video, "video updated successfully")
}

func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "videoId", "video")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.uc.Videos.Delete(r.Context(), id, currentUser(r).ID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, struct{}{}, "video deleted successfully")
}

func (h *Handler) TogglePublishStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "videoId", "video")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	video, err := h.uc.Videos.TogglePublish(r.Context(), id, currentUser(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, video, "publish status toggled successfully")
}
