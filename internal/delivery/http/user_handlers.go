package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/usecase"
)

type authResponse struct {
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := h.parseMultipart(w, r); err != nil {
		h.fail(w, r, err)
		return
	}
	files := &formFiles{}
	defer files.Close()

	fields, err := formOrJSON(r, "fullname", "email", "username", "password")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	avatar, err := files.get(r, "avatar", "image")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cover, err := files.get(r, "coverImage", "image")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.uc.Auth.Register(r.Context(), usecase.RegisterInput{
		FullName:   fields["fullname"],
		Email:      fields["email"],
		Username:   fields["username"],
		Password:   fields["password"],
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, user, "user registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, pair, err := h.uc.Auth.Login(r.Context(), usecase.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	h.ok(w, http.StatusOK, authResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "user logged in successfully")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Auth.Logout(r.Context(), currentUser(r).ID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.clearAuthCookies(w)
	h.ok(w, http.StatusOK, struct{}{}, "user logged out")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil {
			h.fail(w, r, err)
			return
		}
		token = req.RefreshToken
	}

	pair, err := h.uc.Auth.Refresh(r.Context(), token)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	h.ok(w, http.StatusOK, authResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "access token refreshed")
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, currentUser(r), "current user fetched successfully")
}

type updateProfileRequest struct {
	FullName string `json:"fullname"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.uc.Users.UpdateProfile(r.Context(), currentUser(r).ID, req.FullName)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, user, "account details updated successfully")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.uc.Auth.ChangePassword(r.Context(), currentUser(r).ID, req.OldPassword, req.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, struct{}{}, "password changed successfully")
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "avatar", h.uc.Users.UpdateAvatar, "avatar updated successfully")
}

func (h *Handler) UploadCoverImage(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "coverImage", h.uc.Users.UpdateCoverImage, "cover image updated successfully")
}

func (h *Handler) replaceImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, id uuid.UUID, file *domain.MediaFile) (*domain.User, error),
	message string,
) {
	if err := h.parseMultipart(w, r); err != nil {
		h.fail(w, r, err)
		return
	}
	files := &formFiles{}
	defer files.Close()

	file, err := files.get(r, field, "image")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if file == nil {
		h.fail(w, r, domain.BadRequest(field+" file is missing"))
		return
	}

	user, err := update(r.Context(), currentUser(r).ID, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, user, message)
}

func (h *Handler) GetChannelProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.uc.Users.ChannelProfile(r.Context(), chi.URLParam(r, "username"), currentUser(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, profile, "channel profile fetched successfully")
}

func (h *Handler) GetWatchHistory(w http.ResponseWriter, r *http.Request) {
	videos, err := h.uc.Users.WatchHistory(r.Context(), currentUser(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, videos, "watch history fetched successfully")
}
